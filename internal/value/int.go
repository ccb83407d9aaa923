package value

import (
	"strconv"

	"github.com/solar-lang/solar-compiler/internal/typesystem"
)

// IntKind is the width and signedness of an Int.
type IntKind uint8

const (
	Int8 IntKind = iota
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
)

var kindNames = [...]string{"Int8", "Int16", "Int32", "Int64", "Uint8", "Uint16", "Uint32", "Uint64"}

var kindTypes = [...]typesystem.TypeID{
	typesystem.Int8, typesystem.Int16, typesystem.Int32, typesystem.Int64,
	typesystem.Uint8, typesystem.Uint16, typesystem.Uint32, typesystem.Uint64,
}

func (k IntKind) String() string { return kindNames[k] }

func (k IntKind) Signed() bool { return k <= Int64 }

// Bits is the width in bits.
func (k IntKind) Bits() uint {
	return 8 << (k % 4)
}

func (k IntKind) TypeID() typesystem.TypeID { return kindTypes[k] }

// KindOf maps an integer type id back to its kind.
func KindOf(id typesystem.TypeID) (IntKind, bool) {
	for k, t := range kindTypes {
		if t == id {
			return IntKind(k), true
		}
	}
	return 0, false
}

// Int is a sized integer. Bits holds the two's complement representation
// truncated to the kind's width.
type Int struct {
	Kind IntKind
	Bits uint64
}

func (k IntKind) mask() uint64 {
	if k.Bits() == 64 {
		return ^uint64(0)
	}
	return (uint64(1) << k.Bits()) - 1
}

// NewInt wraps v into kind k.
func NewInt(k IntKind, v int64) Int {
	return Int{Kind: k, Bits: uint64(v) & k.mask()}
}

// NewUint wraps v into kind k.
func NewUint(k IntKind, v uint64) Int {
	return Int{Kind: k, Bits: v & k.mask()}
}

// Int64 returns the sign-extended value.
func (i Int) Int64() int64 {
	if !i.Kind.Signed() {
		return int64(i.Bits)
	}
	shift := 64 - i.Kind.Bits()
	return int64(i.Bits<<shift) >> shift
}

func (i Int) Uint64() uint64 { return i.Bits }

func (i Int) TypeName() string        { return i.Kind.String() }
func (i Int) Type() typesystem.TypeID { return i.Kind.TypeID() }
func (Int) isValue()                  {}

func (i Int) String() string {
	if i.Kind.Signed() {
		return strconv.FormatInt(i.Int64(), 10)
	}
	return strconv.FormatUint(i.Bits, 10)
}

// Add returns i+j wrapped to the common kind. Both must share a kind.
func (i Int) Add(j Int) Int {
	return NewUint(i.Kind, i.Bits+j.Bits)
}

// Sub returns i-j wrapped to the common kind.
func (i Int) Sub(j Int) Int {
	return NewUint(i.Kind, i.Bits-j.Bits)
}

// Less compares two ints of the same kind.
func (i Int) Less(j Int) bool {
	if i.Kind.Signed() {
		return i.Int64() < j.Int64()
	}
	return i.Bits < j.Bits
}
