package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/solar-lang/solar-compiler/internal/value"
)

var intLiteralRe = regexp2.MustCompile(
	`^(?<sign>-)?(?<body>0x[0-9a-fA-F_]+|0o[0-7_]+|0b[01_]+|[0-9][0-9_]*)(?<suffix>i8|i16|i32|i64|u8|u16|u32|u64)?$`,
	regexp2.None)

var suffixKinds = map[string]value.IntKind{
	"":    value.Int64,
	"i8":  value.Int8,
	"i16": value.Int16,
	"i32": value.Int32,
	"i64": value.Int64,
	"u8":  value.Uint8,
	"u16": value.Uint16,
	"u32": value.Uint32,
	"u64": value.Uint64,
}

// IntLiteralError explains why an integer literal was rejected.
type IntLiteralError struct {
	Text   string
	Reason string
}

func (e *IntLiteralError) Error() string {
	return fmt.Sprintf("invalid integer literal %q: %s", e.Text, e.Reason)
}

// ParseIntLiteral parses literals such as 42, -7i8, 0xffu16 or 1_000u32.
// Without a suffix the literal is an Int64.
func ParseIntLiteral(text string) (value.Int, error) {
	m, err := intLiteralRe.FindStringMatch(text)
	if err != nil || m == nil {
		return value.Int{}, &IntLiteralError{Text: text, Reason: "malformed"}
	}
	negative := m.GroupByName("sign").String() == "-"
	body := strings.ReplaceAll(m.GroupByName("body").String(), "_", "")
	kind := suffixKinds[m.GroupByName("suffix").String()]

	base := 10
	switch {
	case strings.HasPrefix(body, "0x"):
		base, body = 16, body[2:]
	case strings.HasPrefix(body, "0o"):
		base, body = 8, body[2:]
	case strings.HasPrefix(body, "0b"):
		base, body = 2, body[2:]
	}
	if body == "" {
		return value.Int{}, &IntLiteralError{Text: text, Reason: "no digits"}
	}
	mag, err := strconv.ParseUint(body, base, 64)
	if err != nil {
		return value.Int{}, &IntLiteralError{Text: text, Reason: "out of range"}
	}

	if !kind.Signed() {
		if negative && mag != 0 {
			return value.Int{}, &IntLiteralError{Text: text, Reason: "negative unsigned literal"}
		}
		if kind.Bits() < 64 && mag >= uint64(1)<<kind.Bits() {
			return value.Int{}, &IntLiteralError{Text: text, Reason: "out of range for " + kind.String()}
		}
		return value.NewUint(kind, mag), nil
	}

	limit := uint64(1) << (kind.Bits() - 1) // |min|
	if negative {
		if mag > limit {
			return value.Int{}, &IntLiteralError{Text: text, Reason: "out of range for " + kind.String()}
		}
		return value.NewUint(kind, -mag), nil
	}
	if mag >= limit {
		return value.Int{}, &IntLiteralError{Text: text, Reason: "out of range for " + kind.String()}
	}
	return value.NewUint(kind, mag), nil
}
