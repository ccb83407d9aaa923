package symbols

import (
	"testing"

	"github.com/solar-lang/solar-compiler/internal/typesystem"
)

func TestIdPath(t *testing.T) {
	p := IdPath{"std", "string"}
	if p.Key() != "std/string" {
		t.Errorf("Key got=%q, want=%q", p.Key(), "std/string")
	}
	if p.String() != "std.string" {
		t.Errorf("String got=%q, want=%q", p.String(), "std.string")
	}

	base := make(IdPath, 1, 4)
	base[0] = "std"
	a := base.Join("a")
	b := base.Join("b")
	if a.String() != "std.a" || b.String() != "std.b" {
		t.Errorf("Join aliased its receiver: got %s and %s", a, b)
	}
}

func TestSSIDEquality(t *testing.T) {
	sym := SymbolID{Module: "app", File: 0, Item: 2}
	tests := []struct {
		name string
		a, b SSID
		want bool
	}{
		{"same args", SSID{sym, []typesystem.TypeID{typesystem.Int32, typesystem.Int32}}, SSID{sym, []typesystem.TypeID{typesystem.Int32, typesystem.Int32}}, true},
		{"different args", SSID{sym, []typesystem.TypeID{typesystem.Int32, typesystem.Int32}}, SSID{sym, []typesystem.TypeID{typesystem.Int64, typesystem.Int64}}, false},
		{"arg order", SSID{sym, []typesystem.TypeID{typesystem.Bool, typesystem.String}}, SSID{sym, []typesystem.TypeID{typesystem.String, typesystem.Bool}}, false},
		{"nil and empty", SSID{sym, nil}, SSID{sym, []typesystem.TypeID{}}, true},
		{"different symbol", SSID{sym, nil}, SSID{SymbolID{Module: "app", File: 0, Item: 3}, nil}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("got=%v, want=%v", got, tt.want)
			}
			if got := tt.a.Key() == tt.b.Key(); got != tt.want {
				t.Errorf("key equality got=%v, want=%v", got, tt.want)
			}
		})
	}
}
