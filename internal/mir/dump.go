package mir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solar-lang/solar-compiler/internal/typesystem"
	"github.com/solar-lang/solar-compiler/internal/value"
)

// TypeNamer renders type ids; *typesystem.Table satisfies it.
type TypeNamer interface {
	Name(id typesystem.TypeID) string
}

// Dump returns a human-readable representation of a compiled function.
func Dump(fn *Function, id FunctionID, types TypeNamer) string {
	var sb strings.Builder
	args := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		args[i] = fmt.Sprintf("$%d %s", i, types.Name(a))
	}
	sb.WriteString(fmt.Sprintf("== #%d %s(%s) -> %s [frame %d] ==\n",
		id, fn.Name, strings.Join(args, ", "), types.Name(fn.Return), fn.Frame))
	dumpExpr(&sb, fn.Body, 1, types)
	return sb.String()
}

// DumpExpr renders a single expression tree.
func DumpExpr(e StaticExpr, types TypeNamer) string {
	var sb strings.Builder
	dumpExpr(&sb, e, 0, types)
	return sb.String()
}

func dumpExpr(sb *strings.Builder, e StaticExpr, depth int, types TypeNamer) {
	indent := strings.Repeat("  ", depth)
	ty := types.Name(e.Type)

	switch in := e.Instr.(type) {
	case *Const:
		sb.WriteString(fmt.Sprintf("%sCONST %s : %s\n", indent, literal(in.Value), ty))
	case *GetLocalVar:
		sb.WriteString(fmt.Sprintf("%sGET $%d : %s\n", indent, in.Slot, ty))
	case *NewLocalVar:
		sb.WriteString(fmt.Sprintf("%sLET $%d : %s\n", indent, in.Slot, ty))
		dumpExpr(sb, in.Value, depth+1, types)
		sb.WriteString(indent + "IN\n")
		dumpExpr(sb, in.Body, depth+1, types)
	case *IfExpr:
		sb.WriteString(fmt.Sprintf("%sIF : %s\n", indent, ty))
		dumpExpr(sb, in.Condition, depth+1, types)
		sb.WriteString(indent + "THEN\n")
		dumpExpr(sb, in.Then, depth+1, types)
		sb.WriteString(indent + "ELSE\n")
		dumpExpr(sb, in.Else, depth+1, types)
	case *FunctionCall:
		sb.WriteString(fmt.Sprintf("%sCALL #%d : %s\n", indent, in.Function, ty))
		for _, a := range in.Args {
			dumpExpr(sb, a, depth+1, types)
		}
	case *Custom:
		sb.WriteString(fmt.Sprintf("%sBUILTIN %s : %s\n", indent, in.Code, ty))
		for _, a := range in.Args {
			dumpExpr(sb, a, depth+1, types)
		}
	default:
		sb.WriteString(fmt.Sprintf("%s<unknown %T>\n", indent, in))
	}
}

func literal(v value.Value) string {
	if s, ok := v.(*value.String); ok {
		return strconv.Quote(s.Value)
	}
	if _, ok := v.(value.Void); ok {
		return "void"
	}
	return v.String()
}
