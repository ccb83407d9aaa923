package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/solar-lang/solar-compiler/internal/ast"
)

// CodePrinter renders syntax trees back into solar surface syntax.
type CodePrinter struct {
	buf       bytes.Buffer
	indent    int
	lineWidth int // max line width (0 = unlimited)
	column    int // current column position
}

const indentWidth = 4

func NewCodePrinter() *CodePrinter {
	return NewCodePrinterWithWidth(100)
}

func NewCodePrinterWithWidth(width int) *CodePrinter {
	return &CodePrinter{lineWidth: width}
}

func (p *CodePrinter) writeIndent() {
	p.buf.WriteString(strings.Repeat(" ", p.indent*indentWidth))
	p.column = p.indent * indentWidth
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
	// Track column position
	if idx := strings.LastIndex(s, "\n"); idx != -1 {
		p.column = len(s) - idx - 1
	} else {
		p.column += len(s)
	}
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
	p.column = 0
}

// fits reports whether s can be appended to the current line.
func (p *CodePrinter) fits(s string) bool {
	return p.lineWidth <= 0 || p.column+len(s) <= p.lineWidth
}

// PrintFile renders a whole file: imports first, then items separated by
// blank lines.
func (p *CodePrinter) PrintFile(f *ast.File) {
	for _, imp := range f.Imports {
		p.PrintImport(imp)
		p.writeln()
	}
	for i, item := range f.Items {
		if i > 0 || len(f.Imports) > 0 {
			p.writeln()
		}
		p.PrintItem(item)
		p.writeln()
	}
}

func (p *CodePrinter) PrintImport(n *ast.Import) {
	p.write("use ")
	if n.IsLib {
		p.write("lib ")
	}
	p.write(strings.Join(n.Path, "."))
	switch n.Selection {
	case ast.SelectAll:
		p.write("..")
	case ast.SelectItems:
		p.write(".(" + strings.Join(n.Items, ", ") + ")")
	}
}

func (p *CodePrinter) PrintItem(item ast.Item) {
	switch n := item.(type) {
	case *ast.Function:
		p.write("fun " + n.Name + "(")
		for i, param := range n.Params {
			if i > 0 {
				p.write(", ")
			}
			p.write(param.Name)
			p.typeAnnotation(param.Type)
		}
		p.write(")")
		if n.Returns != nil {
			p.write(" -> " + n.Returns.Name)
		}
		p.write(" =")
		p.body(n.Body)
	case *ast.GlobalVar:
		p.write("let " + n.Name)
		p.typeAnnotation(n.Type)
		p.write(" =")
		p.body(n.Value)
	case *ast.TypeDecl:
		p.write("type " + n.Name)
	case *ast.BuildinTypeDecl:
		p.write("buildin type " + n.Name)
	case *ast.Test:
		p.write("test " + strconv.Quote(n.Name) + " =")
		p.body(n.Body)
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) typeAnnotation(t *ast.TypeRef) {
	if t != nil {
		p.write(": " + t.Name)
	}
}

// body prints the right-hand side of a declaration, moving it to an indented
// line when it does not fit after the `=`.
func (p *CodePrinter) body(expr ast.Expression) {
	flat := NewCodePrinterWithWidth(0)
	flat.PrintExpr(expr)
	if !strings.Contains(flat.String(), "\n") && p.fits(" "+flat.String()) {
		p.write(" " + flat.String())
		return
	}
	p.indent++
	p.writeln()
	p.writeIndent()
	p.PrintExpr(expr)
	p.indent--
}

func (p *CodePrinter) PrintExpr(expr ast.Expression) {
	switch n := expr.(type) {
	case nil:
		p.write("<???>")
	case *ast.StringLiteral:
		p.write(strconv.Quote(n.Value))
	case *ast.BooleanLiteral:
		p.write(strconv.FormatBool(n.Value))
	case *ast.IntegerLiteral:
		p.write(n.Text)
	case *ast.FloatLiteral:
		p.write(n.Text)
	case *ast.Identifier:
		p.write(n.Path.String())
	case *ast.TupleLiteral:
		p.write("(")
		p.exprList(n.Elements)
		p.write(")")
	case *ast.CallExpression:
		p.write(n.Function.String() + "(")
		p.exprList(n.Arguments)
		p.write(")")
	case *ast.IfExpression:
		p.write("if ")
		p.PrintExpr(n.Condition)
		p.write(" then ")
		p.PrintExpr(n.Consequence)
		p.write(" else ")
		p.PrintExpr(n.Alternative)
	case *ast.LetExpression:
		p.write("let ")
		for i, b := range n.Bindings {
			if i > 0 {
				p.write(", ")
			}
			p.write(b.Name + " = ")
			p.PrintExpr(b.Value)
		}
		p.write(" in ")
		p.PrintExpr(n.Body)
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) exprList(exprs []ast.Expression) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.PrintExpr(e)
	}
}

// Print is a convenience wrapper around PrintFile.
func Print(f *ast.File) string {
	p := NewCodePrinter()
	p.PrintFile(f)
	return p.String()
}
