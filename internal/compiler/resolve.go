package compiler

import (
	"fmt"
	"strings"

	"github.com/solar-lang/solar-compiler/internal/ast"
	"github.com/solar-lang/solar-compiler/internal/mir"
	"github.com/solar-lang/solar-compiler/internal/modules"
	"github.com/solar-lang/solar-compiler/internal/symbols"
	"github.com/solar-lang/solar-compiler/internal/typesystem"
)

// Lookup is what name resolution needs to know about the file whose body is
// being compiled.
type Lookup struct {
	Module  *modules.Module
	Imports modules.SymbolResolver

	chain *chain
	self  mir.FunctionID // function whose body is being lowered
}

type CandidateKind int

const (
	LocalCandidate CandidateKind = iota
	SymbolCandidate
)

// Candidate is one possible meaning of a name.
type Candidate struct {
	Kind    CandidateKind
	Binding symbols.Binding  // LocalCandidate
	Symbol  symbols.SymbolID // SymbolCandidate
}

// ResolveSymbol lists what path can refer to from inside lookup's file.
//
// A single-segment path bound in scope is a local and hides everything else.
// Otherwise the candidates are the declarations of the current module with
// that name followed by those reachable through the file's imports.
func (c *Context) ResolveSymbol(path symbols.IdPath, lookup Lookup, scope *symbols.Scope) []Candidate {
	if len(path) == 0 {
		return nil
	}
	if len(path) == 1 && scope != nil {
		if b, ok := scope.Get(path[0]); ok {
			return []Candidate{{Kind: LocalCandidate, Binding: b}}
		}
	}

	var out []Candidate
	if len(path) == 1 {
		for _, id := range lookup.Module.Find(path[0]) {
			out = append(out, Candidate{Kind: SymbolCandidate, Symbol: id})
		}
	}

	bases, ok := lookup.Imports[path[0]]
	if !ok {
		return out
	}
	for _, base := range bases {
		modPath, name := base, path[0]
		if len(path) > 1 {
			modPath = base.Join(path[:len(path)-1]...)
			name = path[len(path)-1]
		}
		mod, err := c.Modules.Get(modPath)
		if err != nil {
			c.logger.Printf("resolve %s: skipping import origin: %v", path, err)
			continue
		}
		for _, id := range mod.Find(name) {
			out = append(out, Candidate{Kind: SymbolCandidate, Symbol: id})
		}
	}
	return out
}

// SelectCandidate picks the single meaning of a name used with arguments of
// the given types. Several candidates are narrowed by arity and declared
// parameter types.
func (c *Context) SelectCandidate(path symbols.IdPath, cands []Candidate, args []typesystem.TypeID, pos ast.Span) (Candidate, error) {
	cands = dedupe(cands)
	switch len(cands) {
	case 0:
		return Candidate{}, &NotFoundError{Name: path.String(), Pos: pos}
	case 1:
		return cands[0], nil
	}

	var matching []Candidate
	for _, cand := range cands {
		if cand.Kind == SymbolCandidate && c.signatureAccepts(cand.Symbol, args) {
			matching = append(matching, cand)
		}
	}
	switch len(matching) {
	case 0:
		return Candidate{}, &NotFoundError{
			Name:   path.String(),
			Pos:    pos,
			Detail: fmt.Sprintf("no overload accepts (%s)", c.typeList(args)),
		}
	case 1:
		c.logger.Printf("resolve %s: picked %s out of %d candidates", path, matching[0].Symbol, len(cands))
		return matching[0], nil
	}
	ids := make([]symbols.SymbolID, len(matching))
	for i, m := range matching {
		ids[i] = m.Symbol
	}
	return Candidate{}, &AmbiguousError{Name: path.String(), Pos: pos, Candidates: ids}
}

func dedupe(cands []Candidate) []Candidate {
	out := cands[:0:0]
	seen := make(map[symbols.SymbolID]bool, len(cands))
	for _, cand := range cands {
		if cand.Kind == SymbolCandidate {
			if seen[cand.Symbol] {
				continue
			}
			seen[cand.Symbol] = true
		}
		out = append(out, cand)
	}
	return out
}

func (c *Context) signatureAccepts(id symbols.SymbolID, args []typesystem.TypeID) bool {
	_, _, item := c.Modules.Symbol(id)
	switch it := item.(type) {
	case *ast.Function:
		if len(it.Params) != len(args) {
			return false
		}
		for i, p := range it.Params {
			if p.Type == nil {
				continue
			}
			want, ok := c.Types.Lookup(p.Type.Name)
			if !ok || want != args[i] {
				return false
			}
		}
		return true
	case *ast.GlobalVar:
		return len(args) == 0
	}
	return false
}

func (c *Context) typeList(ids []typesystem.TypeID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = c.Types.Name(id)
	}
	return strings.Join(names, ", ")
}
