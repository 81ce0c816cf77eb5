package migrate

import (
	"dimigrate/internal/ast"
	"dimigrate/internal/sema"
)

// DeclKind is the closed classification of a class's decoration state,
// computed once during collection and consumed everywhere else.
type DeclKind uint8

const (
	Undecorated DeclKind = iota
	DecoratedDirective
	DecoratedProvider
)

func (k DeclKind) String() string {
	switch k {
	case Undecorated:
		return "undecorated"
	case DecoratedDirective:
		return "directive"
	case DecoratedProvider:
		return "provider"
	}
	return "unknown"
}

var (
	directiveDecorators = []string{"Component", "Directive"}
	providerDecorators  = []string{"Injectable", "Pipe", "NgModule"}
)

// ClassInfo is a derived, non-owning view of one class declaration: the
// tree owns the node, ClassInfo only points at it.
type ClassInfo struct {
	ID        ast.ClassID
	File      ast.FileID
	Decl      *ast.ClassDecl
	Kind      DeclKind
	Decorator *ast.Decorator // the recognized decorator, nil for Undecorated
}

// DeclarationSets holds the three disjoint collections the transform
// consumes. Membership is keyed by node identity, never by name.
type DeclarationSets struct {
	Directives  []*ClassInfo
	Providers   []*ClassInfo
	Undecorated []*ClassInfo

	byID map[ast.ClassID]*ClassInfo
}

// Lookup returns the collected info for a class, if it was collected.
func (s *DeclarationSets) Lookup(id ast.ClassID) (*ClassInfo, bool) {
	info, ok := s.byID[id]
	return info, ok
}

// Collect classifies every class declaration of the program:
//
//  1. carries a directive-style decorator  -> decorated directive
//  2. carries a provider-style decorator   -> decorated provider
//  3. has an injectable constructor, or extends a chain that may require
//     DI metadata                          -> undecorated declaration
//  4. anything else is not collected: no action can ever be needed
//
// Collection never mutates the tree. Files are visited in the order the
// front-end supplied them, classes in source order.
func Collect(checker *sema.Checker) *DeclarationSets {
	sets := &DeclarationSets{
		byID: make(map[ast.ClassID]*ClassInfo),
	}

	tree := checker.Tree()
	for _, fid := range checker.Files() {
		sf := tree.File(fid)
		for _, cid := range sf.Classes {
			decl := tree.Class(cid)
			info := &ClassInfo{ID: cid, File: fid, Decl: decl}

			if dec, ok := decl.FindDecorator(directiveDecorators...); ok {
				info.Kind = DecoratedDirective
				info.Decorator = dec
				sets.Directives = append(sets.Directives, info)
				sets.byID[cid] = info
				continue
			}
			if dec, ok := decl.FindDecorator(providerDecorators...); ok {
				info.Kind = DecoratedProvider
				info.Decorator = dec
				sets.Providers = append(sets.Providers, info)
				sets.byID[cid] = info
				continue
			}

			if decl.InjectableCtor() || baseMayRequireDI(checker, cid, decl) {
				info.Kind = Undecorated
				sets.Undecorated = append(sets.Undecorated, info)
				sets.byID[cid] = info
			}
		}
	}
	return sets
}

// baseMayRequireDI reports whether the class's inheritance chain could make
// DI metadata necessary. Chains the collector cannot see through (external,
// unknown, complex, cyclic) count as "may": the transform decides whether
// that becomes an edit or a failure.
func baseMayRequireDI(checker *sema.Checker, id ast.ClassID, decl *ast.ClassDecl) bool {
	if !decl.HasExtends() && !decl.BaseComplex {
		return false
	}

	visited := map[ast.ClassID]bool{id: true}
	cur := id
	for {
		res := checker.ResolveBase(cur)
		switch res.Kind {
		case sema.BaseNone:
			return false
		case sema.BaseLocal:
			base := checker.Tree().Class(res.Class)
			if _, decorated := base.FindDecorator(directiveDecorators...); decorated {
				return true
			}
			if _, decorated := base.FindDecorator(providerDecorators...); decorated {
				return true
			}
			if base.InjectableCtor() {
				return true
			}
			if base.HasCtor {
				// an explicit parameterless constructor ends the chain
				return false
			}
			if visited[res.Class] {
				return true // cyclic: the transform reports it
			}
			visited[res.Class] = true
			cur = res.Class
		default:
			// external, unknown, complex: cannot prove it is irrelevant
			return true
		}
	}
}
