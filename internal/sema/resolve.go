package sema

import (
	"fmt"

	"dimigrate/internal/ast"
)

// BaseKind classifies where a class's extends clause leads.
type BaseKind uint8

const (
	// BaseNone means the class has no extends clause.
	BaseNone BaseKind = iota
	// BaseLocal means the base class is declared inside the analyzed program.
	BaseLocal
	// BaseExternal means the base is imported from a module outside the
	// analyzed program and cannot be inspected.
	BaseExternal
	// BaseUnknown means the base name cannot be traced to any declaration.
	BaseUnknown
	// BaseComplex means the extends clause is not a plain identifier
	// (mixin call, dotted expression).
	BaseComplex
)

// BaseResolution is the result of following one extends clause.
type BaseResolution struct {
	Kind   BaseKind
	Class  ast.ClassID // valid for BaseLocal
	Module string      // set for BaseExternal
	Name   string      // the base name as written
}

// ResolveBase resolves the immediate base class of id. The returned link is
// a weak reference: BaseLocal points back into the same tree, everything
// else carries no ownership at all.
func (c *Checker) ResolveBase(id ast.ClassID) BaseResolution {
	class := c.tree.Class(id)
	if class.BaseComplex {
		return BaseResolution{Kind: BaseComplex, Name: class.Base}
	}
	if class.Base == "" {
		return BaseResolution{Kind: BaseNone}
	}

	owner := c.classOwner[id]
	if baseID, ok := c.LookupClass(owner, class.Base); ok && baseID != id {
		return BaseResolution{Kind: BaseLocal, Class: baseID, Name: class.Base}
	}

	if imp, exported, ok := c.importBinding(owner, class.Base); ok {
		if imp.TypeOnly {
			// a type-only binding is erased at runtime and cannot carry
			// constructor inheritance
			return BaseResolution{Kind: BaseUnknown, Name: class.Base, Module: imp.Module}
		}
		if target, inProgram := c.resolveModule(owner, imp.Module); inProgram {
			if baseID, found := c.LookupClass(target, exported); found {
				return BaseResolution{Kind: BaseLocal, Class: baseID, Name: class.Base}
			}
			return BaseResolution{Kind: BaseUnknown, Name: class.Base, Module: imp.Module}
		}
		return BaseResolution{Kind: BaseExternal, Name: class.Base, Module: imp.Module}
	}

	return BaseResolution{Kind: BaseUnknown, Name: class.Base}
}

// ParamResolution is the result of classifying one constructor parameter.
type ParamResolution struct {
	OK     bool
	Class  ast.ClassID // valid when the type is a program-local class
	Reason string      // set when !OK
}

// ResolveParam decides whether a constructor parameter can be satisfied by
// the injector: its annotation must lead to an importable runtime symbol.
// Primitives, erased types, and unknown names are conservatively rejected.
func (c *Checker) ResolveParam(owner ast.FileID, param ast.Param) ParamResolution {
	switch param.TypeKind {
	case ast.ParamTypeNone:
		return ParamResolution{OK: false, Reason: fmt.Sprintf("parameter '%s' has no type annotation", param.Name)}
	case ast.ParamTypeInline:
		return ParamResolution{OK: false, Reason: fmt.Sprintf("parameter '%s' uses an inline type that cannot be injected", param.Name)}
	}

	name := param.TypeName
	if erasedTypeNames[name] {
		return ParamResolution{OK: false, Reason: fmt.Sprintf("parameter '%s' has erased type '%s'", param.Name, name)}
	}

	if classID, ok := c.LookupClass(owner, name); ok {
		return ParamResolution{OK: true, Class: classID}
	}

	if imp, exported, ok := c.importBinding(owner, name); ok {
		if imp.TypeOnly {
			return ParamResolution{OK: false, Reason: fmt.Sprintf("parameter '%s' type '%s' comes from a type-only import", param.Name, name)}
		}
		if target, inProgram := c.resolveModule(owner, imp.Module); inProgram {
			if classID, found := c.LookupClass(target, exported); found {
				return ParamResolution{OK: true, Class: classID}
			}
			return ParamResolution{OK: false, Reason: fmt.Sprintf("parameter '%s' type '%s' is not a class in '%s'", param.Name, name, imp.Module)}
		}
		// importable symbol from outside the program: the injector can
		// reference it even though we cannot inspect it
		return ParamResolution{OK: true}
	}

	return ParamResolution{OK: false, Reason: fmt.Sprintf("parameter '%s' has unresolvable type '%s'", param.Name, name)}
}
