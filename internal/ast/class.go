package ast

import "dimigrate/internal/source"

// ClassDecl represents one class declaration. Span covers the whole
// declaration including modifiers and attached decorators; Span.Start is the
// anchor for inserted decorator and comment text.
type ClassDecl struct {
	Span     source.Span
	Name     string
	NameSpan source.Span

	Decorators []Decorator

	Base        string // extends clause head identifier, "" when none
	BaseSpan    source.Span
	BaseComplex bool // extends a non-identifier expression (mixin call etc.)

	HasCtor bool
	Params  []Param

	Exported bool
	Abstract bool
}

// Decorator is a class-level decorator annotation.
type Decorator struct {
	Span    source.Span
	Name    string
	HasCall bool // @Name() vs bare @Name
	Args    []DecoratorArg
}

// DecoratorArg is one argument of a decorator call, kept as raw text plus a
// shape flag; the migration never evaluates argument expressions.
type DecoratorArg struct {
	Span     source.Span
	Text     string
	IsObject bool // argument is an object literal
}

// ParamTypeKind classifies a constructor parameter's type annotation.
type ParamTypeKind uint8

const (
	// ParamTypeNone means the parameter carries no annotation.
	ParamTypeNone ParamTypeKind = iota
	// ParamTypeRef means the annotation starts with a type reference name.
	ParamTypeRef
	// ParamTypeInline covers structural, literal, and other non-reference
	// annotations that can never resolve to an importable symbol.
	ParamTypeInline
)

// Param is one constructor parameter.
type Param struct {
	Name     string
	Span     source.Span
	TypeKind ParamTypeKind
	TypeName string // head identifier of the reference, "" otherwise
	TypeSpan source.Span
}

// FindDecorator returns the first decorator with one of the given names.
func (c *ClassDecl) FindDecorator(names ...string) (*Decorator, bool) {
	for i := range c.Decorators {
		for _, name := range names {
			if c.Decorators[i].Name == name {
				return &c.Decorators[i], true
			}
		}
	}
	return nil, false
}

// HasExtends reports whether the class declares a base class.
func (c *ClassDecl) HasExtends() bool {
	return c.Base != ""
}

// InjectableCtor reports whether the class has its own constructor with at
// least one parameter.
func (c *ClassDecl) InjectableCtor() bool {
	return c.HasCtor && len(c.Params) > 0
}
