package token

import (
	"dimigrate/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// Is reports whether the token has the given kind.
func (t Token) Is(kind Kind) bool { return t.Kind == kind }

// IsIdentLike reports whether the token can act as an identifier. The
// migration's keywords are all contextual in the source grammar, so an
// identifier position accepts them too.
func (t Token) IsIdentLike() bool {
	return t.Kind == Ident || (t.Kind >= KwClass && t.Kind <= KwStatic)
}

// IsOpener reports whether the token opens a bracket pair.
func (t Token) IsOpener() bool {
	return t.Kind == LParen || t.Kind == LBrace || t.Kind == LBracket
}

// CloserFor returns the closing kind matching an opener.
func CloserFor(open Kind) Kind {
	switch open {
	case LParen:
		return RParen
	case LBrace:
		return RBrace
	case LBracket:
		return RBracket
	default:
		return Invalid
	}
}
