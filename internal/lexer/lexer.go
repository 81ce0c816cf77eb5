package lexer

import (
	"dimigrate/internal/source"
	"dimigrate/internal/token"
)

// Lexer produces tokens for the migrated source dialect. Comments and
// whitespace are consumed as trivia and never surface as tokens.
type Lexer struct {
	file   *source.File
	cursor Cursor
	look   *token.Token // one-token lookahead buffer
	prev   token.Kind   // last significant token, for regex/divide disambiguation
}

// New creates a lexer over file.
func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
	}
}

// Next returns the next significant token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		lx.prev = tok.Kind
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		pos := lx.cursor.Pos()
		return token.Token{
			Kind: token.EOF,
			Span: source.Span{File: lx.file.ID, Start: pos, End: pos},
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStart(ch):
		tok = lx.scanIdentOrKeyword()

	case isDigit(ch):
		tok = lx.scanNumber()

	case ch == '"' || ch == '\'':
		tok = lx.scanString(ch)

	case ch == '`':
		tok = lx.scanTemplate()

	case ch == '/' && lx.regexPossible():
		tok = lx.scanRegex()

	default:
		tok = lx.scanPunct()
	}

	lx.prev = tok.Kind
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	prev := lx.prev
	t := lx.Next()
	lx.look = &t
	lx.prev = prev
	return t
}

// skipTrivia consumes whitespace and // and /* */ comments.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			lx.cursor.Advance()
		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Advance()
			}
		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			lx.cursor.Advance()
			lx.cursor.Advance()
			for !lx.cursor.EOF() {
				if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
					lx.cursor.Advance()
					lx.cursor.Advance()
					break
				}
				lx.cursor.Advance()
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Pos()
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Advance()
	}
	text := lx.cursor.TextFrom(start)
	return token.Token{
		Kind: token.LookupKeyword(text),
		Span: lx.cursor.SpanFrom(start),
		Text: text,
	}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Pos()
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if isDigit(ch) || isIdentContinue(ch) || ch == '.' {
			lx.cursor.Advance()
			continue
		}
		break
	}
	return token.Token{
		Kind: token.Number,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.cursor.TextFrom(start),
	}
}

func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Pos()
	lx.cursor.Advance() // opening quote
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '\\' {
			lx.cursor.Advance()
			lx.cursor.Advance()
			continue
		}
		if ch == quote || ch == '\n' {
			break
		}
		lx.cursor.Advance()
	}
	kind := token.Invalid
	if lx.cursor.Peek() == quote {
		lx.cursor.Advance() // closing quote
		kind = token.String
	}
	return token.Token{
		Kind: kind,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.cursor.TextFrom(start),
	}
}

// scanTemplate consumes a backtick template literal including nested
// ${...} interpolations, so brace balancing downstream stays correct.
func (lx *Lexer) scanTemplate() token.Token {
	start := lx.cursor.Pos()
	lx.cursor.Advance() // opening backtick
	depth := 0          // ${ } nesting
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == '\\':
			lx.cursor.Advance()
			lx.cursor.Advance()
		case depth == 0 && ch == '`':
			lx.cursor.Advance()
			return token.Token{
				Kind: token.Template,
				Span: lx.cursor.SpanFrom(start),
				Text: lx.cursor.TextFrom(start),
			}
		case ch == '$' && lx.cursor.PeekAt(1) == '{':
			depth++
			lx.cursor.Advance()
			lx.cursor.Advance()
		case depth > 0 && ch == '{':
			depth++
			lx.cursor.Advance()
		case depth > 0 && ch == '}':
			depth--
			lx.cursor.Advance()
		default:
			lx.cursor.Advance()
		}
	}
	return token.Token{
		Kind: token.Invalid,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.cursor.TextFrom(start),
	}
}

// regexPossible reports whether a '/' at the current position can start a
// regex literal. After an identifier, literal, or closing bracket the slash
// is division; anywhere else it opens a regex.
func (lx *Lexer) regexPossible() bool {
	switch lx.prev {
	case token.Ident, token.Number, token.String, token.Template,
		token.RParen, token.RBracket, token.RBrace:
		return false
	default:
		return true
	}
}

func (lx *Lexer) scanRegex() token.Token {
	start := lx.cursor.Pos()
	lx.cursor.Advance() // opening slash
	inClass := false
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '\\' {
			lx.cursor.Advance()
			lx.cursor.Advance()
			continue
		}
		if ch == '\n' {
			break
		}
		if ch == '[' {
			inClass = true
		} else if ch == ']' {
			inClass = false
		} else if ch == '/' && !inClass {
			lx.cursor.Advance()
			// flags
			for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
				lx.cursor.Advance()
			}
			return token.Token{
				Kind: token.Other,
				Span: lx.cursor.SpanFrom(start),
				Text: lx.cursor.TextFrom(start),
			}
		}
		lx.cursor.Advance()
	}
	return token.Token{
		Kind: token.Invalid,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.cursor.TextFrom(start),
	}
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Pos()
	ch := lx.cursor.Peek()
	kind := token.Other

	switch ch {
	case '@':
		kind = token.At
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '<':
		kind = token.Lt
	case '>':
		kind = token.Gt
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case '?':
		kind = token.Question
	case '*':
		kind = token.Star
	case '&':
		kind = token.Amp
	case '|':
		kind = token.Pipe
	case '.':
		if lx.cursor.PeekAt(1) == '.' && lx.cursor.PeekAt(2) == '.' {
			lx.cursor.Advance()
			lx.cursor.Advance()
			lx.cursor.Advance()
			return token.Token{Kind: token.Ellipsis, Span: lx.cursor.SpanFrom(start), Text: "..."}
		}
		kind = token.Dot
	case '=':
		if lx.cursor.PeekAt(1) == '>' {
			lx.cursor.Advance()
			lx.cursor.Advance()
			return token.Token{Kind: token.Arrow, Span: lx.cursor.SpanFrom(start), Text: "=>"}
		}
		kind = token.Assign
	}

	lx.cursor.Advance()
	return token.Token{
		Kind: kind,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.cursor.TextFrom(start),
	}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		ch >= 0x80 // any non-ASCII byte may continue a unicode identifier
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
