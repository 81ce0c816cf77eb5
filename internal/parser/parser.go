package parser

import (
	"dimigrate/internal/ast"
	"dimigrate/internal/diag"
	"dimigrate/internal/lexer"
	"dimigrate/internal/source"
	"dimigrate/internal/token"
)

// Parser extracts the migration-relevant shape of one source file: import
// statements, class declarations with their decorators, heritage, and
// constructor signatures. Everything else is skipped by bracket balancing,
// so arbitrary surrounding code never derails the walk.
type Parser struct {
	file     *source.File
	lx       *lexer.Lexer
	tree     *ast.Tree
	astFile  ast.FileID
	reporter diag.Reporter

	tok token.Token

	depth int // current brace depth
	// innermost-first stack of open class-like bodies; ID 0 entries swallow
	// constructor-looking members of bodies we do not model (interfaces,
	// anonymous class expressions).
	openBodies []openBody

	pendingDecorators []ast.Decorator
	modStart          uint32
	modActive         bool
	sawExport         bool
	sawAbstract       bool
}

type openBody struct {
	class     ast.ClassID
	bodyDepth int
}

// ParseFile parses file into tree, reporting syntactic diagnostics, and
// returns the allocated SourceFile node.
func ParseFile(file *source.File, tree *ast.Tree, reporter diag.Reporter) ast.FileID {
	p := &Parser{
		file:     file,
		lx:       lexer.New(file),
		tree:     tree,
		reporter: reporter,
	}
	span := source.Span{File: file.ID, Start: 0, End: uint32(len(file.Content))}
	p.astFile = tree.NewFile(file.ID, span)
	p.advance()
	p.run()
	return p.astFile
}

func (p *Parser) advance() {
	p.tok = p.lx.Next()
}

func (p *Parser) at(kind token.Kind) bool {
	return p.tok.Kind == kind
}

func (p *Parser) report(code diag.Code, span source.Span, msg string) {
	if p.reporter != nil {
		p.reporter.Report(code, diag.SevError, span, msg, nil)
	}
}

func (p *Parser) run() {
	for !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.At:
			p.resetModifiers()
			dec, ok := p.parseDecorator()
			if ok {
				p.pendingDecorators = append(p.pendingDecorators, dec)
			}

		case token.KwImport:
			p.dropPending()
			p.parseImport()

		case token.KwExport, token.KwDeclare, token.KwDefault, token.KwAbstract:
			if !p.modActive {
				p.modActive = true
				p.modStart = p.tok.Span.Start
				p.sawExport = false
				p.sawAbstract = false
			}
			if p.at(token.KwExport) {
				p.sawExport = true
			}
			if p.at(token.KwAbstract) {
				p.sawAbstract = true
			}
			p.advance()

		case token.KwClass:
			p.parseClass()

		case token.KwInterface, token.KwEnum:
			p.dropPending()
			p.skipNamedBody()

		case token.KwConstructor:
			p.dropPending()
			if body := p.innermostBody(); body != nil && body.bodyDepth == p.depth && body.class.IsValid() {
				p.parseConstructor(body.class)
			} else {
				p.advance()
			}

		case token.LBrace:
			p.dropPending()
			p.depth++
			p.advance()

		case token.RBrace:
			p.dropPending()
			p.depth--
			p.popBodies()
			p.advance()

		case token.Invalid:
			p.report(diag.SynUnterminatedString, p.tok.Span, "unterminated literal")
			p.dropPending()
			p.advance()

		default:
			p.dropPending()
			p.advance()
		}
	}
	if p.depth != 0 {
		end := source.Span{File: p.file.ID, Start: uint32(len(p.file.Content)), End: uint32(len(p.file.Content))}
		p.report(diag.SynUnclosedDelimiter, end, "unbalanced braces at end of file")
	}
}

func (p *Parser) resetModifiers() {
	p.modActive = false
}

func (p *Parser) dropPending() {
	// decorators attach only to the class declaration that follows them;
	// member/property decorators fall through here
	p.pendingDecorators = nil
	p.modActive = false
}

func (p *Parser) innermostBody() *openBody {
	if len(p.openBodies) == 0 {
		return nil
	}
	return &p.openBodies[len(p.openBodies)-1]
}

func (p *Parser) popBodies() {
	for len(p.openBodies) > 0 {
		top := p.openBodies[len(p.openBodies)-1]
		if p.depth < top.bodyDepth {
			p.openBodies = p.openBodies[:len(p.openBodies)-1]
			continue
		}
		break
	}
}

// parseDecorator consumes "@Name" or "@Name(args...)" or "@ns.Name(...)".
func (p *Parser) parseDecorator() (ast.Decorator, bool) {
	start := p.tok.Span.Start
	p.advance() // @
	if !p.tok.IsIdentLike() {
		p.report(diag.SynMalformedDecorator, p.tok.Span, "expected identifier after '@'")
		return ast.Decorator{}, false
	}
	name := p.tok.Text
	p.advance()
	for p.at(token.Dot) {
		p.advance()
		if !p.tok.IsIdentLike() {
			p.report(diag.SynMalformedDecorator, p.tok.Span, "expected identifier after '.' in decorator name")
			return ast.Decorator{}, false
		}
		name = p.tok.Text // the rightmost segment decides the decorator kind
		p.advance()
	}

	dec := ast.Decorator{Name: name}
	end := p.tok.Span.Start

	if p.at(token.LParen) {
		dec.HasCall = true
		dec.Args, end = p.parseCallArgs()
	}
	dec.Span = source.Span{File: p.file.ID, Start: start, End: end}
	return dec, true
}

// parseCallArgs consumes a balanced "(...)" and splits the top-level
// arguments. Returns the args and the offset just past ')'.
func (p *Parser) parseCallArgs() ([]ast.DecoratorArg, uint32) {
	p.advance() // (
	args := make([]ast.DecoratorArg, 0, 1)

	argStart := p.tok.Span.Start
	argFirst := p.tok.Kind
	nesting := 0
	sawAny := false

	flush := func(endOff uint32) {
		if !sawAny {
			return
		}
		args = append(args, ast.DecoratorArg{
			Span:     source.Span{File: p.file.ID, Start: argStart, End: endOff},
			Text:     string(p.file.Content[argStart:endOff]),
			IsObject: argFirst == token.LBrace,
		})
	}

	for !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.LParen, token.LBracket:
			nesting++
		case token.LBrace:
			nesting++
			p.depth++
		case token.RBrace:
			nesting--
			p.depth--
		case token.RBracket:
			nesting--
		case token.RParen:
			if nesting == 0 {
				flush(p.tok.Span.Start)
				end := p.tok.Span.End
				p.advance()
				return args, end
			}
			nesting--
		case token.Comma:
			if nesting == 0 {
				flush(p.tok.Span.Start)
				p.advance()
				argStart = p.tok.Span.Start
				argFirst = p.tok.Kind
				sawAny = false
				continue
			}
		}
		sawAny = true
		p.advance()
	}
	p.report(diag.SynUnclosedDelimiter, p.tok.Span, "unclosed decorator argument list")
	return args, p.tok.Span.End
}

func (p *Parser) skipNamedBody() {
	p.advance() // interface / enum
	if p.tok.IsIdentLike() {
		p.advance()
	}
	// heritage and type params until the body opens
	for !p.at(token.EOF) && !p.at(token.LBrace) {
		if p.at(token.Semicolon) { // declaration without a body
			return
		}
		p.advance()
	}
	if p.at(token.LBrace) {
		p.depth++
		p.openBodies = append(p.openBodies, openBody{class: ast.NoClassID, bodyDepth: p.depth})
		p.advance()
	}
}
