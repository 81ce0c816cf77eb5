package parser

import (
	"dimigrate/internal/ast"
	"dimigrate/internal/diag"
	"dimigrate/internal/source"
	"dimigrate/internal/token"
)

// parseClass consumes "class Name<...> extends Base implements I {..." up to
// and including the opening brace of the body, allocates the ClassDecl, and
// pushes its body so a later "constructor" token attaches to it. The body
// itself is handled by the main walk.
func (p *Parser) parseClass() {
	declStart := p.tok.Span.Start
	if p.modActive {
		declStart = p.modStart
	}
	if len(p.pendingDecorators) > 0 && p.pendingDecorators[0].Span.Start < declStart {
		declStart = p.pendingDecorators[0].Span.Start
	}

	decl := ast.ClassDecl{
		Decorators: p.pendingDecorators,
		Exported:   p.modActive && p.sawExport,
		Abstract:   p.modActive && p.sawAbstract,
	}
	p.pendingDecorators = nil
	p.modActive = false

	p.advance() // class

	if p.tok.IsIdentLike() {
		decl.Name = p.tok.Text
		decl.NameSpan = p.tok.Span
		p.advance()
	}

	if p.at(token.Lt) {
		p.skipAngles()
	}

	if p.at(token.KwExtends) {
		p.parseHeritage(&decl)
	}
	if p.at(token.KwImplements) {
		// implements list never affects DI; skip to the body
		for !p.at(token.EOF) && !p.at(token.LBrace) {
			if p.at(token.Lt) {
				p.skipAngles()
				continue
			}
			p.advance()
		}
	}

	if !p.at(token.LBrace) {
		p.report(diag.SynUnclosedDelimiter, p.tok.Span, "expected class body")
		return
	}

	bodyOpen := p.tok.Span
	p.depth++
	bodyDepth := p.depth
	p.advance()

	id := ast.NoClassID
	if decl.Name != "" {
		decl.Span = source.Span{File: p.file.ID, Start: declStart, End: bodyOpen.End}
		id = p.tree.NewClass(p.astFile, decl)
	}
	p.openBodies = append(p.openBodies, openBody{class: id, bodyDepth: bodyDepth})
}

// parseHeritage consumes "extends <expr>" and records the base head
// identifier. A base that is not a plain (possibly dotted) identifier is
// flagged complex; the transform refuses to reason about it.
func (p *Parser) parseHeritage(decl *ast.ClassDecl) {
	p.advance() // extends

	if !p.tok.IsIdentLike() {
		decl.BaseComplex = true
	} else {
		decl.Base = p.tok.Text
		decl.BaseSpan = p.tok.Span
		p.advance()
		for p.at(token.Dot) {
			// dotted base (ns.Base) cannot be matched to a local declaration
			decl.BaseComplex = true
			p.advance()
			if p.tok.IsIdentLike() {
				p.advance()
			}
		}
		if p.at(token.Lt) {
			p.skipAngles()
		}
		if p.at(token.LParen) {
			// mixin application: extends Mixin(Base)
			decl.BaseComplex = true
		}
	}

	// drain whatever remains of the extends expression
	nesting := 0
	for !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.LParen, token.LBracket:
			nesting++
		case token.LBrace:
			if nesting == 0 {
				return // class body
			}
			nesting++
			p.depth++
		case token.RBrace:
			nesting--
			p.depth--
		case token.RParen, token.RBracket:
			nesting--
		case token.KwImplements:
			if nesting == 0 {
				return
			}
		}
		p.advance()
	}
}

// skipAngles consumes a balanced <...> run (type parameters/arguments).
func (p *Parser) skipAngles() {
	angle := 0
	for !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.Lt:
			angle++
		case token.Gt:
			angle--
		case token.LBrace:
			p.depth++
		case token.RBrace:
			p.depth--
		}
		p.advance()
		if angle == 0 {
			return
		}
	}
}

// parseConstructor consumes "constructor(params...)" and records the
// parameter list on the owning class. Overload signatures are each parsed;
// the last one (the implementation) wins.
func (p *Parser) parseConstructor(classID ast.ClassID) {
	p.advance() // constructor
	if !p.at(token.LParen) {
		return
	}
	p.advance() // (

	params := make([]ast.Param, 0, 4)
	for !p.at(token.EOF) && !p.at(token.RParen) {
		param, ok := p.parseParam()
		if ok {
			params = append(params, param)
		}
		if p.at(token.Comma) {
			p.advance()
		}
	}
	if p.at(token.RParen) {
		p.advance()
	}

	class := p.tree.Class(classID)
	class.HasCtor = true
	class.Params = params
}

// parseParam parses one constructor parameter:
//
//	[@Dec(...)] [private|public|protected|readonly]* [...]name[?][: Type][= default]
func (p *Parser) parseParam() (ast.Param, bool) {
	for p.at(token.At) {
		// parameter decorators (@Inject, @Optional, ...) are framework
		// metadata in their own right; the type annotation still decides
		// resolvability, so they are consumed and dropped here
		if _, ok := p.parseDecorator(); !ok {
			p.skipToParamEnd()
			return ast.Param{}, false
		}
	}
	for p.at(token.KwPrivate) || p.at(token.KwProtected) || p.at(token.KwPublic) || p.at(token.KwReadonly) {
		p.advance()
	}
	if p.at(token.Ellipsis) {
		p.advance()
	}

	if !p.tok.IsIdentLike() {
		// destructured or otherwise unnamed parameter; keep its shape
		param := ast.Param{Span: p.tok.Span, TypeKind: ast.ParamTypeNone}
		p.skipToParamEnd()
		return param, true
	}

	param := ast.Param{Name: p.tok.Text, Span: p.tok.Span}
	p.advance()
	if p.at(token.Question) {
		p.advance()
	}

	if p.at(token.Colon) {
		p.advance()
		if p.tok.IsIdentLike() {
			param.TypeKind = ast.ParamTypeRef
			param.TypeName = p.tok.Text
			param.TypeSpan = p.tok.Span
		} else {
			param.TypeKind = ast.ParamTypeInline
			param.TypeSpan = p.tok.Span
		}
		p.skipToParamEnd()
		param.Span = param.Span.Cover(param.TypeSpan)
		return param, true
	}

	p.skipToParamEnd()
	return param, true
}

// skipToParamEnd consumes tokens until the comma or closing paren that ends
// the current parameter, balancing every bracket kind on the way.
func (p *Parser) skipToParamEnd() {
	nesting := 0
	angle := 0
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
		case token.Lt:
			angle++
		case token.Gt:
			if angle > 0 {
				angle--
			}
		case token.Comma:
			if nesting == 0 && angle == 0 {
				return
			}
		case token.RParen:
			if nesting == 0 {
				return
			}
			nesting--
		}
		p.advance()
	}
}
