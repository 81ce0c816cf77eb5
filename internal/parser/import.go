package parser

import (
	"strings"

	"dimigrate/internal/ast"
	"dimigrate/internal/diag"
	"dimigrate/internal/source"
	"dimigrate/internal/token"
)

// parseImport consumes one import statement:
//
//	import './side-effect';
//	import Foo from 'm';
//	import * as ns from 'm';
//	import { a, b as c } from 'm';
//	import Foo, { a } from 'm';
//	import type { T } from 'm';
func (p *Parser) parseImport() {
	start := p.tok.Span.Start
	p.advance() // import

	decl := ast.ImportDecl{}

	// bare side-effect import
	if p.at(token.String) {
		decl.Module = unquote(p.tok.Text)
		end := p.tok.Span.End
		p.advance()
		end = p.finishStatement(end)
		decl.Span = source.Span{File: p.file.ID, Start: start, End: end}
		p.tree.NewImport(p.astFile, decl)
		return
	}

	// "import type" — erased at compile time
	if p.tok.Kind == token.Ident && p.tok.Text == "type" {
		next := p.lx.Peek()
		if next.Kind == token.LBrace || next.Kind == token.Star || next.IsIdentLike() {
			decl.TypeOnly = true
			p.advance()
		}
	}

	if p.tok.IsIdentLike() { // default binding
		decl.DefaultName = p.tok.Text
		p.advance()
		if p.at(token.Comma) {
			p.advance()
		}
	}

	switch {
	case p.at(token.Star): // namespace binding
		p.advance()
		if !p.at(token.KwAs) {
			p.report(diag.SynMalformedImport, p.tok.Span, "expected 'as' in namespace import")
			p.recoverImport()
			return
		}
		p.advance()
		if !p.tok.IsIdentLike() {
			p.report(diag.SynMalformedImport, p.tok.Span, "expected identifier after 'as'")
			p.recoverImport()
			return
		}
		decl.NamespaceName = p.tok.Text
		p.advance()

	case p.at(token.LBrace): // named clause
		ok := p.parseNamedImports(&decl)
		if !ok {
			p.recoverImport()
			return
		}
	}

	if !p.at(token.KwFrom) {
		p.report(diag.SynMalformedImport, p.tok.Span, "expected 'from' in import statement")
		p.recoverImport()
		return
	}
	p.advance()
	if !p.at(token.String) {
		p.report(diag.SynExpectModulePath, p.tok.Span, "expected module path string")
		p.recoverImport()
		return
	}
	decl.Module = unquote(p.tok.Text)
	end := p.tok.Span.End
	p.advance()
	end = p.finishStatement(end)

	decl.Span = source.Span{File: p.file.ID, Start: start, End: end}
	p.tree.NewImport(p.astFile, decl)
}

// parseNamedImports consumes "{ a, b as c }" and fills Named/NamedSpan.
func (p *Parser) parseNamedImports(decl *ast.ImportDecl) bool {
	decl.HasNamed = true
	openEnd := p.tok.Span.End
	p.advance() // {

	for !p.at(token.EOF) && !p.at(token.RBrace) {
		// "type X" inside the clause is a per-specifier type-only import
		specTypeOnly := false
		if p.tok.Kind == token.Ident && p.tok.Text == "type" && p.lx.Peek().IsIdentLike() {
			specTypeOnly = true
			p.advance()
		}
		if !p.tok.IsIdentLike() {
			p.report(diag.SynMalformedImport, p.tok.Span, "expected import specifier")
			return false
		}
		spec := ast.ImportSpec{Name: p.tok.Text, Span: p.tok.Span}
		p.advance()
		if p.at(token.KwAs) {
			p.advance()
			if !p.tok.IsIdentLike() {
				p.report(diag.SynMalformedImport, p.tok.Span, "expected identifier after 'as'")
				return false
			}
			spec.Alias = p.tok.Text
			spec.Span = spec.Span.Cover(p.tok.Span)
			p.advance()
		}
		if !specTypeOnly {
			decl.Named = append(decl.Named, spec)
		}
		if p.at(token.Comma) {
			p.advance()
		}
	}
	if !p.at(token.RBrace) {
		p.report(diag.SynUnclosedDelimiter, p.tok.Span, "unclosed named-import clause")
		return false
	}
	decl.NamedSpan = source.Span{File: p.file.ID, Start: openEnd, End: p.tok.Span.Start}
	p.advance() // }
	return true
}

// finishStatement consumes an optional trailing semicolon and returns the
// statement's end offset.
func (p *Parser) finishStatement(end uint32) uint32 {
	if p.at(token.Semicolon) {
		end = p.tok.Span.End
		p.advance()
	}
	return end
}

// recoverImport skips to the end of a malformed import statement.
func (p *Parser) recoverImport() {
	for !p.at(token.EOF) && !p.at(token.Semicolon) {
		if p.at(token.KwImport) || p.at(token.KwExport) || p.at(token.KwClass) {
			return
		}
		p.advance()
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
}

func unquote(text string) string {
	if len(text) >= 2 {
		c := text[0]
		if (c == '\'' || c == '"') && text[len(text)-1] == c {
			return text[1 : len(text)-1]
		}
	}
	return strings.TrimSpace(text)
}
