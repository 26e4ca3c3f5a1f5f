// Package parser builds an L1 abstract syntax tree (lang/ast) from the
// token stream lang/scanner produces. Grounded in the shape of the
// teacher's lang/parser package (a Parser struct carrying one token of
// lookahead, split across parser.go/stmt.go/expr.go by concern) and in
// original_source's lang1 grammar (recursive-descent precedence climbing
// over the same binary operator set, with the same error-recovery
// behavior: a primary expression that can't start leaves the offending
// token unconsumed and yields an ast.Error node, so an enclosing operator
// loop can still pick it up).
package parser

import (
	"fmt"

	"github.com/mna/l1vm/lang/ast"
	"github.com/mna/l1vm/lang/ident"
	"github.com/mna/l1vm/lang/scanner"
	"github.com/mna/l1vm/lang/token"
)

// Parser turns a token stream into an AST, collecting errors rather than
// aborting on the first one (mirroring original_source's ExprsParser tests,
// which assert on multiple collected errors from a single malformed input).
type Parser struct {
	s     *scanner.Scanner
	cur   scanner.Value
	names *ident.Interner
	errs  []error
}

// New returns a Parser positioned at the first token of src.
func New(src []byte, names *ident.Interner) *Parser {
	p := &Parser{names: names}
	p.s = scanner.New(src, p.scanError)
	p.advance()
	return p
}

// Parse scans and parses src into an ordered sequence of top-level nodes
// (function declarations and statements, in source order), along with any
// errors encountered. A non-empty error slice does not necessarily mean the
// returned tree is unusable for diagnostics, but it must never be handed to
// codegen.
func Parse(src []byte, names *ident.Interner) ([]ast.Node, []error) {
	p := New(src, names)
	var nodes []ast.Node
	for p.cur.Tok != token.EOF {
		before := p.cur.Pos
		if p.cur.Tok == token.FN {
			nodes = append(nodes, p.parseFunction())
		} else if s := p.parseStmt(); s != nil {
			nodes = append(nodes, s)
		}
		if p.cur.Pos == before && p.cur.Tok != token.EOF {
			// no token was consumed by the attempt above; force progress.
			p.advance()
		}
	}
	return nodes, p.errs
}

func (p *Parser) scanError(pos token.Pos, msg string) {
	p.errs = append(p.errs, fmt.Errorf("%s: %s", pos, msg))
}

func (p *Parser) errorf(pos token.Pos, format string, args ...any) {
	p.errs = append(p.errs, fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...)))
}

func (p *Parser) advance() { p.cur = p.s.Scan() }

// expect consumes the current token if it matches tok, recording an error
// and leaving the cursor in place otherwise. It returns the token's
// position either way.
func (p *Parser) expect(tok token.Token) token.Pos {
	pos := p.cur.Pos
	if p.cur.Tok != tok {
		p.errorf(pos, "expected %#v, got %#v", tok, p.cur.Tok)
		return pos
	}
	p.advance()
	return pos
}

func (p *Parser) parseFunction() *ast.Function {
	p.advance() // 'fn'
	namePos := p.cur.Pos
	name := p.names.Intern(p.cur.Lit)
	p.expect(token.IDENT)
	p.expect(token.LPAREN)

	var args []ident.Handle
	if p.cur.Tok != token.RPAREN {
		for {
			if p.cur.Tok != token.IDENT {
				p.errorf(p.cur.Pos, "expected parameter name, got %#v", p.cur.Tok)
				break
			}
			args = append(args, p.names.Intern(p.cur.Lit))
			p.advance()
			if p.cur.Tok != token.COMMA {
				break
			}
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	body := p.parseBlock(false) // a function body is an expression block
	return &ast.Function{NamePos: namePos, Name: name, Args: args, Body: body}
}

func (p *Parser) parseBlock(cleanupStack bool) *ast.Block {
	pos := p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for p.cur.Tok != token.RBRACE && p.cur.Tok != token.EOF {
		before := p.cur.Pos
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
		if p.cur.Pos == before && p.cur.Tok != token.RBRACE && p.cur.Tok != token.EOF {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.Block{LBracePos: pos, Stmts: stmts, CleanupStack: cleanupStack}
}
