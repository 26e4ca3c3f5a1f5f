package parser

import (
	"github.com/mna/l1vm/lang/ast"
	"github.com/mna/l1vm/lang/ident"
	"github.com/mna/l1vm/lang/token"
)

// parseExpr parses a full expression at the lowest precedence (logical or).
// The chain below implements precedence climbing over the twelve binary
// operators in six tiers, each a thin "parse next tier, then fold in any
// same-tier operators left-associatively" loop.
func (p *Parser) parseExpr() ast.Expr { return p.parseOr() }

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.cur.Tok == token.OR {
		pos := p.cur.Pos
		p.advance()
		right := p.parseAnd()
		left = &ast.Op{OpPos: pos, Left: left, Opcode: ast.Or, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.cur.Tok == token.AND {
		pos := p.cur.Pos
		p.advance()
		right := p.parseEquality()
		left = &ast.Op{OpPos: pos, Left: left, Opcode: ast.And, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for p.cur.Tok == token.EQL || p.cur.Tok == token.NEQ {
		op, pos := ast.Equal, p.cur.Pos
		if p.cur.Tok == token.NEQ {
			op = ast.NotEqual
		}
		p.advance()
		right := p.parseRelational()
		left = &ast.Op{OpPos: pos, Left: left, Opcode: op, Right: right}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for p.cur.Tok == token.LT || p.cur.Tok == token.GT || p.cur.Tok == token.LE || p.cur.Tok == token.GE {
		pos := p.cur.Pos
		var op ast.Opcode
		switch p.cur.Tok {
		case token.LT:
			op = ast.LessThan
		case token.GT:
			op = ast.GreaterThan
		case token.LE:
			op = ast.LessEqual
		case token.GE:
			op = ast.GreaterEqual
		}
		p.advance()
		right := p.parseAdditive()
		left = &ast.Op{OpPos: pos, Left: left, Opcode: op, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.cur.Tok == token.PLUS || p.cur.Tok == token.MINUS {
		op, pos := ast.Add, p.cur.Pos
		if p.cur.Tok == token.MINUS {
			op = ast.Sub
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.Op{OpPos: pos, Left: left, Opcode: op, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parsePrimary()
	for p.cur.Tok == token.STAR || p.cur.Tok == token.SLASH {
		op, pos := ast.Mul, p.cur.Pos
		if p.cur.Tok == token.SLASH {
			op = ast.Div
		}
		p.advance()
		right := p.parsePrimary()
		left = &ast.Op{OpPos: pos, Left: left, Opcode: op, Right: right}
	}
	return left
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur
	switch tok.Tok {
	case token.INT:
		p.advance()
		return &ast.Number{ValPos: tok.Pos, Value: tok.Int}
	case token.TRUE:
		p.advance()
		return &ast.Number{ValPos: tok.Pos, Value: 1}
	case token.FALSE:
		p.advance()
		return &ast.Number{ValPos: tok.Pos, Value: 0}
	case token.MINUS:
		p.advance()
		operand := p.parsePrimary()
		return &ast.Op{OpPos: tok.Pos, Left: &ast.Number{ValPos: tok.Pos, Value: 0}, Opcode: ast.Sub, Right: operand}
	case token.IDENT:
		p.advance()
		name := p.names.Intern(tok.Lit)
		if p.cur.Tok == token.LPAREN {
			return p.finishCall(tok.Pos, name)
		}
		return &ast.EnvLoad{NamePos: tok.Pos, Name: name}
	case token.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	default:
		// leave tok unconsumed: if it is itself an operator, the enclosing
		// precedence level's loop picks it up and keeps parsing, matching
		// original_source's documented recovery for inputs like "22 * + 3".
		p.errorf(tok.Pos, "unexpected token %#v, expected an expression", tok.Tok)
		return &ast.Error{ErrPos: tok.Pos}
	}
}

// finishCall parses the parenthesized, comma-separated argument list of a
// call expression. The cursor is positioned at the opening '(' on entry.
func (p *Parser) finishCall(pos token.Pos, name ident.Handle) *ast.Call {
	p.expect(token.LPAREN)
	var args []ast.Expr
	if p.cur.Tok != token.RPAREN {
		for {
			args = append(args, p.parseExpr())
			if p.cur.Tok != token.COMMA {
				break
			}
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return &ast.Call{NamePos: pos, Name: name, Args: args}
}
