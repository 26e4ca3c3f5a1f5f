package parser

import (
	"github.com/mna/l1vm/lang/ast"
	"github.com/mna/l1vm/lang/token"
)

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Tok {
	case token.LET:
		return p.parseLet()
	case token.PRINT:
		return p.parsePrint()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.RETURN:
		return p.parseReturn()
	case token.LBRACE:
		return p.parseBlock(true)
	case token.IDENT:
		return p.parseIdentStmt()
	default:
		p.errorf(p.cur.Pos, "unexpected token %#v, expected a statement", p.cur.Tok)
		p.advance()
		return nil
	}
}

func (p *Parser) parseLet() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'let'
	mutable := false
	if p.cur.Tok == token.MUT {
		mutable = true
		p.advance()
	}
	name := p.names.Intern(p.cur.Lit)
	p.expect(token.IDENT)
	p.expect(token.EQ)
	value := p.parseExpr()
	p.expect(token.SEMI)
	return &ast.LetBinding{LetPos: pos, Name: name, Value: value, Mutable: mutable}
}

func (p *Parser) parsePrint() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'print'
	exprs := []ast.Expr{p.parseExpr()}
	for p.cur.Tok == token.COMMA {
		p.advance()
		exprs = append(exprs, p.parseExpr())
	}
	p.expect(token.SEMI)
	return &ast.Print{PrintPos: pos, Exprs: exprs}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'if'
	cond := p.parseExpr()
	then := p.parseBlock(true)

	var els ast.Stmt
	if p.cur.Tok == token.ELSE {
		p.advance()
		if p.cur.Tok == token.IF {
			els = p.parseIf()
		} else {
			els = p.parseBlock(true)
		}
	}
	return &ast.IfElse{IfPos: pos, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'while'
	cond := p.parseExpr()
	body := p.parseBlock(true)
	return &ast.While{WhilePos: pos, Cond: cond, Body: body}
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'return'
	value := p.parseExpr()
	p.expect(token.SEMI)
	return &ast.Return{ReturnPos: pos, Value: value}
}

// parseIdentStmt handles the two statement forms that start with an
// identifier: assignment ("x = expr;") and a call used as a statement
// ("f(expr, ...);").
func (p *Parser) parseIdentStmt() ast.Stmt {
	namePos := p.cur.Pos
	lit := p.cur.Lit
	p.advance() // IDENT
	name := p.names.Intern(lit)

	switch p.cur.Tok {
	case token.EQ:
		p.advance()
		value := p.parseExpr()
		p.expect(token.SEMI)
		return &ast.Assign{AssignPos: namePos, Name: name, Value: value}
	case token.LPAREN:
		call := p.finishCall(namePos, name)
		p.expect(token.SEMI)
		return &ast.CallStmt{CallPos: namePos, Call: call}
	default:
		p.errorf(p.cur.Pos, "expected '=' or '(' after identifier, got %#v", p.cur.Tok)
		return nil
	}
}
