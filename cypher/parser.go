package cypher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/neo4j-contrib/bolt-cypher-driver/cypher/sqlast"
)

// parser is a small recursive-descent parser over the translatable SQL
// subset: SELECT from one table with any number of INNER or LEFT JOINs
// (translate rejects LEFT), WHERE, ORDER BY, LIMIT/OFFSET, and
// literal-only INSERT/UPDATE/DELETE.
type parser struct {
	toks      []token
	pos       int
	nextParam int
}

func newParser(toks []token) *parser {
	return &parser{toks: toks, nextParam: 1}
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...interface{}) *syntaxError {
	return &syntaxError{pos: p.cur().pos, message: fmt.Sprintf(format, args...)}
}

func (p *parser) isKeyword(kw string) bool {
	t := p.cur()
	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

func (p *parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return p.errorf("expected %s", strings.ToUpper(kw))
	}
	p.advance()
	return nil
}

func (p *parser) isPunct(s string) bool {
	t := p.cur()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return p.errorf("expected %q", s)
	}
	p.advance()
	return nil
}

// ParseStatement parses one SQL statement (SELECT, INSERT, UPDATE, or
// DELETE) from src.
func ParseStatement(src string, namedParamPrefix string) (sqlast.Statement, error) {
	toks, err := lex(src, namedParamPrefix)
	if err != nil {
		return nil, err
	}
	p := newParser(toks)
	switch {
	case p.isKeyword("select"):
		return p.parseSelect()
	case p.isKeyword("insert"):
		return p.parseInsert()
	case p.isKeyword("update"):
		return p.parseUpdate()
	case p.isKeyword("delete"):
		return p.parseDelete()
	default:
		return nil, p.errorf("expected SELECT, INSERT, UPDATE, or DELETE")
	}
}

func (p *parser) parseSelect() (*sqlast.Select, error) {
	if err := p.expectKeyword("select"); err != nil {
		return nil, err
	}
	sel := &sqlast.Select{}
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		sel.Columns = append(sel.Columns, item)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	table, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	sel.From = table

	for p.isKeyword("join") || p.isKeyword("inner") || p.isKeyword("left") {
		kind := sqlast.InnerJoin
		if p.isKeyword("left") {
			kind = sqlast.LeftJoin
			p.advance()
			if p.isKeyword("outer") {
				p.advance()
			}
		} else if p.isKeyword("inner") {
			p.advance()
		}
		if err := p.expectKeyword("join"); err != nil {
			return nil, err
		}
		jt, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("on"); err != nil {
			return nil, err
		}
		left, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("="); err != nil {
			return nil, err
		}
		right, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		sel.Joins = append(sel.Joins, sqlast.Join{Kind: kind, Table: jt, LeftCol: left, RightCol: right})
	}

	if p.isKeyword("where") {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sel.Where = where
	}

	if p.isKeyword("order") {
		p.advance()
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		for {
			col, err := p.parseColumnRef()
			if err != nil {
				return nil, err
			}
			desc := false
			if p.isKeyword("desc") {
				desc = true
				p.advance()
			} else if p.isKeyword("asc") {
				p.advance()
			}
			sel.OrderBy = append(sel.OrderBy, sqlast.OrderItem{Col: col, Desc: desc})
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}

	if p.isKeyword("limit") {
		p.advance()
		n, err := p.parseIntLiteral()
		if err != nil {
			return nil, err
		}
		sel.Limit = &n
	}
	if p.isKeyword("offset") {
		p.advance()
		n, err := p.parseIntLiteral()
		if err != nil {
			return nil, err
		}
		sel.Offset = &n
	}

	if p.cur().kind != tokEOF {
		return nil, p.errorf("unexpected trailing input")
	}
	return sel, nil
}

func (p *parser) parseIntLiteral() (int64, error) {
	t := p.cur()
	if t.kind != tokNumber {
		return 0, p.errorf("expected a number")
	}
	p.advance()
	n, err := strconv.ParseInt(t.text, 10, 64)
	if err != nil {
		return 0, &syntaxError{pos: t.pos, message: "invalid integer literal"}
	}
	return n, nil
}

func (p *parser) parseSelectItem() (sqlast.SelectItem, error) {
	if p.isPunct("*") {
		p.advance()
		return sqlast.SelectItem{Star: true}, nil
	}
	// lookahead: "ident.*"
	if p.cur().kind == tokIdent && p.pos+2 < len(p.toks) &&
		p.toks[p.pos+1].kind == tokPunct && p.toks[p.pos+1].text == "." &&
		p.toks[p.pos+2].kind == tokPunct && p.toks[p.pos+2].text == "*" {
		table := p.advance().text
		p.advance()
		p.advance()
		return sqlast.SelectItem{Star: true, Table: table}, nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return sqlast.SelectItem{}, err
	}
	item := sqlast.SelectItem{Expr: expr}
	if p.isKeyword("as") {
		p.advance()
		item.Alias = p.advance().text
	} else if p.cur().kind == tokIdent && !p.isReservedNext() {
		item.Alias = p.advance().text
	} else if col, ok := expr.(sqlast.ColumnRef); ok {
		item.Alias = col.Column
	}
	return item, nil
}

var reservedFollow = map[string]bool{
	"from": true, "where": true, "join": true, "inner": true, "left": true,
	"order": true, "limit": true, "offset": true, "on": true, "and": true, "or": true,
	"set": true, "values": true,
}

func (p *parser) isReservedNext() bool {
	t := p.cur()
	return t.kind == tokIdent && reservedFollow[strings.ToLower(t.text)]
}

func (p *parser) parseTableRef() (sqlast.TableRef, error) {
	if p.cur().kind != tokIdent {
		return sqlast.TableRef{}, p.errorf("expected table name")
	}
	ref := sqlast.TableRef{Name: p.advance().text}
	if p.isKeyword("as") {
		p.advance()
		ref.Alias = p.advance().text
	} else if p.cur().kind == tokIdent && !p.isReservedNext() {
		ref.Alias = p.advance().text
	}
	return ref, nil
}

func (p *parser) parseColumnRef() (sqlast.ColumnRef, error) {
	if p.cur().kind != tokIdent {
		return sqlast.ColumnRef{}, p.errorf("expected column reference")
	}
	first := p.advance().text
	if p.isPunct(".") {
		p.advance()
		if p.cur().kind != tokIdent {
			return sqlast.ColumnRef{}, p.errorf("expected column name after '.'")
		}
		return sqlast.ColumnRef{Table: first, Column: p.advance().text}, nil
	}
	return sqlast.ColumnRef{Column: first}, nil
}

// parseExpr parses an OR-level expression, the top of the grammar.
func (p *parser) parseExpr() (sqlast.Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (sqlast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = sqlast.BinaryOp{Op: "OR", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (sqlast.Expr, error) {
	left, err := p.parsePredicate()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("and") {
		p.advance()
		right, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		left = sqlast.BinaryOp{Op: "AND", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parsePredicate() (sqlast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.isKeyword("is") {
		p.advance()
		not := false
		if p.isKeyword("not") {
			not = true
			p.advance()
		}
		if err := p.expectKeyword("null"); err != nil {
			return nil, err
		}
		return sqlast.IsNull{Expr: left, Not: not}, nil
	}

	not := false
	if p.isKeyword("not") {
		not = true
		p.advance()
	}

	if p.isKeyword("like") {
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		op := "LIKE"
		if not {
			op = "NOT LIKE"
		}
		return sqlast.BinaryOp{Op: op, Left: left, Right: right}, nil
	}

	if p.isKeyword("between") {
		p.advance()
		low, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("and"); err != nil {
			return nil, err
		}
		high, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return sqlast.Between{Expr: left, Low: low, High: high, Not: not}, nil
	}

	if p.isKeyword("in") {
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		var list []sqlast.Expr
		for !p.isPunct(")") {
			e, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			list = append(list, e)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return sqlast.In{Expr: left, List: list, Not: not}, nil
	}

	if not {
		return nil, p.errorf("expected LIKE, BETWEEN, or IN after NOT")
	}

	op, ok := p.comparisonOp()
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return sqlast.BinaryOp{Op: op, Left: left, Right: right}, nil
}

func (p *parser) comparisonOp() (string, bool) {
	t := p.cur()
	if t.kind != tokPunct {
		return "", false
	}
	switch t.text {
	case "=", "<", "<=", ">", ">=", "<>", "!=":
		return t.text, true
	}
	return "", false
}

func (p *parser) parsePrimary() (sqlast.Expr, error) {
	t := p.cur()
	switch t.kind {
	case tokParam:
		p.advance()
		idx := p.nextParam
		p.nextParam++
		return sqlast.PositionalParam{Index: idx}, nil
	case tokNamedParam:
		p.advance()
		return sqlast.NamedParam{Name: t.text}, nil
	case tokNumber:
		p.advance()
		return sqlast.Literal{Kind: sqlast.LiteralNumber, Text: t.text}, nil
	case tokString:
		p.advance()
		return sqlast.Literal{Kind: sqlast.LiteralString, Text: t.text}, nil
	case tokIdent:
		if strings.EqualFold(t.text, "null") {
			p.advance()
			return sqlast.Literal{Kind: sqlast.LiteralNull}, nil
		}
		if strings.EqualFold(t.text, "true") || strings.EqualFold(t.text, "false") {
			p.advance()
			return sqlast.Literal{Kind: sqlast.LiteralBool, Text: strings.ToLower(t.text)}, nil
		}
		return p.parseColumnRef()
	case tokPunct:
		if t.text == "(" {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, p.errorf("expected an expression")
}

func (p *parser) parseInsert() (*sqlast.Insert, error) {
	if err := p.expectKeyword("insert"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("into"); err != nil {
		return nil, err
	}
	table, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	ins := &sqlast.Insert{Table: table}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	for {
		if p.cur().kind != tokIdent {
			return nil, p.errorf("expected column name")
		}
		ins.Columns = append(ins.Columns, p.advance().text)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("values"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	for {
		v, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		ins.Values = append(ins.Values, v)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if len(ins.Columns) != len(ins.Values) {
		return nil, p.errorf("column count does not match value count")
	}
	if p.cur().kind != tokEOF {
		return nil, p.errorf("unexpected trailing input")
	}
	return ins, nil
}

func (p *parser) parseUpdate() (*sqlast.Update, error) {
	if err := p.expectKeyword("update"); err != nil {
		return nil, err
	}
	table, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	upd := &sqlast.Update{Table: table}
	if err := p.expectKeyword("set"); err != nil {
		return nil, err
	}
	for {
		if p.cur().kind != tokIdent {
			return nil, p.errorf("expected column name")
		}
		col := p.advance().text
		if err := p.expectPunct("="); err != nil {
			return nil, err
		}
		val, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		upd.Sets = append(upd.Sets, sqlast.Assignment{Column: col, Value: val})
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if p.isKeyword("where") {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		upd.Where = where
	}
	if p.cur().kind != tokEOF {
		return nil, p.errorf("unexpected trailing input")
	}
	return upd, nil
}

func (p *parser) parseDelete() (*sqlast.Delete, error) {
	if err := p.expectKeyword("delete"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	table, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	del := &sqlast.Delete{Table: table}
	if p.isKeyword("where") {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		del.Where = where
	}
	if p.cur().kind != tokEOF {
		return nil, p.errorf("unexpected trailing input")
	}
	return del, nil
}
