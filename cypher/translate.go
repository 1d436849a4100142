package cypher

import (
	"strconv"
	"strings"

	"github.com/neo4j-contrib/bolt-cypher-driver/cypher/cypherast"
	"github.com/neo4j-contrib/bolt-cypher-driver/cypher/sqlast"
)

// Translate parses a single SQL statement and rewrites it into a Cypher
// statement string, honoring cfg. If src carries the force-cypher pragma
// outside any quoted span, it is returned verbatim without parsing.
func Translate(src string, cfg Config) (string, error) {
	if out, forced := ApplyForceCypher(src); forced {
		return out, nil
	}

	stmt, err := ParseStatement(src, cfg.ParseNamedParamPrefix())
	if err != nil {
		if se, ok := err.(*syntaxError); ok {
			return "", SyntaxErr(se.pos, se.message)
		}
		return "", SyntaxErr(0, err.Error())
	}

	t := &translator{cfg: cfg, vars: map[string]string{}}
	cy, err := t.translateStatement(stmt)
	if err != nil {
		return "", err
	}
	return Render(cy, cfg), nil
}

type translator struct {
	cfg  Config
	vars map[string]string // table name/alias (case-normalized) -> pattern variable
}

func (t *translator) translateStatement(stmt sqlast.Statement) (*cypherast.Statement, error) {
	switch s := stmt.(type) {
	case *sqlast.Select:
		return t.translateSelect(s)
	case *sqlast.Insert:
		return t.translateInsert(s)
	case *sqlast.Update:
		return t.translateUpdate(s)
	case *sqlast.Delete:
		return t.translateDelete(s)
	default:
		return nil, UntranslatableErr("unknown statement type")
	}
}

// defaultVariable derives a pattern variable from a table name absent an
// explicit alias: the lower-cased first letter, e.g. "Person" -> "p".
func defaultVariable(tableName string) string {
	if tableName == "" {
		return "n"
	}
	return strings.ToLower(tableName[:1])
}

func (t *translator) bindTable(ref sqlast.TableRef) string {
	variable := ref.Alias
	if variable == "" {
		variable = defaultVariable(ref.Name)
	}
	t.vars[strings.ToLower(ref.AliasOrName())] = variable
	return variable
}

func (t *translator) resolveVariable(table string) (string, error) {
	if table == "" {
		if len(t.vars) == 1 {
			for _, v := range t.vars {
				return v, nil
			}
		}
		return "", UntranslatableErr("unqualified column reference with more than one table in scope")
	}
	v, ok := t.vars[strings.ToLower(table)]
	if !ok {
		return "", UntranslatableErr("column reference to unknown table " + table)
	}
	return v, nil
}

func (t *translator) translateSelect(s *sqlast.Select) (*cypherast.Statement, error) {
	out := &cypherast.Statement{}

	fromVar := t.bindTable(s.From)
	out.Pattern = append(out.Pattern, cypherast.PatternElement{
		Node: &cypherast.NodePattern{Variable: fromVar, Label: t.cfg.LabelFor(s.From.Name)},
	})

	for _, j := range s.Joins {
		if j.Kind != sqlast.InnerJoin {
			return nil, UntranslatableErr("non-inner join")
		}
		toVar := t.bindTable(j.Table)
		relType := t.cfg.RelTypeFor(j.LeftCol.Column, j.RightCol.Column)
		relVar := "r"
		out.Pattern = append(out.Pattern, cypherast.PatternElement{
			Rel:  &cypherast.RelPattern{Variable: relVar, Type: relType},
			Node: &cypherast.NodePattern{Variable: toVar, Label: t.cfg.LabelFor(j.Table.Name)},
		})
	}

	ret, err := t.translateProjection(s.Columns)
	if err != nil {
		return nil, err
	}
	out.Return = ret

	if s.Where != nil {
		where, err := t.translateExpr(s.Where)
		if err != nil {
			return nil, err
		}
		out.Where = where
	}

	for _, ob := range s.OrderBy {
		v, err := t.resolveVariable(ob.Col.Table)
		if err != nil {
			return nil, err
		}
		out.OrderBy = append(out.OrderBy, cypherast.OrderItem{
			Expr: cypherast.PropertyRef{Variable: v, Property: ob.Col.Column},
			Desc: ob.Desc,
		})
	}
	out.Skip = s.Offset
	out.Limit = s.Limit

	return out, nil
}

func (t *translator) translateProjection(items []sqlast.SelectItem) ([]cypherast.ReturnItem, error) {
	var out []cypherast.ReturnItem
	for _, item := range items {
		if item.Star {
			if item.Table != "" {
				v, err := t.resolveVariable(item.Table)
				if err != nil {
					return nil, err
				}
				out = append(out, cypherast.ReturnItem{Expr: cypherast.PropertyRef{Variable: v}})
				continue
			}
			for _, v := range t.vars {
				out = append(out, cypherast.ReturnItem{Expr: cypherast.PropertyRef{Variable: v}})
			}
			continue
		}
		expr, err := t.translateExpr(item.Expr)
		if err != nil {
			return nil, err
		}
		alias := item.Alias
		out = append(out, cypherast.ReturnItem{Expr: expr, Alias: alias})
	}
	return out, nil
}

func (t *translator) translateExpr(e sqlast.Expr) (cypherast.Expr, error) {
	switch v := e.(type) {
	case sqlast.ColumnRef:
		variable, err := t.resolveVariable(v.Table)
		if err != nil {
			return nil, err
		}
		return cypherast.PropertyRef{Variable: variable, Property: v.Column}, nil
	case sqlast.Literal:
		return cypherast.Literal{Kind: cypherast.LiteralKind(v.Kind), Text: v.Text}, nil
	case sqlast.PositionalParam:
		return cypherast.Param{Name: strconv.Itoa(v.Index)}, nil
	case sqlast.NamedParam:
		return cypherast.Param{Name: v.Name}, nil
	case sqlast.BinaryOp:
		if v.Op == "LIKE" || v.Op == "NOT LIKE" {
			lit, ok := v.Right.(sqlast.Literal)
			if !ok || lit.Kind != sqlast.LiteralString {
				return nil, UntranslatableErr("LIKE pattern must be a string literal")
			}
			left, err := t.translateExpr(v.Left)
			if err != nil {
				return nil, err
			}
			pattern := likeToRegex(lit.Text)
			regex := cypherast.Regex{Expr: left, Pattern: pattern}
			if v.Op == "NOT LIKE" {
				return cypherast.Not{Expr: regex}, nil
			}
			return regex, nil
		}
		left, err := t.translateExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := t.translateExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return cypherast.BinaryOp{Op: v.Op, Left: left, Right: right}, nil
	case sqlast.IsNull:
		inner, err := t.translateExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return cypherast.IsNull{Expr: inner, Not: v.Not}, nil
	case sqlast.Between:
		inner, err := t.translateExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		low, err := t.translateExpr(v.Low)
		if err != nil {
			return nil, err
		}
		high, err := t.translateExpr(v.High)
		if err != nil {
			return nil, err
		}
		return cypherast.Between{Expr: inner, Low: low, High: high, Not: v.Not}, nil
	case sqlast.In:
		inner, err := t.translateExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		var list []cypherast.Expr
		for _, le := range v.List {
			ce, err := t.translateExpr(le)
			if err != nil {
				return nil, err
			}
			list = append(list, ce)
		}
		return cypherast.In{Expr: inner, List: list, Not: v.Not}, nil
	default:
		return nil, UntranslatableErr("unsupported expression")
	}
}

// likeToRegex converts a SQL LIKE pattern ('%' any run, '_' any char) into
// an anchored regular expression.
func likeToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		case '.', '*', '+', '?', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\':
			b.WriteString("\\")
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("$")
	return b.String()
}

func (t *translator) translateInsert(s *sqlast.Insert) (*cypherast.Statement, error) {
	variable := t.bindTable(s.Table)
	node := &cypherast.NodePattern{Variable: variable, Label: t.cfg.LabelFor(s.Table.Name)}

	var props []cypherast.PropertyAssignment
	for i, col := range s.Columns {
		val, err := t.translateExpr(s.Values[i])
		if err != nil {
			return nil, err
		}
		props = append(props, cypherast.PropertyAssignment{Variable: variable, Property: col, Value: val})
	}

	return &cypherast.Statement{
		Write: &cypherast.WriteClause{Create: node, Properties: props},
	}, nil
}

func (t *translator) translateUpdate(s *sqlast.Update) (*cypherast.Statement, error) {
	variable := t.bindTable(s.Table)
	out := &cypherast.Statement{
		Pattern: []cypherast.PatternElement{{
			Node: &cypherast.NodePattern{Variable: variable, Label: t.cfg.LabelFor(s.Table.Name)},
		}},
	}
	if s.Where != nil {
		where, err := t.translateExpr(s.Where)
		if err != nil {
			return nil, err
		}
		out.Where = where
	}
	var sets []cypherast.PropertyAssignment
	for _, a := range s.Sets {
		val, err := t.translateExpr(a.Value)
		if err != nil {
			return nil, err
		}
		sets = append(sets, cypherast.PropertyAssignment{Variable: variable, Property: a.Column, Value: val})
	}
	out.Write = &cypherast.WriteClause{Sets: sets}
	return out, nil
}

func (t *translator) translateDelete(s *sqlast.Delete) (*cypherast.Statement, error) {
	variable := t.bindTable(s.Table)
	out := &cypherast.Statement{
		Pattern: []cypherast.PatternElement{{
			Node: &cypherast.NodePattern{Variable: variable, Label: t.cfg.LabelFor(s.Table.Name)},
		}},
	}
	if s.Where != nil {
		where, err := t.translateExpr(s.Where)
		if err != nil {
			return nil, err
		}
		out.Where = where
	}
	out.Write = &cypherast.WriteClause{DeleteVar: variable}
	return out, nil
}
