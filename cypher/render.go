package cypher

import (
	"strconv"
	"strings"

	"github.com/neo4j-contrib/bolt-cypher-driver/cypher/cypherast"
)

// Render turns a translated Cypher statement into text, applying cfg's
// render-time name casing and name-escaping policy.
func Render(stmt *cypherast.Statement, cfg Config) string {
	r := &renderer{cfg: cfg}
	return r.renderStatement(stmt)
}

type renderer struct {
	cfg Config
}

func (r *renderer) name(s string) string {
	s = r.cfg.RenderNameCase().apply(s)
	if r.cfg.AlwaysEscapeNames() {
		return "`" + s + "`"
	}
	return s
}

func (r *renderer) renderStatement(stmt *cypherast.Statement) string {
	var parts []string

	if len(stmt.Pattern) > 0 {
		parts = append(parts, "MATCH "+r.renderPattern(stmt.Pattern))
	}
	if stmt.Where != nil {
		parts = append(parts, "WHERE "+r.renderExpr(stmt.Where))
	}

	if stmt.Write != nil {
		w := stmt.Write
		switch {
		case w.Create != nil:
			parts = append(parts, "CREATE "+r.renderCreateNode(w.Create, w.Properties))
		case w.DeleteVar != "":
			parts = append(parts, "DELETE "+w.DeleteVar)
		case len(w.Sets) > 0:
			var sets []string
			for _, s := range w.Sets {
				sets = append(sets, s.Variable+"."+s.Property+" = "+r.renderExpr(s.Value))
			}
			parts = append(parts, "SET "+strings.Join(sets, ", "))
		}
	}

	if len(stmt.Return) > 0 {
		var items []string
		for _, it := range stmt.Return {
			items = append(items, r.renderReturnItem(it))
		}
		parts = append(parts, "RETURN "+strings.Join(items, ", "))
	}

	if len(stmt.OrderBy) > 0 {
		var items []string
		for _, ob := range stmt.OrderBy {
			s := r.renderExpr(ob.Expr)
			if ob.Desc {
				s += " DESC"
			}
			items = append(items, s)
		}
		parts = append(parts, "ORDER BY "+strings.Join(items, ", "))
	}
	if stmt.Skip != nil {
		parts = append(parts, "SKIP "+strconv.FormatInt(*stmt.Skip, 10))
	}
	if stmt.Limit != nil {
		parts = append(parts, "LIMIT "+strconv.FormatInt(*stmt.Limit, 10))
	}

	// PrettyPrint favors a single readable line for short statements;
	// disabling it renders one clause per line, useful for diffing
	// generated statements in logs.
	sep := " "
	if !r.cfg.PrettyPrint() {
		sep = "\n"
	}
	return strings.Join(parts, sep)
}

func (r *renderer) renderPattern(elems []cypherast.PatternElement) string {
	var b strings.Builder
	for i, el := range elems {
		if i > 0 && el.Rel != nil {
			b.WriteString("-[")
			if el.Rel.Variable != "" {
				b.WriteString(el.Rel.Variable)
			}
			b.WriteString(":")
			b.WriteString(el.Rel.Type)
			b.WriteString("]->")
		}
		b.WriteString(r.renderNode(el.Node))
	}
	return b.String()
}

func (r *renderer) renderNode(n *cypherast.NodePattern) string {
	return "(" + n.Variable + ":" + r.name(n.Label) + ")"
}

func (r *renderer) renderCreateNode(n *cypherast.NodePattern, props []cypherast.PropertyAssignment) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(n.Variable)
	b.WriteString(":")
	b.WriteString(r.name(n.Label))
	if len(props) > 0 {
		b.WriteString(" {")
		var items []string
		for _, p := range props {
			items = append(items, p.Property+": "+r.renderExpr(p.Value))
		}
		b.WriteString(strings.Join(items, ", "))
		b.WriteString("}")
	}
	b.WriteString(")")
	return b.String()
}

func (r *renderer) renderReturnItem(it cypherast.ReturnItem) string {
	if pr, ok := it.Expr.(cypherast.PropertyRef); ok && pr.Property == "" {
		// "*" expansion: t.* -> all of t's properties as t
		return pr.Variable
	}
	s := r.renderExpr(it.Expr)
	if it.Alias != "" {
		s += " AS " + it.Alias
	}
	return s
}

func (r *renderer) renderExpr(e cypherast.Expr) string {
	switch v := e.(type) {
	case cypherast.PropertyRef:
		return v.Variable + "." + v.Property
	case cypherast.Literal:
		switch v.Kind {
		case cypherast.LiteralString:
			return "'" + strings.ReplaceAll(v.Text, "'", "\\'") + "'"
		case cypherast.LiteralNull:
			return "null"
		default:
			return v.Text
		}
	case cypherast.Param:
		return "$" + v.Name
	case cypherast.BinaryOp:
		return r.renderExpr(v.Left) + " " + v.Op + " " + r.renderExpr(v.Right)
	case cypherast.IsNull:
		if v.Not {
			return r.renderExpr(v.Expr) + " IS NOT NULL"
		}
		return r.renderExpr(v.Expr) + " IS NULL"
	case cypherast.Between:
		s := r.renderExpr(v.Low) + " <= " + r.renderExpr(v.Expr) + " AND " + r.renderExpr(v.Expr) + " <= " + r.renderExpr(v.High)
		if v.Not {
			return "NOT (" + s + ")"
		}
		return s
	case cypherast.In:
		var items []string
		for _, le := range v.List {
			items = append(items, r.renderExpr(le))
		}
		s := r.renderExpr(v.Expr) + " IN [" + strings.Join(items, ", ") + "]"
		if v.Not {
			return "NOT (" + s + ")"
		}
		return s
	case cypherast.Regex:
		return r.renderExpr(v.Expr) + " =~ '" + v.Pattern + "'"
	case cypherast.Not:
		return "NOT (" + r.renderExpr(v.Expr) + ")"
	default:
		return ""
	}
}
