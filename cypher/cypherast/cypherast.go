// Package cypherast defines the Cypher-side abstract syntax tree the
// translator rewrites a sqlast.Statement into before rendering.
package cypherast

// Statement is a translated Cypher statement ready for rendering.
type Statement struct {
	Pattern    []PatternElement
	Where      Expr
	Write      *WriteClause
	Return     []ReturnItem
	OrderBy    []OrderItem
	Skip       *int64
	Limit      *int64
}

// PatternElement is one node or relationship step of a MATCH pattern.
type PatternElement struct {
	Node *NodePattern
	Rel  *RelPattern // non-nil when this element follows a relationship
}

// NodePattern is "(variable:Label)".
type NodePattern struct {
	Variable string
	Label    string
}

// RelPattern is "-[variable:TYPE]->" connecting the previous node to the
// node carried in the same PatternElement.
type RelPattern struct {
	Variable string
	Type     string
}

// WriteClause carries a CREATE, SET, or DELETE operation alongside the
// MATCH/pattern it applies to.
type WriteClause struct {
	Create     *NodePattern
	Properties []PropertyAssignment
	Sets       []PropertyAssignment
	DeleteVar  string
}

// PropertyAssignment is "variable.property = value" or, within CREATE,
// "property: value".
type PropertyAssignment struct {
	Variable string
	Property string
	Value    Expr
}

// ReturnItem is one "expr AS alias" projection.
type ReturnItem struct {
	Expr  Expr
	Alias string
}

// OrderItem is one ORDER BY term.
type OrderItem struct {
	Expr Expr
	Desc bool
}

// Expr is any scalar Cypher expression.
type Expr interface {
	cypherExpr()
}

// PropertyRef is "variable.property".
type PropertyRef struct {
	Variable string
	Property string
}

func (PropertyRef) cypherExpr() {}

// Literal is a rendered constant.
type Literal struct {
	Kind LiteralKind
	Text string
}

// LiteralKind mirrors sqlast.LiteralKind for the Cypher side.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBool
	LiteralNull
)

func (Literal) cypherExpr() {}

// Param is "$1" (positional, 1-based) or "$name" (named).
type Param struct {
	Name string
}

func (Param) cypherExpr() {}

// BinaryOp is a binary comparison or logical connective, rendered with
// its operator verbatim.
type BinaryOp struct {
	Op    string
	Left  Expr
	Right Expr
}

func (BinaryOp) cypherExpr() {}

// IsNull is "expr IS NULL" / "expr IS NOT NULL".
type IsNull struct {
	Expr Expr
	Not  bool
}

func (IsNull) cypherExpr() {}

// Between is a two-sided range comparison: "low <= expr AND expr <= high".
type Between struct {
	Expr Expr
	Low  Expr
	High Expr
	Not  bool
}

func (Between) cypherExpr() {}

// In is "expr IN [list...]".
type In struct {
	Expr Expr
	List []Expr
	Not  bool
}

func (In) cypherExpr() {}

// Regex is "expr =~ pattern", the LIKE translation.
type Regex struct {
	Expr    Expr
	Pattern string
}

func (Regex) cypherExpr() {}

// Not is a unary boolean negation, "NOT expr".
type Not struct {
	Expr Expr
}

func (Not) cypherExpr() {}
