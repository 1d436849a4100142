// Package sqlast defines the neutral abstract syntax tree that the SQL
// lexer/parser produce and the translator rewrites into Cypher.
package sqlast

// Statement is any top-level parsed SQL statement.
type Statement interface {
	sqlStatement()
}

// Select is a SELECT statement over one table optionally joined to
// others.
type Select struct {
	Columns []SelectItem
	From    TableRef
	Joins   []Join
	Where   Expr
	OrderBy []OrderItem
	Limit   *int64
	Offset  *int64
}

func (*Select) sqlStatement() {}

// SelectItem is one projected expression, optionally aliased.
type SelectItem struct {
	// Star, when true, marks "SELECT *" or "SELECT t.*"; Expr is unused.
	Star  bool
	Table string // qualifies Star, e.g. "t.*"; empty means bare "*"
	Expr  Expr
	Alias string
}

// TableRef names a table and its optional alias.
type TableRef struct {
	Name  string
	Alias string
}

// AliasOrName returns Alias if set, else Name.
func (t TableRef) AliasOrName() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// JoinKind distinguishes join variants; only Inner is translatable today.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
)

// Join is a JOIN clause with an equality ON condition, the only join
// shape the translator rewrites into a relationship pattern.
type Join struct {
	Kind      JoinKind
	Table     TableRef
	LeftCol   ColumnRef
	RightCol  ColumnRef
}

// OrderItem is one ORDER BY term.
type OrderItem struct {
	Col  ColumnRef
	Desc bool
}

// Insert is an INSERT INTO statement with literal-only VALUES.
type Insert struct {
	Table   TableRef
	Columns []string
	Values  []Expr
}

func (*Insert) sqlStatement() {}

// Update is an UPDATE statement.
type Update struct {
	Table TableRef
	Sets  []Assignment
	Where Expr
}

func (*Update) sqlStatement() {}

// Assignment is one "col = expr" term of a SET clause.
type Assignment struct {
	Column string
	Value  Expr
}

// Delete is a DELETE FROM statement.
type Delete struct {
	Table TableRef
	Where Expr
}

func (*Delete) sqlStatement() {}

// Expr is any scalar SQL expression.
type Expr interface {
	sqlExpr()
}

// ColumnRef is a possibly table-qualified column reference.
type ColumnRef struct {
	Table  string
	Column string
}

func (ColumnRef) sqlExpr() {}

// Literal is a constant: a string, number, bool, or null.
type Literal struct {
	Kind  LiteralKind
	Text  string // original textual form, already unescaped for strings
}

// LiteralKind distinguishes the literal's SQL type.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBool
	LiteralNull
)

func (Literal) sqlExpr() {}

// PositionalParam is a "?" placeholder; Index is 1-based, in source order.
type PositionalParam struct {
	Index int
}

func (PositionalParam) sqlExpr() {}

// NamedParam is a prefixed named placeholder, e.g. ":id" with prefix ":".
type NamedParam struct {
	Name string
}

func (NamedParam) sqlExpr() {}

// BinaryOp is a binary comparison or logical connective.
type BinaryOp struct {
	Op    string // "=", "<>", "<", "<=", ">", ">=", "AND", "OR", "LIKE"
	Left  Expr
	Right Expr
}

func (BinaryOp) sqlExpr() {}

// IsNull is "expr IS NULL" / "expr IS NOT NULL".
type IsNull struct {
	Expr  Expr
	Not   bool
}

func (IsNull) sqlExpr() {}

// Between is "expr BETWEEN low AND high".
type Between struct {
	Expr Expr
	Low  Expr
	High Expr
	Not  bool
}

func (Between) sqlExpr() {}

// In is "expr IN (list...)".
type In struct {
	Expr Expr
	List []Expr
	Not  bool
}

func (In) sqlExpr() {}
