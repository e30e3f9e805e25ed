package expr

// Expr is a parsed expression node.
type Expr interface {
	exprNode()
}

// Literal is a constant value: a number, string, or boolean.
type Literal struct {
	Val Value
}

func (*Literal) exprNode() {}

// Property references a property of the note under evaluation, by name.
// The name may be dotted ("file.name"); resolution falls back to the
// file-level pseudo-properties when the note has no such property.
type Property struct {
	Name string
}

func (*Property) exprNode() {}

// Comparison is a binary comparison: ==, !=, <, <=, >, >=, contains.
type Comparison struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

func (*Comparison) exprNode() {}

// ArithOp represents an arithmetic operator.
type ArithOp int

const (
	ArithAdd ArithOp = iota // + (numeric add, string concat, date + days)
	ArithSub                // - (numeric sub, date - date -> days)
	ArithMul                // *
	ArithDiv                // /
)

func (op ArithOp) String() string {
	switch op {
	case ArithSub:
		return "-"
	case ArithMul:
		return "*"
	case ArithDiv:
		return "/"
	default:
		return "+"
	}
}

// Arith is a binary arithmetic expression.
type Arith struct {
	Op    ArithOp
	Left  Expr
	Right Expr
}

func (*Arith) exprNode() {}

// And is an n-ary conjunction. Evaluation short-circuits at the first
// falsy child.
type And struct {
	Kids []Expr
}

func (*And) exprNode() {}

// Or is an n-ary disjunction. Evaluation short-circuits at the first
// truthy child.
type Or struct {
	Kids []Expr
}

func (*Or) exprNode() {}

// Not is a unary logical negation.
type Not struct {
	Kid Expr
}

func (*Not) exprNode() {}

// Neg is a unary arithmetic negation. The operand is coerced through
// Value.AsNumber, so a numeric string like "5" negates to -5.
type Neg struct {
	Kid Expr
}

func (*Neg) exprNode() {}

// Call is a function call such as if(cond, then, else) or now().
type Call struct {
	Name string
	Args []Expr
}

func (*Call) exprNode() {}
