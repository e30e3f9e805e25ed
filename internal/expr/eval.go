package expr

import (
	"fmt"
	"strings"
	"time"

	"github.com/loamkb/loam/internal/dates"
	"github.com/loamkb/loam/internal/model"
)

// GraphReader is the minimal view of the graph index the evaluator needs for
// relation-aware predicates. Methods return resolved target permalinks.
type GraphReader interface {
	Outbound(permalink string, kind model.RelationKind) []string
	Inbound(permalink string, kind model.RelationKind) []string
}

// Env is the evaluation context for one record.
//
// Now is sampled once per materialization pass and threaded through
// explicitly, so every use of now() within one record's evaluation is
// internally consistent and nothing reads ambient process state.
type Env struct {
	Note  *model.Note
	Graph GraphReader // may be nil; relation functions then yield empty lists
	Now   time.Time
}

// Eval evaluates a parsed expression against the environment.
//
// Referencing a property absent on the note yields the typed empty value.
// Type mismatches surface as *TypeMismatchError and fail only this record's
// evaluation; callers materializing views absorb them per record.
func Eval(e Expr, env *Env) (Value, error) {
	switch n := e.(type) {
	case *Literal:
		return n.Val, nil

	case *Property:
		return resolveProperty(env.Note, n.Name), nil

	case *Comparison:
		left, err := Eval(n.Left, env)
		if err != nil {
			return Empty(), err
		}
		right, err := Eval(n.Right, env)
		if err != nil {
			return Empty(), err
		}
		return ApplyCompare(n.Op, left, right)

	case *Arith:
		left, err := Eval(n.Left, env)
		if err != nil {
			return Empty(), err
		}
		right, err := Eval(n.Right, env)
		if err != nil {
			return Empty(), err
		}
		return applyArith(n.Op, left, right)

	case *And:
		// Short-circuit: stop at the first falsy child; later children are
		// never evaluated.
		for _, kid := range n.Kids {
			v, err := Eval(kid, env)
			if err != nil {
				return Empty(), err
			}
			if !v.Truthy() {
				return Bool(false), nil
			}
		}
		return Bool(true), nil

	case *Or:
		// Short-circuit: stop at the first truthy child.
		for _, kid := range n.Kids {
			v, err := Eval(kid, env)
			if err != nil {
				return Empty(), err
			}
			if v.Truthy() {
				return Bool(true), nil
			}
		}
		return Bool(false), nil

	case *Not:
		v, err := Eval(n.Kid, env)
		if err != nil {
			return Empty(), err
		}
		return Bool(!v.Truthy()), nil

	case *Neg:
		v, err := Eval(n.Kid, env)
		if err != nil {
			return Empty(), err
		}
		if v.IsEmpty() {
			return Empty(), nil
		}
		if f, ok := v.AsNumber(); ok {
			return Number(-f), nil
		}
		return Empty(), &TypeMismatchError{Left: v.Kind(), Right: KindNumber, Op: "-"}

	case *Call:
		return evalCall(n, env)

	default:
		return Empty(), &EvalError{Msg: fmt.Sprintf("unknown expression node %T", e)}
	}
}

// EvalBool evaluates a filter expression to a boolean.
func EvalBool(e Expr, env *Env) (bool, error) {
	v, err := Eval(e, env)
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}

func evalCall(c *Call, env *Env) (Value, error) {
	switch c.Name {
	case "if":
		// Lazy: only the taken branch is evaluated, so an error lurking on
		// the untaken branch never surfaces.
		if len(c.Args) < 2 || len(c.Args) > 3 {
			return Empty(), &EvalError{Msg: "if() takes 2 or 3 arguments"}
		}
		cond, err := Eval(c.Args[0], env)
		if err != nil {
			return Empty(), err
		}
		if cond.Truthy() {
			return Eval(c.Args[1], env)
		}
		if len(c.Args) == 3 {
			return Eval(c.Args[2], env)
		}
		return Empty(), nil

	case "now":
		if len(c.Args) != 0 {
			return Empty(), &EvalError{Msg: "now() takes no arguments"}
		}
		return Date(env.Now), nil

	case "date":
		v, err := evalOneArg(c, env)
		if err != nil {
			return Empty(), err
		}
		if v.IsEmpty() {
			return Empty(), nil
		}
		if t, ok := v.AsDate(); ok {
			return Date(t), nil
		}
		return Empty(), &TypeMismatchError{Left: v.Kind(), Right: KindDate, Op: "date"}

	case "contains":
		if len(c.Args) != 2 {
			return Empty(), &EvalError{Msg: "contains() takes 2 arguments"}
		}
		a, err := Eval(c.Args[0], env)
		if err != nil {
			return Empty(), err
		}
		b, err := Eval(c.Args[1], env)
		if err != nil {
			return Empty(), err
		}
		return ApplyCompare(CompareContains, a, b)

	case "len":
		v, err := evalOneArg(c, env)
		if err != nil {
			return Empty(), err
		}
		switch v.Kind() {
		case KindList:
			return Number(float64(len(v.Items()))), nil
		case KindString:
			return Number(float64(len([]rune(v.Text())))), nil
		case KindEmpty:
			return Number(0), nil
		}
		return Empty(), &TypeMismatchError{Left: v.Kind(), Right: KindList, Op: "len"}

	case "lower":
		v, err := evalOneArg(c, env)
		if err != nil {
			return Empty(), err
		}
		if v.IsEmpty() {
			return Empty(), nil
		}
		return String(strings.ToLower(v.Text())), nil

	case "upper":
		v, err := evalOneArg(c, env)
		if err != nil {
			return Empty(), err
		}
		if v.IsEmpty() {
			return Empty(), nil
		}
		return String(strings.ToUpper(v.Text())), nil

	case "links":
		return evalEdgeCall(c, env, false)

	case "inbound":
		return evalEdgeCall(c, env, true)

	default:
		return Empty(), &EvalError{Msg: fmt.Sprintf("unknown function %q", c.Name)}
	}
}

func evalOneArg(c *Call, env *Env) (Value, error) {
	if len(c.Args) != 1 {
		return Empty(), &EvalError{Msg: fmt.Sprintf("%s() takes 1 argument", c.Name)}
	}
	return Eval(c.Args[0], env)
}

// evalEdgeCall implements links(kind) and inbound(kind): the permalinks of
// notes one relation hop away from the current note.
func evalEdgeCall(c *Call, env *Env, inbound bool) (Value, error) {
	if len(c.Args) != 1 {
		return Empty(), &EvalError{Msg: fmt.Sprintf("%s() takes 1 argument", c.Name)}
	}
	v, err := Eval(c.Args[0], env)
	if err != nil {
		return Empty(), err
	}
	if env.Graph == nil || env.Note == nil {
		return List(), nil
	}
	kind := model.RelationKind(v.Text())
	var targets []string
	if inbound {
		targets = env.Graph.Inbound(env.Note.Permalink, kind)
	} else {
		targets = env.Graph.Outbound(env.Note.Permalink, kind)
	}
	return StringList(targets), nil
}

func applyArith(op ArithOp, a, b Value) (Value, error) {
	// Empty propagates: the whole formula's value becomes empty rather than
	// raising, so views can hide the row instead of erroring.
	if a.IsEmpty() || b.IsEmpty() {
		return Empty(), nil
	}

	switch op {
	case ArithAdd:
		if an, aok := a.AsNumber(); aok {
			if bn, bok := b.AsNumber(); bok {
				return Number(an + bn), nil
			}
		}
		// date + days
		if a.Kind() == KindDate {
			if bn, ok := b.AsNumber(); ok {
				return Date(a.t.AddDate(0, 0, int(bn))), nil
			}
		}
		if b.Kind() == KindDate {
			if an, ok := a.AsNumber(); ok {
				return Date(b.t.AddDate(0, 0, int(an))), nil
			}
		}
		// Either operand non-numeric: string concatenation.
		return String(a.Text() + b.Text()), nil

	case ArithSub:
		if at, aok := a.AsDate(); aok && a.Kind() == KindDate {
			if bt, bok := b.AsDate(); bok && b.Kind() == KindDate {
				return Number(dates.DaysBetween(at, bt)), nil
			}
			if bn, ok := b.AsNumber(); ok {
				return Date(at.AddDate(0, 0, -int(bn))), nil
			}
		}
		if an, aok := a.AsNumber(); aok {
			if bn, bok := b.AsNumber(); bok {
				return Number(an - bn), nil
			}
		}
		return Empty(), &TypeMismatchError{Left: a.Kind(), Right: b.Kind(), Op: "-"}

	case ArithMul:
		if an, aok := a.AsNumber(); aok {
			if bn, bok := b.AsNumber(); bok {
				return Number(an * bn), nil
			}
		}
		return Empty(), &TypeMismatchError{Left: a.Kind(), Right: b.Kind(), Op: "*"}

	default: // ArithDiv
		if an, aok := a.AsNumber(); aok {
			if bn, bok := b.AsNumber(); bok {
				if bn == 0 {
					return Empty(), nil
				}
				return Number(an / bn), nil
			}
		}
		return Empty(), &TypeMismatchError{Left: a.Kind(), Right: b.Kind(), Op: "/"}
	}
}

// resolveProperty looks up a property on the note: explicit properties win,
// then the file-level pseudo-properties, then the typed empty value.
func resolveProperty(n *model.Note, name string) Value {
	if n == nil {
		return Empty()
	}
	if v, ok := n.Property(name); ok {
		return FromAny(v)
	}

	// Pseudo-properties, addressable bare or under a "file." prefix.
	pseudo := strings.TrimPrefix(name, "file.")
	switch pseudo {
	case "name":
		return String(n.Name())
	case "title":
		return String(n.Title)
	case "path":
		return String(n.EffectivePath())
	case "folder":
		return String(n.Folder())
	case "permalink", "id":
		return String(n.Permalink)
	case "type":
		return String(string(n.Type))
	case "status":
		return String(string(n.Status))
	case "tags":
		return StringList(n.Tags)
	case "aliases":
		return StringList(n.Aliases)
	case "size":
		return Number(float64(len(n.Body)))
	case "created", "ctime":
		return Date(n.CreatedAt)
	case "modified", "mtime", "updated":
		return Date(n.UpdatedAt)
	}
	return Empty()
}
