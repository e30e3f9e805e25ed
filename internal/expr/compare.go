package expr

import "strings"

// CompareOp represents a comparison operator.
type CompareOp int

const (
	CompareEq       CompareOp = iota // ==
	CompareNeq                       // !=
	CompareLt                        // <
	CompareGt                        // >
	CompareLte                       // <=
	CompareGte                       // >=
	CompareContains                  // contains
)

func (op CompareOp) String() string {
	switch op {
	case CompareNeq:
		return "!="
	case CompareLt:
		return "<"
	case CompareGt:
		return ">"
	case CompareLte:
		return "<="
	case CompareGte:
		return ">="
	case CompareContains:
		return "contains"
	default:
		return "=="
	}
}

// Compare returns -1, 0, or 1 for ordered values.
//
// Empty is minimal: it sorts before every non-empty value and equals only
// itself. Numeric strings coerce against numbers, temporal strings against
// dates. Incompatible kinds return a *TypeMismatchError.
func Compare(a, b Value) (int, error) {
	if a.IsEmpty() && b.IsEmpty() {
		return 0, nil
	}
	if a.IsEmpty() {
		return -1, nil
	}
	if b.IsEmpty() {
		return 1, nil
	}

	// Numbers first: either side numeric pulls the other through coercion.
	if a.kind == KindNumber || b.kind == KindNumber {
		an, aok := a.AsNumber()
		bn, bok := b.AsNumber()
		if aok && bok {
			return cmpFloat(an, bn), nil
		}
		return 0, mismatch(a, b)
	}

	// Dates: date-shaped strings compare as dates.
	if a.kind == KindDate || b.kind == KindDate {
		at, aok := a.AsDate()
		bt, bok := b.AsDate()
		if aok && bok {
			switch {
			case at.Before(bt):
				return -1, nil
			case at.After(bt):
				return 1, nil
			default:
				return 0, nil
			}
		}
		return 0, mismatch(a, b)
	}

	if a.kind == KindBool && b.kind == KindBool {
		if a.b == b.b {
			return 0, nil
		}
		if !a.b {
			return -1, nil
		}
		return 1, nil
	}

	if a.kind == KindString && b.kind == KindString {
		return strings.Compare(a.s, b.s), nil
	}

	return 0, mismatch(a, b)
}

// Equal reports loose equality between two values: the same coercions as
// Compare, but incompatible kinds are simply unequal rather than an error.
func Equal(a, b Value) bool {
	if a.kind == KindList || b.kind == KindList {
		if a.kind != KindList || b.kind != KindList {
			return false
		}
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	}
	c, err := Compare(a, b)
	return err == nil && c == 0
}

// Contains implements the "contains" operator.
//
// list contains x   -> any element equals x
// string contains s -> case-insensitive substring match
func Contains(a, b Value) (bool, error) {
	if a.IsEmpty() {
		return false, nil
	}
	switch a.kind {
	case KindList:
		for _, item := range a.list {
			if Equal(item, b) {
				return true, nil
			}
		}
		return false, nil
	case KindString:
		if b.kind != KindString && b.kind != KindNumber {
			return false, mismatch(a, b)
		}
		return strings.Contains(strings.ToLower(a.s), strings.ToLower(b.Text())), nil
	default:
		return false, mismatch(a, b)
	}
}

// ApplyCompare evaluates a comparison operator over two values.
//
// Equality operators never raise: incompatible kinds are just unequal.
// Ordering operators surface *TypeMismatchError for incompatible kinds.
func ApplyCompare(op CompareOp, a, b Value) (Value, error) {
	switch op {
	case CompareEq:
		return Bool(Equal(a, b)), nil
	case CompareNeq:
		return Bool(!Equal(a, b)), nil
	case CompareContains:
		ok, err := Contains(a, b)
		if err != nil {
			return Empty(), err
		}
		return Bool(ok), nil
	}

	c, err := Compare(a, b)
	if err != nil {
		return Empty(), err
	}
	switch op {
	case CompareLt:
		return Bool(c < 0), nil
	case CompareLte:
		return Bool(c <= 0), nil
	case CompareGt:
		return Bool(c > 0), nil
	default:
		return Bool(c >= 0), nil
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func mismatch(a, b Value) error {
	return &TypeMismatchError{
		Left:  a.Kind(),
		Right: b.Kind(),
	}
}
