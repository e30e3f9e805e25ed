package expr

import (
	"errors"
	"testing"
	"time"

	"github.com/loamkb/loam/internal/model"
)

func testNote() *model.Note {
	return &model.Note{
		Permalink: "project/alpha/auth-service",
		Title:     "Auth Service",
		Type:      model.TypeProject,
		Status:    model.StatusActive,
		Path:      "project/alpha/auth-service",
		Tags:      []string{"backend", "security"},
		Properties: map[string]interface{}{
			"progress": 75,
			"owner":    "freya",
			"due":      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		Body:      "some body text",
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC),
	}
}

func evalStr(t *testing.T, input string, env *Env) (Value, error) {
	t.Helper()
	e, err := Parse(input)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return Eval(e, env)
}

func mustEval(t *testing.T, input string, env *Env) Value {
	t.Helper()
	v, err := evalStr(t, input, env)
	if err != nil {
		t.Fatalf("eval %q: %v", input, err)
	}
	return v
}

func TestEvalFilters(t *testing.T) {
	env := &Env{Note: testNote(), Now: time.Date(2025, 6, 25, 12, 0, 0, 0, time.UTC)}

	tests := []struct {
		input string
		want  bool
	}{
		{`status == "active"`, true},
		{`status != "active"`, false},
		{`progress > 50`, true},
		{`progress <= 50`, false},
		{`tags contains "backend"`, true},
		{`tags contains "frontend"`, false},
		{`title contains "auth"`, true}, // substring match is case-insensitive
		{`folder == "project/alpha"`, true},
		{`type == "project" and progress >= 75`, true},
		{`type == "person" or progress >= 75`, true},
		{`not (status == "draft")`, true},
		{`owner == "freya" and tags contains "security" and progress == 75`, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := mustEval(t, tt.input, env)
			if v.Truthy() != tt.want {
				t.Errorf("got %v, want %v", v.Truthy(), tt.want)
			}
		})
	}
}

func TestEvalUndefinedProperty(t *testing.T) {
	env := &Env{Note: testNote(), Now: time.Now()}

	t.Run("undefined is empty and falsy", func(t *testing.T) {
		v := mustEval(t, `进度`, env)
		if !v.IsEmpty() {
			t.Errorf("expected empty, got %v", v)
		}
	})

	t.Run("if on missing property yields else branch", func(t *testing.T) {
		v := mustEval(t, `if(进度 == 100, "done", "pending")`, env)
		if v.Text() != "pending" {
			t.Errorf("got %q, want %q", v.Text(), "pending")
		}
	})

	t.Run("empty propagates through arithmetic", func(t *testing.T) {
		v := mustEval(t, `进度 * 2 + 1`, env)
		if !v.IsEmpty() {
			t.Errorf("expected empty, got %v", v)
		}
	})

	t.Run("empty is minimal in comparisons", func(t *testing.T) {
		v := mustEval(t, `进度 < 0`, env)
		if !v.Truthy() {
			t.Error("empty should sort below any number")
		}
	})
}

func TestEvalShortCircuit(t *testing.T) {
	env := &Env{Note: testNote(), Now: time.Now()}

	// owner < due would be a string/date mismatch; it must never be reached.
	t.Run("and stops at first false", func(t *testing.T) {
		v := mustEval(t, `false and owner < due`, env)
		if v.Truthy() {
			t.Error("expected false")
		}
	})

	t.Run("or stops at first true", func(t *testing.T) {
		v := mustEval(t, `true or owner < due`, env)
		if !v.Truthy() {
			t.Error("expected true")
		}
	})

	t.Run("mismatch surfaces when actually evaluated", func(t *testing.T) {
		_, err := evalStr(t, `owner < due`, env)
		var tm *TypeMismatchError
		if !errors.As(err, &tm) {
			t.Fatalf("expected *TypeMismatchError, got %v", err)
		}
	})
}

func TestEvalFormulas(t *testing.T) {
	now := time.Date(2025, 6, 25, 12, 0, 0, 0, time.UTC)
	env := &Env{Note: testNote(), Now: now}

	t.Run("arithmetic", func(t *testing.T) {
		v := mustEval(t, `100 - progress`, env)
		if n, _ := v.AsNumber(); n != 25 {
			t.Errorf("got %v, want 25", n)
		}
	})

	t.Run("string concat on non-numeric operand", func(t *testing.T) {
		v := mustEval(t, `owner + "!"`, env)
		if v.Text() != "freya!" {
			t.Errorf("got %q", v.Text())
		}
	})

	t.Run("date minus date in days", func(t *testing.T) {
		v := mustEval(t, `due - created`, env)
		if n, _ := v.AsNumber(); n != 29 {
			t.Errorf("got %v, want 29", n)
		}
	})

	t.Run("now is the env sample", func(t *testing.T) {
		v := mustEval(t, `due - now()`, env)
		if n, _ := v.AsNumber(); n != 5 {
			t.Errorf("got %v, want 5", n)
		}
	})

	t.Run("now consistent within one pass", func(t *testing.T) {
		v := mustEval(t, `now() - now()`, env)
		if n, _ := v.AsNumber(); n != 0 {
			t.Errorf("got %v, want 0", n)
		}
	})

	t.Run("division by zero is empty", func(t *testing.T) {
		v := mustEval(t, `progress / 0`, env)
		if !v.IsEmpty() {
			t.Errorf("got %v", v)
		}
	})

	t.Run("negation coerces numeric strings", func(t *testing.T) {
		v := mustEval(t, `-"5"`, env)
		if n, _ := v.AsNumber(); n != -5 {
			t.Errorf("got %v, want -5", n)
		}
	})

	t.Run("negation of non-numeric string mismatches", func(t *testing.T) {
		_, err := evalStr(t, `-owner`, env)
		var mismatch *TypeMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("lazy if does not evaluate untaken branch", func(t *testing.T) {
		// The untaken branch would be a type mismatch.
		v := mustEval(t, `if(progress > 50, "on track", owner < due)`, env)
		if v.Text() != "on track" {
			t.Errorf("got %q", v.Text())
		}
	})
}

func TestEvalPseudoProperties(t *testing.T) {
	env := &Env{Note: testNote(), Now: time.Now()}

	tests := []struct {
		input string
		want  string
	}{
		{`name`, "auth-service"},
		{`file.name`, "auth-service"},
		{`path`, "project/alpha/auth-service"},
		{`folder`, "project/alpha"},
		{`permalink`, "project/alpha/auth-service"},
		{`type`, "project"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := mustEval(t, tt.input, env)
			if v.Text() != tt.want {
				t.Errorf("got %q, want %q", v.Text(), tt.want)
			}
		})
	}

	t.Run("size is body length", func(t *testing.T) {
		v := mustEval(t, `size`, env)
		if n, _ := v.AsNumber(); n != 14 {
			t.Errorf("got %v", n)
		}
	})

	t.Run("user property shadows pseudo", func(t *testing.T) {
		n := testNote()
		n.Properties["size"] = 999
		v := mustEval(t, `size`, &Env{Note: n, Now: time.Now()})
		if got, _ := v.AsNumber(); got != 999 {
			t.Errorf("got %v, want 999", got)
		}
	})
}

type fakeGraph struct {
	out map[string][]string
	in  map[string][]string
}

func (g *fakeGraph) Outbound(permalink string, kind model.RelationKind) []string {
	return g.out[permalink+"/"+string(kind)]
}

func (g *fakeGraph) Inbound(permalink string, kind model.RelationKind) []string {
	return g.in[permalink+"/"+string(kind)]
}

func TestEvalRelationFunctions(t *testing.T) {
	n := testNote()
	g := &fakeGraph{
		out: map[string][]string{
			n.Permalink + "/implements": {"spec/auth"},
		},
		in: map[string][]string{
			n.Permalink + "/depends_on": {"project/beta/billing"},
		},
	}
	env := &Env{Note: n, Graph: g, Now: time.Now()}

	v := mustEval(t, `links("implements") contains "spec/auth"`, env)
	if !v.Truthy() {
		t.Error("expected outbound edge to be visible")
	}

	v = mustEval(t, `len(inbound("depends_on"))`, env)
	if got, _ := v.AsNumber(); got != 1 {
		t.Errorf("got %v, want 1", got)
	}

	t.Run("nil graph yields empty list", func(t *testing.T) {
		v := mustEval(t, `len(links("implements"))`, &Env{Note: n, Now: time.Now()})
		if got, _ := v.AsNumber(); got != 0 {
			t.Errorf("got %v", got)
		}
	})
}

func TestEvalUnknownFunction(t *testing.T) {
	env := &Env{Note: testNote(), Now: time.Now()}
	_, err := evalStr(t, `bogus(1)`, env)
	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *EvalError, got %v", err)
	}
}
