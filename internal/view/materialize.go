package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/loamkb/loam/internal/expr"
	"github.com/loamkb/loam/internal/model"
)

// Record is one note's row in a materialized view: the note plus its
// computed formula values.
type Record struct {
	Note   *model.Note
	Values map[string]expr.Value
}

// Group is a contiguous run of records sharing a group key.
type Group struct {
	Key     string
	Records []Record
}

// ViewResult is one materialized projection.
type ViewResult struct {
	Name string
	Kind string

	// Records is populated when the view has no grouping.
	Records []Record

	// Groups is populated when the view groups records.
	Groups []Group

	// Diagnostics describe filter and formula problems that degraded
	// this view. A diagnosed view still renders whatever survived.
	Diagnostics []string
}

// Result is a full materialization of a definition.
type Result struct {
	Definition  string
	Views       []ViewResult
	Diagnostics []string
}

// Materialize applies a definition to a snapshot of notes. It reads and
// never mutates; per-record evaluation errors exclude the record (filters)
// or yield an empty value (formulas) without aborting the view. The clock
// is sampled once here so every now() in the pass agrees.
func Materialize(def *Definition, notes []*model.Note, graph expr.GraphReader, now time.Time) *Result {
	res := &Result{Definition: def.Name}

	topFilter, err := parseFilter(def.Filter)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("filter: %v", err))
	}

	formulas, formulaDiags := parseFormulas(def.Formulas)
	res.Diagnostics = append(res.Diagnostics, formulaDiags...)

	for _, spec := range def.Views {
		vr := materializeView(spec, topFilter, err != nil, formulas, notes, graph, now)
		res.Views = append(res.Views, vr)
	}
	return res
}

type formula struct {
	name string
	expr expr.Expr
}

func parseFilter(src string) (expr.Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	return expr.Parse(src)
}

// parseFormulas keeps the usable formulas and reports the broken ones.
func parseFormulas(src map[string]string) ([]formula, []string) {
	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []formula
	var diags []string
	for _, name := range names {
		e, err := expr.Parse(src[name])
		if err != nil {
			diags = append(diags, fmt.Sprintf("formula %s: %v", name, err))
			continue
		}
		out = append(out, formula{name: name, expr: e})
	}
	return out, diags
}

func materializeView(spec Spec, topFilter expr.Expr, topBroken bool, formulas []formula, notes []*model.Note, graph expr.GraphReader, now time.Time) ViewResult {
	vr := ViewResult{Name: spec.Name, Kind: spec.Kind}

	// A broken top-level filter degrades every view to empty.
	if topBroken {
		vr.Diagnostics = append(vr.Diagnostics, "inherited filter is malformed")
		return vr
	}

	viewFilter, err := parseFilter(spec.Filter)
	if err != nil {
		vr.Diagnostics = append(vr.Diagnostics, fmt.Sprintf("filter: %v", err))
		return vr
	}

	seen := make(map[string]bool)
	diag := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		if !seen[msg] {
			seen[msg] = true
			vr.Diagnostics = append(vr.Diagnostics, msg)
		}
	}

	var records []Record
	for _, n := range notes {
		env := &expr.Env{Note: n, Graph: graph, Now: now}

		keep, err := passes(topFilter, env)
		if err != nil {
			diag("filter: %v", err)
			continue
		}
		if !keep {
			continue
		}
		keep, err = passes(viewFilter, env)
		if err != nil {
			diag("filter: %v", err)
			continue
		}
		if !keep {
			continue
		}

		rec := Record{Note: n, Values: make(map[string]expr.Value, len(formulas))}
		for _, f := range formulas {
			v, err := expr.Eval(f.expr, env)
			if err != nil {
				diag("formula %s: %v", f.name, err)
				v = expr.Empty()
			}
			rec.Values[f.name] = v
		}
		records = append(records, rec)
	}

	sortRecords(records, spec.Order, graph, now)

	if spec.GroupBy == "" {
		vr.Records = records
	} else {
		vr.Groups = groupRecords(records, spec.GroupBy, graph, now)
	}
	return vr
}

func passes(filter expr.Expr, env *expr.Env) (bool, error) {
	if filter == nil {
		return true, nil
	}
	return expr.EvalBool(filter, env)
}

// keyValue looks up a sort or group key on a record: formula values win,
// then note properties (including pseudo-properties).
func keyValue(rec Record, key string, graph expr.GraphReader, now time.Time) expr.Value {
	if v, ok := rec.Values[key]; ok {
		return v
	}
	env := &expr.Env{Note: rec.Note, Graph: graph, Now: now}
	v, err := expr.Eval(&expr.Property{Name: key}, env)
	if err != nil {
		return expr.Empty()
	}
	return v
}

// sortRecords sorts by each key in turn, ascending unless the key carries
// a "-" prefix. The sort is stable, so equal records keep store order.
func sortRecords(records []Record, order []string, graph expr.GraphReader, now time.Time) {
	if len(order) == 0 {
		return
	}

	type sortKey struct {
		name string
		desc bool
	}
	keys := make([]sortKey, 0, len(order))
	for _, o := range order {
		k := sortKey{name: o}
		if strings.HasPrefix(o, "-") {
			k.name = strings.TrimPrefix(o, "-")
			k.desc = true
		}
		keys = append(keys, k)
	}

	sort.SliceStable(records, func(i, j int) bool {
		for _, k := range keys {
			a := keyValue(records[i], k.name, graph, now)
			b := keyValue(records[j], k.name, graph, now)
			c := compareForSort(a, b)
			if c == 0 {
				continue
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareForSort is a total order over values: the typed comparison where
// it applies, otherwise kind order then text. Empty sorts first.
func compareForSort(a, b expr.Value) int {
	if c, err := expr.Compare(a, b); err == nil {
		return c
	}
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Text(), b.Text())
}

// groupRecords splits sorted records into contiguous groups. Group order
// is natural (ascending) for date and number keys, first encounter
// otherwise.
func groupRecords(records []Record, key string, graph expr.GraphReader, now time.Time) []Group {
	type bucket struct {
		key   string
		value expr.Value
		recs  []Record
	}

	var order []string
	buckets := make(map[string]*bucket)
	for _, rec := range records {
		v := keyValue(rec, key, graph, now)
		// Bucket by the kind-qualified key so "40" the number and "40"
		// the string stay distinct; display the plain text form.
		gk := v.GroupKey()
		b, ok := buckets[gk]
		if !ok {
			b = &bucket{key: v.Text(), value: v}
			buckets[gk] = b
			order = append(order, gk)
		}
		b.recs = append(b.recs, rec)
	}

	natural := true
	for _, gk := range order {
		k := buckets[gk].value.Kind()
		if k != expr.KindNumber && k != expr.KindDate && k != expr.KindEmpty {
			natural = false
			break
		}
	}
	if natural && len(order) > 1 {
		sort.SliceStable(order, func(i, j int) bool {
			return compareForSort(buckets[order[i]].value, buckets[order[j]].value) < 0
		})
	}

	groups := make([]Group, 0, len(order))
	for _, gk := range order {
		groups = append(groups, Group{Key: buckets[gk].key, Records: buckets[gk].recs})
	}
	return groups
}
