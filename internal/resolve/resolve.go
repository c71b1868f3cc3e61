// Package resolve finds display values in records whose keys vary in
// language, spelling and nesting.
//
// Resolution has two phases. Dotted candidates ("personal_info.phone") are
// first walked as exact paths. When none of them yields a non-empty value
// every key of the record, at every depth, is normalized into one flat table
// and each candidate is looked up there in order. Later keys overwrite
// earlier ones in the flat table, so a nested "电话" shadows a top-level one
// that appears before it.
package resolve

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MikeSquared-Agency/nexus/internal/record"
)

// Default is the placeholder shown when nothing resolves.
const Default = "—"

// NormalizeKey lower-cases s and keeps only letters and digits. CJK
// ideographs count as letters.
func NormalizeKey(s string) string {
	lowered := cases.Lower(language.Und).String(s)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Table maps normalized keys to the last value seen under them.
type Table map[string]record.Value

// Lookup flattens rec into a Table. Objects are descended at every depth;
// lists are not.
func Lookup(rec *record.Object) Table {
	t := make(Table)
	t.add(rec)
	return t
}

func (t Table) add(obj *record.Object) {
	obj.Each(func(k string, v record.Value) bool {
		t[NormalizeKey(k)] = v
		if child, ok := v.Object(); ok {
			t.add(child)
		}
		return true
	})
}

// Find returns the first candidate whose normalized form maps to a
// non-empty value.
func (t Table) Find(candidates ...string) (record.Value, bool) {
	for _, c := range candidates {
		if v, ok := t[NormalizeKey(c)]; ok && !v.IsEmpty() {
			return v, true
		}
	}
	return record.Value{}, false
}

// Path walks a dotted path through nested objects. It reports false when a
// segment is missing or an intermediate value is not an object.
func Path(rec *record.Object, path string) (record.Value, bool) {
	cur := record.ObjectValue(rec)
	for _, seg := range strings.Split(path, ".") {
		obj, ok := cur.Object()
		if !ok {
			return record.Value{}, false
		}
		next, ok := obj.Get(seg)
		if !ok {
			return record.Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Resolver answers many lookups against one record, building the flat
// table at most once. The record must not change while a Resolver is in use.
type Resolver struct {
	rec   *record.Object
	table Table
}

func New(rec *record.Object) *Resolver {
	return &Resolver{rec: rec}
}

// Find returns the first non-empty value for candidates.
func (r *Resolver) Find(candidates ...string) (record.Value, bool) {
	if r.rec == nil || r.rec.Len() == 0 {
		return record.Value{}, false
	}
	for _, c := range candidates {
		if !strings.Contains(c, ".") {
			continue
		}
		if v, ok := Path(r.rec, c); ok && !v.IsEmpty() {
			return v, true
		}
	}
	if r.table == nil {
		r.table = Lookup(r.rec)
	}
	return r.table.Find(candidates...)
}

// Value renders the first non-empty value for candidates, or def.
func (r *Resolver) Value(candidates []string, def string) string {
	if v, ok := r.Find(candidates...); ok {
		return v.Text()
	}
	return def
}

// Value resolves candidates against rec and renders the result, or returns
// def when no candidate yields a non-empty value.
func Value(rec *record.Object, candidates []string, def string) string {
	return New(rec).Value(candidates, def)
}
