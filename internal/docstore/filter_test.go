package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Matches(t *testing.T) {
	doc := Document{ID: "l1", Data: map[string]any{
		"owner":      "u1",
		"sharedWith": []any{"a@example.com", "b@example.com"},
		"count":      float64(3),
	}}

	tests := []struct {
		name string
		f    Filter
		want bool
	}{
		{name: "empty filter matches all", f: All(), want: true},
		{name: "eq match", f: Where(Eq("owner", "u1")), want: true},
		{name: "eq mismatch", f: Where(Eq("owner", "u2")), want: false},
		{name: "eq missing field", f: Where(Eq("ghost", "x")), want: false},
		{name: "contains match", f: Where(Contains("sharedWith", "b@example.com")), want: true},
		{name: "contains mismatch", f: Where(Contains("sharedWith", "c@example.com")), want: false},
		{name: "contains on non-array", f: Where(Contains("owner", "u1")), want: false},
		{name: "disjunction matches on second clause", f: Or(Eq("owner", "nope"), Contains("sharedWith", "a@example.com")), want: true},
		{name: "disjunction with no matching clause", f: Or(Eq("owner", "nope"), Contains("sharedWith", "nope")), want: false},
		{name: "numeric values compare after normalization", f: Where(Eq("count", 3)), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Matches(doc))
		})
	}
}

func TestUnionValues(t *testing.T) {
	got, err := UnionValues([]any{"a", "b"}, []any{"b", "c"})
	assert.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, got)

	// Idempotent: applying the same union twice changes nothing.
	again, err := UnionValues(got, []any{"b", "c"})
	assert.NoError(t, err)
	assert.Equal(t, got, again)
}
