package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tandemlist/tandem/internal/core/activity"
)

func TestTextAttributor_Mine(t *testing.T) {
	viewer := Viewer{Name: "Alice", Email: "alice@example.com"}

	tests := []struct {
		name string
		text string
		v    Viewer
		want bool
	}{
		{
			name: "entry starting with viewer name is mine",
			text: "Alice added \"Buy milk\"",
			v:    viewer,
			want: true,
		},
		{
			name: "entry by someone else is not mine",
			text: "Bob added \"Buy milk\"",
			v:    viewer,
			want: false,
		},
		{
			name: "name appearing mid-text does not match",
			text: "Bob shared the list with Alice",
			v:    viewer,
			want: false,
		},
		{
			name: "literal You prefix matches regardless of author",
			text: "You added \"Buy milk\"",
			v:    viewer,
			want: true,
		},
		{
			name: "same display name misattributes",
			text: "Alice added \"Buy milk\"",
			v:    Viewer{Name: "Alice", Email: "other-alice@example.com"},
			want: true,
		},
		{
			name: "message starting with Your misattributes via prefix",
			text: "Your weekly digest is ready",
			v:    viewer,
			want: true,
		},
		{
			name: "empty text is never mine",
			text: "",
			v:    viewer,
			want: false,
		},
		{
			name: "nameless viewer only matches literal You",
			text: "Someone added \"Buy milk\"",
			v:    Viewer{Email: "alice@example.com"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TextAttributor{}.Mine(tt.text, tt.v))
		})
	}
}

func TestPersonalize(t *testing.T) {
	viewer := Viewer{Name: "Alice", Email: "alice@example.com"}

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "leading name becomes You",
			text: "Alice added \"Buy milk\"",
			want: "You added \"Buy milk\"",
		},
		{
			name: "name mid-text is left alone",
			text: "Bob shared the list with Alice",
			want: "Bob shared the list with Alice",
		},
		{
			name: "own email becomes you",
			text: "Bob shared the list with alice@example.com",
			want: "Bob shared the list with you",
		},
		{
			name: "only first email occurrence replaced",
			text: "alice@example.com invited alice@example.com",
			want: "you invited alice@example.com",
		},
		{
			name: "name then email both rewritten",
			text: "Alice shared the list with alice@example.com",
			want: "You shared the list with you",
		},
		{
			name: "unrelated text untouched",
			text: "Bob deleted \"Old task\"",
			want: "Bob deleted \"Old task\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Personalize(tt.text, viewer))
		})
	}
}

func TestAssemble_OrdersNewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	acts := []activity.Activity{
		{ID: "a", Message: "Bob added \"one\"", Timestamp: base},
		{ID: "b", Message: "Bob added \"two\"", Timestamp: base.Add(2 * time.Minute)},
		{ID: "c", Message: "Bob added \"three\"", Timestamp: base.Add(time.Minute)},
	}

	f := Assemble(acts, Viewer{Name: "Alice"}, TextAttributor{})

	require.Len(t, f.Others, 3)
	assert.Empty(t, f.Mine)
	assert.Equal(t, []string{"b", "c", "a"}, []string{f.Others[0].ID, f.Others[1].ID, f.Others[2].ID})
}

func TestAssemble_CategorizesOnRawText(t *testing.T) {
	// The removal record leads with the removed person's name, so it must
	// land in the removed person's Mine partition, not the owner's.
	viewer := Viewer{Name: "Carol", Email: "carol@example.com"}
	acts := []activity.Activity{
		{
			ID:        "rm",
			Action:    activity.ActionRemoved,
			UserName:  "Alice",
			Details:   "Carol was removed from the list",
			Timestamp: time.Now(),
		},
	}

	f := Assemble(acts, viewer, TextAttributor{})

	require.Len(t, f.Mine, 1)
	assert.Equal(t, "You was removed from the list", f.Mine[0].Display)
	assert.Equal(t, "Carol was removed from the list", f.Mine[0].Raw)
}

func TestAssemble_PersonalizationDoesNotAffectCategorization(t *testing.T) {
	// "Someone" entries that merely mention the viewer's email stay in
	// Others even though the display text is rewritten.
	viewer := Viewer{Name: "Alice", Email: "alice@example.com"}
	acts := []activity.Activity{
		{ID: "x", Message: "Bob shared the list with alice@example.com", Timestamp: time.Now()},
	}

	f := Assemble(acts, viewer, TextAttributor{})

	require.Len(t, f.Others, 1)
	assert.Empty(t, f.Mine)
	assert.Equal(t, "Bob shared the list with you", f.Others[0].Display)
}

func TestAssemble_LegacyAndStructuredShapes(t *testing.T) {
	now := time.Now()
	acts := []activity.Activity{
		{ID: "legacy", Message: "Alice added \"one\"", Timestamp: now},
		{ID: "structured", Action: activity.ActionLeft, Details: "Alice left the list", Timestamp: now.Add(time.Second)},
	}

	f := Assemble(acts, Viewer{Name: "Alice"}, TextAttributor{})

	require.Len(t, f.Mine, 2)
	assert.Equal(t, "You left the list", f.Mine[0].Display)
	assert.Equal(t, "You added \"one\"", f.Mine[1].Display)
}
