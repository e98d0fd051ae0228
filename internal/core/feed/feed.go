// Package feed assembles the activity feed shown to a viewer: newest-first
// ordering, mine/others categorization, display personalization, and
// independent pagination of the two partitions. Everything here is a pure
// function of its inputs; nothing is cached between renders.
package feed

import (
	"sort"
	"strings"
	"time"

	"github.com/tandemlist/tandem/internal/core/activity"
)

// Viewer identifies the reader the feed is assembled for.
type Viewer struct {
	Name  string
	Email string
}

// Attributor decides whether an entry was produced by the viewer. It is a
// narrow seam: the current text heuristic can be swapped for an
// actor-id-bearing rule without touching feed consumers.
type Attributor interface {
	Mine(text string, v Viewer) bool
}

// TextAttributor is the system-of-record categorization rule: an entry is
// the viewer's iff its original text starts with the viewer's display
// name or with the literal token "You". Two users sharing a display name,
// or a message that happens to start with "You", are misclassified; that
// weakness is part of the contract and is deliberately not corrected.
type TextAttributor struct{}

var _ Attributor = TextAttributor{}

// Mine implements Attributor.
func (TextAttributor) Mine(text string, v Viewer) bool {
	if text == "" {
		return false
	}
	return (v.Name != "" && strings.HasPrefix(text, v.Name)) ||
		strings.HasPrefix(text, "You")
}

// Entry is a feed line. Raw is the original record text (what
// categorization saw); Display is the personalized text for rendering.
type Entry struct {
	ID        string
	Raw       string
	Display   string
	Timestamp time.Time
}

// Feed is the categorized, newest-first feed for one viewer.
type Feed struct {
	Mine   []Entry
	Others []Entry
}

// Assemble orders activities newest-first, categorizes each against the
// viewer using att, and personalizes the display text. Categorization
// always inspects the original text, never the personalized one.
func Assemble(acts []activity.Activity, v Viewer, att Attributor) Feed {
	sorted := make([]activity.Activity, len(acts))
	copy(sorted, acts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	var f Feed
	for _, a := range sorted {
		raw := a.Text()
		e := Entry{
			ID:        a.ID,
			Raw:       raw,
			Display:   Personalize(raw, v),
			Timestamp: a.Timestamp,
		}
		if att.Mine(raw, v) {
			f.Mine = append(f.Mine, e)
		} else {
			f.Others = append(f.Others, e)
		}
	}
	return f
}

// Personalize rewrites a message for display: a leading occurrence of the
// viewer's own display name becomes "You", and the first occurrence of
// the viewer's own email anywhere becomes "you". Display-only; the stored
// record is untouched.
func Personalize(text string, v Viewer) string {
	out := text
	if v.Name != "" && strings.HasPrefix(out, v.Name) {
		out = strings.Replace(out, v.Name, "You", 1)
	}
	if v.Email != "" && strings.Contains(out, v.Email) {
		out = strings.Replace(out, v.Email, "you", 1)
	}
	return out
}
