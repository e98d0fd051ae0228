package feed

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = Entry{ID: fmt.Sprintf("e%d", i)}
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		page       int
		size       int
		wantNumber int
		wantTotal  int
		wantFirst  string
		wantLen    int
	}{
		{
			name:  "first page of twelve by five",
			count: 12, page: 1, size: 5,
			wantNumber: 1, wantTotal: 3, wantFirst: "e0", wantLen: 5,
		},
		{
			name:  "last page is the remainder",
			count: 12, page: 3, size: 5,
			wantNumber: 3, wantTotal: 3, wantFirst: "e10", wantLen: 2,
		},
		{
			name:  "page past the end clamps to last",
			count: 12, page: 9, size: 5,
			wantNumber: 3, wantTotal: 3, wantFirst: "e10", wantLen: 2,
		},
		{
			name:  "page below one clamps to first",
			count: 12, page: 0, size: 5,
			wantNumber: 1, wantTotal: 3, wantFirst: "e0", wantLen: 5,
		},
		{
			name:  "empty partition still reports one page",
			count: 0, page: 4, size: 5,
			wantNumber: 1, wantTotal: 1, wantLen: 0,
		},
		{
			name:  "exact multiple has no ragged page",
			count: 10, page: 2, size: 5,
			wantNumber: 2, wantTotal: 2, wantFirst: "e5", wantLen: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(entries(tt.count), tt.page, tt.size)
			assert.Equal(t, tt.wantNumber, p.Number)
			assert.Equal(t, tt.wantTotal, p.Total)
			require.Len(t, p.Items, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, p.Items[0].ID)
			}
		})
	}
}

func TestPaginate_NonPositiveSize(t *testing.T) {
	p := Paginate(entries(7), 3, 0)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.Total)
	assert.Len(t, p.Items, 7)
}

func TestPaginate_ShrinkingPartitionLandsOnLastPage(t *testing.T) {
	// A viewer sitting on page 3 whose partition shrinks under them gets
	// the new last page instead of an empty page or an error.
	p := Paginate(entries(6), 3, 5)
	assert.Equal(t, 2, p.Number)
	assert.Equal(t, 2, p.Total)
	assert.Len(t, p.Items, 1)
}
