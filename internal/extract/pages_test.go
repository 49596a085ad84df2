package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageSelector(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PageSelector
		wantErr bool
	}{
		{name: "all keyword", input: "all", want: AllPages()},
		{name: "empty means all", input: "", want: AllPages()},
		{name: "mixed case all", input: "ALL", want: AllPages()},
		{name: "range", input: "2-5", want: PageRange(2, 5)},
		{name: "range with spaces", input: " 2 - 5 ", want: PageRange(2, 5)},
		{name: "single page list", input: "3", want: PageList(3)},
		{name: "page list", input: "1,3,7", want: PageList(1, 3, 7)},
		{name: "unsorted list is sorted", input: "7,1,3", want: PageList(1, 3, 7)},
		{name: "inverted range", input: "5-2", wantErr: true},
		{name: "zero start", input: "0-3", wantErr: true},
		{name: "garbage range", input: "a-b", wantErr: true},
		{name: "garbage page", input: "1,x", wantErr: true},
		{name: "zero page in list", input: "0,2", wantErr: true},
		{name: "only commas", input: ",,,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageSelector(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageSelectorResolve(t *testing.T) {
	tests := []struct {
		name       string
		selector   PageSelector
		totalPages int
		want       []int
	}{
		{name: "all pages", selector: AllPages(), totalPages: 3, want: []int{1, 2, 3}},
		{name: "all of empty document", selector: AllPages(), totalPages: 0, want: nil},
		{name: "range inside document", selector: PageRange(2, 3), totalPages: 5, want: []int{2, 3}},
		{name: "range clipped to document", selector: PageRange(4, 9), totalPages: 5, want: []int{4, 5}},
		{name: "range entirely past end", selector: PageRange(6, 9), totalPages: 5, want: nil},
		{name: "list drops missing pages", selector: PageList(1, 3, 99), totalPages: 3, want: []int{1, 3}},
		{name: "list deduplicates", selector: PageList(2, 2, 1), totalPages: 3, want: []int{1, 2}},
		{name: "list with nothing present", selector: PageList(8, 9), totalPages: 3, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.selector.Resolve(tt.totalPages))
		})
	}
}

func TestPageSelectorString(t *testing.T) {
	assert.Equal(t, "all", AllPages().String())
	assert.Equal(t, "2-5", PageRange(2, 5).String())
	assert.Equal(t, "1,3,7", PageList(1, 3, 7).String())

	// String output round-trips through the parser.
	for _, ps := range []PageSelector{AllPages(), PageRange(1, 4), PageList(2, 6)} {
		parsed, err := ParsePageSelector(ps.String())
		require.NoError(t, err)
		assert.Equal(t, ps, parsed)
	}
}
