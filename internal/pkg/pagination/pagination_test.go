package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page, meta := Slice(items, Query{Page: 2, Size: 3})
	assert.Equal(t, []int{4, 5, 6}, page)
	assert.Equal(t, int64(7), meta.Total)
	assert.Equal(t, 3, meta.TotalPage)
	assert.True(t, meta.HasNextPage)

	page, meta = Slice(items, Query{Page: 3, Size: 3})
	assert.Equal(t, []int{7}, page)
	assert.False(t, meta.HasNextPage)

	page, _ = Slice(items, Query{Page: 9, Size: 3})
	assert.Empty(t, page)
}

func TestSliceEmpty(t *testing.T) {
	page, meta := Slice([]string{}, Query{Page: 1, Size: 8})
	assert.Empty(t, page)
	assert.Equal(t, 0, meta.TotalPage)
	assert.False(t, meta.HasNextPage)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Query{Page: 1, Size: 8}, Normalize(0, 0, 8))
	assert.Equal(t, Query{Page: 2, Size: MaxSize}, Normalize(2, 500, 8))
}
