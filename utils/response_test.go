package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginatedPageCount(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		pages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 100, 1},
	}
	for _, tc := range cases {
		payload := Paginated([]int{}, tc.total, 1, tc.limit)
		assert.Equal(t, tc.pages, payload["pages"], "total=%d limit=%d", tc.total, tc.limit)
		assert.Equal(t, tc.total, payload["total"])
	}
}
