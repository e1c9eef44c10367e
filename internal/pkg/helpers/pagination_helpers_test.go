package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page", 1, 20, 0, 20},
		{"third page", 3, 10, 20, 10},
		{"zero page falls back to first", 0, 10, 0, 10},
		{"negative page falls back to first", -4, 10, 0, 10},
		{"zero size falls back to default", 2, 0, 10, 10},
		{"oversized size is capped to default", 1, 500, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	t.Run("rounds total pages up", func(t *testing.T) {
		info := NewPaginationInfo(25, 1, 10)
		assert.Equal(t, 3, info.TotalPages)
		assert.Equal(t, 1, info.CurrentPage)
		assert.Equal(t, int64(25), info.TotalItems)
	})

	t.Run("empty result still reports one page", func(t *testing.T) {
		info := NewPaginationInfo(0, 1, 10)
		assert.Equal(t, 1, info.TotalPages)
	})

	t.Run("page past the end is clamped", func(t *testing.T) {
		info := NewPaginationInfo(25, 9, 10)
		assert.Equal(t, 3, info.CurrentPage)
	})
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	parse := func(query string) (int, int) {
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Request = httptest.NewRequest("GET", "/books"+query, nil)
		return ParsePaginationParams(ctx)
	}

	page, size := parse("?page=2&size=25")
	assert.Equal(t, 2, page)
	assert.Equal(t, 25, size)

	page, size = parse("")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	page, size = parse("?page=abc&size=-1")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	page, size = parse("?page=1&size=1000")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)
}
