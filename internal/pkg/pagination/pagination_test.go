package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(query string) Params {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/caregivers?"+query, nil)
	return FromContext(c)
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Limit: DefaultLimit, Offset: 0}},
		{"limit=5&offset=10", Params{Limit: 5, Offset: 10}},
		{"limit=500", Params{Limit: MaxLimit, Offset: 0}},
		{"limit=-3&offset=-1", Params{Limit: DefaultLimit, Offset: 0}},
		{"page=3&page_size=10", Params{Limit: 10, Offset: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, paramsFor(tt.query))
		})
	}
}

func TestNewResponseHasMore(t *testing.T) {
	p := Params{Limit: 10, Offset: 10}
	assert.True(t, NewResponse([]int{}, 21, p).HasMore)
	assert.False(t, NewResponse([]int{}, 20, p).HasMore)
}
