package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONColumn(t *testing.T) {
	assert.Equal(t, `["a","b"]`, JSONColumn([]string{"a", "b"}))
	assert.Equal(t, `[]`, JSONColumn([]string{}))
	assert.Equal(t, `{"diet":"veg"}`, JSONColumn(map[string]string{"diet": "veg"}))
	assert.Equal(t, "null", JSONColumn(func() {}))
}

func TestDistinctTrimmed(t *testing.T) {
	assert.Equal(t, []string{"doula", "Lactation"}, DistinctTrimmed([]string{" doula", "", "Lactation", "doula ", "  "}))
	assert.Empty(t, DistinctTrimmed(nil))
}
