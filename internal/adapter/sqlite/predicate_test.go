package sqlite

import (
	"database/sql/driver"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLRegexp(t *testing.T) {
	tests := []struct {
		name    string
		pattern driver.Value
		value   driver.Value
		want    driver.Value
	}{
		{"match", "^en", "en-GB", int64(1)},
		{"no match", "^en", "de", int64(0)},
		{"null value", "^en", nil, int64(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sqlRegexp(nil, []driver.Value{tt.pattern, tt.value})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := sqlRegexp(nil, []driver.Value{"(", "x"})
	assert.Error(t, err)
}

func TestSQLRegexp_CacheIsBounded(t *testing.T) {
	for i := 0; i < regexpCacheSize*3; i++ {
		_, err := sqlRegexp(nil, []driver.Value{fmt.Sprintf("^x%d$", i), "x"})
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, regexpCache.Len(), regexpCacheSize)
	assert.True(t, regexpCache.Contains(fmt.Sprintf("^x%d$", regexpCacheSize*3-1)))
}
