package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	// Известный SHA-256 от пустого входа.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Sum(nil))

	a := Sum([]byte(`{"age":9}`))
	b := Sum([]byte(`{"age":10}`))

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Sum([]byte(`{"age":9}`)), "дайджест детерминирован")
}
