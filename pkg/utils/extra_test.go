package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomToken(t *testing.T) {
	hexPattern := regexp.MustCompile(`^[0-9a-f]+$`)

	for _, n := range []int{1, 7, 8, 32} {
		tok := GenerateRandomToken(n)
		assert.Len(t, tok, n)
		assert.Regexp(t, hexPattern, tok)
	}
	assert.NotEqual(t, GenerateRandomToken(16), GenerateRandomToken(16))
}
