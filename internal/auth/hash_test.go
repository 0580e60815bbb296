package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword_KnownDigests(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashPassword(""))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", HashPassword("hello"))
}

func TestHashPassword_Deterministic(t *testing.T) {
	assert.Equal(t, HashPassword("pw123"), HashPassword("pw123"))
	assert.NotEqual(t, HashPassword("pw123"), HashPassword("pw124"))
	assert.Len(t, HashPassword("anything"), 64)
}
