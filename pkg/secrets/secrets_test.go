package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dErrors "huduma/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("mtaa-password")
	require.NoError(t, err)
	assert.NotEqual(t, "mtaa-password", hash)

	assert.NoError(t, h.Verify("mtaa-password", hash))

	err = h.Verify("wrong-password", hash)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestHashRejectsEmptyAndOversized(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	_, err := h.Hash("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = h.Hash(strings.Repeat("x", 80))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestVerifyCorruptHash(t *testing.T) {
	err := NewHasher(bcrypt.MinCost).Verify("x", "not-a-hash")
	require.Error(t, err)
	assert.False(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
