package crypto

import (
	"strings"
	"testing"

	errs "github.com/amirhossein-jamali/class-booking/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("Hash and compare", func(t *testing.T) {
		hash, err := hasher.Hash("s3cret")
		require.NoError(t, err)
		assert.NotEqual(t, "s3cret", hash)

		assert.NoError(t, hasher.Compare(hash, "s3cret"))
		assert.Error(t, hasher.Compare(hash, "wrong"))
		assert.Error(t, hasher.Compare(hash, ""))
	})

	t.Run("Hashes are salted", func(t *testing.T) {
		first, err := hasher.Hash("same")
		require.NoError(t, err)
		second, err := hasher.Hash("same")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("Empty hash never matches", func(t *testing.T) {
		assert.ErrorIs(t, hasher.Compare("", ""), ErrEmptyHash)
		assert.ErrorIs(t, hasher.Compare("", "anything"), ErrEmptyHash)
	})

	t.Run("Password over the input limit is a validation error", func(t *testing.T) {
		_, err := hasher.Hash(strings.Repeat("a", 73))
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = hasher.Hash(strings.Repeat("a", 72))
		assert.NoError(t, err)
	})

	t.Run("Default cost", func(t *testing.T) {
		hash, err := NewBcryptHasher(0).Hash("pw")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, DefaultCost, cost)
	})
}
