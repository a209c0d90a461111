package repo

import (
	"VoiceLedger/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserKeyRepository_UpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	r := NewUserKeyRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &model.UserKey{
		Email:        "key@x.com",
		EncryptedKey: "aabb",
		IV:           "0102",
		Tag:          "0304",
	}))

	got, err := r.Get(ctx, "key@x.com")
	require.NoError(t, err)
	assert.Equal(t, "aabb", got.EncryptedKey)

	// перезапись ключа тем же email
	require.NoError(t, r.Upsert(ctx, &model.UserKey{
		Email:        "key@x.com",
		EncryptedKey: "ccdd",
		IV:           "0506",
		Tag:          "0708",
	}))
	got, err = r.Get(ctx, "key@x.com")
	require.NoError(t, err)
	assert.Equal(t, "ccdd", got.EncryptedKey)
	assert.Equal(t, "0506", got.IV)

	_, err = r.Get(ctx, "nokey@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
