package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runtrack/internal/adapters/storage/storagetest"
	domain "runtrack/internal/domain/user"
)

// TestSQLiteStore_Lookups covers create and the three lookups.
func TestSQLiteStore_Lookups(t *testing.T) {
	store := NewSQLiteStore(storagetest.Open(t))
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, domain.User{ID: "a1", Name: "Ana", Role: domain.RoleAthlete, Code: 77, CreatedAt: now}))
	require.NoError(t, store.Create(ctx, domain.User{ID: "c1", Name: "Coach Kim", Role: domain.RoleCoach, CreatedAt: now}))

	byID, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 77, byID.Code)
	assert.True(t, byID.CreatedAt.Equal(now))

	byName, err := store.GetByName(ctx, "Coach Kim")
	require.NoError(t, err)
	assert.Equal(t, 0, byName.Code)

	byCode, err := store.GetByCode(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, "a1", byCode.ID)

	_, err = store.GetByCode(ctx, 78)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestSQLiteStore_UniqueClashes maps constraint failures to domain errors.
func TestSQLiteStore_UniqueClashes(t *testing.T) {
	store := NewSQLiteStore(storagetest.Open(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Create(ctx, domain.User{ID: "a1", Name: "Ana", Role: domain.RoleAthlete, Code: 5, CreatedAt: now}))
	err := store.Create(ctx, domain.User{ID: "a2", Name: "Ana", Role: domain.RoleAthlete, Code: 6, CreatedAt: now})
	assert.ErrorIs(t, err, domain.ErrNameTaken)
	err = store.Create(ctx, domain.User{ID: "a3", Name: "Ben", Role: domain.RoleAthlete, Code: 5, CreatedAt: now})
	assert.ErrorIs(t, err, domain.ErrCodeTaken)

	// Two coaches without codes do not clash on the NULL code.
	require.NoError(t, store.Create(ctx, domain.User{ID: "c1", Name: "C1", Role: domain.RoleCoach, CreatedAt: now}))
	require.NoError(t, store.Create(ctx, domain.User{ID: "c2", Name: "C2", Role: domain.RoleCoach, CreatedAt: now}))
}
