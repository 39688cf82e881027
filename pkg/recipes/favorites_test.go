package recipes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potluckapp/potluck/pkg/storage/storagetest"
)

func TestFavorites(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	groupID := storagetest.CreateGroup(t, db, "g1", true)
	alice := storagetest.CreateUser(t, db, "alice")
	first := storagetest.CreateRecipe(t, db, groupID, alice, "first", "published")
	second := storagetest.CreateRecipe(t, db, groupID, alice, "second", "published")

	require.NoError(t, svc.AddFavorite(ctx, alice, first))
	require.NoError(t, svc.AddFavorite(ctx, alice, second))

	// Adding twice is a no-op.
	require.NoError(t, svc.AddFavorite(ctx, alice, first))

	fav, err := svc.IsFavorite(ctx, alice, first)
	require.NoError(t, err)
	assert.True(t, fav)

	ids, err := svc.ListFavorites(ctx, alice)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{first, second}, ids)

	require.NoError(t, svc.RemoveFavorite(ctx, alice, first))
	fav, err = svc.IsFavorite(ctx, alice, first)
	require.NoError(t, err)
	assert.False(t, fav)

	// Removing again is a no-op.
	require.NoError(t, svc.RemoveFavorite(ctx, alice, first))
}

func TestFavoritesArePerUser(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	groupID := storagetest.CreateGroup(t, db, "g1", true)
	alice := storagetest.CreateUser(t, db, "alice")
	bob := storagetest.CreateUser(t, db, "bob")
	recipeID := storagetest.CreateRecipe(t, db, groupID, alice, "shared", "published")

	require.NoError(t, svc.AddFavorite(ctx, alice, recipeID))

	fav, err := svc.IsFavorite(ctx, bob, recipeID)
	require.NoError(t, err)
	assert.False(t, fav)

	ids, err := svc.ListFavorites(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
