package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potluckapp/potluck/pkg/recipes"
	"github.com/potluckapp/potluck/pkg/storage/storagetest"
)

func TestTaxonomyIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g1 := storagetest.CreateGroup(t, f.db, "g1", true)
	g2 := storagetest.CreateGroup(t, f.db, "g2", true)
	alice := storagetest.CreateUser(t, f.db, "alice")
	eve := storagetest.CreateUser(t, f.db, "eve")
	storagetest.AddMember(t, f.db, g1, alice, "read_only")
	storagetest.AddMember(t, f.db, g2, eve, "admin")

	cat := &recipes.Category{GroupID: g1, Name: "Desserts"}
	require.NoError(t, f.recipes.CreateCategory(ctx, cat))
	tag := &recipes.Tag{GroupID: g1, Name: "Vegan"}
	require.NoError(t, f.recipes.CreateTag(ctx, tag))

	_, _, err := f.checker.RequireCategoryAccess(ctx, alice, cat.ID)
	assert.NoError(t, err)
	_, _, err = f.checker.RequireTagAccess(ctx, alice, tag.ID)
	assert.NoError(t, err)

	// Cross-tenant access reads as missing.
	_, _, err = f.checker.RequireCategoryAccess(ctx, eve, cat.ID)
	assert.True(t, IsNotFound(err))
	_, _, err = f.checker.RequireTagAccess(ctx, eve, tag.ID)
	assert.True(t, IsNotFound(err))

	_, _, err = f.checker.RequireCategoryAccess(ctx, alice, 9999)
	assert.True(t, IsNotFound(err))
	_, _, err = f.checker.RequireTagAccess(ctx, alice, 9999)
	assert.True(t, IsNotFound(err))
}
