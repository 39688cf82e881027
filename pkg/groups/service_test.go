package groups

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potluckapp/potluck/pkg/storage/storagetest"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple name",
			input:    "Supper",
			expected: "supper",
		},
		{
			name:     "name with spaces",
			input:    "The Supper Club",
			expected: "the-supper-club",
		},
		{
			name:     "name with digits",
			input:    "Dinner Crew 2025",
			expected: "dinner-crew-2025",
		},
		{
			name:     "name with invalid chars",
			input:    "Nonna's Kitchen!",
			expected: "nonnas-kitchen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, generateSlug(tt.input))
		})
	}
}

func TestCreateAndGetGroup(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	group := &Group{Name: "The Supper Club", AllowPowerUserEdit: true}
	require.NoError(t, svc.CreateGroup(ctx, group))
	assert.NotZero(t, group.ID)
	assert.Equal(t, "the-supper-club", group.Slug)
	assert.True(t, group.AllowPowerUserEdit)

	got, err := svc.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.Name, got.Name)

	bySlug, err := svc.GetGroupBySlug(ctx, "the-supper-club")
	require.NoError(t, err)
	assert.Equal(t, group.ID, bySlug.ID)
}

func TestCreateGroupPersistsGovernanceFlag(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	locked := &Group{Name: "Locked Kitchen", AllowPowerUserEdit: false}
	require.NoError(t, svc.CreateGroup(ctx, locked))

	got, err := svc.GetGroup(ctx, locked.ID)
	require.NoError(t, err)
	assert.False(t, got.AllowPowerUserEdit)
}

func TestGetGroupNotFound(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	_, err := svc.GetGroup(ctx, 12345)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestUpdateGroupGovernanceFlag(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	group := &Group{Name: "g"}
	require.NoError(t, svc.CreateGroup(ctx, group))

	off := false
	require.NoError(t, svc.UpdateGroup(ctx, group.ID, &UpdateGroupRequest{AllowPowerUserEdit: &off}))

	got, err := svc.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.False(t, got.AllowPowerUserEdit)
	assert.Equal(t, "g", got.Name, "name untouched by partial update")

	on := true
	name := "renamed"
	require.NoError(t, svc.UpdateGroup(ctx, group.ID, &UpdateGroupRequest{Name: &name, AllowPowerUserEdit: &on}))

	got, err = svc.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.True(t, got.AllowPowerUserEdit)
	assert.Equal(t, "renamed", got.Name)
}

func TestUpdateGroupNotFound(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	off := false
	err := svc.UpdateGroup(ctx, 999, &UpdateGroupRequest{AllowPowerUserEdit: &off})
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestListGroupsForUser(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	alice := storagetest.CreateUser(t, db, "alice")
	g1 := storagetest.CreateGroup(t, db, "g1", true)
	g2 := storagetest.CreateGroup(t, db, "g2", true)
	storagetest.CreateGroup(t, db, "g3", true) // not a member
	storagetest.AddMember(t, db, g1, alice, "admin")
	storagetest.AddMember(t, db, g2, alice, "read_only")

	got, err := svc.ListGroupsForUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got, 2)
}
