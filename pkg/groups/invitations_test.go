package groups

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potluckapp/potluck/pkg/auth"
	"github.com/potluckapp/potluck/pkg/storage/storagetest"
)

func TestInvitationLifecycle(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	alice := storagetest.CreateUser(t, db, "alice")
	bob := storagetest.CreateUser(t, db, "bob")
	groupID := storagetest.CreateGroup(t, db, "g1", true)
	storagetest.AddMember(t, db, groupID, alice, "admin")

	inv := &Invitation{
		GroupID:   groupID,
		Email:     "bob@example.com",
		Role:      auth.RolePowerUser,
		InvitedBy: alice,
	}
	require.NoError(t, svc.CreateInvitation(ctx, inv))
	assert.NotEmpty(t, inv.Token)
	assert.True(t, inv.ExpiresAt.After(time.Now()))

	pending, err := svc.ListInvitations(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, svc.AcceptInvitation(ctx, inv.Token, bob))

	m, err := svc.GetMember(ctx, groupID, bob)
	require.NoError(t, err)
	assert.Equal(t, auth.RolePowerUser, m.Role)

	// Accepted invitations disappear from the pending list and cannot be
	// accepted again.
	pending, err = svc.ListInvitations(ctx, groupID)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.ErrorIs(t, svc.AcceptInvitation(ctx, inv.Token, bob), ErrInvitationNotFound)
}

func TestAcceptExpiredInvitation(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	alice := storagetest.CreateUser(t, db, "alice")
	bob := storagetest.CreateUser(t, db, "bob")
	groupID := storagetest.CreateGroup(t, db, "g1", true)

	inv := &Invitation{
		GroupID:   groupID,
		Email:     "bob@example.com",
		Role:      auth.RoleReadOnly,
		InvitedBy: alice,
		InvitedAt: time.Now().Add(-30 * 24 * time.Hour),
		ExpiresAt: time.Now().Add(-23 * 24 * time.Hour),
	}
	require.NoError(t, svc.CreateInvitation(ctx, inv))

	assert.ErrorIs(t, svc.AcceptInvitation(ctx, inv.Token, bob), ErrInvitationExpired)

	_, err := svc.GetMember(ctx, groupID, bob)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestReinviteReplacesToken(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	alice := storagetest.CreateUser(t, db, "alice")
	groupID := storagetest.CreateGroup(t, db, "g1", true)

	first := &Invitation{GroupID: groupID, Email: "bob@example.com", Role: auth.RoleReadOnly, InvitedBy: alice}
	require.NoError(t, svc.CreateInvitation(ctx, first))

	second := &Invitation{GroupID: groupID, Email: "bob@example.com", Role: auth.RolePowerUser, InvitedBy: alice}
	require.NoError(t, svc.CreateInvitation(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.Token, second.Token)

	_, err := svc.GetInvitation(ctx, first.Token)
	assert.ErrorIs(t, err, ErrInvitationNotFound)

	got, err := svc.GetInvitation(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RolePowerUser, got.Role)
}

func TestRevokeInvitation(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	alice := storagetest.CreateUser(t, db, "alice")
	groupID := storagetest.CreateGroup(t, db, "g1", true)

	inv := &Invitation{GroupID: groupID, Email: "x@example.com", Role: auth.RoleReadOnly, InvitedBy: alice}
	require.NoError(t, svc.CreateInvitation(ctx, inv))

	require.NoError(t, svc.RevokeInvitation(ctx, inv.ID))
	assert.ErrorIs(t, svc.RevokeInvitation(ctx, inv.ID), ErrInvitationNotFound)
}

func TestCleanupExpiredInvitations(t *testing.T) {
	db := storagetest.NewDB(t)
	ctx := context.Background()
	svc := NewPostgresService(db)

	alice := storagetest.CreateUser(t, db, "alice")
	groupID := storagetest.CreateGroup(t, db, "g1", true)

	expired := &Invitation{
		GroupID: groupID, Email: "old@example.com", Role: auth.RoleReadOnly, InvitedBy: alice,
		InvitedAt: time.Now().Add(-14 * 24 * time.Hour),
		ExpiresAt: time.Now().Add(-7 * 24 * time.Hour),
	}
	require.NoError(t, svc.CreateInvitation(ctx, expired))

	fresh := &Invitation{GroupID: groupID, Email: "new@example.com", Role: auth.RoleReadOnly, InvitedBy: alice}
	require.NoError(t, svc.CreateInvitation(ctx, fresh))

	removed, err := svc.CleanupExpiredInvitations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = svc.GetInvitation(ctx, fresh.Token)
	assert.NoError(t, err)
}
