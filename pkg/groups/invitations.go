package groups

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// invitationTTL is how long an invitation stays usable
const invitationTTL = 7 * 24 * time.Hour

// CreateInvitation creates (or refreshes) an invitation to join a group.
// Re-inviting the same email replaces the pending token and extends expiry.
func (s *PostgresService) CreateInvitation(ctx context.Context, inv *Invitation) error {
	if !inv.Role.Valid() {
		return fmt.Errorf("invalid role: %q", inv.Role)
	}

	inv.Token = uuid.NewString()
	if inv.InvitedAt.IsZero() {
		inv.InvitedAt = time.Now()
	}
	if inv.ExpiresAt.IsZero() {
		inv.ExpiresAt = inv.InvitedAt.Add(invitationTTL)
	}

	query := `
		INSERT INTO group_invitations (group_id, email, role, token, invited_by, invited_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (group_id, email) DO UPDATE
		SET role = EXCLUDED.role, token = EXCLUDED.token,
		    invited_at = EXCLUDED.invited_at, expires_at = EXCLUDED.expires_at
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query, inv.GroupID, inv.Email, inv.Role,
		inv.Token, inv.InvitedBy, inv.InvitedAt, inv.ExpiresAt).Scan(&inv.ID)
	if err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

// GetInvitation retrieves an invitation by token
func (s *PostgresService) GetInvitation(ctx context.Context, token string) (*Invitation, error) {
	query := `
		SELECT id, group_id, email, role, token, invited_by, invited_at, expires_at, accepted_at, accepted_by
		FROM group_invitations
		WHERE token = $1
	`
	inv := &Invitation{}
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&inv.ID, &inv.GroupID, &inv.Email, &inv.Role, &inv.Token,
		&inv.InvitedBy, &inv.InvitedAt, &inv.ExpiresAt, &inv.AcceptedAt, &inv.AcceptedBy,
	)
	if err == sql.ErrNoRows {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// ListInvitations returns pending invitations for a group
func (s *PostgresService) ListInvitations(ctx context.Context, groupID int64) ([]*Invitation, error) {
	query := `
		SELECT id, group_id, email, role, invited_by, invited_at, expires_at, accepted_at, accepted_by
		FROM group_invitations
		WHERE group_id = $1 AND accepted_at IS NULL
		ORDER BY invited_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var out []*Invitation
	for rows.Next() {
		inv := &Invitation{}
		if err := rows.Scan(&inv.ID, &inv.GroupID, &inv.Email, &inv.Role,
			&inv.InvitedBy, &inv.InvitedAt, &inv.ExpiresAt,
			&inv.AcceptedAt, &inv.AcceptedBy); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// AcceptInvitation marks the invitation accepted and creates the membership
// in one transaction.
func (s *PostgresService) AcceptInvitation(ctx context.Context, token string, userID int64) error {
	inv, err := s.GetInvitation(ctx, token)
	if err != nil {
		return err
	}
	if inv.AcceptedAt != nil {
		return ErrInvitationNotFound
	}
	if inv.ExpiresAt.Before(time.Now()) {
		return ErrInvitationExpired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`UPDATE group_invitations SET accepted_at = $1, accepted_by = $2
		 WHERE id = $3 AND accepted_at IS NULL`,
		now, userID, inv.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		// Lost the race with another accept of the same token.
		return ErrInvitationNotFound
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, role, invited_by)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (group_id, user_id) DO NOTHING`,
		inv.GroupID, userID, inv.Role, inv.InvitedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// RevokeInvitation deletes a pending invitation
func (s *PostgresService) RevokeInvitation(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM group_invitations WHERE id = $1 AND accepted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to revoke invitation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

// CleanupExpiredInvitations removes unaccepted invitations past their expiry.
// Run periodically by the scheduler in cmd/potluck.
func (s *PostgresService) CleanupExpiredInvitations(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM group_invitations WHERE accepted_at IS NULL AND expires_at < $1`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clean up invitations: %w", err)
	}
	return result.RowsAffected()
}
