package groups

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/potluckapp/potluck/pkg/auth"
)

// ListMembers retrieves all members of a group
func (s *PostgresService) ListMembers(ctx context.Context, groupID int64) ([]*Member, error) {
	query := `
		SELECT m.id, m.group_id, m.user_id, m.role, m.invited_by, m.joined_at,
		       u.username, u.email
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY m.joined_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		var email sql.NullString
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &m.InvitedBy,
			&m.JoinedAt, &m.Username, &email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if email.Valid {
			m.Email = email.String
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMember retrieves a specific membership. This is the single source of
// truth for "is this user in this group and with what role"; every
// authorization component resolves roles through it.
func (s *PostgresService) GetMember(ctx context.Context, groupID, userID int64) (*Member, error) {
	query := `
		SELECT m.id, m.group_id, m.user_id, m.role, m.invited_by, m.joined_at,
		       u.username, u.email
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1 AND m.user_id = $2
	`
	m := &Member{}
	var email sql.NullString
	err := s.db.QueryRowContext(ctx, query, groupID, userID).Scan(
		&m.ID, &m.GroupID, &m.UserID, &m.Role, &m.InvitedBy,
		&m.JoinedAt, &m.Username, &email,
	)
	if err == sql.ErrNoRows {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if email.Valid {
		m.Email = email.String
	}
	return m, nil
}

// AddMember adds a user to a group with the given role
func (s *PostgresService) AddMember(ctx context.Context, groupID, userID int64, role auth.Role, invitedBy *int64) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role: %q", role)
	}

	query := `
		INSERT INTO group_members (group_id, user_id, role, invited_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, groupID, userID, role, invitedBy)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAlreadyMember
	}
	return nil
}

// UpdateMemberRole changes a member's role. Demoting the last admin is
// rejected: the admin-count guard is a subquery inside the UPDATE itself, so
// two concurrent demotions cannot both observe a safe count and proceed.
func (s *PostgresService) UpdateMemberRole(ctx context.Context, groupID, userID int64, role auth.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role: %q", role)
	}

	query := `
		UPDATE group_members SET role = $1
		WHERE group_id = $2 AND user_id = $3
		  AND (role <> 'admin' OR $1 = 'admin'
		       OR (SELECT COUNT(*) FROM group_members
		           WHERE group_id = $2 AND role = 'admin') > 1)
	`
	result, err := s.db.ExecContext(ctx, query, role, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return s.explainGuardFailure(ctx, groupID, userID, ActionDemote)
	}
	return nil
}

// RemoveMember removes a user from a group. Removing the last admin is
// rejected with the same in-statement guard as UpdateMemberRole.
func (s *PostgresService) RemoveMember(ctx context.Context, groupID, userID int64) error {
	query := `
		DELETE FROM group_members
		WHERE group_id = $1 AND user_id = $2
		  AND (role <> 'admin'
		       OR (SELECT COUNT(*) FROM group_members
		           WHERE group_id = $1 AND role = 'admin') > 1)
	`
	result, err := s.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return s.explainGuardFailure(ctx, groupID, userID, ActionRemove)
	}
	return nil
}

// explainGuardFailure distinguishes "no such member" from "guard refused the
// mutation" after a zero-row conditional update. Read-only: the mutation
// already didn't happen.
func (s *PostgresService) explainGuardFailure(ctx context.Context, groupID, userID int64, action MemberAction) error {
	member, err := s.GetMember(ctx, groupID, userID)
	if err != nil {
		return err // ErrMemberNotFound or a store failure
	}
	if member.Role == auth.RoleAdmin {
		return &LastAdminError{Action: action}
	}
	// The member exists with a non-admin role, so the guard could not have
	// fired; the row must have changed between the two statements.
	return fmt.Errorf("membership changed concurrently, retry")
}

// AdminCount returns the number of admin memberships in a group
func (s *PostgresService) AdminCount(ctx context.Context, groupID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND role = 'admin'`, groupID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}
