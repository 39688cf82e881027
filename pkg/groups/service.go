package groups

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// PostgresService implements the Service interface using PostgreSQL
type PostgresService struct {
	db *sql.DB
}

// NewPostgresService creates a new PostgresService
func NewPostgresService(db *sql.DB) *PostgresService {
	return &PostgresService{db: db}
}

// CreateGroup creates a new group
func (s *PostgresService) CreateGroup(ctx context.Context, group *Group) error {
	if group.Slug == "" {
		group.Slug = generateSlug(group.Name)
	}

	query := `
		INSERT INTO groups (name, slug, allow_power_user_edit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`
	now := time.Now()
	err := s.db.QueryRowContext(ctx, query, group.Name, group.Slug, group.AllowPowerUserEdit, now).
		Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	group.CreatedAt = now
	group.UpdatedAt = now
	return nil
}

// GetGroup retrieves a group by ID
func (s *PostgresService) GetGroup(ctx context.Context, id int64) (*Group, error) {
	return s.getGroup(ctx, `WHERE id = $1`, id)
}

// GetGroupBySlug retrieves a group by slug
func (s *PostgresService) GetGroupBySlug(ctx context.Context, slug string) (*Group, error) {
	return s.getGroup(ctx, `WHERE slug = $1`, slug)
}

func (s *PostgresService) getGroup(ctx context.Context, where string, arg interface{}) (*Group, error) {
	query := `
		SELECT id, name, slug, allow_power_user_edit, created_at, updated_at
		FROM groups ` + where
	group := &Group{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&group.ID, &group.Name, &group.Slug, &group.AllowPowerUserEdit,
		&group.CreatedAt, &group.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroupsForUser returns all groups the user is a member of
func (s *PostgresService) ListGroupsForUser(ctx context.Context, userID int64) ([]*Group, error) {
	query := `
		SELECT g.id, g.name, g.slug, g.allow_power_user_edit, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY g.created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var out []*Group
	for rows.Next() {
		g := &Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.AllowPowerUserEdit,
			&g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGroup applies a settings update. Nil fields are left unchanged.
func (s *PostgresService) UpdateGroup(ctx context.Context, id int64, updates *UpdateGroupRequest) error {
	sets := []string{}
	args := []interface{}{}
	i := 1

	if updates.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", i))
		args = append(args, *updates.Name)
		i++
	}
	if updates.AllowPowerUserEdit != nil {
		sets = append(sets, fmt.Sprintf("allow_power_user_edit = $%d", i))
		args = append(args, *updates.AllowPowerUserEdit)
		i++
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, time.Now())
	i++
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE groups SET %s WHERE id = $%d`, strings.Join(sets, ", "), i)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// generateSlug produces a URL-safe slug from a group name
func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")

	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
