package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is the full PostgreSQL schema. Statements are idempotent so Migrate
// can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_login_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS groups (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		allow_power_user_edit BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS group_members (
		id BIGSERIAL PRIMARY KEY,
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		invited_by BIGINT REFERENCES users(id),
		joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE(group_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS group_invitations (
		id BIGSERIAL PRIMARY KEY,
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		invited_by BIGINT NOT NULL REFERENCES users(id),
		invited_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL,
		accepted_at TIMESTAMPTZ,
		accepted_by BIGINT REFERENCES users(id),
		UNIQUE(group_id, email)
	)`,

	`CREATE TABLE IF NOT EXISTS recipes (
		id BIGSERIAL PRIMARY KEY,
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		created_by BIGINT NOT NULL REFERENCES users(id),
		slug TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		ingredients TEXT NOT NULL DEFAULT '[]',
		instructions TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'published',
		source_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE(group_id, slug)
	)`,

	`CREATE TABLE IF NOT EXISTS recipe_categories (
		id BIGSERIAL PRIMARY KEY,
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE(group_id, slug)
	)`,

	`CREATE TABLE IF NOT EXISTS recipe_tags (
		id BIGSERIAL PRIMARY KEY,
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE(group_id, slug)
	)`,

	`CREATE TABLE IF NOT EXISTS recipe_category_assignments (
		recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		category_id BIGINT NOT NULL REFERENCES recipe_categories(id) ON DELETE CASCADE,
		UNIQUE(recipe_id, category_id)
	)`,

	`CREATE TABLE IF NOT EXISTS recipe_tag_assignments (
		recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		tag_id BIGINT NOT NULL REFERENCES recipe_tags(id) ON DELETE CASCADE,
		UNIQUE(recipe_id, tag_id)
	)`,

	`CREATE TABLE IF NOT EXISTS favorites (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE(user_id, recipe_id)
	)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id BIGSERIAL PRIMARY KEY,
		recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id),
		body TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS api_tokens (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash TEXT NOT NULL UNIQUE,
		token_prefix TEXT NOT NULL,
		name TEXT NOT NULL,
		expires_at TIMESTAMPTZ,
		last_used_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		revoked_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT,
		group_id BIGINT,
		action TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id TEXT,
		status TEXT NOT NULL,
		error_message TEXT,
		ip_address TEXT,
		user_agent TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_group_invitations_expires ON group_invitations(expires_at) WHERE accepted_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_recipes_group_status ON recipes(group_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_recipe ON comments(recipe_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_api_tokens_user ON api_tokens(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_group ON audit_log(group_id, created_at)`,
}

// Migrate applies the schema to the database. Safe to run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i, err)
		}
	}
	return nil
}
