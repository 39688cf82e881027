// Package storagetest provides an in-memory SQLite database with the Potluck
// schema plus seed helpers for store-level tests. The production schema in
// pkg/storage targets PostgreSQL; this mirror keeps the same tables, columns,
// and unique constraints so that queries written with $N placeholders run
// unmodified against both.
package storagetest

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
	CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_login_at TIMESTAMP
	);

	CREATE TABLE groups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		allow_power_user_edit INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE group_members (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		group_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		role TEXT NOT NULL,
		invited_by INTEGER,
		joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(group_id, user_id)
	);

	CREATE TABLE group_invitations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		group_id INTEGER NOT NULL,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		invited_by INTEGER NOT NULL,
		invited_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at TIMESTAMP NOT NULL,
		accepted_at TIMESTAMP,
		accepted_by INTEGER,
		UNIQUE(group_id, email)
	);

	CREATE TABLE recipes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		group_id INTEGER NOT NULL,
		created_by INTEGER NOT NULL,
		slug TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		ingredients TEXT NOT NULL DEFAULT '[]',
		instructions TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'published',
		source_url TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(group_id, slug)
	);

	CREATE TABLE recipe_categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		group_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(group_id, slug)
	);

	CREATE TABLE recipe_tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		group_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(group_id, slug)
	);

	CREATE TABLE recipe_category_assignments (
		recipe_id INTEGER NOT NULL,
		category_id INTEGER NOT NULL,
		UNIQUE(recipe_id, category_id)
	);

	CREATE TABLE recipe_tag_assignments (
		recipe_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		UNIQUE(recipe_id, tag_id)
	);

	CREATE TABLE favorites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		recipe_id INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, recipe_id)
	);

	CREATE TABLE comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recipe_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		body TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE api_tokens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		token_prefix TEXT NOT NULL,
		name TEXT NOT NULL,
		expires_at TIMESTAMP,
		last_used_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		revoked_at TIMESTAMP
	);

	CREATE TABLE audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		group_id INTEGER,
		action TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id TEXT,
		status TEXT NOT NULL,
		error_message TEXT,
		ip_address TEXT,
		user_agent TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

// NewDB opens an in-memory SQLite database with the full schema applied.
// The database is closed automatically when the test finishes.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// A single connection keeps :memory: stable across the test.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to apply test schema: %v", err)
	}
	return db
}

// CreateUser inserts a user and returns its ID.
func CreateUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, '') RETURNING id`,
		username, username+"@example.com",
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}
	return id
}

// CreateGroup inserts a group and returns its ID.
func CreateGroup(t *testing.T, db *sql.DB, name string, allowPowerUserEdit bool) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(
		`INSERT INTO groups (name, slug, allow_power_user_edit) VALUES ($1, $2, $3) RETURNING id`,
		name, name, allowPowerUserEdit,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create group %q: %v", name, err)
	}
	return id
}

// AddMember inserts a membership row.
func AddMember(t *testing.T, db *sql.DB, groupID, userID int64, role string) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO group_members (group_id, user_id, role) VALUES ($1, $2, $3)`,
		groupID, userID, role,
	)
	if err != nil {
		t.Fatalf("failed to add member user=%d group=%d: %v", userID, groupID, err)
	}
}

// CreateRecipe inserts a recipe and returns its ID.
func CreateRecipe(t *testing.T, db *sql.DB, groupID, createdBy int64, slug, status string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(
		`INSERT INTO recipes (group_id, created_by, slug, title, status) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		groupID, createdBy, slug, slug, status,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create recipe %q: %v", slug, err)
	}
	return id
}

// CreateComment inserts a comment and returns its ID.
func CreateComment(t *testing.T, db *sql.DB, recipeID, userID int64, body string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(
		`INSERT INTO comments (recipe_id, user_id, body) VALUES ($1, $2, $3) RETURNING id`,
		recipeID, userID, body,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}
	return id
}

// AdminCount returns the number of admin memberships in a group.
func AdminCount(t *testing.T, db *sql.DB, groupID int64) int {
	t.Helper()

	var n int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND role = 'admin'`, groupID,
	).Scan(&n)
	if err != nil {
		t.Fatalf("failed to count admins: %v", err)
	}
	return n
}

// FreezeTime returns a fixed reference time for deterministic assertions.
func FreezeTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}
