package auth

import "time"

// User represents a registered account
type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	FullName    string     `json:"full_name,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Role represents a user's role within a single group
type Role string

const (
	RoleAdmin     Role = "admin"      // Full control over the group
	RolePowerUser Role = "power_user" // Can contribute and edit content
	RoleReadOnly  Role = "read_only"  // Browse, comment, favorite
)

// AllRoles lists every defined role. The permission registry is required to
// be total over this set.
var AllRoles = []Role{RoleAdmin, RolePowerUser, RoleReadOnly}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePowerUser, RoleReadOnly:
		return true
	}
	return false
}

// Capability represents a static, role-level permission
type Capability string

const (
	CapabilityRecipeCreate Capability = "recipe:create"
	CapabilityRecipeRead   Capability = "recipe:read"
	CapabilityRecipeUpdate Capability = "recipe:update"
	CapabilityRecipeDelete Capability = "recipe:delete"

	CapabilityCategoryCreate Capability = "category:create"
	CapabilityCategoryRead   Capability = "category:read"
	CapabilityCategoryUpdate Capability = "category:update"
	CapabilityCategoryDelete Capability = "category:delete"

	CapabilityTagCreate Capability = "tag:create"
	CapabilityTagRead   Capability = "tag:read"
	CapabilityTagUpdate Capability = "tag:update"
	CapabilityTagDelete Capability = "tag:delete"

	// Group administration: member management and group settings
	// (including the AllowPowerUserEdit governance flag).
	CapabilityGroupManageMembers  Capability = "group:manage_members"
	CapabilityGroupManageSettings Capability = "group:manage_settings"

	// Comment capabilities are split into *_own and *_any: every role may act
	// on its own comments, only admins may act on anyone's.
	CapabilityCommentCreate    Capability = "comment:create"
	CapabilityCommentUpdateOwn Capability = "comment:update_own"
	CapabilityCommentUpdateAny Capability = "comment:update_any"
	CapabilityCommentDeleteOwn Capability = "comment:delete_own"
	CapabilityCommentDeleteAny Capability = "comment:delete_any"

	CapabilityFavoriteManage Capability = "favorite:manage"

	CapabilityRecipeImport Capability = "recipe:import"
)

// AllCapabilities lists every defined capability.
var AllCapabilities = []Capability{
	CapabilityRecipeCreate,
	CapabilityRecipeRead,
	CapabilityRecipeUpdate,
	CapabilityRecipeDelete,
	CapabilityCategoryCreate,
	CapabilityCategoryRead,
	CapabilityCategoryUpdate,
	CapabilityCategoryDelete,
	CapabilityTagCreate,
	CapabilityTagRead,
	CapabilityTagUpdate,
	CapabilityTagDelete,
	CapabilityGroupManageMembers,
	CapabilityGroupManageSettings,
	CapabilityCommentCreate,
	CapabilityCommentUpdateOwn,
	CapabilityCommentUpdateAny,
	CapabilityCommentDeleteOwn,
	CapabilityCommentDeleteAny,
	CapabilityFavoriteManage,
	CapabilityRecipeImport,
}

// APIToken represents an API token
type APIToken struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	TokenHash   string     `json:"-"` // Never expose hash
	TokenPrefix string     `json:"token_prefix"`
	Name        string     `json:"name"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// AuthContext holds the verified identity attached to a request. Group
// membership and role are resolved per request by pkg/authz, never cached
// here: a token identifies a user, not a role.
type AuthContext struct {
	User  *User
	Token *APIToken
}

// UserID returns the authenticated user's ID, or 0 when unauthenticated.
func (ac *AuthContext) UserID() int64 {
	if ac == nil || ac.User == nil {
		return 0
	}
	return ac.User.ID
}
