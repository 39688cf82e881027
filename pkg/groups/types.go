package groups

import (
	"context"
	"errors"
	"time"

	"github.com/potluckapp/potluck/pkg/auth"
)

// Group represents a tenant owning recipes, categories, tags, and memberships
type Group struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Slug               string    `json:"slug"`
	AllowPowerUserEdit bool      `json:"allow_power_user_edit"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Member represents a user's membership in a group with full details
type Member struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	UserID    int64     `json:"user_id"`
	Role      auth.Role `json:"role"`
	InvitedBy *int64    `json:"invited_by,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
}

// Invitation represents a pending invitation to join a group
type Invitation struct {
	ID         int64      `json:"id"`
	GroupID    int64      `json:"group_id"`
	Email      string     `json:"email"`
	Role       auth.Role  `json:"role"`
	Token      string     `json:"token,omitempty"`
	InvitedBy  int64      `json:"invited_by"`
	InvitedAt  time.Time  `json:"invited_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	AcceptedBy *int64     `json:"accepted_by,omitempty"`
}

// MemberAction identifies which membership mutation tripped the last-admin
// invariant, so the error message can name it.
type MemberAction string

const (
	ActionRemove MemberAction = "remove"
	ActionDemote MemberAction = "demote"
)

// Sentinel errors for lookup failures.
var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrAlreadyMember      = errors.New("user is already a member of this group")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation has expired")
)

// LastAdminError is returned when a removal or demotion would leave the group
// with zero admins.
type LastAdminError struct {
	Action MemberAction
}

func (e *LastAdminError) Error() string {
	if e.Action == ActionDemote {
		return "cannot demote the last admin from the group"
	}
	return "cannot remove the last admin from the group"
}

// IsLastAdmin checks if an error is a last-admin invariant violation
func IsLastAdmin(err error) bool {
	var lae *LastAdminError
	return errors.As(err, &lae)
}

// UpdateGroupRequest represents a settings update; nil fields are unchanged
type UpdateGroupRequest struct {
	Name               *string `json:"name,omitempty"`
	AllowPowerUserEdit *bool   `json:"allow_power_user_edit,omitempty"`
}

// Service defines the interface for group and membership management
type Service interface {
	// Group CRUD
	CreateGroup(ctx context.Context, group *Group) error
	GetGroup(ctx context.Context, id int64) (*Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*Group, error)
	ListGroupsForUser(ctx context.Context, userID int64) ([]*Group, error)
	UpdateGroup(ctx context.Context, id int64, updates *UpdateGroupRequest) error

	// Membership management
	ListMembers(ctx context.Context, groupID int64) ([]*Member, error)
	GetMember(ctx context.Context, groupID, userID int64) (*Member, error)
	AddMember(ctx context.Context, groupID, userID int64, role auth.Role, invitedBy *int64) error
	UpdateMemberRole(ctx context.Context, groupID, userID int64, role auth.Role) error
	RemoveMember(ctx context.Context, groupID, userID int64) error
	AdminCount(ctx context.Context, groupID int64) (int, error)

	// Invitation management
	CreateInvitation(ctx context.Context, inv *Invitation) error
	GetInvitation(ctx context.Context, token string) (*Invitation, error)
	ListInvitations(ctx context.Context, groupID int64) ([]*Invitation, error)
	AcceptInvitation(ctx context.Context, token string, userID int64) error
	RevokeInvitation(ctx context.Context, id int64) error
	CleanupExpiredInvitations(ctx context.Context) (int64, error)
}
