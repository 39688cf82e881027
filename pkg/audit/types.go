package audit

import "time"

// Action identifies what happened.
type Action string

const (
	// Authentication
	ActionLogin       Action = "auth.login"
	ActionLoginFailed Action = "auth.login_failed"
	ActionSignup      Action = "auth.signup"
	ActionTokenCreate Action = "auth.token_create"
	ActionTokenRevoke Action = "auth.token_revoke"

	// Group governance
	ActionGroupCreate      Action = "group.create"
	ActionGroupUpdate      Action = "group.update"
	ActionGroupDelete      Action = "group.delete"
	ActionMemberAdd        Action = "group.member_add"
	ActionMemberRemove     Action = "group.member_remove"
	ActionMemberRoleChange Action = "group.member_role_change"
	ActionInviteCreate     Action = "group.invite_create"
	ActionInviteAccept     Action = "group.invite_accept"

	// Recipes
	ActionRecipeCreate  Action = "recipe.create"
	ActionRecipeUpdate  Action = "recipe.update"
	ActionRecipeDelete  Action = "recipe.delete"
	ActionRecipePublish Action = "recipe.publish"
	ActionRecipeDiscard Action = "recipe.discard"
	ActionRecipeImport  Action = "recipe.import"

	// Authorization outcomes worth keeping
	ActionAccessDenied Action = "authz.access_denied"
)

// Status is the outcome of the audited operation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusDenied  Status = "denied"
)

// ResourceType names the kind of resource an entry refers to.
type ResourceType string

const (
	ResourceUser       ResourceType = "user"
	ResourceGroup      ResourceType = "group"
	ResourceMember     ResourceType = "member"
	ResourceInvitation ResourceType = "invitation"
	ResourceRecipe     ResourceType = "recipe"
	ResourceComment    ResourceType = "comment"
	ResourceToken      ResourceType = "token"
)

// Entry is a single audit log record.
type Entry struct {
	ID           int64        `json:"id"`
	UserID       *int64       `json:"user_id,omitempty"`
	GroupID      *int64       `json:"group_id,omitempty"`
	Action       Action       `json:"action"`
	ResourceType ResourceType `json:"resource_type"`
	ResourceID   string       `json:"resource_id,omitempty"`
	Status       Status       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	IPAddress    string       `json:"ip_address,omitempty"`
	UserAgent    string       `json:"user_agent,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Filter narrows List queries.
type Filter struct {
	UserID  *int64
	GroupID *int64
	Action  Action
	Status  Status
	Limit   int
	Offset  int
}
