package api

import (
	"net/http"
	"strconv"

	"github.com/potluckapp/potluck/pkg/audit"
	"github.com/potluckapp/potluck/pkg/auth"
	"github.com/potluckapp/potluck/pkg/groups"
	"github.com/potluckapp/potluck/pkg/httputil"
)

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	group, ok := requireGroup(w, r)
	if !ok {
		return
	}
	if _, err := s.checker.RequireMember(r.Context(), user.ID, group.ID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	members, err := s.groups.ListMembers(r.Context(), group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, members)
}

type addMemberRequest struct {
	UserID int64     `json:"user_id"`
	Role   auth.Role `json:"role"`
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	group, ok := requireGroup(w, r)
	if !ok {
		return
	}
	member, err := s.checker.RequireMember(r.Context(), user.ID, group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityGroupManageMembers); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	var req addMemberRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.UserID == 0 {
		httputil.WriteValidationError(w, "user_id is required")
		return
	}
	if !req.Role.Valid() {
		httputil.WriteValidationError(w, "invalid role")
		return
	}

	if err := s.groups.AddMember(r.Context(), group.ID, req.UserID, req.Role, &user.ID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		GroupID:      &group.ID,
		Action:       audit.ActionMemberAdd,
		ResourceType: audit.ResourceMember,
		ResourceID:   strconv.FormatInt(req.UserID, 10),
		Status:       audit.StatusSuccess,
	})

	added, err := s.groups.GetMember(r.Context(), group.ID, req.UserID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteCreated(w, added)
}

type updateRoleRequest struct {
	Role auth.Role `json:"role"`
}

func (s *Server) handleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	group, ok := requireGroup(w, r)
	if !ok {
		return
	}
	targetID, ok := httputil.ParsePathInt64OrError(w, r, "user_id")
	if !ok {
		return
	}
	member, err := s.checker.RequireMember(r.Context(), user.ID, group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityGroupManageMembers); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	var req updateRoleRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !req.Role.Valid() {
		httputil.WriteValidationError(w, "invalid role")
		return
	}

	// The store enforces the last-admin guard atomically; a demotion that
	// would leave the group adminless comes back as a LastAdminError.
	if err := s.groups.UpdateMemberRole(r.Context(), group.ID, targetID, req.Role); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		GroupID:      &group.ID,
		Action:       audit.ActionMemberRoleChange,
		ResourceType: audit.ResourceMember,
		ResourceID:   strconv.FormatInt(targetID, 10),
		Status:       audit.StatusSuccess,
	})

	updated, err := s.groups.GetMember(r.Context(), group.ID, targetID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, updated)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	group, ok := requireGroup(w, r)
	if !ok {
		return
	}
	targetID, ok := httputil.ParsePathInt64OrError(w, r, "user_id")
	if !ok {
		return
	}
	member, err := s.checker.RequireMember(r.Context(), user.ID, group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	// Members may always leave on their own; removing anyone else needs
	// the member management capability. The last-admin guard applies to
	// both paths.
	if targetID != user.ID {
		if err := s.checker.RequireCapability(member, auth.CapabilityGroupManageMembers); err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
	}

	if err := s.groups.RemoveMember(r.Context(), group.ID, targetID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		GroupID:      &group.ID,
		Action:       audit.ActionMemberRemove,
		ResourceType: audit.ResourceMember,
		ResourceID:   strconv.FormatInt(targetID, 10),
		Status:       audit.StatusSuccess,
	})
	httputil.WriteNoContent(w)
}

type createInvitationRequest struct {
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}

func (s *Server) handleCreateInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	group, ok := requireGroup(w, r)
	if !ok {
		return
	}
	member, err := s.checker.RequireMember(r.Context(), user.ID, group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityGroupManageMembers); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	var req createInvitationRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Email, "email") {
		return
	}
	if !req.Role.Valid() {
		httputil.WriteValidationError(w, "invalid role")
		return
	}

	inv := &groups.Invitation{
		GroupID:   group.ID,
		Email:     req.Email,
		Role:      req.Role,
		InvitedBy: user.ID,
	}
	if err := s.groups.CreateInvitation(r.Context(), inv); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		GroupID:      &group.ID,
		Action:       audit.ActionInviteCreate,
		ResourceType: audit.ResourceInvitation,
		ResourceID:   strconv.FormatInt(inv.ID, 10),
		Status:       audit.StatusSuccess,
	})
	httputil.WriteCreated(w, inv)
}

func (s *Server) handleListInvitations(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	group, ok := requireGroup(w, r)
	if !ok {
		return
	}
	member, err := s.checker.RequireMember(r.Context(), user.ID, group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityGroupManageMembers); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	invitations, err := s.groups.ListInvitations(r.Context(), group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, invitations)
}

func (s *Server) handleRevokeInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	group, ok := requireGroup(w, r)
	if !ok {
		return
	}
	invitationID, ok := httputil.ParsePathInt64OrError(w, r, "invitation_id")
	if !ok {
		return
	}
	member, err := s.checker.RequireMember(r.Context(), user.ID, group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityGroupManageMembers); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	// Scope the revocation to this group's invitations so an admin cannot
	// revoke another tenant's invitation by guessing its ID.
	invitations, err := s.groups.ListInvitations(r.Context(), group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	found := false
	for _, inv := range invitations {
		if inv.ID == invitationID {
			found = true
			break
		}
	}
	if !found {
		httputil.WriteNotFoundError(w, "invitation not found")
		return
	}

	if err := s.groups.RevokeInvitation(r.Context(), invitationID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (s *Server) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	token, ok := httputil.ParsePathStringOrError(w, r, "token")
	if !ok {
		return
	}

	inv, err := s.groups.GetInvitation(r.Context(), token)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.groups.AcceptInvitation(r.Context(), token, user.ID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		GroupID:      &inv.GroupID,
		Action:       audit.ActionInviteAccept,
		ResourceType: audit.ResourceInvitation,
		ResourceID:   strconv.FormatInt(inv.ID, 10),
		Status:       audit.StatusSuccess,
	})

	added, err := s.groups.GetMember(r.Context(), inv.GroupID, user.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, added)
}
