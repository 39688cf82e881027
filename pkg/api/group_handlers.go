package api

import (
	"net/http"
	"strconv"

	"github.com/potluckapp/potluck/pkg/audit"
	"github.com/potluckapp/potluck/pkg/auth"
	"github.com/potluckapp/potluck/pkg/groups"
	"github.com/potluckapp/potluck/pkg/httputil"
)

type createGroupRequest struct {
	Name string `json:"name"`

	// AllowPowerUserEdit defaults to open governance when omitted.
	AllowPowerUserEdit *bool `json:"allow_power_user_edit"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req createGroupRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}

	allowPowerUserEdit := true
	if req.AllowPowerUserEdit != nil {
		allowPowerUserEdit = *req.AllowPowerUserEdit
	}
	group := &groups.Group{Name: req.Name, AllowPowerUserEdit: allowPowerUserEdit}
	if err := s.groups.CreateGroup(r.Context(), group); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	// The creator is the group's first admin. Without this the group would
	// be born violating the admin invariant.
	if err := s.groups.AddMember(r.Context(), group.ID, user.ID, auth.RoleAdmin, nil); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		GroupID:      &group.ID,
		Action:       audit.ActionGroupCreate,
		ResourceType: audit.ResourceGroup,
		ResourceID:   strconv.FormatInt(group.ID, 10),
		Status:       audit.StatusSuccess,
	})
	httputil.WriteCreated(w, group)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	list, err := s.groups.ListGroupsForUser(r.Context(), user.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
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
	httputil.WriteSuccess(w, group)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
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
	if err := s.checker.RequireCapability(member, auth.CapabilityGroupManageSettings); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	var updates groups.UpdateGroupRequest
	if !httputil.ParseJSONOrError(w, r, &updates) {
		return
	}
	if err := s.groups.UpdateGroup(r.Context(), group.ID, &updates); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		GroupID:      &group.ID,
		Action:       audit.ActionGroupUpdate,
		ResourceType: audit.ResourceGroup,
		ResourceID:   strconv.FormatInt(group.ID, 10),
		Status:       audit.StatusSuccess,
	})

	updated, err := s.groups.GetGroup(r.Context(), group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, updated)
}
