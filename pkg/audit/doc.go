// Package audit provides the audit trail for governance-sensitive operations.
//
// # What Gets Audited
//
// Authentication: signup, login, failed login, token create/revoke.
// Governance: membership changes, role changes, invitations.
// Recipes: create, update, delete, publish, discard, import.
// Authorization: denied checks worth investigating later.
//
// # Usage
//
// Recording is best effort. Callers log the failure and continue; an audit
// write must never fail the operation it describes:
//
//	entry := &audit.Entry{
//		UserID:       &actorID,
//		GroupID:      &groupID,
//		Action:       audit.ActionMemberRoleChange,
//		ResourceType: audit.ResourceMember,
//		ResourceID:   strconv.FormatInt(memberID, 10),
//		Status:       audit.StatusSuccess,
//	}
//	if err := auditLog.Record(ctx, entry); err != nil {
//		logger.WithError(err).Warn("audit write failed")
//	}
//
// The audit_log table is part of the main schema; entries land in the same
// database as the data they describe.
package audit
