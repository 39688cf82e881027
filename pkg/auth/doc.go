// Package auth provides identity and role primitives for the Potluck service.
//
// # Roles
//
// Every user holds exactly one role per group they belong to:
//
//   - admin: full control over the group, its members, and all content
//   - power_user: can contribute and (subject to group governance) edit content
//   - read_only: can browse, comment, and favorite
//
// # Capabilities
//
// Capabilities are the static, role-level permission vocabulary. The registry
// in registry.go maps every (role, capability) pair to an explicit boolean;
// there is no default-allow or default-deny fallthrough. Group-level policy
// (the AllowPowerUserEdit governance flag, draft ownership, the last-admin
// invariant) is layered on top of this table by pkg/authz; the table alone
// never authorizes a request.
//
// # API tokens
//
// Tokens are opaque bearer credentials ("potluck_" + base64url random bytes).
// Only the SHA-256 hash is stored; the plaintext token is returned exactly
// once at creation time.
package auth
