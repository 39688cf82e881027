// Package authz is the authorization and governance engine. Every
// resource-scoped request passes through it in a fixed order: membership
// resolution, tenant isolation, static capability check, then the layered
// rules (draft visibility, governance flag, ownership, admin invariant).
//
// The checker holds no state of its own. Role and membership are resolved
// fresh against the store on every call, so a role change takes effect on
// the next request without any cache invalidation.
//
// Error policy: addressing a group the caller is not a member of fails with
// Forbidden. Addressing a resource by ID fails with NotFound whenever the
// caller is not a member of the owning group, and whenever the resource is
// a draft the caller did not create. The two cases are indistinguishable
// from a genuinely missing resource, so existence is never confirmed across
// tenant boundaries.
package authz
