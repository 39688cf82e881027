// Package groups manages tenants (groups), their memberships, and
// invitations.
//
// A group is the isolation boundary for all shared content: recipes,
// categories, tags, and comments all belong to exactly one group, and a user
// participates through at most one membership per group, each carrying a
// single role.
//
// # The last-admin invariant
//
// A group must never reach a state with zero admin memberships. RemoveMember
// and UpdateMemberRole enforce this with a single conditional statement: the
// admin count check is a subquery inside the DELETE/UPDATE itself, so the
// check and the mutation execute as one atomically-consistent unit against
// the store. A separate read-then-write pair would admit a race where two
// concurrent demotions each observe two admins and both proceed.
//
// # Governance
//
// Each group carries an AllowPowerUserEdit flag (default true). It modulates
// whether power users may edit existing recipes; the flag is read by
// pkg/authz, never interpreted here.
package groups
