package auth

// permissionTable is the static (role, capability) matrix. Every pair over
// AllRoles x AllCapabilities must be listed explicitly; TestRegistryIsTotal
// fails the build's test run if a pair is missing. Group-level overrides
// (governance flag, draft ownership, last-admin invariant) live in pkg/authz
// and are applied after this table.
var permissionTable = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapabilityRecipeCreate:        true,
		CapabilityRecipeRead:          true,
		CapabilityRecipeUpdate:        true,
		CapabilityRecipeDelete:        true,
		CapabilityCategoryCreate:      true,
		CapabilityCategoryRead:        true,
		CapabilityCategoryUpdate:      true,
		CapabilityCategoryDelete:      true,
		CapabilityTagCreate:           true,
		CapabilityTagRead:             true,
		CapabilityTagUpdate:           true,
		CapabilityTagDelete:           true,
		CapabilityGroupManageMembers:  true,
		CapabilityGroupManageSettings: true,
		CapabilityCommentCreate:       true,
		CapabilityCommentUpdateOwn:    true,
		CapabilityCommentUpdateAny:    true,
		CapabilityCommentDeleteOwn:    true,
		CapabilityCommentDeleteAny:    true,
		CapabilityFavoriteManage:      true,
		CapabilityRecipeImport:        true,
	},
	RolePowerUser: {
		CapabilityRecipeCreate:        true,
		CapabilityRecipeRead:          true,
		CapabilityRecipeUpdate:        true, // gated further by group governance, see authz.CanEditRecipe
		CapabilityRecipeDelete:        false,
		CapabilityCategoryCreate:      true,
		CapabilityCategoryRead:        true,
		CapabilityCategoryUpdate:      true,
		CapabilityCategoryDelete:      false,
		CapabilityTagCreate:           true,
		CapabilityTagRead:             true,
		CapabilityTagUpdate:           true,
		CapabilityTagDelete:           false,
		CapabilityGroupManageMembers:  false,
		CapabilityGroupManageSettings: false,
		CapabilityCommentCreate:       true,
		CapabilityCommentUpdateOwn:    true,
		CapabilityCommentUpdateAny:    false,
		CapabilityCommentDeleteOwn:    true,
		CapabilityCommentDeleteAny:    false,
		CapabilityFavoriteManage:      true,
		CapabilityRecipeImport:        true,
	},
	RoleReadOnly: {
		CapabilityRecipeCreate:        false,
		CapabilityRecipeRead:          true,
		CapabilityRecipeUpdate:        false,
		CapabilityRecipeDelete:        false,
		CapabilityCategoryCreate:      false,
		CapabilityCategoryRead:        true,
		CapabilityCategoryUpdate:      false,
		CapabilityCategoryDelete:      false,
		CapabilityTagCreate:           false,
		CapabilityTagRead:             true,
		CapabilityTagUpdate:           false,
		CapabilityTagDelete:           false,
		CapabilityGroupManageMembers:  false,
		CapabilityGroupManageSettings: false,
		CapabilityCommentCreate:       true,
		CapabilityCommentUpdateOwn:    true,
		CapabilityCommentUpdateAny:    false,
		CapabilityCommentDeleteOwn:    true,
		CapabilityCommentDeleteAny:    false,
		CapabilityFavoriteManage:      true,
		CapabilityRecipeImport:        false,
	},
}

// HasPermission reports whether the role grants the capability. It is a pure
// lookup into the static table: no store access, no error cases. Values
// outside the defined enums are denied.
func HasPermission(role Role, capability Capability) bool {
	caps, ok := permissionTable[role]
	if !ok {
		return false
	}
	allowed, ok := caps[capability]
	if !ok {
		return false
	}
	return allowed
}
