// Package recipes manages recipes and their group-scoped taxonomy
// (categories and tags), plus per-user favorites.
//
// # Lifecycle
//
// A recipe is either a draft or published. Manual authoring creates a
// published recipe; the import pipeline creates drafts. The only supported
// transition is draft -> published, performed by the recipe's creator;
// published recipes never return to draft. Drafts may instead be discarded
// (hard-deleted) by their creator.
//
// Draft visibility (drafts are invisible to everyone but their creator, group
// admins included) is an authorization rule and is enforced by pkg/authz, not
// here. This package enforces only the transition graph itself.
package recipes
