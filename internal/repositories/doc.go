// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// Users and roster members support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [UserRepository] : User account persistence with email-based lookups
//   - [RoleRepository] : Per-team role levels, upserted on invitation acceptance
//   - [RosterRepository] : Roster members with inline address and social handles
//   - [InvitationRepository] : Hashed invitation tokens and the pending-invitation lookups
//
// Sequence numbers provide stable, human-readable ordering (e.g., user #42, roster #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
//
// Lookups that find nothing return errors wrapping [shared.ErrNotFound].
package repositories
