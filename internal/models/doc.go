// Package models defines domain entities and persistence interfaces for the roster service.
//
// All persistent entities embed a record that carries the ID, sequence, timestamps and soft delete
// marker, and implement the [Model] interface:
//   - [Roster] : Talent/influencer roster members with contact details, address and social handles
//   - [User] : Accounts that can log in, created or linked when an invitation is accepted
//   - [Role] : A user's role level within a team
//   - [Invitation] : Hashed invitation tokens with type-specific context
//
// The Repository[T] interface defines standard CRUD operations for database access.
package models
