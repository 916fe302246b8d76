// Package invitations implements single-use invitation links shared by every invitation type.
//
// A [Service] issues links ([Service.GenerateLink]) and redeems them ([Service.Accept]). The
// per-type behavior (which role the invitee receives, what context is required, what happens
// after acceptance) lives in a [Handler] looked up through a [Registry]:
//   - [TeamMemberHandler] : plain team membership with the member role
//   - [RosterHandler] : portal access for a roster member, linking the new account to the roster record
//
// Only the SHA-256 hash of a token is stored; the plaintext token appears once, in the link.
package invitations
