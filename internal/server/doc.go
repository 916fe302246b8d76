// Package server exposes the roster service over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /roster/{id}").
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Roster API
//
// [RosterHandler] serves:
//
//	GET    /roster                    card list (search, state, limit, offset)
//	GET    /roster/cards              same as GET /roster
//	POST   /roster                    create a member
//	GET    /roster/{id}               member detail with available actions
//	POST   /roster/{id}               partial update (PATCH also accepted)
//	DELETE /roster/{id}               soft delete
//	POST   /roster/{id}/invite        send a portal invitation
//	GET    /roster/invitations/accept redeem ?token= and redirect
//
// Requests are attributed to the user named by the X-User-ID header. X-Team-ID selects the team;
// without it the user's earliest team is used. Errors are returned as {"error": "..."} with a status
// chosen by [StatusFor].
package server
