// Package auth provides authentication and authorization middleware for the
// web application.
//
// The session middleware validates the session cookie on every request and
// stores the session data in fiber.Locals for downstream handlers. Requests
// to public paths (login, registration, health and metrics endpoints) pass
// through untouched; everything else requires a valid session.
//
// RequirePermission builds per-route authorization middleware on top of the
// static role permission table:
//
//	router.Post("/", authmiddleware.RequirePermission(auth.ActionCreate, auth.ResourceSystem), s.Post)
//
// Authentication failures answer 401, authorization failures 403. Handlers
// behind RequirePermission can assume CurrentSession returns a session.
package auth
