// Package session provides cookie- and header-based HTTP sessions backed by
// a pluggable store (in-memory or Redis).
//
// Sessions are deliberately thin: the only user-related state a session
// carries is the user id. Role, organization and module assignments are
// resolved fresh on every request by the identity resolver, which is what
// makes privilege changes take effect immediately instead of at next login.
//
// Typical wiring:
//
//	store := session.NewRedisStore(redisClient)
//	sessions := session.New(
//		session.WithStore(store),
//		session.WithConfig(cfg),
//	)
//	r.Use(sessions.Middleware)
//
// Authenticate rotates the token on login to prevent session fixation;
// ClearUser detaches a user whose account no longer qualifies without
// destroying the anonymous session underneath.
package session
