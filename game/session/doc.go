// Package session provides in-memory storage for Battleship matches.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short unique match IDs
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager stores service.Session values keyed by ID. IDs are matched
// case-insensitively and are the first eight characters of a random UUID
// unless the caller supplies one.
//
// Concurrency:
//
// The manager guards its map with a read-write mutex. Each session carries
// its own lock for match state; the manager takes a session lock only to
// read or update its access time, and never while the caller holds it.
//
// Usage:
//
//	manager := session.NewManager(session.WithLogger(logger))
//
//	sess, err := manager.Create("", match, config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Cleanup:
//
// Timestamps come from a quartz.Clock so expiry is testable with a mock
// clock. CleanupExpiredSessions removes sessions idle for longer than the
// given age; StartCleanup runs it on a clock ticker until its context ends.
// Sessions are never written to disk.
package session
