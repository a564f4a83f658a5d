// Package database provides the database abstraction layer for Gatherly.
//
// This package defines the Database interface that abstracts SurrealDB
// operations, allowing for clean separation between business logic and data
// access.
//
// # Interface Design
//
// The Database interface provides three query methods:
//   - Query: Returns multiple results (for SELECT queries returning lists)
//   - QueryOne: Returns a single result (for SELECT by ID)
//   - Execute: No return value (for CREATE/UPDATE/DELETE mutations)
//
// # Atomic Writes
//
// Multi-statement writes that must succeed or fail together (group plus
// owner membership, ballot moves, capacity-guarded RSVP upserts) go through
// AtomicBatch. Statements accumulate in memory and are wrapped in
// BEGIN TRANSACTION / COMMIT TRANSACTION at Execute time, so SurrealDB
// applies them as one unit. A THROW inside any statement aborts the whole
// batch. See transaction.go.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Unique constraint violation
//   - ErrConnection: Database connection issues
//   - ErrQuery: Query execution failures
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
package database
