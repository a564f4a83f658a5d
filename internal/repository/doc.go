// Package repository implements SurrealQL data access for the Gatherly
// engine.
//
// Each repository owns the queries for one aggregate: groups (with
// memberships and join requests), events (with their RSVP ledger), polls
// (with their options and voter sets), and messages. Writes that guard an
// invariant — the capacity cap on RSVPs, the one-ballot-per-voter rule,
// group creation with its owner membership — execute as single SurrealQL
// transactions so concurrent callers cannot interleave between the check
// and the write.
package repository
