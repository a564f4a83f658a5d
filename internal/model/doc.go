// Package model defines the canonical entities of the Gatherly engine and
// the request/response shapes exchanged with clients.
//
// One shape per entity: groups own their memberships and join requests,
// events reference their group by id only (the group's event list is a
// query-time view), and a poll's ballots live inside its options as voter
// sets. Derived values (attendee counts, spots left, total votes) are
// computed, never stored.
package model
