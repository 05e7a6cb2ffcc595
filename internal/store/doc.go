// Package store defines the persistence interfaces for users, notes, cards,
// relations and review history, together with the transaction helper and
// the sentinel errors every implementation maps its failures onto.
//
// Every read and write on an owned entity is scoped by the owner's user ID.
// An entity that exists but belongs to another user is reported exactly like
// one that does not exist.
package store
