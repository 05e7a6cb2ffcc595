// Package domain contains the core business entities of the spaced-repetition
// service: users, notes, cards, relations between notes, and the immutable
// review history. Entities carry their own validation; persistence and
// transport concerns live in other packages.
package domain
