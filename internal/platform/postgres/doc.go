// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx stdlib driver.
//
// Every query on an owned entity binds both the row ID and the owner's user
// ID; the scoped-query helpers in scoped.go turn "no row" into the entity's
// NotFound error so ownership mismatches look exactly like missing rows.
// Schema migrations live in the migrations subpackage.
package postgres
