package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/synapse-srs/synapse-api/internal/store"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ownedTable describes a table whose rows belong to exactly one user.
// All point reads and writes on such rows go through its methods so the
// owner filter and the not-found policy live in one place.
type ownedTable struct {
	// name is the table name, optionally with an alias ("relations r").
	name string
	// alias prefixes id and user_id in WHERE clauses; empty for no alias.
	alias string
	// notFound is returned when no row matches both id and owner.
	notFound error
}

var (
	notesTable     = ownedTable{name: "notes", notFound: store.ErrNoteNotFound}
	cardsTable     = ownedTable{name: "cards", notFound: store.ErrCardNotFound}
	relationsTable = ownedTable{name: "relations r", alias: "r.", notFound: store.ErrRelationNotFound}
)

// ownerFilter is the WHERE clause binding $1 to the row ID and $2 to the owner.
func (t ownedTable) ownerFilter() string {
	return fmt.Sprintf("%sid = $1 AND %suser_id = $2", t.alias, t.alias)
}

// get selects columns from the row identified by id and owned by userID.
// suffix is appended verbatim, e.g. "FOR UPDATE".
func (t ownedTable) get(
	ctx context.Context,
	db store.DBTX,
	columns string,
	id, userID int64,
	suffix string,
	scan func(rowScanner) error,
) error {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s %s", columns, t.name, t.ownerFilter(), suffix)
	return t.scanOne(db.QueryRowContext(ctx, query, id, userID), scan)
}

// update runs "UPDATE ... SET set WHERE owner filter RETURNING returning".
// Placeholders in set start at $3; args supplies their values.
func (t ownedTable) update(
	ctx context.Context,
	db store.DBTX,
	set string,
	returning string,
	id, userID int64,
	scan func(rowScanner) error,
	args ...any,
) error {
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING %s", t.name, set, t.ownerFilter(), returning)
	params := append([]any{id, userID}, args...)
	return t.scanOne(db.QueryRowContext(ctx, query, params...), scan)
}

// delete removes the row and scans the returned columns.
func (t ownedTable) delete(
	ctx context.Context,
	db store.DBTX,
	returning string,
	id, userID int64,
	scan func(rowScanner) error,
) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s RETURNING %s", t.name, t.ownerFilter(), returning)
	return t.scanOne(db.QueryRowContext(ctx, query, id, userID), scan)
}

func (t ownedTable) scanOne(row *sql.Row, scan func(rowScanner) error) error {
	err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t.notFound
	}
	if err != nil {
		return MapError(err)
	}
	return nil
}

// queryAll runs query and calls scan once per row.
func queryAll(ctx context.Context, db store.DBTX, query string, scan func(rowScanner) error, args ...any) error {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return MapError(err)
		}
	}
	return MapError(rows.Err())
}
