// Package testdb provides helpers for tests that need a real PostgreSQL database.
//
// Tests run inside a transaction that is rolled back when the test function
// returns, so they can share one database and run in parallel:
//
//	func TestNoteStore(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        store := postgres.NewPostgresNoteStore(tx, nil)
//	        // ...
//	    })
//	}
//
// GetTestDBWithT skips the calling test when DATABASE_URL is not set.
package testdb
