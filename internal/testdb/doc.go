//go:build integration

// Package testdb provides helpers for PostgreSQL integration tests.
//
// Tests run inside a transaction that is rolled back when the test ends, so
// they can run in parallel against one database without cleanup:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        ...
//	    })
//	}
//
// The connection string comes from DATABASE_URL, falling back to
// ACCTSVC_DATABASE_URL. Tests are skipped when neither is set.
package testdb
