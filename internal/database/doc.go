// Package database provides SQLite-based hit history storage.
//
// Every persisting hit is recorded with the username, site, and URL it
// was found at, so repeated scans build a history of where an identity
// appears over time.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
