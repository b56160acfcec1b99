// Package database provides SQLite-based session history for scamscan.
//
// HistoryDB records every classification made during a session so that the
// CLI and the TUI can show a summary at the end. It uses modernc.org/sqlite
// (CGO-free) opened as an in-memory database: results never outlive the
// process and nothing is written to disk.
package database
