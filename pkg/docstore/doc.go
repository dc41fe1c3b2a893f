// Package docstore is a crash-safe, schema-validated JSON collection store.
//
// It is intentionally designed to keep a single pretty-printed JSON file as
// the source of truth (git-friendly, human-readable diffs) and treat the
// rolling backups next to it as derived, throwaway snapshots.
//
// Every mutation rewrites the whole file through a temp-file-plus-rename
// protocol, so readers never observe a partially written collection: a crash
// before the rename leaves the previous file intact, a crash after leaves
// the new one intact. Before each write the current file is copied into a
// timestamped backup, and the backup directory is pruned to the newest N
// snapshots.
//
// A Store serializes its own read-modify-write sequences with an internal
// mutex, so a single instance is safe for concurrent use within one
// process. Nothing coordinates separate processes writing the same file;
// deployments with multiple writers need external locking.
package docstore
