// Package syncer moves a rendered staging tree into a project. It classifies
// every staged file against the live project, reports what would change
// (dry-run and diff modes), and applies the copy with per-file failure
// collection, stale-file cleanup driven by the previous manifest, and
// manifest persistence. Every write or delete is checked against the project
// root first.
package syncer
