// Package scaffold decides which generated files are project-owned scaffolds.
// A scaffold is written on the first sync only; later syncs leave an existing
// copy alone unless the caller asks to overwrite it.
package scaffold
