// Package platform holds the filesystem guards shared by every component that
// writes or deletes inside a project: the path containment check and the
// best-effort executable-bit helper.
package platform
