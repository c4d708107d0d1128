package manifest

import (
	"sort"
	"time"
)

// HashLength is the number of hex characters of the SHA-256 digest kept per file.
const HashLength = 12

// Manifest is the persisted record of a successful sync.
type Manifest struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Version     string    `json:"version"`
	RepoName    string    `json:"repoName"`
	Files       Files     `json:"files"`
}

// FileEntry is the fingerprint of one generated file.
type FileEntry struct {
	Hash string `json:"hash"`
}

// Files maps forward-slash paths, relative to the project root, to fingerprints.
type Files map[string]FileEntry

// Summary counts files per category.
type Summary map[string]int

// Paths returns the tracked paths in sorted order.
func (f Files) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Has reports whether path is tracked.
func (f Files) Has(path string) bool {
	_, ok := f[path]
	return ok
}

// Categories returns the summary's category names in sorted order.
func (s Summary) Categories() []string {
	cats := make([]string, 0, len(s))
	for c := range s {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Total returns the number of files across all categories.
func (s Summary) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Summarize tallies files by category.
func Summarize(files Files) Summary {
	summary := make(Summary)
	for path := range files {
		summary[Categorize(path)]++
	}
	return summary
}
