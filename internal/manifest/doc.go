// Package manifest records which files a sync generated. It hashes a staging
// tree into a path→hash map, tallies files per output category, and loads and
// saves the JSON manifest kept in the engine install directory. A previous
// manifest that fails to parse or to validate against the embedded JSON
// schema is reported as ErrCorrupt.
package manifest
