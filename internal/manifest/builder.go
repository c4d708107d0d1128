package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Hash returns the stored fingerprint of content: the first HashLength hex
// characters of its SHA-256 digest.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])[:HashLength]
}

// Walk lists every regular file under root as a forward-slash relative path,
// in lexical walk order. A missing root yields no files.
func Walk(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return paths, nil
}

// Compute hashes every regular file under stagingRoot and tallies them by
// category. Files that vanish between the walk and the read are skipped.
func Compute(stagingRoot string) (Files, Summary, error) {
	paths, err := Walk(stagingRoot)
	if err != nil {
		return nil, nil, err
	}

	files := make(Files, len(paths))
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(stagingRoot, filepath.FromSlash(rel)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		files[rel] = FileEntry{Hash: Hash(data)}
	}

	return files, Summarize(files), nil
}
