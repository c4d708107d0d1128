package platform

import (
	"path/filepath"
	"strings"
)

// IsContained reports whether dest lies inside root once both are made
// absolute and cleaned. dest equal to root counts as contained. Callers must
// evaluate it per destination; results are never cached.
func IsContained(root, dest string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return false
	}

	if absDest == absRoot {
		return true
	}

	prefix := absRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(absDest, prefix)
}

// ResolveUnder joins a forward-slash relative path onto root and reports
// whether the result stays inside root. Absolute rel values are taken as-is,
// so they only pass when they already point inside root.
func ResolveUnder(root, rel string) (string, bool) {
	native := filepath.FromSlash(rel)
	var dest string
	if filepath.IsAbs(native) {
		dest = filepath.Clean(native)
	} else {
		dest = filepath.Join(root, native)
	}
	return dest, IsContained(root, dest)
}
