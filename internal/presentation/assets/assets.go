// Package assets resolves persona image references for display.
package assets

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Placeholder is shown whenever a persona image cannot be resolved.
const Placeholder = "https://placehold.co/256x256?text=Dreamboard"

// Resolve returns ref when it points at something displayable and Placeholder otherwise.
// Remote references must be absolute http(s) URLs; anything else is treated as a local
// path, relative to baseDir, and must exist.
func Resolve(ref, baseDir string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Placeholder
	}

	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return Placeholder
		}
		return ref
	}

	path := ref
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return Placeholder
	}
	return path
}
