package catalog

import "strings"

// Normalize canonicalizes a catalog-relative path: backslashes become forward
// slashes, leading/trailing slashes are stripped, and empty, "." and ".."
// segments are dropped. ".." is filtered out, not resolved against its parent,
// matching the server's validation rule. The empty string denotes the root.
func Normalize(p string) string {
	raw := strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	parts := strings.Split(raw, "/")
	kept := parts[:0]
	for _, seg := range parts {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		kept = append(kept, seg)
	}
	return strings.Join(kept, "/")
}

// Basename returns the final segment of a normalized path, or "" for root.
func Basename(p string) string {
	p = Normalize(p)
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// ParentDir returns the directory containing p, "" when p sits at the root.
func ParentDir(p string) string {
	p = Normalize(p)
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

// AncestorChain lists every directory from the root down to path, root first.
// The root ("") is always the first element; for "a/b" the chain is
// ["", "a", "a/b"].
func AncestorChain(path string) []string {
	path = Normalize(path)
	chain := []string{""}
	if path == "" {
		return chain
	}
	segs := strings.Split(path, "/")
	for i := range segs {
		chain = append(chain, strings.Join(segs[:i+1], "/"))
	}
	return chain
}
