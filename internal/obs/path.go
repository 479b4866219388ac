package obs

import "strings"

// CanonicalPath normalizes a request path for use as a metric label. Query
// strings are stripped and unknown paths are truncated to two segments to keep
// label cardinality bounded.
func CanonicalPath(path string) string {
	if path == "" {
		return "/"
	}
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		path = path[:idx]
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) > 2 {
		return "/" + segments[0] + "/" + segments[1]
	}
	return path
}
