package urlnorm

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalize canonicalizes an item URL for identity comparison by
// stripping any fragment suffix. Navigating within an item's comment
// anchors must never create duplicate or mismatched records, so every
// comparison and every store write goes through this first.
// Normalize is idempotent.
func Normalize(url string) string {
	if i := strings.IndexByte(url, '#'); i >= 0 {
		return url[:i]
	}
	return url
}

// Same reports whether two URLs identify the same item after
// normalization.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// RepoFullName extracts the "<owner>/<repo>" pair from a GitHub item URL
// such as https://github.com/owner/repo/issues/42. It returns "" when the
// URL does not carry at least an owner and repo path segment.
func RepoFullName(url string) string {
	u := Normalize(url)

	// Drop the scheme and host.
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	parts := strings.Split(u, "/")
	if len(parts) < 3 || parts[1] == "" || parts[2] == "" {
		return ""
	}
	return parts[1] + "/" + parts[2]
}

// ItemRef extracts the owner, repository and item number from a GitHub
// item URL such as https://github.com/owner/repo/pull/42. The URL is
// normalized first, so comment-anchor variants resolve to the same ref.
func ItemRef(url string) (owner, repo string, number int, err error) {
	u := Normalize(url)

	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	parts := strings.Split(u, "/")
	if len(parts) < 5 || parts[1] == "" || parts[2] == "" {
		return "", "", 0, fmt.Errorf("not an item URL: %s", url)
	}
	n, err := strconv.Atoi(parts[4])
	if err != nil {
		return "", "", 0, fmt.Errorf("not an item URL: %s", url)
	}
	return parts[1], parts[2], n, nil
}
