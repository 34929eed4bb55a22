package source

import (
	"net/url"
	"strings"
)

const repoPathSegments = 2 // owner + repository

// RepositoryRoot normalizes a repository-ish URL down to its repository
// root. Trailing sub-path segments are stripped, so a URL pointing at an
// issue tracker or bug page still resolves to the repository itself:
//
//	https://github.com/org/repo/issues  -> https://github.com/org/repo
//	git+https://github.com/org/repo.git -> https://github.com/org/repo
//	git@github.com:org/repo.git         -> https://github.com/org/repo
//
// Returns the empty string when the URL cannot be parsed.
func RepositoryRoot(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "git+")
	cleaned = strings.Replace(cleaned, "git://", "https://", 1)
	cleaned = strings.Replace(cleaned, "ssh://git@", "https://", 1)

	// scp-style remotes: git@host:owner/repo.git
	if strings.HasPrefix(cleaned, "git@") {
		cleaned = "https://" + strings.Replace(strings.TrimPrefix(cleaned, "git@"), ":", "/", 1)
	}

	parsed, err := url.Parse(cleaned)
	if err != nil || parsed.Host == "" {
		return ""
	}

	scheme := parsed.Scheme
	if scheme != "http" {
		scheme = "https"
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < repoPathSegments || segments[0] == "" {
		return ""
	}
	owner := segments[0]
	repo := strings.TrimSuffix(segments[1], ".git")
	if repo == "" {
		return ""
	}

	return scheme + "://" + parsed.Host + "/" + owner + "/" + repo
}

// SplitOwnerRepo extracts the owner and repository name from a
// repository-ish URL. ok is false when the URL has no owner/repo shape.
func SplitOwnerRepo(raw string) (owner, repo string, ok bool) {
	root := RepositoryRoot(raw)
	if root == "" {
		return "", "", false
	}

	parsed, err := url.Parse(root)
	if err != nil {
		return "", "", false
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) != repoPathSegments {
		return "", "", false
	}
	return segments[0], segments[1], true
}

// IsGitHub reports whether the URL points at github.com.
func IsGitHub(raw string) bool {
	root := RepositoryRoot(raw)
	if root == "" {
		return false
	}
	parsed, err := url.Parse(root)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(parsed.Host, "www.")
	return host == "github.com"
}
