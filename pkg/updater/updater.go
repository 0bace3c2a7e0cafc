// Package updater checks GitHub for newer tlv releases.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/version"
)

// ReleasesURL is the GitHub endpoint for the latest release.
const ReleasesURL = "https://api.github.com/repos/Dicklesworthstone/timeline_viewer/releases/latest"

// Release is the subset of the GitHub release payload tlv reads.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a releases endpoint.
type Checker struct {
	client  *http.Client
	url     string
	current string
}

// NewChecker creates a checker against the public releases endpoint with a
// short timeout so startup is never held up for long.
func NewChecker() *Checker {
	return &Checker{
		client:  &http.Client{Timeout: 2 * time.Second},
		url:     ReleasesURL,
		current: version.Version,
	}
}

// Check returns the latest release when it is newer than the running
// version. Rate-limit responses are treated as "no update".
func (c *Checker) Check(ctx context.Context) (Release, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Release{}, false, err
	}
	// GitHub rejects some requests without a UA.
	req.Header.Set("User-Agent", "tlv-update-check")
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Release{}, false, fmt.Errorf("query releases: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusTooManyRequests:
		return Release{}, false, nil
	default:
		return Release{}, false, fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return Release{}, false, fmt.Errorf("decode release: %w", err)
	}
	if Newer(rel.TagName, c.current) {
		return rel, true, nil
	}
	return Release{}, false, nil
}

// Newer reports whether candidate is a later version than current.
func Newer(candidate, current string) bool {
	return compareVersions(candidate, current) > 0
}

type semver struct {
	core [3]int
	pre  string // empty for releases
}

func parseSemver(v string) (semver, bool) {
	var s semver
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexByte(v, '-'); i >= 0 {
		s.pre = v[i+1:]
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	if len(parts) == 0 || len(parts) > 3 {
		return s, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return s, false
		}
		s.core[i] = n
	}
	return s, true
}

// compareVersions returns 1, 0 or -1. A pre-release sorts below its
// release; unparseable input falls back to string comparison.
func compareVersions(a, b string) int {
	pa, okA := parseSemver(a)
	pb, okB := parseSemver(b)
	if !okA || !okB {
		return strings.Compare(strings.TrimPrefix(a, "v"), strings.TrimPrefix(b, "v"))
	}

	for i := range pa.core {
		if pa.core[i] != pb.core[i] {
			if pa.core[i] > pb.core[i] {
				return 1
			}
			return -1
		}
	}
	switch {
	case pa.pre == pb.pre:
		return 0
	case pa.pre == "":
		return 1
	case pb.pre == "":
		return -1
	}
	return strings.Compare(pa.pre, pb.pre)
}
