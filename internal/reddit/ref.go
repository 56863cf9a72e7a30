package reddit

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var postIDPattern = regexp.MustCompile(`^[a-z0-9]{1,12}$`)

// ParsePostID extracts the base-36 post id from a bare id, a "t3_" fullname,
// a reddit.com permalink or a redd.it short link.
func ParsePostID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty post reference")
	}

	if !strings.Contains(ref, "/") {
		id := strings.TrimPrefix(strings.ToLower(ref), "t3_")
		if !postIDPattern.MatchString(id) {
			return "", fmt.Errorf("invalid post id %q", ref)
		}
		return id, nil
	}

	if !strings.Contains(ref, "://") {
		ref = "https://" + ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid post URL %q: %w", ref, err)
	}

	parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))

	var id string
	switch {
	case host == "redd.it" && len(parts) > 0:
		id = parts[0]
	default:
		for i, p := range parts {
			if p == "comments" && i+1 < len(parts) {
				id = parts[i+1]
				break
			}
		}
	}

	id = strings.ToLower(id)
	if !postIDPattern.MatchString(id) {
		return "", fmt.Errorf("no post id in %q", ref)
	}
	return id, nil
}
