package client

import (
	"strings"

	"github.com/tomnomnom/linkheader"
)

// ParseNextLink returns the target of the rel="next" entry of an RFC 8288
// Link header, as sent by paginated REST APIs:
//
//	<https://api.github.com/user/repos?page=3>; rel="next", <...>; rel="last"
//
// It returns "" when there is no next page.
func ParseNextLink(header string) string {
	if header == "" {
		return ""
	}
	for _, l := range linkheader.Parse(header) {
		if l.URL == "" {
			continue
		}
		for _, rel := range strings.Fields(l.Rel) {
			if strings.EqualFold(rel, "next") {
				return l.URL
			}
		}
	}
	return ""
}
