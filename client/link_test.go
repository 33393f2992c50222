package client

import "testing"

func TestParseNextLink(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{`<https://api.github.com/user/repos?page=3&per_page=100>; rel="next", <https://api.github.com/user/repos?page=50&per_page=100>; rel="last"`,
			"https://api.github.com/user/repos?page=3&per_page=100"},
		{`<https://api.github.com/user/repos?page=1>; rel="prev", <https://api.github.com/user/repos?page=1>; rel="first"`, ""},
		{`<https://example.com/items?cursor=abc>;rel=next`, "https://example.com/items?cursor=abc"},
		{`<https://example.com/items?page=2>; rel="next last"`, "https://example.com/items?page=2"},
		{`<https://example.com/items?page=2>; title="x"; rel="Next"`, "https://example.com/items?page=2"},
		{`<https://example.com/items?page=9>; rel="last",  <https://example.com/items?page=2>; rel="next"`, "https://example.com/items?page=2"},
		{`https://example.com/items?page=2; rel="next"`, ""},
		{`<https://example.com/items?page=2>`, ""},
	}

	for _, tt := range tests {
		if got := ParseNextLink(tt.header); got != tt.want {
			t.Errorf("ParseNextLink(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
