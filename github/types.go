package github

// Only the fields the CLI and tests use; the API returns many more.
type User struct {
	ID          int64  `json:"id"`
	Login       string `json:"login"`
	Name        string `json:"name"`
	PublicRepos int    `json:"public_repos"`
	HTMLURL     string `json:"html_url"`
}

type Repo struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	FullName        string  `json:"full_name"`
	Description     *string `json:"description"` // null when unset
	Private         bool    `json:"private"`
	Fork            bool    `json:"fork"`
	HTMLURL         string  `json:"html_url"`
	StargazersCount int     `json:"stargazers_count"`
	UpdatedAt       string  `json:"updated_at"`
}
