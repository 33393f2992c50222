// Package github is a small GitHub REST client whose GET requests are
// revalidated through the conditional cache.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/briangreenhill/apicache/client"
)

const DefaultBaseURL = "https://api.github.com"

type Client struct {
	baseURL *url.URL
	http    *client.Client
}

type Option func(*Client) error

func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("base url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base url %q must be absolute", raw)
		}
		c.baseURL = u
		return nil
	}
}

// WithConditional sets the conditional client used for every request.
func WithConditional(cc *client.Client) Option {
	return func(c *Client) error {
		if cc == nil {
			return errors.New("conditional client required")
		}
		c.http = cc
		return nil
	}
}

func New(opts ...Option) (*Client, error) {
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		baseURL: u,
		http: client.New(
			client.WithHeader("Accept", "application/vnd.github+json"),
		),
	}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) endpoint(p string, q url.Values) string {
	u := *c.baseURL
	u.Path = path.Join(u.Path, p)
	u.RawQuery = q.Encode()
	return u.String()
}

// GetUser returns the public profile of login.
func (c *Client) GetUser(ctx context.Context, login string) (*User, error) {
	if strings.TrimSpace(login) == "" {
		return nil, errors.New("login required")
	}
	var u User
	if _, err := c.http.GetJSON(ctx, c.endpoint("/users/"+login, nil), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUserRepos returns every public repository of login, following
// pagination. perPage <= 0 leaves the page size to the server.
func (c *Client) ListUserRepos(ctx context.Context, login string, perPage int) ([]Repo, error) {
	if strings.TrimSpace(login) == "" {
		return nil, errors.New("login required")
	}
	q := url.Values{}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}

	var all []Repo
	err := c.http.Each(ctx, c.endpoint("/users/"+login+"/repos", q), func(r *client.Response) error {
		var page []Repo
		if err := json.Unmarshal(r.Body, &page); err != nil {
			return fmt.Errorf("decode repos: %w", err)
		}
		all = append(all, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}
