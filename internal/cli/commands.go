package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/briangreenhill/apicache/cache"
	"github.com/briangreenhill/apicache/client"
	"github.com/briangreenhill/apicache/github"
)

func newPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path <uri>",
		Short: "Print the cache files used for a URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.backend()
			if err != nil {
				return err
			}
			fb, ok := b.(*cache.FileBackend)
			if !ok {
				return fmt.Errorf("caching is disabled")
			}
			for _, ext := range []string{cache.ExtBody, cache.ExtETag, cache.ExtNextLink} {
				p, err := fb.Path(args[0], ext)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, p)
			}
			return nil
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <uri>",
		Short: "GET a URI, revalidating any cached copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.backend()
			if err != nil {
				return err
			}
			c := client.New(client.WithCache(b), client.WithLogger(a.log))
			resp, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.log.Info().
				Str("uri", args[0]).
				Bool("from_cache", resp.FromCache).
				Str("etag", resp.ETag).
				Str("next", resp.NextLink).
				Msg("done")
			_, err = a.out.Write(resp.Body)
			return err
		},
	}
}

func newReposCmd(a *app) *cobra.Command {
	var perPage int
	cmd := &cobra.Command{
		Use:   "repos <login>",
		Short: "List a GitHub user's public repositories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.backend()
			if err != nil {
				return err
			}
			cc := client.New(
				client.WithCache(b),
				client.WithLogger(a.log),
				client.WithHeader("Accept", "application/vnd.github+json"),
			)
			gh, err := github.New(github.WithBaseURL(a.cfg.GitHub.BaseURL), github.WithConditional(cc))
			if err != nil {
				return err
			}
			repos, err := gh.ListUserRepos(cmd.Context(), args[0], perPage)
			if err != nil {
				return err
			}
			for _, r := range repos {
				fmt.Fprintln(a.out, r.FullName)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&perPage, "per-page", 100, "page size requested from GitHub")
	return cmd
}
