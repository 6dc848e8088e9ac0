// Package fetcher downloads issues and pull requests from the GitHub REST API.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v72/github"

	"issuefeed/internal/model"
)

const userAgent = "issuefeed/1.0.0"

// Options configures a Fetcher.
type Options struct {
	// Token is sent as a bearer token when set.
	Token string
	// BaseURL overrides the API root, e.g. for GitHub Enterprise.
	BaseURL string
	// MaxItems caps the number of issues returned per repository.
	MaxItems int
	// PageSize is the number of issues requested per page (at most 100).
	PageSize int
}

// Fetcher lists the issues of a repository, newest first.
type Fetcher struct {
	client   *github.Client
	maxItems int
	pageSize int
}

// New creates a Fetcher that sends requests through the given HTTP client.
func New(httpClient *http.Client, opts Options) (*Fetcher, error) {
	client := github.NewClient(httpClient)
	client.UserAgent = userAgent
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse api base url: %w", err)
		}
		client.BaseURL = u
	}

	f := &Fetcher{client: client, maxItems: opts.MaxItems, pageSize: opts.PageSize}
	if f.maxItems <= 0 {
		f.maxItems = 200
	}
	if f.pageSize <= 0 || f.pageSize > 100 {
		f.pageSize = 100
	}
	return f, nil
}

// Fetch returns up to MaxItems issues and pull requests of repo in every state,
// sorted by creation date descending. It follows the next-page link advertised
// by the API until there is none or the cap is reached. Any failed page fails
// the whole fetch.
func (f *Fetcher) Fetch(ctx context.Context, repo model.Repository) ([]model.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:     "all",
		Sort:      "created",
		Direction: "desc",
		ListOptions: github.ListOptions{
			Page:    1,
			PerPage: f.pageSize,
		},
	}

	issues := make([]model.Issue, 0, min(f.maxItems, 2*f.pageSize))
	for {
		page, resp, err := f.client.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", repo, opts.ListOptions.Page, err)
		}

		for _, gi := range page {
			issues = append(issues, toIssue(gi))
			if len(issues) == f.maxItems {
				return issues, nil
			}
		}

		if resp == nil || resp.NextPage == 0 {
			return issues, nil
		}
		opts.ListOptions.Page = resp.NextPage
	}
}

func toIssue(gi *github.Issue) model.Issue {
	issue := model.Issue{
		CreatedAt:     gi.GetCreatedAt().Time,
		Title:         gi.GetTitle(),
		Body:          gi.GetBody(),
		HTMLURL:       gi.GetHTMLURL(),
		IsPullRequest: gi.IsPullRequest(),
	}
	for _, l := range gi.Labels {
		if name := l.GetName(); name != "" {
			issue.Labels = append(issue.Labels, name)
		}
	}
	if u := gi.GetUser(); u != nil {
		issue.User = &model.User{
			Login:   u.GetLogin(),
			Email:   u.GetEmail(),
			HTMLURL: u.GetHTMLURL(),
		}
	}
	return issue
}
