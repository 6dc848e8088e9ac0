// Package feed turns a repository's issues into syndication feeds.
package feed

import (
	"fmt"
	"time"

	"issuefeed/internal/markdown"
	"issuefeed/internal/model"
	"issuefeed/internal/sanitize"
)

// TTL is how long readers may cache a generated feed.
const TTL = time.Hour

// Builder assembles the issues and pull request feeds of a repository.
type Builder struct {
	renderer     *markdown.Renderer
	generatorURL string
	author       model.Person
}

// NewBuilder creates a Builder. generatorURL is mentioned in every feed
// description and author is the feed-level identity of the site operator.
func NewBuilder(renderer *markdown.Renderer, generatorURL string, author model.Person) *Builder {
	return &Builder{
		renderer:     renderer,
		generatorURL: generatorURL,
		author:       author,
	}
}

// Build partitions issues into the issues feed and the pull requests feed,
// in that order. Items keep the order of issues.
func (b *Builder) Build(repo model.Repository, issues []model.Issue) []model.FeedData {
	var issueItems, prItems []model.FeedItem
	for _, issue := range issues {
		item := b.Item(issue)
		if issue.IsPullRequest {
			prItems = append(prItems, item)
		} else {
			issueItems = append(issueItems, item)
		}
	}

	return []model.FeedData{
		{
			Feed: b.newFeed(repo, "Issues", issueItems),
			Path: model.FeedPath(repo, model.KindIssues),
		},
		{
			Feed: b.newFeed(repo, "Pull Requests", prItems),
			Path: model.FeedPath(repo, model.KindPullRequests),
		},
	}
}

// Item converts one issue into a feed item. The title and the rendered body
// are stripped of characters that are not legal in XML.
func (b *Builder) Item(issue model.Issue) model.FeedItem {
	prefix := "Issue: "
	if issue.IsPullRequest {
		prefix = "PR: "
	}
	title := prefix + issue.Title + " - @" + issue.Login()

	var author model.Person
	if issue.User != nil {
		author = model.Person{
			Name:  issue.User.Login,
			Email: issue.User.Email,
			URI:   issue.User.HTMLURL,
		}
	}

	return model.FeedItem{
		ID:        issue.HTMLURL,
		Title:     sanitize.String(title),
		Content:   sanitize.String(b.renderer.Render(issue.Body)),
		Link:      issue.HTMLURL,
		Published: issue.CreatedAt,
		Updated:   issue.CreatedAt,
		Author:    author,
	}
}

func (b *Builder) newFeed(repo model.Repository, kind string, items []model.FeedItem) *model.Feed {
	if items == nil {
		items = []model.FeedItem{}
	}
	return &model.Feed{
		Title:       fmt.Sprintf("%s %s", repo, kind),
		Description: fmt.Sprintf("%s from %s, generated by %s", kind, repo.URL(), b.generatorURL),
		Link:        repo.URL(),
		Items:       items,
		TTL:         TTL,
		Author:      b.author,
	}
}
