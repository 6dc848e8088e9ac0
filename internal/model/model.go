// Package model defines the domain types used across the application.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses an "owner/name" reference.
func ParseRepository(s string) (Repository, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("invalid repository %q, want owner/name", s)
	}
	return Repository{Owner: owner, Name: name}, nil
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// URL returns the repository's web address.
func (r Repository) URL() string {
	return "https://github.com/" + r.String()
}

// User is the author of an issue.
type User struct {
	Login   string
	Email   string
	HTMLURL string
}

// Issue is a GitHub issue or pull request as returned by the issues endpoint.
type Issue struct {
	CreatedAt     time.Time
	Title         string
	Body          string
	HTMLURL       string
	Labels        []string
	User          *User
	IsPullRequest bool
}

// Login returns the author's login, or an empty string if the author is unknown.
func (i Issue) Login() string {
	if i.User == nil {
		return ""
	}
	return i.User.Login
}

// FeedKind selects which issues go into a feed.
type FeedKind string

// Supported feed kinds. The value doubles as the file name infix.
const (
	KindIssues       FeedKind = "issues"
	KindPullRequests FeedKind = "pr"
)

// Person is an author identity attached to feeds and items.
type Person struct {
	Name  string
	Email string
	URI   string
}

// FeedItem is a single syndication entry derived from one issue.
type FeedItem struct {
	ID        string
	Title     string
	Content   string
	Link      string
	Published time.Time
	Updated   time.Time
	Author    Person
}

// Feed is one generated feed for a repository and kind.
type Feed struct {
	Title       string
	Description string
	Link        string
	Items       []FeedItem
	TTL         time.Duration
	Author      Person
}

// FeedData pairs a feed with its path relative to the output directory.
type FeedData struct {
	Feed *Feed
	Path string
}

// FeedPath returns the relative output path for a repository's feed of the given kind.
func FeedPath(repo Repository, kind FeedKind) string {
	return fmt.Sprintf("%s/%s.%s.rss", repo.Owner, repo.Name, kind)
}
