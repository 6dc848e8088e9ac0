// Package filter decides which issues are published.
package filter

import (
	"strings"

	"issuefeed/internal/model"
)

// Rules holds the exclusion lists. Both are matched case-insensitively.
type Rules struct {
	users  map[string]struct{}
	labels map[string]struct{}
}

// NewRules builds Rules from excluded author logins and excluded label names.
func NewRules(excludedUsers, excludedLabels []string) *Rules {
	return &Rules{
		users:  toSet(excludedUsers),
		labels: toSet(excludedLabels),
	}
}

// Keep reports whether an issue survives filtering.
// An issue is dropped if its author is excluded or if any of its labels is excluded.
// State is not considered: closed issues and merged pull requests are kept.
func (r *Rules) Keep(issue model.Issue) bool {
	if login := issue.Login(); login != "" && contains(r.users, login) {
		return false
	}
	for _, label := range issue.Labels {
		if contains(r.labels, label) {
			return false
		}
	}
	return true
}

// Apply returns the issues that survive filtering, preserving their order.
func (r *Rules) Apply(issues []model.Issue) []model.Issue {
	kept := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if r.Keep(issue) {
			kept = append(kept, issue)
		}
	}
	return kept
}

func contains(set map[string]struct{}, s string) bool {
	_, ok := set[strings.ToLower(s)]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}
