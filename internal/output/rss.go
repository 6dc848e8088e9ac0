package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gorilla/feeds"
	"github.com/mmcdole/gofeed"

	"issuefeed/internal/model"
)

// RenderRSS serializes f as an RSS 2.0 document.
func RenderRSS(w io.Writer, f *model.Feed) error {
	rss := (&feeds.Rss{Feed: toFeeds(f)}).RssFeed()
	rss.Ttl = int(f.TTL.Minutes())
	// gorilla/feeds only emits the item author's name.
	for i, it := range f.Items {
		rss.Items[i].Author = rssAuthor(it.Author)
	}
	if err := feeds.WriteXML(rss, w); err != nil {
		return fmt.Errorf("write rss: %w", err)
	}
	return nil
}

// checkRSS parses a rendered feed back and makes sure no item was lost.
func checkRSS(data []byte, f *model.Feed) error {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse generated rss: %w", err)
	}
	if len(parsed.Items) != len(f.Items) {
		return fmt.Errorf("generated rss has %d items, want %d", len(parsed.Items), len(f.Items))
	}
	return nil
}

func toFeeds(f *model.Feed) *feeds.Feed {
	out := &feeds.Feed{
		Title:       f.Title,
		Link:        &feeds.Link{Href: f.Link},
		Description: f.Description,
		Author:      toAuthor(f.Author),
		Items:       make([]*feeds.Item, 0, len(f.Items)),
	}

	for _, it := range f.Items {
		if out.Updated.Before(it.Updated) {
			out.Updated = it.Updated
		}
		out.Items = append(out.Items, &feeds.Item{
			Id:          it.ID,
			Title:       it.Title,
			Link:        &feeds.Link{Href: it.Link},
			Description: it.Content,
			Author:      toAuthor(it.Author),
			Created:     it.Published,
			Updated:     it.Updated,
		})
	}
	return out
}

func toAuthor(p model.Person) *feeds.Author {
	if p.Name == "" && p.Email == "" {
		return nil
	}
	return &feeds.Author{Name: p.Name, Email: p.Email}
}

// rssAuthor formats a person the way RSS 2.0 expects: "email (name)".
func rssAuthor(p model.Person) string {
	switch {
	case p.Email != "" && p.Name != "":
		return fmt.Sprintf("%s (%s)", p.Email, p.Name)
	case p.Email != "":
		return p.Email
	default:
		return p.Name
	}
}
