package output

import (
	"encoding/xml"
	"fmt"
	"io"

	"issuefeed/internal/model"
)

const opmlTitle = "GitHub issues feeds"

type opmlDocument struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}

type opmlHead struct {
	Title string `xml:"title"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Type   string `xml:"type,attr"`
	Text   string `xml:"text,attr"`
	Title  string `xml:"title,attr"`
	XMLURL string `xml:"xmlUrl,attr"`
}

// RenderOPML writes an OPML 1.0 subscription list with one outline per feed.
// Feed URLs are rootURL followed by the feed's relative path.
func RenderOPML(w io.Writer, rootURL string, data []model.FeedData) error {
	doc := opmlDocument{
		Version: "1.0",
		Head:    opmlHead{Title: opmlTitle},
	}
	for _, fd := range data {
		doc.Body.Outlines = append(doc.Body.Outlines, opmlOutline{
			Type:   "rss",
			Text:   fd.Feed.Title,
			Title:  fd.Feed.Title,
			XMLURL: rootURL + fd.Path,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write opml: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write opml: %w", err)
	}
	return nil
}
