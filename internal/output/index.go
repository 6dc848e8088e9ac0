package output

import (
	_ "embed"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"issuefeed/internal/model"
)

//go:embed templates/index.html
var indexTemplate string

// RenderIndex fills the landing page template with one link per feed and the build date.
func RenderIndex(w io.Writer, data []model.FeedData, built time.Time) error {
	var list strings.Builder
	for _, fd := range data {
		fmt.Fprintf(&list, "<li><a href='%s'>%s</a></li>", html.EscapeString(fd.Path), html.EscapeString(fd.Feed.Title))
	}

	page := strings.NewReplacer(
		"{Feeds}", list.String(),
		"{BUILD_DATE}", html.EscapeString(built.UTC().Format(time.RFC3339Nano)),
	).Replace(indexTemplate)

	if _, err := io.WriteString(w, page); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}
