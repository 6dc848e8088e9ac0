// Package output writes the generated site: one RSS file per feed, an OPML
// subscription list and an HTML landing page.
package output

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"issuefeed/internal/model"
)

// File names of the aggregate documents, relative to the output directory.
const (
	OPMLFile  = "feeds.opml"
	IndexFile = "index.html"
)

// Writer writes the site into a directory.
type Writer struct {
	dir     string
	rootURL string
	log     *slog.Logger
	now     func() time.Time
}

// NewWriter creates a Writer for dir. rootURL is the public address the
// directory is served from and prefixes every feed URL in the OPML file.
func NewWriter(dir, rootURL string, log *slog.Logger) *Writer {
	return &Writer{
		dir:     dir,
		rootURL: rootURL,
		log:     log,
		now:     time.Now,
	}
}

// WriteAll writes every feed, then the OPML file and the index page.
// data must already be in the order the feeds should be listed.
// It stops at the first failure.
func (w *Writer) WriteAll(data []model.FeedData) error {
	for _, fd := range data {
		if err := w.WriteFeed(fd); err != nil {
			return err
		}
	}
	if err := w.WriteOPML(data); err != nil {
		return err
	}
	return w.WriteIndex(data)
}

// WriteFeed writes one feed as RSS at its relative path.
// The document is parsed back before it is written; an unreadable feed is an error.
func (w *Writer) WriteFeed(fd model.FeedData) error {
	w.log.Info("writing feed", "path", fd.Path, "items", len(fd.Feed.Items))

	var buf bytes.Buffer
	if err := RenderRSS(&buf, fd.Feed); err != nil {
		return fmt.Errorf("render %s: %w", fd.Path, err)
	}
	if err := checkRSS(buf.Bytes(), fd.Feed); err != nil {
		return fmt.Errorf("check %s: %w", fd.Path, err)
	}
	return w.writeFile(fd.Path, buf.Bytes())
}

// WriteOPML writes the subscription list of all feeds.
func (w *Writer) WriteOPML(data []model.FeedData) error {
	w.log.Info("generating opml", "feeds", len(data))

	var buf bytes.Buffer
	if err := RenderOPML(&buf, w.rootURL, data); err != nil {
		return err
	}
	return w.writeFile(OPMLFile, buf.Bytes())
}

// WriteIndex writes the HTML landing page.
func (w *Writer) WriteIndex(data []model.FeedData) error {
	w.log.Info("generating index", "feeds", len(data))

	var buf bytes.Buffer
	if err := RenderIndex(&buf, data, w.now()); err != nil {
		return err
	}
	return w.writeFile(IndexFile, buf.Bytes())
}

func (w *Writer) writeFile(rel string, data []byte) error {
	path := filepath.Join(w.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}
