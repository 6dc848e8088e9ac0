// Package markdown converts issue bodies to HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Strategy is one way of turning markdown into HTML.
type Strategy struct {
	Name   string
	Render func(src string) (string, error)
}

// Renderer tries its strategies in order and returns the first successful result.
// When every strategy fails, the markdown source is returned unchanged.
type Renderer struct {
	strategies []Strategy
}

// New creates a Renderer with the given strategies, tried in order.
func New(strategies ...Strategy) *Renderer {
	return &Renderer{strategies: strategies}
}

// Default returns the renderer used for issue bodies: GitHub-flavored markdown
// with extensions, falling back to plain CommonMark.
func Default() *Renderer {
	return New(Full(), Minimal())
}

// Full renders GitHub-flavored markdown with extensions and raw HTML, then
// sanitizes the output with a user-generated-content policy.
func Full() Strategy {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
			emoji.Emoji,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	policy := bluemonday.UGCPolicy()
	return Strategy{
		Name: "full",
		Render: func(src string) (string, error) {
			out, err := convert(md, src)
			if err != nil {
				return "", err
			}
			return policy.Sanitize(out), nil
		},
	}
}

// Minimal renders plain CommonMark. Raw HTML in the source is omitted.
func Minimal() Strategy {
	md := goldmark.New()
	return Strategy{
		Name: "minimal",
		Render: func(src string) (string, error) {
			return convert(md, src)
		},
	}
}

func convert(md goldmark.Markdown, src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// Render converts src to HTML. It never fails.
func (r *Renderer) Render(src string) string {
	if src == "" {
		return ""
	}
	for _, s := range r.strategies {
		out, err := try(s, src)
		if err == nil {
			return out
		}
	}
	return src
}

func try(s Strategy, src string) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s renderer panicked: %v", s.Name, p)
		}
	}()
	return s.Render(src)
}
