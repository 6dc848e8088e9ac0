// Package generator runs the fetch, filter and build pipeline for every
// repository and hands the collected feeds to the output writer.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"issuefeed/internal/feed"
	"issuefeed/internal/filter"
	"issuefeed/internal/model"
)

const defaultConcurrency = 16

// IssueSource lists the issues of a repository, newest first.
type IssueSource interface {
	Fetch(ctx context.Context, repo model.Repository) ([]model.Issue, error)
}

// Sink receives the final, ordered set of feeds.
type Sink interface {
	WriteAll(data []model.FeedData) error
}

// Collector accumulates feeds produced by concurrent workers.
type Collector struct {
	mu   sync.Mutex
	data []model.FeedData
}

// Add appends feeds to the collection. It is safe for concurrent use.
func (c *Collector) Add(data ...model.FeedData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = append(c.data, data...)
}

// Len returns the number of collected feeds.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Sorted returns a copy of the collection ordered by path.
func (c *Collector) Sorted() []model.FeedData {
	c.mu.Lock()
	out := make([]model.FeedData, len(c.data))
	copy(out, c.data)
	c.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Options tunes a Generator.
type Options struct {
	// Concurrency bounds the number of repositories processed at once.
	Concurrency int
	// FailFast aborts the run on the first failing repository and writes nothing.
	FailFast bool
}

// Generator produces the site for a set of repositories.
type Generator struct {
	source      IssueSource
	rules       *filter.Rules
	builder     *feed.Builder
	sink        Sink
	log         *slog.Logger
	concurrency int
	failFast    bool
}

// New creates a Generator.
func New(source IssueSource, rules *filter.Rules, builder *feed.Builder, sink Sink, log *slog.Logger, opts Options) *Generator {
	g := &Generator{
		source:      source,
		rules:       rules,
		builder:     builder,
		sink:        sink,
		log:         log,
		concurrency: opts.Concurrency,
		failFast:    opts.FailFast,
	}
	if g.concurrency <= 0 {
		g.concurrency = defaultConcurrency
	}
	return g
}

// Run processes every repository and writes the result.
//
// A failing repository is logged and produces no feeds; the others are still
// written and the failures are returned joined. With FailFast the first
// failure cancels the remaining work and nothing is written. When every
// repository fails nothing is written either.
func (g *Generator) Run(ctx context.Context, repos []model.Repository) error {
	var (
		collector Collector
		mu        sync.Mutex
		failed    []error
	)

	eg := &errgroup.Group{}
	runCtx := ctx
	if g.failFast {
		eg, runCtx = errgroup.WithContext(ctx)
	}
	eg.SetLimit(g.concurrency)

	for _, repo := range repos {
		eg.Go(func() error {
			data, err := g.generate(runCtx, repo)
			if err != nil {
				g.log.Error("fetch repository", "repo", repo.String(), "error", err)
				if g.failFast {
					return err
				}
				mu.Lock()
				failed = append(failed, err)
				mu.Unlock()
				return nil
			}
			collector.Add(data...)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("generate feeds: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("generate feeds: %w", err)
	}

	g.log.Info("collected feeds", "feeds", collector.Len(), "failed", len(failed))
	if collector.Len() == 0 && len(failed) > 0 {
		return errors.Join(failed...)
	}
	if err := g.sink.WriteAll(collector.Sorted()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return errors.Join(failed...)
}

func (g *Generator) generate(ctx context.Context, repo model.Repository) ([]model.FeedData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.log.Info("generating feed", "repo", repo.String())

	issues, err := g.source.Fetch(ctx, repo)
	if err != nil {
		return nil, err
	}
	kept := g.rules.Apply(issues)
	g.log.Info("fetched issues", "repo", repo.String(), "count", len(issues), "kept", len(kept))

	return g.builder.Build(repo, kept), nil
}
