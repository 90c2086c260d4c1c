// Package runner structures many functions concurrently. Each function owns
// its graph, so workers share nothing but the result cache.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/l3aro/go-cfg-structure/internal/log"
	"github.com/l3aro/go-cfg-structure/internal/scanner"
	"github.com/l3aro/go-cfg-structure/pkg/cache"
	"github.com/l3aro/go-cfg-structure/pkg/cfg"
	"github.com/l3aro/go-cfg-structure/pkg/graphfile"
	"github.com/l3aro/go-cfg-structure/pkg/stmt"
	"github.com/l3aro/go-cfg-structure/pkg/structure"
)

// Job is one function to structure.
type Job struct {
	File     string
	Function *graphfile.Function
}

// Result is the outcome for one job.
type Result struct {
	File     string     `json:"file"`
	Function string     `json:"function"`
	Output   string     `json:"output,omitempty"`
	Block    stmt.Block `json:"-"` // Nil when served from the cache
	Err      error      `json:"-"`
	Error    string     `json:"error,omitempty"`
	Cached   bool       `json:"cached,omitempty"`
}

// Options configures a run.
type Options struct {
	Workers        int
	EliminateEmpty bool
	Render         stmt.Options
	Cache          *cache.LRUCache // nil disables caching
	Progress       bool
	Logger         log.Logger
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Cached    int
}

// cachedFailure is a structuring failure restored from the cache.
type cachedFailure string

func (e cachedFailure) Error() string { return string(e) }

func (e cachedFailure) Unwrap() error { return structure.ErrUnstructurable }

// Structure removes empty blocks when asked and structures g.
func Structure(g *cfg.CFG[stmt.Block, string], eliminateEmpty bool) (stmt.Block, error) {
	if eliminateEmpty {
		g = cfg.RemoveEmptyBlocks(g)
	}
	return structure.Structure[stmt.Block, string](stmt.Emitter{}, g)
}

// LoadJobs parses every file and returns one job per function, in file order
// and then document order.
func LoadJobs(files []scanner.FileInfo) ([]Job, error) {
	var jobs []Job
	for _, f := range files {
		doc, err := graphfile.ParseFile(f.FullPath)
		if err != nil {
			return nil, err
		}
		fns, err := doc.Build()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
		for _, fn := range fns {
			jobs = append(jobs, Job{File: f.Path, Function: fn})
		}
	}
	return jobs, nil
}

// Run structures every job with at most opts.Workers in flight. Results are
// in job order. Structuring failures are reported per result; the returned
// error is only set when ctx is cancelled.
func Run(ctx context.Context, jobs []Job, opts Options) ([]Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	progress := NewProgress(opts.Progress, "Structuring", len(jobs))
	defer progress.Complete()

	results := make([]Result, len(jobs))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = runOne(job, opts, logger)
			progress.Increment(1)
			progress.Describe(fmt.Sprintf("Structuring %d/%d", done.Add(1), len(jobs)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("structuring interrupted: %w", err)
	}
	return results, nil
}

func runOne(job Job, opts Options, logger log.Logger) Result {
	fn := job.Function
	res := Result{File: job.File, Function: fn.Name}
	key := cacheKey(fn, opts)

	if opts.Cache != nil {
		if cached, ok := opts.Cache.Get(key); ok {
			logger.Debug("cache hit", "file", job.File, "function", fn.Name)
			res.Cached = true
			res.Output = cached.Output
			if cached.Failed() {
				res.Err = cachedFailure(cached.Error)
				res.Error = cached.Error
			}
			return res
		}
	}

	block, err := Structure(fn.Graph, opts.EliminateEmpty)
	if err != nil {
		res.Err = err
		res.Error = describe(fn, err)
		logger.Warn("cannot structure function", "file", job.File, "function", fn.Name, "error", res.Error)
	} else {
		var sb strings.Builder
		if err := stmt.Render(&sb, block, opts.Render); err != nil {
			res.Err = err
			res.Error = err.Error()
			return res
		}
		res.Block = block
		res.Output = sb.String()
		logger.Debug("structured function", "file", job.File, "function", fn.Name, "blocks", len(fn.Graph.Blocks))
	}

	if opts.Cache != nil && (res.Err == nil || errors.Is(res.Err, structure.ErrUnstructurable)) {
		opts.Cache.Set(key, cache.Result{Function: fn.Name, Output: res.Output, Error: res.Error})
	}
	return res
}

// describe renders a structuring error with the block names of the labels
// it mentions.
func describe(fn *graphfile.Function, err error) string {
	msg := err.Error()
	var names []string
	for _, l := range labelsOf(err) {
		if name, ok := fn.Names[l]; ok {
			names = append(names, fmt.Sprintf("%v=%s", l, name))
		}
	}
	if len(names) == 0 {
		return msg
	}
	return fmt.Sprintf("%s [%s]", msg, strings.Join(names, ", "))
}

func labelsOf(err error) []cfg.Label {
	var (
		missing  *structure.MissingBlockError
		multiple *structure.MultipleBreakTargetsError
		branch   *structure.UnsupportedBranchError
		edge     *structure.UnexpectedEdgeError
	)
	switch {
	case errors.As(err, &missing):
		return []cfg.Label{missing.Label}
	case errors.As(err, &multiple):
		return append([]cfg.Label{multiple.Header}, multiple.Targets...)
	case errors.As(err, &branch):
		return []cfg.Label{branch.From, branch.Then, branch.Else}
	case errors.As(err, &edge):
		return []cfg.Label{edge.From, edge.To}
	default:
		return nil
	}
}

func cacheKey(fn *graphfile.Function, opts Options) string {
	return fmt.Sprintf("%s:e=%t:i=%d", fn.Spec.Hash(), opts.EliminateEmpty, opts.Render.Indent)
}

// Summarize counts results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
		} else {
			s.Succeeded++
		}
		if r.Cached {
			s.Cached++
		}
	}
	return s
}
