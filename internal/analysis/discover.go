package analysis

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"rommap/internal/rom"
	"rommap/internal/romx"
)

// Options controls a discovery pass.
type Options struct {
	Workers int // goroutines for scanning and inference; 0 = NumCPU
	// TableRegions records every detected pointer table as one PointerTable
	// region before targets are inferred.
	TableRegions bool
	Logger       *log.Logger
}

// Result summarises a discovery pass.
type Result struct {
	Pointers []rom.Pointer
	Tables   []Table
	Regions  []rom.Region // regions added to the catalog, in insertion order
	Skipped  int          // targets outside the image or too close to its end
	Known    int          // targets that already start a catalogued region
}

// Engine runs pointer-driven region discovery over one cartridge window.
type Engine struct {
	window     romx.Window
	classifier *Classifier
	opts       Options
	log        *log.Logger
}

// NewEngine returns an engine for w using the standard classifier.
func NewEngine(w romx.Window, opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	lg := opts.Logger
	if lg == nil {
		lg = log.New(io.Discard)
	}
	return &Engine{
		window:     w,
		classifier: NewClassifier(w),
		opts:       opts,
		log:        lg,
	}
}

// Classifier returns the engine's classifier.
func (e *Engine) Classifier() *Classifier { return e.classifier }

type target struct {
	off  int
	from int // first pointer referencing off
}

// Discover scans im for pointers, detects pointer tables and infers a region
// for every pointer target that no catalogued region starts at yet. New
// regions are appended to cat with origin Inferred. Targets are split into
// contiguous address ranges, one per worker; each worker fills a private
// batch and the batches are merged into cat in address order, so the result
// does not depend on scheduling.
func (e *Engine) Discover(ctx context.Context, im *romx.Image, cat *rom.Catalog) (*Result, error) {
	ptrs, err := ScanPointersParallel(ctx, im, e.window, e.opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("scan pointers: %w", err)
	}
	e.log.Debug("Scanned pointers", "count", len(ptrs), "size", im.Len())

	res := &Result{Pointers: ptrs, Tables: DetectTables(ptrs)}
	for _, t := range res.Tables {
		e.log.Debug("Pointer table", "from", fmt.Sprintf("%06X", t.From()), "entries", t.Len())
		if e.opts.TableRegions && cat.AddIfAbsent(t.Region()) {
			res.Regions = append(res.Regions, t.Region())
		}
	}

	known := cat.Starts()
	var targets []target
	seen := make(map[int]bool)
	for _, p := range ptrs {
		if seen[p.To] {
			continue
		}
		seen[p.To] = true
		switch _, dup := known[p.To]; {
		case p.To >= im.Len():
			res.Skipped++
		case dup:
			res.Known++
		default:
			targets = append(targets, target{off: p.To, from: p.From})
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].off < targets[j].off })

	batches, err := e.inferAll(ctx, im, targets)
	if err != nil {
		return nil, err
	}

	for _, batch := range batches {
		for _, r := range batch {
			if r.Size == 0 {
				res.Skipped++
				continue
			}
			if !cat.AddIfAbsent(r) {
				res.Known++
				continue
			}
			res.Regions = append(res.Regions, r)
		}
	}

	e.log.Info("Discovery finished",
		"pointers", len(res.Pointers),
		"tables", len(res.Tables),
		"regions", len(res.Regions),
		"skipped", res.Skipped)
	return res, nil
}

func (e *Engine) inferAll(ctx context.Context, im *romx.Image, targets []target) ([][]rom.Region, error) {
	workers := min(e.opts.Workers, len(targets))
	if workers == 0 {
		return nil, nil
	}
	per := (len(targets) + workers - 1) / workers
	batches := make([][]rom.Region, workers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		lo := i * per
		hi := min(lo+per, len(targets))
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			batch := make([]rom.Region, 0, hi-lo)
			for _, t := range targets[lo:hi] {
				if err := gctx.Err(); err != nil {
					return err
				}
				size, kind := e.classifier.InferSize(im, t.off)
				batch = append(batch, rom.Region{
					Offset: t.off,
					Size:   size,
					Name:   regionName(kind, t.off),
					Kind:   kind,
					Origin: rom.OriginInferred,
				})
				e.log.Debug("Inferred region", "offset", fmt.Sprintf("%06X", t.off),
					"size", size, "kind", kind, "from", fmt.Sprintf("%06X", t.from))
			}
			batches[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("infer regions: %w", err)
	}
	return batches, nil
}

func regionName(k rom.Kind, off int) string {
	return fmt.Sprintf("%s_%06X", strings.ToLower(k.String()), off)
}
