// Package rotate normalizes directional tile variants in map files into a
// canonical tile plus an explicit rotation.
package rotate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/maptool/pkg/formats"
	"github.com/Faultbox/maptool/pkg/mapfile"
	"github.com/Faultbox/maptool/pkg/rotation"
)

// Options configures a Processor.
type Options struct {
	// Workers is the number of files processed at once. Values below 1
	// mean one file at a time.
	Workers int
	// KeepGoing logs per-file errors and continues with the next file
	// instead of aborting the run.
	KeepGoing bool
	// DryRun does everything except writing files.
	DryRun bool
}

// Result describes what happened to a single file.
type Result struct {
	Path    string
	Updated bool
	// Skipped is set when the file is not an eligible map document.
	Skipped bool
	Legend  int // legend entries matched in the catalog
	Chunks  int // chunks whose tile payload changed
}

// Summary totals a run.
type Summary struct {
	Processed int
	Updated   int
	Skipped   int
	Failed    int
}

// Processor applies a rotation catalog to map files.
type Processor struct {
	catalog *rotation.Catalog
	opts    Options
	log     *zap.Logger
}

// NewProcessor returns a processor using catalog. A nil logger discards
// all output.
func NewProcessor(catalog *rotation.Catalog, opts Options, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Processor{catalog: catalog, opts: opts, log: log}
}

// ProcessFile rewrites one map file and reports whether it was updated.
//
// Files that are not map documents, declare another format version or have
// no directional tiles in their legend are left untouched. Read, parse and
// write errors are returned.
func (p *Processor) ProcessFile(path string) (Result, error) {
	res := Result{Path: path}
	log := p.log.With(zap.String("path", path))

	doc, err := mapfile.Load(path)
	if errors.Is(err, mapfile.ErrFormat) {
		log.Warn("skipping file", zap.Error(err))
		res.Skipped = true
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("loading %s: %w", path, err)
	}

	if !doc.IsEligible(mapfile.FormatVersion) {
		log.Debug("skipping unsupported format", zap.String("format", doc.FormatVersion()))
		res.Skipped = true
		return res, nil
	}

	rotations, err := doc.RewriteLegend(p.catalog)
	if errors.Is(err, mapfile.ErrFormat) {
		log.Warn("skipping file", zap.Error(err))
		res.Skipped = true
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("rewriting legend of %s: %w", path, err)
	}
	if len(rotations) == 0 {
		log.Debug("no directional tiles")
		return res, nil
	}

	// Any catalog hit counts, even one that only renames the legend entry.
	res.Updated = true
	res.Legend = len(rotations)

	err = doc.ForEachChunk(mapfile.FormatVersion, func(c mapfile.Chunk) error {
		tiles, changed, err := formats.RewriteChunkPayload(c.Tiles(), rotations)
		if err != nil {
			log.Warn("skipping chunk", zap.String("chunk", c.Key), zap.Int("line", c.Line()), zap.Error(err))
			return nil
		}
		if changed {
			c.SetTiles(tiles)
			res.Chunks++
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("rewriting chunks of %s: %w", path, err)
	}

	if p.opts.DryRun {
		log.Info("would update map", zap.Int("legend", res.Legend), zap.Int("chunks", res.Chunks))
		return res, nil
	}
	if err := doc.Save(path); err != nil {
		return res, fmt.Errorf("saving %s: %w", path, err)
	}
	log.Info("updated map", zap.Int("legend", res.Legend), zap.Int("chunks", res.Chunks))
	return res, nil
}

// Run processes files and totals the results.
//
// Without KeepGoing the first error stops the run: no new files are
// started and the error is returned along with the totals so far.
func (p *Processor) Run(ctx context.Context, files []string) (Summary, error) {
	var (
		mu  sync.Mutex
		sum Summary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for _, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := p.ProcessFile(path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if !p.opts.KeepGoing {
					return err
				}
				p.log.Error("failed to process file", zap.String("path", path), zap.Error(err))
				sum.Failed++
				return nil
			}
			sum.Processed++
			switch {
			case res.Updated:
				sum.Updated++
			case res.Skipped:
				sum.Skipped++
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return sum, err
}
