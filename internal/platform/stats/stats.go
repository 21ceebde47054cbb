// Package stats gathers the per-resource record counts shown in the app
// header.
package stats

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// CountFunc returns the number of records of one resource.
type CountFunc func(ctx context.Context) (int, error)

type Source struct {
	Key   string
	Label string
	Count CountFunc
}

type Count struct {
	Key   string
	Label string
	Value int
}

type Collector struct {
	sources []Source
	logger  zerolog.Logger
}

func NewCollector(logger zerolog.Logger, sources ...Source) *Collector {
	return &Collector{sources: sources, logger: logger}
}

// Collect queries every source concurrently. A failing source counts as zero
// and does not affect the others.
func (c *Collector) Collect(ctx context.Context) []Count {
	out := make([]Count, len(c.sources))
	var g errgroup.Group
	for i, src := range c.sources {
		i, src := i, src
		out[i] = Count{Key: src.Key, Label: src.Label}
		g.Go(func() error {
			n, err := src.Count(ctx)
			if err != nil {
				c.logger.Warn().Err(err).Str("source", src.Key).Msg("stats source failed")
				return nil
			}
			out[i].Value = n
			return nil
		})
	}
	_ = g.Wait()
	return out
}
