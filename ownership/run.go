package ownership

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// FailurePolicy decides what a per-household failure does to the run.
type FailurePolicy int

const (
	// AbortAll stops the whole run at the first failing household.
	AbortAll FailurePolicy = iota
	// SkipAndRecord leaves the household unchanged and continues.
	SkipAndRecord
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return AbortAll, nil
	case "skip":
		return SkipAndRecord, nil
	}
	return AbortAll, fmt.Errorf("unknown failure policy %q [abort, skip]", s)
}

func (p FailurePolicy) String() string {
	if p == SkipAndRecord {
		return "skip"
	}
	return "abort"
}

type RunOptions struct {
	Workers  int
	Policy   FailurePolicy
	BaseSeed int64
	// 调试家庭的诊断输出
	Sink logrus.FieldLogger
}

type Skipped struct {
	HouseholdID int64
	Err         error
}

type Report struct {
	Processed int
	Skipped   []Skipped
}

// Run applies the model to every household. Each worker owns its own
// Model; households are independent and each uses its own random stream,
// so results do not depend on the number of workers.
func Run(ctx context.Context, setup *Setup, households []*Household, opts RunOptions) (*Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	models := make([]*Model, workers)
	for w := range models {
		model, err := setup.NewModel(opts.Sink)
		if err != nil {
			return nil, err
		}
		models[w] = model
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := range households {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})

	var (
		processed atomic.Int32
		mu        sync.Mutex
		skipped   = make(map[int]Skipped)
	)
	for _, model := range models {
		model := model
		g.Go(func() error {
			for i := range jobs {
				hh := households[i]
				_, err := model.Apply(hh, hh.NewStream(opts.BaseSeed))
				if err == nil {
					processed.Add(1)
					continue
				}
				var violation *InvariantViolation
				if opts.Policy == AbortAll || errors.As(err, &violation) {
					return fmt.Errorf("household %d: %w", hh.ID, err)
				}
				log.Warnf("skip household %d: %v", hh.ID, err)
				mu.Lock()
				skipped[i] = Skipped{HouseholdID: hh.ID, Err: err}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Processed: int(processed.Load())}
	indices := make([]int, 0, len(skipped))
	for i := range skipped {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for _, i := range indices {
		report.Skipped = append(report.Skipped, skipped[i])
	}
	return report, nil
}
