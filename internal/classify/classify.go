// Package classify derives the two parallel projections of an invoice:
// greenhouse-gas accounting entries (one per line item, unconditionally) and
// green-incentive entries (only for GITA-eligible items).
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	errx "github.com/kira-carbon/server/internal/core/errx"
	"github.com/kira-carbon/server/internal/domain"
	"github.com/kira-carbon/server/internal/llm"
	logx "github.com/kira-carbon/server/pkg/logger"
)

// Config tunes the classification stage.
type Config struct {
	// MaxConcurrency bounds how many line items are derived at once. Items
	// share no mutable state, so the only real limit is the model's rate cap.
	MaxConcurrency int `envconfig:"CLASSIFY_MAX_CONCURRENCY" default:"4"`
}

// Pipeline is the classification stage.
type Pipeline struct {
	gen            llm.Generator
	maxConcurrency int
}

func NewPipeline(gen llm.Generator, cfg Config) *Pipeline {
	n := cfg.MaxConcurrency
	if n <= 0 {
		n = 1
	}
	return &Pipeline{gen: gen, maxConcurrency: n}
}

// Classify derives entries for every item of the invoice. Each item is
// processed independently and concurrently; the first per-item error fails
// the whole call. When every derivation succeeds but both output sequences
// are empty for a non-empty input, the call fails with
// ErrCategorizationFailed.
func (p *Pipeline) Classify(ctx context.Context, invoice *domain.Invoice) (*domain.Classification, error) {
	items := invoice.Items

	type itemResult struct {
		carbon    *domain.CarbonEntry
		incentive *domain.GreenIncentiveEntry
		err       error
	}
	results := make([]itemResult, len(items))

	sem := make(chan struct{}, p.maxConcurrency)
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			item := items[i]
			carbon, err := p.deriveCarbonEntry(ctx, item)
			if err != nil {
				results[i].err = err
				return
			}
			results[i].carbon = carbon

			if item.IsGreenEligible {
				incentive, err := p.deriveIncentiveEntry(ctx, item)
				if err != nil {
					results[i].err = err
					return
				}
				results[i].incentive = incentive
			}
		}(i)
	}
	wg.Wait()

	out := &domain.Classification{}
	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("classify item %q: %w", items[i].Name, r.err)
		}
		if r.carbon != nil {
			out.CarbonEntries = append(out.CarbonEntries, *r.carbon)
		}
		if r.incentive != nil {
			out.GreenIncentiveEntries = append(out.GreenIncentiveEntries, *r.incentive)
		}
	}

	if len(items) > 0 && len(out.CarbonEntries) == 0 && len(out.GreenIncentiveEntries) == 0 {
		return nil, errx.ErrCategorizationFailed
	}

	logx.Debug().
		Int("items", len(items)).
		Int("carbon_entries", len(out.CarbonEntries)).
		Int("incentive_entries", len(out.GreenIncentiveEntries)).
		Msg("invoice classified")
	return out, nil
}

func (p *Pipeline) deriveCarbonEntry(ctx context.Context, item domain.LineItem) (*domain.CarbonEntry, error) {
	payload, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("marshal line item: %w", err)
	}

	raw, err := p.gen.GenerateStructured(ctx, llm.Request{
		System: carbonSystemInstruction,
		Prompt: fmt.Sprintf("Convert this invoice item into a carbon entry: %s", payload),
		Schema: carbonEntrySchema(),
	})
	if err != nil {
		return nil, err
	}

	var entry domain.CarbonEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("%w: carbon entry: %v", errx.ErrCategorizationFailed, err)
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errx.ErrCategorizationFailed, err)
	}
	return &entry, nil
}

func (p *Pipeline) deriveIncentiveEntry(ctx context.Context, item domain.LineItem) (*domain.GreenIncentiveEntry, error) {
	payload, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("marshal line item: %w", err)
	}

	raw, err := p.gen.GenerateStructured(ctx, llm.Request{
		System: incentiveSystemInstruction,
		Prompt: fmt.Sprintf("Convert this eligible green item into a green incentive entry: %s", payload),
		Schema: incentiveEntrySchema(),
	})
	if err != nil {
		return nil, err
	}

	var entry domain.GreenIncentiveEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("%w: incentive entry: %v", errx.ErrCategorizationFailed, err)
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errx.ErrCategorizationFailed, err)
	}
	return &entry, nil
}
