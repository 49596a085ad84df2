package order

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/orderdesk/pdf-order-extractor/internal/extract"
)

// parallelThreshold is the table count above which header normalization
// runs concurrently. Safe because RawTables are immutable and
// normalization is side-effect free.
const parallelThreshold = 4

// Service runs the full extraction pipeline for one document at a time.
// Instances share no mutable state, so independent documents may be
// processed by concurrent Process calls.
type Service struct {
	collector  *extract.Collector
	normalizer *HeaderNormalizer
	textFields *TextFieldExtractor
	aggregator *Aggregator
	log        *zap.Logger
}

// NewService wires the pipeline components together.
func NewService(collector *extract.Collector, dateOrder DateOrder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		collector:  collector,
		normalizer: NewHeaderNormalizer(),
		textFields: NewTextFieldExtractor(dateOrder),
		aggregator: NewAggregator(),
		log:        log,
	}
}

// Process converts one document into an ExtractionRun: collect raw
// tables and text, normalize headers per table, aggregate line items,
// then build the summary from the aggregate plus the text fields.
// Fatal failures are always *extract.ExtractionFailure; everything
// below that degrades to partial results.
func (s *Service) Process(ctx context.Context, req ProcessRequest) (*ExtractionRun, error) {
	collection, err := s.collector.Collect(ctx, req.Path, req.Pages, req.Mode)
	if err != nil {
		return nil, err
	}

	run := &ExtractionRun{
		Mode:         string(collection.Mode),
		FallbackUsed: collection.FallbackUsed,
	}
	if collection.FallbackUsed {
		run.Warnings = append(run.Warnings,
			"requested detection mode found no tables; results come from the fallback mode")
	}

	run.RawTables = make([]RawTable, len(collection.Tables))
	for i, m := range collection.Tables {
		run.RawTables[i] = NewRawTable(m)
	}

	normalized := s.normalizeAll(ctx, run.RawTables)
	for _, nt := range normalized {
		if !nt.HeaderFound {
			run.Warnings = append(run.Warnings, headerWarning(nt))
		}
	}

	items, warnings := s.aggregator.Aggregate(normalized)
	run.LineItems = items
	run.Warnings = append(run.Warnings, warnings...)

	customer := s.textFields.CustomerName(collection.Text)
	date := s.textFields.OrderDate(collection.Text)
	run.Summary = BuildSummary(customer, date, items)

	s.log.Debug("document processed",
		zap.Int("raw_tables", len(run.RawTables)),
		zap.Int("line_items", len(run.LineItems)),
		zap.Int("warnings", len(run.Warnings)))

	return run, nil
}

// normalizeAll maps raw tables to normalized tables, concurrently when
// the table count makes it worthwhile.
func (s *Service) normalizeAll(ctx context.Context, tables []RawTable) []NormalizedTable {
	out := make([]NormalizedTable, len(tables))

	if len(tables) < parallelThreshold {
		for i, rt := range tables {
			if ctx.Err() != nil {
				break
			}
			out[i] = s.normalizer.Normalize(rt)
		}
		return out
	}

	var wg sync.WaitGroup
	for i := range tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = s.normalizer.Normalize(tables[i])
		}(i)
	}
	wg.Wait()
	return out
}

func headerWarning(nt NormalizedTable) string {
	return fmt.Sprintf("table %d on page %d has no recognizable header; all columns kept as UNKNOWN",
		nt.TableIndex, nt.Page)
}
