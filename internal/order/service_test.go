package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/pdf-order-extractor/internal/extract"
)

// stubPrimitive serves a fixed extraction result, standing in for a real
// PDF so the pipeline can be exercised end to end.
type stubPrimitive struct {
	result *extract.PrimitiveResult
	err    error
}

func (s *stubPrimitive) Extract(context.Context, string, extract.PageSelector, extract.Mode) (*extract.PrimitiveResult, error) {
	return s.result, s.err
}

func newTestService(prim extract.Primitive) *Service {
	collector := extract.NewCollector(prim, extract.CollectorOptions{ModeFallback: true}, nil)
	return NewService(collector, OrderMDY, nil)
}

func multiTableDocument() *extract.PrimitiveResult {
	return &extract.PrimitiveResult{
		Tables: []extract.TableMatrix{
			{
				Page: 1, Index: 0, Mode: extract.ModeStream,
				Rows: [][]string{
					{"Item", "Qty", "Price"},
					{"Widget", "2", "5.00"},
				},
			},
			{
				Page: 2, Index: 1, Mode: extract.ModeStream,
				Rows: [][]string{
					{"Description", "Quantity", "Unit Price"},
					{"Gadget", "", "3.50"},
				},
			},
		},
		Text:      "ACME SUPPLY INVOICE\nBill To: Acme Corp\nOrder Date: 01/15/2024\n",
		PageCount: 2,
	}
}

func TestServiceProcess(t *testing.T) {
	svc := newTestService(&stubPrimitive{result: multiTableDocument()})

	run, err := svc.Process(context.Background(), ProcessRequest{
		Path:  "invoice.pdf",
		Pages: extract.AllPages(),
		Mode:  extract.ModeStream,
	})
	require.NoError(t, err)

	require.NotNil(t, run.Summary.CustomerName)
	assert.Equal(t, "Acme Corp", *run.Summary.CustomerName)
	require.NotNil(t, run.Summary.OrderDate)
	assert.Equal(t, date(2024, time.January, 15), *run.Summary.OrderDate)
	assert.Equal(t, 2, run.Summary.TotalProducts)
	assert.Equal(t, 3.0, run.Summary.TotalQuantity)

	require.Len(t, run.LineItems, 2)

	widget := run.LineItems[0]
	assert.Equal(t, "Widget", widget.ProductName)
	assert.Equal(t, Float(2), widget.Quantity)
	assert.Equal(t, Float(5), widget.UnitPrice)
	assert.Equal(t, 1, widget.Page)

	gadget := run.LineItems[1]
	assert.Equal(t, "Gadget", gadget.ProductName)
	// Named row with an empty quantity cell counts as one unit.
	assert.Equal(t, Float(1), gadget.Quantity)
	assert.Equal(t, Float(3.5), gadget.UnitPrice)
	assert.Nil(t, gadget.LineTotal)
	assert.Equal(t, 2, gadget.Page)

	assert.Len(t, run.RawTables, 2)
	assert.Equal(t, "stream", run.Mode)
	assert.False(t, run.FallbackUsed)
	assert.Empty(t, run.Warnings)
}

func TestServiceProcessIsDeterministic(t *testing.T) {
	svc := newTestService(&stubPrimitive{result: multiTableDocument()})
	req := ProcessRequest{Path: "invoice.pdf", Pages: extract.AllPages(), Mode: extract.ModeStream}

	first, err := svc.Process(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Process(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestServiceProcessHeaderlessTable(t *testing.T) {
	svc := newTestService(&stubPrimitive{result: &extract.PrimitiveResult{
		Tables: []extract.TableMatrix{{
			Page: 1, Index: 0, Mode: extract.ModeStream,
			Rows: [][]string{
				{"1", "2.50", "2.50"},
				{"3", "1.00", "3.00"},
			},
		}},
		Text:      "nothing labeled",
		PageCount: 1,
	}})

	run, err := svc.Process(context.Background(), ProcessRequest{Pages: extract.AllPages(), Mode: extract.ModeStream})
	require.NoError(t, err)

	// Untaggable data yields no line items, but the raw table and a
	// warning survive.
	assert.Empty(t, run.LineItems)
	assert.Len(t, run.RawTables, 1)
	require.Len(t, run.Warnings, 1)
	assert.Contains(t, run.Warnings[0], "no recognizable header")
}

func TestServiceProcessSurfacesFailures(t *testing.T) {
	svc := newTestService(&stubPrimitive{err: extract.NewFailure(extract.ReasonUnreadableFile, nil)})

	_, err := svc.Process(context.Background(), ProcessRequest{Pages: extract.AllPages(), Mode: extract.ModeStream})
	reason, ok := extract.FailureReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, extract.ReasonUnreadableFile, reason)
}

func TestServiceProcessFallbackWarning(t *testing.T) {
	// The stub ignores the requested mode, so emulate fallback by
	// returning tables only on the second call.
	calls := 0
	svc := newTestService(primitiveFunc(func(_ context.Context, _ string, _ extract.PageSelector, mode extract.Mode) (*extract.PrimitiveResult, error) {
		calls++
		if mode == extract.ModeLattice {
			return multiTableDocument(), nil
		}
		return &extract.PrimitiveResult{PageCount: 2}, nil
	}))

	run, err := svc.Process(context.Background(), ProcessRequest{Pages: extract.AllPages(), Mode: extract.ModeStream})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.True(t, run.FallbackUsed)
	assert.Equal(t, "lattice", run.Mode)
	require.NotEmpty(t, run.Warnings)
	assert.Contains(t, run.Warnings[0], "fallback")
}

// primitiveFunc adapts a function to the extract.Primitive interface.
type primitiveFunc func(context.Context, string, extract.PageSelector, extract.Mode) (*extract.PrimitiveResult, error)

func (f primitiveFunc) Extract(ctx context.Context, path string, pages extract.PageSelector, mode extract.Mode) (*extract.PrimitiveResult, error) {
	return f(ctx, path, pages, mode)
}
