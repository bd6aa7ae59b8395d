package charts

import (
	"fmt"
	"math"
	"testing"

	"github.com/thorfin/insights-backend/internal/domain"
)

func TestParetoData_CumulativeCoversAllProducts(t *testing.T) {
	// More products than any display cap, with descending counts.
	const products = 30
	var records []domain.Record
	for i := 0; i < products; i++ {
		name := fmt.Sprintf("product-%02d", i)
		for j := 0; j <= i; j++ {
			records = append(records, domain.Record{Product: name})
		}
	}
	ds := &domain.Dataset{
		Columns: []string{domain.ColProduct},
		Records: records,
	}

	labels, counts, cumulative := ParetoData(ds)
	if len(labels) != products {
		t.Fatalf("expected %d products, got %d", products, len(labels))
	}
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[i-1] {
			t.Fatalf("counts not descending at %d: %d > %d", i, counts[i], counts[i-1])
		}
	}
	for i := 1; i < len(cumulative); i++ {
		if cumulative[i] < cumulative[i-1] {
			t.Fatalf("cumulative not monotone at %d", i)
		}
	}
	if last := cumulative[len(cumulative)-1]; math.Abs(last-1.0) > 1e-9 {
		t.Fatalf("cumulative over all products must end at 1.0, got %v", last)
	}
}

func TestParetoData_EmptyDataset(t *testing.T) {
	ds := &domain.Dataset{Columns: []string{domain.ColProduct}}
	labels, counts, cumulative := ParetoData(ds)
	if labels != nil || counts != nil || cumulative != nil {
		t.Fatalf("expected nil series for an empty dataset")
	}
}

func TestProductCounts_TiesKeepEncounterOrder(t *testing.T) {
	ds := &domain.Dataset{
		Columns: []string{domain.ColProduct},
		Records: []domain.Record{
			{Product: "B"}, {Product: "A"}, {Product: "C"}, {Product: "C"},
		},
	}
	labels, counts := productCounts(ds)
	if labels[0] != "C" || counts[0] != 2 {
		t.Fatalf("expected C(2) first, got %s(%d)", labels[0], counts[0])
	}
	if labels[1] != "B" || labels[2] != "A" {
		t.Fatalf("tied products must keep encounter order, got %v", labels)
	}
}
