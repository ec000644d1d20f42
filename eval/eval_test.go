package eval

import (
	"math"
	"testing"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/recall"
)

func fixture(t *testing.T) (*recall.TextIndex, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.NewCatalog([]*core.Product{
		{ID: "1", Name: "Red Mug", Category: "Kitchen", Price: 10},
		{ID: "2", Name: "Blue Mug", Category: "Kitchen", Price: 12},
		{ID: "3", Name: "Ceramic Bowl", Category: "Kitchen", Price: 15},
		{ID: "4", Name: "Laptop", Category: "Electronics", Price: 900},
		{ID: "5", Name: "Laptop Stand", Category: "Electronics", Price: 45},
	})
	if err != nil {
		t.Fatal(err)
	}
	idx, err := recall.NewTextIndex(cat)
	if err != nil {
		t.Fatal(err)
	}
	return idx, cat
}

func TestEvaluate(t *testing.T) {
	idx, cat := fixture(t)

	m, err := Evaluate(idx, cat, 2)
	if err != nil {
		t.Fatal(err)
	}

	// 三个值都在 [0,1]
	for name, v := range map[string]float64{"precision": m.Precision, "recall": m.Recall, "f1": m.F1} {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v, out of [0,1]", name, v)
		}
	}

	// 历史口径下 precision 与 recall 恒等，F1 也随之相等
	if m.Precision != m.Recall {
		t.Errorf("precision %v != recall %v (legacy metric must be identical)", m.Precision, m.Recall)
	}
	if math.Abs(m.F1-m.Precision) > 1e-12 {
		t.Errorf("f1 = %v, want %v when precision == recall", m.F1, m.Precision)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	idx, cat := fixture(t)
	first, err := Evaluate(idx, cat, 3)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Evaluate(idx, cat, 3)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("repeated evaluation differs: %+v vs %+v", first, second)
	}
}

func TestEvaluateCorrected(t *testing.T) {
	idx, cat := fixture(t)

	m, err := EvaluateCorrected(idx, cat, 1)
	if err != nil {
		t.Fatal(err)
	}
	legacy, err := Evaluate(idx, cat, 1)
	if err != nil {
		t.Fatal(err)
	}

	for name, v := range map[string]float64{"precision": m.Precision, "recall": m.Recall, "f1": m.F1} {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v, out of [0,1]", name, v)
		}
	}

	// 修正口径的 precision 与历史口径一致
	if m.Precision != legacy.Precision {
		t.Errorf("corrected precision %v != legacy precision %v", m.Precision, legacy.Precision)
	}

	// k=1 时每个查询只取 1 条，而 Kitchen 类有 2 个同类商品，
	// 真实召回率必然低于 precision==recall 的历史口径
	if m.Recall >= legacy.Recall {
		t.Errorf("corrected recall %v should be below legacy recall %v", m.Recall, legacy.Recall)
	}
}

func TestEvaluate_EmptyCatalog(t *testing.T) {
	if _, err := Evaluate(nil, nil, 3); !core.IsEmptyCatalog(err) {
		t.Errorf("error = %v, want EMPTY_CATALOG", err)
	}
}
