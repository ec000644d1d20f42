package recall

import (
	"testing"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
)

// mugCatalog 是一个最小的三商品目录：两个同类目的杯子和一台笔记本。
func mugCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.NewCatalog([]*core.Product{
		{ID: "1", Name: "Red Mug", Category: "Kitchen", Price: 10},
		{ID: "2", Name: "Blue Mug", Category: "Kitchen", Price: 12},
		{ID: "3", Name: "Laptop", Category: "Electronics", Price: 900},
	})
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestNewTextIndex_EmptyCatalog(t *testing.T) {
	if _, err := NewTextIndex(nil); !core.IsEmptyCatalog(err) {
		t.Errorf("NewTextIndex(nil) error = %v, want EMPTY_CATALOG", err)
	}

	empty, err := catalog.NewCatalog(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTextIndex(empty); !core.IsEmptyCatalog(err) {
		t.Errorf("NewTextIndex(empty) error = %v, want EMPTY_CATALOG", err)
	}
}

func TestTextIndex_SimilarTo(t *testing.T) {
	idx, err := NewTextIndex(mugCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	items, err := idx.SimilarTo("1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	// 同类目的 Blue Mug 排在 Laptop 之前
	if items[0].ID != "2" {
		t.Errorf("items[0].ID = %s, want 2", items[0].ID)
	}
	if items[1].ID != "3" {
		t.Errorf("items[1].ID = %s, want 3", items[1].ID)
	}

	// 不包含锚点商品自身
	for _, it := range items {
		if it.ID == "1" {
			t.Error("SimilarTo result contains the anchor product itself")
		}
	}

	// 相似度在 [-1, 1]
	for _, it := range items {
		if it.Score < -1-1e-9 || it.Score > 1+1e-9 {
			t.Errorf("score %v out of [-1, 1]", it.Score)
		}
	}
}

func TestTextIndex_SimilarToUnknownProduct(t *testing.T) {
	idx, err := NewTextIndex(mugCatalog(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := idx.SimilarTo("404", 2); !core.IsNotFound(err) {
		t.Errorf("SimilarTo(404) error = %v, want NOT_FOUND", err)
	}
}

func TestTextIndex_SimilarToQuery(t *testing.T) {
	idx, err := NewTextIndex(mugCatalog(t))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		query   string
		topK    int
		opts    []QueryOption
		wantIDs []string
	}{
		{
			name:    "query matches both mugs",
			query:   "red mug",
			topK:    2,
			wantIDs: []string{"1", "2"},
		},
		{
			name:    "max price excludes expensive mug",
			query:   "red mug",
			topK:    1,
			opts:    []QueryOption{WithMaxPrice(11)},
			wantIDs: []string{"1"},
		},
		{
			name:    "price filter before truncation keeps cheaper match",
			query:   "blue mug",
			topK:    1,
			opts:    []QueryOption{WithMaxPrice(11)},
			wantIDs: []string{"1"},
		},
		{
			name:    "legacy mode may under-return",
			query:   "blue mug",
			topK:    1,
			opts:    []QueryOption{WithMaxPrice(11), WithLegacyPriceFilter()},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := idx.SimilarToQuery(tt.query, tt.topK, tt.opts...)
			if err != nil {
				t.Fatal(err)
			}
			if len(items) != len(tt.wantIDs) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if items[i].ID != want {
					t.Errorf("items[%d].ID = %s, want %s", i, items[i].ID, want)
				}
			}
			// max_price 过滤后的结果不含超价商品
			for _, it := range items {
				price, _ := it.MetaFloat("price")
				for _, opt := range tt.opts {
					var o queryOptions
					opt(&o)
					if o.hasMaxPrice && price > o.maxPrice {
						t.Errorf("item %s price %v exceeds max price %v", it.ID, price, o.maxPrice)
					}
				}
			}
		})
	}
}

func TestTextIndex_SimilarToQueryBlank(t *testing.T) {
	idx, err := NewTextIndex(mugCatalog(t))
	if err != nil {
		t.Fatal(err)
	}
	for _, query := range []string{"", "   ", "\t\n"} {
		if _, err := idx.SimilarToQuery(query, 3); !core.IsInvalidQuery(err) {
			t.Errorf("SimilarToQuery(%q) error = %v, want INVALID_QUERY", query, err)
		}
	}
}

// 特征文本完全相同的商品之间相似度为 1，且并列时保持商品表原始行序。
func TestTextIndex_TieKeepsRowOrder(t *testing.T) {
	cat, err := catalog.NewCatalog([]*core.Product{
		{ID: "10", Name: "Ceramic Mug", Category: "Kitchen", Price: 8},
		{ID: "11", Name: "Ceramic Mug", Category: "Kitchen", Price: 9},
		{ID: "12", Name: "Ceramic Mug", Category: "Kitchen", Price: 7},
	})
	if err != nil {
		t.Fatal(err)
	}
	idx, err := NewTextIndex(cat)
	if err != nil {
		t.Fatal(err)
	}

	items, err := idx.SimilarToQuery("ceramic mug", 3)
	if err != nil {
		t.Fatal(err)
	}
	wantOrder := []string{"10", "11", "12"}
	for i, want := range wantOrder {
		if items[i].ID != want {
			t.Fatalf("tie order = %v, want %v", ids(items), wantOrder)
		}
	}
}

func ids(items []*core.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
