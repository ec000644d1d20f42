package filter

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
)

func productItem(id string, price float64, category string) *core.Item {
	it := core.NewItem(id)
	it.Meta["price"] = price
	it.Meta["category"] = category
	return it
}

func TestPriceFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter *PriceFilter
		rctx   *core.RecommendContext
		item   *core.Item
		want   bool
	}{
		{
			name:   "fixed max price filters expensive item",
			filter: &PriceFilter{MaxPrice: 100},
			item:   productItem("1", 150, "Kitchen"),
			want:   true,
		},
		{
			name:   "fixed max price keeps cheap item",
			filter: &PriceFilter{MaxPrice: 100},
			item:   productItem("1", 99, "Kitchen"),
			want:   false,
		},
		{
			name:   "max_price param used when no fixed limit",
			filter: &PriceFilter{},
			rctx:   &core.RecommendContext{Params: map[string]any{"max_price": 50.0}},
			item:   productItem("1", 60, "Kitchen"),
			want:   true,
		},
		{
			name:   "budget with slack keeps slightly over-budget item",
			filter: &PriceFilter{BudgetSlack: 1.2},
			rctx:   &core.RecommendContext{Params: map[string]any{"budget": 100.0}},
			item:   productItem("1", 115, "Kitchen"),
			want:   false,
		},
		{
			name:   "budget with slack filters far over-budget item",
			filter: &PriceFilter{BudgetSlack: 1.2},
			rctx:   &core.RecommendContext{Params: map[string]any{"budget": 100.0}},
			item:   productItem("1", 121, "Kitchen"),
			want:   true,
		},
		{
			name:   "no limit keeps everything",
			filter: &PriceFilter{},
			item:   productItem("1", 9999, "Kitchen"),
			want:   false,
		},
		{
			name:   "item without price meta is kept",
			filter: &PriceFilter{MaxPrice: 10},
			item:   core.NewItem("1"),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.ShouldFilter(context.Background(), tt.rctx, tt.item)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategoryFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter *CategoryFilter
		rctx   *core.RecommendContext
		item   *core.Item
		want   bool
	}{
		{
			name:   "keep matching category",
			filter: &CategoryFilter{Category: "Kitchen"},
			item:   productItem("1", 10, "Kitchen"),
			want:   false,
		},
		{
			name:   "filter other category",
			filter: &CategoryFilter{Category: "Kitchen"},
			item:   productItem("1", 10, "Electronics"),
			want:   true,
		},
		{
			name:   "category from request params",
			filter: &CategoryFilter{},
			rctx:   &core.RecommendContext{Params: map[string]any{"category": "Kitchen"}},
			item:   productItem("1", 10, "Electronics"),
			want:   true,
		},
		{
			name:   "no target category keeps everything",
			filter: &CategoryFilter{},
			item:   productItem("1", 10, "Electronics"),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.ShouldFilter(context.Background(), tt.rctx, tt.item)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter(`item.meta.price > 500.0`)
	if err != nil {
		t.Fatal(err)
	}

	filtered, err := f.ShouldFilter(context.Background(), nil, productItem("1", 900, "Electronics"))
	if err != nil {
		t.Fatal(err)
	}
	if !filtered {
		t.Error("expensive item should be filtered")
	}

	kept, err := f.ShouldFilter(context.Background(), nil, productItem("2", 10, "Kitchen"))
	if err != nil {
		t.Fatal(err)
	}
	if kept {
		t.Error("cheap item should be kept")
	}
}

func TestNewExprFilter_BadExpression(t *testing.T) {
	if _, err := NewExprFilter(`item.meta.price >`); err == nil {
		t.Fatal("invalid expression expected error, got nil")
	}
}

func TestPurchasedFilter(t *testing.T) {
	interactions := catalog.NewInteractions([]*core.Transaction{
		{UserID: "7", ProductID: "1", Amount: 10},
		{UserID: "7", ProductID: "2", Amount: 20},
		{UserID: "8", ProductID: "3", Amount: 30},
	})
	f := &PurchasedFilter{Interactions: interactions}

	tests := []struct {
		name   string
		userID string
		itemID string
		want   bool
	}{
		{name: "filter already purchased", userID: "7", itemID: "1", want: true},
		{name: "keep unpurchased", userID: "7", itemID: "3", want: false},
		{name: "other user's purchase does not filter", userID: "8", itemID: "1", want: false},
		{name: "unknown user keeps everything", userID: "99", itemID: "1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := &core.RecommendContext{UserID: tt.userID}
			got, err := f.ShouldFilter(context.Background(), rctx, core.NewItem(tt.itemID))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterNode(t *testing.T) {
	node := &FilterNode{
		Filters: []Filter{
			&PriceFilter{MaxPrice: 100},
			&CategoryFilter{Category: "Kitchen"},
		},
	}

	items := []*core.Item{
		productItem("1", 10, "Kitchen"),      // 保留
		productItem("2", 150, "Kitchen"),     // 超价
		productItem("3", 50, "Electronics"),  // 类目不符
		nil,                                  // nil 跳过
	}

	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "1" {
		t.Fatalf("Process result = %v, want only item 1", out)
	}
}
