package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func fixture(t *testing.T) (*catalog.Interactions, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.NewCatalog([]*core.Product{
		{ID: "1", Name: "Red Mug", Category: "Kitchen", Price: 10},
		{ID: "2", Name: "Laptop", Category: "Electronics", Price: 900},
	})
	if err != nil {
		t.Fatal(err)
	}
	interactions := catalog.NewInteractions([]*core.Transaction{
		{UserID: "7", ProductID: "1", Amount: 10, PurchaseDate: day("2026-01-05")},
		{UserID: "7", ProductID: "2", Amount: 900, PurchaseDate: day("2026-02-10")},
		{UserID: "8", ProductID: "1", Amount: 20, PurchaseDate: day("2026-01-20")},
		{UserID: "9", ProductID: "404", Amount: 5, PurchaseDate: day("2026-02-28")},
	})
	return interactions, cat
}

func TestSummarize(t *testing.T) {
	interactions, _ := fixture(t)
	kpi := Summarize(interactions)

	if kpi.TotalRevenue != 935 {
		t.Errorf("TotalRevenue = %v, want 935", kpi.TotalRevenue)
	}
	if kpi.OrderCount != 4 {
		t.Errorf("OrderCount = %d, want 4", kpi.OrderCount)
	}
	if kpi.UniqueUsers != 3 {
		t.Errorf("UniqueUsers = %d, want 3", kpi.UniqueUsers)
	}
	if math.Abs(kpi.AvgOrderValue-935.0/4) > 1e-9 {
		t.Errorf("AvgOrderValue = %v, want %v", kpi.AvgOrderValue, 935.0/4)
	}

	// 空表返回零值
	if got := Summarize(nil); got != (KPI{}) {
		t.Errorf("Summarize(nil) = %+v, want zero KPI", got)
	}
}

func TestRevenueByMonth(t *testing.T) {
	interactions, _ := fixture(t)
	got := RevenueByMonth(interactions)

	want := []MonthlyRevenue{
		{Month: "2026-01", Revenue: 30},
		{Month: "2026-02", Revenue: 905},
	}
	if len(got) != len(want) {
		t.Fatalf("RevenueByMonth = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RevenueByMonth[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRevenueByCategory(t *testing.T) {
	interactions, cat := fixture(t)
	got := RevenueByCategory(interactions, cat)

	// 营收降序；目录里找不到的商品计入 Unknown
	want := []CategoryRevenue{
		{Category: "Electronics", Revenue: 900},
		{Category: "Kitchen", Revenue: 30},
		{Category: "Unknown", Revenue: 5},
	}
	if len(got) != len(want) {
		t.Fatalf("RevenueByCategory = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RevenueByCategory[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTopProducts(t *testing.T) {
	interactions, _ := fixture(t)
	got := TopProducts(interactions, 2)
	// 销售额：2 → 900，1 → 30，404 → 5
	want := []string{"2", "1"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("TopProducts = %v, want %v", got, want)
	}
}
