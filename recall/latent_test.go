package recall

import (
	"testing"
	"time"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func latentFixture(t *testing.T) (*catalog.Interactions, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.NewCatalog([]*core.Product{
		{ID: "1", Name: "Red Mug", Category: "Kitchen", Price: 10},
		{ID: "2", Name: "Blue Mug", Category: "Kitchen", Price: 12},
		{ID: "3", Name: "Laptop", Category: "Electronics", Price: 900},
	})
	if err != nil {
		t.Fatal(err)
	}
	interactions := catalog.NewInteractions([]*core.Transaction{
		{UserID: "7", ProductID: "1", Amount: 50, PurchaseDate: day("2026-01-05")},
		{UserID: "8", ProductID: "2", Amount: 30, PurchaseDate: day("2026-01-06")},
		{UserID: "9", ProductID: "3", Amount: 900, PurchaseDate: day("2026-01-07")},
	})
	return interactions, cat
}

func TestNewLatentFactorRecommender_InsufficientData(t *testing.T) {
	interactions, cat := latentFixture(t)
	// 只有 3 个用户 / 3 个商品，k=5 不够
	if _, err := NewLatentFactorRecommender(interactions, cat, 5); !core.IsInsufficientData(err) {
		t.Errorf("error = %v, want INSUFFICIENT_DATA", err)
	}
}

func TestLatentFactorRecommender_SingleInteraction(t *testing.T) {
	cat, err := catalog.NewCatalog([]*core.Product{
		{ID: "1", Name: "Red Mug", Category: "Kitchen", Price: 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	interactions := catalog.NewInteractions([]*core.Transaction{
		{UserID: "7", ProductID: "1", Amount: 50, PurchaseDate: day("2026-01-05")},
	})

	rec, err := NewLatentFactorRecommender(interactions, cat, 1)
	if err != nil {
		t.Fatal(err)
	}

	// 有交互的用户拿到其购买过的商品，分数为正
	items := rec.Recommend("7", 1)
	if len(items) != 1 {
		t.Fatalf("Recommend(7) returned %d items, want 1", len(items))
	}
	if items[0].ID != "1" {
		t.Errorf("items[0].ID = %s, want 1", items[0].ID)
	}
	if items[0].Score <= 0 {
		t.Errorf("items[0].Score = %v, want > 0", items[0].Score)
	}
	if name, _ := items[0].MetaString("product_name"); name != "Red Mug" {
		t.Errorf("product_name = %q, want Red Mug", name)
	}

	// 交易表中没出现过的用户返回空结果，不是错误
	if items := rec.Recommend("99", 1); len(items) != 0 {
		t.Errorf("Recommend(99) returned %d items, want 0", len(items))
	}
}

func TestLatentFactorRecommender_Deterministic(t *testing.T) {
	interactions, cat := latentFixture(t)

	build := func() []string {
		rec, err := NewLatentFactorRecommender(interactions, cat, 2)
		if err != nil {
			t.Fatal(err)
		}
		return ids(rec.Recommend("7", 3))
	}

	first := build()
	second := build()
	if len(first) != len(second) {
		t.Fatalf("runs returned different lengths: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("runs differ at position %d: %v vs %v", i, first, second)
		}
	}
}

func TestLatentFactorRecommender_Shapes(t *testing.T) {
	interactions, cat := latentFixture(t)
	rec, err := NewLatentFactorRecommender(interactions, cat, 2)
	if err != nil {
		t.Fatal(err)
	}

	if rec.Factors() != 2 {
		t.Errorf("Factors() = %d, want 2", rec.Factors())
	}
	if rec.Users() != 3 || rec.Items() != 3 {
		t.Errorf("Users/Items = %d/%d, want 3/3", rec.Users(), rec.Items())
	}
	if vec := rec.UserVector("7"); len(vec) != 2 {
		t.Errorf("UserVector(7) len = %d, want 2", len(vec))
	}
	if vec := rec.UserVector("99"); vec != nil {
		t.Error("UserVector(99) should be nil for unknown user")
	}
	if vectors := rec.ItemVectors(); len(vectors) != 3 {
		t.Errorf("ItemVectors() len = %d, want 3", len(vectors))
	}
}

// 同一 (用户, 商品) 的多笔交易后写覆盖，不累加。
func TestLatentFactorRecommender_LastWriteWins(t *testing.T) {
	cat, err := catalog.NewCatalog([]*core.Product{
		{ID: "1", Name: "Red Mug", Category: "Kitchen", Price: 10},
		{ID: "2", Name: "Blue Mug", Category: "Kitchen", Price: 12},
	})
	if err != nil {
		t.Fatal(err)
	}

	// 用户 7 买了两次商品 1：一次大额，最后一次小额。
	// 覆盖语义下交互强度取最后一笔（小额），商品 2 的大额交互应胜出。
	interactions := catalog.NewInteractions([]*core.Transaction{
		{UserID: "7", ProductID: "1", Amount: 500, PurchaseDate: day("2026-01-01")},
		{UserID: "7", ProductID: "1", Amount: 1, PurchaseDate: day("2026-01-02")},
		{UserID: "7", ProductID: "2", Amount: 100, PurchaseDate: day("2026-01-03")},
		{UserID: "8", ProductID: "2", Amount: 50, PurchaseDate: day("2026-01-04")},
	})

	rec, err := NewLatentFactorRecommender(interactions, cat, 2)
	if err != nil {
		t.Fatal(err)
	}
	items := rec.Recommend("7", 2)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "2" {
		t.Errorf("top item = %s, want 2 (overwrite semantics)", items[0].ID)
	}
}
