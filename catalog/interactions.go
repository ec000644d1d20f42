package catalog

import (
	"sort"
	"time"

	"github.com/rushteam/shoprec/core"
)

// Interactions 是内存交易表。推荐链路只做聚合读取，不修改行。
type Interactions struct {
	transactions []*core.Transaction
}

// NewInteractions 从交易切片构建 Interactions，保持输入顺序。
func NewInteractions(transactions []*core.Transaction) *Interactions {
	out := make([]*core.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t == nil || t.UserID == "" || t.ProductID == "" {
			continue
		}
		out = append(out, t)
	}
	return &Interactions{transactions: out}
}

// Len 返回交易数。
func (s *Interactions) Len() int {
	return len(s.transactions)
}

// All 按加载顺序返回全部交易。返回的切片为只读视图。
func (s *Interactions) All() []*core.Transaction {
	return s.transactions
}

// Users 返回去重后的用户 ID，按首次出现顺序（与矩阵行映射一致）。
func (s *Interactions) Users() []string {
	seen := make(map[string]bool, 64)
	out := make([]string, 0, 64)
	for _, t := range s.transactions {
		if seen[t.UserID] {
			continue
		}
		seen[t.UserID] = true
		out = append(out, t.UserID)
	}
	return out
}

// Products 返回去重后的商品 ID，按首次出现顺序（与矩阵列映射一致）。
func (s *Interactions) Products() []string {
	seen := make(map[string]bool, 64)
	out := make([]string, 0, 64)
	for _, t := range s.transactions {
		if seen[t.ProductID] {
			continue
		}
		seen[t.ProductID] = true
		out = append(out, t.ProductID)
	}
	return out
}

// SalesByProduct 聚合每个商品的销售额总和（热销榜数据源）。
func (s *Interactions) SalesByProduct() map[string]float64 {
	out := make(map[string]float64, 64)
	for _, t := range s.transactions {
		out[t.ProductID] += t.Amount
	}
	return out
}

// TimeRange 返回交易表的最早/最晚购买日期。空表返回零值。
func (s *Interactions) TimeRange() (time.Time, time.Time) {
	var min, max time.Time
	for _, t := range s.transactions {
		if t.PurchaseDate.IsZero() {
			continue
		}
		if min.IsZero() || t.PurchaseDate.Before(min) {
			min = t.PurchaseDate
		}
		if max.IsZero() || t.PurchaseDate.After(max) {
			max = t.PurchaseDate
		}
	}
	return min, max
}

// SortedProducts 返回按销售额降序的商品 ID，销售额相同按商品 ID 升序。
func (s *Interactions) SortedProducts() []string {
	sales := s.SalesByProduct()
	ids := make([]string, 0, len(sales))
	for id := range sales {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if sales[ids[i]] != sales[ids[j]] {
			return sales[ids[i]] > sales[ids[j]]
		}
		return core.CompareProductID(ids[i], ids[j]) < 0
	})
	return ids
}
