// Package analytics 提供销售看板的聚合统计：KPI、月度营收趋势、类目营收。
// 所有统计都是对交易快照的纯函数，无副作用。
package analytics

import (
	"sort"

	"github.com/rushteam/shoprec/catalog"
)

// KPI 是看板顶部的核心指标。
type KPI struct {
	TotalRevenue  float64 // 总营收（金额求和）
	OrderCount    int     // 订单数（交易条数）
	UniqueUsers   int     // 下过单的用户数
	AvgOrderValue float64 // 客单价（总营收 / 订单数）
}

// MonthlyRevenue 是某个自然月的营收。
type MonthlyRevenue struct {
	Month   string // "2006-01" 格式
	Revenue float64
}

// CategoryRevenue 是某个类目的营收。
type CategoryRevenue struct {
	Category string
	Revenue  float64
}

// Summarize 计算核心 KPI。空交易表返回零值。
func Summarize(interactions *catalog.Interactions) KPI {
	if interactions == nil || interactions.Len() == 0 {
		return KPI{}
	}

	var total float64
	for _, t := range interactions.All() {
		total += t.Amount
	}

	kpi := KPI{
		TotalRevenue: total,
		OrderCount:   interactions.Len(),
		UniqueUsers:  len(interactions.Users()),
	}
	kpi.AvgOrderValue = total / float64(kpi.OrderCount)
	return kpi
}

// RevenueByMonth 按自然月聚合营收，按月份升序返回。
func RevenueByMonth(interactions *catalog.Interactions) []MonthlyRevenue {
	if interactions == nil || interactions.Len() == 0 {
		return nil
	}

	byMonth := make(map[string]float64, 12)
	for _, t := range interactions.All() {
		month := t.PurchaseDate.Format("2006-01")
		byMonth[month] += t.Amount
	}

	out := make([]MonthlyRevenue, 0, len(byMonth))
	for month, revenue := range byMonth {
		out = append(out, MonthlyRevenue{Month: month, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// RevenueByCategory 按商品类目聚合营收（关联目录取类目），按营收降序返回。
// 找不到对应商品的交易计入 "Unknown" 类目。
// 营收相同时按类目名升序，保证结果确定。
func RevenueByCategory(interactions *catalog.Interactions, cat *catalog.Catalog) []CategoryRevenue {
	if interactions == nil || interactions.Len() == 0 {
		return nil
	}

	byCategory := make(map[string]float64, 8)
	for _, t := range interactions.All() {
		category := "Unknown"
		if cat != nil {
			if p, ok := cat.Get(t.ProductID); ok {
				category = p.Category
			}
		}
		byCategory[category] += t.Amount
	}

	out := make([]CategoryRevenue, 0, len(byCategory))
	for category, revenue := range byCategory {
		out = append(out, CategoryRevenue{Category: category, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TopProducts 返回销售额最高的 n 个商品 ID（销售额降序，ID 升序打破并列）。
func TopProducts(interactions *catalog.Interactions, n int) []string {
	if interactions == nil {
		return nil
	}
	ids := interactions.SortedProducts()
	if n > 0 && len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
