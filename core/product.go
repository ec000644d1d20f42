package core

import (
	"strconv"
	"strings"
	"time"
)

// Product 是商品表的一行。Catalog 加载后不可变，只允许按更大的
// ProductID 追加新行。
type Product struct {
	ID       string  // 商品唯一 ID（整数或字符串形式）
	Name     string  // 商品名称
	Category string  // 类目标签
	Price    float64 // 价格（>= 0）
	Rating   float64 // 评分 [0,5]，0 表示缺失
	Tags     string  // 自由文本标签（可选）
}

// FeatureText 返回用于文本向量化的特征串：类目 + 名称（+ 标签）。
func (p *Product) FeatureText() string {
	parts := make([]string, 0, 3)
	if p.Category != "" {
		parts = append(parts, p.Category)
	}
	if p.Name != "" {
		parts = append(parts, p.Name)
	}
	if p.Tags != "" {
		parts = append(parts, p.Tags)
	}
	return strings.Join(parts, " ")
}

// Transaction 是交易表的一行。推荐链路只读，不做逐行消费。
type Transaction struct {
	ID           string    // 交易 ID（可选）
	UserID       string    // 用户 ID
	ProductID    string    // 商品 ID（外键指向 Product）
	Amount       float64   // 金额（> 0）
	Quantity     int       // 数量（可选）
	PurchaseDate time.Time // 购买日期
}

// CompareProductID 比较两个商品 ID：两者都是整数形式时按数值比较，
// 否则按字典序。用于分数相同时的确定性排序。
func CompareProductID(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// ProductItem 把商品封装为链路 Item：Meta 携带完整商品属性，
// 供调用方直接渲染结果（ProductView）。
func ProductItem(p *Product) *Item {
	it := NewItem(p.ID)
	it.Meta["product_name"] = p.Name
	it.Meta["category"] = p.Category
	it.Meta["price"] = p.Price
	if p.Rating > 0 {
		it.Meta["rating"] = p.Rating
	}
	if p.Tags != "" {
		it.Meta["tags"] = p.Tags
	}
	// 数值属性同时进 Features，供模型排序直接消费
	it.Features["price"] = p.Price
	if p.Rating > 0 {
		it.Features["rating"] = p.Rating
	}
	return it
}
