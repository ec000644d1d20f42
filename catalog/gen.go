package catalog

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rushteam/shoprec/core"
)

// 合成数据生成器：用于示例与压测，产出与 CSV 导出同构的两张表。

// GenerateOptions 控制合成数据的规模。
type GenerateOptions struct {
	NumProducts     int   // 默认 50
	NumTransactions int   // 默认 500
	NumUsers        int   // 默认 50
	Seed            int64 // 随机种子，固定后可复现
}

var genCategories = []string{"Electronics", "Fashion", "Home & Living", "Sports", "Beauty"}

var genNames = map[string][]string{
	"Electronics": {"Smartphone", "Laptop", "Headphones", "Smart Watch", "Camera"},
	"Fashion":     {"T-Shirt", "Jeans", "Sneakers", "Jacket", "Dress"},
}

var genFallbackNames = []string{"Item", "Tool", "Accessory", "Decor", "Gadget"}

var genPrefixes = []string{"Pro", "Basic", "Super", "Ultra"}

// Generate 生成一份合成的商品表和交易表。
func Generate(opts GenerateOptions) (*Catalog, *Interactions, error) {
	if opts.NumProducts <= 0 {
		opts.NumProducts = 50
	}
	if opts.NumTransactions <= 0 {
		opts.NumTransactions = 500
	}
	if opts.NumUsers <= 0 {
		opts.NumUsers = 50
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	products := make([]*core.Product, 0, opts.NumProducts)
	for i := 1; i <= opts.NumProducts; i++ {
		category := genCategories[rng.Intn(len(genCategories))]

		var price float64
		var names []string
		switch category {
		case "Electronics":
			price = float64(100 + rng.Intn(1901))
			names = genNames[category]
		case "Fashion":
			price = float64(20 + rng.Intn(181))
			names = genNames[category]
		default:
			price = float64(10 + rng.Intn(91))
			names = genFallbackNames
		}

		tier := []string{"Budget", "Premium"}[rng.Intn(2)]
		badge := []string{"New", "Bestseller"}[rng.Intn(2)]

		products = append(products, &core.Product{
			ID:       fmt.Sprintf("%d", i),
			Name:     fmt.Sprintf("%s %s %d", genPrefixes[rng.Intn(len(genPrefixes))], names[rng.Intn(len(names))], i),
			Category: category,
			Price:    price,
			Rating:   float64(30+rng.Intn(21)) / 10, // 3.0 ~ 5.0
			Tags:     fmt.Sprintf("%s, %s, %s", category, tier, badge),
		})
	}

	cat, err := NewCatalog(products)
	if err != nil {
		return nil, nil, err
	}

	end := time.Now().Truncate(24 * time.Hour)
	transactions := make([]*core.Transaction, 0, opts.NumTransactions)
	for i := 1; i <= opts.NumTransactions; i++ {
		p := products[rng.Intn(len(products))]
		transactions = append(transactions, &core.Transaction{
			ID:           fmt.Sprintf("%d", i),
			UserID:       fmt.Sprintf("%d", 100+rng.Intn(opts.NumUsers)),
			ProductID:    p.ID,
			Amount:       p.Price,
			Quantity:     1 + rng.Intn(3),
			PurchaseDate: end.AddDate(0, 0, -rng.Intn(365)),
		})
	}

	return cat, NewInteractions(transactions), nil
}
