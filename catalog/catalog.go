// Package catalog 提供商品表（Catalog）与交易表（Interactions）的内存实现。
//
// 两张表由外部数据（CSV 或生成器）加载，加载后视为稳定快照：
// 推荐产物（隐因子、文本索引、热销榜）都基于快照一次性构建。
// 商品表只支持按更大 ID 追加，追加后需要整体重建才会反映到推荐结果。
package catalog

import (
	"fmt"

	"github.com/rushteam/shoprec/core"
)

// Catalog 是内存商品表：保持加载顺序，同时按 ID 建索引。
type Catalog struct {
	products []*core.Product
	byID     map[string]*core.Product
}

// NewCatalog 从商品切片构建 Catalog。重复 ID 视为输入错误。
func NewCatalog(products []*core.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]*core.Product, 0, len(products)),
		byID:     make(map[string]*core.Product, len(products)),
	}
	for _, p := range products {
		if p == nil || p.ID == "" {
			continue
		}
		if _, ok := c.byID[p.ID]; ok {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		c.products = append(c.products, p)
		c.byID[p.ID] = p
	}
	return c, nil
}

// Len 返回商品数。
func (c *Catalog) Len() int {
	return len(c.products)
}

// Get 按 ID 查商品；不存在时返回 (nil, false)。
func (c *Catalog) Get(id string) (*core.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// All 按加载顺序返回全部商品。返回的切片为只读视图，调用方不应修改。
func (c *Catalog) All() []*core.Product {
	return c.products
}

// Append 追加一个新商品。约束：ID 必须严格大于当前最大 ID
// （两者都是整数形式时按数值比较），保证商品表追加有序。
func (c *Catalog) Append(p *core.Product) error {
	if p == nil || p.ID == "" {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: product id is empty")
	}
	if n := len(c.products); n > 0 {
		last := c.products[n-1]
		if core.CompareProductID(p.ID, last.ID) <= 0 {
			return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
				fmt.Sprintf("catalog: product id %q must be greater than %q", p.ID, last.ID))
		}
	}
	c.products = append(c.products, p)
	c.byID[p.ID] = p
	return nil
}

// Categories 返回去重后的类目列表，按首次出现顺序。
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool, 8)
	out := make([]string, 0, 8)
	for _, p := range c.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// Items 把若干商品 ID 转为携带元信息的链路 Item，跳过未知 ID。
func (c *Catalog) Items(ids []string) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		p, ok := c.byID[id]
		if !ok {
			continue
		}
		out = append(out, core.ProductItem(p))
	}
	return out
}
