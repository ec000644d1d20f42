package catalog

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// EnrichNode 是商品信息补全节点：为链路上缺少元信息的 Item
// 从目录补齐 product_name / category / price 等 Meta 与数值 Features。
// 只读的召回源（如 Store 召回无 Catalog 时）之后挂这个节点即可。
// 目录里找不到的商品原样保留。
type EnrichNode struct {
	Catalog *Catalog

	// Overwrite 为 true 时覆盖已有 Meta，默认只补缺失字段
	Overwrite bool
}

func (n *EnrichNode) Name() string        { return "catalog.enrich" }
func (n *EnrichNode) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *EnrichNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Catalog == nil || len(items) == 0 {
		return items, nil
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		p, ok := n.Catalog.Get(it.ID)
		if !ok {
			continue
		}
		full := core.ProductItem(p)
		for k, v := range full.Meta {
			if n.Overwrite {
				it.Meta[k] = v
				continue
			}
			if _, exists := it.Meta[k]; !exists {
				it.Meta[k] = v
			}
		}
		for k, v := range full.Features {
			if n.Overwrite {
				it.Features[k] = v
				continue
			}
			if _, exists := it.Features[k]; !exists {
				it.Features[k] = v
			}
		}
	}
	return items, nil
}
