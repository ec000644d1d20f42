package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// PriceFilter 是价格过滤器：过滤掉价格高于上限的商品。
//
// 上限来源优先级：
//   - MaxPrice 字段（> 0 时生效）
//   - rctx.Params["max_price"]
//   - rctx.Params["budget"] × BudgetSlack
//
// 商品价格从 item.Meta["price"] 读取；无价格信息的商品保留。
type PriceFilter struct {
	// MaxPrice 固定价格上限，<= 0 表示从请求参数取
	MaxPrice float64

	// BudgetSlack 预算宽放系数，默认 1.0（不宽放）。
	// 购物问卷场景沿用 1.2：略超预算的商品也进入候选。
	BudgetSlack float64
}

func (f *PriceFilter) Name() string {
	return "filter.price"
}

func (f *PriceFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return false, nil
	}

	limit := f.MaxPrice
	if limit <= 0 && rctx != nil {
		if v, ok := rctx.ParamFloat("max_price"); ok {
			limit = v
		} else if budget, ok := rctx.ParamFloat("budget"); ok {
			slack := f.BudgetSlack
			if slack <= 0 {
				slack = 1.0
			}
			limit = budget * slack
		}
	}
	if limit <= 0 {
		return false, nil
	}

	price, ok := item.MetaFloat("price")
	if !ok {
		return false, nil
	}
	return price > limit, nil
}
