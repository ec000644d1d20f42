package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// CategoryFilter 是类目过滤器：只保留目标类目的商品。
// 目标类目优先取 Category 字段，为空时取 rctx.Params["category"]。
// 两者都为空时不过滤。
type CategoryFilter struct {
	Category string
}

func (f *CategoryFilter) Name() string {
	return "filter.category"
}

func (f *CategoryFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return false, nil
	}

	target := f.Category
	if target == "" && rctx != nil {
		target, _ = rctx.ParamString("category")
	}
	if target == "" {
		return false, nil
	}

	category, ok := item.MetaString("category")
	if !ok {
		return false, nil
	}
	return category != target, nil
}
