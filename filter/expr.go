package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/dsl"
)

// ExprFilter 是表达式过滤器：用 CEL 表达式描述"哪些商品应被移除"。
// 表达式求值为 true 的商品被过滤。
//
// 示例：
//   - `item.meta.price > 500.0`
//   - `item.meta.category != "Fashion"`
//   - `label.recall_source.contains("hot") && item.score < 0.1`
type ExprFilter struct {
	prg  *dsl.Program
	expr string
}

// NewExprFilter 编译表达式并创建过滤器。表达式非法时返回错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{prg: prg, expr: expr}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return false, nil
	}
	return f.prg.Eval(item, rctx)
}
