// Package rank 提供排序 Node。
package rank

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// RuleNode 是购物问卷场景的规则打分 Node：
//   - 价格不超预算 +50 分
//   - 评分 × 10 分
//
// 预算取自 rctx.Params["budget"]。打分后按分数降序排列，
// 分数相同按商品 ID 升序，保证结果确定。
// - 写入 labels：rank_model = rule
type RuleNode struct {
	// BudgetBonus 预算内加分，默认 50
	BudgetBonus float64

	// RatingWeight 评分权重，默认 10
	RatingWeight float64
}

func (n *RuleNode) Name() string        { return "rank.rule" }
func (n *RuleNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *RuleNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	bonus := n.BudgetBonus
	if bonus <= 0 {
		bonus = 50
	}
	weight := n.RatingWeight
	if weight <= 0 {
		weight = 10
	}

	var budget float64
	hasBudget := false
	if rctx != nil {
		budget, hasBudget = rctx.ParamFloat("budget")
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		score := 0.0
		if hasBudget {
			if price, ok := it.MetaFloat("price"); ok && price <= budget {
				score += bonus
			}
		}
		if rating, ok := it.MetaFloat("rating"); ok {
			score += rating * weight
		}
		it.Score = score
		it.PutLabel("rank_model", utils.Label{Value: "rule", Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return core.CompareProductID(items[i].ID, items[j].ID) < 0
	})
	return items, nil
}
