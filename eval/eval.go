// Package eval 提供文本相似索引的离线评估。
//
// 评估方式：对目录中每个商品取 top-k 相似商品，同类目视为相关，
// 在整体的二值相关序列上统计 precision / recall / F1。
package eval

import (
	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/recall"
)

// Metrics 是一次评估的汇总指标，三个值都在 [0,1]。
type Metrics struct {
	Precision float64
	Recall    float64
	F1        float64
}

// Evaluate 按照原始口径评估：每条被检索到的推荐都计为一次"检索尝试"，
// 真值恒为 1，从不统计未被检索到的正例。
//
// 该口径下 Recall 与 Precision 在数学上恒等（这是沿袭下来的指标缺陷，
// 对齐历史口径时保留）。需要真实召回率时使用 EvaluateCorrected。
// 无副作用，固定 k 与固定索引下可重复调用且结果确定。
func Evaluate(index *recall.TextIndex, cat *catalog.Catalog, k int) (Metrics, error) {
	relevant, retrieved, _, err := accumulate(index, cat, k)
	if err != nil {
		return Metrics{}, err
	}
	if retrieved == 0 {
		return Metrics{}, nil
	}

	precision := float64(relevant) / float64(retrieved)
	recallVal := precision // 真值全为 1 时二者恒等
	return Metrics{
		Precision: precision,
		Recall:    recallVal,
		F1:        f1(precision, recallVal),
	}, nil
}

// EvaluateCorrected 计算修正口径：召回率的分母是每个查询商品的完整相关集
// （同类目的其它所有商品），而不是被检索到的条数。
// Precision 口径与 Evaluate 相同。
func EvaluateCorrected(index *recall.TextIndex, cat *catalog.Catalog, k int) (Metrics, error) {
	relevant, retrieved, totalRelevant, err := accumulate(index, cat, k)
	if err != nil {
		return Metrics{}, err
	}

	var precision, recallVal float64
	if retrieved > 0 {
		precision = float64(relevant) / float64(retrieved)
	}
	if totalRelevant > 0 {
		recallVal = float64(relevant) / float64(totalRelevant)
	}
	return Metrics{
		Precision: precision,
		Recall:    recallVal,
		F1:        f1(precision, recallVal),
	}, nil
}

// accumulate 对目录中每个商品执行一次 top-k 查询并累计：
//   - relevant：被检索到且类目相同的条数
//   - retrieved：被检索到的总条数
//   - totalRelevant：所有查询商品的相关集大小之和（同类目商品数 - 1）
func accumulate(index *recall.TextIndex, cat *catalog.Catalog, k int) (relevant, retrieved, totalRelevant int, err error) {
	if index == nil || cat == nil || cat.Len() == 0 {
		return 0, 0, 0, core.NewDomainError(core.ModuleEval, core.ErrorCodeEmptyCatalog,
			"evaluate: empty catalog or nil index")
	}

	categoryCount := make(map[string]int, 8)
	for _, p := range cat.All() {
		categoryCount[p.Category]++
	}

	for _, p := range cat.All() {
		items, qerr := index.SimilarTo(p.ID, k)
		if qerr != nil {
			return 0, 0, 0, qerr
		}
		retrieved += len(items)
		totalRelevant += categoryCount[p.Category] - 1
		for _, it := range items {
			if category, ok := it.MetaString("category"); ok && category == p.Category {
				relevant++
			}
		}
	}
	return relevant, retrieved, totalRelevant, nil
}

func f1(precision, recallVal float64) float64 {
	if precision+recallVal == 0 {
		return 0
	}
	return 2 * precision * recallVal / (precision + recallVal)
}
