package recall

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/model"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// LatentFactorRecommender 是基于矩阵分解（Matrix Factorization）的召回源。
//
// 核心思想：把用户×商品交互矩阵分解为用户隐向量和商品隐向量，
// 预测分数 = 用户隐向量 · 商品隐向量。
//
// 构建流程（一次性）：
//  1. 从交易表聚合交互强度：log1p(amount)
//  2. 行/列下标按用户/商品首次出现顺序固定（建好后不再变）
//  3. 截断 SVD 分解出 k 个隐因子
//
// 注意：同一 (用户, 商品) 出现多笔交易时，后一笔覆盖前一笔的交互值
// （不累加）。交易表里没出现过的用户/商品没有行/列，推荐结果为空。
//
// 产物只读；数据变化后用 core.Handle 整体重建替换。
type LatentFactorRecommender struct {
	// TopK 作为召回源使用时的默认返回数
	TopK int

	cat         *catalog.Catalog
	userIndex   map[string]int
	itemIDs     []string // 列下标 -> 商品 ID
	userFactors [][]float64
	itemFactors [][]float64
	k           int
}

// DefaultLatentFactors 是默认隐因子数。
const DefaultLatentFactors = 50

// NewLatentFactorRecommender 构建隐因子推荐器。
// k <= 0 时取 DefaultLatentFactors；用户数或商品数小于 k 时返回
// INSUFFICIENT_DATA 错误，不产出任何半成品。
func NewLatentFactorRecommender(interactions *catalog.Interactions, cat *catalog.Catalog, k int) (*LatentFactorRecommender, error) {
	if k <= 0 {
		k = DefaultLatentFactors
	}

	users := interactions.Users()
	items := interactions.Products()
	if len(users) < k || len(items) < k {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInsufficientData,
			fmt.Sprintf("latent: need at least %d distinct users and products, got %d users / %d products",
				k, len(users), len(items)))
	}

	userIndex := make(map[string]int, len(users))
	for i, u := range users {
		userIndex[u] = i
	}
	itemIndex := make(map[string]int, len(items))
	for i, p := range items {
		itemIndex[p] = i
	}

	matrix := model.NewSparseMatrix(len(users), len(items))
	for _, t := range interactions.All() {
		// 后写覆盖：同一单元格以最后一笔交易为准
		matrix.Set(userIndex[t.UserID], itemIndex[t.ProductID], math.Log1p(t.Amount))
	}

	svd := &model.TruncatedSVD{Components: k, Seed: 42}
	result, err := svd.Fit(matrix)
	if err != nil {
		return nil, fmt.Errorf("latent: fit: %w", err)
	}

	return &LatentFactorRecommender{
		cat:         cat,
		userIndex:   userIndex,
		itemIDs:     items,
		userFactors: result.UserFactors,
		itemFactors: result.ItemFactors,
		k:           k,
	}, nil
}

// Factors 返回隐因子数 k。
func (r *LatentFactorRecommender) Factors() int {
	return r.k
}

// Users 返回有隐向量的用户数。
func (r *LatentFactorRecommender) Users() int {
	return len(r.userIndex)
}

// Items 返回有隐向量的商品数。
func (r *LatentFactorRecommender) Items() int {
	return len(r.itemIDs)
}

// UserVector 返回用户隐向量；未知用户返回 nil。
func (r *LatentFactorRecommender) UserVector(userID string) []float64 {
	idx, ok := r.userIndex[userID]
	if !ok {
		return nil
	}
	return r.userFactors[idx]
}

// ItemVectors 返回 商品 ID -> 隐向量 的全量映射（用于导出到 Store）。
func (r *LatentFactorRecommender) ItemVectors() map[string][]float64 {
	out := make(map[string][]float64, len(r.itemIDs))
	for col, id := range r.itemIDs {
		out[id] = r.itemFactors[col]
	}
	return out
}

// Recommend 为用户计算 TopK 推荐。
//   - 未知用户（交易表中无行）返回空结果，不是错误
//   - 分数为非归一化内积，只有相对大小有意义
//   - 排序：分数降序，分数相同按商品 ID 升序，结果确定
func (r *LatentFactorRecommender) Recommend(userID string, topK int) []*core.Item {
	userIdx, ok := r.userIndex[userID]
	if !ok {
		return nil
	}
	if topK <= 0 {
		topK = 10
	}

	userVec := r.userFactors[userIdx]
	type scoredItem struct {
		col   int
		score float64
	}
	scores := make([]scoredItem, len(r.itemIDs))
	for col := range r.itemIDs {
		scores[col] = scoredItem{col: col, score: dotProduct(userVec, r.itemFactors[col])}
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return core.CompareProductID(r.itemIDs[scores[i].col], r.itemIDs[scores[j].col]) < 0
	})
	if len(scores) > topK {
		scores = scores[:topK]
	}

	out := make([]*core.Item, 0, len(scores))
	for _, s := range scores {
		id := r.itemIDs[s.col]
		var it *core.Item
		if p, ok := r.cat.Get(id); ok {
			it = core.ProductItem(p)
		} else {
			it = core.NewItem(id)
		}
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "latent", Source: "recall"})
		out = append(out, it)
	}
	return out
}

func (r *LatentFactorRecommender) Name() string        { return "recall.latent" }
func (r *LatentFactorRecommender) Kind() pipeline.Kind { return pipeline.KindRecall }

// Recall 实现 Source 接口。
func (r *LatentFactorRecommender) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	topK := r.TopK
	if topK <= 0 {
		topK = 10
	}
	return r.Recommend(rctx.UserID, topK), nil
}

// Process 实现 Node 接口，直接调用 Recall。
func (r *LatentFactorRecommender) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// dotProduct 计算两个向量的点积。
func dotProduct(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
