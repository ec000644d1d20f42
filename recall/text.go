package recall

import (
	"context"
	"sort"
	"strings"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/model"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// TextIndex 是基于内容的召回源（Content-Based Recommendation）。
//
// 构建流程（一次性）：
//  1. 每个商品取特征串：类目 + 名称（+ 标签）
//  2. 在全量商品语料上学习 TF-IDF 词表与权重
//  3. 每个商品得到一个 L2 归一化向量
//
// 查询形态：
//   - SimilarTo：以某商品为锚点找相似商品（排除自身）
//   - SimilarToQuery：任意文本检索（查询用同一词表嵌入，OOV 为零）
//
// 排序：余弦相似度降序；相似度相同保持商品表原始行序（稳定排序）。
type TextIndex struct {
	// TopK 作为召回源使用时的默认返回数
	TopK int

	products   []*core.Product // 构建时的商品快照，行序即向量下标
	rowByID    map[string]int
	vectorizer *model.TFIDFVectorizer
	vectors    []map[int]float64
}

// QueryOption 配置单次相似查询。
type QueryOption func(*queryOptions)

type queryOptions struct {
	maxPrice    float64
	hasMaxPrice bool
	legacyOrder bool
}

// WithMaxPrice 过滤掉价格高于 maxPrice 的候选。
// 默认在截断 TopK 之前过滤，较便宜的候选可以顶上。
func WithMaxPrice(maxPrice float64) QueryOption {
	return func(o *queryOptions) {
		o.maxPrice = maxPrice
		o.hasMaxPrice = true
	}
}

// WithLegacyPriceFilter 切换为旧版行为：先截断 TopK 再做价格过滤。
// 即使排名靠后存在更便宜的匹配，结果也可能少于 TopK。仅在需要
// 与旧版结果逐位兼容时使用。
func WithLegacyPriceFilter() QueryOption {
	return func(o *queryOptions) {
		o.legacyOrder = true
	}
}

// NewTextIndex 在商品表上构建文本相似索引。
// 商品表为空时返回 EMPTY_CATALOG 错误。
func NewTextIndex(cat *catalog.Catalog) (*TextIndex, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeEmptyCatalog,
			"text index: catalog is empty")
	}

	products := cat.All()
	docs := make([]string, len(products))
	rowByID := make(map[string]int, len(products))
	for i, p := range products {
		docs[i] = p.FeatureText()
		rowByID[p.ID] = i
	}

	vectorizer := model.NewTFIDFVectorizer()
	vectors, err := vectorizer.Fit(docs)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeEmptyCatalog,
			"text index: "+err.Error())
	}

	snapshot := make([]*core.Product, len(products))
	copy(snapshot, products)

	return &TextIndex{
		products:   snapshot,
		rowByID:    rowByID,
		vectorizer: vectorizer,
		vectors:    vectors,
	}, nil
}

// Len 返回索引里的商品数。
func (idx *TextIndex) Len() int {
	return len(idx.products)
}

// SimilarTo 返回与指定商品最相似的 TopK 商品，排除商品自身。
// 未知商品 ID 返回 NOT_FOUND 错误。
func (idx *TextIndex) SimilarTo(productID string, topK int, opts ...QueryOption) ([]*core.Item, error) {
	row, ok := idx.rowByID[productID]
	if !ok {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeNotFound,
			"text index: unknown product "+productID)
	}
	return idx.rank(idx.vectors[row], topK, row, opts), nil
}

// SimilarToQuery 把自由文本嵌入同一向量空间并返回最相似的 TopK 商品。
// 查询不是商品，不做自身排除；空白查询返回 INVALID_QUERY 错误。
func (idx *TextIndex) SimilarToQuery(query string, topK int, opts ...QueryOption) ([]*core.Item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidQuery,
			"text index: empty query")
	}
	vec, err := idx.vectorizer.Transform(query)
	if err != nil {
		return nil, err
	}
	return idx.rank(vec, topK, -1, opts), nil
}

// rank 对全部商品向量打分并按选项过滤/截断。excludeRow < 0 表示不排除。
func (idx *TextIndex) rank(query map[int]float64, topK int, excludeRow int, opts []QueryOption) []*core.Item {
	var o queryOptions
	for _, apply := range opts {
		apply(&o)
	}
	if topK <= 0 {
		topK = 6
	}

	type scoredRow struct {
		row   int
		score float64
	}
	scores := make([]scoredRow, 0, len(idx.vectors))
	for row, vec := range idx.vectors {
		if row == excludeRow {
			continue
		}
		scores = append(scores, scoredRow{row: row, score: model.DotSparse(query, vec)})
	}

	// 稳定排序：相似度相同保持原始行序
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	withinBudget := func(s scoredRow) bool {
		return !o.hasMaxPrice || idx.products[s.row].Price <= o.maxPrice
	}

	selected := make([]scoredRow, 0, topK)
	if o.legacyOrder {
		// 旧版：先截断再过滤，可能少于 TopK
		if len(scores) > topK {
			scores = scores[:topK]
		}
		for _, s := range scores {
			if withinBudget(s) {
				selected = append(selected, s)
			}
		}
	} else {
		for _, s := range scores {
			if len(selected) >= topK {
				break
			}
			if withinBudget(s) {
				selected = append(selected, s)
			}
		}
	}

	out := make([]*core.Item, 0, len(selected))
	for _, s := range selected {
		it := core.ProductItem(idx.products[s.row])
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "text", Source: "recall"})
		out = append(out, it)
	}
	return out
}

func (idx *TextIndex) Name() string        { return "recall.text" }
func (idx *TextIndex) Kind() pipeline.Kind { return pipeline.KindRecall }

// Recall 实现 Source 接口：query 取自 rctx.Params["query"]，
// 可选 max_price 参数作为价格过滤。
func (idx *TextIndex) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	query, ok := rctx.ParamString("query")
	if !ok || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	opts := make([]QueryOption, 0, 1)
	if maxPrice, ok := rctx.ParamFloat("max_price"); ok {
		opts = append(opts, WithMaxPrice(maxPrice))
	}
	return idx.SimilarToQuery(query, idx.TopK, opts...)
}

// Process 实现 Node 接口，直接调用 Recall。
func (idx *TextIndex) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return idx.Recall(ctx, rctx)
}
