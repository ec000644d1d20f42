package recall

import (
	"context"
	"encoding/json"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Hot 是热销召回源：按销售额总和降序返回商品。
//   - 如果 Store 实现了 KeyValueStore，优先使用 ZRange（有序集合，按分数排序）
//   - 否则从普通 key 读取 JSON 数组
//   - Store 为空时直接从交易表聚合（fallback）
//
// Hot 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Hot struct {
	Store core.Store
	Key   string // 存储 key，例如 "hot:sales"
	TopK  int

	// Interactions / Catalog 用于无 Store 时的内存聚合与元信息补全
	Interactions *catalog.Interactions
	Catalog      *catalog.Catalog

	// IDs 是静态兜底榜单（配置驱动场景直接在 YAML 里给出）
	IDs []string
}

func (r *Hot) Name() string        { return "recall.hot" }
func (r *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Hot) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Hot) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}

	var ids []string

	// 优先从 Store 读取（支持 ZRange 或普通 Get）
	if r.Store != nil && r.Key != "" {
		if kvStore, ok := r.Store.(core.KeyValueStore); ok {
			members, err := kvStore.ZRange(ctx, r.Key, 0, int64(topK)-1)
			if err == nil && len(members) > 0 {
				ids = members
			}
		} else {
			data, err := r.Store.Get(ctx, r.Key)
			if err == nil {
				var parsed []string
				if json.Unmarshal(data, &parsed) == nil {
					ids = parsed
				}
			}
		}
	}

	// Fallback：内存聚合交易表，其次静态榜单
	if len(ids) == 0 && r.Interactions != nil {
		ids = r.Interactions.SortedProducts()
	}
	if len(ids) == 0 {
		ids = r.IDs
	}
	if len(ids) > topK {
		ids = ids[:topK]
	}

	out := make([]*core.Item, 0, len(ids))
	for rank, id := range ids {
		var it *core.Item
		if r.Catalog != nil {
			if p, ok := r.Catalog.Get(id); ok {
				it = core.ProductItem(p)
			}
		}
		if it == nil {
			it = core.NewItem(id)
		}
		// 分数用名次的倒数占位，保持降序可比
		it.Score = 1.0 / float64(rank+1)
		it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// PublishSales 把交易表聚合出的销售额写入 KeyValueStore 有序集合，
// 供在线 ZRange 召回使用。
func PublishSales(ctx context.Context, kv core.KeyValueStore, key string, interactions *catalog.Interactions) error {
	if key == "" {
		key = "hot:sales"
	}
	for id, total := range interactions.SalesByProduct() {
		if err := kv.ZAdd(ctx, key, total, id); err != nil {
			return err
		}
	}
	return nil
}
