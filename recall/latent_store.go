package recall

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// LatentStore 是隐向量的存储接口：离线训练产物写入 Store，
// 在线按用户查表点积。
type LatentStore interface {
	// GetUserVector 获取用户的隐向量；不存在返回空切片
	GetUserVector(ctx context.Context, userID string) ([]float64, error)

	// GetItemVector 获取商品的隐向量；不存在返回空切片
	GetItemVector(ctx context.Context, itemID string) ([]float64, error)

	// GetAllItemVectors 获取所有商品隐向量（用于在线召回）
	GetAllItemVectors(ctx context.Context) (map[string][]float64, error)
}

// StoreLatentAdapter 把 core.Store（内存/Redis）适配为 LatentStore。
//
// key 约定：
//   - 用户隐向量：{KeyPrefix}:user:{userID}
//   - 商品隐向量：{KeyPrefix}:item:{itemID}
//   - 商品 ID 列表：{KeyPrefix}:items
type StoreLatentAdapter struct {
	store core.Store

	KeyPrefix string
}

// NewStoreLatentAdapter 创建隐向量存储适配器。
func NewStoreLatentAdapter(s core.Store, keyPrefix string) *StoreLatentAdapter {
	if keyPrefix == "" {
		keyPrefix = "latent"
	}
	return &StoreLatentAdapter{store: s, KeyPrefix: keyPrefix}
}

// SaveFactors 把一次训练的全部产物批量写入 Store。
func (a *StoreLatentAdapter) SaveFactors(ctx context.Context, r *LatentFactorRecommender, interactions *catalog.Interactions) error {
	kvs := make(map[string][]byte, r.Users()+r.Items()+1)

	for _, userID := range interactions.Users() {
		vec := r.UserVector(userID)
		if vec == nil {
			continue
		}
		data, err := json.Marshal(vec)
		if err != nil {
			return err
		}
		kvs[a.KeyPrefix+":user:"+userID] = data
	}

	itemVectors := r.ItemVectors()
	itemIDs := make([]string, 0, len(itemVectors))
	for itemID, vec := range itemVectors {
		data, err := json.Marshal(vec)
		if err != nil {
			return err
		}
		kvs[a.KeyPrefix+":item:"+itemID] = data
		itemIDs = append(itemIDs, itemID)
	}
	sort.Slice(itemIDs, func(i, j int) bool {
		return core.CompareProductID(itemIDs[i], itemIDs[j]) < 0
	})

	listData, err := json.Marshal(itemIDs)
	if err != nil {
		return err
	}
	kvs[a.KeyPrefix+":items"] = listData

	return a.store.BatchSet(ctx, kvs)
}

func (a *StoreLatentAdapter) GetUserVector(ctx context.Context, userID string) ([]float64, error) {
	return a.getVector(ctx, a.KeyPrefix+":user:"+userID)
}

func (a *StoreLatentAdapter) GetItemVector(ctx context.Context, itemID string) ([]float64, error) {
	return a.getVector(ctx, a.KeyPrefix+":item:"+itemID)
}

func (a *StoreLatentAdapter) getVector(ctx context.Context, key string) ([]float64, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []float64{}, nil
		}
		return nil, err
	}
	var result []float64
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (a *StoreLatentAdapter) GetAllItemVectors(ctx context.Context) (map[string][]float64, error) {
	itemsData, err := a.store.Get(ctx, a.KeyPrefix+":items")
	if err != nil {
		if core.IsStoreNotFound(err) {
			return make(map[string][]float64), nil
		}
		return nil, err
	}

	var itemIDs []string
	if err := json.Unmarshal(itemsData, &itemIDs); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		keys = append(keys, a.KeyPrefix+":item:"+id)
	}
	raw, err := a.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]float64, len(itemIDs))
	for _, id := range itemIDs {
		data, ok := raw[a.KeyPrefix+":item:"+id]
		if !ok {
			continue
		}
		var vec []float64
		if err := json.Unmarshal(data, &vec); err != nil {
			continue
		}
		if len(vec) > 0 {
			result[id] = vec
		}
	}
	return result, nil
}

var _ LatentStore = (*StoreLatentAdapter)(nil)

// StoreLatentRecall 是查表版隐因子召回源：隐向量从 LatentStore 读取
// （通常是 Redis），适合训练与服务分离的部署形态。
type StoreLatentRecall struct {
	Store LatentStore

	// TopK 返回 TopK 个商品
	TopK int

	// Catalog 可选，用于补全商品元信息
	Catalog *catalog.Catalog
}

func (r *StoreLatentRecall) Name() string        { return "recall.latent_store" }
func (r *StoreLatentRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Recall 实现 Source 接口。未知用户（无隐向量）返回空结果。
func (r *StoreLatentRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	userVector, err := r.Store.GetUserVector(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(userVector) == 0 {
		return nil, nil
	}

	allItemVectors, err := r.Store.GetAllItemVectors(ctx)
	if err != nil {
		return nil, err
	}

	type scoredItem struct {
		itemID string
		score  float64
	}
	scores := make([]scoredItem, 0, len(allItemVectors))
	for itemID, itemVector := range allItemVectors {
		scores = append(scores, scoredItem{
			itemID: itemID,
			score:  dotProduct(userVector, itemVector),
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return core.CompareProductID(scores[i].itemID, scores[j].itemID) < 0
	})

	topK := r.TopK
	if topK <= 0 {
		topK = 10
	}
	if len(scores) > topK {
		scores = scores[:topK]
	}

	out := make([]*core.Item, 0, len(scores))
	for _, s := range scores {
		var it *core.Item
		if r.Catalog != nil {
			if p, ok := r.Catalog.Get(s.itemID); ok {
				it = core.ProductItem(p)
			}
		}
		if it == nil {
			it = core.NewItem(s.itemID)
		}
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "latent_store", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// Process 实现 Node 接口，直接调用 Recall。
func (r *StoreLatentRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}
