package filter

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rushteam/shoprec/catalog"
	"github.com/rushteam/shoprec/core"
)

// PurchasedFilter 是已购过滤器：过滤掉用户已经买过的商品。
// 支持两种数据源：
//  1. Interactions 交易快照（离线/单机场景）
//  2. core.Store，key 为 {KeyPrefix}:{UserID}，value 是 JSON 商品 ID 列表（在线场景）
//
// 两者都配置时优先读 Store，读不到回退到交易快照。
type PurchasedFilter struct {
	Interactions *catalog.Interactions

	Store     core.Store
	KeyPrefix string // 默认 "purchased"

	once      sync.Once
	purchased map[string]map[string]bool // userID -> productID 集合
}

func (f *PurchasedFilter) Name() string {
	return "filter.purchased"
}

func (f *PurchasedFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.UserID == "" {
		return false, nil
	}

	if f.Store != nil {
		prefix := f.KeyPrefix
		if prefix == "" {
			prefix = "purchased"
		}
		data, err := f.Store.Get(ctx, prefix+":"+rctx.UserID)
		if err == nil {
			var ids []string
			if json.Unmarshal(data, &ids) == nil {
				for _, id := range ids {
					if id == item.ID {
						return true, nil
					}
				}
				return false, nil
			}
		}
		// Store 读不到时回退到交易快照
	}

	if f.Interactions == nil {
		return false, nil
	}
	f.once.Do(func() {
		f.purchased = make(map[string]map[string]bool, 64)
		for _, t := range f.Interactions.All() {
			set := f.purchased[t.UserID]
			if set == nil {
				set = make(map[string]bool, 8)
				f.purchased[t.UserID] = set
			}
			set[t.ProductID] = true
		}
	})
	return f.purchased[rctx.UserID][item.ID], nil
}

// PublishPurchased 把交易快照中每个用户已购商品列表写入 Store，
// 供在线侧 PurchasedFilter 使用。
func PublishPurchased(ctx context.Context, s core.Store, keyPrefix string, interactions *catalog.Interactions) error {
	if keyPrefix == "" {
		keyPrefix = "purchased"
	}
	byUser := make(map[string][]string, 64)
	seen := make(map[string]map[string]bool, 64)
	for _, t := range interactions.All() {
		if seen[t.UserID] == nil {
			seen[t.UserID] = make(map[string]bool, 8)
		}
		if seen[t.UserID][t.ProductID] {
			continue
		}
		seen[t.UserID][t.ProductID] = true
		byUser[t.UserID] = append(byUser[t.UserID], t.ProductID)
	}

	kvs := make(map[string][]byte, len(byUser))
	for userID, ids := range byUser {
		data, err := json.Marshal(ids)
		if err != nil {
			return err
		}
		kvs[keyPrefix+":"+userID] = data
	}
	return s.BatchSet(ctx, kvs)
}
