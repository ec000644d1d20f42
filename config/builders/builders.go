// Package builders 注册内置 Node 的配置构建器。
// 使用配置驱动时 import _ "github.com/rushteam/shoprec/config/builders" 即可。
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/shoprec/config"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/model"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/conv"
	"github.com/rushteam/shoprec/rank"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
	"github.com/rushteam/shoprec/store"
)

func init() {
	config.Register("recall.hot", buildHotNode)
	config.Register("recall.latent_store", buildLatentStoreNode)
	config.Register("recall.fanout", buildFanoutNode)
	config.Register("filter", buildFilterNode)
	config.Register("rank.rule", buildRuleNode)
	config.Register("rank.model", buildModelNode)
	config.Register("rerank.topn", buildTopNNode)
	config.Register("rerank.diversity", buildDiversityNode)
}

// buildStore 根据配置构建 Store：
//
//	store:
//	  type: redis          # redis / memory，默认 memory
//	  addr: 127.0.0.1:6379
//	  password: ""
//	  db: 0
func buildStore(cfg map[string]interface{}) (core.Store, error) {
	sc, _ := cfg["store"].(map[string]interface{})
	typ := conv.ConfigGet(sc, "type", "memory")
	switch typ {
	case "redis":
		return store.NewRedisStore(&store.RedisConfig{
			Addr:     conv.ConfigGet(sc, "addr", "127.0.0.1:6379"),
			Password: conv.ConfigGet(sc, "password", ""),
			DB:       conv.ConfigGetInt(sc, "db", 0),
		})
	case "memory", "":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", typ)
	}
}

// buildHotNode 构建热销召回：
//
//	type: recall.hot
//	config:
//	  top_k: 20
//	  key: "hot:sales"
//	  ids: ["1", "2", "3"]        # 可选的静态兜底榜单
//	  store: {type: redis, addr: ...}
func buildHotNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &recall.Hot{
		TopK: conv.ConfigGetInt(cfg, "top_k", 20),
		Key:  conv.ConfigGet(cfg, "key", "hot:sales"),
		IDs:  conv.SliceAnyToString(cfg["ids"]),
	}
	if _, ok := cfg["store"]; ok {
		s, err := buildStore(cfg)
		if err != nil {
			return nil, fmt.Errorf("recall.hot: %w", err)
		}
		node.Store = s
	}
	return node, nil
}

// buildLatentStoreNode 构建基于 Store 的隐因子召回：
//
//	type: recall.latent_store
//	config:
//	  top_k: 10
//	  key_prefix: "latent"
//	  store: {type: redis, addr: ...}
func buildLatentStoreNode(cfg map[string]interface{}) (pipeline.Node, error) {
	s, err := buildStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("recall.latent_store: %w", err)
	}
	return &recall.StoreLatentRecall{
		Store: recall.NewStoreLatentAdapter(s, conv.ConfigGet(cfg, "key_prefix", "latent")),
		TopK:  conv.ConfigGetInt(cfg, "top_k", 10),
	}, nil
}

// buildFanoutNode 构建多路召回：
//
//	type: recall.fanout
//	config:
//	  dedup: true
//	  timeout_ms: 200
//	  max_concurrent: 4
//	  merge_strategy: priority   # first / union / priority
//	  sources:
//	    - {type: recall.hot, config: {...}}
//	    - {type: recall.latent_store, config: {...}}
//
// sources 中的每一项都会用已注册的构建器构建，且必须实现 recall.Source。
func buildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &recall.Fanout{
		Dedup:         conv.ConfigGet(cfg, "dedup", true),
		MaxConcurrent: conv.ConfigGetInt(cfg, "max_concurrent", 0),
		MergeStrategy: conv.ConfigGet(cfg, "merge_strategy", "first"),
	}
	if ms := conv.ConfigGetInt(cfg, "timeout_ms", 0); ms > 0 {
		node.Timeout = time.Duration(ms) * time.Millisecond
	}

	rawSources, _ := cfg["sources"].([]interface{})
	factory := config.DefaultFactory()
	for i, raw := range rawSources {
		sc, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("recall.fanout: sources[%d] must be a map", i)
		}
		typ := conv.ConfigGet(sc, "type", "")
		if typ == "" {
			return nil, fmt.Errorf("recall.fanout: sources[%d] missing type", i)
		}
		nodeCfg, _ := sc["config"].(map[string]interface{})
		built, err := factory.Build(typ, nodeCfg)
		if err != nil {
			return nil, fmt.Errorf("recall.fanout: build source %s: %w", typ, err)
		}
		src, ok := built.(recall.Source)
		if !ok {
			return nil, fmt.Errorf("recall.fanout: node %s is not a recall source", typ)
		}
		node.Sources = append(node.Sources, src)
	}
	return node, nil
}

// buildFilterNode 构建过滤 Node，支持组合多个子过滤器：
//
//	type: filter
//	config:
//	  filters:
//	    - {type: price, max_price: 500, budget_slack: 1.2}
//	    - {type: category, category: "Electronics"}
//	    - {type: expr, expr: 'item.meta.rating < 3.0'}
func buildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &filter.FilterNode{}

	rawFilters, _ := cfg["filters"].([]interface{})
	for i, raw := range rawFilters {
		fc, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("filter: filters[%d] must be a map", i)
		}
		typ := conv.ConfigGet(fc, "type", "")
		switch typ {
		case "price":
			node.Filters = append(node.Filters, &filter.PriceFilter{
				MaxPrice:    conv.ConfigGetFloat64(fc, "max_price", 0),
				BudgetSlack: conv.ConfigGetFloat64(fc, "budget_slack", 0),
			})
		case "category":
			node.Filters = append(node.Filters, &filter.CategoryFilter{
				Category: conv.ConfigGet(fc, "category", ""),
			})
		case "expr":
			expr := conv.ConfigGet(fc, "expr", "")
			f, err := filter.NewExprFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("filter: compile expr %q: %w", expr, err)
			}
			node.Filters = append(node.Filters, f)
		default:
			return nil, fmt.Errorf("filter: unknown filter type: %s", typ)
		}
	}
	return node, nil
}

// buildRuleNode 构建规则打分 Node：
//
//	type: rank.rule
//	config:
//	  budget_bonus: 50
//	  rating_weight: 10
func buildRuleNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rank.RuleNode{
		BudgetBonus:  conv.ConfigGetFloat64(cfg, "budget_bonus", 0),
		RatingWeight: conv.ConfigGetFloat64(cfg, "rating_weight", 0),
	}, nil
}

// buildModelNode 构建模型打分 Node（目前支持 LR）：
//
//	type: rank.model
//	config:
//	  bias: 0
//	  weights: {price: -0.002, rating: 0.5}
//	  path: "lr.json"     # 或从文件加载（与 weights 二选一）
func buildModelNode(cfg map[string]interface{}) (pipeline.Node, error) {
	if path := conv.ConfigGet(cfg, "path", ""); path != "" {
		lr, err := model.LoadLRModel(path)
		if err != nil {
			return nil, fmt.Errorf("rank.model: load %s: %w", path, err)
		}
		return &rank.ModelNode{Model: lr}, nil
	}

	weightsMap, ok := cfg["weights"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("rank.model: weights not found")
	}
	return &rank.ModelNode{Model: &model.LRModel{
		Bias:    conv.ConfigGetFloat64(cfg, "bias", 0),
		Weights: conv.MapToFloat64(weightsMap),
	}}, nil
}

func buildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

func buildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{LabelKey: conv.ConfigGet(cfg, "label_key", "")}, nil
}
