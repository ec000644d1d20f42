package core

import "github.com/rushteam/shoprec/pkg/utils"

// RecommendContext 承载用户/场景/请求信息，贯穿整个 Pipeline 透传。
// 一次请求一个实例，不依赖任何全局会话状态。
type RecommendContext struct {
	UserID string // 使用 string 类型（通用，支持所有 ID 格式）
	Scene  string

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	// 例如：新用户、价格敏感等
	Labels map[string]utils.Label

	// Params 请求级上下文参数，包含：
	// - query：文本检索词（similar_to_query 场景）
	// - budget / max_price：价格约束
	// - category：目标类目
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// ParamFloat 读取请求参数中的数值（budget、max_price 等）。
func (rctx *RecommendContext) ParamFloat(key string) (float64, bool) {
	if rctx.Params == nil {
		return 0, false
	}
	switch v := rctx.Params[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// ParamString 读取请求参数中的字符串（query、category 等）。
func (rctx *RecommendContext) ParamString(key string) (string, bool) {
	if rctx.Params == nil {
		return "", false
	}
	if s, ok := rctx.Params[key].(string); ok {
		return s, true
	}
	return "", false
}
