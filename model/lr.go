package model

import (
	"encoding/json"
	"math"
	"os"
)

// LRModel 实现逻辑回归 (Logistic Regression) 模型，
// 用于购买概率 / 点击率预估这类二分类打分。
//
// 预测：z = Bias + sum(Weight_i * Feature_i)，输出 Sigmoid(z)，
// 范围 (0, 1)，可直接作为排序分数。
type LRModel struct {
	Bias    float64            // 偏置项
	Weights map[string]float64 // 特征权重，key 对应 item.Features 的特征名
}

// LoadLRModel 从 JSON 文件加载权重（离线训练产物）。
func LoadLRModel(path string) (*LRModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Bias    float64            `json:"bias"`
		Weights map[string]float64 `json:"weights"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &LRModel{Bias: raw.Bias, Weights: raw.Weights}, nil
}

func (m *LRModel) Name() string { return "lr" }

func (m *LRModel) Predict(features map[string]float64) (float64, error) {
	score := m.Bias
	for k, v := range features {
		if w, ok := m.Weights[k]; ok {
			score += w * v
		}
	}
	return 1 / (1 + math.Exp(-score)), nil
}
