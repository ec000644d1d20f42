// Package model 提供推荐核心用到的数值模型：
// 稀疏矩阵与截断 SVD（隐因子分解）、TF-IDF 向量化、以及排序模型抽象。
package model

// RankModel 是排序阶段的最小抽象：输入特征，输出一个可比较的分数。
type RankModel interface {
	Name() string
	Predict(features map[string]float64) (float64, error)
}
