package model

import (
	"fmt"
	"math"
	"math/rand"
)

// TruncatedSVD 对稀疏交互矩阵做截断奇异值分解（低秩分解）。
//
// 核心思想：A ≈ U·Σ·Vᵀ，取前 k 个奇异方向
//   - 用户隐向量 = A·V（即 U·Σ，行 = 用户）
//   - 商品隐向量 = V（行 = 商品）
//   - 预测分数 = 用户隐向量 · 商品隐向量
//
// 实现方式：对 Gram 矩阵 AᵀA 做块幂迭代（block power iteration）求
// 前 k 个特征向量。初始向量由固定种子生成，结果可复现。
//
// 工程特征：
//   - 离线训练一次，在线查表点积
//   - 无增量更新：数据变化后整体重建
type TruncatedSVD struct {
	// Components 隐因子数 k，必须 <= min(行数, 列数)
	Components int

	// Seed 幂迭代初始化的随机种子，默认 42
	Seed int64

	// MaxIter 幂迭代最大轮数，默认 200
	MaxIter int

	// Tol 特征值收敛阈值，默认 1e-10
	Tol float64
}

// SVDResult 是一次分解的产物。三者共享同一套行/列下标，
// 重建矩阵后整套作废。
type SVDResult struct {
	UserFactors    [][]float64 // rows×k，即 U·Σ
	ItemFactors    [][]float64 // cols×k，即 V
	SingularValues []float64   // 奇异值，降序
}

// Fit 执行分解。k 超过矩阵维度时返回错误。
func (t *TruncatedSVD) Fit(m *SparseMatrix) (*SVDResult, error) {
	k := t.Components
	if k <= 0 {
		return nil, fmt.Errorf("svd: components must be positive, got %d", k)
	}
	if k > m.Rows || k > m.Cols {
		return nil, fmt.Errorf("svd: components %d exceeds matrix shape %dx%d", k, m.Rows, m.Cols)
	}

	seed := t.Seed
	if seed == 0 {
		seed = 42
	}
	maxIter := t.MaxIter
	if maxIter <= 0 {
		maxIter = 200
	}
	tol := t.Tol
	if tol <= 0 {
		tol = 1e-10
	}

	gram := m.Gram()
	n := m.Cols

	// 初始块：n×k，固定种子，保证确定性
	rng := rand.New(rand.NewSource(seed))
	v := make([][]float64, n)
	for i := range v {
		v[i] = make([]float64, k)
		for f := 0; f < k; f++ {
			v[i][f] = rng.NormFloat64()
		}
	}
	orthonormalize(v, k)

	eigen := make([]float64, k)
	prevSum := math.Inf(1)
	for iter := 0; iter < maxIter; iter++ {
		// W = G·V
		w := make([][]float64, n)
		for i := range w {
			w[i] = make([]float64, k)
			for j := 0; j < n; j++ {
				gij := gram[i][j]
				if gij == 0 {
					continue
				}
				for f := 0; f < k; f++ {
					w[i][f] += gij * v[j][f]
				}
			}
		}
		orthonormalize(w, k)
		v = w

		// Rayleigh 商估计特征值，检查收敛
		sum := 0.0
		for f := 0; f < k; f++ {
			eigen[f] = rayleigh(gram, v, f)
			sum += eigen[f]
		}
		if math.Abs(sum-prevSum) <= tol*math.Max(1, math.Abs(sum)) {
			break
		}
		prevSum = sum
	}

	// 按特征值降序排列各列
	order := sortedOrder(eigen)
	itemFactors := make([][]float64, n)
	for i := range itemFactors {
		itemFactors[i] = make([]float64, k)
		for f, src := range order {
			itemFactors[i][f] = v[i][src]
		}
	}
	singular := make([]float64, k)
	for f, src := range order {
		if eigen[src] > 0 {
			singular[f] = math.Sqrt(eigen[src])
		}
	}

	return &SVDResult{
		UserFactors:    m.MulDense(itemFactors, k),
		ItemFactors:    itemFactors,
		SingularValues: singular,
	}, nil
}

// orthonormalize 对 n×k 块的各列做修正 Gram-Schmidt 正交化。
// 列退化为零向量时用单位基向量兜底，保持基满秩且确定。
func orthonormalize(v [][]float64, k int) {
	n := len(v)
	for f := 0; f < k; f++ {
		for prev := 0; prev < f; prev++ {
			dot := 0.0
			for i := 0; i < n; i++ {
				dot += v[i][f] * v[i][prev]
			}
			for i := 0; i < n; i++ {
				v[i][f] -= dot * v[i][prev]
			}
		}
		norm := 0.0
		for i := 0; i < n; i++ {
			norm += v[i][f] * v[i][f]
		}
		norm = math.Sqrt(norm)
		if norm < 1e-12 {
			for i := 0; i < n; i++ {
				v[i][f] = 0
			}
			v[f%n][f] = 1
			continue
		}
		for i := 0; i < n; i++ {
			v[i][f] /= norm
		}
	}
}

// rayleigh 计算第 f 列的 Rayleigh 商 vᵀGv。
func rayleigh(gram [][]float64, v [][]float64, f int) float64 {
	n := len(v)
	out := 0.0
	for i := 0; i < n; i++ {
		if v[i][f] == 0 {
			continue
		}
		gv := 0.0
		for j := 0; j < n; j++ {
			gv += gram[i][j] * v[j][f]
		}
		out += v[i][f] * gv
	}
	return out
}

// sortedOrder 返回按值降序的下标排列。
func sortedOrder(vals []float64) []int {
	order := make([]int, len(vals))
	for i := range order {
		order[i] = i
	}
	for i := 0; i < len(order); i++ {
		maxIdx := i
		for j := i + 1; j < len(order); j++ {
			if vals[order[j]] > vals[order[maxIdx]] {
				maxIdx = j
			}
		}
		order[i], order[maxIdx] = order[maxIdx], order[i]
	}
	return order
}
