package model

// SparseMatrix 是行稀疏矩阵：每行一个 列下标 -> 值 的 map。
// 用于承载用户×商品交互矩阵（行 = 用户，列 = 商品）。
type SparseMatrix struct {
	Rows int
	Cols int
	data []map[int]float64
}

// NewSparseMatrix 创建 rows×cols 的空稀疏矩阵。
func NewSparseMatrix(rows, cols int) *SparseMatrix {
	return &SparseMatrix{
		Rows: rows,
		Cols: cols,
		data: make([]map[int]float64, rows),
	}
}

// Set 写入单元格。同一单元格重复写入时后写覆盖先写。
func (m *SparseMatrix) Set(i, j int, v float64) {
	if i < 0 || i >= m.Rows || j < 0 || j >= m.Cols {
		return
	}
	if m.data[i] == nil {
		m.data[i] = make(map[int]float64, 8)
	}
	m.data[i][j] = v
}

// Get 读取单元格，空单元格返回 0。
func (m *SparseMatrix) Get(i, j int) float64 {
	if i < 0 || i >= m.Rows || m.data[i] == nil {
		return 0
	}
	return m.data[i][j]
}

// Row 返回第 i 行的稀疏表示，可能为 nil。
func (m *SparseMatrix) Row(i int) map[int]float64 {
	if i < 0 || i >= m.Rows {
		return nil
	}
	return m.data[i]
}

// NNZ 返回非零元素个数。
func (m *SparseMatrix) NNZ() int {
	n := 0
	for _, row := range m.data {
		n += len(row)
	}
	return n
}

// Gram 计算 AᵀA（cols×cols 稠密矩阵）。
// 商品数在本场景下远小于交互数，稠密表示可接受。
func (m *SparseMatrix) Gram() [][]float64 {
	g := make([][]float64, m.Cols)
	for i := range g {
		g[i] = make([]float64, m.Cols)
	}
	for _, row := range m.data {
		for j1, v1 := range row {
			for j2, v2 := range row {
				g[j1][j2] += v1 * v2
			}
		}
	}
	return g
}

// MulDense 计算 A·V：V 是 cols×k 稠密矩阵，结果为 rows×k。
func (m *SparseMatrix) MulDense(v [][]float64, k int) [][]float64 {
	out := make([][]float64, m.Rows)
	for i := range out {
		out[i] = make([]float64, k)
		for j, val := range m.data[i] {
			for f := 0; f < k; f++ {
				out[i][f] += val * v[j][f]
			}
		}
	}
	return out
}
