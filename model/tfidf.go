package model

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// TFIDFVectorizer 把商品特征文本映射到统一的 TF-IDF 向量空间。
//
// 核心思想：
//   - 词频（TF）× 逆文档频率（IDF），常见词降权、区分词升权
//   - 每个文档向量做 L2 归一化，余弦相似度退化为点积
//
// 词表与 IDF 权重在 Fit 时学习并持久在实例里：后续查询文本必须用
// 同一实例 Transform，词表外（OOV）的词贡献为零。
type TFIDFVectorizer struct {
	// StopWords 为 nil 时使用内置英文停用词表
	StopWords map[string]struct{}

	vocab map[string]int // 词 -> 维度下标
	terms []string       // 维度下标 -> 词
	idf   []float64
}

// NewTFIDFVectorizer 创建带默认英文停用词表的向量化器。
func NewTFIDFVectorizer() *TFIDFVectorizer {
	return &TFIDFVectorizer{StopWords: englishStopWords}
}

// Fit 在整个语料上学习词表与 IDF，并返回每个文档的归一化稀疏向量
// （下标与 docs 一致）。
//
// IDF 采用平滑公式 ln((1+N)/(1+df)) + 1，避免除零并压低高频词。
func (v *TFIDFVectorizer) Fit(docs []string) ([]map[int]float64, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("tfidf: empty corpus")
	}

	stop := v.StopWords
	if stop == nil {
		stop = englishStopWords
	}

	// 第一遍：建词表 + 文档频率
	v.vocab = make(map[string]int, 256)
	v.terms = v.terms[:0]
	df := make([]int, 0, 256)
	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		tokens := Tokenize(doc, stop)
		tokenized[i] = tokens
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			idx, ok := v.vocab[tok]
			if !ok {
				idx = len(v.terms)
				v.vocab[tok] = idx
				v.terms = append(v.terms, tok)
				df = append(df, 0)
			}
			df[idx]++
		}
	}

	n := float64(len(docs))
	v.idf = make([]float64, len(df))
	for i, d := range df {
		v.idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	// 第二遍：TF×IDF + L2 归一化
	out := make([]map[int]float64, len(docs))
	for i, tokens := range tokenized {
		out[i] = v.vectorize(tokens)
	}
	return out, nil
}

// Transform 用已学习的词表把任意文本嵌入同一向量空间。
// 必须在 Fit 之后调用；OOV 词权重为零。
func (v *TFIDFVectorizer) Transform(text string) (map[int]float64, error) {
	if v.vocab == nil {
		return nil, fmt.Errorf("tfidf: vectorizer is not fitted")
	}
	stop := v.StopWords
	if stop == nil {
		stop = englishStopWords
	}
	return v.vectorize(Tokenize(text, stop)), nil
}

// VocabSize 返回词表大小。
func (v *TFIDFVectorizer) VocabSize() int {
	return len(v.terms)
}

func (v *TFIDFVectorizer) vectorize(tokens []string) map[int]float64 {
	vec := make(map[int]float64, len(tokens))
	for _, tok := range tokens {
		idx, ok := v.vocab[tok]
		if !ok {
			continue // OOV
		}
		vec[idx] += v.idf[idx]
	}
	normalizeL2(vec)
	return vec
}

// DotSparse 计算两个稀疏向量的点积。两个向量都已 L2 归一化时，
// 结果即余弦相似度，取值 [-1, 1]。
func DotSparse(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for k, av := range a {
		sum += av * b[k]
	}
	return sum
}

// Tokenize 切词：小写化，按非字母数字切分，丢弃单字符词和停用词。
func Tokenize(text string, stop map[string]struct{}) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, ok := stop[f]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

func normalizeL2(vec map[int]float64) {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for k, v := range vec {
		vec[k] = v / norm
	}
}

// englishStopWords 是内置英文停用词表（常用功能词）。
var englishStopWords = func() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "all", "am", "an", "and",
		"any", "are", "as", "at", "be", "because", "been", "before", "being",
		"below", "between", "both", "but", "by", "can", "did", "do", "does",
		"doing", "down", "during", "each", "few", "for", "from", "further",
		"had", "has", "have", "having", "he", "her", "here", "hers", "him",
		"his", "how", "if", "in", "into", "is", "it", "its", "just", "me",
		"more", "most", "my", "no", "nor", "not", "now", "of", "off", "on",
		"once", "only", "or", "other", "our", "out", "over", "own", "same",
		"she", "should", "so", "some", "such", "than", "that", "the", "their",
		"them", "then", "there", "these", "they", "this", "those", "through",
		"to", "too", "under", "until", "up", "very", "was", "we", "were",
		"what", "when", "where", "which", "while", "who", "whom", "why",
		"will", "with", "you", "your", "yours",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
