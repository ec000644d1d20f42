package model

import (
	"math"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercase and split on punctuation",
			text: "Red-Mug, Kitchen!",
			want: []string{"red", "mug", "kitchen"},
		},
		{
			name: "drop single-char tokens",
			text: "a b mug",
			want: []string{"mug"},
		},
		{
			name: "drop stop words",
			text: "the mug and the laptop",
			want: []string{"mug", "laptop"},
		},
		{
			name: "keep digits",
			text: "iphone 15 pro",
			want: []string{"iphone", "15", "pro"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text, englishStopWords)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTFIDFVectorizer_Fit(t *testing.T) {
	v := NewTFIDFVectorizer()
	docs := []string{
		"Kitchen Red Mug",
		"Kitchen Blue Mug",
		"Electronics Laptop",
	}
	vectors, err := v.Fit(docs)
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 3 {
		t.Fatalf("len(vectors) = %d, want 3", len(vectors))
	}

	// 每个向量 L2 范数为 1
	for i, vec := range vectors {
		var norm float64
		for _, x := range vec {
			norm += x * x
		}
		if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
			t.Errorf("doc %d norm = %v, want 1", i, math.Sqrt(norm))
		}
	}

	// 同类目共享词（kitchen、mug）让 0/1 比 0/2 更相似
	simSame := DotSparse(vectors[0], vectors[1])
	simDiff := DotSparse(vectors[0], vectors[2])
	if simSame <= simDiff {
		t.Errorf("similarity within category %v <= across category %v", simSame, simDiff)
	}

	// 余弦相似度取值范围 [-1, 1]
	for _, sim := range []float64{simSame, simDiff} {
		if sim < -1-1e-9 || sim > 1+1e-9 {
			t.Errorf("similarity %v out of [-1, 1]", sim)
		}
	}
}

func TestTFIDFVectorizer_FitEmptyCorpus(t *testing.T) {
	v := NewTFIDFVectorizer()
	if _, err := v.Fit(nil); err == nil {
		t.Fatal("Fit(nil) expected error, got nil")
	}
}

func TestTFIDFVectorizer_Transform(t *testing.T) {
	v := NewTFIDFVectorizer()
	vectors, err := v.Fit([]string{"Kitchen Red Mug", "Electronics Laptop"})
	if err != nil {
		t.Fatal(err)
	}

	// 相同文本的查询向量与文档向量余弦相似度为 1
	q, err := v.Transform("Kitchen Red Mug")
	if err != nil {
		t.Fatal(err)
	}
	if sim := DotSparse(q, vectors[0]); math.Abs(sim-1) > 1e-9 {
		t.Errorf("identical text similarity = %v, want 1", sim)
	}

	// OOV 词贡献为零
	q2, err := v.Transform("red mug spaceship")
	if err != nil {
		t.Fatal(err)
	}
	for idx := range q2 {
		if v.terms[idx] == "spaceship" {
			t.Error("OOV term leaked into query vector")
		}
	}

	// 全 OOV 查询得到零向量，点积为 0
	q3, err := v.Transform("quantum flux")
	if err != nil {
		t.Fatal(err)
	}
	if sim := DotSparse(q3, vectors[0]); sim != 0 {
		t.Errorf("all-OOV query similarity = %v, want 0", sim)
	}
}

func TestTFIDFVectorizer_TransformNotFitted(t *testing.T) {
	v := NewTFIDFVectorizer()
	if _, err := v.Transform("mug"); err == nil {
		t.Fatal("Transform before Fit expected error, got nil")
	}
}
