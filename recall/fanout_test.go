package recall

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/core"
)

// stubSource 是测试用召回源。
type stubSource struct {
	name  string
	items []string
	err   error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Recall(_ context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*core.Item, 0, len(s.items))
	for _, id := range s.items {
		out = append(out, core.NewItem(id))
	}
	return out, nil
}

func TestFanout_MergeFirst(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&stubSource{name: "a", items: []string{"1", "2"}},
			&stubSource{name: "b", items: []string{"2", "3"}},
		},
		Dedup: true,
	}

	items, err := fanout.Process(context.Background(), &core.RecommendContext{UserID: "7"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 after dedup", len(items))
	}
	seen := make(map[string]int)
	for _, it := range items {
		seen[it.ID]++
		if lbl, ok := it.Labels["recall_source"]; !ok || lbl.Value == "" {
			t.Errorf("item %s missing recall_source label", it.ID)
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("item %s appears %d times, want 1", id, n)
		}
	}
}

func TestFanout_MergeByPriority(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&stubSource{name: "primary", items: []string{"1"}},
			&stubSource{name: "secondary", items: []string{"1", "2"}},
		},
		Dedup:         true,
		MergeStrategy: "priority",
	}

	items, err := fanout.Process(context.Background(), &core.RecommendContext{UserID: "7"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	// 重复 ID 保留优先级更高（下标更小）的来源；
	// label 合并规则下 Value 以 '|' 累积，胜出来源排在最前
	for _, it := range items {
		if it.ID != "1" {
			continue
		}
		lbl, ok := it.Labels["recall_priority"]
		if !ok || len(lbl.Value) == 0 || lbl.Value[0] != '0' {
			t.Errorf("item 1 priority label = %+v, want from source index 0", lbl)
		}
	}
}

func TestFanout_SourceErrorDoesNotAbort(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&stubSource{name: "bad", err: context.DeadlineExceeded},
			&stubSource{name: "good", items: []string{"1"}},
		},
		Dedup: true,
	}

	items, err := fanout.Process(context.Background(), &core.RecommendContext{UserID: "7"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != "1" {
		t.Errorf("items = %v, want only item 1 from the healthy source", items)
	}
}

func TestFanout_NoSources(t *testing.T) {
	fanout := &Fanout{}
	items, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if items != nil {
		t.Errorf("items = %v, want nil", items)
	}
}
