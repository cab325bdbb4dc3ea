package feature

import (
	"context"
	"reflect"
	"testing"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/feast"
	"github.com/empowerverse/feedkit/model"
)

// fakeFeastClient 返回预置特征行，按实体行顺序对齐。
type fakeFeastClient struct {
	rows    []map[string]any
	lastReq *feast.GetOnlineFeaturesRequest
}

func (c *fakeFeastClient) GetOnlineFeatures(ctx context.Context, req *feast.GetOnlineFeaturesRequest) (*feast.GetOnlineFeaturesResponse, error) {
	c.lastReq = req
	vectors := make([]feast.FeatureVector, len(c.rows))
	for i, row := range c.rows {
		vectors[i] = feast.FeatureVector{Values: row, EntityRow: req.EntityRows[i]}
	}
	return &feast.GetOnlineFeaturesResponse{FeatureVectors: vectors}, nil
}

func (c *fakeFeastClient) Close() error { return nil }

func fullRow(base float64) map[string]any {
	row := make(map[string]any, len(defaultUserFeatures))
	for i, name := range defaultUserFeatures {
		row[name] = base + float64(i)
	}
	return row
}

func TestFeastNumericSource_NumericRows(t *testing.T) {
	client := &fakeFeastClient{rows: []map[string]any{fullRow(10), fullRow(100)}}
	src, err := NewFeastNumericSource(client)
	if err != nil {
		t.Fatalf("NewFeastNumericSource() error = %v", err)
	}

	users := []*core.User{{ID: 1}, {ID: 2}}
	rows, err := src.NumericRows(context.Background(), users)
	if err != nil {
		t.Fatalf("NumericRows() error = %v", err)
	}

	want := map[int64][]float64{
		1: {10, 11, 12, 13, 14, 15, 16},
		2: {100, 101, 102, 103, 104, 105, 106},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("NumericRows() = %v, want %v", rows, want)
	}

	// 实体行按 user_id 组装
	if got := client.lastReq.EntityRows[1]["user_id"]; got != int64(2) {
		t.Errorf("entity row user_id = %v, want 2", got)
	}
}

func TestFeastNumericSource_OmitsIncompleteRows(t *testing.T) {
	incomplete := fullRow(10)
	delete(incomplete, defaultUserFeatures[3])

	client := &fakeFeastClient{rows: []map[string]any{incomplete, fullRow(100)}}
	src, err := NewFeastNumericSource(client)
	if err != nil {
		t.Fatalf("NewFeastNumericSource() error = %v", err)
	}

	rows, err := src.NumericRows(context.Background(), []*core.User{{ID: 1}, {ID: 2}})
	if err != nil {
		t.Fatalf("NumericRows() error = %v", err)
	}
	if _, ok := rows[1]; ok {
		t.Error("user 1 with a missing feature should be omitted (caller falls back)")
	}
	if _, ok := rows[2]; !ok {
		t.Error("user 2 with a complete row should be present")
	}
}

func TestNewFeastNumericSource_Validation(t *testing.T) {
	if _, err := NewFeastNumericSource(nil); !core.IsInvalidInput(err) {
		t.Errorf("nil client error = %v, want INVALID_INPUT", err)
	}
	client := &fakeFeastClient{}
	if _, err := NewFeastNumericSource(client, "only:one"); !core.IsInvalidInput(err) {
		t.Errorf("wrong feature count error = %v, want INVALID_INPUT", err)
	}
}

func TestBuilder_RemoteNumericBlockOverridesCatalog(t *testing.T) {
	// user 1 有远端特征行，user 2 回落到 Catalog 字段（全 0）
	client := &fakeFeastClient{rows: []map[string]any{fullRow(10), nil}}
	src, err := NewFeastNumericSource(client)
	if err != nil {
		t.Fatalf("NewFeastNumericSource() error = %v", err)
	}

	dim := 9
	builder := NewBuilder(model.NewTextEncoder(nil, 32), dim, WithNumericSource(src))

	users := []*core.User{
		{ID: 1, Username: "alice", Bio: "trail runner"},
		{ID: 2, Username: "bob", Bio: "street food"},
	}
	vectors, err := builder.BuildUserVectors(context.Background(), users)
	if err != nil {
		t.Fatalf("BuildUserVectors() error = %v", err)
	}

	// 两行逐列 min-max：远端行每列最大 → 全 1；回落行全 0
	block1 := vectors[1][dim-NumericWidth:]
	block2 := vectors[2][dim-NumericWidth:]
	for i := 0; i < NumericWidth; i++ {
		if block1[i] != 1 {
			t.Errorf("user 1 numeric block[%d] = %v, want 1", i, block1[i])
		}
		if block2[i] != 0 {
			t.Errorf("user 2 numeric block[%d] = %v, want 0", i, block2[i])
		}
	}
}
