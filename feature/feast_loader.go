package feature

import (
	"context"
	"fmt"

	"github.com/empowerverse/feedkit/core"
	"github.com/empowerverse/feedkit/feast"
	"github.com/empowerverse/feedkit/pkg/conv"
)

// 用户数值块对应的 Feast 在线特征名，列序与 numericRow 一致。
var defaultUserFeatures = []string{
	"user_activity:follower_count",
	"user_activity:following_count",
	"user_activity:post_count",
	"user_activity:daily_login_streak",
	"user_activity:hourly_rate",
	"user_activity:latitude",
	"user_activity:longitude",
}

// FeastNumericSource 从 Feast Feature Store 拉取用户数值特征。
// 特征缺失的用户由 Builder 回落到 Catalog 快照字段。
type FeastNumericSource struct {
	client   feast.Client
	features []string
}

// NewFeastNumericSource 创建 Feast 数值特征源。
// features 为空时用默认的 user_activity 特征集。
func NewFeastNumericSource(client feast.Client, features ...string) (*FeastNumericSource, error) {
	if client == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: feast client is required")
	}
	if len(features) == 0 {
		features = defaultUserFeatures
	}
	if len(features) != NumericWidth {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
			fmt.Sprintf("feature: expected %d features, got %d", NumericWidth, len(features)))
	}
	return &FeastNumericSource{client: client, features: features}, nil
}

// NumericRows 实现 NumericSource：按用户批量拉取在线特征。
// 任一特征缺失的用户不出现在结果中（由调用方回落）。
func (s *FeastNumericSource) NumericRows(ctx context.Context, users []*core.User) (map[int64][]float64, error) {
	if len(users) == 0 {
		return map[int64][]float64{}, nil
	}

	entityRows := make([]map[string]any, len(users))
	for i, user := range users {
		entityRows[i] = map[string]any{"user_id": user.ID}
	}

	resp, err := s.client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   s.features,
		EntityRows: entityRows,
	})
	if err != nil {
		return nil, err
	}

	rows := make(map[int64][]float64, len(users))
	for i, fv := range resp.FeatureVectors {
		if i >= len(users) {
			break
		}
		row := make([]float64, 0, NumericWidth)
		complete := true
		for _, name := range s.features {
			f, ok := conv.ToFloat64(fv.Values[name])
			if !ok {
				complete = false
				break
			}
			row = append(row, f)
		}
		if complete {
			rows[users[i].ID] = row
		}
	}
	return rows, nil
}

var _ NumericSource = (*FeastNumericSource)(nil)
