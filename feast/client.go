package feast

import "context"

// Client 是 Feast Feature Store 的客户端接口。
//
// feedkit 只消费在线特征：特征构建时用它拉取用户的实时活跃度指标
// （follower/following/post 数、登录 streak、时薪等），
// 作为 Catalog 快照数值块的替代数据源。
//
// 参考：https://github.com/feast-dev/feast
type Client interface {
	// GetOnlineFeatures 获取在线特征（实时预测用）。
	//
	// 参数：
	//   - Features: 特征名称列表，例如 ["user_activity:follower_count"]
	//   - EntityRows: 实体行，例如 [{"user_id": 1001}]
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接。
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求。
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，例如 ["user_activity:follower_count"]
	Features []string

	// EntityRows 实体行，例如 [{"user_id": 1001}, {"user_id": 1002}]
	EntityRows []map[string]any

	// Project 项目名称（可选，缺省用客户端配置）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应。
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector
}

// FeatureVector 特征向量。
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]any

	// EntityRow 对应的实体行
	EntityRow map[string]any
}
