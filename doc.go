// Package feedkit 是面向内容社区的混合推荐与检索引擎。
//
// 核心流程分两条线：
//
// 批量构建（engine.Build）：
//
//	Catalog 全量实体/交互
//	  -> feature：文本编码 + PCA 降维 +（用户侧）归一化数值块
//	  -> factorize：隐式反馈 ALS 分解交互矩阵
//	  -> embedding：0.8*内容 + 0.2*协同 加权融合
//	  -> vector：内积检索索引，原子替换快照
//
// 请求服务（engine.GetRecommendations）：
//
//	缓存命中 -> 原样返回
//	暖路径   -> 融合向量检索（带类目时两段式）-> seen/可用性过滤 -> 补位
//	冷路径   -> mood 类目池 -> 模型重排 -> 补位
//	统一分页、回填 Rank、补充详情、写缓存
//
// 各包职责：
//
//	core      领域类型与接口（Item/Catalog/Store/VectorIndex/DomainError）
//	pipeline  Node 链编排与配置驱动组装
//	recall    召回源：hybrid / two_stage / hot / mood / fanout
//	filter    过滤：seen / CEL 规则
//	rank      冷启动 mood 打分
//	rerank    截断与热度补位
//	engine    构建与请求门面、缓存、详情 enrichment
//	store     KeyValueStore（内存/Redis）与内存 Catalog
//	client    上游内容 API 客户端（熔断）
//	server    HTTP 服务层（chi）
//	feast     Feast 在线特征客户端
package feedkit
