package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "EMPTY_MATRIX"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "factorize", "engine"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在（未知用户且无 mood 兜底）
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效（冷请求缺少已注册的 mood）
	ErrorCodeEmptyMatrix   = "EMPTY_MATRIX"   // 交互矩阵为空或单行，无法分解
	ErrorCodeStaleData     = "STALE_DATA"     // 索引未构建或实体缺向量，局部跳过
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore     = "store"
	ModuleFeature   = "feature"
	ModuleFactorize = "factorize"
	ModuleVector    = "vector"
	ModuleEngine    = "engine"
	ModuleCatalog   = "catalog"
)

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT。
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// IsEmptyMatrix 检查错误是否为 EMPTY_MATRIX。
// 调用方收到该错误后应全局退化到 content-only 融合。
func IsEmptyMatrix(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeEmptyMatrix
	}
	return false
}

// IsStaleData 检查错误是否为 STALE_DATA。
func IsStaleData(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeStaleData
	}
	return false
}
