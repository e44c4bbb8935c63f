package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），可穿透 fmt.Errorf("%w") 包装
//
// 使用场景：
//   - catalog / table：MISSING_FILE（持久化文件不存在）
//   - candidate：INSUFFICIENT_CANDIDATES（可用负样本不足，属于配置/数据问题，不应重试）
//   - sequence / split / dataset：INVALID_INPUT
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "MISSING_FILE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "catalog", "dataset"）
	Err     error  // 底层错误，可为 nil
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建携带底层错误的领域错误
func WrapDomainError(module, code string, err error, format string, args ...any) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound               = "NOT_FOUND"               // 资源不存在
	ErrorCodeInvalidInput           = "INVALID_INPUT"           // 输入无效
	ErrorCodeMissingFile            = "MISSING_FILE"            // 持久化产物缺失
	ErrorCodeInsufficientCandidates = "INSUFFICIENT_CANDIDATES" // 负采样可选物品不足
	ErrorCodeInternalError          = "INTERNAL_ERROR"          // 内部错误
)

// 模块名称常量
const (
	ModuleStore     = "store"
	ModuleCatalog   = "catalog"
	ModuleSequence  = "sequence"
	ModuleCandidate = "candidate"
	ModuleSplit     = "split"
	ModuleTable     = "table"
	ModuleDataset   = "dataset"
	ModulePipeline  = "pipeline"
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	return hasCode(err, ErrorCodeInvalidInput)
}

// IsMissingFile 检查错误是否为 MISSING_FILE（数据集无法构建）
func IsMissingFile(err error) bool {
	return hasCode(err, ErrorCodeMissingFile)
}

// IsInsufficientCandidates 检查错误是否为 INSUFFICIENT_CANDIDATES
func IsInsufficientCandidates(err error) bool {
	return hasCode(err, ErrorCodeInsufficientCandidates)
}
