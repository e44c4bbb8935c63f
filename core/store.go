package core

import "context"

// Store 是存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 领域层不依赖基础设施层，避免循环依赖
//
// 使用场景：
//   - 目录镜像：把 id → title 写入 Hash，另用一个普通 key 记录条目数与摘要，
//     读取方据此确认镜像完整
//
// 实现：
//   - store.MemoryStore（测试/开发）
//   - store.RedisStore（生产）
type Store interface {
	// Name 返回存储后端名称（用于日志）
	Name() string

	// Get 读取普通 key；不存在时返回 ErrStoreNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte) error

	// Delete 删除 key（普通 key 或 Hash 均可），不存在时不报错
	Delete(ctx context.Context, key string) error

	// HSet 批量写入 Hash 字段
	HSet(ctx context.Context, key string, fields map[string][]byte) error

	// HGetAll 读取整个 Hash；key 不存在时返回空 map
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)

	Close() error
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")
)

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
