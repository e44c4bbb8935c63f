package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/pkg/conv"
)

// DefaultMirrorKey 是目录镜像在 Store 中的默认 Hash key。
const DefaultMirrorKey = "mindprep:id2name"

// MetaKey 返回镜像元数据所在的普通 key。
func MetaKey(key string) string {
	return key + ":meta"
}

// mirrorMeta 随镜像一起写入，读取方据此判断 Hash 是否完整。
type mirrorMeta struct {
	Items  int    `json:"items"`
	Digest string `json:"digest"`
}

// Digest 返回目录转储内容的 sha256（十六进制），相同的 id → title 映射总得到相同结果。
func (c *Catalog) Digest() (string, error) {
	h := sha256.New()
	if err := c.WriteDump(h); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Publish 把 id → title 整体替换写入 store 的 Hash，元数据 key 最后写入；
// 写到一半失败时元数据缺失，FromStore 会拒绝该镜像。
func (c *Catalog) Publish(ctx context.Context, st core.Store, key string) error {
	if key == "" {
		key = DefaultMirrorKey
	}
	digest, err := c.Digest()
	if err != nil {
		return core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err, "digest catalog")
	}
	meta, err := json.Marshal(mirrorMeta{Items: c.Len(), Digest: digest})
	if err != nil {
		return core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err, "encode mirror meta")
	}

	fields := make(map[string][]byte, len(c.titles))
	for id, title := range c.titles {
		fields[strconv.FormatInt(id, 10)] = []byte(title)
	}
	for _, k := range []string{MetaKey(key), key} {
		if err := st.Delete(ctx, k); err != nil {
			return core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err,
				"clear %s in %s", k, st.Name())
		}
	}
	if err := st.HSet(ctx, key, fields); err != nil {
		return core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err,
			"publish catalog to %s", st.Name())
	}
	if err := st.Set(ctx, MetaKey(key), meta); err != nil {
		return core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err,
			"write mirror meta to %s", st.Name())
	}
	return nil
}

// FromStore 从 store 的 Hash 读回目录，并用元数据校验条目数与摘要。
// Hash 为空时返回 NOT_FOUND；元数据缺失或不一致时返回 INTERNAL_ERROR（镜像不完整）。
func FromStore(ctx context.Context, st core.Store, key string) (*Catalog, error) {
	if key == "" {
		key = DefaultMirrorKey
	}
	fields, err := st.HGetAll(ctx, key)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err,
			"read catalog from %s", st.Name())
	}
	if len(fields) == 0 {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeNotFound, core.ErrStoreNotFound,
			"catalog %s not found in %s", key, st.Name())
	}
	b := newBuilder(len(fields))
	for id, title := range conv.ConvertKeys(fields, conv.ParseInt64) {
		b.put("", id, string(title))
	}
	c := b.build()

	raw, err := st.Get(ctx, MetaKey(key))
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err,
			"catalog %s in %s has no meta, mirror incomplete", key, st.Name())
	}
	var meta mirrorMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err,
			"decode mirror meta %s", MetaKey(key))
	}
	digest, err := c.Digest()
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err, "digest catalog")
	}
	if meta.Items != c.Len() || meta.Digest != digest {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError,
			fmt.Sprintf("catalog %s in %s is incomplete: meta says %d items, found %d",
				key, st.Name(), meta.Items, c.Len()))
	}
	return c, nil
}
