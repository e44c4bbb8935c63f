// Package catalog 加载新闻目录（id → title），构建后只读。
package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/logging"
	"github.com/rushteam/mindprep/metrics"
	"github.com/rushteam/mindprep/pkg/tsv"
)

// 元数据列：0=news_id, 1=category, 2=subcategory, 3=title, 4=body
const (
	colID    = 0
	colTitle = 3
)

// ParseItemID 把 "N123" 形式的标识解析为数值 ID 123。
// 标识必须是一个 ASCII 字母后跟至少一位数字。
func ParseItemID(token string) (int64, error) {
	if len(token) < 2 || !isLetter(token[0]) {
		return 0, invalidID(token)
	}
	digits := token[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, invalidID(token)
		}
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, err,
			"item identifier %q out of range", token)
	}
	return id, nil
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func invalidID(token string) error {
	return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
		fmt.Sprintf("item identifier %q is not letter+digits", token))
}

// Catalog 是不可变的 id → title 映射，并发读安全。
type Catalog struct {
	titles map[int64]string
	rawIDs map[string]int64 // 原始字符串标识 → 数值 ID，供日志 token 转换复用
	ids    []int64          // 升序
}

// Stats 记录一次加载的行数统计。
type Stats struct {
	Rows     int // 读到的非空行
	Loaded   int // 成功写入目录的行
	Skipped  int // 标识无法解析而跳过的行
	Untitled int // 标题缺失、使用占位符的行
}

// New 用给定物品构建目录；同 ID 后者覆盖前者。
func New(items []core.NewsItem) *Catalog {
	b := newBuilder(len(items))
	for _, it := range items {
		b.put("", it.ID, it.Title)
	}
	return b.build()
}

type builder struct {
	titles map[int64]string
	rawIDs map[string]int64
}

func newBuilder(sizeHint int) *builder {
	return &builder{
		titles: make(map[int64]string, sizeHint),
		rawIDs: make(map[string]int64, sizeHint),
	}
}

func (b *builder) put(raw string, id int64, title string) {
	b.titles[id] = title
	if raw != "" {
		b.rawIDs[raw] = id
	}
}

func (b *builder) build() *Catalog {
	ids := make([]int64, 0, len(b.titles))
	for id := range b.titles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &Catalog{titles: b.titles, rawIDs: b.rawIDs, ids: ids}
}

// Load 从制表符分隔的新闻元数据读取目录。
// 标识无法解析的行被跳过；标题为空的行使用 core.UnknownTitle。
func Load(ctx context.Context, r io.Reader) (*Catalog, Stats, error) {
	log := logging.Component("catalog")
	b := newBuilder(1024)
	var st Stats

	err := tsv.Scan(ctx, r, func(lineNo int, fields []string) error {
		st.Rows++
		raw := strings.TrimSpace(fields[colID])
		id, err := ParseItemID(raw)
		if err != nil {
			st.Skipped++
			log.Debug().Int("line", lineNo).Str("id", raw).Msg("skip metadata row")
			return nil
		}
		title := ""
		if len(fields) > colTitle {
			title = fields[colTitle]
		}
		if strings.TrimSpace(title) == "" {
			title = core.UnknownTitle
			st.Untitled++
		}
		b.put(raw, id, title)
		st.Loaded++
		return nil
	})
	if err != nil {
		return nil, st, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err, "read metadata")
	}

	metrics.CatalogItemsLoaded.Add(float64(st.Loaded))
	metrics.CatalogRowsSkipped.Add(float64(st.Skipped))

	c := b.build()
	log.Info().
		Int("rows", st.Rows).
		Int("items", c.Len()).
		Int("skipped", st.Skipped).
		Int("untitled", st.Untitled).
		Msg("news catalog loaded")
	return c, st, nil
}

// LoadFile 是 Load 的文件版本；文件不存在时返回 MISSING_FILE。
func LoadFile(ctx context.Context, path string) (*Catalog, Stats, error) {
	f, err := openArtifact(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer f.Close()
	return Load(ctx, f)
}

func openArtifact(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeMissingFile, err, "missing file %s", path)
		}
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err, "open %s", path)
	}
	return f, nil
}

// Title 返回 id 对应的标题；id 不在目录中时 ok 为 false。
func (c *Catalog) Title(id int64) (string, bool) {
	title, ok := c.titles[id]
	return title, ok
}

// Has 判断 id 是否在目录中。
func (c *Catalog) Has(id int64) bool {
	_, ok := c.titles[id]
	return ok
}

// Len 返回目录物品数。
func (c *Catalog) Len() int {
	return len(c.titles)
}

// IDs 返回全部 ID（升序，副本）。
func (c *Catalog) IDs() []int64 {
	out := make([]int64, len(c.ids))
	copy(out, c.ids)
	return out
}

// Resolve 把日志中的原始 token 转换为数值 ID：先查加载时保留的原始标识映射，
// 未命中再按 字母+数字 规则解析。解析成功不代表该 ID 在目录中。
func (c *Catalog) Resolve(token string) (int64, bool) {
	if id, ok := c.rawIDs[token]; ok {
		return id, true
	}
	id, err := ParseItemID(token)
	if err != nil {
		return 0, false
	}
	return id, true
}

// DisplayTitle 是面向人类的标题拼装：未知 ID 替换为 core.UnknownTitle。
func DisplayTitle(c *Catalog, id int64) string {
	if c != nil {
		if title, ok := c.Title(id); ok {
			return title
		}
	}
	return core.UnknownTitle
}

// DisplayTitles 批量版本的 DisplayTitle。
func DisplayTitles(c *Catalog, ids []int64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = DisplayTitle(c, id)
	}
	return out
}
