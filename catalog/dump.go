package catalog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/logging"
	"github.com/rushteam/mindprep/pkg/tsv"
)

// dumpSep 分隔 ID 与标题，形如 "123::Some title"。
const dumpSep = "::"

var titleSanitizer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// SanitizeTitle 把标题中的制表符与换行替换为空格，保证一行一条。
func SanitizeTitle(title string) string {
	return titleSanitizer.Replace(title)
}

// WriteDump 按 ID 升序写出 "<id>::<title>" 行。
func (c *Catalog) WriteDump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, id := range c.ids {
		if _, err := fmt.Fprintf(bw, "%d%s%s\n", id, dumpSep, SanitizeTitle(c.titles[id])); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDumpFile 写出目录文件；先写临时文件再 rename，中途失败不会留下半个文件。
func (c *Catalog) WriteDumpFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".id2name-*")
	if err != nil {
		return core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err, "create dump")
	}
	defer os.Remove(tmp.Name())

	if err := c.WriteDump(tmp); err != nil {
		tmp.Close()
		return core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err, "write dump")
	}
	if err := tmp.Close(); err != nil {
		return core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err, "close dump")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err, "rename dump")
	}
	return nil
}

// LoadDump 读取 WriteDump 的输出。只按第一个 "::" 切分，标题中的 "::" 会原样保留；
// 格式不对的行被跳过。行长上限与 ctx 检查同元数据读取（pkg/tsv）。
func LoadDump(ctx context.Context, r io.Reader) (*Catalog, error) {
	b := newBuilder(1024)
	skipped := 0
	err := tsv.Scan(ctx, r, func(_ int, fields []string) error {
		// 转储里的制表符已被替换；手工编辑过的文件仍按整行处理
		line := strings.Join(fields, "\t")
		idStr, title, ok := strings.Cut(line, dumpSep)
		if !ok {
			skipped++
			return nil
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			skipped++
			return nil
		}
		b.put("", id, title)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, err, "read dump")
	}
	c := b.build()
	log := logging.Component("catalog")
	log.Debug().Int("items", c.Len()).Int("skipped", skipped).Msg("catalog dump loaded")
	return c, nil
}

// LoadDumpFile 是 LoadDump 的文件版本；文件不存在时返回 MISSING_FILE。
func LoadDumpFile(ctx context.Context, path string) (*Catalog, error) {
	f, err := openArtifact(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDump(ctx, f)
}
