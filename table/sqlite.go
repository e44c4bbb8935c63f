// Package table 以 SQLite 文件持久化会话表，每个分区一个文件。
//
// 列表类型的列（seq / seq_unpad / candidates）以 JSON 数组文本存储；candidates 可为 NULL，
// 读取时得到空切片，由 dataset 走兜底负采样。
package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/rushteam/mindprep/core"
)

const createSessionsTableSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	row_id     INTEGER PRIMARY KEY,
	user_id    INTEGER NOT NULL,
	seq        TEXT    NOT NULL,
	seq_unpad  TEXT    NOT NULL,
	len_seq    INTEGER NOT NULL,
	next       INTEGER NOT NULL,
	candidates TEXT
)`

const insertSessionSQL = `
INSERT INTO sessions (row_id, user_id, seq, seq_unpad, len_seq, next, candidates)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const selectSessionsSQL = `
SELECT user_id, seq, seq_unpad, len_seq, next, candidates
FROM sessions
ORDER BY row_id`

// Path 返回分区表文件路径。
func Path(dir string, stage core.Stage) string {
	return filepath.Join(dir, stage.TableFile())
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

// Write 把记录写入 path（已存在则整体替换）。先写到同目录临时文件，成功后 rename。
func Write(ctx context.Context, path string, records []core.SessionRecord) error {
	tmp := path + ".tmp"
	_ = os.Remove(tmp)
	if err := writeDB(ctx, tmp, records); err != nil {
		_ = os.Remove(tmp)
		return core.WrapDomainError(core.ModuleTable, core.ErrorCodeInternalError, err, "write table %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return core.WrapDomainError(core.ModuleTable, core.ErrorCodeInternalError, err, "rename table %s", path)
	}
	return nil
}

func writeDB(ctx context.Context, path string, records []core.SessionRecord) (err error) {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close sqlite db: %w", cerr)
		}
	}()

	if _, err := db.ExecContext(ctx, createSessionsTableSQL); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Commit 之后 Rollback 为 no-op

	stmt, err := tx.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		seq, err := json.Marshal(rec.Seq)
		if err != nil {
			return fmt.Errorf("encode seq of row %d: %w", i, err)
		}
		unpad, err := json.Marshal(rec.SeqUnpad)
		if err != nil {
			return fmt.Errorf("encode seq_unpad of row %d: %w", i, err)
		}
		var cands sql.NullString
		if len(rec.Candidates) > 0 {
			b, err := json.Marshal(rec.Candidates)
			if err != nil {
				return fmt.Errorf("encode candidates of row %d: %w", i, err)
			}
			cands = sql.NullString{String: string(b), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, i, rec.UserID, string(seq), string(unpad), rec.LenSeq, rec.Next, cands); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Read 按写入顺序读取全部记录。文件不存在时返回 MISSING_FILE（不会创建空库）。
func Read(ctx context.Context, path string) ([]core.SessionRecord, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.WrapDomainError(core.ModuleTable, core.ErrorCodeMissingFile, err, "missing table %s", path)
		}
		return nil, core.WrapDomainError(core.ModuleTable, core.ErrorCodeInternalError, err, "stat table %s", path)
	}

	records, err := readDB(ctx, path)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleTable, core.ErrorCodeInternalError, err, "read table %s", path)
	}
	return records, nil
}

func readDB(ctx context.Context, path string) ([]core.SessionRecord, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var records []core.SessionRecord
	for rows.Next() {
		var (
			rec        core.SessionRecord
			seq, unpad string
			cands      sql.NullString
		)
		if err := rows.Scan(&rec.UserID, &seq, &unpad, &rec.LenSeq, &rec.Next, &cands); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if err := json.Unmarshal([]byte(seq), &rec.Seq); err != nil {
			return nil, fmt.Errorf("decode seq: %w", err)
		}
		if err := json.Unmarshal([]byte(unpad), &rec.SeqUnpad); err != nil {
			return nil, fmt.Errorf("decode seq_unpad: %w", err)
		}
		if cands.Valid && cands.String != "" {
			if err := json.Unmarshal([]byte(cands.String), &rec.Candidates); err != nil {
				return nil, fmt.Errorf("decode candidates: %w", err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}
