package core

// 固定约定：序列存储长度、最短历史长度与缺失标题占位符。
const (
	DefaultMaxLen    = 50
	DefaultMinSeqLen = 3

	// UnknownTitle 只在面向人类的拼装阶段使用；Catalog 内部以 (title, ok) 表达缺失。
	UnknownTitle = "Unknown"
)

// NewsItem 是目录中的一条新闻：数值 ID + 标题。
type NewsItem struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// RawLogRow 是交互日志中的一行原始记录，token 形如 "N123"。
type RawLogRow struct {
	UserID       int64
	Sequence     []string
	Groundtruth  []string
	SourceLineNo int // 1-based，便于定位被丢弃的行
}

// SessionRecord 是持久化的最小单元。
//
// 不变量：
//   - len(Seq) == MaxLen，Seq[:LenSeq] 中不出现 padding sentinel
//   - LenSeq == min(原始序列长度, MaxLen) == len(SeqUnpad)
//   - Next 在 Candidates 中恰好出现一次（Candidates 可为空，读取时走 fallback）
type SessionRecord struct {
	UserID     int64   `json:"user_id"`
	Seq        []int64 `json:"seq"`
	SeqUnpad   []int64 `json:"seq_unpad"`
	LenSeq     int     `json:"len_seq"`
	Next       int64   `json:"next"`
	Candidates []int64 `json:"candidates,omitempty"`
}

// Clone 返回深拷贝，读取方拿到的切片不会与表内数据共享底层数组。
func (r SessionRecord) Clone() SessionRecord {
	out := r
	out.Seq = cloneIDs(r.Seq)
	out.SeqUnpad = cloneIDs(r.SeqUnpad)
	out.Candidates = cloneIDs(r.Candidates)
	return out
}

func cloneIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}

// Sample 是 Dataset 按下标读取时组装的样本，不持久化。
type Sample struct {
	Seq           []int64  `json:"seq"`
	SeqName       []string `json:"seq_name"`
	LenSeq        int      `json:"len_seq"`
	SeqStr        string   `json:"seq_str"`
	Cans          []int64  `json:"cans"`
	CansName      []string `json:"cans_name"`
	CansStr       string   `json:"cans_str"`
	LenCans       int      `json:"len_cans"`
	ItemID        int64    `json:"item_id"`
	ItemName      string   `json:"item_name"`
	CorrectAnswer string   `json:"correct_answer"`
	// Fallback 为 true 表示候选集来自负采样，同一下标多次读取结果不同。
	Fallback bool `json:"fallback"`
}
