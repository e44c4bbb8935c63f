package sequence

// Pad 保留最近的 maxLen 个 ID（超长时丢弃最旧的），再用 sentinel 右补齐到 maxLen。
//
// 返回：seq 长度恒为 maxLen；unpad 为截断后的真实序列；lenSeq == len(unpad)。
// 输入切片不会被修改或共享。
func Pad(ids []int64, maxLen int, sentinel int64) (seq, unpad []int64, lenSeq int) {
	if maxLen < 0 {
		maxLen = 0
	}
	recent := ids
	if len(recent) > maxLen {
		recent = recent[len(recent)-maxLen:]
	}
	lenSeq = len(recent)

	unpad = make([]int64, lenSeq)
	copy(unpad, recent)

	seq = make([]int64, maxLen)
	copy(seq, recent)
	for i := lenSeq; i < maxLen; i++ {
		seq[i] = sentinel
	}
	return seq, unpad, lenSeq
}

// Unpad 去掉右侧 padding。lenSeq 已知，直接按长度截取，不需要逐个查找 sentinel。
// 返回副本；lenSeq 越界时截断到 [0, len(seq)]。
func Unpad(seq []int64, lenSeq int) []int64 {
	if lenSeq < 0 {
		lenSeq = 0
	}
	if lenSeq > len(seq) {
		lenSeq = len(seq)
	}
	out := make([]int64, lenSeq)
	copy(out, seq[:lenSeq])
	return out
}
