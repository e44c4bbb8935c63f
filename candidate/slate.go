// Package candidate 组装排序候选集（candidate slate）。
//
// 两种模式：
//   - 主路径 FromGroundtruth：预处理时直接使用日志给出的 groundtruth 列表，不采样、不打乱，
//     正确答案总在位置 0。
//   - 兜底路径 Sampler.Sample：仅在读取时持久化记录缺少候选集才会走到。每次调用都会重新
//     采样，同一条记录多次读取得到的干扰项和答案位置都不同；需要逐次可复现的调用方必须自己
//     传入固定种子的 *rand.Rand。
package candidate

import (
	"fmt"
	"math/rand"

	"github.com/rushteam/mindprep/core"
)

// FromGroundtruth 返回 next = gt[0] 与完整候选集（gt 的副本，顺序不变）。
func FromGroundtruth(gt []int64) (next int64, slate []int64, err error) {
	if len(gt) == 0 {
		return 0, nil, core.NewDomainError(core.ModuleCandidate, core.ErrorCodeInvalidInput, "empty groundtruth")
	}
	slate = make([]int64, len(gt))
	copy(slate, gt)
	return slate[0], slate, nil
}

// Sampler 做兜底负采样。随机源由调用方注入，Sampler 本身不加锁，
// 并发使用时每个 worker 持有自己的 Sampler（见 NewWorkerRand）。
type Sampler struct {
	rng *rand.Rand
}

// NewSampler 用给定随机源创建 Sampler；rng 为 nil 时 panic。
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		panic("candidate: nil rand source")
	}
	return &Sampler{rng: rng}
}

// Sample 从 itemIDs 中均匀抽取 cansNum-1 个不同的干扰项（排除 history 与 next），
// 追加 next 后整体随机排列。
//
// 保证：长度恰为 cansNum，next 恰好出现一次，history 中的 ID 不会作为干扰项。
// itemIDs 应为升序（catalog.Catalog.IDs），这样同一种子的结果可复现；itemIDs 内的重复 ID
// 会被去重。可选物品不足时返回 INSUFFICIENT_CANDIDATES。
func (s *Sampler) Sample(itemIDs, history []int64, next int64, cansNum int) ([]int64, error) {
	if cansNum < 1 {
		return nil, core.NewDomainError(core.ModuleCandidate, core.ErrorCodeInvalidInput,
			fmt.Sprintf("cans_num must be >= 1, got %d", cansNum))
	}

	exclude := make(map[int64]struct{}, len(history)+1)
	for _, id := range history {
		exclude[id] = struct{}{}
	}
	exclude[next] = struct{}{}

	eligible := make([]int64, 0, len(itemIDs))
	for _, id := range itemIDs {
		if _, ok := exclude[id]; ok {
			continue
		}
		exclude[id] = struct{}{}
		eligible = append(eligible, id)
	}

	need := cansNum - 1
	if len(eligible) < need {
		return nil, core.NewDomainError(core.ModuleCandidate, core.ErrorCodeInsufficientCandidates,
			fmt.Sprintf("need %d distractors, only %d eligible items", need, len(eligible)))
	}

	// 部分 Fisher-Yates：前 need 个位置即为无放回均匀抽样
	for i := 0; i < need; i++ {
		j := i + s.rng.Intn(len(eligible)-i)
		eligible[i], eligible[j] = eligible[j], eligible[i]
	}

	slate := make([]int64, 0, cansNum)
	slate = append(slate, eligible[:need]...)
	slate = append(slate, next)
	s.rng.Shuffle(len(slate), func(i, j int) {
		slate[i], slate[j] = slate[j], slate[i]
	})
	return slate, nil
}

// NewWorkerRand 由基础种子和 worker 编号确定性地派生独立随机源。
func NewWorkerRand(baseSeed int64, workerID int) *rand.Rand {
	// splitmix64 打散，避免相邻 worker 的种子相关
	z := uint64(baseSeed) + uint64(workerID+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	//nolint:gosec // 负采样不涉及安全
	return rand.New(rand.NewSource(int64(z)))
}
