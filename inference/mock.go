package inference

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Mock 随机生成分类结果，用于未部署模型的环境以及远程推理失败后的兜底
type Mock struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMock 创建 mock 分类器
func NewMock() *Mock {
	seed := uint64(time.Now().UnixNano())
	return NewMockWithSeed(seed, seed>>1)
}

// NewMockWithSeed 使用固定种子创建 mock 分类器，便于复现
func NewMockWithSeed(seed1, seed2 uint64) *Mock {
	return &Mock{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Predict 预测类别均匀随机；置信度取 [70,100)，其余类别取 [0,10)
func (m *Mock) Predict(_ context.Context, _ *Image) (Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	classIndex := m.rng.IntN(NumClasses)
	confidence := round2Below(70+m.rng.Float64()*30, 100)

	probs := make(map[string]float64, NumClasses)
	for i, label := range classLabels {
		if i == classIndex {
			probs[label] = confidence
			continue
		}
		v := m.rng.Float64() * 10
		if v < minProbability {
			probs[label] = 0
			continue
		}
		probs[label] = round2Below(v, 10)
	}

	return Prediction{
		ClassIndex:    classIndex,
		Confidence:    confidence,
		Probabilities: probs,
		Mock:          true,
	}, nil
}

var _ Classifier = (*Mock)(nil)
