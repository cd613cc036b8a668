package inference

import (
	"context"
	"errors"
	"math"
)

var (
	ErrInferenceUnavailable = errors.New("inference service unavailable")
	ErrInferenceTimeout     = errors.New("inference request timed out")
	ErrInvalidResponse      = errors.New("inference service returned invalid response")
	ErrInvalidImage         = errors.New("image could not be decoded")
)

// Prediction 归一化后的模型输出
type Prediction struct {
	ClassIndex    int
	Confidence    float64            // 百分比 [0,100]
	Probabilities map[string]float64 // 类别名称 -> 百分比，各项独立，不保证和为 100
	Mock          bool
}

// Classifier 图片分类策略
type Classifier interface {
	Predict(ctx context.Context, img *Image) (Prediction, error)
}

// minProbability 低于该值的概率一律视为 0
const minProbability = 1.0

// normalizeScore 小于 1 的值置 0，其余保留两位小数
func normalizeScore(v float64) float64 {
	if v < minProbability {
		return 0
	}
	return round2(v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round2Below 保留两位小数，且结果严格小于 upper
func round2Below(v, upper float64) float64 {
	r := round2(v)
	if r >= upper {
		r = upper - 0.01
	}
	return r
}

// fromScores 将模型输出的概率向量（0~1）转换为 Prediction
func fromScores(scores []float64) (Prediction, error) {
	if len(scores) != NumClasses {
		return Prediction{}, ErrInvalidResponse
	}

	best := 0
	probs := make(map[string]float64, NumClasses)
	for i, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return Prediction{}, ErrInvalidResponse
		}
		if s > scores[best] {
			best = i
		}
		probs[classLabels[i]] = normalizeScore(s * 100)
	}
	// 预测类别的概率与 confidence 保持一致，不受下限截断影响
	confidence := round2(scores[best] * 100)
	probs[classLabels[best]] = confidence

	return Prediction{
		ClassIndex:    best,
		Confidence:    confidence,
		Probabilities: probs,
	}, nil
}
