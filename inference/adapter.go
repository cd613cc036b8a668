package inference

import (
	"context"
	"time"

	"skinsight/config"

	"go.uber.org/zap"
)

// Kind 分类结果的三种形态
type Kind int

const (
	// KindOK 使用配置的策略得到结果（mock 模式下即 mock 结果）
	KindOK Kind = iota
	// KindFallback 远程推理失败，已用 mock 结果替代
	KindFallback
	// KindFailed 无法得到任何结果
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindFallback:
		return "fallback"
	default:
		return "failed"
	}
}

// Outcome 分类结果
type Outcome struct {
	Kind       Kind
	Prediction Prediction
	Reason     error // Fallback / Failed 时的原因
}

// Adapter 在 mock 与远程推理之间选择，并在远程失败时回退到 mock
type Adapter struct {
	useMock bool
	timeout time.Duration
	remote  Classifier
	mock    Classifier
	log     *zap.Logger
}

// NewAdapter 根据配置创建模型适配器
func NewAdapter(cfg config.InferenceConfig, log *zap.Logger) *Adapter {
	return NewAdapterWith(cfg.Mock, cfg.Timeout, NewRemote(cfg), NewMock(), log)
}

// NewAdapterWith 使用指定的策略创建适配器
func NewAdapterWith(useMock bool, timeout time.Duration, remote, mock Classifier, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{
		useMock: useMock,
		timeout: timeout,
		remote:  remote,
		mock:    mock,
		log:     log,
	}
}

// UsesMock 是否处于 mock 模式
func (a *Adapter) UsesMock() bool {
	return a.useMock
}

// Classify 对预处理后的图片分类，远程推理的任何错误都不会直接返回给调用方
func (a *Adapter) Classify(ctx context.Context, img *Image) Outcome {
	if a.useMock || a.remote == nil {
		return a.fromMock(ctx, img, KindOK, nil)
	}

	rctx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	pred, err := a.remote.Predict(rctx, img)
	if err == nil && !ValidClass(pred.ClassIndex) {
		err = ErrInvalidResponse
	}
	if err != nil {
		a.log.Warn("远程推理失败，回退到 mock 结果", zap.Error(err))
		return a.fromMock(ctx, img, KindFallback, err)
	}
	return Outcome{Kind: KindOK, Prediction: pred}
}

func (a *Adapter) fromMock(ctx context.Context, img *Image, kind Kind, reason error) Outcome {
	pred, err := a.mock.Predict(ctx, img)
	if err != nil {
		a.log.Error("mock 分类失败", zap.Error(err))
		return Outcome{Kind: KindFailed, Reason: err}
	}
	pred.Mock = true
	return Outcome{Kind: kind, Prediction: pred, Reason: reason}
}
