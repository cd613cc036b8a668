package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"skinsight/config"
)

// Remote 通过 TensorFlow Serving REST 接口进行推理
type Remote struct {
	cfg    config.InferenceConfig
	url    string
	client *http.Client
}

// NewRemote 创建远程推理客户端
func NewRemote(cfg config.InferenceConfig) *Remote {
	return &Remote{
		cfg:    cfg,
		url:    cfg.PredictURL(),
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// predictRequest TF Serving 列式请求体
type predictRequest struct {
	SignatureName string                     `json:"signature_name"`
	Inputs        map[string][][][][]float32 `json:"inputs"`
}

// predictResponse 兼容 outputs（列式）与 predictions（行式）两种返回
type predictResponse struct {
	Outputs     json.RawMessage `json:"outputs"`
	Predictions [][]float64     `json:"predictions"`
	Error       string          `json:"error"`
}

// Predict 调用远程模型
func (r *Remote) Predict(ctx context.Context, img *Image) (Prediction, error) {
	body, err := json.Marshal(predictRequest{
		SignatureName: r.cfg.SignatureName,
		Inputs:        map[string][][][][]float32{r.cfg.InputName: img.Tensor()},
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("构建推理请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("创建推理请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Prediction{}, fmt.Errorf("%w: %v", ErrInferenceTimeout, err)
		}
		return Prediction{}, fmt.Errorf("%w: %v", ErrInferenceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Prediction{}, fmt.Errorf("%w: status %d: %s", ErrInferenceUnavailable, resp.StatusCode, string(msg))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	scores, err := out.scores(r.cfg.OutputName)
	if err != nil {
		return Prediction{}, err
	}
	return fromScores(scores)
}

// scores 取出唯一一张图片的概率向量
// 多输出签名时取 outputName 对应的输出，未配置时取名称排序后的第一个
func (p predictResponse) scores(outputName string) ([]float64, error) {
	if p.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, p.Error)
	}
	if len(p.Predictions) > 0 {
		return p.Predictions[0], nil
	}
	if len(p.Outputs) == 0 {
		return nil, ErrInvalidResponse
	}

	// 单输出签名时 outputs 为 [[...]]，多输出时为 {name: [[...]]}
	var batch [][]float64
	if err := json.Unmarshal(p.Outputs, &batch); err == nil && len(batch) > 0 {
		return batch[0], nil
	}
	var named map[string][][]float64
	if err := json.Unmarshal(p.Outputs, &named); err != nil || len(named) == 0 {
		return nil, ErrInvalidResponse
	}
	if outputName == "" {
		names := make([]string, 0, len(named))
		for name := range named {
			names = append(names, name)
		}
		sort.Strings(names)
		outputName = names[0]
	}
	v, ok := named[outputName]
	if !ok || len(v) == 0 {
		return nil, fmt.Errorf("%w: output %q missing", ErrInvalidResponse, outputName)
	}
	return v[0], nil
}

var _ Classifier = (*Remote)(nil)
