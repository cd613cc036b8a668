package inference

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// InputSize 模型输入的边长
const InputSize = 224

// Image 预处理后的图片：统一为 224x224 并重新编码为 JPEG
// Pixels 由 JPEG 解码得到，送入模型的张量与 JPEG 内容一致
type Image struct {
	JPEG   []byte
	Pixels *image.NRGBA
}

// Preprocess 解码任意支持的格式，裁剪填充到 224x224（不留黑边）并重新编码
func Preprocess(data []byte) (*Image, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	resized := imaging.Fill(src, InputSize, InputSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("图片编码失败: %w", err)
	}

	encoded, err := imaging.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("图片编码失败: %w", err)
	}

	return &Image{JPEG: buf.Bytes(), Pixels: imaging.Clone(encoded)}, nil
}

// Tensor 以 [1,224,224,3] 形状返回归一化到 [0,1] 的 RGB 像素
func (img *Image) Tensor() [][][][]float32 {
	p := img.Pixels
	rows := make([][][]float32, InputSize)
	for y := 0; y < InputSize; y++ {
		row := make([][]float32, InputSize)
		for x := 0; x < InputSize; x++ {
			off := y*p.Stride + x*4
			row[x] = []float32{
				float32(p.Pix[off]) / 255,
				float32(p.Pix[off+1]) / 255,
				float32(p.Pix[off+2]) / 255,
			}
		}
		rows[y] = row
	}
	return [][][][]float32{rows}
}
