package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
)

// ErrUnsupportedOutput 表示请求的目标格式没有对应的编码器。
// 上层将其映射为 400，而编码器自身的失败映射为 500。
var ErrUnsupportedOutput = errors.New("unsupported output format")

// Encode 将像素缓冲编码为目标格式的字节。支持的编码目标为
// JPEG、PNG 与无损 WebP；其余格式（含 GIF/ICO）只能走直出路径。
func Encode(img image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case FormatJPEG:
		if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	case FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case FormatWebP:
		if err := nativewebp.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("encode webp: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOutput, format)
	}

	return buf.Bytes(), nil
}
