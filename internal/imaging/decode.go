package imaging

import (
	"bytes"
	"fmt"
	"image"

	// 注册标准库与 x/image 提供的解码器，image.Decode 按魔数自动分发。
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode 将文件字节解码为像素缓冲。解码失败对请求而言是终止性错误。
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
