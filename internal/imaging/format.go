package imaging

import (
	"path/filepath"
	"strings"
)

// Format 表示一种图片格式，取值与常见扩展名保持一致。
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatGIF  Format = "gif"
	FormatICO  Format = "ico"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// formatAliases 将扩展名或 output 参数值映射到规范格式，
// 保证 jpg/jpeg、tif/tiff 等别名共享同一个缓存键。
var formatAliases = map[string]Format{
	"jpg":  FormatJPEG,
	"jpeg": FormatJPEG,
	"png":  FormatPNG,
	"webp": FormatWebP,
	"gif":  FormatGIF,
	"ico":  FormatICO,
	"bmp":  FormatBMP,
	"tif":  FormatTIFF,
	"tiff": FormatTIFF,
}

var formatMIMEs = map[Format]string{
	FormatJPEG: "image/jpeg",
	FormatPNG:  "image/png",
	FormatWebP: "image/webp",
	FormatGIF:  "image/gif",
	FormatICO:  "image/x-icon",
	FormatBMP:  "image/bmp",
	FormatTIFF: "image/tiff",
}

// ParseFormat 解析扩展名或 output 查询值，大小写不敏感，允许带前导点。
func ParseFormat(name string) (Format, bool) {
	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	format, ok := formatAliases[normalized]
	return format, ok
}

// FormatFromPath 根据文件扩展名识别源格式。
func FormatFromPath(path string) (Format, bool) {
	return ParseFormat(filepath.Ext(path))
}

// MIME 返回响应 Content-Type 所用的 MIME 类型。
func (f Format) MIME() string {
	if mime, ok := formatMIMEs[f]; ok {
		return mime
	}
	return "application/octet-stream"
}

// TransformExcluded 标记永远走直出路径的格式：GIF 可能包含多帧动画，
// ICO 可能包含多尺寸图标，重采样/编码通道都只处理单帧位图。
func (f Format) TransformExcluded() bool {
	return f == FormatGIF || f == FormatICO
}
