package provider

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/xiao-e-yun/image-provider/internal/imaging"
)

// resolved 描述解析成功的请求目标：根目录下的绝对路径与文件大小。
// 源格式单独返回，因为扩展名未知时还可能由 output 参数兜底。
type resolved struct {
	path string
	size int64
}

// resolveFile 将 URL 路径映射到根目录下的常规文件。
// 归一化必须发生在拼接根目录之前，任何 ../ 序列都无法逃出根子树。
func resolveFile(root, rawPath string) (resolved, *Error) {
	cleaned := path.Clean("/" + rawPath)
	rel := strings.TrimPrefix(cleaned, "/")
	full := filepath.Join(root, filepath.FromSlash(rel))

	// Join 之后再做一次包含性检查，解析结果必须落在根子树内。
	if full != root && !strings.HasPrefix(full, root+string(os.PathSeparator)) {
		return resolved{}, notFound("File not found")
	}

	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return resolved{}, notFound("File not found")
	}

	return resolved{path: full, size: info.Size()}, nil
}

// sourceFormat 由扩展名识别源格式；无法识别时回退到 output 覆盖值，
// 两者皆无则拒绝请求。
func sourceFormat(filePath string, transform imaging.Transform) (imaging.Format, *Error) {
	if format, ok := imaging.FormatFromPath(filePath); ok {
		return format, nil
	}
	if transform.Output != "" {
		return transform.Output, nil
	}
	return "", badRequest("Unsupported file type")
}
