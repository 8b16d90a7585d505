package provider

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/xiao-e-yun/image-provider/internal/cache"
	"github.com/xiao-e-yun/image-provider/internal/httprange"
	"github.com/xiao-e-yun/image-provider/internal/imaging"
	"github.com/xiao-e-yun/image-provider/internal/logging"
	"github.com/xiao-e-yun/image-provider/internal/server"
)

// 缓存状态：bypass 直出原文件，hit 命中结果缓存，miss 执行变换流水线。
const (
	cacheStateBypass = "bypass"
	cacheStateHit    = "hit"
	cacheStateMiss   = "miss"
)

// Options 汇总 Handler 的全部依赖，由 main 在启动阶段注入。
type Options struct {
	Root         string
	Resizer      *imaging.Resizer
	Store        cache.Store
	Logger       *logrus.Logger
	MaxPixelArea int64
}

// Handler 负责 orchestrate “路径解析 → 直出判定 → 缓存 → 变换 → Range 输出”
// 的全流程。结果缓存是唯一的可变共享状态，锁只存在于缓存内部，
// 绝不会覆盖解码/重采样/编码等 CPU 密集阶段。
type Handler struct {
	root         string
	resizer      *imaging.Resizer
	store        cache.Store
	logger       *logrus.Logger
	maxPixelArea int64
}

// NewHandler 构建图片请求处理器。
func NewHandler(opts Options) *Handler {
	return &Handler{
		root:         opts.Root,
		resizer:      opts.Resizer,
		store:        opts.Store,
		logger:       opts.Logger,
		maxPixelArea: opts.MaxPixelArea,
	}
}

// Handle 实现 server.ImageHandler。任何阶段出错都会输出结构化日志并结束请求，
// 失败的变换不会写入缓存。
func (h *Handler) Handle(c fiber.Ctx) error {
	started := time.Now()

	if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
		return h.writeError(c, &Error{Status: fiber.StatusMethodNotAllowed, Message: "Method not allowed"})
	}

	rawPath := string(c.Request().URI().Path())

	file, perr := resolveFile(h.root, rawPath)
	if perr != nil {
		return h.failRequest(c, rawPath, started, perr)
	}

	transform, perr := parseTransform(c)
	if perr != nil {
		return h.failRequest(c, rawPath, started, perr)
	}

	srcFormat, perr := sourceFormat(file.path, transform)
	if perr != nil {
		return h.failRequest(c, rawPath, started, perr)
	}
	dstFormat := transform.DestinationFormat(srcFormat)

	// 直出判定：恒等变换，或源格式被排除在变换通道之外（动图/多帧图标）。
	// 响应头始终使用目标格式的 MIME。
	if transform.IsIdentity(srcFormat) || srcFormat.TransformExcluded() {
		return h.servePassthrough(c, file, dstFormat, rawPath, started)
	}

	key := cache.Key{Path: file.path, Transform: transform}
	if data, found := h.store.Lookup(key); found {
		h.logResult(c, rawPath, dstFormat, cacheStateHit, started, nil)
		return h.serveBytes(c, data, dstFormat, cacheStateHit)
	}

	data, perr := h.transformFile(file.path, transform, dstFormat)
	if perr != nil {
		return h.failRequest(c, rawPath, started, perr)
	}

	// 只有成功的变换才会进入缓存。
	h.store.Insert(key, data)

	h.logResult(c, rawPath, dstFormat, cacheStateMiss, started, nil)
	return h.serveBytes(c, data, dstFormat, cacheStateMiss)
}

// transformFile 执行 解码 → 尺寸推导 → 重采样 → 编码，返回目标格式的字节。
func (h *Handler) transformFile(
	filePath string,
	transform imaging.Transform,
	dstFormat imaging.Format,
) ([]byte, *Error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, internalError("Failed to read image")
	}

	src, err := imaging.Decode(raw)
	if err != nil {
		return nil, internalError("Failed to decode image")
	}

	bounds := src.Bounds()
	width, height := imaging.OutputSize(bounds.Dx(), bounds.Dy(), transform)
	if width <= 0 || height <= 0 {
		return nil, badRequest(fmt.Sprintf("Invalid output dimensions: %dx%d", width, height))
	}
	if h.maxPixelArea > 0 && int64(width)*int64(height) > h.maxPixelArea {
		return nil, badRequest("Requested dimensions too large")
	}

	dst, err := h.resizer.Resample(src, width, height)
	if err != nil {
		return nil, internalError("Failed to resize image")
	}

	encoded, err := imaging.Encode(dst, dstFormat)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedOutput) {
			return nil, badRequest(fmt.Sprintf("Unsupported output format: %s", dstFormat))
		}
		return nil, internalError("Failed to encode image")
	}

	return encoded, nil
}

// servePassthrough 直接流式输出原文件，不经过解码与缓存。
func (h *Handler) servePassthrough(
	c fiber.Ctx,
	file resolved,
	format imaging.Format,
	rawPath string,
	started time.Time,
) error {
	f, err := os.Open(file.path)
	if err != nil {
		return h.failRequest(c, rawPath, started, internalError("Failed to read image"))
	}
	defer f.Close()

	setImageHeaders(c, format)
	c.Set("X-Image-Cache", cacheStateBypass)
	h.logResult(c, rawPath, format, cacheStateBypass, started, nil)
	return httprange.Serve(c, f, file.size)
}

// serveBytes 通过 Range 组件输出内存中的编码结果。
func (h *Handler) serveBytes(c fiber.Ctx, data []byte, format imaging.Format, cacheState string) error {
	setImageHeaders(c, format)
	c.Set("X-Image-Cache", cacheState)
	return httprange.Serve(c, bytes.NewReader(data), int64(len(data)))
}

// setImageHeaders 设置成功响应的公共头部。
func setImageHeaders(c fiber.Ctx, format imaging.Format) {
	c.Set(fiber.HeaderContentType, format.MIME())
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
}

func (h *Handler) failRequest(c fiber.Ctx, rawPath string, started time.Time, perr *Error) error {
	h.logResult(c, rawPath, "", "", started, perr)
	return h.writeError(c, perr)
}

func (h *Handler) writeError(c fiber.Ctx, perr *Error) error {
	return c.Status(perr.Status).JSON(fiber.Map{"error": perr.Message})
}

func (h *Handler) logResult(
	c fiber.Ctx,
	rawPath string,
	format imaging.Format,
	cacheState string,
	started time.Time,
	perr *Error,
) {
	fields := logging.RequestFields(rawPath, string(format), cacheState)
	fields["action"] = "provide_image"
	fields["duration_ms"] = time.Since(started).Milliseconds()
	if requestID := server.RequestID(c); requestID != "" {
		fields["request_id"] = requestID
	}

	if perr != nil {
		fields["status"] = perr.Status
		h.logger.WithFields(fields).Warn(perr.Message)
		return
	}
	h.logger.WithFields(fields).Debug("image served")
}
