// Package httprange 实现单区间的 HTTP Range 语义：完整响应（200）、
// 子区间响应（206 + Content-Range）与不可满足区间（416）。
// 直出文件与缓存字节都通过它写出，保证两条路径的 Range 行为一致。
package httprange

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// ErrUnsatisfiable 表示区间语法合法但落在 [0, size) 之外。
var ErrUnsatisfiable = errors.New("range not satisfiable")

// Span 描述满足请求的字节子区间。
type Span struct {
	Start  int64
	Length int64
}

// End 返回区间最后一个字节的下标，用于 Content-Range。
func (s Span) End() int64 {
	return s.Start + s.Length - 1
}

// Parse 解析 Range 请求头。返回 (nil, nil) 表示应返回完整正文：
// 缺失、非 bytes 单位、多区间或语法错误的头都按无 Range 处理；
// 语法合法却超出 [0, size) 的区间返回 ErrUnsatisfiable。
func Parse(header string, size int64) (*Span, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, nil
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, nil
	}
	if strings.Contains(spec, ",") {
		// 多区间不支持，退化为完整响应。
		return nil, nil
	}

	startRaw, endRaw, ok := strings.Cut(strings.TrimSpace(spec), "-")
	if !ok {
		return nil, nil
	}

	if startRaw == "" {
		// 后缀形式 bytes=-N：取最后 N 字节。
		suffix, err := strconv.ParseInt(endRaw, 10, 64)
		if err != nil {
			return nil, nil
		}
		if suffix <= 0 {
			return nil, ErrUnsatisfiable
		}
		if suffix > size {
			suffix = size
		}
		return &Span{Start: size - suffix, Length: suffix}, nil
	}

	start, err := strconv.ParseInt(startRaw, 10, 64)
	if err != nil || start < 0 {
		return nil, nil
	}
	if start >= size {
		return nil, ErrUnsatisfiable
	}

	end := size - 1
	if endRaw != "" {
		end, err = strconv.ParseInt(endRaw, 10, 64)
		if err != nil {
			return nil, nil
		}
		if end < start {
			return nil, nil
		}
		if end > size-1 {
			end = size - 1
		}
	}

	return &Span{Start: start, Length: end - start + 1}, nil
}

// Serve 将 content 的完整正文或请求的子区间写入响应。
// content 只需要可定位读取并给出总长度，文件句柄与内存缓冲均可。
func Serve(c fiber.Ctx, content io.ReadSeeker, size int64) error {
	c.Set(fiber.HeaderAcceptRanges, "bytes")

	span, err := Parse(c.Get(fiber.HeaderRange), size)
	if errors.Is(err, ErrUnsatisfiable) {
		c.Set(fiber.HeaderContentRange, fmt.Sprintf("bytes */%d", size))
		return c.SendStatus(fiber.StatusRequestedRangeNotSatisfiable)
	}

	status := fiber.StatusOK
	offset := int64(0)
	length := size
	if span != nil {
		status = fiber.StatusPartialContent
		offset = span.Start
		length = span.Length
		c.Set(fiber.HeaderContentRange, fmt.Sprintf("bytes %d-%d/%d", span.Start, span.End(), size))
	}

	c.Status(status)
	c.Response().Header.SetContentLength(int(length))

	if c.Method() == fiber.MethodHead {
		return nil
	}

	if _, err := content.Seek(offset, io.SeekStart); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("seek content failed: %v", err))
	}
	if _, err := io.CopyN(c.Response().BodyWriter(), content, length); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("stream content failed: %v", err))
	}
	return nil
}
