package provider

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/xiao-e-yun/image-provider/internal/imaging"
)

const (
	minDPR = 1
	maxDPR = 3
)

// parseTransform 将原始查询参数归一化为 Transform。
// 数字参数解析失败按缺省处理（宽松策略）；output 无法识别则是致命的 400。
func parseTransform(c fiber.Ctx) (imaging.Transform, *Error) {
	transform := imaging.Transform{DPR: minDPR}

	if raw := c.Query("output"); raw != "" {
		format, ok := imaging.ParseFormat(raw)
		if !ok {
			return imaging.Transform{}, badRequest(fmt.Sprintf("Unsupported output format: %s", raw))
		}
		transform.Output = format
	}

	if value, ok := parseDimension(c.Query("w")); ok {
		transform.Width = value
		transform.HasWidth = true
	}
	if value, ok := parseDimension(c.Query("h")); ok {
		transform.Height = value
		transform.HasHeight = true
	}

	if raw := c.Query("dpr"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			transform.DPR = clampDPR(value)
		}
	}

	return transform, nil
}

// parseDimension 解析 w/h 参数，负数或无法解析的值一律视为未提供。
func parseDimension(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

func clampDPR(value int) int {
	if value < minDPR {
		return minDPR
	}
	if value > maxDPR {
		return maxDPR
	}
	return value
}
