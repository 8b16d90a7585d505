package config

import (
	"errors"

	"github.com/xiao-e-yun/image-provider/internal/imaging"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
// 重采样算法与滤波器名称必须在这里拦截，绝不推迟到请求阶段。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	if c.Root == "" {
		return newFieldError("Root", "不能为空")
	}
	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return newFieldError("ListenPort", "必须在 1-65535")
	}
	if c.CacheCapacity < 0 {
		return newFieldError("CacheCapacity", "不能为负数")
	}
	if c.CacheTTL.DurationValue() <= 0 {
		return newFieldError("CacheTTL", "必须大于 0")
	}
	if c.MaxPixelArea < 0 {
		return newFieldError("MaxPixelArea", "不能为负数")
	}
	if !imaging.ValidFilter(c.ResizeFilter) {
		return newFieldError("ResizeFilter", "仅支持 "+imaging.ValidFilterList)
	}
	if !imaging.ValidAlgorithm(c.ResizeAlgorithm) {
		return newFieldError("ResizeAlgorithm", "仅支持 "+imaging.ValidAlgorithmList)
	}

	return nil
}
