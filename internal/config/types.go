package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// Config 是 TOML 文件映射的整体结构，描述服务的全部运行参数。
type Config struct {
	// Root 是对外提供图片的根目录，所有请求路径都被限制在该子树内。
	Root string `mapstructure:"Root"`

	ListenPort    int    `mapstructure:"ListenPort"`
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`

	// CacheCapacity 是结果缓存的条目上限，0 表示完全停用缓存。
	CacheCapacity int `mapstructure:"CacheCapacity"`
	// CacheTTL 是缓存条目的滑动存活窗口，读取命中会刷新。
	CacheTTL Duration `mapstructure:"CacheTTL"`

	// ResizeFilter / ResizeAlgorithm 在启动阶段校验，请求阶段不再检查。
	ResizeFilter    string `mapstructure:"ResizeFilter"`
	ResizeAlgorithm string `mapstructure:"ResizeAlgorithm"`

	// MaxPixelArea 限制目标图的像素总量，0 表示不限制。
	MaxPixelArea int64 `mapstructure:"MaxPixelArea"`
}
