package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供图片请求日志的公共字段，供处理器各分支复用。
// cacheState 取值 hit/miss/bypass，对应命中、回源变换与直出三条路径。
func RequestFields(path, format, cacheState string) logrus.Fields {
	return logrus.Fields{
		"path":        path,
		"format":      format,
		"cache_state": cacheState,
	}
}
