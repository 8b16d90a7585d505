// Package provider 将一次图片请求编排为完整流水线：路径解析 → 查询参数
// 归一化 → 直出判定 → 结果缓存查找 → 解码/重采样/编码 → Range 输出。
// 除结果缓存外不持有任何可变共享状态。
package provider
