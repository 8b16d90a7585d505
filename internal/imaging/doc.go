// Package imaging 实现图片变换流水线的纯计算部分：格式识别、目标尺寸推导、
// 重采样与编码。所有函数无共享状态，可安全并发调用；缓存与 HTTP 语义由上层负责。
package imaging
