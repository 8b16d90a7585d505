package imaging

import "math"

// Transform 描述一次请求归一化后的变换参数。所有字段均可比较，
// 因此可以直接作为缓存键的组成部分。
type Transform struct {
	// Output 为空表示保持源格式。
	Output Format

	Width     int
	HasWidth  bool
	Height    int
	HasHeight bool

	// DPR 在解析阶段已被钳制到 [1,3]。
	DPR int
}

// DestinationFormat 返回最终编码格式，未指定 output 时回退到源格式。
func (t Transform) DestinationFormat(src Format) Format {
	if t.Output != "" {
		return t.Output
	}
	return src
}

// IsIdentity 判断该变换对给定源格式是否等价于原样返回：
// 未请求任何尺寸、dpr 为 1 且目标格式与源格式一致。
func (t Transform) IsIdentity(src Format) bool {
	return !t.HasWidth && !t.HasHeight && t.DPR == 1 && t.DestinationFormat(src) == src
}

// OutputSize 根据请求尺寸与源长宽比推导目标尺寸：
//   - 宽高都给定时直接使用；
//   - 只给定一边时按源长宽比四舍五入补齐另一边；
//   - 都未给定时沿用源尺寸（仅格式转换）。
//
// 结果统一乘以 dpr。
func OutputSize(srcWidth, srcHeight int, t Transform) (int, int) {
	aspectRatio := float64(srcWidth) / float64(srcHeight)

	var width, height int
	switch {
	case t.HasWidth && t.HasHeight:
		width, height = t.Width, t.Height
	case t.HasWidth:
		width = t.Width
		height = int(math.Round(float64(t.Width) / aspectRatio))
	case t.HasHeight:
		width = int(math.Round(float64(t.Height) * aspectRatio))
		height = t.Height
	default:
		width, height = srcWidth, srcHeight
	}

	return width * t.DPR, height * t.DPR
}
