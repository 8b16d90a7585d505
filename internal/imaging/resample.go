package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Algorithm 取值按质量从高到低排列；nearest 会忽略滤波器设置。
type Algorithm string

const (
	AlgorithmSuperSampling8x Algorithm = "super-sampling8x"
	AlgorithmSuperSampling4x Algorithm = "super-sampling4x"
	AlgorithmSuperSampling2x Algorithm = "super-sampling2x"
	AlgorithmConvolution     Algorithm = "convolution"
	AlgorithmInterpolation   Algorithm = "interpolation"
	AlgorithmNearest         Algorithm = "nearest"
)

var resampleFilters = map[string]imaging.ResampleFilter{
	"lanczos3":    imaging.Lanczos,
	"gaussian":    imaging.Gaussian,
	"catmull-rom": imaging.CatmullRom,
	"hamming":     imaging.Hamming,
	"mitchell":    imaging.MitchellNetravali,
	"bilinear":    imaging.Linear,
	"box":         imaging.Box,
}

var superSamplingFactors = map[Algorithm]int{
	AlgorithmSuperSampling8x: 8,
	AlgorithmSuperSampling4x: 4,
	AlgorithmSuperSampling2x: 2,
}

const (
	// ValidFilterList / ValidAlgorithmList 用于配置错误提示，顺序与文档一致。
	ValidFilterList    = "lanczos3|gaussian|catmull-rom|hamming|mitchell|bilinear|box"
	ValidAlgorithmList = "super-sampling8x|super-sampling4x|super-sampling2x|convolution|interpolation|nearest"
)

// ValidFilter 报告滤波器名称是否在支持列表内。
func ValidFilter(name string) bool {
	_, ok := resampleFilters[name]
	return ok
}

// ValidAlgorithm 报告算法名称是否在支持列表内。
func ValidAlgorithm(name string) bool {
	switch Algorithm(name) {
	case AlgorithmSuperSampling8x, AlgorithmSuperSampling4x, AlgorithmSuperSampling2x,
		AlgorithmConvolution, AlgorithmInterpolation, AlgorithmNearest:
		return true
	default:
		return false
	}
}

// Resizer 持有启动时校验完成的重采样设置，请求阶段不再出现非法取值。
type Resizer struct {
	algorithm Algorithm
	filter    imaging.ResampleFilter
	factor    int
}

// NewResizer 校验算法与滤波器名称并构建 Resizer。
// 校验必须在启动阶段完成，非法名称返回带合法取值列表的错误。
func NewResizer(algorithm, filter string) (*Resizer, error) {
	resampleFilter, ok := resampleFilters[filter]
	if !ok {
		return nil, fmt.Errorf("unsupported filter type %q, valid values: %s", filter, ValidFilterList)
	}

	alg := Algorithm(algorithm)
	switch alg {
	case AlgorithmSuperSampling8x, AlgorithmSuperSampling4x, AlgorithmSuperSampling2x:
		return &Resizer{algorithm: alg, filter: resampleFilter, factor: superSamplingFactors[alg]}, nil
	case AlgorithmConvolution, AlgorithmInterpolation:
		return &Resizer{algorithm: alg, filter: resampleFilter}, nil
	case AlgorithmNearest:
		return &Resizer{algorithm: alg, filter: imaging.NearestNeighbor}, nil
	default:
		return nil, fmt.Errorf("unsupported resize algorithm %q, valid values: %s", algorithm, ValidAlgorithmList)
	}
}

// Algorithm 返回生效的算法名，供启动日志与诊断接口使用。
func (r *Resizer) Algorithm() string {
	return string(r.algorithm)
}

// Resample 将源图缩放为恰好 width×height 的目标缓冲。
// 目标长宽比与源不一致时居中裁剪后填满整个目标区域。
func (r *Resizer) Resample(src image.Image, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid destination size %dx%d", width, height)
	}

	if r.factor > 1 {
		// 超采样：先放大 factor 倍重采样，再缩回目标尺寸，换取更平滑的边缘。
		oversized := imaging.Fill(src, width*r.factor, height*r.factor, imaging.Center, r.filter)
		return imaging.Resize(oversized, width, height, r.filter), nil
	}

	return imaging.Fill(src, width, height, imaging.Center, r.filter), nil
}
