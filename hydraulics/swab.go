package hydraulics

import (
	"fmt"
	"math"
)

// SwabInput 抽汲/激动压力估算输入。
// Layers 必须是已按由深至浅排序的层段（SliceColumn 的输出约定）。
type SwabInput struct {
	Layers []Layer

	// 全局粘度计读数，层上未给流变参数时的回退，二者都大于 0 才生效
	Dial600 float64
	Dial300 float64

	HoistSpeed   float64 // 起下钻速度 m/min，必须大于 0
	Eccentricity float64 // 偏心系数，小于 1 时按 1 处理
	StepSize     float64 // 逐段积分步长 m，必须大于 0

	Geometry   Geometry
	Trajectory Trajectory // 可为 nil，样本垂深记 0

	SafetyFactor float64 // 推荐套压安全系数，不大于 0 时取 1.15
	FloatOpen    bool    // 浮阀开启时排代面积按管体金属环面积计
}

// SwabSegment 单个积分子段的计算样本
type SwabSegment struct {
	MD                float64 `json:"md"`
	TVD               float64 `json:"tvd"`
	HydraulicDiameter float64 `json:"hydraulicDiameter"`
	Velocity          float64 `json:"velocity"` // 环空等效流速 m/s
	GradientPaPerM    float64 `json:"gradientPaPerM"`
	CumulativeKPa     float64 `json:"cumulativeKpa"`
	Laminar           bool    `json:"laminar"`
	Reynolds          float64 `json:"reynolds"`
}

// SwabEstimate 抽汲/激动估算结果。子段由深至浅排列，累计压力沿序单调不减。
type SwabEstimate struct {
	Segments           []SwabSegment `json:"segments"`
	TotalKPa           float64       `json:"totalKpa"`
	RecommendedSABPKPa float64       `json:"recommendedSabpKpa"`
	NonLaminar         bool          `json:"nonLaminar"`
}

// SwabEstimator 抽汲/激动压力计算器。
// Gradient 在构造时注入，整条积分回路不感知具体关联式，
// 需要换用其他验证过的公式时不动此处代码。
type SwabEstimator struct {
	Gradient GradientFunc
}

// NewSwabEstimator 构造使用幂律缺省公式的计算器
func NewSwabEstimator() *SwabEstimator {
	return &SwabEstimator{Gradient: PowerLawGradient}
}

// Estimate 沿由深至浅的流体柱逐段积分井壁摩阻梯度。
// 每层先解析流变参数，再按步长切分，子段中点查询几何尺寸，
// 环空等效流速 = 管柱速度 × 排代面积/环空面积 × max(偏心系数, 1)。
// 任一子段为非层流时结果整体置非层流标志。
func (e *SwabEstimator) Estimate(in SwabInput) (*SwabEstimate, error) {
	if len(in.Layers) == 0 {
		return nil, fmt.Errorf("%w: 流体层为空", ErrInvalidInput)
	}
	if in.HoistSpeed <= 0 {
		return nil, fmt.Errorf("%w: 起下钻速度 %.3f m/min", ErrInvalidInput, in.HoistSpeed)
	}
	if in.StepSize <= 0 {
		return nil, fmt.Errorf("%w: 积分步长 %.3f m", ErrInvalidInput, in.StepSize)
	}
	if in.Geometry == nil {
		return nil, fmt.Errorf("%w: 缺少井身几何", ErrInvalidInput)
	}

	gradient := e.Gradient
	if gradient == nil {
		gradient = PowerLawGradient
	}

	var globalK, globalN float64
	hasGlobal := in.Dial600 > 0 && in.Dial300 > 0
	if hasGlobal {
		var err error
		globalK, globalN, err = DeriveKN(in.Dial600, in.Dial300)
		if err != nil {
			return nil, err
		}
	}

	pipeVelocity := in.HoistSpeed / 60 // m/min -> m/s
	ecc := math.Max(in.Eccentricity, 1)
	safety := in.SafetyFactor
	if safety <= 0 {
		safety = DefaultSafetyFactor
	}

	est := &SwabEstimate{}
	var cumKPa float64

	for _, layer := range in.Layers {
		k, n, err := ResolveLayerKN(layer, globalK, globalN, hasGlobal)
		if err != nil {
			return nil, err
		}

		// 自层底向层顶切分，末段裁剪到层顶
		for cur := layer.BottomMD; cur > layer.TopMD+depthTol; {
			next := math.Max(cur-in.StepSize, layer.TopMD)
			segLen := cur - next
			mid := (cur + next) / 2

			pipeOD := in.Geometry.PipeOD(mid)
			pipeID := in.Geometry.PipeID(mid)
			holeID := in.Geometry.HoleID(mid)

			annulusArea := math.Max(math.Pi/4*(holeID*holeID-pipeOD*pipeOD), minArea)
			dispArea := math.Pi / 4 * pipeOD * pipeOD
			if in.FloatOpen {
				dispArea = math.Pi / 4 * (pipeOD*pipeOD - pipeID*pipeID)
			}

			velocity := math.Max(pipeVelocity*dispArea/annulusArea*ecc, minVelocity)
			dh := holeID - pipeOD

			grad, laminar, reynolds := gradient(layer.Density, k, n, velocity, dh)
			cumKPa += grad * segLen / 1000
			if !laminar {
				est.NonLaminar = true
			}

			var tvd float64
			if in.Trajectory != nil {
				tvd = in.Trajectory.TVD(mid)
			}
			est.Segments = append(est.Segments, SwabSegment{
				MD:                mid,
				TVD:               tvd,
				HydraulicDiameter: dh,
				Velocity:          velocity,
				GradientPaPerM:    grad,
				CumulativeKPa:     cumKPa,
				Laminar:           laminar,
				Reynolds:          reynolds,
			})

			cur = next
		}
	}

	est.TotalKPa = cumKPa
	est.RecommendedSABPKPa = cumKPa * safety
	return est, nil
}
