package hydraulics

import (
	"fmt"
	"math"
)

// TripDirection 起下钻方向
type TripDirection int

const (
	// TripRunIn 下钻，钻头测深递增
	TripRunIn TripDirection = iota
	// TripPullOut 起钻，钻头测深递减
	TripPullOut
)

func (d TripDirection) String() string {
	if d == TripPullOut {
		return "pullOut"
	}
	return "runIn"
}

// TripInput 一次起下钻模拟的全部输入
type TripInput struct {
	StartMD   float64
	EndMD     float64
	StepSize  float64 // 钻头深度步长 m
	Direction TripDirection

	Layers []Layer // 井内流体层持久化记录（原始坐标）
	WellTD float64 // 井底测深，口袋层下边界；不大于 0 时取层与起止深度的最深值
	// ControlMD 控制点测深（通常为套管鞋），目标 ESD 在该点考核；不大于 0 时取井底
	ControlMD float64
	TargetESD float64 // 目标当量静态密度 kg/m³

	Speed        float64 // 起下钻速度 m/min
	Eccentricity float64
	SwabStep     float64 // 抽汲/激动积分步长，不大于 0 时沿用 StepSize
	Dial600      float64 // 全局粘度计读数回退
	Dial300      float64
	SafetyFactor float64

	Float      FloatValve
	Hole       []Section // 井身结构分段
	Pipe       []Section // 管柱分段
	Trajectory Trajectory
}

// TripStep 单个深度样本。由编排器生成后不再修改，序列即一次模拟的全部输出。
type TripStep struct {
	BitMD  float64 `json:"bitMd"`
	BitTVD float64 `json:"bitTvd"`

	FillStepM3         float64 `json:"fillStepM3"`
	CumFillM3          float64 `json:"cumFillM3"`
	DisplacementStepM3 float64 `json:"displacementStepM3"`
	CumDisplacementM3  float64 `json:"cumDisplacementM3"`
	TankDeltaStepM3    float64 `json:"tankDeltaStepM3"`
	CumTankDeltaM3     float64 `json:"cumTankDeltaM3"`

	ESDControl float64 `json:"esdControl"` // 控制点当量静态密度 kg/m³
	ESDBit     float64 `json:"esdBit"`

	StaticSABPKPa  float64 `json:"staticSabpKpa"`
	DynamicSABPKPa float64 `json:"dynamicSabpKpa"`
	SwabKPa        float64 `json:"swabKpa"` // 当前深度的抽汲/激动摩阻合计
	NonLaminar     bool    `json:"nonLaminar"`

	FloatState FloatState `json:"floatState"`
	FloatDesc  string     `json:"floatDesc"`
	FloatPct   float64    `json:"floatPct"`

	AnnulusColumn []Layer          `json:"annulusColumn"`
	StringColumn  []Layer          `json:"stringColumn"`
	PocketColumn  []DisplacedLayer `json:"pocketColumn"`
}

// tripAccumulator 跨步传递的累计量。
// 每步的累计值依赖上一步，步序必须严格顺序执行。
type tripAccumulator struct {
	cumFill         float64
	cumDisplacement float64
	cumTankDelta    float64
	floatOpen       bool // 上一样本判定的浮阀状态，本步灌浆/排代体积按它计
}

// TripSimulator 起下钻模拟编排器，抽汲计算器在构造时注入
type TripSimulator struct {
	Estimator *SwabEstimator
}

// NewTripSimulator 构造使用缺省幂律公式的模拟器
func NewTripSimulator() *TripSimulator {
	return &TripSimulator{Estimator: NewSwabEstimator()}
}

// Run 把钻头深度自 StartMD 逐步推进到 EndMD，每步解析流体柱并计算
// 体积、当量密度、套压与浮阀状态，返回按步序排列的样本序列。
// 末样本深度恒等于 EndMD，即使行程不是步长整数倍。
func (s *TripSimulator) Run(in TripInput) ([]TripStep, error) {
	if err := validateTripInput(&in); err != nil {
		return nil, err
	}

	geom := NewSectionGeometry(in.Hole, in.Pipe)
	mds := buildTripDepths(in.StartMD, in.EndMD, in.StepSize, in.Direction)

	steps := make([]TripStep, 0, len(mds))
	acc := tripAccumulator{}
	prev := in.StartMD
	for _, md := range mds {
		step, err := s.step(&in, geom, md, prev, &acc)
		if err != nil {
			return nil, fmt.Errorf("钻头 %.1f m 处计算失败: %w", md, err)
		}
		steps = append(steps, step)
		prev = md
	}
	return steps, nil
}

func validateTripInput(in *TripInput) error {
	if len(in.Layers) == 0 {
		return fmt.Errorf("%w: 流体层为空", ErrInvalidInput)
	}
	if in.StepSize <= 0 {
		return fmt.Errorf("%w: 深度步长 %.3f m", ErrInvalidInput, in.StepSize)
	}
	if in.Speed <= 0 {
		return fmt.Errorf("%w: 起下钻速度 %.3f m/min", ErrInvalidInput, in.Speed)
	}
	switch in.Direction {
	case TripRunIn:
		if in.EndMD <= in.StartMD {
			return fmt.Errorf("%w: 下钻终深 %.1f 必须大于起始深度 %.1f", ErrInvalidInput, in.EndMD, in.StartMD)
		}
	case TripPullOut:
		if in.EndMD >= in.StartMD {
			return fmt.Errorf("%w: 起钻终深 %.1f 必须小于起始深度 %.1f", ErrInvalidInput, in.EndMD, in.StartMD)
		}
	default:
		return fmt.Errorf("%w: 未知起下钻方向 %d", ErrInvalidInput, in.Direction)
	}

	if in.WellTD <= 0 {
		in.WellTD = math.Max(in.StartMD, in.EndMD)
		for _, l := range in.Layers {
			in.WellTD = math.Max(in.WellTD, math.Max(l.TopMD, l.BottomMD))
		}
	}
	if in.ControlMD <= 0 {
		in.ControlMD = in.WellTD
	}
	if in.SwabStep <= 0 {
		in.SwabStep = in.StepSize
	}
	return nil
}

// buildTripDepths 生成样本深度序列，首样本为起始深度，末样本恒为终深
func buildTripDepths(start, end, step float64, dir TripDirection) []float64 {
	var mds []float64
	if dir == TripRunIn {
		for md := start; md < end-depthTol; md += step {
			mds = append(mds, md)
		}
	} else {
		for md := start; md > end+depthTol; md -= step {
			mds = append(mds, md)
		}
	}
	return append(mds, end)
}

func (s *TripSimulator) step(in *TripInput, geom *SectionGeometry, md, prev float64, acc *tripAccumulator) (TripStep, error) {
	annulus := SliceColumn(in.Layers, DomainAboveBit, md, 0, PlacementAnnulus, true)
	bore := SliceColumn(in.Layers, DomainAboveBit, md, 0, PlacementString, true)
	pocketRaw := SliceColumn(in.Layers, DomainBelowBit, md, in.WellTD, PlacementAnnulus, false)

	var pocket []DisplacedLayer
	if in.Direction == TripRunIn {
		pocket = DisplacePocketLayers(md, pocketRaw, geom.HoleSections(), geom.PipeOD(md), in.Trajectory)
	} else {
		pocket = annotatePocket(pocketRaw, in.Trajectory)
	}

	profile := annulusProfile(annulus, pocket, md)

	pBit := hydrostaticToKPa(profile, md, in.Trajectory)
	pControl := hydrostaticToKPa(profile, in.ControlMD, in.Trajectory)
	pString := hydrostaticToKPa(bore, md, in.Trajectory)

	tvdBit := tvdOf(in.Trajectory, md)
	tvdControl := tvdOf(in.Trajectory, in.ControlMD)
	esdBit := equivalentDensity(pBit, tvdBit)
	esdControl := equivalentDensity(pControl, tvdControl)

	staticSABP := math.Max(0, (in.TargetESD-esdControl)*KPaPerKgM3PerM*tvdControl)

	// 浮阀在移动过程中的状态取上一样本的判定结果
	movingOpen := !in.Float.Fitted || acc.floatOpen

	var swabTotal, swabMargin float64
	var nonLaminar bool
	swabCol := annulus
	if in.Direction == TripRunIn {
		swabCol = make([]Layer, 0, len(pocket))
		for _, dl := range pocket {
			swabCol = append(swabCol, dl.Layer)
		}
	}
	if len(swabCol) > 0 {
		est, err := s.Estimator.Estimate(SwabInput{
			Layers:       swabCol,
			Dial600:      in.Dial600,
			Dial300:      in.Dial300,
			HoistSpeed:   in.Speed,
			Eccentricity: in.Eccentricity,
			StepSize:     in.SwabStep,
			Geometry:     geom,
			Trajectory:   in.Trajectory,
			SafetyFactor: in.SafetyFactor,
			FloatOpen:    movingOpen,
		})
		if err != nil {
			return TripStep{}, err
		}
		swabTotal = est.TotalKPa
		swabMargin = est.RecommendedSABPKPa
		nonLaminar = est.NonLaminar
	}

	dynamicSABP := staticSABP + swabMargin
	if in.Direction == TripRunIn {
		dynamicSABP = math.Max(0, staticSABP-swabTotal)
	}

	state, pct := classifyFloat(in.Float, pString, pBit+staticSABP)

	// 体积按移动区间中点的管柱尺寸计
	deltaMD := math.Abs(md - prev)
	mid := (md + prev) / 2
	pipeOD := geom.PipeOD(mid)
	pipeID := geom.PipeID(mid)
	fullArea := math.Pi / 4 * pipeOD * pipeOD
	boreArea := math.Pi / 4 * pipeID * pipeID
	dispArea := fullArea - boreArea
	if in.Float.Fitted && !movingOpen {
		dispArea = fullArea
	}

	dispStep := deltaMD * dispArea
	var fillStep float64
	if in.Direction == TripRunIn && in.Float.Fitted && !movingOpen {
		fillStep = deltaMD * boreArea
	}
	tankStep := dispStep - fillStep
	if in.Direction == TripPullOut {
		tankStep = -dispStep
	}

	acc.cumFill += fillStep
	acc.cumDisplacement += dispStep
	acc.cumTankDelta += tankStep
	if in.Float.Fitted {
		acc.floatOpen = state == FloatOpen
	}

	desc := state.String()
	if state != FloatFull {
		desc = fmt.Sprintf("%s %.0f%%", state, pct)
	}

	return TripStep{
		BitMD:              md,
		BitTVD:             tvdBit,
		FillStepM3:         fillStep,
		CumFillM3:          acc.cumFill,
		DisplacementStepM3: dispStep,
		CumDisplacementM3:  acc.cumDisplacement,
		TankDeltaStepM3:    tankStep,
		CumTankDeltaM3:     acc.cumTankDelta,
		ESDControl:         esdControl,
		ESDBit:             esdBit,
		StaticSABPKPa:      staticSABP,
		DynamicSABPKPa:     dynamicSABP,
		SwabKPa:            swabTotal,
		NonLaminar:         nonLaminar,
		FloatState:         state,
		FloatDesc:          desc,
		FloatPct:           pct,
		AnnulusColumn:      annulus,
		StringColumn:       bore,
		PocketColumn:       pocket,
	}, nil
}

// annulusProfile 拼接环空侧完整流体剖面：口袋层（可能被位移顶到钻头以上）
// 占据其跨度，钻头以上的环空层裁剪到口袋顶以浅，整体保持由深至浅。
func annulusProfile(annulus []Layer, pocket []DisplacedLayer, bitMD float64) []Layer {
	profile := make([]Layer, 0, len(annulus)+len(pocket))
	pocketTop := bitMD
	if len(pocket) > 0 {
		pocketTop = pocket[len(pocket)-1].TopMD
	}
	for _, dl := range pocket {
		profile = append(profile, dl.Layer)
	}
	for _, l := range annulus {
		if l.BottomMD > pocketTop {
			l.BottomMD = pocketTop
			if l.BottomMD-l.TopMD <= depthTol {
				continue
			}
		}
		profile = append(profile, l)
	}
	return profile
}

// equivalentDensity 静液柱压力折算当量密度，垂深不大于 0 时记 0
func equivalentDensity(pressureKPa, tvd float64) float64 {
	if tvd <= 0 {
		return 0
	}
	return pressureKPa / (KPaPerKgM3PerM * tvd)
}
