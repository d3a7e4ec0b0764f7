package hydraulics

import "math"

// DisplacedLayer 位移换算后的口袋层及其静液柱压力贡献
type DisplacedLayer struct {
	Layer
	HydrostaticKPa float64 `json:"hydrostaticKpa"`
}

// expansionFactor 口袋流体被钻具挤入环空后的高度放大倍数：
// 全井眼截面积 / 环空截面积。环空面积退化时钳制为 1。
func expansionFactor(hole []Section, pipeOD, md float64) float64 {
	holeID := defaultHoleID
	if s, ok := sectionAt(hole, md); ok {
		holeID = s.InnerDiameter
	}
	fullArea := math.Pi / 4 * holeID * holeID
	annulusArea := math.Pi / 4 * (holeID*holeID - pipeOD*pipeOD)
	if annulusArea <= minArea {
		return 1
	}
	return fullArea / annulusArea
}

// DisplacePocketLayers 下钻时口袋层的几何位移换算。
// 钻具经过的口袋流体从全井眼截面被挤入环空截面，体积不变、占据更高的测深区间：
//   - 整层在钻头以下：记录高度已折算环空（InAnnulus）的保持原高，否则按层中点倍数膨胀；
//   - 跨钻头的层：仅钻头以上部分膨胀，加上钻头以下原样部分；
//   - 整层在钻头以上：不变。
//
// 换算后自最深原始层底向上重新连续堆叠，膨胀把更浅的层向上顶；
// 顶到井口以上的部分裁掉，裁剩非正高度的层丢弃。
// 每个结果层附带静液柱压力贡献 ρ·0.00981·ΔTVD（kPa），轨迹缺省按直井计。
// 输入输出都按由深至浅排列。
func DisplacePocketLayers(bitMD float64, pocket []Layer, hole []Section, pipeOD float64, traj Trajectory) []DisplacedLayer {
	if len(pocket) == 0 {
		return nil
	}

	deepest := pocket[0].BottomMD
	for _, l := range pocket {
		if l.BottomMD > deepest {
			deepest = l.BottomMD
		}
	}

	out := make([]DisplacedLayer, 0, len(pocket))
	cur := deepest
	for _, l := range pocket {
		l.Normalize()
		height := l.Height()
		expanded := false

		switch {
		case l.TopMD >= bitMD:
			// 整层在钻头以下
			if !l.InAnnulus {
				height *= expansionFactor(hole, pipeOD, (l.TopMD+l.BottomMD)/2)
				expanded = true
			}
		case l.BottomMD > bitMD:
			// 跨钻头：上段膨胀，下段原样
			above := bitMD - l.TopMD
			below := l.BottomMD - bitMD
			height = below + above*expansionFactor(hole, pipeOD, (l.TopMD+bitMD)/2)
			expanded = true
		default:
			// 整层在钻头以上，不变
		}

		bottom := cur
		top := bottom - height
		if top < 0 {
			top = 0
		}
		cur = top
		if bottom-top <= depthTol || bottom <= 0 {
			continue
		}

		seg := l
		seg.TopMD, seg.BottomMD = top, bottom
		if expanded {
			seg.InAnnulus = true
		}
		dtvd := tvdOf(traj, bottom) - tvdOf(traj, top)
		out = append(out, DisplacedLayer{
			Layer:          seg,
			HydrostaticKPa: seg.Density * KPaPerKgM3PerM * dtvd,
		})
	}
	return out
}

// annotatePocket 起钻时口袋层不发生位移，只补静液柱压力标注
func annotatePocket(pocket []Layer, traj Trajectory) []DisplacedLayer {
	out := make([]DisplacedLayer, 0, len(pocket))
	for _, l := range pocket {
		dtvd := tvdOf(traj, l.BottomMD) - tvdOf(traj, l.TopMD)
		out = append(out, DisplacedLayer{
			Layer:          l,
			HydrostaticKPa: l.Density * KPaPerKgM3PerM * dtvd,
		})
	}
	return out
}

// FloatValve 钻具内浮阀配置。未安装时管柱自灌，状态恒为 FloatFull。
type FloatValve struct {
	Fitted   bool    `json:"fitted"`
	CrackKPa float64 `json:"crackKpa"` // 开启压差阈值
}

// FloatState 浮阀状态
type FloatState int

const (
	// FloatFull 未装浮阀，管柱与环空连通自灌
	FloatFull FloatState = iota
	// FloatClosed 浮阀关闭，下钻需从井口灌浆
	FloatClosed
	// FloatOpen 浮阀开启，水眼自下而上充填
	FloatOpen
)

func (s FloatState) String() string {
	switch s {
	case FloatClosed:
		return "CLOSED"
	case FloatOpen:
		return "OPEN"
	default:
		return "Full"
	}
}

// classifyFloat 按浮阀两侧压差给出状态与程度百分比。
// 压差 = 水眼侧钻头处压力 − 环空侧钻头处压力，达到开启阈值判为开。
// 百分比是相对阈值的线性指示量，计算后截到 [0,100]，只作定性参考。
func classifyFloat(valve FloatValve, stringKPa, annulusKPa float64) (FloatState, float64) {
	if !valve.Fitted {
		return FloatFull, 0
	}
	crack := math.Max(valve.CrackKPa, minLength)
	diff := stringKPa - annulusKPa
	if diff >= crack {
		return FloatOpen, clampPct((diff - crack) / crack * 100)
	}
	return FloatClosed, clampPct((crack - diff) / crack * 100)
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
