package hydraulics

import (
	"math"
	"sort"
)

// Section 井身结构或管柱的一段深度区间。
// 井眼分段用 InnerDiameter 表示井径（套管内径或裸眼直径），
// 管柱分段用 OuterDiameter/InnerDiameter 表示钻杆外径/内径，单位 m。
// 分段应完整覆盖建模深度且互不重叠，查询才有确定结果。
type Section struct {
	TopMD         float64 `json:"topMd"`
	BottomMD      float64 `json:"bottomMd"`
	InnerDiameter float64 `json:"innerDiameter"`
	OuterDiameter float64 `json:"outerDiameter,omitempty"`
}

// Geometry 按测深查询井眼与管柱几何尺寸，均返回 m。
// 实现必须是纯查询：同一深度永远返回同一结果，可被多个独立模拟并发调用。
type Geometry interface {
	PipeOD(md float64) float64
	PipeID(md float64) float64
	HoleID(md float64) float64
}

// SectionGeometry 基于分段表的 Geometry 实现。
// 测深落在分段之外时退回最近的首段或末段，这是约定的降级行为，不报错。
type SectionGeometry struct {
	hole []Section
	pipe []Section
}

// NewSectionGeometry 构造分段几何，分段按顶深排序后存储
func NewSectionGeometry(hole, pipe []Section) *SectionGeometry {
	g := &SectionGeometry{
		hole: append([]Section(nil), hole...),
		pipe: append([]Section(nil), pipe...),
	}
	sortSections(g.hole)
	sortSections(g.pipe)
	return g
}

func sortSections(sections []Section) {
	for i := range sections {
		if sections[i].TopMD > sections[i].BottomMD {
			sections[i].TopMD, sections[i].BottomMD = sections[i].BottomMD, sections[i].TopMD
		}
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].TopMD < sections[j].TopMD
	})
}

// HoleSections 返回排序后的井眼分段表（只读视图，供逐段摩阻累加使用）
func (g *SectionGeometry) HoleSections() []Section {
	return g.hole
}

// PipeSections 返回排序后的管柱分段表
func (g *SectionGeometry) PipeSections() []Section {
	return g.pipe
}

func (g *SectionGeometry) PipeOD(md float64) float64 {
	if s, ok := sectionAt(g.pipe, md); ok {
		return s.OuterDiameter
	}
	return DefaultPipeOD
}

func (g *SectionGeometry) PipeID(md float64) float64 {
	if s, ok := sectionAt(g.pipe, md); ok {
		return s.InnerDiameter
	}
	return defaultPipeID
}

func (g *SectionGeometry) HoleID(md float64) float64 {
	if s, ok := sectionAt(g.hole, md); ok {
		return s.InnerDiameter
	}
	return defaultHoleID
}

// sectionAt 取包含 md 的分段；超出表范围时取最近端的分段，表为空时报未命中
func sectionAt(sections []Section, md float64) (Section, bool) {
	if len(sections) == 0 {
		return Section{}, false
	}
	for _, s := range sections {
		if md >= s.TopMD && md <= s.BottomMD {
			return s, true
		}
	}
	if md < sections[0].TopMD {
		return sections[0], true
	}
	return sections[len(sections)-1], true
}

// Trajectory 井眼轨迹：测深换算垂深。可缺省，缺省时调用方以测深代垂深或取 0。
type Trajectory interface {
	TVD(md float64) float64
}

// SurveyStation 一个测斜点
type SurveyStation struct {
	MD  float64 `json:"md"`
	TVD float64 `json:"tvd"`
}

// SurveyTrajectory 在测斜点之间线性插值。
// 首点之前按井口 (0,0) 到首点插值，末点之后沿末段斜率外推，
// 没有测斜点时按直井处理（垂深等于测深）。
type SurveyTrajectory struct {
	stations []SurveyStation
}

// NewSurveyTrajectory 构造轨迹，测斜点按测深排序后存储
func NewSurveyTrajectory(stations []SurveyStation) *SurveyTrajectory {
	t := &SurveyTrajectory{stations: append([]SurveyStation(nil), stations...)}
	sort.SliceStable(t.stations, func(i, j int) bool {
		return t.stations[i].MD < t.stations[j].MD
	})
	return t
}

func (t *SurveyTrajectory) TVD(md float64) float64 {
	n := len(t.stations)
	if n == 0 {
		return md
	}

	first := t.stations[0]
	if md <= first.MD {
		if first.MD <= minLength {
			return first.TVD
		}
		return first.TVD * md / first.MD
	}

	for i := 1; i < n; i++ {
		a, b := t.stations[i-1], t.stations[i]
		if md <= b.MD {
			span := b.MD - a.MD
			if span <= minLength {
				return b.TVD
			}
			return a.TVD + (b.TVD-a.TVD)*(md-a.MD)/span
		}
	}

	last := t.stations[n-1]
	slope := 1.0
	if n > 1 {
		prev := t.stations[n-2]
		if span := last.MD - prev.MD; span > minLength {
			slope = (last.TVD - prev.TVD) / span
		}
	}
	return last.TVD + (md-last.MD)*slope
}

// tvdOf 轨迹缺省时以测深代垂深（直井假设）
func tvdOf(traj Trajectory, md float64) float64 {
	if traj == nil {
		return md
	}
	return traj.TVD(md)
}

// hydrostaticToKPa 把按由深至浅排序、互不重叠的流体剖面积分到指定测深，
// 返回该深度处的静液柱压力 kPa。轨迹缺省时用测深差代垂深差。
func hydrostaticToKPa(profile []Layer, toMD float64, traj Trajectory) float64 {
	var total float64
	for _, l := range profile {
		top := l.TopMD
		bottom := math.Min(l.BottomMD, toMD)
		if bottom-top <= 0 {
			continue
		}
		dtvd := tvdOf(traj, bottom) - tvdOf(traj, top)
		total += l.Density * KPaPerKgM3PerM * dtvd
	}
	return total
}
