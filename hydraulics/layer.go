package hydraulics

import (
	"math"
	"sort"
)

// Placement 流体层所在的流道
type Placement string

const (
	PlacementAnnulus Placement = "annulus" // 只在环空
	PlacementString  Placement = "string"  // 只在钻具水眼
	PlacementBoth    Placement = "both"    // 环空与水眼连通段
)

// Layer 井内一段流体层。深度为测深 m，密度 kg/m³。
// 流变参数三选一：显式 K/n，本层粘度计读数，或留空回退全局读数。
type Layer struct {
	Density  float64 `json:"density"`
	TopMD    float64 `json:"topMd"`
	BottomMD float64 `json:"bottomMd"`

	K     float64 `json:"k,omitempty"`
	N     float64 `json:"n,omitempty"`
	HasKN bool    `json:"hasKn,omitempty"`

	Dial600 float64 `json:"dial600,omitempty"`
	Dial300 float64 `json:"dial300,omitempty"`

	Placement Placement `json:"placement,omitempty"`
	Color     string    `json:"color,omitempty"`
	// InAnnulus 表示该口袋层记录的高度已折算到环空截面，位移模型不再二次膨胀
	InAnnulus bool `json:"inAnnulus,omitempty"`
}

// Normalize 保证 TopMD 不深于 BottomMD（录入顺序不作保证）
func (l *Layer) Normalize() {
	if l.TopMD > l.BottomMD {
		l.TopMD, l.BottomMD = l.BottomMD, l.TopMD
	}
}

// Height 层段测深高度 m
func (l Layer) Height() float64 {
	return l.BottomMD - l.TopMD
}

// inPlacement 判断层是否属于查询流道，both 层同时属于环空与水眼
func (l Layer) inPlacement(p Placement) bool {
	if p == PlacementBoth {
		return true
	}
	return l.Placement == p || l.Placement == PlacementBoth || l.Placement == ""
}

// Domain 层段裁剪的深度窗口
type Domain int

const (
	// DomainAboveBit 钻头以上 [0, bitMD]
	DomainAboveBit Domain = iota
	// DomainBelowBit 钻头以下 [min(bitMD, lowerLimit), max(bitMD, lowerLimit)]
	DomainBelowBit
)

// SliceColumn 把流体层裁剪到指定深度窗口，按由深至浅排序后返回。
// 结果段是值拷贝，密度与流变参数随段保留，不回引原始层。
// 高度不足 1e-9 m 的裁剪结果丢弃。merge 为真时合并密度相同且边界相接的相邻段，
// 减少下游逐段积分的开销。返回顺序是抽汲计算依赖的硬约定。
func SliceColumn(layers []Layer, domain Domain, bitMD, lowerLimit float64, placement Placement, merge bool) []Layer {
	var lo, hi float64
	switch domain {
	case DomainBelowBit:
		lo = math.Min(bitMD, lowerLimit)
		hi = math.Max(bitMD, lowerLimit)
	default:
		lo, hi = 0, bitMD
	}

	out := make([]Layer, 0, len(layers))
	for _, l := range layers {
		if !l.inPlacement(placement) {
			continue
		}
		l.Normalize()
		top := math.Max(l.TopMD, lo)
		bottom := math.Min(l.BottomMD, hi)
		if bottom-top <= depthTol {
			continue
		}
		seg := l
		seg.TopMD, seg.BottomMD = top, bottom
		out = append(out, seg)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BottomMD > out[j].BottomMD
	})

	if merge {
		out = mergeColumn(out)
	}
	return out
}

// mergeColumn 合并密度一致且上下边界相接的相邻段，输入必须已按由深至浅排序
func mergeColumn(col []Layer) []Layer {
	if len(col) < 2 {
		return col
	}
	merged := make([]Layer, 0, len(col))
	merged = append(merged, col[0])
	for _, seg := range col[1:] {
		last := &merged[len(merged)-1]
		if math.Abs(last.Density-seg.Density) <= densityTol &&
			math.Abs(last.TopMD-seg.BottomMD) <= depthTol {
			last.TopMD = seg.TopMD
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}
