// Package hydraulics 实现控压起下钻的水力学计算核心：
// 流变参数推导、环空摩阻、抽汲/激动压力、趟钻位移与套压计算。
// 本包只做纯计算，不访问数据库、不打日志，错误直接返回调用方。
package hydraulics

import "math"

// 物理常数与标定系数
const (
	// Gravity 重力加速度 m/s²，用于压力与当量密度互换
	Gravity = 9.81
	// KPaPerKgM3PerM 静液柱压力系数：密度(kg/m³) × 垂深(m) × 该系数 = 压力(kPa)
	KPaPerKgM3PerM = 0.00981
	// EmpiricalAPLConstant 标定的单系数环空摩阻经验公式系数
	// （流量 m³/min、长度 m、密度 kg/m³，结果 kPa）
	EmpiricalAPLConstant = 5.0265e-5
	// DefaultSafetyFactor 推荐套压的安全系数缺省值
	DefaultSafetyFactor = 1.15
	// DefaultPipeOD 无管柱数据时的缺省钻杆外径（5 英寸钻杆），m
	DefaultPipeOD = 0.127

	defaultPipeID = 0.1086 // 5 英寸钻杆公称内径 m
	defaultHoleID = 0.2159 // 8½ 英寸井眼 m
)

// 数值保护下限：几何退化按下限钳制处理，不作为错误抛出
const (
	minLength   = 1e-6  // m，长度与直径下限
	minArea     = 1e-9  // m²，过流面积下限
	minVelocity = 1e-12 // m/s，速度下限
	depthTol    = 1e-9  // m，层段裁剪与相邻判断容差
	densityTol  = 1e-9  // kg/m³，合并层段的密度容差
	minFlow     = 0.001 // m³/min，低于此流量不计摩阻
	volumeTol   = 0.001 // m³，体积亏空判定容差
)

// AnnularVelocity 环空返速。流量 m³/min，井径与钻杆外径 m，返回 m/min。
// 过流面积不大于 1e-9 m² 时返回 0。
func AnnularVelocity(flow, holeID, pipeOD float64) float64 {
	area := math.Pi / 4 * (holeID*holeID - pipeOD*pipeOD)
	if area <= minArea {
		return 0
	}
	return flow / area
}

// APLOverRange 把 [0, toMD] 区间内各井眼分段的经验环空摩阻逐段累加，
// 叠加到地面管汇摩阻 surfaceKPa 上，返回 kPa。
// 每段用段中点所在管柱分段的钻杆外径；无对应管柱分段时退回第一段外径，
// 管柱表为空时用缺省外径。流量不大于 0.001 m³/min 时直接返回 surfaceKPa。
// apl 为空时使用标定经验公式 EmpiricalAPL。
func APLOverRange(toMD, density, flow float64, hole, pipe []Section, surfaceKPa float64, apl APLFunc) float64 {
	if flow <= minFlow {
		return surfaceKPa
	}
	if apl == nil {
		apl = EmpiricalAPL
	}

	total := surfaceKPa
	for _, sec := range hole {
		lo := math.Max(0, math.Min(sec.TopMD, sec.BottomMD))
		hi := math.Min(toMD, math.Max(sec.TopMD, sec.BottomMD))
		length := hi - lo
		if length <= 0 {
			continue
		}
		od := pipeODAt(pipe, (lo+hi)/2)
		total += apl(density, length, flow, sec.InnerDiameter, od)
	}
	return total
}

// pipeODAt 取包含该测深的管柱分段外径，找不到时退回第一段，再退回缺省外径
func pipeODAt(pipe []Section, md float64) float64 {
	for _, s := range pipe {
		lo := math.Min(s.TopMD, s.BottomMD)
		hi := math.Max(s.TopMD, s.BottomMD)
		if md >= lo && md <= hi {
			return s.OuterDiameter
		}
	}
	if len(pipe) > 0 {
		return pipe[0].OuterDiameter
	}
	return DefaultPipeOD
}

// ECD 当量循环密度：静态密度叠加环空摩阻折算的密度当量，kg/m³。
// 垂深不大于 0 时返回静态密度本身。
func ECD(staticDensity, aplKPa, tvd float64) float64 {
	if tvd <= 0 {
		return staticDensity
	}
	return staticDensity + aplKPa*1000/(Gravity*tvd)
}

// ESD 当量静态密度：与 ECD 同式，摩阻换成井口回压
func ESD(staticDensity, backPressureKPa, tvd float64) float64 {
	if tvd <= 0 {
		return staticDensity
	}
	return staticDensity + backPressureKPa*1000/(Gravity*tvd)
}
