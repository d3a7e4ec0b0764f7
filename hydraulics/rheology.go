package hydraulics

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DialToPascal 范氏六速粘度计表盘读数换算到剪切应力（Pa）的仪器系数
	DialToPascal = 0.511
	// ShearRate600 600 转对应的剪切速率，1/s
	ShearRate600 = 1022.0
	// LaminarReynolds 广义雷诺数小于该阈值判为层流
	LaminarReynolds = 2100.0
)

var (
	// ErrInvalidInput 输入参数无效，计算立即中止
	ErrInvalidInput = errors.New("输入参数无效")
	// ErrMissingRheology 某深度区间解析不出流变参数
	ErrMissingRheology = errors.New("缺少流变参数")
)

// DeriveKN 由 600/300 转粘度计读数推算幂律流体的稠度系数 K（Pa·sⁿ）和流性指数 n。
// 两个读数都必须大于 0。
func DeriveKN(dial600, dial300 float64) (k, n float64, err error) {
	if dial600 <= 0 || dial300 <= 0 {
		return 0, 0, fmt.Errorf("%w: 粘度计读数 Φ600=%v Φ300=%v", ErrInvalidInput, dial600, dial300)
	}
	n = math.Log(dial600/dial300) / math.Ln2
	tau600 := DialToPascal * dial600
	k = tau600 / math.Pow(ShearRate600, n)
	return k, n, nil
}

// GradientFunc 井壁剪切摩阻梯度公式：输入密度 kg/m³、K、n、流速 m/s、水力直径 m，
// 返回梯度 Pa/m、是否层流、广义雷诺数。注入计算器后可整体替换为其他验证过的关联式。
type GradientFunc func(density, k, n, velocity, hydraulicDiameter float64) (gradient float64, laminar bool, reynolds float64)

// PowerLawGradient 幂律模式缺省实现。
// 井壁剪切速率按 Mooney–Rabinowitsch 修正：γw = (3n+1)/(4n) · 8V/Dh，
// 井壁剪切应力 τw = K·γwⁿ，梯度 = 4τw/Dh，
// 广义雷诺数按 Metzner–Reed：Reg = ρ·V^(2−n)·Dhⁿ / (K·8^(n−1))。
// 直径与流速按下限钳制，避免退化几何除零。
func PowerLawGradient(density, k, n, velocity, hydraulicDiameter float64) (float64, bool, float64) {
	dh := math.Max(hydraulicDiameter, minLength)
	v := math.Max(velocity, minVelocity)

	shearRate := (3*n + 1) / (4 * n) * (8 * v / dh)
	tauWall := k * math.Pow(shearRate, n)
	gradient := 4 * tauWall / dh
	reynolds := density * math.Pow(v, 2-n) * math.Pow(dh, n) / (k * math.Pow(8, n-1))

	return gradient, reynolds < LaminarReynolds, reynolds
}

// BinghamGradient 宾汉模式摩阻梯度：4·YP/Dh + 8·PV·V/Dh²。
// 屈服值 Pa，塑性粘度 Pa·s，流速 m/s，返回 Pa/m。
func BinghamGradient(yieldPoint, plasticViscosity, velocity, hydraulicDiameter float64) float64 {
	dh := math.Max(hydraulicDiameter, minLength)
	return 4*yieldPoint/dh + 8*plasticViscosity*velocity/(dh*dh)
}

// APLFunc 环空摩阻经验公式：密度 kg/m³、段长 m、流量 m³/min、井径与钻杆外径 m，返回 kPa
type APLFunc func(density, length, flow, holeID, pipeOD float64) float64

// EmpiricalAPL 现场标定的单系数环空摩阻经验公式缺省实现。
// 水力间隙不大于 1e-6 m 或流量不大于 0 时返回 0。
func EmpiricalAPL(density, length, flow, holeID, pipeOD float64) float64 {
	gap := holeID - pipeOD
	if gap <= minLength || flow <= 0 {
		return 0
	}
	return EmpiricalAPLConstant * density * length * flow * flow / gap
}

// ResolveLayerKN 按固定优先级解析单层流变参数：
// 层上显式 K/n，其次该层粘度计读数，最后全局读数回退。
// 全都缺失时返回 ErrMissingRheology，并指明该层深度区间。
func ResolveLayerKN(l Layer, globalK, globalN float64, hasGlobal bool) (k, n float64, err error) {
	switch {
	case l.HasKN:
		return l.K, l.N, nil
	case l.Dial600 > 0 && l.Dial300 > 0:
		return DeriveKN(l.Dial600, l.Dial300)
	case hasGlobal:
		return globalK, globalN, nil
	default:
		return 0, 0, fmt.Errorf("%w: 井深 %.1f-%.1f m", ErrMissingRheology, l.TopMD, l.BottomMD)
	}
}
