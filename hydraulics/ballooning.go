package hydraulics

import (
	"fmt"
	"math"
)

// BallooningInput 井漏/井壁回吐修正输入。
// 模拟要求的压井液量与实际泵入量对比，亏空按轻浆顶替处理。
type BallooningInput struct {
	SimulatedSABPKPa float64 `json:"simulatedSabpKpa"`
	SimulatedKillM3  float64 `json:"simulatedKillM3"`
	ActualKillM3     float64 `json:"actualKillM3"`
	KillDensity      float64 `json:"killDensity"`     // kg/m³
	OriginalDensity  float64 `json:"originalDensity"` // kg/m³
}

// BallooningResult 修正结果。亏空不超过容差时返回模拟值本身，派生量全为 0。
type BallooningResult struct {
	AdjustedSABPKPa float64 `json:"adjustedSabpKpa"`
	DeltaSABPKPa    float64 `json:"deltaSabpKpa"`
	DeficitM3       float64 `json:"deficitM3"`
	DeficitTVD      float64 `json:"deficitTvd"` // 亏空段折算垂深高度 m
	PressureLossKPa float64 `json:"pressureLossKpa"`
}

// AdjustForBallooning 计算压井液量亏空需要补偿的井口回压。
// 亏空体积按环空截面自井口向下换算成测深跨度，按 1 m 步长逐米折算垂深，
// 每米损失 (压井液密度 − 原浆密度)·0.00981·ΔTVD。
// 亏空视为较轻的原浆停留在环空最浅处，这是计算结果最大、偏安全的摆放。
func AdjustForBallooning(in BallooningInput, geom Geometry, traj Trajectory) (BallooningResult, error) {
	if geom == nil {
		return BallooningResult{}, fmt.Errorf("%w: 缺少井身几何", ErrInvalidInput)
	}
	if in.SimulatedKillM3 < 0 || in.ActualKillM3 < 0 {
		return BallooningResult{}, fmt.Errorf("%w: 压井液量不能为负", ErrInvalidInput)
	}

	deficit := in.SimulatedKillM3 - in.ActualKillM3
	if deficit <= volumeTol {
		return BallooningResult{AdjustedSABPKPa: in.SimulatedSABPKPa}, nil
	}

	densityGap := in.KillDensity - in.OriginalDensity
	var (
		md        float64
		remaining = deficit
		loss      float64
		deficitTo float64
	)
	for remaining > 0 {
		holeID := geom.HoleID(md + 0.5)
		pipeOD := geom.PipeOD(md + 0.5)
		area := math.Pi / 4 * (holeID*holeID - pipeOD*pipeOD)
		if area <= minArea {
			break
		}

		stepLen := 1.0
		if vol := area * stepLen; vol >= remaining {
			stepLen = remaining / area
			remaining = 0
		} else {
			remaining -= vol
		}

		dtvd := tvdOf(traj, md+stepLen) - tvdOf(traj, md)
		loss += densityGap * KPaPerKgM3PerM * dtvd
		md += stepLen
	}
	deficitTo = tvdOf(traj, md) - tvdOf(traj, 0)

	return BallooningResult{
		AdjustedSABPKPa: in.SimulatedSABPKPa + loss,
		DeltaSABPKPa:    loss,
		DeficitM3:       deficit,
		DeficitTVD:      deficitTo,
		PressureLossKPa: loss,
	}, nil
}
