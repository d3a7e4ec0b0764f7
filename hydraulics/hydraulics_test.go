package hydraulics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnularVelocity(t *testing.T) {
	v := AnnularVelocity(1.13, 0.2, 0.12)
	want := 1.13 / (math.Pi / 4 * (0.2*0.2 - 0.12*0.12))
	assert.InDelta(t, want, v, 1e-12)

	assert.Zero(t, AnnularVelocity(1.13, 0.12, 0.12))
	assert.Zero(t, AnnularVelocity(1.13, 0.1, 0.12))
}

func TestAPLOverRange(t *testing.T) {
	hole := []Section{
		{TopMD: 0, BottomMD: 1000, InnerDiameter: 0.3},
		{TopMD: 1000, BottomMD: 3000, InnerDiameter: 0.216},
	}
	pipe := []Section{
		{TopMD: 0, BottomMD: 2500, OuterDiameter: 0.127},
		{TopMD: 2500, BottomMD: 3000, OuterDiameter: 0.089},
	}

	// 流量低于阈值时原样返回地面摩阻
	assert.Equal(t, 250.0, APLOverRange(2000, 1200, 0.0005, hole, pipe, 250, nil))

	got := APLOverRange(2000, 1200, 1.0, hole, pipe, 250, nil)
	want := 250 +
		EmpiricalAPL(1200, 1000, 1.0, 0.3, 0.127) + // [0,1000] 中点 500
		EmpiricalAPL(1200, 1000, 1.0, 0.216, 0.127) // [1000,2000] 中点 1500
	assert.InDelta(t, want, got, 1e-9)

	// 深段用第二根管柱分段的外径
	got = APLOverRange(3000, 1200, 1.0, hole, pipe, 0, nil)
	want = EmpiricalAPL(1200, 1000, 1.0, 0.3, 0.127) +
		EmpiricalAPL(1200, 2000, 1.0, 0.216, 0.127)
	// [1000,3000] 中点 2000 仍在首段管柱内
	assert.InDelta(t, want, got, 1e-9)

	// 无管柱分段时退回缺省外径
	got = APLOverRange(1000, 1200, 1.0, hole, nil, 0, nil)
	want = EmpiricalAPL(1200, 1000, 1.0, 0.3, DefaultPipeOD)
	assert.InDelta(t, want, got, 1e-9)
}

func TestAPLOverRangeMidpointFallback(t *testing.T) {
	hole := []Section{{TopMD: 0, BottomMD: 1000, InnerDiameter: 0.216}}
	// 管柱表不覆盖段中点，退回第一段外径
	pipe := []Section{{TopMD: 2000, BottomMD: 3000, OuterDiameter: 0.089}}

	got := APLOverRange(1000, 1200, 1.0, hole, pipe, 0, nil)
	want := EmpiricalAPL(1200, 1000, 1.0, 0.216, 0.089)
	assert.InDelta(t, want, got, 1e-9)
}

func TestECDAndESD(t *testing.T) {
	assert.InDelta(t, 1200+500*1000/(Gravity*2500), ECD(1200, 500, 2500), 1e-9)
	assert.Equal(t, 1200.0, ECD(1200, 500, 0))
	assert.Equal(t, 1200.0, ECD(1200, 500, -10))

	assert.InDelta(t, 1200+1471.5*1000/(Gravity*3000), ESD(1200, 1471.5, 3000), 1e-9)
	assert.Equal(t, 1350.0, ESD(1350, 800, 0))
}
