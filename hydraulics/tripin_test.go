package hydraulics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHole = []Section{{TopMD: 0, BottomMD: 5000, InnerDiameter: 0.216}}

func TestExpansionFactor(t *testing.T) {
	// 0.216 井眼 / 0.127 钻杆：0.216²/(0.216²-0.127²)
	f := expansionFactor(testHole, 0.127, 2500)
	assert.InDelta(t, 0.046656/0.030527, f, 1e-9)

	// 环空面积退化时钳制为 1
	assert.Equal(t, 1.0, expansionFactor(testHole, 0.216, 2500))
	assert.Equal(t, 1.0, expansionFactor(testHole, 0.30, 2500))
}

func TestDisplacePocketLayersFullyBelow(t *testing.T) {
	pocket := []Layer{{Density: 1500, TopMD: 2400, BottomMD: 3000}}
	out := DisplacePocketLayers(2400, pocket, testHole, 0.127, nil)
	require.Len(t, out, 1)

	f := expansionFactor(testHole, 0.127, 2700)
	seg := out[0]
	assert.InDelta(t, 3000.0, seg.BottomMD, 1e-9)
	assert.InDelta(t, 600*f, seg.Height(), 1e-9)
	assert.True(t, seg.InAnnulus)

	// 体积守恒：环空截面×新高 = 全井眼截面×原高
	annArea := math.Pi / 4 * (0.216*0.216 - 0.127*0.127)
	fullArea := math.Pi / 4 * 0.216 * 0.216
	assert.InDelta(t, 600*fullArea, seg.Height()*annArea, 1e-9)

	// 直井下静液柱贡献 = ρ·0.00981·高度
	assert.InDelta(t, 1500*KPaPerKgM3PerM*seg.Height(), seg.HydrostaticKPa, 1e-9)
}

func TestDisplacePocketLayersInAnnulusSkip(t *testing.T) {
	pocket := []Layer{{Density: 1500, TopMD: 2400, BottomMD: 3000, InAnnulus: true}}
	out := DisplacePocketLayers(2400, pocket, testHole, 0.127, nil)
	require.Len(t, out, 1)

	// 已折算环空的层不再膨胀
	assert.InDelta(t, 600.0, out[0].Height(), 1e-9)
	assert.InDelta(t, 2400.0, out[0].TopMD, 1e-9)
	assert.True(t, out[0].InAnnulus)
}

func TestDisplacePocketLayersStraddle(t *testing.T) {
	pocket := []Layer{{Density: 1500, TopMD: 2400, BottomMD: 3000}}
	out := DisplacePocketLayers(2500, pocket, testHole, 0.127, nil)
	require.Len(t, out, 1)

	// 钻头以下 500 m 原样，以上 100 m 按 2450 m 处倍数膨胀
	f := expansionFactor(testHole, 0.127, 2450)
	assert.InDelta(t, 500+100*f, out[0].Height(), 1e-9)
	assert.InDelta(t, 3000.0, out[0].BottomMD, 1e-9)
	assert.True(t, out[0].InAnnulus)
}

func TestDisplacePocketLayersRestackContiguous(t *testing.T) {
	pocket := []Layer{
		{Density: 1600, TopMD: 2800, BottomMD: 3000},
		{Density: 1400, TopMD: 2400, BottomMD: 2800},
	}
	out := DisplacePocketLayers(2400, pocket, testHole, 0.127, nil)
	require.Len(t, out, 2)

	// 自最深层底连续向上堆叠，无缝隙无重叠
	assert.InDelta(t, 3000.0, out[0].BottomMD, 1e-9)
	assert.InDelta(t, out[0].TopMD, out[1].BottomMD, 1e-9)

	f := expansionFactor(testHole, 0.127, 2900)
	assert.InDelta(t, 200*f, out[0].Height(), 1e-9)
	assert.Equal(t, 1600.0, out[0].Density)
	assert.Equal(t, 1400.0, out[1].Density)

	// 两层合计跨度等于各自膨胀高度之和
	f2 := expansionFactor(testHole, 0.127, 2600)
	assert.InDelta(t, 200*f+400*f2, 3000-out[1].TopMD, 1e-9)
}

func TestDisplacePocketLayersSurfaceClamp(t *testing.T) {
	pocket := []Layer{
		{Density: 1500, TopMD: 100, BottomMD: 3000},
		{Density: 1300, TopMD: 50, BottomMD: 100},
	}
	out := DisplacePocketLayers(50, pocket, testHole, 0.127, nil)
	require.Len(t, out, 1)

	// 第一层膨胀后顶出井口，裁到 0；第二层完全被顶出，丢弃
	assert.Equal(t, 0.0, out[0].TopMD)
	assert.InDelta(t, 3000.0, out[0].BottomMD, 1e-9)
	assert.Equal(t, 1500.0, out[0].Density)
}

func TestDisplacePocketLayersEmpty(t *testing.T) {
	assert.Nil(t, DisplacePocketLayers(2400, nil, testHole, 0.127, nil))
}

func TestAnnotatePocket(t *testing.T) {
	pocket := []Layer{
		{Density: 1600, TopMD: 2800, BottomMD: 3000},
		{Density: 1400, TopMD: 2400, BottomMD: 2800},
	}
	out := annotatePocket(pocket, nil)
	require.Len(t, out, 2)

	// 起钻不发生位移，只补静液柱标注
	assert.Equal(t, pocket[0], out[0].Layer)
	assert.Equal(t, pocket[1], out[1].Layer)
	assert.InDelta(t, 1600*KPaPerKgM3PerM*200, out[0].HydrostaticKPa, 1e-9)
	assert.InDelta(t, 1400*KPaPerKgM3PerM*400, out[1].HydrostaticKPa, 1e-9)
}

func TestClassifyFloat(t *testing.T) {
	// 未安装浮阀恒为自灌
	state, pct := classifyFloat(FloatValve{}, 5000, 1000)
	assert.Equal(t, FloatFull, state)
	assert.Zero(t, pct)

	valve := FloatValve{Fitted: true, CrackKPa: 345}

	// 压差刚到阈值即开，程度 0
	state, pct = classifyFloat(valve, 4345, 4000)
	assert.Equal(t, FloatOpen, state)
	assert.InDelta(t, 0.0, pct, 1e-9)

	// 远超阈值截到 100
	state, pct = classifyFloat(valve, 5000, 4000)
	assert.Equal(t, FloatOpen, state)
	assert.Equal(t, 100.0, pct)

	// 未达阈值为关，程度按差距线性
	state, pct = classifyFloat(valve, 4100, 4000)
	assert.Equal(t, FloatClosed, state)
	assert.InDelta(t, (345-100)/345.0*100, pct, 1e-9)

	// 环空压倒水眼时关闭程度截到 100
	state, pct = classifyFloat(valve, 3000, 4000)
	assert.Equal(t, FloatClosed, state)
	assert.Equal(t, 100.0, pct)
}

func TestFloatStateString(t *testing.T) {
	assert.Equal(t, "Full", FloatFull.String())
	assert.Equal(t, "CLOSED", FloatClosed.String())
	assert.Equal(t, "OPEN", FloatOpen.String())
}
