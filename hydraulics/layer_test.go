package hydraulics

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceColumnOrderingAndConservation(t *testing.T) {
	layers := []Layer{
		{Density: 1200, TopMD: 0, BottomMD: 500, Placement: PlacementAnnulus},
		{Density: 1400, TopMD: 1500, BottomMD: 2000, Placement: PlacementAnnulus},
		{Density: 1300, TopMD: 1500, BottomMD: 500, Placement: PlacementAnnulus}, // 上下颠倒的录入
	}

	col := SliceColumn(layers, DomainAboveBit, 1800, 0, PlacementAnnulus, false)
	require.Len(t, col, 3)

	// 由深至浅
	for i := 1; i < len(col); i++ {
		assert.GreaterOrEqual(t, col[i-1].BottomMD, col[i].BottomMD)
		assert.GreaterOrEqual(t, col[i-1].TopMD, col[i].TopMD)
	}
	assert.Equal(t, 1800.0, col[0].BottomMD)
	assert.Equal(t, 1400.0, col[0].Density)

	// 裁剪不产生也不湮灭区间：输出总长等于输入与窗口交集的总长
	assert.InDelta(t, 1800.0, unionLength(col), 1e-9)
}

func unionLength(col []Layer) float64 {
	if len(col) == 0 {
		return 0
	}
	ivs := make([][2]float64, 0, len(col))
	for _, l := range col {
		ivs = append(ivs, [2]float64{l.TopMD, l.BottomMD})
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i][0] < ivs[j][0] })
	total := 0.0
	curLo, curHi := ivs[0][0], ivs[0][1]
	for _, iv := range ivs[1:] {
		if iv[0] > curHi {
			total += curHi - curLo
			curLo, curHi = iv[0], iv[1]
			continue
		}
		curHi = math.Max(curHi, iv[1])
	}
	return total + curHi - curLo
}

func TestSliceColumnBelowBitWindow(t *testing.T) {
	layers := []Layer{
		{Density: 1200, TopMD: 0, BottomMD: 2600, Placement: PlacementAnnulus},
		{Density: 1500, TopMD: 2600, BottomMD: 3000, Placement: PlacementAnnulus},
	}

	col := SliceColumn(layers, DomainBelowBit, 2400, 3000, PlacementAnnulus, false)
	require.Len(t, col, 2)
	assert.Equal(t, 3000.0, col[0].BottomMD)
	assert.Equal(t, 2600.0, col[0].TopMD)
	assert.Equal(t, 2600.0, col[1].BottomMD)
	assert.Equal(t, 2400.0, col[1].TopMD)

	// 钻头与下边界颠倒时窗口不变
	rev := SliceColumn(layers, DomainBelowBit, 3000, 2400, PlacementAnnulus, false)
	assert.Equal(t, col, rev)
}

func TestSliceColumnDropsDegenerate(t *testing.T) {
	layers := []Layer{
		{Density: 1200, TopMD: 1000, BottomMD: 1000, Placement: PlacementAnnulus},
		{Density: 1200, TopMD: 2200, BottomMD: 2800, Placement: PlacementAnnulus}, // 窗口之外
	}
	col := SliceColumn(layers, DomainAboveBit, 2000, 0, PlacementAnnulus, false)
	assert.Empty(t, col)
}

func TestSliceColumnPlacementFilter(t *testing.T) {
	layers := []Layer{
		{Density: 1200, TopMD: 0, BottomMD: 1000, Placement: PlacementAnnulus},
		{Density: 1250, TopMD: 0, BottomMD: 1000, Placement: PlacementString},
		{Density: 1300, TopMD: 1000, BottomMD: 2000, Placement: PlacementBoth},
	}

	ann := SliceColumn(layers, DomainAboveBit, 2000, 0, PlacementAnnulus, false)
	require.Len(t, ann, 2)
	assert.Equal(t, 1300.0, ann[0].Density)
	assert.Equal(t, 1200.0, ann[1].Density)

	str := SliceColumn(layers, DomainAboveBit, 2000, 0, PlacementString, false)
	require.Len(t, str, 2)
	assert.Equal(t, 1300.0, str[0].Density)
	assert.Equal(t, 1250.0, str[1].Density)
}

func TestSliceColumnMerge(t *testing.T) {
	layers := []Layer{
		{Density: 1200, TopMD: 0, BottomMD: 800, Placement: PlacementAnnulus},
		{Density: 1200, TopMD: 800, BottomMD: 1500, Placement: PlacementAnnulus},
		{Density: 1400, TopMD: 1500, BottomMD: 2000, Placement: PlacementAnnulus},
		{Density: 1200, TopMD: 2000, BottomMD: 2300, Placement: PlacementAnnulus}, // 密度同但不相邻
	}

	col := SliceColumn(layers, DomainAboveBit, 2300, 0, PlacementAnnulus, true)
	require.Len(t, col, 3)
	assert.Equal(t, 1200.0, col[0].Density)
	assert.Equal(t, 1400.0, col[1].Density)
	assert.Equal(t, 1200.0, col[2].Density)
	assert.Equal(t, 0.0, col[2].TopMD)
	assert.Equal(t, 1500.0, col[2].BottomMD)

	// 保留的流变参数随段拷贝，不回引原始层
	layers[0].Density = 999
	assert.Equal(t, 1200.0, col[2].Density)
}
