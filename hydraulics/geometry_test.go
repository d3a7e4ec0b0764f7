package hydraulics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionGeometryLookup(t *testing.T) {
	hole := []Section{
		{TopMD: 1000, BottomMD: 3000, InnerDiameter: 0.2159},
		{TopMD: 1000, BottomMD: 0, InnerDiameter: 0.3112}, // 顶底颠倒的录入
	}
	pipe := []Section{
		{TopMD: 0, BottomMD: 2800, InnerDiameter: 0.1086, OuterDiameter: 0.127},
	}
	g := NewSectionGeometry(hole, pipe)

	assert.Equal(t, 0.3112, g.HoleID(500))
	assert.Equal(t, 0.2159, g.HoleID(2000))
	// 边界深度命中排序靠前的分段
	assert.Equal(t, 0.3112, g.HoleID(1000))
	// 超出末段按末段处理
	assert.Equal(t, 0.2159, g.HoleID(3500))
	assert.Equal(t, 0.127, g.PipeOD(2900))
	assert.Equal(t, 0.1086, g.PipeID(1500))
}

func TestSectionGeometryDefaults(t *testing.T) {
	g := NewSectionGeometry(nil, nil)
	assert.Equal(t, defaultHoleID, g.HoleID(1200))
	assert.Equal(t, DefaultPipeOD, g.PipeOD(1200))
	assert.Equal(t, defaultPipeID, g.PipeID(1200))
	assert.Empty(t, g.HoleSections())
}

func TestSurveyTrajectoryInterpolation(t *testing.T) {
	traj := NewSurveyTrajectory([]SurveyStation{
		{MD: 2000, TVD: 1800},
		{MD: 1000, TVD: 1000},
	})

	// 首点之前按井口到首点插值
	assert.InDelta(t, 500.0, traj.TVD(500), 1e-9)
	// 测斜点之间线性插值
	assert.InDelta(t, 1400.0, traj.TVD(1500), 1e-9)
	assert.InDelta(t, 1800.0, traj.TVD(2000), 1e-9)
	// 末点之后沿末段斜率外推：(1800-1000)/(2000-1000)=0.8
	assert.InDelta(t, 2200.0, traj.TVD(2500), 1e-9)
}

func TestSurveyTrajectorySingleStation(t *testing.T) {
	traj := NewSurveyTrajectory([]SurveyStation{{MD: 1000, TVD: 950}})
	assert.InDelta(t, 475.0, traj.TVD(500), 1e-9)
	// 只有一个测斜点时外推斜率取 1
	assert.InDelta(t, 1950.0, traj.TVD(2000), 1e-9)
}

func TestSurveyTrajectoryEmpty(t *testing.T) {
	traj := NewSurveyTrajectory(nil)
	assert.Equal(t, 1234.5, traj.TVD(1234.5))
}

func TestHydrostaticToKPa(t *testing.T) {
	profile := []Layer{
		{Density: 1500, TopMD: 1000, BottomMD: 3000},
		{Density: 1200, TopMD: 0, BottomMD: 1000},
	}

	// 直井：1500×0.00981×1000 + 1200×0.00981×1000
	got := hydrostaticToKPa(profile, 2000, nil)
	require.InDelta(t, 26487.0, got, 1e-6)

	// 超出积分深度的层被跳过
	assert.InDelta(t, 11772.0, hydrostaticToKPa(profile, 1000, nil), 1e-6)

	// 斜井按垂深差积分：2000 m 测深对应 1800 m 垂深
	traj := NewSurveyTrajectory([]SurveyStation{{MD: 1000, TVD: 1000}, {MD: 2000, TVD: 1800}})
	deviated := hydrostaticToKPa(profile, 2000, traj)
	assert.InDelta(t, 1200*KPaPerKgM3PerM*1000+1500*KPaPerKgM3PerM*800, deviated, 1e-6)
}
