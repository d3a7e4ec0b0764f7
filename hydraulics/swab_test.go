package hydraulics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniformGeometry 全井段单一尺寸，便于手算对照
func uniformGeometry(holeID, pipeOD, pipeID float64) *SectionGeometry {
	return NewSectionGeometry(
		[]Section{{TopMD: 0, BottomMD: 10000, InnerDiameter: holeID}},
		[]Section{{TopMD: 0, BottomMD: 10000, InnerDiameter: pipeID, OuterDiameter: pipeOD}},
	)
}

func TestSwabEstimateUniformColumn(t *testing.T) {
	in := SwabInput{
		Layers:     []Layer{{Density: 1200, TopMD: 0, BottomMD: 3000}},
		Dial600:    60,
		Dial300:    40,
		HoistSpeed: 20,
		StepSize:   10,
		Geometry:   uniformGeometry(0.2, 0.12, 0.10),
	}

	est, err := NewSwabEstimator().Estimate(in)
	require.NoError(t, err)
	require.Len(t, est.Segments, 300)

	// 子段由深至浅，中点深度可预言
	assert.InDelta(t, 2995.0, est.Segments[0].MD, 1e-9)
	assert.InDelta(t, 5.0, est.Segments[299].MD, 1e-9)
	for i := 1; i < len(est.Segments); i++ {
		assert.Less(t, est.Segments[i].MD, est.Segments[i-1].MD)
		assert.GreaterOrEqual(t, est.Segments[i].CumulativeKPa, est.Segments[i-1].CumulativeKPa)
	}
	assert.InDelta(t, est.TotalKPa, est.Segments[299].CumulativeKPa, 1e-9)

	// 均匀几何下逐段积分应与单次梯度×总长一致：
	// 排代面积比 0.12²/(0.2²-0.12²)=0.5625，环空等效流速 20/60×0.5625=0.1875 m/s
	k, n, err := DeriveKN(60, 40)
	require.NoError(t, err)
	grad, laminar, _ := PowerLawGradient(1200, k, n, 0.1875, 0.08)
	require.True(t, laminar)
	assert.False(t, est.NonLaminar)
	assert.InDelta(t, grad*3000/1000, est.TotalKPa, 1e-6)
	assert.InDelta(t, 0.1875, est.Segments[0].Velocity, 1e-12)
	assert.InDelta(t, 0.08, est.Segments[0].HydraulicDiameter, 1e-12)

	// 缺省安全系数 1.15
	assert.InDelta(t, est.TotalKPa*DefaultSafetyFactor, est.RecommendedSABPKPa, 1e-9)

	// 轨迹缺省时样本垂深记 0
	assert.Zero(t, est.Segments[0].TVD)
}

func TestSwabEstimateStepClipping(t *testing.T) {
	in := SwabInput{
		Layers:     []Layer{{Density: 1300, TopMD: 0, BottomMD: 25}},
		Dial600:    50,
		Dial300:    32,
		HoistSpeed: 15,
		StepSize:   10,
		Geometry:   uniformGeometry(0.2159, 0.127, 0.1086),
	}

	est, err := NewSwabEstimator().Estimate(in)
	require.NoError(t, err)
	require.Len(t, est.Segments, 3)
	assert.InDelta(t, 20.0, est.Segments[0].MD, 1e-9)
	assert.InDelta(t, 10.0, est.Segments[1].MD, 1e-9)
	assert.InDelta(t, 2.5, est.Segments[2].MD, 1e-9)

	// 末段长 5 m：均匀梯度下累计压力 = 梯度×25/1000
	grad := est.Segments[0].GradientPaPerM
	assert.InDelta(t, grad*25/1000, est.TotalKPa, 1e-9)
}

func TestSwabEstimateFloatOpenShrinksDisplacement(t *testing.T) {
	base := SwabInput{
		Layers:     []Layer{{Density: 1250, TopMD: 0, BottomMD: 2000}},
		Dial600:    55,
		Dial300:    36,
		HoistSpeed: 18,
		StepSize:   50,
		Geometry:   uniformGeometry(0.2, 0.12, 0.10),
	}

	closed, err := NewSwabEstimator().Estimate(base)
	require.NoError(t, err)

	open := base
	open.FloatOpen = true
	opened, err := NewSwabEstimator().Estimate(open)
	require.NoError(t, err)

	// 浮阀开启时排代面积按金属环面积计，等效流速与摩阻都应更小
	ratio := (0.12*0.12 - 0.10*0.10) / (0.12 * 0.12)
	assert.InDelta(t, closed.Segments[0].Velocity*ratio, opened.Segments[0].Velocity, 1e-12)
	assert.Less(t, opened.TotalKPa, closed.TotalKPa)
}

func TestSwabEstimateEccentricityScalesVelocity(t *testing.T) {
	base := SwabInput{
		Layers:     []Layer{{Density: 1250, TopMD: 0, BottomMD: 1000}},
		Dial600:    55,
		Dial300:    36,
		HoistSpeed: 18,
		StepSize:   100,
		Geometry:   uniformGeometry(0.2, 0.12, 0.10),
	}

	centered, err := NewSwabEstimator().Estimate(base)
	require.NoError(t, err)

	ecc := base
	ecc.Eccentricity = 1.5
	offCenter, err := NewSwabEstimator().Estimate(ecc)
	require.NoError(t, err)
	assert.InDelta(t, centered.Segments[0].Velocity*1.5, offCenter.Segments[0].Velocity, 1e-12)

	// 小于 1 的偏心系数按 1 处理
	sub := base
	sub.Eccentricity = 0.4
	subEst, err := NewSwabEstimator().Estimate(sub)
	require.NoError(t, err)
	assert.InDelta(t, centered.Segments[0].Velocity, subEst.Segments[0].Velocity, 1e-12)
}

func TestSwabEstimateLayerRheologyOverride(t *testing.T) {
	in := SwabInput{
		Layers: []Layer{
			{Density: 1200, TopMD: 1000, BottomMD: 2000, K: 0.9, N: 0.7, HasKN: true},
			{Density: 1200, TopMD: 0, BottomMD: 1000},
		},
		Dial600:    60,
		Dial300:    40,
		HoistSpeed: 20,
		StepSize:   500,
		Geometry:   uniformGeometry(0.2, 0.12, 0.10),
	}

	est, err := NewSwabEstimator().Estimate(in)
	require.NoError(t, err)
	require.Len(t, est.Segments, 4)
	// 深段用显式 K/n，浅段回退全局读数，梯度不同
	assert.Greater(t, math.Abs(est.Segments[0].GradientPaPerM-est.Segments[2].GradientPaPerM), 1e-9)
}

func TestSwabEstimateRecordsTrajectoryTVD(t *testing.T) {
	in := SwabInput{
		Layers:     []Layer{{Density: 1200, TopMD: 0, BottomMD: 1000}},
		Dial600:    60,
		Dial300:    40,
		HoistSpeed: 20,
		StepSize:   500,
		Geometry:   uniformGeometry(0.2, 0.12, 0.10),
		Trajectory: NewSurveyTrajectory([]SurveyStation{{MD: 1000, TVD: 800}}),
	}

	est, err := NewSwabEstimator().Estimate(in)
	require.NoError(t, err)
	require.Len(t, est.Segments, 2)
	assert.InDelta(t, 600.0, est.Segments[0].TVD, 1e-9) // 中点 750 m 测深
	assert.InDelta(t, 200.0, est.Segments[1].TVD, 1e-9) // 中点 250 m 测深
}

func TestSwabEstimateValidation(t *testing.T) {
	valid := SwabInput{
		Layers:     []Layer{{Density: 1200, TopMD: 0, BottomMD: 100}},
		Dial600:    60,
		Dial300:    40,
		HoistSpeed: 20,
		StepSize:   10,
		Geometry:   uniformGeometry(0.2, 0.12, 0.10),
	}

	cases := []struct {
		name   string
		mutate func(*SwabInput)
	}{
		{"空流体层", func(in *SwabInput) { in.Layers = nil }},
		{"速度非正", func(in *SwabInput) { in.HoistSpeed = 0 }},
		{"步长非正", func(in *SwabInput) { in.StepSize = -1 }},
		{"缺几何", func(in *SwabInput) { in.Geometry = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := NewSwabEstimator().Estimate(in)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}

	// 层上无流变参数且无全局读数
	noRheo := valid
	noRheo.Dial600, noRheo.Dial300 = 0, 0
	_, err := NewSwabEstimator().Estimate(noRheo)
	assert.True(t, errors.Is(err, ErrMissingRheology))
}

func TestSwabEstimateCustomGradient(t *testing.T) {
	calls := 0
	e := &SwabEstimator{Gradient: func(density, k, n, v, dh float64) (float64, bool, float64) {
		calls++
		return 100, true, 0
	}}

	est, err := e.Estimate(SwabInput{
		Layers:     []Layer{{Density: 1200, TopMD: 0, BottomMD: 1000}},
		Dial600:    60,
		Dial300:    40,
		HoistSpeed: 20,
		StepSize:   250,
		Geometry:   uniformGeometry(0.2, 0.12, 0.10),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.InDelta(t, 100.0*1000/1000, est.TotalKPa, 1e-9)
	assert.True(t, math.Abs(est.RecommendedSABPKPa-115.0) < 1e-9)
}
