package service

import (
	"math"

	"wellcontrol/hydraulics"
	"wellcontrol/model"
	"wellcontrol/pkg/conf"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// confFloat64 读配置项，配置未初始化或取值非正时用 fallback
func confFloat64(key string, fallback float64) float64 {
	if conf.Conf == nil {
		return fallback
	}
	if v := conf.Conf.GetFloat64(key); v > 0 {
		return v
	}
	return fallback
}

// densityToKgM3 把现场常见的相对密度录入（g/cm³ 或 t/m³）统一到 kg/m³。
// 0~5 之间按相对密度放大一千倍，其余视为已是 kg/m³。
func densityToKgM3(v float64) float64 {
	if v > 0 && v < 5 {
		return v * 1000
	}
	return v
}

// flowM3PerHourToMin 现场流量计常用 m³/h，水力学公式按 m³/min
func flowM3PerHourToMin(v float64) float64 {
	return v / 60
}

func layersFromRecords(records []model.FluidLayerRecord) []hydraulics.Layer {
	layers := make([]hydraulics.Layer, 0, len(records))
	for _, r := range records {
		layers = append(layers, hydraulics.Layer{
			Density:   densityToKgM3(r.Density),
			TopMD:     r.TopMD,
			BottomMD:  r.BottomMD,
			K:         r.K,
			N:         r.N,
			HasKN:     r.HasKN,
			Dial600:   r.Dial600,
			Dial300:   r.Dial300,
			Placement: hydraulics.Placement(r.Placement),
			Color:     r.Color,
			InAnnulus: r.InAnnulus,
		})
	}
	return layers
}

func holeSectionsFromRecords(records []model.HoleSection) []hydraulics.Section {
	sections := make([]hydraulics.Section, 0, len(records))
	for _, r := range records {
		sections = append(sections, hydraulics.Section{
			TopMD:         r.TopMD,
			BottomMD:      r.BottomMD,
			InnerDiameter: r.InnerDiameter,
		})
	}
	return sections
}

func pipeSectionsFromRecords(records []model.PipeSection) []hydraulics.Section {
	sections := make([]hydraulics.Section, 0, len(records))
	for _, r := range records {
		sections = append(sections, hydraulics.Section{
			TopMD:         r.TopMD,
			BottomMD:      r.BottomMD,
			InnerDiameter: r.InnerDiameter,
			OuterDiameter: r.OuterDiameter,
		})
	}
	return sections
}

func stationsFromRecords(records []model.SurveyStationRecord) []hydraulics.SurveyStation {
	stations := make([]hydraulics.SurveyStation, 0, len(records))
	for _, r := range records {
		stations = append(stations, hydraulics.SurveyStation{MD: r.MD, TVD: r.TVD})
	}
	return stations
}

// summarizeSteps 汇总一次模拟：末步累计量 + 全程最大动态套压/抽汲
func summarizeSteps(steps []hydraulics.TripStep) TripSummary {
	sum := TripSummary{Steps: len(steps)}
	if len(steps) == 0 {
		return sum
	}
	last := steps[len(steps)-1]
	sum.TotalFillM3 = last.CumFillM3
	sum.TotalDisplacementM3 = last.CumDisplacementM3
	sum.TotalTankDeltaM3 = last.CumTankDeltaM3
	for _, st := range steps {
		if st.DynamicSABPKPa > sum.MaxDynamicSABPKPa {
			sum.MaxDynamicSABPKPa = st.DynamicSABPKPa
		}
		if st.SwabKPa > sum.MaxSwabKPa {
			sum.MaxSwabKPa = st.SwabKPa
		}
		if st.NonLaminar {
			sum.NonLaminar = true
		}
	}
	return sum
}
