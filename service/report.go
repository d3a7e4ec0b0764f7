package service

import (
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"wellcontrol/hydraulics"
	"wellcontrol/pkg/logger"
)

const reportSheet = "起下钻模拟"

// ExportTripReport 把一次模拟记录导出为 xlsx 工作簿，返回文件对象与建议文件名
func (s *Service) ExportTripReport(runID string) (*excelize.File, string, error) {
	run, err := s.GetRun(runID)
	if err != nil {
		return nil, "", err
	}

	var steps []hydraulics.TripStep
	if err := json.Unmarshal(run.Steps, &steps); err != nil {
		logger.Logger.Errorf("解析模拟步序列失败 run=%s: %v", runID, err)
		return nil, "", err
	}

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), reportSheet)

	headers := []any{
		"钻头测深(m)", "钻头垂深(m)",
		"单步灌浆(m³)", "累计灌浆(m³)",
		"单步排代(m³)", "累计排代(m³)",
		"单步罐量变化(m³)", "累计罐量变化(m³)",
		"控制点ESD(kg/m³)", "钻头ESD(kg/m³)",
		"静态套压(kPa)", "动态套压(kPa)", "抽汲/激动(kPa)",
		"浮阀状态",
	}
	if err := f.SetSheetRow(reportSheet, "A1", &headers); err != nil {
		return nil, "", err
	}

	for i, st := range steps {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", err
		}
		row := buildReportRow(st)
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, "", err
		}
	}

	// 汇总块与明细隔一空行
	summary := [][]any{
		{"方向", run.Direction},
		{"起止深度(m)", fmt.Sprintf("%.1f - %.1f", run.StartMD, run.EndMD)},
		{"速度(m/min)", run.Speed},
		{"总灌浆(m³)", round3(run.TotalFillM3)},
		{"总排代(m³)", round3(run.TotalDisplacementM3)},
		{"罐量净变化(m³)", round3(run.TotalTankDeltaM3)},
		{"最大动态套压(kPa)", round2(run.MaxDynamicSABPKPa)},
	}
	base := len(steps) + 3
	for i := range summary {
		cell, err := excelize.CoordinatesToCellName(1, base+i)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow(reportSheet, cell, &summary[i]); err != nil {
			return nil, "", err
		}
	}

	name := fmt.Sprintf("起下钻模拟_%s_%s.xlsx", run.Direction, run.CreatedAt.Format("20060102-150405"))
	return f, name, nil
}

// buildReportRow 一个深度样本对应一行
func buildReportRow(st hydraulics.TripStep) []any {
	return []any{
		round2(st.BitMD), round2(st.BitTVD),
		round3(st.FillStepM3), round3(st.CumFillM3),
		round3(st.DisplacementStepM3), round3(st.CumDisplacementM3),
		round3(st.TankDeltaStepM3), round3(st.CumTankDeltaM3),
		round2(st.ESDControl), round2(st.ESDBit),
		round2(st.StaticSABPKPa), round2(st.DynamicSABPKPa), round2(st.SwabKPa),
		st.FloatDesc,
	}
}
