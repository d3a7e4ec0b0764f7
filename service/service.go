package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wellcontrol/hydraulics"
	"wellcontrol/model"
	"wellcontrol/pkg/logger"
)

const (
	batchSize = 400

	// defaultSwabStepM 抽汲估算缺省积分步长
	defaultSwabStepM = 10.0
)

var (
	// ErrWellNotFound 请求的井不存在
	ErrWellNotFound = errors.New("井不存在")
	// ErrRunNotFound 请求的模拟运行记录不存在
	ErrRunNotFound = errors.New("模拟记录不存在")
	// ErrRigOffline 井场传感器数据未接入
	ErrRigOffline = errors.New("井场数据未接入")
)

type Service struct {
	db  *gorm.DB
	rig *RigFeed // 可为 nil，井场数据相关能力降级
}

func NewService(db *gorm.DB, rig *RigFeed) *Service {
	return &Service{
		db:  db,
		rig: rig,
	}
}

// wellContext 一口井参与计算的全部持久化输入
type wellContext struct {
	well     model.Well
	layers   []hydraulics.Layer
	hole     []hydraulics.Section
	pipe     []hydraulics.Section
	geometry *hydraulics.SectionGeometry
	traj     hydraulics.Trajectory // 无测斜数据时为 nil，按直井处理
}

func (s *Service) loadWell(wellID int64) (*wellContext, error) {
	ctx := &wellContext{}
	if err := s.db.First(&ctx.well, wellID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrWellNotFound, wellID)
		}
		logger.Logger.Errorf("查询井档案失败: %v", err)
		return nil, err
	}

	var layerRecords []model.FluidLayerRecord
	if err := s.db.Where("well_id = ?", wellID).Order("bottom_md DESC").Find(&layerRecords).Error; err != nil {
		logger.Logger.Errorf("查询流体层失败: %v", err)
		return nil, err
	}
	ctx.layers = layersFromRecords(layerRecords)

	var holeRecords []model.HoleSection
	if err := s.db.Where("well_id = ?", wellID).Order("top_md").Find(&holeRecords).Error; err != nil {
		logger.Logger.Errorf("查询井身结构失败: %v", err)
		return nil, err
	}
	ctx.hole = holeSectionsFromRecords(holeRecords)

	var pipeRecords []model.PipeSection
	if err := s.db.Where("well_id = ?", wellID).Order("top_md").Find(&pipeRecords).Error; err != nil {
		logger.Logger.Errorf("查询管柱分段失败: %v", err)
		return nil, err
	}
	ctx.pipe = pipeSectionsFromRecords(pipeRecords)
	ctx.geometry = hydraulics.NewSectionGeometry(ctx.hole, ctx.pipe)

	var stations []model.SurveyStationRecord
	if err := s.db.Where("well_id = ?", wellID).Order("md").Find(&stations).Error; err != nil {
		logger.Logger.Errorf("查询测斜数据失败: %v", err)
		return nil, err
	}
	if len(stations) > 0 {
		ctx.traj = hydraulics.NewSurveyTrajectory(stationsFromRecords(stations))
	}
	return ctx, nil
}

// RunTripSimulation 跑一次起下钻模拟，Persist 为真时保存运行记录
func (s *Service) RunTripSimulation(wellID int64, req TripSimulationRequest) (*TripSimulationResult, error) {
	ctx, err := s.loadWell(wellID)
	if err != nil {
		return nil, err
	}

	direction := hydraulics.TripRunIn
	if req.Direction == hydraulics.TripPullOut.String() {
		direction = hydraulics.TripPullOut
	}

	targetESD := ctx.well.TargetESD
	if req.TargetESD > 0 {
		targetESD = req.TargetESD
	}
	req.TargetESD = targetESD

	// 请求未给的运行参数退到配置缺省
	if req.StepSize <= 0 {
		req.StepSize = confFloat64("simulation.stepSize", defaultSwabStepM)
	}
	if req.SafetyFactor <= 0 {
		req.SafetyFactor = confFloat64("simulation.safetyFactor", 0)
	}
	if req.FloatFitted && req.FloatCrackKPa <= 0 {
		req.FloatCrackKPa = confFloat64("simulation.floatCrackPressure", 345)
	}

	in := hydraulics.TripInput{
		StartMD:      req.StartMD,
		EndMD:        req.EndMD,
		StepSize:     req.StepSize,
		Direction:    direction,
		Layers:       ctx.layers,
		WellTD:       ctx.well.TotalDepth,
		ControlMD:    ctx.well.ControlMD,
		TargetESD:    densityToKgM3(targetESD),
		Speed:        req.Speed,
		Eccentricity: req.Eccentricity,
		SwabStep:     req.SwabStep,
		Dial600:      ctx.well.Dial600,
		Dial300:      ctx.well.Dial300,
		SafetyFactor: req.SafetyFactor,
		Float: hydraulics.FloatValve{
			Fitted:   req.FloatFitted,
			CrackKPa: req.FloatCrackKPa,
		},
		Hole:       ctx.hole,
		Pipe:       ctx.pipe,
		Trajectory: ctx.traj,
	}

	steps, err := hydraulics.NewTripSimulator().Run(in)
	if err != nil {
		logger.Logger.Errorf("起下钻模拟失败 well=%d: %v", wellID, err)
		return nil, err
	}

	result := &TripSimulationResult{
		WellID:    wellID,
		Direction: direction.String(),
		Summary:   summarizeSteps(steps),
		Steps:     steps,
	}

	if req.Persist {
		runID, err := s.persistRun(wellID, req, direction, result)
		if err != nil {
			return nil, err
		}
		result.RunID = runID
	}
	return result, nil
}

func (s *Service) persistRun(wellID int64, req TripSimulationRequest, direction hydraulics.TripDirection, result *TripSimulationResult) (string, error) {
	payload, err := json.Marshal(result.Steps)
	if err != nil {
		logger.Logger.Errorf("序列化模拟步序列失败: %v", err)
		return "", err
	}

	run := model.TripRun{
		RunID:               uuid.NewString(),
		WellID:              wellID,
		Direction:           direction.String(),
		StartMD:             req.StartMD,
		EndMD:               req.EndMD,
		StepSize:            req.StepSize,
		Speed:               req.Speed,
		TargetESD:           req.TargetESD,
		TotalFillM3:         result.Summary.TotalFillM3,
		TotalDisplacementM3: result.Summary.TotalDisplacementM3,
		TotalTankDeltaM3:    result.Summary.TotalTankDeltaM3,
		MaxDynamicSABPKPa:   result.Summary.MaxDynamicSABPKPa,
		Steps:               payload,
	}
	if err := s.db.Create(&run).Error; err != nil {
		logger.Logger.Errorf("保存模拟记录失败: %v", err)
		return "", err
	}

	logger.Logger.Infof("模拟记录已保存 well=%d run=%s steps=%d", wellID, run.RunID, len(result.Steps))
	return run.RunID, nil
}

// EstimateSwab 对指定钻头深度做单次抽汲/激动估算，流体柱取钻头以上环空层
func (s *Service) EstimateSwab(wellID int64, req SwabEstimateRequest) (*hydraulics.SwabEstimate, error) {
	ctx, err := s.loadWell(wellID)
	if err != nil {
		return nil, err
	}

	step := req.StepSize
	if step <= 0 {
		step = confFloat64("simulation.stepSize", defaultSwabStepM)
	}
	column := hydraulics.SliceColumn(ctx.layers, hydraulics.DomainAboveBit, req.BitMD, 0, hydraulics.PlacementAnnulus, true)
	est, err := hydraulics.NewSwabEstimator().Estimate(hydraulics.SwabInput{
		Layers:       column,
		Dial600:      ctx.well.Dial600,
		Dial300:      ctx.well.Dial300,
		HoistSpeed:   req.Speed,
		Eccentricity: req.Eccentricity,
		StepSize:     step,
		Geometry:     ctx.geometry,
		Trajectory:   ctx.traj,
		SafetyFactor: req.SafetyFactor,
		FloatOpen:    req.FloatOpen,
	})
	if err != nil {
		logger.Logger.Errorf("抽汲估算失败 well=%d bit=%.1f: %v", wellID, req.BitMD, err)
		return nil, err
	}
	return est, nil
}

// CalcSwab 不依赖井档案的抽汲/激动估算，流体柱与几何随请求给定
func (s *Service) CalcSwab(req SwabCalcRequest) (*hydraulics.SwabEstimate, error) {
	layers := make([]hydraulics.Layer, len(req.Layers))
	for i, l := range req.Layers {
		l.Density = densityToKgM3(l.Density)
		layers[i] = l
	}
	column := hydraulics.SliceColumn(layers, hydraulics.DomainAboveBit, req.BitMD, 0, hydraulics.PlacementAnnulus, true)

	var traj hydraulics.Trajectory
	if len(req.Surveys) > 0 {
		traj = hydraulics.NewSurveyTrajectory(req.Surveys)
	}
	step := req.StepSize
	if step <= 0 {
		step = confFloat64("simulation.stepSize", defaultSwabStepM)
	}
	est, err := hydraulics.NewSwabEstimator().Estimate(hydraulics.SwabInput{
		Layers:       column,
		Dial600:      req.Dial600,
		Dial300:      req.Dial300,
		HoistSpeed:   req.Speed,
		Eccentricity: req.Eccentricity,
		StepSize:     step,
		Geometry:     hydraulics.NewSectionGeometry(req.HoleSections, req.PipeSections),
		Trajectory:   traj,
		SafetyFactor: req.SafetyFactor,
		FloatOpen:    req.FloatOpen,
	})
	if err != nil {
		logger.Logger.Errorf("抽汲计算失败 bit=%.1f: %v", req.BitMD, err)
		return nil, err
	}
	return est, nil
}

// CalcAPL 单点环空摩阻：经验公式 + 环空返速，给了垂深顺带折算 ECD
func (s *Service) CalcAPL(req APLCalcRequest) APLCalcResult {
	density := densityToKgM3(req.Density)
	apl := hydraulics.EmpiricalAPL(density, req.Length, req.Flow, req.HoleID, req.PipeOD)
	result := APLCalcResult{
		APLKPa:          apl,
		AnnularVelocity: hydraulics.AnnularVelocity(req.Flow, req.HoleID, req.PipeOD),
	}
	if req.TVD > 0 {
		result.ECD = hydraulics.ECD(density, apl, req.TVD)
	}
	return result
}

// CalcECD 单点当量密度换算
func (s *Service) CalcECD(req ECDCalcRequest) ECDCalcResult {
	density := densityToKgM3(req.Density)
	return ECDCalcResult{
		ECD: hydraulics.ECD(density, req.APLKPa, req.TVD),
		ESD: hydraulics.ESD(density, req.SABPKPa, req.TVD),
	}
}

// AdjustBallooning 压井液量亏空修正。实际泵入量给负值时取钻井液罐实时读数。
func (s *Service) AdjustBallooning(req BallooningCalcRequest) (hydraulics.BallooningResult, error) {
	ctx, err := s.loadWell(req.WellID)
	if err != nil {
		return hydraulics.BallooningResult{}, err
	}

	actual := req.ActualKillM3
	if actual < 0 {
		snap, ok := s.RigSnapshot()
		if !ok {
			return hydraulics.BallooningResult{}, ErrRigOffline
		}
		actual = snap.TripTankM3
		logger.Logger.Infof("压井液实际量取罐读数 %.3f m³", actual)
	}

	return hydraulics.AdjustForBallooning(hydraulics.BallooningInput{
		SimulatedSABPKPa: req.SimulatedSABPKPa,
		SimulatedKillM3:  req.SimulatedKillM3,
		ActualKillM3:     actual,
		KillDensity:      densityToKgM3(req.KillDensity),
		OriginalDensity:  densityToKgM3(req.OriginalDensity),
	}, ctx.geometry, ctx.traj)
}

// RigSnapshot 井场传感器最近一帧，未接入或尚无数据时 ok 为假
func (s *Service) RigSnapshot() (RigSnapshot, bool) {
	if s.rig == nil {
		return RigSnapshot{}, false
	}
	return s.rig.Snapshot()
}

// ListWells 全部井档案及配套记录数量
func (s *Service) ListWells() ([]WellOverview, error) {
	var wells []model.Well
	if err := s.db.Order("id").Find(&wells).Error; err != nil {
		logger.Logger.Errorf("查询井列表失败: %v", err)
		return nil, err
	}

	overviews := make([]WellOverview, 0, len(wells))
	for _, w := range wells {
		o := WellOverview{
			ID:         w.ID,
			Name:       w.Name,
			TotalDepth: w.TotalDepth,
			ControlMD:  w.ControlMD,
			TargetESD:  w.TargetESD,
		}
		s.db.Model(&model.FluidLayerRecord{}).Where("well_id = ?", w.ID).Count(&o.Layers)
		s.db.Model(&model.SurveyStationRecord{}).Where("well_id = ?", w.ID).Count(&o.Surveys)
		s.db.Model(&model.TripRun{}).Where("well_id = ?", w.ID).Count(&o.Runs)
		overviews = append(overviews, o)
	}
	return overviews, nil
}

// CreateWell 建井档案
func (s *Service) CreateWell(well *model.Well) error {
	if err := s.db.Create(well).Error; err != nil {
		logger.Logger.Errorf("创建井档案失败: %v", err)
		return err
	}
	return nil
}

// ReplaceLayers 整体替换一口井的流体层记录
func (s *Service) ReplaceLayers(wellID int64, records []model.FluidLayerRecord) error {
	return s.replaceWellRecords(wellID, &model.FluidLayerRecord{}, func(tx *gorm.DB) error {
		for i := range records {
			records[i].ID = 0
			records[i].WellID = wellID
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, batchSize).Error
	})
}

// ReplaceHoleSections 整体替换井身结构分段
func (s *Service) ReplaceHoleSections(wellID int64, records []model.HoleSection) error {
	return s.replaceWellRecords(wellID, &model.HoleSection{}, func(tx *gorm.DB) error {
		for i := range records {
			records[i].ID = 0
			records[i].WellID = wellID
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, batchSize).Error
	})
}

// ReplacePipeSections 整体替换管柱分段
func (s *Service) ReplacePipeSections(wellID int64, records []model.PipeSection) error {
	return s.replaceWellRecords(wellID, &model.PipeSection{}, func(tx *gorm.DB) error {
		for i := range records {
			records[i].ID = 0
			records[i].WellID = wellID
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, batchSize).Error
	})
}

// ReplaceSurveys 整体替换测斜数据
func (s *Service) ReplaceSurveys(wellID int64, records []model.SurveyStationRecord) error {
	return s.replaceWellRecords(wellID, &model.SurveyStationRecord{}, func(tx *gorm.DB) error {
		for i := range records {
			records[i].ID = 0
			records[i].WellID = wellID
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, batchSize).Error
	})
}

// replaceWellRecords 按井清空旧记录后批量写入新记录，整体一个事务
func (s *Service) replaceWellRecords(wellID int64, tableModel any, insert func(tx *gorm.DB) error) error {
	var well model.Well
	if err := s.db.First(&well, wellID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id=%d", ErrWellNotFound, wellID)
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("well_id = ?", wellID).Delete(tableModel).Error; err != nil {
			return err
		}
		return insert(tx)
	})
	if err != nil {
		logger.Logger.Errorf("替换井 %d 记录失败: %v", wellID, err)
	}
	return err
}

// ListRuns 井的历史模拟列表，按时间倒序，不携带步序列
func (s *Service) ListRuns(wellID int64) ([]TripRunBrief, error) {
	var runs []model.TripRun
	err := s.db.Select("run_id", "direction", "start_md", "end_md", "speed", "max_dynamic_sabp_kpa", "created_at").
		Where("well_id = ?", wellID).
		Order("created_at DESC").
		Find(&runs).Error
	if err != nil {
		logger.Logger.Errorf("查询模拟记录失败: %v", err)
		return nil, err
	}

	briefs := make([]TripRunBrief, 0, len(runs))
	for _, r := range runs {
		briefs = append(briefs, TripRunBrief{
			RunID:             r.RunID,
			Direction:         r.Direction,
			StartMD:           r.StartMD,
			EndMD:             r.EndMD,
			Speed:             r.Speed,
			MaxDynamicSABPKPa: r.MaxDynamicSABPKPa,
			CreatedAt:         r.CreatedAt,
		})
	}
	return briefs, nil
}

// GetRun 按 runId 取完整模拟记录
func (s *Service) GetRun(runID string) (*model.TripRun, error) {
	var run model.TripRun
	if err := s.db.Where("run_id = ?", runID).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		logger.Logger.Errorf("查询模拟记录失败: %v", err)
		return nil, err
	}
	return &run, nil
}
