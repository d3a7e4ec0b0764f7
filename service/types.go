package service

import (
	"time"

	"wellcontrol/hydraulics"
)

// TripSimulationRequest 一次起下钻模拟请求。
// 起止深度、步长等运行参数由前端给定，井身结构、流体层与测斜数据取自该井的持久化记录。
type TripSimulationRequest struct {
	Direction string  `json:"direction" binding:"required,oneof=runIn pullOut"`
	StartMD   float64 `json:"startMd"`
	EndMD     float64 `json:"endMd"`
	StepSize  float64 `json:"stepSize"`
	Speed     float64 `json:"speed"` // m/min
	SwabStep  float64 `json:"swabStep,omitempty"`

	Eccentricity float64 `json:"eccentricity,omitempty"`
	SafetyFactor float64 `json:"safetyFactor,omitempty"`
	TargetESD    float64 `json:"targetEsd,omitempty"` // 覆盖井档案中的目标 ESD

	FloatFitted   bool    `json:"floatFitted,omitempty"`
	FloatCrackKPa float64 `json:"floatCrackKpa,omitempty"`

	Persist bool `json:"persist,omitempty"` // 保存为 TripRun 记录
}

// TripSummary 一次模拟的汇总量
type TripSummary struct {
	TotalFillM3         float64 `json:"totalFillM3"`
	TotalDisplacementM3 float64 `json:"totalDisplacementM3"`
	TotalTankDeltaM3    float64 `json:"totalTankDeltaM3"`
	MaxDynamicSABPKPa   float64 `json:"maxDynamicSabpKpa"`
	MaxSwabKPa          float64 `json:"maxSwabKpa"`
	NonLaminar          bool    `json:"nonLaminar"`
	Steps               int     `json:"steps"`
}

// TripSimulationResult 模拟输出：步序列 + 汇总，保存过的带 runId
type TripSimulationResult struct {
	RunID     string                `json:"runId,omitempty"`
	WellID    int64                 `json:"wellId"`
	Direction string                `json:"direction"`
	Summary   TripSummary           `json:"summary"`
	Steps     []hydraulics.TripStep `json:"steps"`
}

// SwabEstimateRequest 单次抽汲/激动估算请求，流体柱取该井钻头以上环空层
type SwabEstimateRequest struct {
	BitMD        float64 `json:"bitMd" binding:"required"`
	Speed        float64 `json:"speed" binding:"required"`
	StepSize     float64 `json:"stepSize,omitempty"`
	Eccentricity float64 `json:"eccentricity,omitempty"`
	SafetyFactor float64 `json:"safetyFactor,omitempty"`
	FloatOpen    bool    `json:"floatOpen,omitempty"`
}

// SwabCalcRequest 无井档案的抽汲/激动估算，流体柱、几何与测斜数据随请求给定
type SwabCalcRequest struct {
	BitMD        float64 `json:"bitMd" binding:"required"`
	Speed        float64 `json:"speed" binding:"required"`
	StepSize     float64 `json:"stepSize,omitempty"`
	Eccentricity float64 `json:"eccentricity,omitempty"`
	SafetyFactor float64 `json:"safetyFactor,omitempty"`
	FloatOpen    bool    `json:"floatOpen,omitempty"`
	Dial600      float64 `json:"dial600,omitempty"`
	Dial300      float64 `json:"dial300,omitempty"`

	Layers       []hydraulics.Layer         `json:"layers" binding:"required"`
	HoleSections []hydraulics.Section       `json:"holeSections,omitempty"`
	PipeSections []hydraulics.Section       `json:"pipeSections,omitempty"`
	Surveys      []hydraulics.SurveyStation `json:"surveys,omitempty"`
}

// APLCalcRequest 单点环空摩阻计算
type APLCalcRequest struct {
	Density float64 `json:"density" binding:"required"`
	Length  float64 `json:"length" binding:"required"`
	Flow    float64 `json:"flow" binding:"required"` // m³/min
	HoleID  float64 `json:"holeId" binding:"required"`
	PipeOD  float64 `json:"pipeOd" binding:"required"`
	TVD     float64 `json:"tvd,omitempty"` // 给定时顺带折算 ECD
}

type APLCalcResult struct {
	APLKPa          float64 `json:"aplKpa"`
	AnnularVelocity float64 `json:"annularVelocity"` // m/s
	ECD             float64 `json:"ecd,omitempty"`
}

// ECDCalcRequest 单点当量密度换算
type ECDCalcRequest struct {
	Density float64 `json:"density" binding:"required"`
	APLKPa  float64 `json:"aplKpa"`
	SABPKPa float64 `json:"sabpKpa"`
	TVD     float64 `json:"tvd" binding:"required"`
}

type ECDCalcResult struct {
	ECD float64 `json:"ecd"`
	ESD float64 `json:"esd"`
}

// BallooningCalcRequest 压井液量亏空修正请求。
// ActualKillM3 为负时取钻井液罐实时读数（需要传感器在线）。
type BallooningCalcRequest struct {
	WellID           int64   `json:"wellId" binding:"required"`
	SimulatedSABPKPa float64 `json:"simulatedSabpKpa"`
	SimulatedKillM3  float64 `json:"simulatedKillM3"`
	ActualKillM3     float64 `json:"actualKillM3"`
	KillDensity      float64 `json:"killDensity"`
	OriginalDensity  float64 `json:"originalDensity"`
}

// WellOverview 井档案及其配套记录数量
type WellOverview struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	TotalDepth float64 `json:"totalDepth"`
	ControlMD  float64 `json:"controlMd"`
	TargetESD  float64 `json:"targetEsd"`
	Layers     int64   `json:"layers"`
	Surveys    int64   `json:"surveys"`
	Runs       int64   `json:"runs"`
}

// TripRunBrief 历史运行列表项，不携带步序列
type TripRunBrief struct {
	RunID             string    `json:"runId"`
	Direction         string    `json:"direction"`
	StartMD           float64   `json:"startMd"`
	EndMD             float64   `json:"endMd"`
	Speed             float64   `json:"speed"`
	MaxDynamicSABPKPa float64   `json:"maxDynamicSabpKpa"`
	CreatedAt         time.Time `json:"createdAt"`
}

// RigSnapshot 井场传感器最近一帧读数
type RigSnapshot struct {
	BitDepth      float64   `json:"bitDepth"`      // m
	BlockPosition float64   `json:"blockPosition"` // m
	TripTankM3    float64   `json:"tripTankM3"`
	ActiveTankM3  float64   `json:"activeTankM3"`
	SABPKPa       float64   `json:"sabpKpa"`
	StandpipeKPa  float64   `json:"standpipeKpa"`
	FlowM3PerMin  float64   `json:"flowM3PerMin"`
	DensityKgM3   float64   `json:"densityKgM3"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
