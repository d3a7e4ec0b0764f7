package model

import (
	"time"

	"gorm.io/datatypes"
)

// Well 井基础档案。TotalDepth/ControlMD 为测深 m，TargetESD 为 kg/m³。
type Well struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name       string  `gorm:"column:name;size:64;uniqueIndex" json:"name"`
	TotalDepth float64 `gorm:"column:total_depth" json:"totalDepth"`
	ControlMD  float64 `gorm:"column:control_md" json:"controlMd"`
	TargetESD  float64 `gorm:"column:target_esd" json:"targetEsd"`

	// 全井缺省粘度计读数，层记录未给流变参数时回退
	Dial600 float64 `gorm:"column:dial600" json:"dial600"`
	Dial300 float64 `gorm:"column:dial300" json:"dial300"`
}

func (Well) TableName() string { return "well" }

// FluidLayerRecord 井内流体层记录（测深坐标，持久化原始录入）
type FluidLayerRecord struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	WellID int64 `gorm:"column:well_id;index" json:"wellId"`

	Density  float64 `gorm:"column:density" json:"density"`
	TopMD    float64 `gorm:"column:top_md" json:"topMd"`
	BottomMD float64 `gorm:"column:bottom_md" json:"bottomMd"`

	K     float64 `gorm:"column:k" json:"k"`
	N     float64 `gorm:"column:n" json:"n"`
	HasKN bool    `gorm:"column:has_kn" json:"hasKn"`

	Dial600 float64 `gorm:"column:dial600" json:"dial600"`
	Dial300 float64 `gorm:"column:dial300" json:"dial300"`

	Placement string `gorm:"column:placement;size:16" json:"placement"`
	Color     string `gorm:"column:color;size:16" json:"color"`
	InAnnulus bool   `gorm:"column:in_annulus" json:"inAnnulus"`
}

func (FluidLayerRecord) TableName() string { return "fluid_layer" }

// HoleSection 井身结构分段：套管内径或裸眼直径，单位 m
type HoleSection struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	WellID int64 `gorm:"column:well_id;index" json:"wellId"`

	TopMD         float64 `gorm:"column:top_md" json:"topMd"`
	BottomMD      float64 `gorm:"column:bottom_md" json:"bottomMd"`
	InnerDiameter float64 `gorm:"column:inner_diameter" json:"innerDiameter"`
}

func (HoleSection) TableName() string { return "hole_section" }

// PipeSection 管柱分段：钻杆外径/内径，单位 m
type PipeSection struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	WellID int64 `gorm:"column:well_id;index" json:"wellId"`

	TopMD         float64 `gorm:"column:top_md" json:"topMd"`
	BottomMD      float64 `gorm:"column:bottom_md" json:"bottomMd"`
	OuterDiameter float64 `gorm:"column:outer_diameter" json:"outerDiameter"`
	InnerDiameter float64 `gorm:"column:inner_diameter" json:"innerDiameter"`
}

func (PipeSection) TableName() string { return "pipe_section" }

// SurveyStationRecord 测斜点：测深与垂深，单位 m
type SurveyStationRecord struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	WellID int64 `gorm:"column:well_id;index" json:"wellId"`

	MD  float64 `gorm:"column:md" json:"md"`
	TVD float64 `gorm:"column:tvd" json:"tvd"`
}

func (SurveyStationRecord) TableName() string { return "survey_station" }

// TripRun 一次起下钻模拟的持久化记录，步序列整体存 JSON
type TripRun struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	RunID     string `gorm:"column:run_id;size:36;uniqueIndex" json:"runId"`
	WellID    int64  `gorm:"column:well_id;index" json:"wellId"`
	Direction string `gorm:"column:direction;size:16" json:"direction"`

	StartMD   float64 `gorm:"column:start_md" json:"startMd"`
	EndMD     float64 `gorm:"column:end_md" json:"endMd"`
	StepSize  float64 `gorm:"column:step_size" json:"stepSize"`
	Speed     float64 `gorm:"column:speed" json:"speed"`
	TargetESD float64 `gorm:"column:target_esd" json:"targetEsd"`

	TotalFillM3         float64 `gorm:"column:total_fill_m3" json:"totalFillM3"`
	TotalDisplacementM3 float64 `gorm:"column:total_displacement_m3" json:"totalDisplacementM3"`
	TotalTankDeltaM3    float64 `gorm:"column:total_tank_delta_m3" json:"totalTankDeltaM3"`
	MaxDynamicSABPKPa   float64 `gorm:"column:max_dynamic_sabp_kpa" json:"maxDynamicSabpKpa"`

	Steps datatypes.JSON `gorm:"column:steps" json:"steps"`
}

func (TripRun) TableName() string { return "trip_run" }
