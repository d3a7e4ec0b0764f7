package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wellcontrol/model"
	"wellcontrol/pkg/logger"
	"wellcontrol/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListWells 井档案列表及配套记录数量
func (h *Handler) ListWells(c *gin.Context) {
	wells, err := h.svc.ListWells()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(wells))
}

func (h *Handler) CreateWell(c *gin.Context) {
	var req createWellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("创建井档案请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	well := &model.Well{
		Name:       req.Name,
		TotalDepth: req.TotalDepth,
		ControlMD:  req.ControlMD,
		TargetESD:  req.TargetESD,
		Dial600:    req.Dial600,
		Dial300:    req.Dial300,
	}
	if err := h.svc.CreateWell(well); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(well))
}

// ReplaceLayers 整体替换一口井的流体层记录
func (h *Handler) ReplaceLayers(c *gin.Context) {
	var uri wellUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	var records []model.FluidLayerRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		logger.Logger.Errorf("流体层请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	if err := h.svc.ReplaceLayers(uri.ID, records); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(len(records)))
}

func (h *Handler) ReplaceHoleSections(c *gin.Context) {
	var uri wellUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	var records []model.HoleSection
	if err := c.ShouldBindJSON(&records); err != nil {
		logger.Logger.Errorf("井身结构请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	if err := h.svc.ReplaceHoleSections(uri.ID, records); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(len(records)))
}

func (h *Handler) ReplacePipeSections(c *gin.Context) {
	var uri wellUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	var records []model.PipeSection
	if err := c.ShouldBindJSON(&records); err != nil {
		logger.Logger.Errorf("管柱分段请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	if err := h.svc.ReplacePipeSections(uri.ID, records); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(len(records)))
}

func (h *Handler) ReplaceSurveys(c *gin.Context) {
	var uri wellUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	var records []model.SurveyStationRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		logger.Logger.Errorf("测斜数据请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	if err := h.svc.ReplaceSurveys(uri.ID, records); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(len(records)))
}

// RunTrip 跑一次起下钻模拟
func (h *Handler) RunTrip(c *gin.Context) {
	var uri wellUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	var req service.TripSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("模拟请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	result, err := h.svc.RunTripSimulation(uri.ID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(result))
}

// EstimateSwab 当前钻头深度的抽汲/激动估算，流体柱取井档案记录
func (h *Handler) EstimateSwab(c *gin.Context) {
	var uri wellUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	var req service.SwabEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("抽汲估算请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	est, err := h.svc.EstimateSwab(uri.ID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(est))
}

// ListRuns 一口井的历史模拟记录，不含步序列
func (h *Handler) ListRuns(c *gin.Context) {
	var uri wellUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	runs, err := h.svc.ListRuns(uri.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(runs))
}

// GetRun 单次模拟记录，含完整步序列
func (h *Handler) GetRun(c *gin.Context) {
	var uri runUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	run, err := h.svc.GetRun(uri.RunID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(run))
}

// ExportRun 把一次模拟导出为 xlsx
func (h *Handler) ExportRun(c *gin.Context) {
	var uri runUri
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	f, name, err := h.svc.ExportTripReport(uri.RunID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", attachmentDisposition(name))
	if err := f.Write(c.Writer); err != nil {
		logger.Logger.Errorf("导出报表写出失败 run=%s: %v", uri.RunID, err)
		return
	}

	logger.Logger.Infof("导出报表 %s 成功！", name)
}

// CalcAPL 单点环空摩阻计算
func (h *Handler) CalcAPL(c *gin.Context) {
	var req service.APLCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("环空摩阻请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(h.svc.CalcAPL(req)))
}

// CalcECD 单点当量密度换算
func (h *Handler) CalcECD(c *gin.Context) {
	var req service.ECDCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("当量密度请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(h.svc.CalcECD(req)))
}

// CalcSwab 无井档案的抽汲/激动估算
func (h *Handler) CalcSwab(c *gin.Context) {
	var req service.SwabCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("抽汲计算请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	est, err := h.svc.CalcSwab(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(est))
}

// CalcBallooning 压井液量亏空修正
func (h *Handler) CalcBallooning(c *gin.Context) {
	var req service.BallooningCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("亏空修正请求参数有误: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}

	result, err := h.svc.AdjustBallooning(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(result))
}

// RigSnapshot 井场传感器最近一帧读数
func (h *Handler) RigSnapshot(c *gin.Context) {
	snap, ok := h.svc.RigSnapshot()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, fail(errRigOffline, service.ErrRigOffline.Error()))
		return
	}
	c.JSON(http.StatusOK, success(snap))
}
