package controller

import (
	"errors"

	"path_advisor_backend/internal/engine"
	"path_advisor_backend/internal/service"
	"path_advisor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalysisController struct {
	AnalysisService *service.AnalysisService
}

func NewAnalysisController(analysisService *service.AnalysisService) *AnalysisController {
	return &AnalysisController{AnalysisService: analysisService}
}

// Analyze godoc
// @Summary 执行路径分析
// @Description 对画像的全部启用路径评分，前 N 条并发推演，为最优路径生成周计划。
// @Description 协作方失败时返回降级结果（degraded=true），响应中不含周计划
// @Tags 分析
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.AnalysisRequest true "分析参数"
// @Success 200 {object} util.Response{data=service.AnalysisResult} "分析结果"
// @Failure 400 {object} util.Response "权重或画像校验失败"
// @Failure 404 {object} util.Response "画像不存在"
// @Failure 422 {object} util.Response "画像下没有可分析的路径"
// @Router /api/analysis [post]
func (c *AnalysisController) Analyze(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.AnalysisRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AnalysisService.Analyze(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Presets godoc
// @Summary 权重预设列表
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.WeightPreset} "预设列表"
// @Router /api/analysis/presets [get]
func (c *AnalysisController) Presets(ctx *gin.Context) {
	presets, err := c.AnalysisService.Presets()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, presets)
}

func (c *AnalysisController) handleError(ctx *gin.Context, err error) {
	var (
		ve *engine.ValidationError
		we *engine.InvalidWeightsError
	)
	switch {
	case errors.Is(err, util.ErrProfileNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPresetNotFound):
		util.Error(ctx, 400, "权重预设不存在")
	case errors.Is(err, util.ErrNoPaths):
		util.Error(ctx, 422, "画像下没有可分析的路径")
	case errors.As(err, &ve):
		util.BadRequest(ctx, ve.Error())
	case errors.As(err, &we):
		util.BadRequest(ctx, we.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
