package controller

import (
	"errors"
	"strconv"

	"path_advisor_backend/internal/service"
	"path_advisor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// List godoc
// @Summary 报告列表
// @Tags 报告
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "数量上限"
// @Success 200 {object} util.Response{data=[]model.AnalysisReport} "报告列表"
// @Router /api/reports [get]
func (c *ReportController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	reports, err := c.ReportService.List(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, reports)
}

// Latest godoc
// @Summary 画像最近一次报告
// @Tags 报告
// @Produce  json
// @Security BearerAuth
// @Param   profileId query int true "画像ID"
// @Success 200 {object} util.Response{data=object} "报告详情"
// @Failure 404 {object} util.Response "画像尚无报告"
// @Router /api/reports/latest [get]
func (c *ReportController) Latest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	report, result, err := c.ReportService.Latest(util.MustParseUint(ctx.Query("profileId")), claims.UserID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"meta":   report,
		"result": result,
	})
}

// Get godoc
// @Summary 获取报告详情
// @Description 返回报告元信息与完整分析结果
// @Tags 报告
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报告ID"
// @Success 200 {object} util.Response{data=object} "报告详情"
// @Failure 404 {object} util.Response "报告不存在"
// @Router /api/reports/{id} [get]
func (c *ReportController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	report, result, err := c.ReportService.Get(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"meta":   report,
		"result": result,
	})
}

// Archive godoc
// @Summary 归档报告
// @Description 把报告完整结果导出为 JSON 文件并返回下载地址
// @Tags 报告
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报告ID"
// @Success 200 {object} util.Response{data=object} "归档地址"
// @Failure 404 {object} util.Response "报告不存在"
// @Router /api/reports/{id}/archive [post]
func (c *ReportController) Archive(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	url, err := c.ReportService.Archive(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"archiveUrl": url})
}

func (c *ReportController) handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrReportNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
