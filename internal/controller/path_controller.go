package controller

import (
	"errors"

	"path_advisor_backend/internal/engine"
	"path_advisor_backend/internal/service"
	"path_advisor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PathController struct {
	PathService *service.PathService
}

func NewPathController(pathService *service.PathService) *PathController {
	return &PathController{PathService: pathService}
}

// Create godoc
// @Summary 创建候选路径
// @Description 校验并保存路径，pathId 缺省时自动生成
// @Tags 路径
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body engine.Path true "路径内容"
// @Success 201 {object} util.Response{data=model.DecisionPath} "创建成功"
// @Failure 400 {object} util.Response "路径校验失败"
// @Router /api/paths [post]
func (c *PathController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req engine.Path
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.PathService.Create(claims.UserID, req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Created(ctx, path)
}

// Update godoc
// @Summary 更新候选路径
// @Tags 路径
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "路径ID"
// @Param   body body engine.Path true "路径内容"
// @Success 200 {object} util.Response{data=model.DecisionPath} "更新成功"
// @Failure 400 {object} util.Response "路径校验失败"
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/paths/{id} [put]
func (c *PathController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req engine.Path
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.PathService.Update(util.MustParseUint(ctx.Param("id")), claims.UserID, req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, path)
}

// Get godoc
// @Summary 获取路径详情
// @Tags 路径
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "路径ID"
// @Success 200 {object} util.Response{data=object} "路径详情"
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/paths/{id} [get]
func (c *PathController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	row, view, err := c.PathService.Get(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"meta": row,
		"path": view,
	})
}

// List godoc
// @Summary 路径列表
// @Tags 路径
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.DecisionPath} "路径列表"
// @Router /api/paths [get]
func (c *PathController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	paths, err := c.PathService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, paths)
}

// SetEnabledRequest 启用/停用请求
type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetEnabled godoc
// @Summary 启用或停用路径
// @Description 停用的路径不参与分析
// @Tags 路径
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "路径ID"
// @Param   body body SetEnabledRequest true "启用标志"
// @Success 200 {object} util.Response "设置成功"
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/paths/{id}/enabled [put]
func (c *PathController) SetEnabled(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SetEnabledRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.PathService.SetEnabled(util.MustParseUint(ctx.Param("id")), claims.UserID, *req.Enabled); err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Delete godoc
// @Summary 删除路径
// @Tags 路径
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "路径ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/paths/{id} [delete]
func (c *PathController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.PathService.Delete(util.MustParseUint(ctx.Param("id")), claims.UserID); err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *PathController) handleError(ctx *gin.Context, err error) {
	var ve *engine.ValidationError
	switch {
	case errors.Is(err, util.ErrPathNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.As(err, &ve):
		util.BadRequest(ctx, ve.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
