package controller

import (
	"errors"

	"path_advisor_backend/internal/engine"
	"path_advisor_backend/internal/service"
	"path_advisor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService    *service.ProfileService
	ExtractionService service.ProfileExtractor
}

func NewProfileController(profileService *service.ProfileService, extractor service.ProfileExtractor) *ProfileController {
	return &ProfileController{
		ProfileService:    profileService,
		ExtractionService: extractor,
	}
}

// ProfileRequest 画像创建/更新请求
// swagger:model ProfileRequest
type ProfileRequest struct {
	Name    string         `json:"name" binding:"required"`
	Profile engine.Profile `json:"profile" binding:"required"`
}

// Create godoc
// @Summary 创建决策画像
// @Description 校验并保存画像，写入版本 1 的历史快照
// @Tags 画像
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ProfileRequest true "画像内容"
// @Success 201 {object} util.Response{data=model.DecisionProfile} "创建成功"
// @Failure 400 {object} util.Response "画像校验失败"
// @Router /api/profiles [post]
func (c *ProfileController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.Create(claims.UserID, req.Name, req.Profile)
	if err != nil {
		var ve *engine.ValidationError
		if errors.As(err, &ve) {
			util.BadRequest(ctx, ve.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, profile)
}

// Update godoc
// @Summary 更新决策画像
// @Description 覆盖画像内容，版本号递增并追加历史快照
// @Tags 画像
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "画像ID"
// @Param   body body ProfileRequest true "画像内容"
// @Success 200 {object} util.Response{data=model.DecisionProfile} "更新成功"
// @Failure 400 {object} util.Response "画像校验失败"
// @Failure 404 {object} util.Response "画像不存在"
// @Router /api/profiles/{id} [put]
func (c *ProfileController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	var req ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.Update(id, claims.UserID, req.Name, req.Profile)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// Get godoc
// @Summary 获取画像详情
// @Tags 画像
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "画像ID"
// @Success 200 {object} util.Response{data=object} "画像详情"
// @Failure 404 {object} util.Response "画像不存在"
// @Router /api/profiles/{id} [get]
func (c *ProfileController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	row, view, err := c.ProfileService.Get(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"meta":    row,
		"profile": view,
	})
}

// List godoc
// @Summary 画像列表
// @Tags 画像
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.DecisionProfile} "画像列表"
// @Router /api/profiles [get]
func (c *ProfileController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profiles, err := c.ProfileService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, profiles)
}

// Delete godoc
// @Summary 删除画像
// @Tags 画像
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "画像ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 404 {object} util.Response "画像不存在"
// @Router /api/profiles/{id} [delete]
func (c *ProfileController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ProfileService.Delete(util.MustParseUint(ctx.Param("id")), claims.UserID); err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Versions godoc
// @Summary 画像历史版本列表
// @Tags 画像
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "画像ID"
// @Success 200 {object} util.Response{data=[]model.ProfileVersion} "版本列表"
// @Failure 404 {object} util.Response "画像不存在"
// @Router /api/profiles/{id}/versions [get]
func (c *ProfileController) Versions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	versions, err := c.ProfileService.Versions(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, versions)
}

// GetVersion godoc
// @Summary 获取画像指定历史版本的快照
// @Tags 画像
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "画像ID"
// @Param   version path int true "版本号"
// @Success 200 {object} util.Response{data=engine.Profile} "版本快照"
// @Failure 404 {object} util.Response "画像或版本不存在"
// @Router /api/profiles/{id}/versions/{version} [get]
func (c *ProfileController) GetVersion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	snapshot, err := c.ProfileService.VersionSnapshot(
		util.MustParseUint(ctx.Param("id")),
		claims.UserID,
		int(util.MustParseUint(ctx.Param("version"))),
	)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, snapshot)
}

// ExtractRequest 画像抽取请求
// swagger:model ExtractRequest
type ExtractRequest struct {
	Text string `json:"text" binding:"required"`
}

// Extract godoc
// @Summary 从自述文本抽取画像草稿
// @Description 调用抽取协作方把自述结构化为画像，结果仅为草稿，需确认后保存
// @Tags 画像
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ExtractRequest true "自述文本"
// @Success 200 {object} util.Response{data=engine.Profile} "画像草稿"
// @Failure 502 {object} util.Response "抽取协作方不可用"
// @Router /api/profiles/extract [post]
func (c *ProfileController) Extract(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ExtractRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	draft, err := c.ExtractionService.ExtractProfile(ctx.Request.Context(), req.Text)
	if err != nil {
		util.Error(ctx, 502, "画像抽取失败: "+err.Error())
		return
	}
	util.Success(ctx, draft)
}

func (c *ProfileController) handleError(ctx *gin.Context, err error) {
	var ve *engine.ValidationError
	switch {
	case errors.Is(err, util.ErrProfileNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.As(err, &ve):
		util.BadRequest(ctx, ve.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
