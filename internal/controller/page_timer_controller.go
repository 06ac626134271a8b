package controller

import (
	"studysprint_backend/internal/model"
	"studysprint_backend/internal/service"
	"studysprint_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PageTimerController struct {
	PageTimerService *service.PageTimerService
}

func NewPageTimerController(pageTimerService *service.PageTimerService) *PageTimerController {
	return &PageTimerController{PageTimerService: pageTimerService}
}

// @Summary 开始页面计时
// @Description 开始记录某一页的停留时间，会话内已打开的页面先自动关闭
// @Tags 页面计时
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.StartPageTimerRequest true "页面参数"
// @Success 201 {object} util.Response
// @Router /api/timer/pages/start [post]
func (c *PageTimerController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.StartPageTimerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pt, err := c.PageTimerService.Start(user.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, pt)
}

// @Summary 结束页面计时
// @Description 关闭页面计时并结算阅读速度、难度与参与度
// @Tags 页面计时
// @Produce json
// @Security BearerAuth
// @Param id path string true "页面计时ID"
// @Success 200 {object} util.Response
// @Router /api/timer/pages/{id}/end [post]
func (c *PageTimerController) End(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	pt, err := c.PageTimerService.End(ctx.Param("id"), user.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, pt)
}

// @Summary 上报页面活动
// @Description 合并页面级活动计数器，计数器只增不减
// @Tags 页面计时
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "页面计时ID"
// @Param request body model.PageTimeUpdate true "活动计数"
// @Success 200 {object} util.Response
// @Router /api/timer/pages/{id}/activity [patch]
func (c *PageTimerController) UpdateActivity(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var update model.PageTimeUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pt, err := c.PageTimerService.UpdateActivity(ctx.Param("id"), user.UserID, update)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, pt)
}
