package controller

import (
	"strconv"

	"studysprint_backend/internal/model"
	"studysprint_backend/internal/service"
	"studysprint_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// @Summary 开始学习会话
// @Description 开始新的学习会话，已有活跃会话时先自动结束旧会话
// @Tags 计时器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.StartSessionRequest true "会话参数"
// @Success 201 {object} util.Response
// @Router /api/timer/sessions/start [post]
func (c *SessionController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SessionService.Start(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// @Summary 获取活跃会话
// @Description 获取当前用户的活跃会话，没有则返回空
// @Tags 计时器
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/timer/sessions/active [get]
func (c *SessionController) GetActive(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.SessionService.GetActive(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 会话历史
// @Description 查询最近的已结束会话
// @Tags 计时器
// @Produce json
// @Security BearerAuth
// @Param limit query int false "返回数量" default(20)
// @Param days query int false "时间范围（天）" default(30)
// @Success 200 {object} util.Response
// @Router /api/timer/sessions [get]
func (c *SessionController) History(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))

	sessions, err := c.SessionService.History(user.UserID, limit, days)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// @Summary 暂停会话
// @Description 暂停运行中的会话
// @Tags 计时器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param request body service.PauseSessionRequest false "暂停原因"
// @Success 200 {object} util.Response
// @Router /api/timer/sessions/{id}/pause [post]
func (c *SessionController) Pause(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.PauseSessionRequest
	_ = ctx.ShouldBindJSON(&req)

	session, err := c.SessionService.Pause(ctx.Request.Context(), ctx.Param("id"), user.UserID, req.Reason)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 恢复会话
// @Description 恢复暂停中的会话
// @Tags 计时器
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/timer/sessions/{id}/resume [post]
func (c *SessionController) Resume(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.SessionService.Resume(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 结束会话
// @Description 结束会话并结算得分、阅读速度与每日统计
// @Tags 计时器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param request body service.EndSessionRequest false "评分与笔记"
// @Success 200 {object} util.Response
// @Router /api/timer/sessions/{id}/end [post]
func (c *SessionController) End(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.EndSessionRequest
	_ = ctx.ShouldBindJSON(&req)

	session, err := c.SessionService.End(ctx.Request.Context(), ctx.Param("id"), user.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 上报会话活动
// @Description 合并客户端活动计数器并刷新时间指标，计数器只增不减
// @Tags 计时器
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param request body model.SessionActivityUpdate true "活动计数"
// @Success 200 {object} util.Response
// @Router /api/timer/sessions/{id}/activity [patch]
func (c *SessionController) UpdateActivity(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var update model.SessionActivityUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SessionService.UpdateActivity(ctx.Request.Context(), ctx.Param("id"), user.UserID, update)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, session)
}
