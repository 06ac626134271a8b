package controller

import (
	"studysprint_backend/internal/service"
	"studysprint_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PomodoroController struct {
	PomodoroService *service.PomodoroService
}

func NewPomodoroController(pomodoroService *service.PomodoroService) *PomodoroController {
	return &PomodoroController{PomodoroService: pomodoroService}
}

// @Summary 开始番茄周期
// @Description 在活跃会话内开始一个工作或休息周期
// @Tags 番茄钟
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.StartCycleRequest true "周期参数"
// @Success 201 {object} util.Response
// @Router /api/timer/pomodoro/start [post]
func (c *PomodoroController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.StartCycleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cycle, err := c.PomodoroService.Start(user.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, cycle)
}

// @Summary 完成番茄周期
// @Description 完成周期并把得分、XP 和休息时长折算进所属会话
// @Tags 番茄钟
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "周期ID"
// @Param request body service.CompleteCycleRequest false "完成参数"
// @Success 200 {object} util.Response
// @Router /api/timer/pomodoro/{id}/complete [post]
func (c *PomodoroController) Complete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CompleteCycleRequest
	_ = ctx.ShouldBindJSON(&req)

	cycle, err := c.PomodoroService.Complete(ctx.Param("id"), user.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, cycle)
}

// @Summary 会话内的番茄周期列表
// @Description 按周期序号返回会话内的全部番茄周期
// @Tags 番茄钟
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/timer/sessions/{id}/pomodoro [get]
func (c *PomodoroController) ListBySession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	cycles, err := c.PomodoroService.ListBySession(ctx.Param("id"), user.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, cycles)
}
