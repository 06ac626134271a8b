package controller

import (
	"studysprint_backend/internal/service"
	"studysprint_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EstimateController struct {
	EstimateService *service.EstimateService
}

func NewEstimateController(estimateService *service.EstimateService) *EstimateController {
	return &EstimateController{EstimateService: estimateService}
}

// CreateEstimateRequest 创建时间预测的请求体
type CreateEstimateRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
}

// @Summary 文档完成时间预测
// @Description 基于历史阅读速度估算读完文档剩余部分所需时间
// @Tags 时间预测
// @Produce json
// @Security BearerAuth
// @Param id path string true "文档ID"
// @Success 200 {object} util.Response
// @Router /api/documents/{id}/completion-estimate [get]
func (c *EstimateController) CompletionEstimate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	estimate, err := c.EstimateService.CompletionEstimate(user.UserID, ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, estimate)
}

// @Summary 当前有效的时间预测
// @Description 查询未过期且仍然有效的预测记录
// @Tags 时间预测
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/timer/estimates [get]
func (c *EstimateController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	estimates, err := c.EstimateService.ListEstimates(user.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, estimates)
}

// @Summary 创建时间预测
// @Description 持久化一条完成时间预测，同一文档的旧预测同时失效
// @Tags 时间预测
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEstimateRequest true "预测目标"
// @Success 201 {object} util.Response
// @Router /api/timer/estimates [post]
func (c *EstimateController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateEstimateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	estimate, err := c.EstimateService.CreateEstimate(user.UserID, req.DocumentID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, estimate)
}

// @Summary 回填真实耗时
// @Description 记录实际学习耗时，计算预测误差与准确度评分
// @Tags 时间预测
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "预测ID"
// @Param request body service.RecordActualRequest true "真实耗时"
// @Success 200 {object} util.Response
// @Router /api/timer/estimates/{id}/actual [post]
func (c *EstimateController) RecordActual(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.RecordActualRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	estimate, err := c.EstimateService.RecordActual(ctx.Param("id"), user.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, estimate)
}

// @Summary 时间预测准确度分析
// @Description 汇总已回填真实耗时的预测，给出整体与分类型准确度和误差走势
// @Tags 时间预测
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/timer/analytics/estimation-accuracy [get]
func (c *EstimateController) AccuracyReport(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.EstimateService.AccuracyReport(user.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
