package controller

import (
	"strconv"
	"strings"
	"time"

	"studysprint_backend/internal/service"
	"studysprint_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

func parseAnalyticsQuery(ctx *gin.Context) service.AnalyticsQuery {
	q := service.AnalyticsQuery{
		Granularity: ctx.DefaultQuery("granularity", ""),
	}
	if days, err := strconv.Atoi(ctx.DefaultQuery("days", "30")); err == nil {
		q.Days = days
	}
	if v := ctx.Query("start_date"); v != "" {
		if t, err := time.Parse(util.DateFormat, v); err == nil {
			q.Start = &t
		}
	}
	if v := ctx.Query("end_date"); v != "" {
		if t, err := time.Parse(util.DateFormat, v); err == nil {
			q.End = &t
		}
	}
	if v := ctx.Query("pdf_ids"); v != "" {
		q.DocumentIDs = strings.Split(v, ",")
	}
	if v := ctx.Query("topic_ids"); v != "" {
		q.TopicIDs = strings.Split(v, ",")
	}
	return q
}

// @Summary 学习分析报告
// @Description 综合分析：概览、趋势、百分位分布、专注模式、阅读速度与建议
// @Tags 学习分析
// @Produce json
// @Security BearerAuth
// @Param days query int false "时间范围（天）" default(30)
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Param pdf_ids query string false "文档ID列表，逗号分隔"
// @Param topic_ids query string false "主题ID列表，逗号分隔"
// @Param granularity query string false "趋势粒度" Enums(hourly, daily, weekly, monthly)
// @Success 200 {object} util.Response
// @Router /api/timer/analytics [get]
func (c *AnalyticsController) GetAnalytics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.AnalyticsService.GetStudyAnalytics(user.UserID, parseAnalyticsQuery(ctx))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary 专注力分析
// @Description 专注趋势、中断分析与改进建议
// @Tags 学习分析
// @Produce json
// @Security BearerAuth
// @Param days query int false "时间范围（天）" default(30)
// @Success 200 {object} util.Response
// @Router /api/timer/analytics/focus [get]
func (c *AnalyticsController) GetFocusAnalytics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.AnalyticsService.GetFocusAnalytics(user.UserID, parseAnalyticsQuery(ctx))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary 学习统计汇总
// @Description 按类型查询结算级联滚动更新的统计行，按日期倒序
// @Tags 学习分析
// @Produce json
// @Security BearerAuth
// @Param type path string true "统计类型" Enums(daily, weekly, monthly, lifetime)
// @Param limit query int false "返回条数" default(30)
// @Success 200 {object} util.Response
// @Router /api/timer/statistics/{type} [get]
func (c *AnalyticsController) GetStatistics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := 0
	if v, err := strconv.Atoi(ctx.DefaultQuery("limit", "30")); err == nil {
		limit = v
	}

	stats, err := c.AnalyticsService.GetStatistics(user.UserID, ctx.Param("type"), limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary 阅读模式分析
// @Description 最佳学习时段、速度/专注/效率趋势、内容偏好与难度表现
// @Tags 学习分析
// @Produce json
// @Security BearerAuth
// @Param days query int false "时间范围（天）" default(30)
// @Success 200 {object} util.Response
// @Router /api/timer/patterns [get]
func (c *AnalyticsController) GetPatterns(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.AnalyticsService.GetReadingPatterns(user.UserID, parseAnalyticsQuery(ctx))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
