package util

import (
	"errors"
	"net/http"

	"studysprint_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// FromError 把引擎错误映射为 HTTP 状态码。
// 未识别的错误一律按依赖故障处理，原样记录后返回 500。
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrPageTimerNotFound),
		errors.Is(err, ErrCycleNotFound),
		errors.Is(err, ErrDocumentNotFound),
		errors.Is(err, ErrEstimateNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, ErrSessionNotActive),
		errors.Is(err, ErrSessionAlreadyPaused),
		errors.Is(err, ErrSessionNotPaused),
		errors.Is(err, ErrCycleCompleted):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidPageNumber),
		errors.Is(err, ErrInvalidSessionType),
		errors.Is(err, ErrInvalidCycleType),
		errors.Is(err, ErrInvalidGranularity),
		errors.Is(err, ErrInvalidStatType),
		errors.Is(err, ErrInvalidRating),
		errors.Is(err, ErrInvalidEstimate):
		BadRequest(c, err.Error())
	default:
		LogInternalError(c, err)
	}
}
