package util

import "errors"

// 未找到类
var (
	ErrSessionNotFound   = errors.New("study session not found")
	ErrPageTimerNotFound = errors.New("active page timer not found")
	ErrCycleNotFound     = errors.New("active pomodoro cycle not found")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrEstimateNotFound  = errors.New("time estimate not found")
)

// 状态机非法操作类
var (
	ErrSessionNotActive     = errors.New("session is not active")
	ErrSessionAlreadyPaused = errors.New("session is already paused")
	ErrSessionNotPaused     = errors.New("session is not paused")
	ErrCycleCompleted       = errors.New("pomodoro cycle already completed")
)

// 参数校验类
var (
	ErrInvalidPageNumber  = errors.New("page number must be >= 1")
	ErrInvalidSessionType = errors.New("invalid session type")
	ErrInvalidCycleType   = errors.New("invalid cycle type")
	ErrInvalidGranularity = errors.New("granularity must be one of hourly, daily, weekly, monthly")
	ErrInvalidStatType    = errors.New("stat type must be one of daily, weekly, monthly, lifetime")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidEstimate    = errors.New("estimated minutes must be positive")
)
