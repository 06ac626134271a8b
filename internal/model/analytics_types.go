package model

// OverviewMetrics 学习概览指标
type OverviewMetrics struct {
	TotalSessions            int     `json:"totalSessions"`
	TotalStudyMinutes        int     `json:"totalStudyMinutes"`
	TotalActiveMinutes       int     `json:"totalActiveMinutes"`
	AverageSessionLength     float64 `json:"averageSessionLength"`
	AverageFocusScore        float64 `json:"averageFocusScore"`
	AverageProductivityScore float64 `json:"averageProductivityScore"`
	TotalPagesVisited        int     `json:"totalPagesVisited"`
	TotalPomodoroCycles      int     `json:"totalPomodoroCycles"`
}

// TrendPoint 一个时间桶的趋势数据
type TrendPoint struct {
	Period                   string  `json:"period"`
	SessionCount             int     `json:"sessionCount"`
	TotalMinutes             int     `json:"totalMinutes"`
	ActiveMinutes            int     `json:"activeMinutes"`
	PagesVisited             int     `json:"pagesVisited"`
	AverageFocusScore        float64 `json:"averageFocusScore"`
	AverageProductivityScore float64 `json:"averageProductivityScore"`
	Efficiency               float64 `json:"efficiency"` // active/total
}

// Percentiles 百分位数分布
type Percentiles struct {
	P25 float64 `json:"25th"`
	P50 float64 `json:"50th"`
	P75 float64 `json:"75th"`
	P90 float64 `json:"90th"`
}

// PerformanceMetrics 表现指标：得分与会话时长的分布
type PerformanceMetrics struct {
	FocusScorePercentiles        Percentiles `json:"focusScorePercentiles"`
	ProductivityScorePercentiles Percentiles `json:"productivityScorePercentiles"`
	SessionLengthPercentiles     Percentiles `json:"sessionLengthPercentiles"`
	ConsistencyScore             float64     `json:"consistencyScore"`
}

// FocusPatterns 专注模式分析
type FocusPatterns struct {
	OptimalFocusHours    []int           `json:"optimalFocusHours"`
	FocusByHour          map[int]float64 `json:"focusByHour"`
	AverageInterruptions float64         `json:"averageInterruptions"`
	BestFocusScore       float64         `json:"bestFocusScore"`
	FocusConsistency     float64         `json:"focusConsistency"`
}

// ReadingSpeedMetrics 阅读速度指标
type ReadingSpeedMetrics struct {
	AverageWPM float64 `json:"averageWpm"`
	AveragePPM float64 `json:"averagePpm"`
	Trend      string  `json:"trend"` // improving, declining, stable, insufficient_data, no_data
	SampleSize int     `json:"sampleSize"`
}

// AnalyticsPeriod 分析报告覆盖的时间窗口
type AnalyticsPeriod struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Days      int    `json:"days"`
}

// AnalyticsReport 综合学习分析报告
type AnalyticsReport struct {
	Period          AnalyticsPeriod     `json:"period"`
	Overview        OverviewMetrics     `json:"overview"`
	Trends          []TrendPoint        `json:"trends"`
	Performance     *PerformanceMetrics `json:"performance"`
	ReadingSpeed    ReadingSpeedMetrics `json:"readingSpeed"`
	FocusPatterns   *FocusPatterns      `json:"focusPatterns"`
	Recommendations []string            `json:"recommendations"`
}

// SpeedTrendPoint 阅读速度趋势单点
type SpeedTrendPoint struct {
	Date        string  `json:"date"`
	WPM         float64 `json:"wpm"`
	PPM         float64 `json:"ppm"`
	ContentType string  `json:"contentType"`
	Difficulty  int     `json:"difficulty"`
}

// FocusTrendPoint 专注度趋势单点
type FocusTrendPoint struct {
	Date          string  `json:"date"`
	FocusScore    float64 `json:"focusScore"`
	SessionLength int     `json:"sessionLength"`
	Interruptions int     `json:"interruptions"`
}

// ProductivityTrendPoint 效率趋势单点
type ProductivityTrendPoint struct {
	Date              string  `json:"date"`
	ProductivityScore float64 `json:"productivityScore"`
	PagesVisited      int     `json:"pagesVisited"`
	ActiveMinutes     int     `json:"activeMinutes"`
}

// ContentTypeStats 按内容类型聚合的阅读速度
type ContentTypeStats struct {
	AverageSpeed float64 `json:"averageSpeed"`
	Count        int     `json:"count"`
}

// DifficultyPerformance 按难度等级聚合的表现
type DifficultyPerformance struct {
	AverageFocus        float64 `json:"averageFocus"`
	AverageProductivity float64 `json:"averageProductivity"`
	SessionCount        int     `json:"sessionCount"`
}

// PatternsReport 阅读模式报告
type PatternsReport struct {
	OptimalStudyHours      []int                         `json:"optimalStudyHours"`
	BestPerformingDays     []int                         `json:"bestPerformingDays"` // 周一 = 0
	ReadingSpeedTrends     []SpeedTrendPoint             `json:"readingSpeedTrends"`
	FocusScoreTrends       []FocusTrendPoint             `json:"focusScoreTrends"`
	ProductivityTrends     []ProductivityTrendPoint      `json:"productivityTrends"`
	ContentTypePreferences map[string]ContentTypeStats   `json:"contentTypePreferences"`
	DifficultyPerformance  map[int]DifficultyPerformance `json:"difficultyPerformance"`
}

// InterruptionAnalysis 中断分析
type InterruptionAnalysis struct {
	AveragePerSession     float64 `json:"averagePerSession"`
	HighInterruptionCount int     `json:"highInterruptionCount"`
	TotalInterruptions    int     `json:"totalInterruptions"`
	WorstSession          int     `json:"worstSession"`
}

// FocusAnalytics 专注力分析报告
type FocusAnalytics struct {
	AverageFocusScore          float64              `json:"averageFocusScore"`
	FocusTrends                []FocusTrendPoint    `json:"focusTrends"`
	InterruptionAnalysis       InterruptionAnalysis `json:"interruptionAnalysis"`
	OptimalSessionLength       int                  `json:"optimalSessionLength"`
	ImprovementRecommendations []string             `json:"improvementRecommendations"`
}

// VarianceTrendPoint 预测误差走势单点
type VarianceTrendPoint struct {
	Date         string  `json:"date"`
	Accuracy     float64 `json:"accuracy"`
	Variance     float64 `json:"variance"`
	EstimateType string  `json:"estimateType"`
}

// EstimationAccuracyReport 时间预测准确度报告，
// 只统计已回填真实耗时的预测记录。
type EstimationAccuracyReport struct {
	OverallAccuracy        float64              `json:"overallAccuracy"`
	TrackedEstimates       int                  `json:"trackedEstimates"`
	AccuracyByType         map[string]float64   `json:"accuracyByType"`
	VarianceTrends         []VarianceTrendPoint `json:"varianceTrends"`
	ImprovementSuggestions []string             `json:"improvementSuggestions"`
}

// CompletionEstimate 文档完成时间预测
type CompletionEstimate struct {
	DocumentID           string  `json:"documentId"`
	RemainingPages       int     `json:"remainingPages"`
	EstimatedMinutes     int     `json:"estimatedMinutes"`
	EstimatedHours       float64 `json:"estimatedHours"`
	ConfidenceLevel      string  `json:"confidenceLevel"`
	AverageReadingSpeed  float64 `json:"averageReadingSpeed"`
	BasedOnSessions      int     `json:"basedOnSessions"`
	DifficultyAdjustment float64 `json:"difficultyAdjustment"`
}
