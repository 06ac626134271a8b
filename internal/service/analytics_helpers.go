package service

import (
	"fmt"
	"sort"

	"studysprint_backend/internal/model"
	"studysprint_backend/internal/scoring"
	"studysprint_backend/internal/util"
)

// 本文件里的聚合函数全部是纯函数：输入会话/采样切片，输出报告片段。
// 数据访问留在 AnalyticsService，便于单独测试聚合逻辑。

func overviewMetrics(sessions []model.StudySession) model.OverviewMetrics {
	m := model.OverviewMetrics{TotalSessions: len(sessions)}
	if len(sessions) == 0 {
		return m
	}

	var focusSum, prodSum float64
	for _, s := range sessions {
		m.TotalStudyMinutes += s.TotalMinutes
		m.TotalActiveMinutes += s.ActiveMinutes
		m.TotalPagesVisited += s.PagesVisited
		m.TotalPomodoroCycles += s.PomodoroCycles
		focusSum += s.FocusScore
		prodSum += s.ProductivityScore
	}
	n := float64(len(sessions))
	m.AverageSessionLength = scoring.Round2(float64(m.TotalStudyMinutes) / n)
	m.AverageFocusScore = scoring.Round2(focusSum / n)
	m.AverageProductivityScore = scoring.Round2(prodSum / n)
	return m
}

// bucketKey 把会话开始时间截断到粒度边界
func bucketKey(s *model.StudySession, granularity string) (string, error) {
	switch granularity {
	case util.GranularityHourly:
		return s.StartTime.Format(util.HourFormat), nil
	case util.GranularityDaily:
		return s.StartTime.Format(util.DateFormat), nil
	case util.GranularityWeekly:
		year, week := s.StartTime.ISOWeek()
		return fmt.Sprintf("%d-%02d", year, week), nil
	case util.GranularityMonthly:
		return s.StartTime.Format(util.MonthFormat), nil
	default:
		return "", util.ErrInvalidGranularity
	}
}

func trendBuckets(sessions []model.StudySession, granularity string) ([]model.TrendPoint, error) {
	type bucket struct {
		point    model.TrendPoint
		focusSum float64
		prodSum  float64
	}
	buckets := map[string]*bucket{}

	for i := range sessions {
		s := &sessions[i]
		key, err := bucketKey(s, granularity)
		if err != nil {
			return nil, err
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{point: model.TrendPoint{Period: key}}
			buckets[key] = b
		}
		b.point.SessionCount++
		b.point.TotalMinutes += s.TotalMinutes
		b.point.ActiveMinutes += s.ActiveMinutes
		b.point.PagesVisited += s.PagesVisited
		b.focusSum += s.FocusScore
		b.prodSum += s.ProductivityScore
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]model.TrendPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		n := float64(b.point.SessionCount)
		b.point.AverageFocusScore = scoring.Round2(b.focusSum / n)
		b.point.AverageProductivityScore = scoring.Round2(b.prodSum / n)
		if b.point.TotalMinutes > 0 {
			b.point.Efficiency = scoring.Round2(float64(b.point.ActiveMinutes) / float64(b.point.TotalMinutes))
		}
		points = append(points, b.point)
	}
	return points, nil
}

func percentilesOf(values []float64) model.Percentiles {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return model.Percentiles{
		P25: scoring.Round2(scoring.Percentile(sorted, 0.25)),
		P50: scoring.Round2(scoring.Percentile(sorted, 0.50)),
		P75: scoring.Round2(scoring.Percentile(sorted, 0.75)),
		P90: scoring.Round2(scoring.Percentile(sorted, 0.90)),
	}
}

func performanceMetrics(sessions []model.StudySession) *model.PerformanceMetrics {
	if len(sessions) == 0 {
		return nil
	}

	focus := make([]float64, len(sessions))
	prod := make([]float64, len(sessions))
	lengths := make([]float64, len(sessions))
	for i, s := range sessions {
		focus[i] = s.FocusScore
		prod[i] = s.ProductivityScore
		lengths[i] = float64(s.TotalMinutes)
	}

	return &model.PerformanceMetrics{
		FocusScorePercentiles:        percentilesOf(focus),
		ProductivityScorePercentiles: percentilesOf(prod),
		SessionLengthPercentiles:     percentilesOf(lengths),
		ConsistencyScore:             scoring.Round2(scoring.Consistency(lengths)),
	}
}

func focusPatterns(sessions []model.StudySession) *model.FocusPatterns {
	if len(sessions) == 0 {
		return nil
	}

	hourSum := map[int]float64{}
	hourCount := map[int]int{}
	var interruptionSum int
	var best float64
	focus := make([]float64, len(sessions))

	for i, s := range sessions {
		h := s.StartTime.Hour()
		hourSum[h] += s.FocusScore
		hourCount[h]++
		interruptionSum += s.Interruptions
		if s.FocusScore > best {
			best = s.FocusScore
		}
		focus[i] = s.FocusScore
	}

	byHour := make(map[int]float64, len(hourSum))
	for h, sum := range hourSum {
		byHour[h] = scoring.Round2(sum / float64(hourCount[h]))
	}

	return &model.FocusPatterns{
		OptimalFocusHours:    topHours(byHour, 3),
		FocusByHour:          byHour,
		AverageInterruptions: scoring.Round2(float64(interruptionSum) / float64(len(sessions))),
		BestFocusScore:       best,
		FocusConsistency:     scoring.Round2(scoring.Consistency(focus)),
	}
}

// topHours 按均值取前 n 个小时，均值相同按小时升序，结果稳定
func topHours(byHour map[int]float64, n int) []int {
	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool {
		if byHour[hours[i]] != byHour[hours[j]] {
			return byHour[hours[i]] > byHour[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > n {
		hours = hours[:n]
	}
	return hours
}

func readingSpeedMetrics(samples []model.ReadingSpeed) model.ReadingSpeedMetrics {
	m := model.ReadingSpeedMetrics{SampleSize: len(samples), Trend: "no_data"}
	if len(samples) == 0 {
		return m
	}

	var wpmSum, ppmSum float64
	for _, v := range samples {
		wpmSum += v.WordsPerMinute
		ppmSum += v.PagesPerMinute
	}
	n := float64(len(samples))
	m.AverageWPM = scoring.Round2(wpmSum / n)
	m.AveragePPM = scoring.Round2(ppmSum / n)
	m.Trend = speedTrendLabel(samples)
	return m
}

// speedTrendLabel 前后两半均速对比，±5% 内视为平稳。
// 输入按时间升序。
func speedTrendLabel(samples []model.ReadingSpeed) string {
	if len(samples) < 2 {
		return "insufficient_data"
	}

	half := len(samples) / 2
	var firstSum, secondSum float64
	for _, v := range samples[:half] {
		firstSum += v.WordsPerMinute
	}
	for _, v := range samples[half:] {
		secondSum += v.WordsPerMinute
	}
	first := firstSum / float64(half)
	second := secondSum / float64(len(samples)-half)

	if first == 0 {
		return "stable"
	}
	change := (second - first) / first
	switch {
	case change > 0.05:
		return "improving"
	case change < -0.05:
		return "declining"
	default:
		return "stable"
	}
}

func recommendations(sessions []model.StudySession, focus *model.FocusPatterns) []string {
	if len(sessions) == 0 {
		return []string{"Start your first study session to begin tracking your progress!"}
	}

	var recs []string
	n := len(sessions)

	var totalMinutes, pomodoroSessions int
	var focusSum float64
	days := map[string]struct{}{}
	for _, s := range sessions {
		totalMinutes += s.TotalMinutes
		focusSum += s.FocusScore
		if s.PomodoroCycles > 0 {
			pomodoroSessions++
		}
		days[s.StartTime.Format(util.DateFormat)] = struct{}{}
	}

	avgLength := float64(totalMinutes) / float64(n)
	if avgLength < 20 {
		recs = append(recs, "Try longer study sessions (20+ minutes) for better focus and retention.")
	} else if avgLength > 90 {
		recs = append(recs, "Try shorter sessions with breaks to keep your focus from fading.")
	}
	avgFocus := focusSum / float64(n)
	if avgFocus < 0.6 {
		recs = append(recs, "Your focus scores are low. Consider reducing distractions during study time.")
	} else if avgFocus > 0.8 {
		recs = append(recs, "Great focus! Consider tackling more challenging material.")
	}
	if focus != nil && focus.AverageInterruptions > 3 {
		recs = append(recs, "You average many interruptions per session. Try studying in a quieter environment.")
	}
	if float64(pomodoroSessions)/float64(n) < 0.3 {
		recs = append(recs, "Try the Pomodoro technique to structure your study sessions.")
	}
	if float64(len(days)) < float64(n)*0.7 {
		recs = append(recs, "Study more consistently. Daily short sessions beat occasional long ones.")
	}
	return recs
}

// combinedScore 综合表现 = (专注 + 效率) / 2
func combinedScore(s *model.StudySession) float64 {
	return (s.FocusScore + s.ProductivityScore) / 2
}

func optimalStudyHours(sessions []model.StudySession) []int {
	byHour := map[int]float64{}
	count := map[int]int{}
	for i := range sessions {
		h := sessions[i].StartTime.Hour()
		byHour[h] += combinedScore(&sessions[i])
		count[h]++
	}
	for h := range byHour {
		byHour[h] /= float64(count[h])
	}
	return topHours(byHour, 3)
}

// bestPerformingDays 综合表现最好的前 3 个星期几，周一 = 0
func bestPerformingDays(sessions []model.StudySession) []int {
	byDay := map[int]float64{}
	count := map[int]int{}
	for i := range sessions {
		d := (int(sessions[i].StartTime.Weekday()) + 6) % 7
		byDay[d] += combinedScore(&sessions[i])
		count[d]++
	}
	for d := range byDay {
		byDay[d] /= float64(count[d])
	}
	return topHours(byDay, 3)
}

func speedTrends(samples []model.ReadingSpeed) []model.SpeedTrendPoint {
	points := make([]model.SpeedTrendPoint, 0, len(samples))
	for _, v := range samples {
		points = append(points, model.SpeedTrendPoint{
			Date:        v.CreatedAt.Format(util.DateFormat),
			WPM:         scoring.Round2(v.WordsPerMinute),
			PPM:         scoring.Round2(v.PagesPerMinute),
			ContentType: v.ContentType,
			Difficulty:  v.DifficultyLevel,
		})
	}
	return points
}

func focusTrends(sessions []model.StudySession) []model.FocusTrendPoint {
	points := make([]model.FocusTrendPoint, 0, len(sessions))
	for _, s := range sessions {
		points = append(points, model.FocusTrendPoint{
			Date:          s.StartTime.Format(util.DateFormat),
			FocusScore:    s.FocusScore,
			SessionLength: s.TotalMinutes,
			Interruptions: s.Interruptions,
		})
	}
	return points
}

func productivityTrends(sessions []model.StudySession) []model.ProductivityTrendPoint {
	points := make([]model.ProductivityTrendPoint, 0, len(sessions))
	for _, s := range sessions {
		points = append(points, model.ProductivityTrendPoint{
			Date:              s.StartTime.Format(util.DateFormat),
			ProductivityScore: s.ProductivityScore,
			PagesVisited:      s.PagesVisited,
			ActiveMinutes:     s.ActiveMinutes,
		})
	}
	return points
}

func contentPreferences(samples []model.ReadingSpeed) map[string]model.ContentTypeStats {
	sum := map[string]float64{}
	count := map[string]int{}
	for _, v := range samples {
		sum[v.ContentType] += v.WordsPerMinute
		count[v.ContentType]++
	}

	out := make(map[string]model.ContentTypeStats, len(sum))
	for ct := range sum {
		out[ct] = model.ContentTypeStats{
			AverageSpeed: scoring.Round2(sum[ct] / float64(count[ct])),
			Count:        count[ct],
		}
	}
	return out
}

// difficultyPerformance 按文档真实难度聚合会话表现。
// 难度未知的文档归入默认难度 3。
func difficultyPerformance(sessions []model.StudySession, difficulties map[string]int) map[int]model.DifficultyPerformance {
	type acc struct {
		focusSum float64
		prodSum  float64
		count    int
	}
	byLevel := map[int]*acc{}

	for _, s := range sessions {
		level, ok := difficulties[s.DocumentID]
		if !ok || level < 1 || level > 5 {
			level = 3
		}
		a, ok := byLevel[level]
		if !ok {
			a = &acc{}
			byLevel[level] = a
		}
		a.focusSum += s.FocusScore
		a.prodSum += s.ProductivityScore
		a.count++
	}

	out := make(map[int]model.DifficultyPerformance, len(byLevel))
	for level, a := range byLevel {
		n := float64(a.count)
		out[level] = model.DifficultyPerformance{
			AverageFocus:        scoring.Round2(a.focusSum / n),
			AverageProductivity: scoring.Round2(a.prodSum / n),
			SessionCount:        a.count,
		}
	}
	return out
}

func interruptionAnalysis(sessions []model.StudySession) model.InterruptionAnalysis {
	var a model.InterruptionAnalysis
	if len(sessions) == 0 {
		return a
	}
	for _, s := range sessions {
		a.TotalInterruptions += s.Interruptions
		if s.Interruptions > 3 {
			a.HighInterruptionCount++
		}
		if s.Interruptions > a.WorstSession {
			a.WorstSession = s.Interruptions
		}
	}
	a.AveragePerSession = scoring.Round2(float64(a.TotalInterruptions) / float64(len(sessions)))
	return a
}

// optimalSessionLength 专注表现最好的会话的典型时长。
// 取专注分不低于 0.7 的会话时长均值，样本不足时退回整体均值。
func optimalSessionLength(sessions []model.StudySession) int {
	if len(sessions) == 0 {
		return 25
	}

	var goodSum, goodCount, allSum int
	for _, s := range sessions {
		allSum += s.TotalMinutes
		if s.FocusScore >= 0.7 {
			goodSum += s.TotalMinutes
			goodCount++
		}
	}
	if goodCount > 0 {
		return goodSum / goodCount
	}
	return allSum / len(sessions)
}

func focusRecommendations(sessions []model.StudySession, analysis model.InterruptionAnalysis, avgFocus float64) []string {
	if len(sessions) == 0 {
		return []string{"Complete a few study sessions to receive focus insights."}
	}

	var recs []string
	if avgFocus < 0.6 {
		recs = append(recs, "Your average focus is below 60%. Try shorter, more frequent sessions.")
	}
	if analysis.AveragePerSession > 3 {
		recs = append(recs, "Frequent interruptions hurt your focus. Silence notifications while studying.")
	}
	if analysis.HighInterruptionCount > len(sessions)/2 {
		recs = append(recs, "Most of your sessions are heavily interrupted. Consider a dedicated study space.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Your focus metrics look healthy. Keep up the current routine.")
	}
	return recs
}
