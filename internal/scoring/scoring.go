// Package scoring 学习会话的评分算法库。所有函数都是纯函数，
// 只依赖已记录的计数器，阈值与权重是固定策略常量。
package scoring

import "math"

// FocusScore 会话专注度评分，范围 [0,1]。
// 从 1.0 起步，按中断次数和空闲时间占比扣分。
func FocusScore(interruptions, idleMinutes, totalMinutes int) float64 {
	score := 1.0

	score -= math.Min(0.5, float64(interruptions)*0.1)

	if totalMinutes > 0 {
		idleRatio := float64(idleMinutes) / float64(totalMinutes)
		if idleRatio > 0.2 {
			score -= math.Min(0.3, (idleRatio-0.2)*1.5)
		}
	}

	if score < 0 {
		score = 0
	}
	return Round2(score)
}

// ProductivityScore 会话效率评分，范围 [0,1]。
// 页面完成率占 70%，交互活跃度占 30%。
func ProductivityScore(pagesCompleted, clicks, scrolls, totalMinutes int) float64 {
	pagesScore := math.Min(1.0, float64(pagesCompleted)/math.Max(1.0, float64(totalMinutes)/10.0))
	activityScore := math.Min(1.0, float64(clicks+scrolls)/math.Max(1.0, float64(totalMinutes)*5.0))
	return Round2(0.7*pagesScore + 0.3*activityScore)
}

// SessionXP 会话结束时获得的经验值，各项先截断再求和。
func SessionXP(activeMinutes int, focus, productivity float64, pagesCompleted, pomodoroCycles int) int {
	xp := 2*activeMinutes +
		int(50*focus) +
		int(50*productivity) +
		10*pagesCompleted +
		25*pomodoroCycles
	if xp < 0 {
		xp = 0
	}
	return xp
}

// CycleProductivity 番茄周期的完成度评分，按中断次数扣分，下限 0。
func CycleProductivity(actualMinutes, plannedMinutes, interruptions int) float64 {
	completionRatio := 1.0
	if plannedMinutes > 0 {
		completionRatio = math.Min(1.0, float64(actualMinutes)/float64(plannedMinutes))
	}
	score := completionRatio - math.Min(0.5, float64(interruptions)*0.1)
	if score < 0 {
		score = 0
	}
	return Round2(score)
}

// CycleFocus 番茄周期专注度。休息周期恒为 1.0；
// 工作周期按中断扣分，足量完成有 0.1 奖励。
func CycleFocus(isWork bool, interruptions int, completed bool, actualMinutes, plannedMinutes int) float64 {
	if !isWork {
		return 1.0
	}

	score := 1.0 - math.Min(0.8, float64(interruptions)*0.2)
	if completed && actualMinutes >= plannedMinutes {
		score += 0.1
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return Round2(score)
}

// CycleXP 番茄周期经验值。
func CycleXP(isWork, completed bool, focus, productivity float64) int {
	if !isWork {
		if completed {
			return 5
		}
		return 2
	}

	base := 10
	if completed {
		base = 25
	}
	return base + int(15*focus) + int(10*productivity)
}

// PageDifficulty 按页面停留分钟数推算难度等级 1-5。
func PageDifficulty(minutes float64) int {
	switch {
	case minutes < 1:
		return 1
	case minutes < 2:
		return 2
	case minutes < 4:
		return 3
	case minutes < 8:
		return 4
	default:
		return 5
	}
}

// EngagementScore 按每分钟交互频率推算页面参与度，范围 [0,1]。
// 2~5 次/分钟视为理想区间。
func EngagementScore(ratePerMinute float64) float64 {
	switch {
	case ratePerMinute < 2:
		return Round2(ratePerMinute / 2)
	case ratePerMinute <= 5:
		return 1.0
	default:
		return Round2(math.Max(0.5, 1.0-0.1*(ratePerMinute-5)))
	}
}

// ComprehensionEstimate 页面理解度估计：参与度占 70%，笔记行为占 30%。
func ComprehensionEstimate(engagement float64, notes, highlights int) float64 {
	noteScore := math.Min(1.0, float64(notes+highlights)/3.0)
	return Round2(0.7*engagement + 0.3*noteScore)
}

// EstimateAccuracy 时间预测的准确度评分，按相对误差分档。
func EstimateAccuracy(variance float64) float64 {
	switch {
	case variance <= 0.1:
		return 1.0
	case variance <= 0.25:
		return 0.8
	case variance <= 0.5:
		return 0.6
	case variance <= 1.0:
		return 0.4
	default:
		return 0.2
	}
}

// Percentile 线性插值百分位数，data 必须已升序排序。
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	k := float64(len(data)-1) * p
	f := int(k)
	c := k - float64(f)
	if f >= len(data)-1 {
		return data[len(data)-1]
	}
	return data[f]*(1-c) + data[f+1]*c
}

// Consistency 一致性评分 = max(0, 1 - 变异系数)。样本少于 2 个返回 0。
func Consistency(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	cv := math.Sqrt(variance) / mean
	return math.Max(0, 1.0-cv)
}

// Round2 保留两位小数。
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
