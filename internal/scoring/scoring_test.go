package scoring

import (
	"math"
	"testing"
)

func TestFocusScorePerfect(t *testing.T) {
	// 无中断且无空闲时间时满分
	for _, total := range []int{1, 30, 100, 480} {
		if got := FocusScore(0, 0, total); got != 1.0 {
			t.Errorf("FocusScore(0, 0, %d) = %v, want 1.0", total, got)
		}
	}
}

func TestFocusScoreInterruptionPenalty(t *testing.T) {
	if got := FocusScore(3, 0, 60); got != 0.7 {
		t.Errorf("FocusScore(3, 0, 60) = %v, want 0.7", got)
	}
	// 中断扣分上限 0.5
	if got := FocusScore(20, 0, 60); got != 0.5 {
		t.Errorf("FocusScore(20, 0, 60) = %v, want 0.5", got)
	}
}

func TestFocusScoreIdlePenalty(t *testing.T) {
	// idleRatio = 0.5, penalty = min(0.3, 0.3*1.5) = 0.3
	if got := FocusScore(0, 50, 100); got != 0.7 {
		t.Errorf("FocusScore(0, 50, 100) = %v, want 0.7", got)
	}
	// idleRatio = 0.2 恰好在阈值上，不扣分
	if got := FocusScore(0, 20, 100); got != 1.0 {
		t.Errorf("FocusScore(0, 20, 100) = %v, want 1.0", got)
	}
	// idleRatio = 0.3, penalty = 0.1*1.5 = 0.15
	if got := FocusScore(0, 30, 100); got != 0.85 {
		t.Errorf("FocusScore(0, 30, 100) = %v, want 0.85", got)
	}
}

func TestFocusScoreRange(t *testing.T) {
	for interruptions := 0; interruptions <= 10; interruptions++ {
		for idle := 0; idle <= 100; idle += 25 {
			got := FocusScore(interruptions, idle, 100)
			if got < 0 || got > 1 {
				t.Errorf("FocusScore(%d, %d, 100) = %v, out of [0,1]", interruptions, idle, got)
			}
		}
	}
}

func TestProductivityScore(t *testing.T) {
	// pagesScore = min(1, 5/10) = 0.5, activityScore = min(1, 300/500) = 0.6
	// 0.7*0.5 + 0.3*0.6 = 0.53
	if got := ProductivityScore(5, 200, 100, 100); got != 0.53 {
		t.Errorf("ProductivityScore(5, 200, 100, 100) = %v, want 0.53", got)
	}
}

func TestProductivityScoreRange(t *testing.T) {
	cases := [][4]int{
		{0, 0, 0, 0},
		{100, 10000, 10000, 10},
		{1, 1, 1, 600},
	}
	for _, c := range cases {
		got := ProductivityScore(c[0], c[1], c[2], c[3])
		if got < 0 || got > 1 {
			t.Errorf("ProductivityScore(%v) = %v, out of [0,1]", c, got)
		}
	}
}

func TestSessionXP(t *testing.T) {
	// 2*30 + int(50*0.8) + int(50*0.53) + 10*5 + 25*2 = 60+40+26+50+50 = 226
	if got := SessionXP(30, 0.8, 0.53, 5, 2); got != 226 {
		t.Errorf("SessionXP = %d, want 226", got)
	}
	if got := SessionXP(0, 0, 0, 0, 0); got != 0 {
		t.Errorf("SessionXP zero case = %d, want 0", got)
	}
}

func TestCycleProductivity(t *testing.T) {
	if got := CycleProductivity(25, 25, 0); got != 1.0 {
		t.Errorf("full cycle = %v, want 1.0", got)
	}
	// ratio 0.5, 2 次中断扣 0.2
	if got := CycleProductivity(10, 20, 2); got != 0.3 {
		t.Errorf("partial cycle = %v, want 0.3", got)
	}
	// 扣穿下限
	if got := CycleProductivity(1, 100, 10); got < 0 {
		t.Errorf("clamped cycle = %v, want >= 0", got)
	}
}

func TestCycleFocusBreakAlwaysPerfect(t *testing.T) {
	// 休息周期无论中断多少、完成与否都是 1.0
	for _, interruptions := range []int{0, 3, 100} {
		for _, completed := range []bool{true, false} {
			if got := CycleFocus(false, interruptions, completed, 5, 5); got != 1.0 {
				t.Errorf("break CycleFocus(interruptions=%d, completed=%v) = %v, want 1.0",
					interruptions, completed, got)
			}
		}
	}
}

func TestCycleFocusWork(t *testing.T) {
	// 完成且足量，有奖励但封顶 1.0
	if got := CycleFocus(true, 0, true, 25, 25); got != 1.0 {
		t.Errorf("completed work cycle = %v, want 1.0", got)
	}
	// 2 次中断扣 0.4，未完成无奖励
	if got := CycleFocus(true, 2, false, 10, 25); got != 0.6 {
		t.Errorf("interrupted work cycle = %v, want 0.6", got)
	}
	// 中断扣分上限 0.8，完成奖励 0.1
	if got := CycleFocus(true, 10, true, 30, 25); got != 0.3 {
		t.Errorf("heavily interrupted cycle = %v, want 0.3", got)
	}
}

func TestCycleXP(t *testing.T) {
	if got := CycleXP(false, true, 0.2, 0.1); got != 5 {
		t.Errorf("completed break = %d, want 5", got)
	}
	if got := CycleXP(false, false, 1.0, 1.0); got != 2 {
		t.Errorf("incomplete break = %d, want 2", got)
	}
	// 25 + int(15*1.0) + int(10*0.5) = 45
	if got := CycleXP(true, true, 1.0, 0.5); got != 45 {
		t.Errorf("completed work = %d, want 45", got)
	}
	// 10 + int(15*0.6) + int(10*0.3) = 10+9+3 = 22
	if got := CycleXP(true, false, 0.6, 0.3); got != 22 {
		t.Errorf("incomplete work = %d, want 22", got)
	}
}

func TestPageDifficulty(t *testing.T) {
	cases := []struct {
		minutes float64
		want    int
	}{
		{0.5, 1},
		{0.99, 1},
		{1, 2},
		{1.9, 2},
		{2, 3},
		{3.9, 3},
		{4, 4},
		{7.9, 4},
		{8, 5},
		{60, 5},
	}
	for _, c := range cases {
		if got := PageDifficulty(c.minutes); got != c.want {
			t.Errorf("PageDifficulty(%v) = %d, want %d", c.minutes, got, c.want)
		}
	}
}

func TestEngagementScore(t *testing.T) {
	if got := EngagementScore(1); got != 0.5 {
		t.Errorf("EngagementScore(1) = %v, want 0.5", got)
	}
	if got := EngagementScore(3); got != 1.0 {
		t.Errorf("EngagementScore(3) = %v, want 1.0", got)
	}
	if got := EngagementScore(7); got != 0.8 {
		t.Errorf("EngagementScore(7) = %v, want 0.8", got)
	}
	// 高频交互下限 0.5
	if got := EngagementScore(100); got != 0.5 {
		t.Errorf("EngagementScore(100) = %v, want 0.5", got)
	}
}

func TestComprehensionEstimate(t *testing.T) {
	// 0.7*1.0 + 0.3*min(1, 3/3) = 1.0
	if got := ComprehensionEstimate(1.0, 2, 1); got != 1.0 {
		t.Errorf("ComprehensionEstimate(1.0, 2, 1) = %v, want 1.0", got)
	}
	// 0.7*0.5 + 0.3*min(1, 1/3) = 0.35 + 0.1 = 0.45
	if got := ComprehensionEstimate(0.5, 1, 0); got != 0.45 {
		t.Errorf("ComprehensionEstimate(0.5, 1, 0) = %v, want 0.45", got)
	}
}

func TestEstimateAccuracy(t *testing.T) {
	cases := []struct {
		variance float64
		want     float64
	}{
		{0.05, 1.0},
		{0.1, 1.0},
		{0.2, 0.8},
		{0.25, 0.8},
		{0.4, 0.6},
		{0.5, 0.6},
		{0.8, 0.4},
		{1.0, 0.4},
		{2.0, 0.2},
	}
	for _, c := range cases {
		if got := EstimateAccuracy(c.variance); got != c.want {
			t.Errorf("EstimateAccuracy(%v) = %v, want %v", c.variance, got, c.want)
		}
	}
}

func TestPercentile(t *testing.T) {
	data := []float64{10, 20, 30, 40}
	if got := Percentile(data, 0.5); got != 25 {
		t.Errorf("median = %v, want 25", got)
	}
	if got := Percentile(data, 0); got != 10 {
		t.Errorf("p0 = %v, want 10", got)
	}
	if got := Percentile(data, 1); got != 40 {
		t.Errorf("p100 = %v, want 40", got)
	}
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("empty = %v, want 0", got)
	}
	if got := Percentile([]float64{7}, 0.9); got != 7 {
		t.Errorf("single = %v, want 7", got)
	}
}

func TestConsistency(t *testing.T) {
	// 全相等序列变异系数为 0，一致性 1.0
	if got := Consistency([]float64{30, 30, 30}); got != 1.0 {
		t.Errorf("uniform = %v, want 1.0", got)
	}
	if got := Consistency([]float64{30}); got != 0 {
		t.Errorf("single sample = %v, want 0", got)
	}
	// 高波动序列一致性压到 0
	if got := Consistency([]float64{1, 100, 1, 100}); got < 0 {
		t.Errorf("volatile = %v, want >= 0", got)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(0.525); math.Abs(got-0.53) > 1e-9 {
		t.Errorf("Round2(0.525) = %v, want 0.53", got)
	}
	if got := Round2(1.004); got != 1.0 {
		t.Errorf("Round2(1.004) = %v, want 1.0", got)
	}
}
