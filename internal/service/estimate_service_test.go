package service

import (
	"strings"
	"testing"
	"time"

	"studysprint_backend/internal/model"
	"studysprint_backend/internal/util"
)

func scoredEstimate(createdAt time.Time, estType model.EstimateType, accuracy, variance float64) model.TimeEstimate {
	return model.TimeEstimate{
		UUIDBase:      model.UUIDBase{CreatedAt: createdAt},
		UserID:        "user-1",
		EstimateType:  estType,
		AccuracyScore: &accuracy,
		Variance:      &variance,
	}
}

func TestEstimationAccuracyReportEmpty(t *testing.T) {
	report := estimationAccuracyReport(nil)
	if report.OverallAccuracy != 0 || report.TrackedEstimates != 0 {
		t.Errorf("report = %+v, want zero values", report)
	}
	if len(report.ImprovementSuggestions) != 1 || !strings.Contains(report.ImprovementSuggestions[0], "Complete more sessions") {
		t.Errorf("suggestions = %v, want onboarding message", report.ImprovementSuggestions)
	}
}

func TestEstimationAccuracyReportAggregates(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	estimates := []model.TimeEstimate{
		scoredEstimate(base, model.EstimateCompletion, 0.8, 0.2),
		scoredEstimate(base.AddDate(0, 0, 1), model.EstimateCompletion, 0.6, 0.4),
		scoredEstimate(base.AddDate(0, 0, 2), model.EstimateSession, 1.0, 0.05),
	}

	report := estimationAccuracyReport(estimates)
	if report.OverallAccuracy != 0.8 {
		t.Errorf("OverallAccuracy = %v, want 0.8", report.OverallAccuracy)
	}
	if report.TrackedEstimates != 3 {
		t.Errorf("TrackedEstimates = %d, want 3", report.TrackedEstimates)
	}
	if report.AccuracyByType["completion"] != 0.7 {
		t.Errorf("completion accuracy = %v, want 0.7", report.AccuracyByType["completion"])
	}
	if report.AccuracyByType["session"] != 1.0 {
		t.Errorf("session accuracy = %v, want 1.0", report.AccuracyByType["session"])
	}
	if len(report.VarianceTrends) != 3 {
		t.Fatalf("trends = %v, want 3 points", report.VarianceTrends)
	}
	if report.VarianceTrends[0].Date != "2026-03-10" || report.VarianceTrends[0].Variance != 0.2 {
		t.Errorf("first trend point = %+v", report.VarianceTrends[0])
	}

	// 样本少于 10 条时建议积累更多数据
	found := false
	for _, s := range report.ImprovementSuggestions {
		if strings.Contains(s, "improve estimation accuracy") {
			found = true
		}
	}
	if !found {
		t.Errorf("suggestions = %v, want more-data advice", report.ImprovementSuggestions)
	}
}

func TestEstimationAccuracyReportFlagsWeakEstimates(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	estimates := []model.TimeEstimate{
		scoredEstimate(base, model.EstimateCompletion, 0.4, 0.8),
		scoredEstimate(base.AddDate(0, 0, 1), model.EstimateCompletion, 0.2, 1.2),
	}

	report := estimationAccuracyReport(estimates)
	if report.OverallAccuracy != 0.3 {
		t.Errorf("OverallAccuracy = %v, want 0.3", report.OverallAccuracy)
	}

	wantSubstrings := []string{"often off", "Completion estimates"}
	for _, want := range wantSubstrings {
		found := false
		for _, s := range report.ImprovementSuggestions {
			if strings.Contains(s, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("no suggestion containing %q in %v", want, report.ImprovementSuggestions)
		}
	}
}

func TestEstimationAccuracyReportTrimsTrends(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var estimates []model.TimeEstimate
	for i := 0; i < 25; i++ {
		estimates = append(estimates, scoredEstimate(base.AddDate(0, 0, i), model.EstimateCompletion, 0.8, 0.2))
	}

	report := estimationAccuracyReport(estimates)
	if len(report.VarianceTrends) != 20 {
		t.Fatalf("trends = %d points, want only the most recent 20", len(report.VarianceTrends))
	}
	if report.VarianceTrends[0].Date != "2026-03-06" {
		t.Errorf("oldest kept point = %s, want 2026-03-06", report.VarianceTrends[0].Date)
	}
}

func TestConfidenceLevel(t *testing.T) {
	cases := []struct {
		sessions int
		want     string
	}{
		{0, util.ConfidenceLow},
		{1, util.ConfidenceMedium},
		{2, util.ConfidenceMedium},
		{3, util.ConfidenceHigh},
		{10, util.ConfidenceHigh},
	}
	for _, c := range cases {
		if got := confidenceLevel(c.sessions); got != c.want {
			t.Errorf("confidenceLevel(%d) = %q, want %q", c.sessions, got, c.want)
		}
	}
}

func TestConfidenceScoreCapped(t *testing.T) {
	if got := confidenceScore(0); got != 0.3 {
		t.Errorf("confidenceScore(0) = %v, want 0.3", got)
	}
	if got := confidenceScore(2); got != 0.7 {
		t.Errorf("confidenceScore(2) = %v, want 0.7", got)
	}
	if got := confidenceScore(100); got != 0.9 {
		t.Errorf("confidenceScore(100) = %v, want capped 0.9", got)
	}
}

func TestEstimatedSessionCount(t *testing.T) {
	cases := []struct {
		minutes int
		want    int
	}{
		{1, 1},
		{45, 1},
		{46, 2},
		{90, 2},
		{200, 5},
	}
	for _, c := range cases {
		if got := estimatedSessionCount(c.minutes); got != c.want {
			t.Errorf("estimatedSessionCount(%d) = %d, want %d", c.minutes, got, c.want)
		}
	}
}

func TestDifficultyMultiplierTable(t *testing.T) {
	want := map[int]float64{1: 0.8, 2: 0.9, 3: 1.0, 4: 1.2, 5: 1.5}
	for level, m := range want {
		if difficultyMultiplier[level] != m {
			t.Errorf("multiplier[%d] = %v, want %v", level, difficultyMultiplier[level], m)
		}
	}
}

func TestFallbackReadingRate(t *testing.T) {
	if fallbackPagesPerMinute != 0.5 {
		t.Errorf("fallbackPagesPerMinute = %v, want 0.5", fallbackPagesPerMinute)
	}
}
