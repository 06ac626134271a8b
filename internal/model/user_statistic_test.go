package model

import (
	"math"
	"testing"
)

func TestFoldIncrementalAverages(t *testing.T) {
	stat := &UserStatistic{UserID: "user-1", StatType: "daily"}

	stat.Fold(&StudySession{ActiveMinutes: 30, PagesVisited: 10, FocusScore: 0.8, ProductivityScore: 0.6, XPEarned: 100})
	stat.Fold(&StudySession{ActiveMinutes: 20, PagesVisited: 5, FocusScore: 0.4, ProductivityScore: 0.2, XPEarned: 50, PomodoroCycles: 2})

	if stat.TotalSessions != 2 {
		t.Errorf("TotalSessions = %d, want 2", stat.TotalSessions)
	}
	if stat.TotalActiveMinutes != 50 {
		t.Errorf("TotalActiveMinutes = %d, want 50", stat.TotalActiveMinutes)
	}
	if stat.PagesRead != 15 {
		t.Errorf("PagesRead = %d, want 15", stat.PagesRead)
	}
	if stat.PomodoroCycles != 2 {
		t.Errorf("PomodoroCycles = %d, want 2", stat.PomodoroCycles)
	}
	if stat.XPEarned != 150 {
		t.Errorf("XPEarned = %d, want 150", stat.XPEarned)
	}
	if math.Abs(stat.AverageFocusScore-0.6) > 1e-9 {
		t.Errorf("AverageFocusScore = %v, want 0.6", stat.AverageFocusScore)
	}
	if math.Abs(stat.AverageProductivityScore-0.4) > 1e-9 {
		t.Errorf("AverageProductivityScore = %v, want 0.4", stat.AverageProductivityScore)
	}
}
