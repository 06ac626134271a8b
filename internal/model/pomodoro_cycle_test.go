package model

import (
	"testing"
	"time"
)

func TestCompleteWorkCycle(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cycle := &PomodoroCycle{
		SessionID:      "s-1",
		CycleNumber:    1,
		CycleType:      CycleWork,
		PlannedMinutes: 25,
		StartedAt:      start,
	}

	rating := 5
	cycle.Complete(start.Add(25*time.Minute), &rating, 0)

	if !cycle.Completed {
		t.Error("cycle not marked completed")
	}
	if cycle.ActualMinutes != 25 {
		t.Errorf("ActualMinutes = %d, want 25", cycle.ActualMinutes)
	}
	if cycle.FocusScore != 1.0 {
		t.Errorf("FocusScore = %v, want 1.0", cycle.FocusScore)
	}
	if cycle.ProductivityScore != 1.0 {
		t.Errorf("ProductivityScore = %v, want 1.0", cycle.ProductivityScore)
	}
	// 25 + 15 + 10
	if cycle.XPEarned != 50 {
		t.Errorf("XPEarned = %d, want 50", cycle.XPEarned)
	}
	if cycle.EffectivenessRating == nil || *cycle.EffectivenessRating != 5 {
		t.Error("effectiveness rating not recorded")
	}
}

func TestCompleteBreakCycleAlwaysFocused(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cycle := &PomodoroCycle{
		SessionID:      "s-1",
		CycleNumber:    2,
		CycleType:      CycleShortBreak,
		PlannedMinutes: 5,
		StartedAt:      start,
	}

	// 休息周期中断再多专注度也是 1.0
	cycle.Complete(start.Add(2*time.Minute), nil, 7)

	if cycle.FocusScore != 1.0 {
		t.Errorf("break FocusScore = %v, want 1.0", cycle.FocusScore)
	}
	if !cycle.Interrupted {
		t.Error("Interrupted flag not set")
	}
	if cycle.XPEarned != 5 {
		t.Errorf("break XPEarned = %d, want 5", cycle.XPEarned)
	}
}

func TestIsWork(t *testing.T) {
	if !(&PomodoroCycle{CycleType: CycleWork}).IsWork() {
		t.Error("work cycle not recognized")
	}
	if (&PomodoroCycle{CycleType: CycleLongBreak}).IsWork() {
		t.Error("long break misclassified as work")
	}
}
