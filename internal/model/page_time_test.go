package model

import (
	"testing"
	"time"
)

func TestPageTimeCloseWithoutActiveTime(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	pt := &PageTime{
		SessionID:      "s-1",
		PageNumber:     1,
		StartTime:      start,
		EstimatedWords: 300,
	}

	// 有词数估计但没有活跃时间：不计算 wpm，避免除零
	pt.Close(start.Add(90 * time.Second))

	if pt.ReadingSpeedWPM != nil {
		t.Errorf("ReadingSpeedWPM = %v, want nil without active seconds", *pt.ReadingSpeedWPM)
	}
	if pt.DurationSeconds != 90 {
		t.Errorf("DurationSeconds = %d, want 90", pt.DurationSeconds)
	}
	if pt.IsOpen() {
		t.Error("page time still open after close")
	}
}

func TestPageTimeCloseComputesWPM(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	pt := &PageTime{
		SessionID:      "s-1",
		PageNumber:     2,
		StartTime:      start,
		EstimatedWords: 300,
		ActiveSeconds:  120,
	}

	pt.Close(start.Add(3 * time.Minute))

	if pt.ReadingSpeedWPM == nil {
		t.Fatal("ReadingSpeedWPM not computed")
	}
	// 300 词 / 2 分钟 = 150 wpm
	if *pt.ReadingSpeedWPM != 150 {
		t.Errorf("wpm = %v, want 150", *pt.ReadingSpeedWPM)
	}
	// 3 分钟停留 → 难度 3
	if pt.DifficultyRating != 3 {
		t.Errorf("DifficultyRating = %d, want 3", pt.DifficultyRating)
	}
}

func TestPageTimeCloseIdempotent(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	pt := &PageTime{SessionID: "s-1", PageNumber: 1, StartTime: start}

	pt.Close(start.Add(time.Minute))
	first := *pt.EndTime

	// 已关闭的记录不可变
	pt.Close(start.Add(10 * time.Minute))
	if !pt.EndTime.Equal(first) {
		t.Errorf("EndTime changed on repeated close: %v -> %v", first, pt.EndTime)
	}
	if pt.DurationSeconds != 60 {
		t.Errorf("DurationSeconds = %d, want 60", pt.DurationSeconds)
	}
}

func TestPageTimeApplyActivity(t *testing.T) {
	pt := &PageTime{ClickCount: 10, ScrollCount: 5}

	pt.ApplyActivity(PageTimeUpdate{
		ClickCount:  intPtr(30),
		ZoomChanges: intPtr(2),
	})
	if pt.ClickCount != 30 || pt.ZoomChanges != 2 {
		t.Errorf("counters = (%d, %d), want (30, 2)", pt.ClickCount, pt.ZoomChanges)
	}
	if pt.ActivityCount != 37 {
		t.Errorf("ActivityCount = %d, want clicks+scrolls+zoom = 37", pt.ActivityCount)
	}

	// 旧值不回退
	pt.ApplyActivity(PageTimeUpdate{ClickCount: intPtr(20)})
	if pt.ClickCount != 30 {
		t.Errorf("ClickCount = %d, want 30 after stale update", pt.ClickCount)
	}
}

func TestPageTimeEngagementOnClose(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	pt := &PageTime{SessionID: "s-1", PageNumber: 1, StartTime: start}
	// 2 分钟内 6 次交互 → 3 次/分钟，理想区间
	pt.ApplyActivity(PageTimeUpdate{ClickCount: intPtr(4), ScrollCount: intPtr(2)})

	pt.Close(start.Add(2 * time.Minute))

	if pt.EngagementScore != 1.0 {
		t.Errorf("EngagementScore = %v, want 1.0", pt.EngagementScore)
	}
	if pt.ComprehensionEstimate != 0.7 {
		t.Errorf("ComprehensionEstimate = %v, want 0.7 with no notes", pt.ComprehensionEstimate)
	}
}
