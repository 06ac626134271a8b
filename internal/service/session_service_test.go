package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"studysprint_backend/internal/config"
	"studysprint_backend/internal/model"
	"studysprint_backend/internal/util"
	"studysprint_backend/pkg/logger"
)

// testServices 一套接在 SQLite 上的会话服务，三个服务共享同一把会话锁，
// 和 app.initServices 的装配方式一致。
type testServices struct {
	db       *gorm.DB
	sessions *SessionService
	pages    *PageTimerService
	cycles   *PomodoroService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(t.TempDir()+"/timer.db"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// 单连接串行化写入，避免 SQLite 并发写报 busy
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.StudySession{}, &model.PageTime{}, &model.PomodoroCycle{},
		&model.ReadingSpeed{}, &model.TimeEstimate{}, &model.UserStatistic{},
		&model.Document{}, &model.Topic{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	doc := model.Document{
		UUIDBase:         model.UUIDBase{ID: "doc-1"},
		UserID:           "user-1",
		TopicID:          "topic-1",
		Title:            "Operating Systems",
		TotalPages:       100,
		DifficultyRating: 3,
	}
	topic := model.Topic{UUIDBase: model.UUIDBase{ID: "topic-1"}, UserID: "user-1", Name: "CS"}
	if err := db.Create(&doc).Error; err != nil {
		t.Fatalf("seed document: %v", err)
	}
	if err := db.Create(&topic).Error; err != nil {
		t.Fatalf("seed topic: %v", err)
	}

	cfg := &config.Config{}
	cfg.Session.StaleAfterMinutes = 120
	cfg.Session.EstimateValidityDays = 7
	cfg.Session.WordsPerPage = 250

	sessionMu := util.NewKeyedMutex()
	return &testServices{
		db:       db,
		sessions: NewSessionService(db, nil, cfg, sessionMu),
		pages:    NewPageTimerService(db, sessionMu),
		cycles:   NewPomodoroService(db, sessionMu),
	}
}

func (ts *testServices) countActive(t *testing.T, userID string) int {
	t.Helper()
	var n int64
	err := ts.db.Model(&model.StudySession{}).
		Where("user_id = ? AND is_active = ?", userID, true).Count(&n).Error
	if err != nil {
		t.Fatalf("count active: %v", err)
	}
	return int(n)
}

func TestStartSupersedesActiveSession(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	first, err := ts.sessions.Start(ctx, "user-1", StartSessionRequest{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := ts.sessions.Start(ctx, "user-1", StartSessionRequest{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("second start returned the superseded session")
	}
	if got := ts.countActive(t, "user-1"); got != 1 {
		t.Errorf("active sessions = %d, want 1", got)
	}

	var old model.StudySession
	if err := ts.db.First(&old, "id = ?", first.ID).Error; err != nil {
		t.Fatalf("reload first session: %v", err)
	}
	if old.IsActive || old.EndTime == nil {
		t.Errorf("superseded session not finalized: active=%v endTime=%v", old.IsActive, old.EndTime)
	}

	// 旧会话已是终态，再结束一次必须被拒绝
	if _, err := ts.sessions.End(ctx, first.ID, "user-1", EndSessionRequest{}); !errors.Is(err, util.ErrSessionNotActive) {
		t.Errorf("End on superseded session: err = %v, want ErrSessionNotActive", err)
	}
}

func TestConcurrentStartsKeepOneActiveSession(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errCh := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ts.sessions.Start(ctx, "user-1", StartSessionRequest{DocumentID: "doc-1"})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("concurrent start: %v", err)
		}
	}

	if got := ts.countActive(t, "user-1"); got != 1 {
		t.Errorf("active sessions after %d concurrent starts = %d, want 1", attempts, got)
	}

	var total int64
	if err := ts.db.Model(&model.StudySession{}).Where("user_id = ?", "user-1").Count(&total).Error; err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if total != attempts {
		t.Errorf("total sessions = %d, want %d", total, attempts)
	}

	// 每个被顶掉的会话恰好结算一次：结算级联跑两次会把统计折算翻倍
	var stats []model.UserStatistic
	if err := ts.db.Find(&stats).Error; err != nil {
		t.Fatalf("load statistics: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("statistic rows = %d, want 1", len(stats))
	}
	if stats[0].TotalSessions != attempts-1 {
		t.Errorf("folded sessions = %d, want %d", stats[0].TotalSessions, attempts-1)
	}
}

func TestSessionLockSharedAcrossServices(t *testing.T) {
	ts := newTestServices(t)

	if ts.sessions.sessionMu != ts.pages.sessionMu || ts.sessions.sessionMu != ts.cycles.sessionMu {
		t.Fatal("services do not share one session mutex")
	}

	ts.sessions.sessionMu.Lock("sess-1")
	acquired := make(chan struct{})
	go func() {
		ts.pages.sessionMu.Lock("sess-1")
		ts.pages.sessionMu.Unlock("sess-1")
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second service acquired the session lock while held")
	case <-time.After(50 * time.Millisecond):
	}

	ts.sessions.sessionMu.Unlock("sess-1")
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("session lock not released")
	}
}

func TestEndRunsSettlementCascade(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	current := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)
	ts.sessions.now = func() time.Time { return current }

	session, err := ts.sessions.Start(ctx, "user-1", StartSessionRequest{DocumentID: "doc-1", TopicID: "topic-1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	current = current.Add(30 * time.Minute)
	pages := 15
	if _, err := ts.sessions.UpdateActivity(ctx, session.ID, "user-1", model.SessionActivityUpdate{PagesVisited: &pages}); err != nil {
		t.Fatalf("update activity: %v", err)
	}

	current = current.Add(10 * time.Minute)
	ended, err := ts.sessions.End(ctx, session.ID, "user-1", EndSessionRequest{})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.IsActive || ended.TotalMinutes != 40 {
		t.Errorf("ended session: active=%v total=%d, want inactive with 40 minutes", ended.IsActive, ended.TotalMinutes)
	}

	var speeds []model.ReadingSpeed
	if err := ts.db.Find(&speeds).Error; err != nil {
		t.Fatalf("load speed samples: %v", err)
	}
	if len(speeds) != 1 {
		t.Fatalf("speed samples = %d, want 1", len(speeds))
	}
	if speeds[0].DocumentID != "doc-1" || speeds[0].TimeOfDay != 14 || speeds[0].DayOfWeek != 0 {
		t.Errorf("speed sample = {doc %s, hour %d, dow %d}, want {doc-1, 14, 0}",
			speeds[0].DocumentID, speeds[0].TimeOfDay, speeds[0].DayOfWeek)
	}

	var doc model.Document
	if err := ts.db.First(&doc, "id = ?", "doc-1").Error; err != nil {
		t.Fatalf("reload document: %v", err)
	}
	if doc.ActualReadTime != ended.ActiveMinutes || doc.ViewCount != 1 || doc.LastViewedAt == nil {
		t.Errorf("document rollup = {read %d, views %d}, want {%d, 1}", doc.ActualReadTime, doc.ViewCount, ended.ActiveMinutes)
	}

	var topic model.Topic
	if err := ts.db.First(&topic, "id = ?", "topic-1").Error; err != nil {
		t.Fatalf("reload topic: %v", err)
	}
	if topic.TotalStudyTime != ended.ActiveMinutes || topic.LastStudiedAt == nil {
		t.Errorf("topic study time = %d, want %d", topic.TotalStudyTime, ended.ActiveMinutes)
	}

	stats, err := NewAnalyticsService(ts.db).GetStatistics("user-1", "daily", 10)
	if err != nil {
		t.Fatalf("get statistics: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("daily statistics = %d rows, want 1", len(stats))
	}
	if stats[0].TotalSessions != 1 || stats[0].PagesRead != pages {
		t.Errorf("daily rollup = {sessions %d, pages %d}, want {1, %d}",
			stats[0].TotalSessions, stats[0].PagesRead, pages)
	}

	if _, err := NewAnalyticsService(ts.db).GetStatistics("user-1", "hourly", 10); !errors.Is(err, util.ErrInvalidStatType) {
		t.Errorf("invalid stat type: err = %v, want ErrInvalidStatType", err)
	}
}

func TestPageTimerRejectsEndedSession(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	session, err := ts.sessions.Start(ctx, "user-1", StartSessionRequest{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := ts.sessions.End(ctx, session.ID, "user-1", EndSessionRequest{}); err != nil {
		t.Fatalf("end: %v", err)
	}

	_, err = ts.pages.Start("user-1", StartPageTimerRequest{SessionID: session.ID, PageNumber: 1})
	if !errors.Is(err, util.ErrSessionNotActive) {
		t.Errorf("page timer on ended session: err = %v, want ErrSessionNotActive", err)
	}
}

func TestCompleteCycleRejectedAfterSessionEnd(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	session, err := ts.sessions.Start(ctx, "user-1", StartSessionRequest{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	cycle, err := ts.cycles.Start("user-1", StartCycleRequest{SessionID: session.ID, PlannedMinutes: 25})
	if err != nil {
		t.Fatalf("start cycle: %v", err)
	}
	if _, err := ts.sessions.End(ctx, session.ID, "user-1", EndSessionRequest{}); err != nil {
		t.Fatalf("end session: %v", err)
	}

	if _, err := ts.cycles.Complete(cycle.ID, "user-1", CompleteCycleRequest{}); !errors.Is(err, util.ErrSessionNotActive) {
		t.Fatalf("late complete: err = %v, want ErrSessionNotActive", err)
	}

	// 被拒绝的补录不能留下任何写入
	var stored model.PomodoroCycle
	if err := ts.db.First(&stored, "id = ?", cycle.ID).Error; err != nil {
		t.Fatalf("reload cycle: %v", err)
	}
	if stored.Completed {
		t.Error("rejected cycle was persisted as completed")
	}
	var ended model.StudySession
	if err := ts.db.First(&ended, "id = ?", session.ID).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if ended.PomodoroCycles != 0 {
		t.Errorf("ended session cycle count = %d, want 0", ended.PomodoroCycles)
	}
}

func TestHistoryWindowUsesInjectedClock(t *testing.T) {
	ts := newTestServices(t)

	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	ts.sessions.now = func() time.Time { return now }

	recent := model.StudySession{UserID: "user-1", DocumentID: "doc-1", StartTime: now.AddDate(0, 0, -1)}
	ancient := model.StudySession{UserID: "user-1", DocumentID: "doc-1", StartTime: now.AddDate(0, 0, -40)}
	if err := ts.db.Create(&recent).Error; err != nil {
		t.Fatalf("seed recent session: %v", err)
	}
	if err := ts.db.Create(&ancient).Error; err != nil {
		t.Fatalf("seed ancient session: %v", err)
	}

	got, err := ts.sessions.History("user-1", 10, 30)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(got) != 1 || got[0].ID != recent.ID {
		t.Fatalf("history returned %d sessions, want only the recent one", len(got))
	}
}
