package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/robfig/cron/v3"
)

// ExpiredSessionSweeper deletes sessions past their expiry.
type ExpiredSessionSweeper interface {
	SweepExpiredSessions(ctx context.Context) (int64, error)
}

// SessionSweeper runs ExpiredSessionSweeper on a cron schedule.
type SessionSweeper struct {
	cron    *cron.Cron
	target  ExpiredSessionSweeper
	logger  logging.Logger
	timeout time.Duration
}

// NewSessionSweeper parses schedule (standard five-field cron or a
// descriptor such as "@every 10m") and registers the sweep job. The job is
// not run until Start.
func NewSessionSweeper(target ExpiredSessionSweeper, schedule string, logger logging.Logger) (*SessionSweeper, error) {
	s := &SessionSweeper{
		target:  target,
		logger:  logger.With("module", "sweeper"),
		timeout: 30 * time.Second,
	}

	cl := cronLogger{l: s.logger}
	s.cron = cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	if _, err := s.cron.AddFunc(schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return nil, fmt.Errorf("session sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Sweep runs one pass immediately.
func (s *SessionSweeper) Sweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.target.SweepExpiredSessions(ctx)
	if err != nil {
		s.logger.Error(ctx, "session sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info(ctx, "expired sessions removed", "count", n)
	}
}

func (s *SessionSweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish or ctx
// to expire.
func (s *SessionSweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	l logging.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(context.Background(), msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(context.Background(), msg, append(keysAndValues, "error", err)...)
}
