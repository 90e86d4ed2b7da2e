package server

import (
	"github.com/existflow/daygrid/internal/logger"
	"github.com/robfig/cron/v3"
)

// startCleanup purges expired sessions on a schedule so the table doesn't
// grow without bound.
func (s *Server) startCleanup() {
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		res, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at < NOW()`)
		if err != nil {
			logger.Error("Session cleanup failed", logger.F("error", err))
			return
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			logger.Info("Purged expired sessions", logger.F("count", n))
		}
	})
	if err != nil {
		logger.Error("Failed to schedule session cleanup", logger.F("error", err))
		return
	}
	c.Start()
	s.cron = c
}
