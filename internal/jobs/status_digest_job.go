package jobs

import (
	"context"
	"time"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/status"
	"go.uber.org/zap"
)

// StatusDigestJobName is the scheduler name of the daily status digest
const StatusDigestJobName = "status_digest"

// StatusBoarder builds the project status board
type StatusBoarder interface {
	StatusBoard(ctx context.Context, opts service.DashboardOptions) (*domain.DashboardDTO, error)
}

// StatusDigestJob evaluates every project and logs the ones that need
// attention: late projects and projects whose data could not be evaluated.
type StatusDigestJob struct {
	board   StatusBoarder
	logger  *zap.Logger
	timeout time.Duration
}

func NewStatusDigestJob(board StatusBoarder, logger *zap.Logger, timeout time.Duration) *StatusDigestJob {
	return &StatusDigestJob{
		board:   board,
		logger:  logger.Named("status_digest"),
		timeout: timeout,
	}
}

// Run builds the board as the system user and logs one line per project
// needing attention followed by a summary.
func (j *StatusDigestJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	board, err := j.board.StatusBoard(ctx, service.DashboardOptions{})
	if err != nil {
		j.logger.Error("status digest failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	late := 0
	for _, row := range board.Rows {
		switch {
		case row.Warning != "":
			// already logged by the dashboard service
		case row.Status == status.Late:
			late++
			fields := []zap.Field{
				zap.String("code", row.Code),
				zap.String("acronym", row.Acronym),
				zap.String("next_event", row.NextEventLabel),
				zap.String("next_event_date", row.NextEventDate),
			}
			if row.DayOffset != nil {
				fields = append(fields, zap.Int("days_late", -*row.DayOffset))
			}
			j.logger.Warn("project late", fields...)
		}
	}

	j.logger.Info("status digest completed",
		zap.String("today", board.Today),
		zap.Int("projects", len(board.Rows)),
		zap.Int("late", late),
		zap.Int("degraded", board.Warnings),
		zap.Any("counts", board.Counts),
		zap.Duration("duration", time.Since(start)))
}

// RegisterStatusDigestJob adds the digest to the scheduler
func RegisterStatusDigestJob(scheduler *Scheduler, board StatusBoarder, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewStatusDigestJob(board, logger, timeout)
	return scheduler.AddJob(StatusDigestJobName, cronExpr, job.Run)
}
