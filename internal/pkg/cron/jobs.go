package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/terralogix/hr-backend-go/internal/config"
	"github.com/terralogix/hr-backend-go/internal/domain/attendance"
)

// AttendanceJobs holds the attendance maintenance jobs
type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	cfg               config.CronConfig
	loc               *time.Location
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, cfg config.CronConfig, loc *time.Location) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		cfg:               cfg,
		loc:               loc,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", j.cfg.Interval,
		AtHour(j.cfg.MarkAbsentHour, j.loc, nil, j.MarkAbsentEmployees))
}

func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	slog.Info("Cron: Starting mark absent employees job")
	return j.attendanceService.MarkAbsentEmployees(ctx)
}
