package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// Sweep names, used as job components and metric labels.
const (
	HideClosedOrders       = "hide_closed_orders"
	ExpireUnpaidOrders     = "expire_unpaid_orders"
	CancelUnassignedOrders = "cancel_unassigned_orders"
	ApplyIncidentDeducts   = "apply_incident_deductions"
	SendBalanceReminders   = "send_balance_reminders"
	ActivateSettingChanges = "activate_setting_changes"
)

// Schedules holds one cron expression per sweep. An empty expression
// leaves that sweep unscheduled.
type Schedules struct {
	HideClosedOrders       string
	ExpireUnpaidOrders     string
	CancelUnassignedOrders string
	ApplyIncidentDeducts   string
	SendBalanceReminders   string
	ActivateSettingChanges string
}

// Sweeps holds the handler of every sweep.
type Sweeps struct {
	HideClosedOrders       SweepHandler
	ExpireUnpaidOrders     SweepHandler
	CancelUnassignedOrders SweepHandler
	ApplyIncidentDeducts   SweepHandler
	SendBalanceReminders   SweepHandler
	ActivateSettingChanges SweepHandler
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs []*SweepJob
}

// NewJobManager creates one job per scheduled sweep. timeout bounds a
// single pass.
func NewJobManager(sweeps Sweeps, schedules Schedules, timeout time.Duration, logger *slog.Logger) *JobManager {
	entries := []struct {
		name     string
		schedule string
		handler  SweepHandler
	}{
		{HideClosedOrders, schedules.HideClosedOrders, sweeps.HideClosedOrders},
		{ExpireUnpaidOrders, schedules.ExpireUnpaidOrders, sweeps.ExpireUnpaidOrders},
		{CancelUnassignedOrders, schedules.CancelUnassignedOrders, sweeps.CancelUnassignedOrders},
		{ApplyIncidentDeducts, schedules.ApplyIncidentDeducts, sweeps.ApplyIncidentDeducts},
		{SendBalanceReminders, schedules.SendBalanceReminders, sweeps.SendBalanceReminders},
		{ActivateSettingChanges, schedules.ActivateSettingChanges, sweeps.ActivateSettingChanges},
	}

	jm := &JobManager{}
	for _, e := range entries {
		if e.schedule == "" || e.handler == nil {
			logger.Warn("sweep not scheduled", "sweep", e.name)
			continue
		}
		jm.jobs = append(jm.jobs, NewSweepJob(e.name, e.schedule, e.handler, timeout, logger))
	}
	return jm
}

// Jobs returns the scheduled jobs in start order.
func (jm *JobManager) Jobs() []*SweepJob {
	return jm.jobs
}

// StartAll starts all scheduled jobs. If one fails to start, the jobs
// already started are stopped again.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", job.Name(), err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs and waits for running passes.
func (jm *JobManager) StopAll() {
	for _, job := range jm.jobs {
		job.Stop()
	}
}
