// Package jobs runs the reconciliation sweeps on cron schedules.
//
// Jobs use github.com/robfig/cron/v3 with second precision, evaluated in
// UTC. Each sweep gets its own scheduler so a slow pass of one sweep never
// delays another.
//
// # Available Jobs
//
//  1. hide_closed_orders - hides orders closed for longer than the retention period
//  2. expire_unpaid_orders - cancels orders whose deposit never arrived
//  3. cancel_unassigned_orders - cancels and refunds orders nobody was matched to
//  4. apply_incident_deductions - charges unanswered incidents to settlements
//  5. send_balance_reminders - reminds requesters of balances falling due
//  6. activate_setting_changes - puts scheduled setting changes in force
//
// # Usage
//
//	jobManager := jobs.NewJobManager(sweeps, schedules, time.Minute, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - A failed pass is logged and counted in the sweep metrics; the next tick retries.
//   - A tick that fires while the previous pass is still running is skipped.
//   - Failed job starts stop any already running jobs.
package jobs
