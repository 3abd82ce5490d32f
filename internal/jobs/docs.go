// Package jobs provides scheduled background tasks for the freight
// brokerage.
//
// Jobs are cron-based (github.com/robfig/cron/v3) and managed through
// JobManager, which offers a unified start/stop interface:
//
//	jobManager := jobs.NewJobManager(expireLoadsHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// LoadExpiryJob runs at the top of every minute and expires loads still
// in Created or Posted whose pickup window end has passed. Errors are
// logged, never fatal: the next sweep picks up whatever the failed one
// left behind.
package jobs
