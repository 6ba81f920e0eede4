package main

import (
	"context"
	"time"

	"github.com/diewo77/go-society/internal/logging"
	"github.com/diewo77/go-society/internal/services"
	cron "github.com/robfig/cron/v3"
)

// startOverdueSweep schedules MarkOverdue. An empty schedule disables it and
// returns nil.
func startOverdueSweep(schedule string, payments *services.PaymentService) (*cron.Cron, error) {
	if schedule == "" {
		logging.Logger.Info("Overdue payment sweep disabled")
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, e := payments.MarkOverdue(context.Background(), time.Now()); e != nil {
			logging.Logger.WithError(e).Error("Scheduled overdue sweep failed")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
