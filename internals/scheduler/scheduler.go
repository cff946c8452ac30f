package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Job struct {
	Name string
	Spec string
	Run  func()
}

// cronLogger: cron.Logger di atas zap
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

func New(log *zap.Logger) *cron.Cron {
	cl := cronLogger{s: log.Named("cron").Sugar()}
	return cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
}

// Register: spec kosong = job dimatikan
func Register(c *cron.Cron, log *zap.Logger, jobs ...Job) error {
	for _, j := range jobs {
		if j.Spec == "" {
			log.Info("cron job disabled", zap.String("job", j.Name))
			continue
		}
		if _, err := c.AddFunc(j.Spec, j.Run); err != nil {
			return fmt.Errorf("cron %s (%q): %w", j.Name, j.Spec, err)
		}
		log.Info("cron job registered", zap.String("job", j.Name), zap.String("spec", j.Spec))
	}
	return nil
}

// Start: New + Register + Start. Caller wajib Stop() saat shutdown.
func Start(log *zap.Logger, jobs ...Job) (*cron.Cron, error) {
	c := New(log)
	if err := Register(c, log, jobs...); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
