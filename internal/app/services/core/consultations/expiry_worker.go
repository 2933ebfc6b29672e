package consultations

import (
	"context"
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultExpiryCronSpec = "@every 15m"

// ExpiryWorker periodically expires consultations stuck in DOCTOR_ASSIGNED.
// Only the instance holding the leader lock runs a sweep.
type ExpiryWorker struct {
	log     *zap.Logger
	spec    string
	lockTTL time.Duration
	locker  contracts.LockerService
	usecase contracts.ConsultationUsecase
	cron    *cron.Cron
	runCtx  context.Context
	cancel  context.CancelFunc
	now     func() time.Time
}

func NewExpiryWorker(log *zap.Logger, spec string, lockerSvc contracts.LockerService, usecase contracts.ConsultationUsecase) *ExpiryWorker {
	return &ExpiryWorker{
		log:     log,
		spec:    spec,
		lockTTL: 2 * time.Minute,
		locker:  lockerSvc,
		usecase: usecase,
		now:     time.Now,
	}
}

// Start schedules the sweep. An invalid cron spec falls back to every 15 minutes.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	if _, err := c.AddFunc(w.spec, func() { w.runOnce(w.runCtx) }); err != nil {
		w.log.Warn("consultations.ExpiryWorker: invalid cron spec, falling back",
			zap.String("spec", w.spec),
			zap.String("fallback", defaultExpiryCronSpec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc(defaultExpiryCronSpec, func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop cancels an in-flight sweep and waits for it to return.
func (w *ExpiryWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

func (w *ExpiryWorker) runOnce(ctx context.Context) int {
	acquired, token, err := w.locker.TryLock(ctx, constvars.RedisKeyConsultationExpiryLock, w.lockTTL)
	if err != nil {
		w.log.Warn("consultations.ExpiryWorker: leader lock attempt failed", zap.Error(err))
		return 0
	}
	if !acquired {
		w.log.Info("consultations.ExpiryWorker: leader lock held by another instance")
		return 0
	}
	defer w.locker.Unlock(context.WithoutCancel(ctx), constvars.RedisKeyConsultationExpiryLock, token)

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(w.lockTTL / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Refresh(refreshCtx, constvars.RedisKeyConsultationExpiryLock, token, w.lockTTL); err != nil {
					w.log.Warn("consultations.ExpiryWorker: failed to refresh leader lock", zap.Error(err))
				}
			}
		}
	}()

	var expired int
	err = utils.LogOperation(w.log, "consultation_expiry_sweep", "", func() error {
		var sweepErr error
		expired, sweepErr = w.usecase.ExpireStaleConsultations(ctx, w.now())
		return sweepErr
	})
	w.log.Info("consultations.ExpiryWorker: sweep finished",
		zap.Int("expired", expired),
		zap.Bool(constvars.LoggingSuccessKey, err == nil),
	)
	return expired
}
