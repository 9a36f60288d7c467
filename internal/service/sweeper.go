package service

import (
	"context"
	"time"

	"flock/internal/logger"
	"flock/internal/redis"
)

const sweepLockName = "sweep:trips"

// Sweeper periodically completes trips whose departure has passed.
// A Redis lock keeps concurrent instances from sweeping at the same time.
type Sweeper struct {
	trips    *TripService
	locks    redis.LockStoreInterface
	interval time.Duration
	lockTTL  time.Duration
	log      logger.Logger
}

// NewSweeper creates a new Sweeper. locks may be nil for a single instance.
func NewSweeper(trips *TripService, locks redis.LockStoreInterface, interval, lockTTL time.Duration, log logger.Logger) *Sweeper {
	return &Sweeper{
		trips:    trips,
		locks:    locks,
		interval: interval,
		lockTTL:  lockTTL,
		log:      log,
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info("trip sweeper started", logger.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("trip sweeper stopped")
			return
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.log.Error("trip sweep failed", logger.Error(err))
			}
		}
	}
}

// SweepOnce runs a single sweep if the lock can be taken.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	if s.locks != nil {
		ok, err := s.locks.AcquireLock(ctx, sweepLockName, s.lockTTL)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Debug("trip sweep skipped, lock held elsewhere")
			return nil
		}
		defer func() {
			if err := s.locks.ReleaseLock(context.WithoutCancel(ctx), sweepLockName); err != nil {
				s.log.Warn("release sweep lock", logger.Error(err))
			}
		}()
	}

	_, err := s.trips.CompleteExpiredTrips(ctx)
	return err
}
