// Package worker runs the periodic maintenance tasks: draining pending
// viewer counters into the database, expiring lapsed subscriptions and
// pruning stale one-time codes.
package worker

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/monowartv/iptv-backend/app/repository"
	metrics "github.com/monowartv/iptv-backend/internal/pkg/metrics/counter"
)

const (
	counterFlushInterval = 5 * time.Second
	expirySweepInterval  = 10 * time.Minute
	otpCleanupInterval   = time.Hour
)

// Manager manages the background maintenance tasks
type Manager struct {
	counterFlushTicker *time.Ticker
	expirySweepTicker  *time.Ticker
	otpCleanupTicker   *time.Ticker
	stopCh             chan struct{}
	wg                 sync.WaitGroup
	mu                 sync.Mutex
	running            bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global worker manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		globalManager = &Manager{
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// Start starts the background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so the manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[Worker Manager] Starting background tasks")

	m.counterFlushTicker = time.NewTicker(counterFlushInterval)
	m.wg.Add(1)
	go m.counterFlushWorker()

	m.expirySweepTicker = time.NewTicker(expirySweepInterval)
	m.wg.Add(1)
	go m.expirySweepWorker()

	m.otpCleanupTicker = time.NewTicker(otpCleanupInterval)
	m.wg.Add(1)
	go m.otpCleanupWorker()

	log.Info("[Worker Manager] Started successfully")
}

// Stop stops the background tasks and waits for them to finish
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[Worker Manager] Stopping background tasks...")

	if m.counterFlushTicker != nil {
		m.counterFlushTicker.Stop()
	}
	if m.expirySweepTicker != nil {
		m.expirySweepTicker.Stop()
	}
	if m.otpCleanupTicker != nil {
		m.otpCleanupTicker.Stop()
	}

	close(m.stopCh)
	m.running = false

	m.wg.Wait()

	// Final drain so pending counters survive a shutdown
	if err := metrics.FlushAll(); err != nil {
		log.Errorf("[Worker Manager] Final counter flush failed: %v", err)
	}

	log.Info("[Worker Manager] Stopped successfully")
}

// counterFlushWorker periodically drains Redis viewer counters into the database
func (m *Manager) counterFlushWorker() {
	defer m.wg.Done()

	for {
		select {
		case <-m.counterFlushTicker.C:
			if err := metrics.FlushAll(); err != nil {
				log.Errorf("[Worker Manager] Counter flush failed: %v", err)
			}
		case <-m.stopCh:
			return
		}
	}
}

// expirySweepWorker flips lapsed paid subscriptions to expired
func (m *Manager) expirySweepWorker() {
	defer m.wg.Done()

	for {
		select {
		case <-m.expirySweepTicker.C:
			repo := repository.GetGlobalFactory().GetSubscriptionRepository()
			n, err := repo.ExpireOverdue(time.Now())
			if err != nil {
				log.Errorf("[Worker Manager] Subscription expiry sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Infof("[Worker Manager] Expired %d lapsed subscription(s)", n)
			}
		case <-m.stopCh:
			return
		}
	}
}

// otpCleanupWorker removes expired one-time codes
func (m *Manager) otpCleanupWorker() {
	defer m.wg.Done()

	for {
		select {
		case <-m.otpCleanupTicker.C:
			if err := repository.GetGlobalFactory().GetOtpRepository().DeleteExpired(); err != nil {
				log.Errorf("[Worker Manager] OTP cleanup failed: %v", err)
			}
		case <-m.stopCh:
			return
		}
	}
}
