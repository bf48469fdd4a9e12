package application

import (
	"sync"
	"time"
)

// ReminderScheduler owns the one-shot "check this payment again" timers.
// Each handle is keyed by participation id so the reminder can be cancelled
// when the row leaves payment_confirmation — the original flow had no handle
// at all and could deliver a reminder after the payment was already
// confirmed.
type ReminderScheduler struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[uint]*time.Timer
}

func NewReminderScheduler(delay time.Duration) *ReminderScheduler {
	return &ReminderScheduler{
		delay:  delay,
		timers: make(map[uint]*time.Timer),
	}
}

// Schedule arms the reminder for a participation, replacing any earlier one.
func (s *ReminderScheduler) Schedule(participationID uint, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[participationID]; ok {
		t.Stop()
	}
	s.timers[participationID] = time.AfterFunc(s.delay, func() {
		s.forget(participationID)
		fire()
	})
}

// Cancel disarms the reminder if one is pending.
func (s *ReminderScheduler) Cancel(participationID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[participationID]; ok {
		t.Stop()
		delete(s.timers, participationID)
	}
}

// Stop disarms everything; used on shutdown.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *ReminderScheduler) forget(participationID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, participationID)
}
