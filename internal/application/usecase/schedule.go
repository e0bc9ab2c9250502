package usecase

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
)

// civilDate is a calendar date in the scheduler's reference zone.
type civilDate struct {
	year  int
	month time.Month
	day   int
}

// Scheduler fires one reconciliation pass per day. It polls once per
// minute and triggers when the current (hour, minute) in the reference
// zone matches the check time and today's run has not happened yet. The
// day latch is set only after a successful pass, so a failed or crashed
// pass never burns the day.
type Scheduler struct {
	CheckHour   int
	CheckMinute int
	Location    *time.Location

	Run func(ctx context.Context) error

	// Now and Tick are test seams; both default to the wall clock.
	Now  func() time.Time
	Tick <-chan time.Time

	lastRun civilDate
	latched bool
}

// ParseCheckTime parses a "HH:MM" check time.
func ParseCheckTime(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("check time %q: want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("check time %q: bad hour", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("check time %q: bad minute", s)
	}
	return hour, minute, nil
}

// Loop runs until ctx is done. This is the only scheduler goroutine;
// passes run inline, so a long pass simply delays subsequent ticks and
// can never overlap itself.
func (s *Scheduler) Loop(ctx context.Context) {
	tick := s.Tick
	if tick == nil {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			s.poll(ctx)
		}
	}
}

// poll runs the pass when the current minute is the check minute and the
// day latch is clear. Returns whether a pass ran to completion.
func (s *Scheduler) poll(ctx context.Context) bool {
	now := s.now().In(s.Location)
	if now.Hour() != s.CheckHour || now.Minute() != s.CheckMinute {
		return false
	}

	today := civilDate{}
	today.year, today.month, today.day = now.Date()
	if s.latched && s.lastRun == today {
		return false
	}

	if err := s.Run(ctx); err != nil {
		// Leave the latch clear: the pass is retried at the next
		// matching check minute.
		log.Printf("scheduled pass failed: %v", err)
		return false
	}

	s.lastRun = today
	s.latched = true
	return true
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
