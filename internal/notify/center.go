package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/verte-zerg/sleepdial/internal/dial"
	"github.com/verte-zerg/sleepdial/internal/logger"
	"github.com/verte-zerg/sleepdial/internal/store"
)

const reminderTitle = "Good Night"

// ReminderBody returns the reminder text for a bedtime.
func ReminderBody(bedtime time.Time) string {
	return fmt.Sprintf("Time to sleep at %s", dial.FormatClock(bedtime))
}

// ReminderStore persists installed reminders.
type ReminderStore interface {
	ReplaceReminders(ctx context.Context, reminders []store.Reminder) error
	ListReminders(ctx context.Context) ([]store.Reminder, error)
	ClearReminders(ctx context.Context) error
}

// Center owns the installed reminder set: it clears old triggers, asks for
// permission and arms the new ones on the engine.
type Center struct {
	store  ReminderStore
	engine *Engine
	auth   Authorizer
	log    *logger.Logger
	now    func() time.Time

	mu         sync.Mutex
	generation uint64
	last       Permission
	wg         sync.WaitGroup
}

// NewCenter wires a Center. A nil logger discards output.
func NewCenter(st ReminderStore, engine *Engine, auth Authorizer, log *logger.Logger) *Center {
	if log == nil {
		log = logger.Nop()
	}
	return &Center{
		store:  st,
		engine: engine,
		auth:   auth,
		log:    log.With(logger.String("component", "notify")),
		now:    time.Now,
		last:   PermissionDenied,
	}
}

// Install replaces every registered trigger. Previous triggers are removed
// before it returns; the new set is armed in the background once
// authorization is granted. The returned channel delivers the authorization
// result after the install settles and is then closed. It is nil when there
// is nothing to arm.
func (c *Center) Install(ctx context.Context, triggers []dial.Trigger, bedtime time.Time) (<-chan Permission, error) {
	gen, err := c.clear(ctx)
	if err != nil {
		return nil, err
	}
	if len(triggers) == 0 {
		return nil, nil
	}
	pending := append([]dial.Trigger(nil), triggers...)
	done := make(chan Permission, 1)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(done)
		done <- c.authorizeAndArm(ctx, gen, pending, bedtime)
	}()
	return done, nil
}

// RemoveAll disarms and deletes every trigger.
func (c *Center) RemoveAll(ctx context.Context) error {
	_, err := c.clear(ctx)
	return err
}

// Wait blocks until every background install finishes. Call it once, at
// shutdown, after the last Install.
func (c *Center) Wait() {
	c.wg.Wait()
}

// LastPermission returns the most recent authorization result.
func (c *Center) LastPermission() Permission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Center) clear(ctx context.Context) (uint64, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	c.engine.Clear()
	if err := c.store.ClearReminders(ctx); err != nil {
		return gen, fmt.Errorf("failed to clear reminders: %w", err)
	}
	return gen, nil
}

func (c *Center) authorizeAndArm(ctx context.Context, gen uint64, triggers []dial.Trigger, bedtime time.Time) Permission {
	perm, err := c.auth.RequestAuthorization(ctx)
	if err != nil {
		perm = PermissionError
	}

	c.mu.Lock()
	c.last = perm
	current := gen == c.generation
	c.mu.Unlock()

	switch perm {
	case PermissionDenied:
		c.log.Info("reminder permission denied", logger.Int("triggers", len(triggers)))
		return perm
	case PermissionError:
		c.log.Error("reminder authorization failed", logger.Error(err))
		return perm
	}
	if !current {
		c.log.Debug("discarding superseded reminder install")
		return perm
	}

	now := c.now()
	body := ReminderBody(bedtime)
	stored := make([]store.Reminder, 0, len(triggers))
	armed := make([]Reminder, 0, len(triggers))
	for _, t := range triggers {
		stored = append(stored, store.Reminder{Trigger: t, Title: reminderTitle, Body: body, InstalledAt: now})
		armed = append(armed, Reminder{Trigger: t, Title: reminderTitle, Body: body, FireAt: NextFire(t, now)})
	}

	// The generation check and arming run under the lock so a concurrent
	// clear cannot interleave.
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return perm
	}
	if err := c.store.ReplaceReminders(ctx, stored); err != nil {
		c.log.Error("failed to store reminders", logger.Error(err))
		return PermissionError
	}
	for _, r := range armed {
		if err := c.engine.Schedule(r); err != nil {
			c.log.Error("failed to arm reminder", logger.String("trigger", r.Trigger.String()), logger.Error(err))
			return PermissionError
		}
	}
	next := armed[0].FireAt
	for _, r := range armed[1:] {
		if r.FireAt.Before(next) {
			next = r.FireAt
		}
	}
	c.log.Info("reminders installed",
		logger.Int("count", len(armed)),
		logger.String("at", triggers[0].At.String()),
		logger.Time("next", next),
	)
	return perm
}
