package useCases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/larriantoniy/pethome_bot/internal/domain"
	"github.com/larriantoniy/pethome_bot/internal/ports"
	"github.com/larriantoniy/pethome_bot/internal/session"
)

// Runner pulls events from the transport and feeds them to the Machine.
// Events are routed to a fixed worker by user id, so one user's events are
// handled in arrival order and never concurrently; different users run in
// parallel.
type Runner struct {
	tg      ports.TelegramClient
	store   *session.Store
	machine *Machine
	sender  *Sender
	log     *slog.Logger
	workers int
}

func NewRunner(
	tg ports.TelegramClient,
	store *session.Store,
	machine *Machine,
	log *slog.Logger,
	workers int,
) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		tg:      tg,
		store:   store,
		machine: machine,
		sender:  NewSender(log, tg),
		log:     log,
		workers: workers,
	}
}

// Run blocks until the event stream closes or ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	events, err := r.tg.Listen(ctx)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	queues := make([]chan domain.Event, r.workers)
	for i := range queues {
		queues[i] = make(chan domain.Event, 16)
		q := queues[i]
		g.Go(func() error {
			for ev := range q {
				r.Process(gctx, ev)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, q := range queues {
				close(q)
			}
		}()
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					r.log.Info("event stream closed")
					return nil
				}
				select {
				case queues[r.shard(ev.UserID)] <- ev:
				case <-gctx.Done():
					return nil
				}
			}
		}
	})

	return g.Wait()
}

func (r *Runner) shard(userID int64) int {
	n := int(userID % int64(r.workers))
	if n < 0 {
		n = -n
	}
	return n
}

// Process handles one event end to end.
func (r *Runner) Process(ctx context.Context, ev domain.Event) {
	log := r.log.With(
		"event_id", uuid.NewString(),
		"user_id", ev.UserID,
		"kind", ev.Kind.String(),
	)
	r.sender.Acknowledge(ctx, log, ev)

	if ev.Kind == domain.EventStart {
		r.store.Reset(ev.UserID)
	}

	var out Outcome
	next, err := r.store.Update(ctx, ev.UserID, func(s domain.Session) (next domain.Session) {
		defer func() {
			if p := recover(); p != nil {
				log.Error("panic while handling event", "state", s.State, "panic", p)
				next, out = s, Outcome{}
			}
		}()
		next, out = r.machine.Handle(ctx, s, ev)
		return next
	})
	if err != nil {
		log.Warn("event dropped", "error", err)
		return
	}
	log.Debug("event handled", "state", next.State)

	r.sender.Deliver(ctx, log, ev, out)
}
