package workflow

import (
	"context"
	"strings"
	"sync"

	"turnos/common/errs"
)

// Guard serializes submissions of the same operation for the same subject.
// Acquire fails with errs.ErrBusy while another holder has not released.
type Guard interface {
	Acquire(ctx context.Context, op, subject string) (release func(), err error)
}

// LocalGuard is a Guard for a single process.
type LocalGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{held: make(map[string]struct{})}
}

func (g *LocalGuard) Acquire(_ context.Context, op, subject string) (func(), error) {
	key := op + ":" + strings.ToUpper(strings.TrimSpace(subject))

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[key]; ok {
		return nil, errs.ErrBusy
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}
