package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yizeng/gab/gin/lotto/internal/domain"
)

var (
	ErrPlayNotFound = errors.New("play not found")
)

// PlayRepository keeps plays in memory. Nothing survives a restart.
type PlayRepository struct {
	mu    sync.Mutex
	plays map[string]*playEntry
	now   func() time.Time
}

// Each play has its own lock so that one event is fully handled before the
// next one on the same play starts.
type playEntry struct {
	mu   sync.Mutex
	play domain.Play
}

func NewPlayRepository() *PlayRepository {
	return &PlayRepository{
		plays: make(map[string]*playEntry),
		now:   time.Now,
	}
}

func (r *PlayRepository) Create(ctx context.Context, rules domain.Rules) (domain.Play, error) {
	if err := ctx.Err(); err != nil {
		return domain.Play{}, err
	}

	play := domain.NewPlay(uuid.NewString(), rules, r.now())

	r.mu.Lock()
	r.plays[play.ID] = &playEntry{play: play}
	r.mu.Unlock()

	return play.Clone(), nil
}

func (r *PlayRepository) FindByID(ctx context.Context, id string) (domain.Play, error) {
	if err := ctx.Err(); err != nil {
		return domain.Play{}, err
	}

	entry, err := r.entry(id)
	if err != nil {
		return domain.Play{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return entry.play.Clone(), nil
}

// Update runs fn against the stored play while holding its lock. Changes are
// kept only when fn returns nil.
func (r *PlayRepository) Update(ctx context.Context, id string, fn func(p *domain.Play) error) (domain.Play, error) {
	if err := ctx.Err(); err != nil {
		return domain.Play{}, err
	}

	entry, err := r.entry(id)
	if err != nil {
		return domain.Play{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.play.Clone()
	if err = fn(&working); err != nil {
		return domain.Play{}, err
	}
	working.UpdatedAt = r.now()
	entry.play = working

	return working.Clone(), nil
}

func (r *PlayRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plays[id]; !ok {
		return ErrPlayNotFound
	}
	delete(r.plays, id)

	return nil
}

func (r *PlayRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.plays)
}

func (r *PlayRepository) entry(id string) (*playEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.plays[id]
	if !ok {
		return nil, ErrPlayNotFound
	}

	return entry, nil
}
