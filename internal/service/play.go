package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/lotto/internal/domain"
	"github.com/yizeng/gab/gin/lotto/internal/form"
	"github.com/yizeng/gab/gin/lotto/internal/repository"
)

const DefaultMaxTickets = 1000

var (
	ErrPlayNotFound    = repository.ErrPlayNotFound
	ErrNoWinningNumber = errors.New("winning number has not been submitted")
	ErrTooManyTickets  = errors.New("too many tickets requested")
)

type PlayRepository interface {
	Create(ctx context.Context, rules domain.Rules) (domain.Play, error)
	FindByID(ctx context.Context, id string) (domain.Play, error)
	Update(ctx context.Context, id string, fn func(p *domain.Play) error) (domain.Play, error)
	Delete(ctx context.Context, id string) error
	Count() int
}

type PlayService struct {
	repo       PlayRepository
	picker     NumberPicker
	maxTickets int

	mu    sync.RWMutex
	rules domain.Rules
}

func NewPlayService(repo PlayRepository, rules domain.Rules, picker NumberPicker, maxTickets int) *PlayService {
	if maxTickets <= 0 {
		maxTickets = DefaultMaxTickets
	}

	return &PlayService{
		repo:       repo,
		picker:     picker,
		maxTickets: maxTickets,
		rules:      rules,
	}
}

func (s *PlayService) Rules() domain.Rules {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.rules
}

func (s *PlayService) MaxTickets() int {
	return s.maxTickets
}

// SetRules replaces the rules used by plays started from now on.
func (s *PlayService) SetRules(rules domain.Rules) error {
	if err := rules.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.rules = rules
	s.mu.Unlock()

	return nil
}

func (s *PlayService) StartPlay(ctx context.Context) (domain.Play, error) {
	play, err := s.repo.Create(ctx, s.Rules())
	if err != nil {
		return domain.Play{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Debug("play started", zap.String("play_id", play.ID), zap.Int("plays", s.repo.Count()))

	return play, nil
}

func (s *PlayService) GetPlay(ctx context.Context, id string) (domain.Play, error) {
	play, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Play{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return play, nil
}

func (s *PlayService) EndPlay(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// ChangePrice forwards a keystroke on the price input.
func (s *PlayService) ChangePrice(ctx context.Context, id, value string) (domain.Play, error) {
	play, err := s.update(ctx, id, func(p *domain.Play, h *playHandler) error {
		form.NewPriceForm(p.Rules, p.Price, h).Change(value)
		return nil
	})
	if err != nil {
		return domain.Play{}, fmt.Errorf("s.update -> %w", err)
	}

	return play, nil
}

// SubmitPrice returns the evaluated price even when ticket generation fails,
// so callers can still tell the user what was submitted.
func (s *PlayService) SubmitPrice(ctx context.Context, id string) (form.PriceResult, domain.Play, error) {
	var res form.PriceResult
	play, err := s.update(ctx, id, func(p *domain.Play, h *playHandler) error {
		res = form.NewPriceForm(p.Rules, p.Price, h).Submit()
		return nil
	})
	if err != nil {
		return res, domain.Play{}, fmt.Errorf("s.update -> %w", err)
	}

	zap.L().Debug("price submitted",
		zap.String("play_id", id),
		zap.Stringer("check", res.Check),
		zap.Int("ticket_count", res.TicketCount),
	)

	return res, play, nil
}

func (s *PlayService) ChangeWinningNumber(ctx context.Context, id string, index int, value string) (form.CheckState, domain.Play, error) {
	var state form.CheckState
	play, err := s.updateWinningForm(ctx, id, func(_ *playHandler, f *form.WinningNumberForm) error {
		var err error
		state, err = f.Change(index, value)
		return err
	})
	if err != nil {
		return form.CheckState{}, domain.Play{}, fmt.Errorf("s.updateWinningForm -> %w", err)
	}

	return state, play, nil
}

// SubmitWinningNumber reports false and leaves the winning number unset when the
// winning number inputs are not complete.
func (s *PlayService) SubmitWinningNumber(ctx context.Context, id string) (bool, domain.Play, error) {
	var submitted bool
	play, err := s.updateWinningForm(ctx, id, func(_ *playHandler, f *form.WinningNumberForm) error {
		submitted = f.Submit()
		return nil
	})
	if err != nil {
		return false, domain.Play{}, fmt.Errorf("s.updateWinningForm -> %w", err)
	}

	return submitted, play, nil
}

func (s *PlayService) CloseResultModal(ctx context.Context, id string) (domain.Play, error) {
	play, err := s.update(ctx, id, func(p *domain.Play, h *playHandler) error {
		h.SetIsResultModalShow(false)
		return nil
	})
	if err != nil {
		return domain.Play{}, fmt.Errorf("s.update -> %w", err)
	}

	return play, nil
}

// Restart clears everything the player entered but keeps the play and its rules.
func (s *PlayService) Restart(ctx context.Context, id string) (domain.Play, error) {
	play, err := s.updateWinningForm(ctx, id, func(h *playHandler, f *form.WinningNumberForm) error {
		f.Reset()
		h.OnPriceChange("")
		h.clearTickets()
		return nil
	})
	if err != nil {
		return domain.Play{}, fmt.Errorf("s.updateWinningForm -> %w", err)
	}

	return play, nil
}

// Results scores every ticket against the submitted winning number. Both
// come from the same snapshot of the play.
func (s *PlayService) Results(ctx context.Context, id string) (domain.WinningNumber, []domain.TicketResult, error) {
	play, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.WinningNumber{}, nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if play.WinningNumber == nil {
		return domain.WinningNumber{}, nil, ErrNoWinningNumber
	}

	results := make([]domain.TicketResult, len(play.Tickets))
	for i, t := range play.Tickets {
		results[i] = t.Score(*play.WinningNumber)
	}

	return *play.WinningNumber, results, nil
}

func (s *PlayService) update(ctx context.Context, id string, fn func(p *domain.Play, h *playHandler) error) (domain.Play, error) {
	return s.repo.Update(ctx, id, func(p *domain.Play) error {
		h := &playHandler{play: p, picker: s.picker, maxTickets: s.maxTickets}
		if err := fn(p, h); err != nil {
			return err
		}

		return h.err
	})
}

func (s *PlayService) updateWinningForm(ctx context.Context, id string, fn func(h *playHandler, f *form.WinningNumberForm) error) (domain.Play, error) {
	return s.update(ctx, id, func(p *domain.Play, h *playHandler) error {
		f, err := form.LoadWinningNumberForm(p.Rules, p.WinningInputs, p.CheckState, h)
		if err != nil {
			return fmt.Errorf("form.LoadWinningNumberForm -> %w", err)
		}

		if err = fn(h, f); err != nil {
			return err
		}

		p.WinningInputs = f.Inputs()
		p.CheckState = f.State()

		return nil
	})
}

// playHandler receives the form callbacks on behalf of a play.
type playHandler struct {
	play       *domain.Play
	picker     NumberPicker
	maxTickets int
	err        error
}

func (h *playHandler) OnPriceChange(value string) {
	h.play.Price = value
}

func (h *playHandler) CreateLottoList(ticketCount int) {
	if ticketCount > h.maxTickets {
		h.err = fmt.Errorf("%w: %d exceeds %d", ErrTooManyTickets, ticketCount, h.maxTickets)
		return
	}

	tickets := make([]domain.Ticket, 0, ticketCount)
	for i := 0; i < ticketCount; i++ {
		numbers, err := h.picker.Pick(h.play.Rules)
		if err != nil {
			h.err = fmt.Errorf("h.picker.Pick -> %w", err)
			return
		}
		tickets = append(tickets, domain.Ticket{Numbers: numbers})
	}

	h.clearTickets()
	h.play.TicketCount = ticketCount
	h.play.Tickets = tickets
}

// clearTickets drops the tickets and everything scored against them.
func (h *playHandler) clearTickets() {
	h.play.TicketCount = 0
	h.play.Tickets = []domain.Ticket{}
	h.play.WinningNumber = nil
	h.play.IsResultModalShow = false
}

func (h *playHandler) SetWinningNumber(w domain.WinningNumber) {
	h.play.WinningNumber = &w
}

func (h *playHandler) SetIsResultModalShow(show bool) {
	h.play.IsResultModalShow = show
}
