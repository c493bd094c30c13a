package domain

import "time"

// Play is the application state that owns both input forms: the price typed
// so far, the purchased tickets and the submitted winning number.
type Play struct {
	ID                string         `json:"id"`
	Rules             Rules          `json:"rules"`
	Price             string         `json:"price"`
	TicketCount       int            `json:"ticket_count"`
	Tickets           []Ticket       `json:"tickets"`
	WinningInputs     []string       `json:"winning_inputs"`
	CheckState        CheckState     `json:"check_state"`
	WinningNumber     *WinningNumber `json:"winning_number,omitempty"`
	IsResultModalShow bool           `json:"is_result_modal_show"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func NewPlay(id string, rules Rules, now time.Time) Play {
	return Play{
		ID:            id,
		Rules:         rules,
		Tickets:       []Ticket{},
		WinningInputs: make([]string, rules.InputCount()),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (p Play) Clone() Play {
	c := p
	c.Tickets = make([]Ticket, len(p.Tickets))
	for i, t := range p.Tickets {
		c.Tickets[i] = Ticket{Numbers: append([]int(nil), t.Numbers...)}
	}
	c.WinningInputs = append([]string(nil), p.WinningInputs...)
	if p.WinningNumber != nil {
		w := WinningNumber{
			Numbers:     append([]int(nil), p.WinningNumber.Numbers...),
			BonusNumber: p.WinningNumber.BonusNumber,
		}
		c.WinningNumber = &w
	}

	return c
}
