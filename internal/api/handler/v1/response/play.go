package response

import (
	"github.com/yizeng/gab/gin/lotto/internal/domain"
)

type StartPlayResponse struct {
	Token string      `json:"token"`
	Play  domain.Play `json:"play"`
}

type PriceFormResponse struct {
	Price string `json:"price"`
	Min   int    `json:"min"`
	Step  int    `json:"step"`
}

// Alert is a notice the client should show in an interrupting dialog.
type Alert struct {
	Blocking bool   `json:"blocking"`
	Message  string `json:"message"`
}

type PriceSubmitResponse struct {
	Result      string          `json:"result"`
	Alert       *Alert          `json:"alert,omitempty"`
	TicketCount int             `json:"ticket_count"`
	Tickets     []domain.Ticket `json:"tickets"`
}

type WinningNumberFormResponse struct {
	Fields         []domain.InputField `json:"fields"`
	State          domain.CheckState   `json:"state"`
	SubmitDisabled bool                `json:"submit_disabled"`
}

type CheckStateResponse struct {
	Index          int               `json:"index"`
	State          domain.CheckState `json:"state"`
	SubmitDisabled bool              `json:"submit_disabled"`
}

type WinningNumberSubmitResponse struct {
	Submitted         bool                  `json:"submitted"`
	WinningNumber     *domain.WinningNumber `json:"winning_number,omitempty"`
	IsResultModalShow bool                  `json:"is_result_modal_show"`
}

type ResultsResponse struct {
	WinningNumber domain.WinningNumber  `json:"winning_number"`
	Results       []domain.TicketResult `json:"results"`
}

// LiveFrame is sent back over the websocket for every keystroke frame.
type LiveFrame struct {
	Type  string              `json:"type"`
	State *CheckStateResponse `json:"state,omitempty"`
	Error string              `json:"error,omitempty"`
}
