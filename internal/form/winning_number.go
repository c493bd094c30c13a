package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yizeng/gab/gin/lotto/internal/domain"
)

var (
	ErrInputIndexOutOfRange = errors.New("input index out of range")
	ErrInputCountMismatch   = errors.New("input count does not match rules")
)

type CheckState = domain.CheckState

type WinningNumberFormHandler interface {
	SetWinningNumber(w domain.WinningNumber)
	SetIsResultModalShow(show bool)
}

// WinningNumberForm owns the live values of the winning number inputs and the
// check state derived from them.
type WinningNumberForm struct {
	rules   domain.Rules
	inputs  []string
	state   CheckState
	handler WinningNumberFormHandler
}

func NewWinningNumberForm(rules domain.Rules, handler WinningNumberFormHandler) *WinningNumberForm {
	return &WinningNumberForm{
		rules:   rules,
		inputs:  make([]string, rules.InputCount()),
		handler: handler,
	}
}

// LoadWinningNumberForm rebuilds a form from previously captured inputs and
// check state.
func LoadWinningNumberForm(rules domain.Rules, inputs []string, state CheckState, handler WinningNumberFormHandler) (*WinningNumberForm, error) {
	if len(inputs) != rules.InputCount() {
		return nil, fmt.Errorf("%w: got %d inputs, want %d", ErrInputCountMismatch, len(inputs), rules.InputCount())
	}

	f := NewWinningNumberForm(rules, handler)
	copy(f.inputs, inputs)
	f.state = state

	return f, nil
}

func (f *WinningNumberForm) State() CheckState {
	return f.state
}

func (f *WinningNumberForm) SubmitDisabled() bool {
	return !f.state.IsCompletedInput
}

func (f *WinningNumberForm) Inputs() []string {
	inputs := make([]string, len(f.inputs))
	copy(inputs, f.inputs)

	return inputs
}

func (f *WinningNumberForm) Fields() []domain.InputField {
	fields := make([]domain.InputField, len(f.inputs))
	for i, v := range f.inputs {
		fields[i] = domain.InputField{
			Index: i,
			Name:  domain.InputName(f.rules, i),
			Label: domain.InputLabel(f.rules, i),
			Min:   f.rules.MinNumber,
			Max:   f.rules.MaxNumber,
			Value: v,
		}
	}

	return fields
}

// Change commits value into the input at index and re-evaluates every input.
func (f *WinningNumberForm) Change(index int, value string) (CheckState, error) {
	if index < 0 || index >= len(f.inputs) {
		return f.state, fmt.Errorf("%w: %d not in [0, %d)", ErrInputIndexOutOfRange, index, len(f.inputs))
	}

	f.inputs[index] = value
	f.state = ValidateWinningNumbers(f.rules, value, f.inputs)

	return f.state, nil
}

// Submit hands the parsed numbers to the handler and opens the result modal.
// It does nothing unless the input is complete.
func (f *WinningNumberForm) Submit() bool {
	if !f.state.IsCompletedInput {
		return false
	}

	parsed := make([]int, len(f.inputs))
	for i, raw := range f.inputs {
		n, ok := parseNumber(raw)
		if !ok {
			return false
		}
		parsed[i] = n
	}

	f.handler.SetWinningNumber(domain.WinningNumber{
		Numbers:     parsed[:f.rules.NumberLength],
		BonusNumber: parsed[f.rules.NumberLength],
	})
	f.handler.SetIsResultModalShow(true)

	return true
}

func (f *WinningNumberForm) Reset() {
	f.inputs = make([]string, f.rules.InputCount())
	f.state = CheckState{}
}

// ValidateWinningNumbers derives the check state from the value that just
// changed and a snapshot of every input.
func ValidateWinningNumbers(rules domain.Rules, changed string, values []string) CheckState {
	outOfRange := CheckState{CheckMessage: domain.MsgOutOfRangeBetween(rules.MinNumber, rules.MaxNumber)}

	if !isInRange(rules, changed) {
		return outOfRange
	}

	typed := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			typed = append(typed, v)
		}
	}

	for _, v := range typed {
		if !isInRange(rules, v) {
			return outOfRange
		}
	}

	if hasDuplicatedItem(typed) {
		return CheckState{CheckMessage: domain.MsgDuplicatedNumber}
	}

	if len(typed) < rules.InputCount() {
		return CheckState{CheckMessage: domain.MsgBlankInput}
	}

	return CheckState{IsCompletedInput: true, CheckMessage: domain.MsgWinningNumberReady}
}

func isInRange(rules domain.Rules, raw string) bool {
	n, ok := parseNumber(raw)
	return ok && rules.InRange(n)
}

func hasDuplicatedItem(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		key := strings.TrimSpace(v)
		if n, ok := parseNumber(v); ok {
			key = strconv.Itoa(n)
		}
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}

	return false
}

func parseNumber(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}

	return n, true
}
