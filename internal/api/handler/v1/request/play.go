package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

const maxInputLength = 32

// InputChangeRequest carries the raw value of an input after a keystroke.
// An empty value is allowed: it means the input was cleared.
type InputChangeRequest struct {
	Value *string `json:"value"`
}

func (req *InputChangeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Value, validation.NotNil, validation.Length(0, maxInputLength)),
	)
}

// WinningNumberInputFrame is one keystroke received over the live websocket.
type WinningNumberInputFrame struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

func (req *WinningNumberInputFrame) Validate(inputCount int) error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Index, validation.Min(0), validation.Max(inputCount-1)),
		validation.Field(&req.Value, validation.Length(0, maxInputLength)),
	)
}
