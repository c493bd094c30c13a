package domain

import (
	"errors"
	"fmt"
)

const (
	DefaultUnitPrice         = 1000
	DefaultMinNumber         = 1
	DefaultMaxNumber         = 45
	DefaultNumberLength      = 6
	DefaultBonusNumberLength = 1
)

var ErrInvalidRules = errors.New("invalid lotto rules")

// Rules holds the configurable parameters shared by both input forms.
type Rules struct {
	UnitPrice         int `json:"unit_price"`
	MinNumber         int `json:"min_number"`
	MaxNumber         int `json:"max_number"`
	NumberLength      int `json:"number_length"`
	BonusNumberLength int `json:"bonus_number_length"`
}

func DefaultRules() Rules {
	return Rules{
		UnitPrice:         DefaultUnitPrice,
		MinNumber:         DefaultMinNumber,
		MaxNumber:         DefaultMaxNumber,
		NumberLength:      DefaultNumberLength,
		BonusNumberLength: DefaultBonusNumberLength,
	}
}

// InputCount is the number of inputs on the winning number form.
func (r Rules) InputCount() int {
	return r.NumberLength + r.BonusNumberLength
}

func (r Rules) InRange(n int) bool {
	return n >= r.MinNumber && n <= r.MaxNumber
}

func (r Rules) Validate() error {
	if r.UnitPrice <= 0 {
		return fmt.Errorf("%w: unit price must be positive, got %d", ErrInvalidRules, r.UnitPrice)
	}
	if r.NumberLength <= 0 {
		return fmt.Errorf("%w: number length must be positive, got %d", ErrInvalidRules, r.NumberLength)
	}
	if r.BonusNumberLength != 1 {
		return fmt.Errorf("%w: exactly one bonus number is supported, got %d", ErrInvalidRules, r.BonusNumberLength)
	}
	if r.MinNumber > r.MaxNumber {
		return fmt.Errorf("%w: min number %d is greater than max number %d", ErrInvalidRules, r.MinNumber, r.MaxNumber)
	}
	if r.MaxNumber-r.MinNumber+1 < r.InputCount() {
		return fmt.Errorf("%w: range [%d, %d] cannot hold %d distinct numbers", ErrInvalidRules, r.MinNumber, r.MaxNumber, r.InputCount())
	}

	return nil
}
