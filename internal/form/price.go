package form

import (
	"math"
	"math/big"
	"strings"

	"github.com/yizeng/gab/gin/lotto/internal/domain"
)

type PriceCheck int

const (
	PriceOK PriceCheck = iota
	PriceBelowMinimum
	PriceHasChange
)

func (c PriceCheck) String() string {
	switch c {
	case PriceOK:
		return "ok"
	case PriceBelowMinimum:
		return "below_minimum"
	case PriceHasChange:
		return "has_change"
	default:
		return "unknown"
	}
}

// PriceResult is the outcome of a price submission. The caller decides how
// to surface it to the user.
type PriceResult struct {
	Check       PriceCheck
	TicketCount int
	Change      int
}

// Blocking reports whether the submission was aborted.
func (r PriceResult) Blocking() bool {
	return r.Check == PriceBelowMinimum
}

// Message returns the user facing notice for the result, or "" when there is
// nothing to tell.
func (r PriceResult) Message() string {
	switch r.Check {
	case PriceBelowMinimum:
		return domain.MsgLessThanMinPrice
	case PriceHasChange:
		return domain.MsgHasChange(r.Change)
	default:
		return ""
	}
}

type PriceFormHandler interface {
	OnPriceChange(value string)
	CreateLottoList(ticketCount int)
}

// PriceForm is a controlled form: the price it submits is always the value
// handed in by its owner, and changes are only forwarded.
type PriceForm struct {
	rules   domain.Rules
	price   string
	handler PriceFormHandler
}

func NewPriceForm(rules domain.Rules, price string, handler PriceFormHandler) *PriceForm {
	return &PriceForm{
		rules:   rules,
		price:   price,
		handler: handler,
	}
}

func (f *PriceForm) Price() string {
	return f.price
}

func (f *PriceForm) Change(value string) {
	f.handler.OnPriceChange(value)
}

func (f *PriceForm) Submit() PriceResult {
	res := EvaluatePrice(f.rules, f.price)
	if res.Blocking() {
		return res
	}

	f.handler.CreateLottoList(res.TicketCount)

	return res
}

// EvaluatePrice checks a raw price against the unit price. Anything that is
// not an integer is treated as below the minimum. There is no upper bound: a
// ticket count that does not fit in an int saturates at math.MaxInt and is
// left for the ticket generator to reject.
func EvaluatePrice(rules domain.Rules, raw string) PriceResult {
	price, ok := parsePrice(raw)
	unit := big.NewInt(int64(rules.UnitPrice))
	if !ok || price.Cmp(unit) < 0 {
		return PriceResult{Check: PriceBelowMinimum}
	}

	count, change := new(big.Int).QuoRem(price, unit, new(big.Int))

	res := PriceResult{
		Check:       PriceOK,
		TicketCount: math.MaxInt,
		Change:      int(change.Int64()),
	}
	if count.IsInt64() && count.Int64() <= math.MaxInt {
		res.TicketCount = int(count.Int64())
	}
	if res.Change > 0 {
		res.Check = PriceHasChange
	}

	return res
}

func parsePrice(raw string) (*big.Int, bool) {
	return new(big.Int).SetString(strings.TrimSpace(raw), 10)
}
