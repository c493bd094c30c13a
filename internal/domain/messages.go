package domain

import "fmt"

const (
	MsgLessThanMinPrice   = "The purchase amount must be at least the price of one ticket."
	MsgOutOfRange         = "Winning numbers must be within the allowed range."
	MsgDuplicatedNumber   = "Winning numbers must not contain duplicates."
	MsgBlankInput         = "Please fill in every winning number and the bonus number."
	MsgWinningNumberReady = "Winning numbers accepted. You can check the result."
)

func MsgHasChange(change int) string {
	return fmt.Sprintf("You have %d in change.", change)
}

func MsgTooManyTickets(max int) string {
	return fmt.Sprintf("At most %d tickets can be bought at once.", max)
}

func MsgOutOfRangeBetween(min, max int) string {
	return fmt.Sprintf("%s (%d-%d)", MsgOutOfRange, min, max)
}
