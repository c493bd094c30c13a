package domain

type Ticket struct {
	Numbers []int `json:"numbers"`
}

type TicketResult struct {
	Ticket       Ticket `json:"ticket"`
	MatchCount   int    `json:"match_count"`
	BonusMatched bool   `json:"bonus_matched"`
}

// Score counts how many of the ticket numbers appear in the winning numbers.
func (t Ticket) Score(w WinningNumber) TicketResult {
	winning := make(map[int]struct{}, len(w.Numbers))
	for _, n := range w.Numbers {
		winning[n] = struct{}{}
	}

	res := TicketResult{Ticket: t}
	for _, n := range t.Numbers {
		if _, ok := winning[n]; ok {
			res.MatchCount++
		}
		if n == w.BonusNumber {
			res.BonusMatched = true
		}
	}

	return res
}
