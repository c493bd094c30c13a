package domain

const (
	WinningNumberInputName = "winning-number"
	BonusNumberInputName   = "bonus-number"
)

var winningNumberLabels = []string{
	"First winning number",
	"Second winning number",
	"Third winning number",
	"Fourth winning number",
	"Fifth winning number",
	"Sixth winning number",
}

const bonusNumberLabel = "Bonus number"

type WinningNumber struct {
	Numbers     []int `json:"numbers"`
	BonusNumber int   `json:"bonus_number"`
}

// InputField describes one numeric input of the winning number form.
type InputField struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Value string `json:"value"`
}

// InputLabel returns the label of the input at index i. Inputs past the
// main numbers are bonus inputs.
func InputLabel(r Rules, i int) string {
	if i >= r.NumberLength {
		return bonusNumberLabel
	}
	if i < len(winningNumberLabels) {
		return winningNumberLabels[i]
	}

	return "Winning number"
}

func InputName(r Rules, i int) string {
	if i >= r.NumberLength {
		return BonusNumberInputName
	}

	return WinningNumberInputName
}

type CheckState struct {
	IsCompletedInput bool   `json:"is_completed_input"`
	CheckMessage     string `json:"check_message"`
}
