package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/lotto/internal/domain"
)

type winningRecorder struct {
	calls   []string
	winning *domain.WinningNumber
	shown   bool
}

func (r *winningRecorder) SetWinningNumber(w domain.WinningNumber) {
	r.calls = append(r.calls, "SetWinningNumber")
	r.winning = &w
}

func (r *winningRecorder) SetIsResultModalShow(show bool) {
	r.calls = append(r.calls, "SetIsResultModalShow")
	r.shown = show
}

func fill(t *testing.T, f *WinningNumberForm, values ...string) CheckState {
	t.Helper()

	var state CheckState
	for i, v := range values {
		var err error
		state, err = f.Change(i, v)
		require.NoError(t, err)
	}

	return state
}

func TestValidateWinningNumbers(t *testing.T) {
	rules := domain.DefaultRules()
	outOfRange := domain.MsgOutOfRangeBetween(1, 45)

	tests := []struct {
		name    string
		changed string
		values  []string
		want    CheckState
	}{
		{
			name:    "complete",
			changed: "7",
			values:  []string{"1", "2", "3", "4", "5", "6", "7"},
			want:    CheckState{IsCompletedInput: true, CheckMessage: domain.MsgWinningNumberReady},
		},
		{
			name:    "bonus duplicates a winning number",
			changed: "6",
			values:  []string{"1", "2", "3", "4", "5", "6", "6"},
			want:    CheckState{CheckMessage: domain.MsgDuplicatedNumber},
		},
		{
			name:    "duplicate with blanks",
			changed: "3",
			values:  []string{"3", "", "3", "", "", "", ""},
			want:    CheckState{CheckMessage: domain.MsgDuplicatedNumber},
		},
		{
			name:    "duplicate with different spelling",
			changed: "07",
			values:  []string{"7", "07", "", "", "", "", ""},
			want:    CheckState{CheckMessage: domain.MsgDuplicatedNumber},
		},
		{
			name:    "blank input",
			changed: "5",
			values:  []string{"1", "2", "", "4", "5", "", ""},
			want:    CheckState{CheckMessage: domain.MsgBlankInput},
		},
		{
			name:    "changed value above range",
			changed: "46",
			values:  []string{"1", "2", "3", "4", "5", "6", "46"},
			want:    CheckState{CheckMessage: outOfRange},
		},
		{
			name:    "changed value below range",
			changed: "0",
			values:  []string{"0", "", "", "", "", "", ""},
			want:    CheckState{CheckMessage: outOfRange},
		},
		{
			name:    "range is checked before duplicates",
			changed: "99",
			values:  []string{"99", "99", "", "", "", "", ""},
			want:    CheckState{CheckMessage: outOfRange},
		},
		{
			name:    "cleared field is out of range",
			changed: "",
			values:  []string{"1", "", "3", "4", "5", "6", "7"},
			want:    CheckState{CheckMessage: outOfRange},
		},
		{
			name:    "non integer",
			changed: "3.5",
			values:  []string{"3.5", "", "", "", "", "", ""},
			want:    CheckState{CheckMessage: outOfRange},
		},
		{
			name:    "stale out of range value elsewhere",
			changed: "7",
			values:  []string{"1", "2", "3", "4", "5", "60", "7"},
			want:    CheckState{CheckMessage: outOfRange},
		},
		{
			name:    "range bounds are inclusive",
			changed: "45",
			values:  []string{"1", "2", "3", "4", "5", "44", "45"},
			want:    CheckState{IsCompletedInput: true, CheckMessage: domain.MsgWinningNumberReady},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateWinningNumbers(rules, tt.changed, tt.values))
		})
	}
}

func TestWinningNumberForm_SubmitComplete(t *testing.T) {
	rec := &winningRecorder{}
	f := NewWinningNumberForm(domain.DefaultRules(), rec)

	state := fill(t, f, "1", "2", "3", "4", "5", "6", "7")
	require.True(t, state.IsCompletedInput)
	assert.False(t, f.SubmitDisabled())

	assert.True(t, f.Submit())
	assert.Equal(t, []string{"SetWinningNumber", "SetIsResultModalShow"}, rec.calls)
	assert.Equal(t, &domain.WinningNumber{Numbers: []int{1, 2, 3, 4, 5, 6}, BonusNumber: 7}, rec.winning)
	assert.True(t, rec.shown)
}

func TestWinningNumberForm_SubmitIncompleteIsNoop(t *testing.T) {
	rec := &winningRecorder{}
	f := NewWinningNumberForm(domain.DefaultRules(), rec)

	state := fill(t, f, "1", "2", "3", "4", "5", "6", "6")
	assert.False(t, state.IsCompletedInput)
	assert.Equal(t, domain.MsgDuplicatedNumber, state.CheckMessage)
	assert.True(t, f.SubmitDisabled())

	assert.False(t, f.Submit())
	assert.Empty(t, rec.calls)
}

func TestWinningNumberForm_FixElsewhereCompletes(t *testing.T) {
	f := NewWinningNumberForm(domain.DefaultRules(), &winningRecorder{})

	state := fill(t, f, "1", "2", "3", "4", "5", "6", "6")
	require.False(t, state.IsCompletedInput)

	// The sixth number is fixed, not the bonus that was typed last.
	state, err := f.Change(5, "16")
	require.NoError(t, err)
	assert.True(t, state.IsCompletedInput)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "16", "6"}, f.Inputs())
}

func TestWinningNumberForm_OutOfRangeThenFixed(t *testing.T) {
	f := NewWinningNumberForm(domain.DefaultRules(), &winningRecorder{})

	state := fill(t, f, "1", "2", "3", "4", "5", "6", "50")
	assert.False(t, state.IsCompletedInput)
	assert.Equal(t, domain.MsgOutOfRangeBetween(1, 45), state.CheckMessage)

	state, err := f.Change(6, "40")
	require.NoError(t, err)
	assert.True(t, state.IsCompletedInput)
}

func TestWinningNumberForm_ChangeIndexOutOfRange(t *testing.T) {
	f := NewWinningNumberForm(domain.DefaultRules(), &winningRecorder{})

	_, err := f.Change(7, "1")
	assert.ErrorIs(t, err, ErrInputIndexOutOfRange)

	_, err = f.Change(-1, "1")
	assert.ErrorIs(t, err, ErrInputIndexOutOfRange)
}

func TestWinningNumberForm_Fields(t *testing.T) {
	f := NewWinningNumberForm(domain.DefaultRules(), &winningRecorder{})
	_, err := f.Change(6, "9")
	require.NoError(t, err)

	fields := f.Fields()
	require.Len(t, fields, 7)

	for i := 0; i < 6; i++ {
		assert.Equal(t, domain.WinningNumberInputName, fields[i].Name)
		assert.Equal(t, 1, fields[i].Min)
		assert.Equal(t, 45, fields[i].Max)
	}
	assert.Equal(t, domain.BonusNumberInputName, fields[6].Name)
	assert.Equal(t, "Bonus number", fields[6].Label)
	assert.Equal(t, "9", fields[6].Value)
}

func TestWinningNumberForm_Reset(t *testing.T) {
	f := NewWinningNumberForm(domain.DefaultRules(), &winningRecorder{})
	fill(t, f, "1", "2", "3", "4", "5", "6", "7")

	f.Reset()

	assert.Equal(t, make([]string, 7), f.Inputs())
	assert.Equal(t, CheckState{}, f.State())
	assert.True(t, f.SubmitDisabled())
}

func TestLoadWinningNumberForm(t *testing.T) {
	rules := domain.DefaultRules()
	inputs := []string{"1", "2", "3", "4", "5", "6", "7"}
	state := ValidateWinningNumbers(rules, "7", inputs)

	rec := &winningRecorder{}
	f, err := LoadWinningNumberForm(rules, inputs, state, rec)
	require.NoError(t, err)
	assert.True(t, f.Submit())
	assert.Equal(t, 7, rec.winning.BonusNumber)

	_, err = LoadWinningNumberForm(rules, inputs[:3], state, rec)
	assert.ErrorIs(t, err, ErrInputCountMismatch)
}
