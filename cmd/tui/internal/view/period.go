package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/caixa/internal/report"
)

// Timeframe is a predefined or custom reporting period.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeNextMonth
	TimeframeThisYear
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeNextMonth:
		return "Next Month"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// Range resolves a predefined timeframe relative to now. Custom has no range of
// its own and falls back to the current month.
func (t Timeframe) Range(now time.Time) report.Range {
	month := report.DefaultRange(now)

	switch t {
	case TimeframeLastMonth:
		start := month.Start.AddDate(0, -1, 0)
		return report.Range{Start: start, End: month.Start.AddDate(0, 0, -1)}
	case TimeframeNextMonth:
		start := month.Start.AddDate(0, 1, 0)
		return report.Range{Start: start, End: start.AddDate(0, 1, -1)}
	case TimeframeThisYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return report.Range{Start: start, End: time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)}
	}

	return month
}

// PeriodSelectedMsg is emitted whenever the picker settles on a new range.
type PeriodSelectedMsg struct {
	Range report.Range
}

type pickerState int

const (
	pickerStateCycle pickerState = iota
	pickerStateCustom
)

// PeriodPicker cycles through timeframes with the arrow keys and accepts a
// custom start/end pair typed as DD/MM/YYYY.
type PeriodPicker struct {
	state    pickerState
	selected Timeframe
	current  report.Range
	now      func() time.Time

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewPeriodPicker() PeriodPicker {
	si := textinput.New()
	si.Placeholder = "DD/MM/YYYY"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "Start: "

	ei := textinput.New()
	ei.Placeholder = "DD/MM/YYYY"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "End:   "

	p := PeriodPicker{
		state:      pickerStateCycle,
		selected:   TimeframeThisMonth,
		now:        time.Now,
		startInput: si,
		endInput:   ei,
	}
	p.current = p.selected.Range(p.now())

	return p
}

// Range is the range currently applied.
func (m PeriodPicker) Range() report.Range {
	return m.current
}

// Editing reports whether the custom range inputs have focus.
func (m PeriodPicker) Editing() bool {
	return m.state == pickerStateCustom
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)

	if m.state == pickerStateCustom {
		if ok {
			return m.updateCustom(keyMsg)
		}

		return m.updateInputs(msg)
	}

	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "h":
		m.selected = (m.selected + TimeframeCustom) % (TimeframeCustom + 1)
	case "right", "l":
		m.selected = (m.selected + 1) % (TimeframeCustom + 1)
	default:
		return m, nil
	}

	if m.selected == TimeframeCustom {
		m.state = pickerStateCustom
		m.focusIndex = 0
		m.startInput.SetValue(FormatDate(m.current.Start))
		m.endInput.SetValue(FormatDate(m.current.End))
		m.startInput.Focus()

		return m, textinput.Blink
	}

	m.current = m.selected.Range(m.now())

	return m, m.selectedCmd()
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
			return m, textinput.Blink
		}

		m.endInput.Focus()

		return m, textinput.Blink

	case "enter":
		r, err := parseCustomRange(m.startInput.Value(), m.endInput.Value())
		if err != nil {
			m.err = err
			return m, nil
		}

		m.err = nil
		m.state = pickerStateCycle
		m.current = r
		m.startInput.Blur()
		m.endInput.Blur()

		return m, m.selectedCmd()

	case "esc":
		m.state = pickerStateCycle
		m.selected = TimeframeThisMonth
		m.err = nil
		m.current = m.selected.Range(m.now())

		return m, m.selectedCmd()
	}

	return m.updateInputs(msg)
}

func (m PeriodPicker) updateInputs(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	var cmds []tea.Cmd
	var c tea.Cmd

	m.startInput, c = m.startInput.Update(msg)
	cmds = append(cmds, c)
	m.endInput, c = m.endInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m PeriodPicker) selectedCmd() tea.Cmd {
	r := m.current
	return func() tea.Msg {
		return PeriodSelectedMsg{Range: r}
	}
}

func parseCustomRange(start, end string) (report.Range, error) {
	s, err := time.Parse("02/01/2006", start)
	if err != nil {
		return report.Range{}, fmt.Errorf("invalid start date (DD/MM/YYYY)")
	}

	e, err := time.Parse("02/01/2006", end)
	if err != nil {
		return report.Range{}, fmt.Errorf("invalid end date (DD/MM/YYYY)")
	}

	if e.Before(s) {
		return report.Range{}, fmt.Errorf("end date is before start date")
	}

	r := report.NewRange(s, e)
	if err := report.CheckSpan(r, granularityFor(r)); err != nil {
		return report.Range{}, err
	}

	return r, nil
}

func (m PeriodPicker) View() string {
	if m.state == pickerStateCustom {
		s := fmt.Sprintf("Custom range  %s  %s  (Enter: apply | Tab: switch | Esc: cancel)",
			m.startInput.View(), m.endInput.View())

		if m.err != nil {
			s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.err.Error())
		}

		return s
	}

	return fmt.Sprintf("← %s →  %s - %s",
		activeStyle(m.selected.String()),
		FormatDate(m.current.Start),
		FormatDate(m.current.End),
	)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}
