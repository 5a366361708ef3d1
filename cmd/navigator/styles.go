package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/equitylab/equity-navigator/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// LabelStyle for metric names.
	LabelStyle = lipgloss.NewStyle().Faint(true)

	// UpStyle and DownStyle for signed changes.
	UpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// renderSummary prints the key figures of an exported series.
func renderSummary(series *types.PriceSeries, output string, columns int) string {
	first := series.Bars[0]
	last := series.Bars[series.Len()-1]

	change := 0.0
	if first.Close != 0 {
		change = (last.Close/first.Close - 1) * 100
	}

	changeStr := fmt.Sprintf("%+.2f%%", change)
	if change >= 0 {
		changeStr = UpStyle.Render(changeStr)
	} else {
		changeStr = DownStyle.Render(changeStr)
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(series.Ticker) + "\n")
	b.WriteString(fmt.Sprintf("%s %.2f\n", LabelStyle.Render("Last close:"), last.Close))
	b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("Period change:"), changeStr))
	b.WriteString(fmt.Sprintf("%s %d bars, %d indicator columns\n", LabelStyle.Render("Exported:"), series.Len(), columns))
	b.WriteString(fmt.Sprintf("%s %s", LabelStyle.Render("Written to:"), output))

	return b.String()
}
