package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/safetype/safetype/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	editorStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true).
			Padding(0, 1)

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("232")).
			Bold(true).
			Padding(0, 1)

	confidenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Background(lipgloss.Color("236"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	focusColor = lipgloss.Color("208")
)

// typeColor picks the accent used for a detection type's badge and card
// border.
func typeColor(t types.DetectionType) lipgloss.Color {
	switch t {
	case types.TypePrivateKey:
		return lipgloss.Color("9")
	case types.TypeAPIKey, types.TypePassword, types.TypeCreditCard:
		return lipgloss.Color("208")
	case types.TypeJWT:
		return lipgloss.Color("11")
	case types.TypeEmail, types.TypePhoneNumber:
		return lipgloss.Color("12")
	default:
		return lipgloss.Color("245")
	}
}
