package formatter

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/younsl/bucketwatch/internal/models"
)

// Color palette
const (
	ColorPass  = "82"
	ColorFail  = "196"
	ColorError = "214"
)

var (
	PassStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPass))
	FailStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorFail))
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
)

func statusLabel(status models.BucketStatus) string {
	switch status {
	case models.StatusPass:
		return PassStyle.Render("FRESH")
	case models.StatusFail:
		return FailStyle.Render("STALE")
	default:
		return ErrorStyle.Render("ERROR")
	}
}
