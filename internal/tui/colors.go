package tui

// Color constants for the board TUI theme
const (
	ColorBorder      = "#3A3F55" // Grey-blue
	ColorBorderFocus = "#2DD4BF" // Teal, focused column border

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240" // Dark grey for help text

	// Accent Colors (teal theme)
	ColorAccentMain   = "#0D9488" // Logo, accent elements, active borders
	ColorAccentBright = "#2DD4BF" // Highlights, selected rows, column headers

	// State Colors
	ColorError   = "#EF4444" // Validation errors, overdue badges
	ColorSuccess = "#22C55E" // Done column, confirmations
	ColorWarning = "#F59E0B" // High priority, notices
)
