package sophia

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	UserMsg  int // User message accent
	Error    int // Error messages
	Success  int // Login confirmation
	Muted    int // Status bar, placeholders
	Accent   int // Headings, titles
	Selected int // Selected conversation in the sidebar
	Border   int // Sidebar separator
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:  4,
		Error:    1,
		Success:  2,
		Muted:    8,
		Accent:   5,
		Selected: 6,
		Border:   8,
	}
}
