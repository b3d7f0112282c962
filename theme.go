package workflow

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg int // User message accent
	Quote   int // Blockquote bar and text
	Marker  int // List bullets and numbers
	Error   int // Error messages
	Muted   int // Status bar, placeholders
	CodeBg  int // Code block background
	Accent  int // Headings, strong text
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg: 4,
		Quote:   8,
		Marker:  3,
		Error:   1,
		Muted:   8,
		CodeBg:  0,
		Accent:  5,
	}
}
