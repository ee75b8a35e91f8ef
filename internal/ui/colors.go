package ui

// Accessor functions return the active theme's escape code for a semantic
// color category. Presentation code calls these instead of holding a Theme,
// so a theme switch takes effect everywhere at once.

// ColorGreen returns the success color of the active theme.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorRed returns the error color of the active theme.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorCyan returns the primary accent color of the active theme.
func ColorCyan() string { return GetCurrentTheme().Primary }

// ColorYellow returns the warning color of the active theme.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorGrey returns the secondary color of the active theme.
func ColorGrey() string { return GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code of the active theme.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the underline escape code of the active theme.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorReset returns the reset escape code of the active theme.
func ColorReset() string { return GetCurrentTheme().Reset }
