package ui

import "fmt"

// Unicode symbols for status indicators
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

// Success returns a success message with checkmark symbol
func Success(msg string) string {
	return fmt.Sprintf("%s %s", SymbolSuccess, msg)
}

// Successf returns a formatted success message with checkmark symbol
func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error returns an error message with X symbol
func Error(msg string) string {
	return fmt.Sprintf("%s %s", SymbolError, msg)
}

// Warning returns a warning message with warning symbol
func Warning(msg string) string {
	return fmt.Sprintf("%s %s", SymbolWarning, msg)
}

// Warningf returns a formatted warning message with warning symbol
func Warningf(format string, args ...interface{}) string {
	return Warning(fmt.Sprintf(format, args...))
}

// Info returns an info message with info symbol
func Info(msg string) string {
	return fmt.Sprintf("%s %s", SymbolInfo, msg)
}

// Infof returns a formatted info message with info symbol
func Infof(format string, args ...interface{}) string {
	return Info(fmt.Sprintf(format, args...))
}

// Header returns a styled section header
func Header(msg string) string {
	return Bold.Render(msg)
}

// FilePath returns an accent-styled file path
func FilePath(path string) string {
	return Accent.Render(path)
}

// Hint returns muted hint text
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Placeholder renders s, or a muted "(empty)" when s is blank.
func Placeholder(s string) string {
	if s == "" {
		return Muted.Render("(empty)")
	}
	return s
}
