package server

import "net/http"

// ANSI colours used for the development route and request logs.
const (
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[90m"

	ResetColour = "\033[0m"
)

var methodColours = map[string]string{
	http.MethodGet:    Green,
	http.MethodPost:   Blue,
	http.MethodPut:    Cyan,
	http.MethodDelete: Yellow,
	http.MethodPatch:  Magenta,
}

func statusColour(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return Red
	case status >= http.StatusBadRequest:
		return Yellow
	case status >= http.StatusMultipleChoices:
		return Cyan
	default:
		return Green
	}
}
