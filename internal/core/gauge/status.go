package gauge

import "strconv"

// StatusText picks the gauge's inner text. An error reason wins over the
// loading indicator, which wins over the value.
func StatusText(value int, loading bool, reason *string, loadingText string) string {
	if reason != nil {
		return *reason
	}
	if loading {
		return loadingText
	}
	return strconv.Itoa(value) + "%"
}
