package gauge

import "fmt"

const (
	DefaultLoadingText        = "Loading..."
	DefaultGenericErrorReason = "Unable to load CPU usage"
	DefaultCapacity           = 1
)

// Options configures how readings are presented. Zero fields take the
// Default* values.
type Options struct {
	LoadingText        string
	GenericErrorReason string
	DefaultCapacity    int
}

func (o Options) withDefaults() Options {
	if o.LoadingText == "" {
		o.LoadingText = DefaultLoadingText
	}
	if o.GenericErrorReason == "" {
		o.GenericErrorReason = DefaultGenericErrorReason
	}
	if o.DefaultCapacity <= 0 {
		o.DefaultCapacity = DefaultCapacity
	}
	return o
}

func coresLabel(cores int) string {
	if cores <= 0 {
		return ""
	}
	if cores == 1 {
		return "1 core"
	}
	return fmt.Sprintf("%d cores", cores)
}
