package functrace

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const maxErrorLabelLen = 60

// errorLabel reduces an error to a short, stable label suitable for
// grouping failures inside an aggregate.
func errorLabel(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "deadline exceeded"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}

	name := strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}

	// Plain errors.New / fmt.Errorf values carry no useful type name, so
	// fall back to the first line of the message.
	if name == "errors.errorString" || name == "fmt.wrapError" || name == "errors.joinError" {
		msg := err.Error()
		if idx := strings.IndexByte(msg, '\n'); idx != -1 {
			msg = msg[:idx]
		}
		name = msg
	}

	if name == "" {
		return "unknown error"
	}
	if len(name) > maxErrorLabelLen {
		name = name[:maxErrorLabelLen]
	}
	return name
}
