package cli

import (
	"fmt"
	"io"

	"github.com/lifeisriding/slimductor/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle writes a message for err to w based on its error code.
func (h *ErrorHandler) Handle(w io.Writer, err error) {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(w, "Configuration not found: %v\n", err)
		fmt.Fprintf(w, "Run 'slimductor paths' to see where config files are searched.\n")

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(w, "Configuration is invalid: %v\n", err)
		fmt.Fprintf(w, "Run 'slimductor config' to see the effective configuration.\n")

	case errors.ErrCodeRegistryUnavailable:
		fmt.Fprintf(w, "Session directory is not usable: %v\n", err)
		fmt.Fprintf(w, "Set registry.active_dir or SLIMDUCTOR_ACTIVE_DIR to a writable directory.\n")

	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}

	if h.Verbose {
		if se, ok := err.(*errors.SlimductorError); ok {
			fmt.Fprintf(w, "\nError details:\n%s\n", se.ToJSON())
		}
	}
}
