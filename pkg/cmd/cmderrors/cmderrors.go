package cmderrors

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/runpod-tools/runpod-cli/pkg/featureflag"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"

	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
)

// DisplayAndHandleError prints err for the user and reports it unless it is a
// validation error. With --debug the full trace is printed.
func DisplayAndHandleError(t *terminal.Terminal, er rperrors.ErrorReporter, err error) {
	if err == nil {
		return
	}

	var validationErr rperrors.ValidationError
	isValidation := rperrors.As(err, &validationErr)
	if !isValidation {
		er.ReportError(err)
		er.Flush()
	}

	switch {
	case featureflag.Debug():
		t.Eprint(fmt.Sprintf("%+v", err))
		if directive := rperrors.Directive(err); directive != "" {
			t.Eprint(t.Yellow(directive))
		}
	case isValidation:
		// do not report error
		t.Eprint(t.Yellow(errors.Cause(err).Error()))
	default:
		t.Errprint(errors.Cause(err), "")
	}
}
