package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

type RunPodError interface {
	// Error returns a user-facing string explaining the error
	Error() string

	// Directive returns a user-facing string explaining how to overcome the error
	Directive() string
}

type ErrorReporter interface {
	Setup() func()
	Flush()
	ReportMessage(string) string
	ReportError(error) string
	AddTag(key string, value string)
}

// GetDefaultErrorReporter returns a sentry backed reporter when dsn is set and
// a no-op reporter otherwise.
func GetDefaultErrorReporter(dsn string, release string) ErrorReporter {
	if dsn == "" {
		return NoopErrorReporter{}
	}
	return SentryErrorReporter{dsn: dsn, release: release}
}

type SentryErrorReporter struct {
	dsn     string
	release string
}

var _ ErrorReporter = SentryErrorReporter{}

func (s SentryErrorReporter) Setup() func() {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:     s.dsn,
		Release: s.release,
	})
	if err != nil {
		fmt.Println(err)
	}
	return func() {
		err := recover()
		if err != nil {
			sentry.CurrentHub().Recover(err)
			sentry.Flush(time.Second * 5)
			panic(err)
		}
		sentry.Flush(2 * time.Second)
	}
}

func (s SentryErrorReporter) Flush() {
	sentry.Flush(time.Second * 2)
}

func (s SentryErrorReporter) ReportMessage(msg string) string {
	event := sentry.CaptureMessage(msg)
	if event != nil {
		return string(*event)
	}
	return ""
}

func (s SentryErrorReporter) ReportError(e error) string {
	event := sentry.CaptureException(e)
	if event != nil {
		return string(*event)
	}
	return ""
}

func (s SentryErrorReporter) AddTag(key string, value string) {
	scope := sentry.CurrentHub().Scope()
	scope.SetTag(key, value)
}

type NoopErrorReporter struct{}

var _ ErrorReporter = NoopErrorReporter{}

func (NoopErrorReporter) Setup() func()                 { return func() {} }
func (NoopErrorReporter) Flush()                        {}
func (NoopErrorReporter) ReportMessage(_ string) string { return "" }
func (NoopErrorReporter) ReportError(_ error) string    { return "" }
func (NoopErrorReporter) AddTag(_ string, _ string)     {}

type ValidationError struct {
	Message string
}

func NewValidationError(message string) ValidationError {
	return ValidationError{Message: message}
}

var _ error = ValidationError{}

func (v ValidationError) Error() string {
	return v.Message
}

type ConfigNotFoundError struct {
	Path string
}

var _ RunPodError = &ConfigNotFoundError{}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("no configuration found at %s", e.Path)
}

func (e *ConfigNotFoundError) Directive() string {
	return "run `runpod setup` first"
}

type PodNotFoundError struct {
	PodID string
}

var _ RunPodError = &PodNotFoundError{}

func (e *PodNotFoundError) Error() string {
	return fmt.Sprintf("pod %s not found", e.PodID)
}

func (e *PodNotFoundError) Directive() string {
	return "run `runpod status --all` to list your pods"
}

type PodNotRunningError struct {
	PodID string
}

var _ RunPodError = &PodNotRunningError{}

func (e *PodNotRunningError) Error() string {
	return fmt.Sprintf("pod %s is not running yet", e.PodID)
}

func (e *PodNotRunningError) Directive() string {
	return "wait for the pod to start and run `runpod ssh` again"
}

type NoSSHPortError struct {
	PodID string
}

var _ RunPodError = &NoSSHPortError{}

func (e *NoSSHPortError) Error() string {
	return fmt.Sprintf("pod %s does not expose an SSH port", e.PodID)
}

func (e *NoSSHPortError) Directive() string {
	return "recreate the pod with port 22/tcp exposed"
}

type AmbiguousPodError struct {
	NameOrID   string
	Candidates []string
}

var _ RunPodError = &AmbiguousPodError{}

func (e *AmbiguousPodError) Error() string {
	return fmt.Sprintf("multiple pods match %q:\n\t%s", e.NameOrID, strings.Join(e.Candidates, "\n\t"))
}

func (e *AmbiguousPodError) Directive() string {
	return "run the command with the pod id instead of the name"
}

// NoTrackedPodError is returned by commands that act on the tracked pod when
// none is recorded in settings.
type NoTrackedPodError struct{}

var _ RunPodError = &NoTrackedPodError{}

func (e *NoTrackedPodError) Error() string {
	return "no active pod found"
}

func (e *NoTrackedPodError) Directive() string {
	return "run `runpod up` first"
}

// APIError is an error returned in the body of a pod API response.
type APIError struct {
	Message    string
	StatusCode int
}

var _ RunPodError = &APIError{}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("runpod api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("runpod api error: %s", e.Message)
}

func (e *APIError) Directive() string {
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return "check RUNPOD_API_KEY or run `runpod setup` again"
	}
	return ""
}

func WrapAndTrace(err error, messages ...string) error {
	message := ""
	for _, m := range messages {
		message += fmt.Sprintf(" %s", m)
	}
	return errors.Wrap(err, MakeErrorMessage(message))
}

func MakeErrorMessage(message string) string {
	_, fn, line, _ := runtime.Caller(2)
	return fmt.Sprintf("[error] %s:%d %s\n\t", fn, line, message)
}

var NetworkErrorMessage = "possible internet connection problem"

func New(message string) error {
	return errors.New(message)
}

func Errorf(format string, a ...interface{}) error {
	return fmt.Errorf(format, a...) //nolint:goerr113 // supports %w
}

func Cause(err error) error {
	return errors.Cause(err)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Directive returns the directive of the first RunPodError in err's chain.
func Directive(err error) string {
	var rpErr RunPodError
	if stderrors.As(err, &rpErr) {
		return rpErr.Directive()
	}
	return ""
}
