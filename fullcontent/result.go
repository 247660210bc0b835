package fullcontent

// ReasonParserFailure is the single reason reported for every failed
// full-content load: network error, bad status, decode or extraction.
const ReasonParserFailure = "MERCURY_PARSER_FAILURE"

// Status tags a Result.
type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "pending"
	}
}

// Result is the outcome of a full-content fetch:
// Pending | Success(HTML) | Failure(Reason).
type Result struct {
	Status Status
	HTML   string // set when Status == StatusSuccess
	Reason string // set when Status == StatusFailure
}

// Pending returns a result for a fetch that has not resolved yet.
func Pending() Result { return Result{Status: StatusPending} }

// Succeeded wraps an extracted HTML fragment.
func Succeeded(html string) Result { return Result{Status: StatusSuccess, HTML: html} }

// Failed wraps a failure reason.
func Failed(reason string) Result { return Result{Status: StatusFailure, Reason: reason} }

func (r Result) IsPending() bool { return r.Status == StatusPending }
func (r Result) IsSuccess() bool { return r.Status == StatusSuccess }
func (r Result) IsFailure() bool { return r.Status == StatusFailure }
