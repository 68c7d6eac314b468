package migrate

import (
	"fmt"
	"time"

	"github.com/fwojciec/siteport"
)

// State is a step in the per-URL lifecycle.
type State string

// Lifecycle states.
const (
	StatePending        State = "PENDING"
	StateSkipped        State = "SKIPPED"
	StateNavigating     State = "NAVIGATING"
	StateReady          State = "READY"
	StateExtracting     State = "EXTRACTING"
	StateConverted      State = "CONVERTED"
	StateWritten        State = "WRITTEN"
	StateSuccess        State = "SUCCESS"
	StateFailureCapture State = "FAILURE_CAPTURE"
	StateFailed         State = "FAILED"
)

// transitions lists the states reachable from each state.
// SKIPPED, SUCCESS and FAILED are terminal.
var transitions = map[State][]State{
	StatePending:        {StateSkipped, StateNavigating, StateFailed},
	StateNavigating:     {StateReady, StateFailureCapture},
	StateReady:          {StateExtracting, StateFailureCapture},
	StateExtracting:     {StateConverted, StateFailureCapture},
	StateConverted:      {StateWritten, StateFailed},
	StateWritten:        {StateSuccess},
	StateFailureCapture: {StateFailed},
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends the lifecycle.
func (s State) Terminal() bool {
	return s == StateSkipped || s == StateSuccess || s == StateFailed
}

// Outcome is the result of processing one URL. Exactly one of the terminal
// states is reached: SKIPPED, SUCCESS (Path and Title set) or FAILED (Code
// and Reason set).
type Outcome struct {
	URL        string
	Slug       string
	Collection siteport.Collection
	Time       time.Time

	State State
	Trail []State

	// Success.
	Title string
	Path  string
	Bytes int

	// Failure.
	Code           string
	Reason         string
	HTMLPath       string
	ScreenshotPath string
}

func newOutcome(url string, now time.Time) *Outcome {
	return &Outcome{
		URL:        url,
		Slug:       siteport.SlugFromURL(url),
		Collection: siteport.Classify(url),
		Time:       now,
		State:      StatePending,
		Trail:      []State{StatePending},
	}
}

// advance moves the outcome to next. An illegal move is a programming error.
func (o *Outcome) advance(next State) {
	if !o.State.CanTransition(next) {
		panic(fmt.Sprintf("migrate: illegal transition %s -> %s for %s", o.State, next, o.URL))
	}
	o.State = next
	o.Trail = append(o.Trail, next)
}

// setFailure records the error kind and a non-empty reason.
func (o *Outcome) setFailure(err error) {
	o.Code = siteport.ErrorCode(err)
	o.Reason = siteport.ErrorMessage(err)
	if o.Reason == "" {
		o.Reason = "unknown error"
	}
}
