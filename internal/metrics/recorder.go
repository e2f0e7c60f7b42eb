// Package metrics records console activity: dispatched actions, reconciliation polls and snapshot refreshes.
//
// Components receive a Recorder through their constructors. NoopRecorder is the
// default when metrics are disabled; PrometheusRecorder backs the optional
// /metrics listener.
package metrics

import "time"

// ResultLabel enumerates action and refresh outcomes for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultRejected ResultLabel = "rejected" // server answered with status "error"
	ResultFailed   ResultLabel = "failed"   // transport or decode failure
)

// PollOutcome enumerates terminal states of a reconciliation poll.
type PollOutcome string

const (
	PollResolved PollOutcome = "resolved"
	PollTimedOut PollOutcome = "timed_out"
	PollCanceled PollOutcome = "canceled"
)

// Recorder defines observability hooks for the console.
type Recorder interface {
	IncAction(action string, result ResultLabel)
	IncRefresh(result ResultLabel)
	IncPollTick(failed bool)
	ObservePoll(outcome PollOutcome, d time.Duration)
	SetActivePolls(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncAction(string, ResultLabel)          {}
func (NoopRecorder) IncRefresh(ResultLabel)                 {}
func (NoopRecorder) IncPollTick(bool)                       {}
func (NoopRecorder) ObservePoll(PollOutcome, time.Duration) {}
func (NoopRecorder) SetActivePolls(int)                     {}
