package metrics

import "time"

// Nop discards every observation.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) ObserveOperation(string, string, time.Duration) {}

func (Nop) BestEffortFailed(string) {}

func (Nop) RetryAttempted(string, int, error) {}

func (Nop) RateLimited(string) {}

func (Nop) ObserveRequest(string, string, int, time.Duration) {}
