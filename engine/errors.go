package engine

import "fmt"

// SinkFailure wraps whatever the EventSink panicked with. Per spec §7,
// a faulting sink does not corrupt engine state: by the time this error
// reaches a caller, the matching loop and all index bookkeeping have
// already completed. Callers should treat it as "the operation
// succeeded, the observation pipeline may be lossy."
type SinkFailure struct {
	Cause any
}

func (s *SinkFailure) Error() string {
	return fmt.Sprintf("engine: event sink failed: %v", s.Cause)
}

func sinkFailure(recovered any) error {
	return &SinkFailure{Cause: recovered}
}
