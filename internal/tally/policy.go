package tally

import (
	"fmt"
	"time"

	"fairdice/internal/core"
)

// Policy is the snapshot cadence: emit after EveryN new outcomes since
// the last snapshot, after Every elapsed time since the last snapshot,
// or whichever of the two fires first when both are set.
type Policy struct {
	EveryN int64
	Every  time.Duration
}

// Validate checks the policy at initialization time.
func (p Policy) Validate() error {
	if p.EveryN < 0 {
		return fmt.Errorf("%w: snapshot every_n must be >= 0, got %d", core.ErrConfig, p.EveryN)
	}
	if p.Every < 0 {
		return fmt.Errorf("%w: snapshot interval must be >= 0, got %v", core.ErrConfig, p.Every)
	}
	if p.EveryN == 0 && p.Every == 0 {
		return fmt.Errorf("%w: snapshot cadence requires every_n or every_seconds", core.ErrConfig)
	}
	return nil
}
