package core

import "errors"

// ErrConfig indicates an invalid category set or cadence policy.
// It is fatal at startup and never retried.
var ErrConfig = errors.New("invalid configuration")

// ErrUnknownOutcome indicates an outcome outside the configured alphabet.
// The offending outcome is dropped; aggregation continues.
var ErrUnknownOutcome = errors.New("outcome outside alphabet")

// ErrNoObservations indicates a statistic requested on zero observations.
var ErrNoObservations = errors.New("no observations")
