package orchestrator

import (
	"strings"

	"github.com/standardbeagle/graphidx/internal/errs"
)

// Outcome is the result of applying spec §4.4's batch-failure policy to a
// completed scan.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomePartialFailure
	OutcomeFailure
)

// defaultPartialFailureThreshold is spec §4.4's 10% tolerance for missed
// blocks, when batch errors were reported, before a scan that indexed
// something is reported as a partial failure rather than a success, used
// whenever configuration leaves Orchestrator.BatchFailureThreshold
// unset (<= 0).
const defaultPartialFailureThreshold = 0.10

// evaluateBatch applies spec §4.4's batch-failure policy, in the exact
// order the spec lists its rules (the first two overlap on purpose: the
// first rule holds regardless of whether any error was reported, the
// second restates it for the found==0 case where no "found > 0" alone
// would catch an all-errors, nothing-discovered run). threshold is the
// configured missed-ratio tolerance; <= 0 falls back to
// defaultPartialFailureThreshold.
func evaluateBatch(found, indexed int, batchErrors []error, category errs.Category, threshold float64) (Outcome, error) {
	if threshold <= 0 {
		threshold = defaultPartialFailureThreshold
	}
	first := firstError(batchErrors)

	if indexed == 0 && found > 0 {
		return OutcomeFailure, errs.NewBatchFailure(category, found, indexed, false, first)
	}
	if len(batchErrors) > 0 && indexed == 0 {
		return OutcomeFailure, errs.NewBatchFailure(category, found, indexed, false, first)
	}
	if len(batchErrors) > 0 && found > 0 {
		missedRatio := float64(found-indexed) / float64(found)
		if missedRatio > threshold {
			return OutcomePartialFailure, errs.NewBatchFailure(category, found, indexed, true, first)
		}
	}
	return OutcomeSuccess, nil
}

func firstError(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	return errors[0]
}

// categoryOf extracts the error category carried by a *errs.CodeError,
// *errs.StoreError, or *errs.IndexingError; anything else falls back to
// classifyRawError rather than going straight to CategoryUnknown, since a
// store client's connection setup (e.g. vectorStore.Initialize) can fail
// with a raw, unwrapped network error before it ever reaches this
// package's typed error shapes.
func categoryOf(err error) errs.Category {
	switch e := err.(type) {
	case *errs.CodeError:
		return e.Category
	case *errs.StoreError:
		return e.Category
	case *errs.IndexingError:
		return e.Category
	default:
		return classifyRawError(err)
	}
}

// classifyRawError matches an untyped error's message against the same
// network-failure vocabulary errs.Retryable uses, so a raw ECONNREFUSED
// or similar lands in CategoryNetwork instead of CategoryUnknown.
func classifyRawError(err error) errs.Category {
	if err == nil {
		return errs.CategoryUnknown
	}
	msg := strings.ToLower(err.Error())
	for _, pat := range []string{
		"econnreset", "etimedout", "enotfound", "econnrefused",
		"connection refused", "no such host", "network is unreachable",
		"dial tcp", "dial udp", "i/o timeout",
	} {
		if strings.Contains(msg, pat) {
			return errs.CategoryNetwork
		}
	}
	return errs.CategoryUnknown
}
