package branchview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	divergenceCounterMissingMessageConstant = "divergence counter not configured"
	divergenceWarningTemplateConstant       = "divergence for branch %s could not be computed: %v"
	divergenceConcurrencyLimitConstant      = 4
)

// ErrDivergenceCounterNotConfigured indicates the resolver was constructed without a counter.
var ErrDivergenceCounterNotConfigured = errors.New(divergenceCounterMissingMessageConstant)

// DivergenceCounter counts commits reachable from one reference but not another.
type DivergenceCounter interface {
	CountReachable(executionContext context.Context, repositoryPath string, fromReference string, excludingReference string) (int, error)
}

// DivergenceWarning reports a branch whose ahead/behind counts could not be resolved.
//
// Warnings are isolated per branch: the affected branch keeps zero counts and
// the remaining branches resolve normally.
type DivergenceWarning struct {
	BranchName string
	Cause      error
}

// Error describes the per-branch computation failure.
func (warning DivergenceWarning) Error() string {
	return fmt.Sprintf(divergenceWarningTemplateConstant, warning.BranchName, warning.Cause)
}

// Unwrap exposes the underlying failure cause.
func (warning DivergenceWarning) Unwrap() error {
	return warning.Cause
}

// Resolve deduplicates local/remote branch pairs.
//
// Every record whose name appears as another record's upstream is suppressed:
// when a local branch tracks origin/feature, the listing entry named
// origin/feature is redundant with the local entry. Removal is by name
// membership in the upstream set, not by verified pairing, so two unrelated
// branches that collide under this rule are both suppressed.
func Resolve(listedBranches []Branch) []Branch {
	upstreamNames := make(map[string]struct{}, len(listedBranches))
	for _, listedBranch := range listedBranches {
		if len(listedBranch.Upstream) > 0 {
			upstreamNames[listedBranch.Upstream] = struct{}{}
		}
	}

	resolvedBranches := make([]Branch, 0, len(listedBranches))
	for _, listedBranch := range listedBranches {
		if _, suppressed := upstreamNames[listedBranch.Name]; suppressed {
			continue
		}
		resolvedBranches = append(resolvedBranches, listedBranch)
	}
	return resolvedBranches
}

// Resolver populates ahead/behind divergence counts through a DivergenceCounter.
type Resolver struct {
	counter          DivergenceCounter
	concurrencyLimit int
}

// NewResolver constructs a Resolver from the provided counter.
func NewResolver(counter DivergenceCounter) (*Resolver, error) {
	if counter == nil {
		return nil, ErrDivergenceCounterNotConfigured
	}
	return &Resolver{counter: counter, concurrencyLimit: divergenceConcurrencyLimitConstant}, nil
}

// ComputeDivergence returns a new collection with ahead/behind populated for
// every branch that tracks an upstream.
//
// Ahead counts commits reachable from the branch but not its upstream; behind
// counts the reverse. The two queries per branch are independent and are
// dispatched concurrently. A failed query leaves its branch at zero counts and
// produces a warning instead of aborting the remaining branches.
func (resolver *Resolver) ComputeDivergence(executionContext context.Context, repositoryPath string, listedBranches []Branch) ([]Branch, []DivergenceWarning) {
	resolvedBranches := make([]Branch, len(listedBranches))
	copy(resolvedBranches, listedBranches)

	branchFailures := make([]error, len(resolvedBranches))
	var failureMutex sync.Mutex
	recordFailure := func(branchIndex int, failure error) {
		failureMutex.Lock()
		defer failureMutex.Unlock()
		if branchFailures[branchIndex] == nil {
			branchFailures[branchIndex] = failure
		}
	}

	var divergenceGroup errgroup.Group
	divergenceGroup.SetLimit(resolver.concurrencyLimit)
	for branchIndex := range resolvedBranches {
		trackedBranch := resolvedBranches[branchIndex]
		if len(trackedBranch.Upstream) == 0 {
			continue
		}

		divergenceGroup.Go(func() error {
			aheadCount, countError := resolver.counter.CountReachable(executionContext, repositoryPath, trackedBranch.Name, trackedBranch.Upstream)
			if countError != nil {
				recordFailure(branchIndex, countError)
				return nil
			}
			resolvedBranches[branchIndex].Ahead = aheadCount
			return nil
		})
		divergenceGroup.Go(func() error {
			behindCount, countError := resolver.counter.CountReachable(executionContext, repositoryPath, trackedBranch.Upstream, trackedBranch.Name)
			if countError != nil {
				recordFailure(branchIndex, countError)
				return nil
			}
			resolvedBranches[branchIndex].Behind = behindCount
			return nil
		})
	}
	_ = divergenceGroup.Wait()

	divergenceWarnings := make([]DivergenceWarning, 0)
	for branchIndex, branchFailure := range branchFailures {
		if branchFailure == nil {
			continue
		}
		resolvedBranches[branchIndex].Ahead = 0
		resolvedBranches[branchIndex].Behind = 0
		divergenceWarnings = append(divergenceWarnings, DivergenceWarning{
			BranchName: resolvedBranches[branchIndex].Name,
			Cause:      branchFailure,
		})
	}
	return resolvedBranches, divergenceWarnings
}
