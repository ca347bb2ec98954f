package branchview_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repostate/internal/branchview"
)

type stubDivergenceCounter struct {
	mutex  sync.Mutex
	counts map[string]int
	errs   map[string]error
	calls  []string
}

func countKey(fromReference string, excludingReference string) string {
	return fmt.Sprintf("%s^%s", fromReference, excludingReference)
}

func (counter *stubDivergenceCounter) CountReachable(_ context.Context, _ string, fromReference string, excludingReference string) (int, error) {
	counter.mutex.Lock()
	defer counter.mutex.Unlock()
	key := countKey(fromReference, excludingReference)
	counter.calls = append(counter.calls, key)
	if countError, failureKnown := counter.errs[key]; failureKnown {
		return 0, countError
	}
	return counter.counts[key], nil
}

func TestResolveSuppressesTrackedUpstreamEntries(t *testing.T) {
	listedBranches := []branchview.Branch{
		{Name: "main"},
		{Name: "origin/main"},
		{Name: "feature", Upstream: "origin/feature"},
		{Name: "origin/feature"},
	}

	resolvedBranches := branchview.Resolve(listedBranches)
	require.Equal(t, []branchview.Branch{
		{Name: "main"},
		{Name: "origin/main"},
		{Name: "feature", Upstream: "origin/feature"},
	}, resolvedBranches)
}

func TestResolveIsIdempotent(t *testing.T) {
	listedBranches := []branchview.Branch{
		{Name: "main", Upstream: "origin/main"},
		{Name: "origin/main"},
		{Name: "origin/stale"},
	}

	firstPass := branchview.Resolve(listedBranches)
	secondPass := branchview.Resolve(firstPass)
	require.Equal(t, firstPass, secondPass)
}

func TestResolveRetainsUntrackedRemoteEntries(t *testing.T) {
	listedBranches := []branchview.Branch{
		{Name: "main", Upstream: "origin/main"},
		{Name: "origin/main"},
		{Name: "origin/unclaimed"},
	}

	resolvedBranches := branchview.Resolve(listedBranches)
	require.Len(t, resolvedBranches, 2)
	require.Equal(t, "main", resolvedBranches[0].Name)
	require.Equal(t, "origin/unclaimed", resolvedBranches[1].Name)
}

func TestNewResolverRequiresCounter(t *testing.T) {
	resolver, creationError := branchview.NewResolver(nil)
	require.Nil(t, resolver)
	require.ErrorIs(t, creationError, branchview.ErrDivergenceCounterNotConfigured)
}

func TestComputeDivergencePopulatesCounts(t *testing.T) {
	counter := &stubDivergenceCounter{counts: map[string]int{
		countKey("feature", "origin/feature"): 5,
		countKey("origin/feature", "feature"): 2,
	}}
	resolver, creationError := branchview.NewResolver(counter)
	require.NoError(t, creationError)

	listedBranches := []branchview.Branch{
		{Name: "main"},
		{Name: "feature", Upstream: "origin/feature"},
	}
	resolvedBranches, warnings := resolver.ComputeDivergence(context.Background(), "/tmp/repo", listedBranches)
	require.Empty(t, warnings)
	require.Equal(t, 0, resolvedBranches[0].Ahead)
	require.Equal(t, 5, resolvedBranches[1].Ahead)
	require.Equal(t, 2, resolvedBranches[1].Behind)

	// The input collection is never mutated.
	require.Equal(t, 0, listedBranches[1].Ahead)
	require.Equal(t, 0, listedBranches[1].Behind)

	require.Len(t, counter.calls, 2)
}

func TestComputeDivergenceIsolatesBranchFailures(t *testing.T) {
	counter := &stubDivergenceCounter{
		counts: map[string]int{
			countKey("stable", "origin/stable"): 1,
			countKey("origin/stable", "stable"): 3,
		},
		errs: map[string]error{
			countKey("broken", "origin/broken"): errors.New("count failed"),
		},
	}
	resolver, creationError := branchview.NewResolver(counter)
	require.NoError(t, creationError)

	listedBranches := []branchview.Branch{
		{Name: "broken", Upstream: "origin/broken"},
		{Name: "stable", Upstream: "origin/stable"},
	}
	resolvedBranches, warnings := resolver.ComputeDivergence(context.Background(), "/tmp/repo", listedBranches)

	require.Len(t, warnings, 1)
	require.Equal(t, "broken", warnings[0].BranchName)
	require.ErrorContains(t, warnings[0], "count failed")

	require.Equal(t, 0, resolvedBranches[0].Ahead)
	require.Equal(t, 0, resolvedBranches[0].Behind)
	require.Equal(t, 1, resolvedBranches[1].Ahead)
	require.Equal(t, 3, resolvedBranches[1].Behind)
}
