package worktree_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repostate/internal/worktree"
)

func TestParseStatus(t *testing.T) {
	testCases := []struct {
		name              string
		rawText           string
		expectedClean     bool
		expectedStaged    int
		expectedUnstaged  int
		expectedUntracked int
		expectError       bool
	}{
		{
			name:          "empty_output_is_clean",
			rawText:       "",
			expectedClean: true,
		},
		{
			name:              "mixed_entries",
			rawText:           "M  staged.go\n M unstaged.go\nMM both.go\n?? fresh.go\n",
			expectedStaged:    2,
			expectedUnstaged:  2,
			expectedUntracked: 1,
		},
		{
			name:        "malformed_line",
			rawText:     "M\n",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			summary, parseError := worktree.ParseStatus(testCase.rawText)
			if testCase.expectError {
				require.Error(t, parseError)
				return
			}
			require.NoError(t, parseError)
			require.Equal(t, testCase.expectedClean, summary.Clean)
			require.Equal(t, testCase.expectedStaged, summary.StagedCount)
			require.Equal(t, testCase.expectedUnstaged, summary.UnstagedCount)
			require.Equal(t, testCase.expectedUntracked, summary.UntrackedCount)
		})
	}
}

type stubStatusGateway struct {
	rawText string
	err     error
}

func (gateway *stubStatusGateway) GetStatus(context.Context, string) (string, error) {
	return gateway.rawText, gateway.err
}

func TestServiceSummarize(t *testing.T) {
	service, creationError := worktree.NewService(&stubStatusGateway{rawText: "?? new.go\n"})
	require.NoError(t, creationError)

	summary, summarizeError := service.Summarize(context.Background(), "/tmp/repo")
	require.NoError(t, summarizeError)
	require.False(t, summary.Clean)
	require.Equal(t, 1, summary.UntrackedCount)
	require.Equal(t, "new.go", summary.Entries[0].Path)
}

func TestServiceValidation(t *testing.T) {
	_, creationError := worktree.NewService(nil)
	require.ErrorIs(t, creationError, worktree.ErrStatusGatewayNotConfigured)

	service, serviceError := worktree.NewService(&stubStatusGateway{})
	require.NoError(t, serviceError)

	_, pathError := service.Summarize(context.Background(), "  ")
	require.ErrorIs(t, pathError, worktree.ErrRepositoryPathRequired)

	failingService, failingError := worktree.NewService(&stubStatusGateway{err: errors.New("status failed")})
	require.NoError(t, failingError)
	_, summarizeError := failingService.Summarize(context.Background(), "/tmp/repo")
	require.ErrorContains(t, summarizeError, "status failed")
}
