package branchview_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repostate/internal/branchview"
	"github.com/temirov/repostate/internal/records"
)

func TestBranchSchemaFormatString(t *testing.T) {
	require.Equal(t,
		"%(refname:short)%00%(upstream:short)%00%(objectname)%00%(HEAD)",
		branchview.BranchSchema.FormatString(),
	)
}

func TestBranchesFromRecords(t *testing.T) {
	rawText := strings.Join([]string{
		strings.Join([]string{"main", "origin/main", "aaa111", "*"}, "\x00"),
		strings.Join([]string{"feature", "origin/feature", "bbb222", " "}, "\x00"),
		strings.Join([]string{"origin/main", "", "aaa111", " "}, "\x00"),
	}, "\n")

	parsedRecords, parseError := records.ParseRecords(rawText, branchview.BranchSchema)
	require.NoError(t, parseError)

	convertedBranches, conversionError := branchview.BranchesFromRecords(parsedRecords)
	require.NoError(t, conversionError)
	require.Equal(t, []branchview.Branch{
		{Name: "main", Upstream: "origin/main", SHA: "aaa111", IsCurrent: true},
		{Name: "feature", Upstream: "origin/feature", SHA: "bbb222", IsCurrent: false},
		{Name: "origin/main", SHA: "aaa111", IsCurrent: false},
	}, convertedBranches)
}

func TestBranchesFromRecordsRejectsMissingName(t *testing.T) {
	parsedRecord := records.Record{
		branchview.BranchUpstreamField: "origin/main",
		branchview.BranchSHAField:      "aaa111",
	}

	convertedBranches, conversionError := branchview.BranchesFromRecords([]records.Record{parsedRecord})
	require.Nil(t, convertedBranches)
	require.ErrorIs(t, conversionError, branchview.ErrBranchNameMissing)
}
