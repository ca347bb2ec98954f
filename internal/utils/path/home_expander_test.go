package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/repostate/internal/utils/path"
)

const (
	expanderTestHomeDirectoryConstant = "/home/tester"
	expanderTestFailureMessage        = "home directory unavailable"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		candidatePath string
		expectedPath  string
	}{
		{name: "tilde_only", candidatePath: "~", expectedPath: expanderTestHomeDirectoryConstant},
		{name: "tilde_prefix", candidatePath: "~/projects/repo", expectedPath: filepath.Join(expanderTestHomeDirectoryConstant, "projects/repo")},
		{name: "absolute_path_unchanged", candidatePath: "/srv/repos/primary", expectedPath: "/srv/repos/primary"},
		{name: "relative_path_unchanged", candidatePath: "projects/repo", expectedPath: "projects/repo"},
		{name: "empty_path_unchanged", candidatePath: "", expectedPath: ""},
	}

	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return expanderTestHomeDirectoryConstant, nil
	})

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			require.Equal(subtest, testCase.expectedPath, expander.Expand(testCase.candidatePath))
		})
	}
}

func TestHomeExpanderKeepsPathWhenLookupFails(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New(expanderTestFailureMessage)
	})
	require.Equal(testInstance, "~/projects/repo", expander.Expand("~/projects/repo"))
}
