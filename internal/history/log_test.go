package history_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repostate/internal/history"
	"github.com/temirov/repostate/internal/records"
)

type stubLogGateway struct {
	rawText        string
	err            error
	recordedRef    string
	recordedLimit  int
	recordedSchema records.FieldSchema
}

func (gateway *stubLogGateway) GetLogMeta(_ context.Context, _ string, reference string, limit int, schema records.FieldSchema) (string, error) {
	gateway.recordedRef = reference
	gateway.recordedLimit = limit
	gateway.recordedSchema = schema
	return gateway.rawText, gateway.err
}

func encodeCommitLine(fields ...string) string {
	return strings.Join(fields, "\x00")
}

func TestLogSchemaRendersLogFormatSyntax(t *testing.T) {
	require.Equal(t, "%H%x00%an%x00%ae%x00%aI%x00%s", history.LogSchema.FormatString())
}

func TestListCommitsDecodesMetadata(t *testing.T) {
	rawText := strings.Join([]string{
		encodeCommitLine("aaa111", "Alex", "alex@example.com", "2024-05-01T10:00:00+00:00", "initial commit"),
		encodeCommitLine("bbb222", "Sam", "sam@example.com", "2024-05-02T11:30:00+00:00", "add parser"),
	}, "\n") + "\n"

	gateway := &stubLogGateway{rawText: rawText}
	service, creationError := history.NewService(gateway)
	require.NoError(t, creationError)

	commits, listError := service.ListCommits(context.Background(), "/tmp/repo", "main", 2)
	require.NoError(t, listError)
	require.Len(t, commits, 2)
	require.Equal(t, history.CommitRecord{
		SHA:     "aaa111",
		Author:  "Alex",
		Email:   "alex@example.com",
		Date:    "2024-05-01T10:00:00+00:00",
		Subject: "initial commit",
	}, commits[0])

	require.Equal(t, "main", gateway.recordedRef)
	require.Equal(t, 2, gateway.recordedLimit)
	require.Equal(t, history.LogSchema.FormatString(), gateway.recordedSchema.FormatString())
}

func TestListCommitsAppliesDefaultLimit(t *testing.T) {
	gateway := &stubLogGateway{rawText: encodeCommitLine("aaa111", "Alex", "alex@example.com", "2024-05-01T10:00:00+00:00", "initial commit")}
	service, creationError := history.NewService(gateway)
	require.NoError(t, creationError)

	_, listError := service.ListCommits(context.Background(), "/tmp/repo", "main", 0)
	require.NoError(t, listError)
	require.Equal(t, 20, gateway.recordedLimit)
}

func TestListCommitsPropagatesParseErrorOnEmptyOutput(t *testing.T) {
	service, creationError := history.NewService(&stubLogGateway{rawText: ""})
	require.NoError(t, creationError)

	commits, listError := service.ListCommits(context.Background(), "/tmp/repo", "main", 5)
	require.Nil(t, commits)
	require.IsType(t, records.ParseError{}, listError)
}

func TestListCommitsValidatesInputs(t *testing.T) {
	service, creationError := history.NewService(&stubLogGateway{})
	require.NoError(t, creationError)

	_, pathError := service.ListCommits(context.Background(), " ", "main", 5)
	require.ErrorIs(t, pathError, history.ErrRepositoryPathRequired)

	_, referenceError := service.ListCommits(context.Background(), "/tmp/repo", "", 5)
	require.ErrorIs(t, referenceError, history.ErrReferenceRequired)
}
