package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/repostate/internal/records"
)

const (
	logGatewayMissingMessageConstant = "log gateway not configured"
	repositoryPathRequiredMessage    = "repository path must be provided"
	referenceRequiredMessageConstant = "reference name must be provided"
	logFetchFailureTemplateConstant  = "failed to read commit metadata: %w"
	defaultCommitLimitConstant       = 20
)

// Schema field names for commit metadata listings.
const (
	CommitSHAField     records.FieldName = "sha"
	CommitAuthorField  records.FieldName = "author"
	CommitEmailField   records.FieldName = "email"
	CommitDateField    records.FieldName = "date"
	CommitSubjectField records.FieldName = "subject"
)

// LogSchema is the field contract for git log metadata listings.
//
// The log format syntax spells the NUL escape %x00; the for-each-ref spelling
// %00 would be echoed literally and collapse every commit into one field.
var LogSchema = records.MustFieldSchema(
	records.LogFormatDelimiterAtom,
	records.FieldDefinition{Name: CommitSHAField, FormatAtom: "%H"},
	records.FieldDefinition{Name: CommitAuthorField, FormatAtom: "%an"},
	records.FieldDefinition{Name: CommitEmailField, FormatAtom: "%ae"},
	records.FieldDefinition{Name: CommitDateField, FormatAtom: "%aI"},
	records.FieldDefinition{Name: CommitSubjectField, FormatAtom: "%s"},
)

// ErrLogGatewayNotConfigured indicates the service was constructed without a gateway.
var ErrLogGatewayNotConfigured = errors.New(logGatewayMissingMessageConstant)

// ErrRepositoryPathRequired indicates commit metadata was requested without a path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessage)

// ErrReferenceRequired indicates commit metadata was requested without a reference.
var ErrReferenceRequired = errors.New(referenceRequiredMessageConstant)

// CommitRecord describes one commit's metadata.
type CommitRecord struct {
	SHA     string
	Author  string
	Email   string
	Date    string
	Subject string
}

// CommitsFromRecords converts decoded log records into CommitRecord values.
func CommitsFromRecords(parsedRecords []records.Record) []CommitRecord {
	convertedCommits := make([]CommitRecord, 0, len(parsedRecords))
	for _, parsedRecord := range parsedRecords {
		convertedCommits = append(convertedCommits, CommitRecord{
			SHA:     parsedRecord.Field(CommitSHAField),
			Author:  parsedRecord.Field(CommitAuthorField),
			Email:   parsedRecord.Field(CommitEmailField),
			Date:    parsedRecord.Field(CommitDateField),
			Subject: parsedRecord.Field(CommitSubjectField),
		})
	}
	return convertedCommits
}

// LogGateway fetches raw commit metadata output.
type LogGateway interface {
	GetLogMeta(executionContext context.Context, repositoryPath string, reference string, limit int, schema records.FieldSchema) (string, error)
}

// Service lists recent commit metadata through the command gateway.
type Service struct {
	gateway LogGateway
}

// NewService constructs a Service from the provided gateway.
func NewService(gateway LogGateway) (*Service, error) {
	if gateway == nil {
		return nil, ErrLogGatewayNotConfigured
	}
	return &Service{gateway: gateway}, nil
}

// ListCommits fetches and decodes commit metadata for the supplied reference.
func (service *Service) ListCommits(executionContext context.Context, repositoryPath string, reference string, limit int) ([]CommitRecord, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return nil, ErrRepositoryPathRequired
	}
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) == 0 {
		return nil, ErrReferenceRequired
	}
	resolvedLimit := limit
	if resolvedLimit <= 0 {
		resolvedLimit = defaultCommitLimitConstant
	}

	rawLogText, logError := service.gateway.GetLogMeta(executionContext, trimmedRepositoryPath, trimmedReference, resolvedLimit, LogSchema)
	if logError != nil {
		return nil, fmt.Errorf(logFetchFailureTemplateConstant, logError)
	}

	parsedRecords, parseError := records.ParseRecords(rawLogText, LogSchema)
	if parseError != nil {
		return nil, parseError
	}
	return CommitsFromRecords(parsedRecords), nil
}
