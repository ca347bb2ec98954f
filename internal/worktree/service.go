package worktree

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	statusGatewayMissingMessageConstant = "status gateway not configured"
	repositoryPathRequiredMessage       = "repository path must be provided"
	statusFetchFailureTemplateConstant  = "failed to read worktree status: %w"
)

// ErrStatusGatewayNotConfigured indicates the service was constructed without a gateway.
var ErrStatusGatewayNotConfigured = errors.New(statusGatewayMissingMessageConstant)

// ErrRepositoryPathRequired indicates a status summary was requested without a path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessage)

// StatusGateway fetches raw porcelain status output.
type StatusGateway interface {
	GetStatus(executionContext context.Context, repositoryPath string) (string, error)
}

// Service summarizes working tree status through the command gateway.
type Service struct {
	gateway StatusGateway
}

// NewService constructs a Service from the provided gateway.
func NewService(gateway StatusGateway) (*Service, error) {
	if gateway == nil {
		return nil, ErrStatusGatewayNotConfigured
	}
	return &Service{gateway: gateway}, nil
}

// Summarize fetches and parses the repository's working tree status.
func (service *Service) Summarize(executionContext context.Context, repositoryPath string) (Summary, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return Summary{}, ErrRepositoryPathRequired
	}

	rawStatusText, statusError := service.gateway.GetStatus(executionContext, trimmedRepositoryPath)
	if statusError != nil {
		return Summary{}, fmt.Errorf(statusFetchFailureTemplateConstant, statusError)
	}
	return ParseStatus(rawStatusText)
}
