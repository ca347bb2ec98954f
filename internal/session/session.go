package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/temirov/repostate/internal/branchview"
	"github.com/temirov/repostate/internal/records"
	"github.com/temirov/repostate/internal/settings"
)

const (
	gatewayMissingMessageConstant          = "repository gateway not configured"
	settingsProviderMissingMessageConstant = "settings provider not configured"
	noActiveRepositoryMessageConstant      = "no active repository selected"
	settingsNotLoadedMessageConstant       = "repository settings not loaded"
	settingsLookupFailureTemplateConstant  = "failed to load repository settings: %w"
	currentBranchFailureTemplateConstant   = "failed to resolve current branch: %w"
	branchListingFailureTemplateConstant   = "failed to list branches: %w"
	branchDecodingFailureTemplateConstant  = "failed to decode branch records: %w"
	staleResultDiscardedLogMessageConstant = "stale reconciliation result discarded"
	divergenceWarningLogMessageConstant    = "branch divergence could not be computed"
	logFieldRepositoryIDConstant           = "repository_id"
	logFieldActiveRepositoryIDConstant     = "active_repository_id"
	logFieldBranchNameConstant             = "branch_name"
)

// ErrRepositoryGatewayNotConfigured indicates the session was constructed without a gateway.
var ErrRepositoryGatewayNotConfigured = errors.New(gatewayMissingMessageConstant)

// ErrSettingsProviderNotConfigured indicates the session was constructed without a settings provider.
var ErrSettingsProviderNotConfigured = errors.New(settingsProviderMissingMessageConstant)

// ErrNoActiveRepository indicates an operation requires SetActive to have been called.
var ErrNoActiveRepository = errors.New(noActiveRepositoryMessageConstant)

// ErrSettingsNotLoaded indicates an operation requires LoadSettings to have succeeded.
var ErrSettingsNotLoaded = errors.New(settingsNotLoadedMessageConstant)

// State enumerates the session lifecycle.
type State string

// Session lifecycle states.
const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
)

// SettingsProvider resolves persisted repository settings by identifier.
type SettingsProvider interface {
	GetRepository(repositoryID int) (settings.RepositorySetting, error)
}

// RepositoryGateway exposes the git operations the session orchestrates.
type RepositoryGateway interface {
	ListBranches(executionContext context.Context, repositoryPath string, schema records.FieldSchema) (string, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	CountReachable(executionContext context.Context, repositoryPath string, fromReference string, excludingReference string) (int, error)
}

// StateObserver receives notifications whenever published session state is replaced.
//
// Observers always see whole values: a branch collection is published only
// after divergence computation has completed for every branch.
type StateObserver interface {
	LoadedChanged(loaded bool)
	CurrentBranchChanged(branchName string)
	BranchesChanged(branches []branchview.Branch)
}

// Snapshot is a read-only copy of the published session state.
type Snapshot struct {
	RepositoryID      int
	State             State
	Loaded            bool
	CurrentBranchName string
	Branches          []branchview.Branch
}

// Dependencies enumerates the collaborators a Session requires.
type Dependencies struct {
	Gateway          RepositoryGateway
	SettingsProvider SettingsProvider
	Logger           *zap.Logger
}

// Session tracks one active repository and publishes its reconciled state.
//
// The published values are replaced wholesale under a mutex; in-flight
// reconciliations are tagged with the repository identity they were issued
// for, and results arriving after the identity changed are dropped.
type Session struct {
	gateway          RepositoryGateway
	settingsProvider SettingsProvider
	logger           *zap.Logger
	resolver         *branchview.Resolver

	stateMutex     sync.Mutex
	reconcileMutex sync.Mutex

	observers []StateObserver

	identityAssigned   bool
	repositoryID       int
	repositorySettings settings.RepositorySetting
	settingsLoaded     bool
	state              State
	currentBranchName  string
	branches           []branchview.Branch
}

// NewSession constructs a Session from the provided dependencies.
func NewSession(dependencies Dependencies) (*Session, error) {
	if dependencies.Gateway == nil {
		return nil, ErrRepositoryGatewayNotConfigured
	}
	if dependencies.SettingsProvider == nil {
		return nil, ErrSettingsProviderNotConfigured
	}
	resolvedLogger := dependencies.Logger
	if resolvedLogger == nil {
		resolvedLogger = zap.NewNop()
	}
	divergenceResolver, resolverError := branchview.NewResolver(dependencies.Gateway)
	if resolverError != nil {
		return nil, resolverError
	}
	return &Session{
		gateway:          dependencies.Gateway,
		settingsProvider: dependencies.SettingsProvider,
		logger:           resolvedLogger,
		resolver:         divergenceResolver,
		state:            StateUnloaded,
	}, nil
}

// Subscribe registers an observer for published state changes.
func (repositorySession *Session) Subscribe(observer StateObserver) {
	if observer == nil {
		return
	}
	repositorySession.stateMutex.Lock()
	defer repositorySession.stateMutex.Unlock()
	repositorySession.observers = append(repositorySession.observers, observer)
}

// SetActive selects the repository the session tracks.
//
// Choosing a different identity immediately discards the published branch
// collection and current branch name and forces the unloaded state, before
// any external call runs. Selecting the already active identity is a no-op.
func (repositorySession *Session) SetActive(repositoryID int) {
	repositorySession.stateMutex.Lock()
	if repositorySession.identityAssigned && repositorySession.repositoryID == repositoryID {
		repositorySession.stateMutex.Unlock()
		return
	}

	repositorySession.identityAssigned = true
	repositorySession.repositoryID = repositoryID
	repositorySession.repositorySettings = settings.RepositorySetting{}
	repositorySession.settingsLoaded = false
	repositorySession.state = StateUnloaded
	repositorySession.currentBranchName = ""
	repositorySession.branches = nil
	notifyObservers := repositorySession.copyObservers()
	repositorySession.stateMutex.Unlock()

	for _, observer := range notifyObservers {
		observer.LoadedChanged(false)
		observer.CurrentBranchChanged("")
		observer.BranchesChanged(nil)
	}
}

// LoadSettings resolves the active repository's persisted settings.
//
// The lookup is skipped when the session is already loaded.
func (repositorySession *Session) LoadSettings() error {
	repositorySession.stateMutex.Lock()
	if !repositorySession.identityAssigned {
		repositorySession.stateMutex.Unlock()
		return ErrNoActiveRepository
	}
	if repositorySession.state == StateLoaded && repositorySession.settingsLoaded {
		repositorySession.stateMutex.Unlock()
		return nil
	}
	requestedRepositoryID := repositorySession.repositoryID
	repositorySession.stateMutex.Unlock()

	repositorySetting, lookupError := repositorySession.settingsProvider.GetRepository(requestedRepositoryID)
	if lookupError != nil {
		return fmt.Errorf(settingsLookupFailureTemplateConstant, lookupError)
	}

	repositorySession.stateMutex.Lock()
	defer repositorySession.stateMutex.Unlock()
	if !repositorySession.identityMatches(requestedRepositoryID) {
		repositorySession.logStaleResult(requestedRepositoryID)
		return nil
	}
	repositorySession.repositorySettings = repositorySetting
	repositorySession.settingsLoaded = true
	return nil
}

// Bootstrap resolves the current branch name and transitions to the loaded state.
//
// Calls while already loaded are no-ops so repeated bootstraps never issue
// redundant external commands.
func (repositorySession *Session) Bootstrap(executionContext context.Context) error {
	repositorySession.stateMutex.Lock()
	if !repositorySession.identityAssigned {
		repositorySession.stateMutex.Unlock()
		return ErrNoActiveRepository
	}
	if repositorySession.state == StateLoaded {
		repositorySession.stateMutex.Unlock()
		return nil
	}
	if !repositorySession.settingsLoaded {
		repositorySession.stateMutex.Unlock()
		return ErrSettingsNotLoaded
	}
	requestedRepositoryID := repositorySession.repositoryID
	repositoryPath := repositorySession.repositorySettings.Path
	repositorySession.state = StateLoading
	repositorySession.stateMutex.Unlock()

	resolvedBranchName, branchError := repositorySession.gateway.GetCurrentBranch(executionContext, repositoryPath)

	repositorySession.stateMutex.Lock()
	if !repositorySession.identityMatches(requestedRepositoryID) {
		repositorySession.logStaleResult(requestedRepositoryID)
		repositorySession.stateMutex.Unlock()
		return nil
	}
	if branchError != nil {
		repositorySession.state = StateUnloaded
		repositorySession.stateMutex.Unlock()
		return fmt.Errorf(currentBranchFailureTemplateConstant, branchError)
	}
	repositorySession.currentBranchName = resolvedBranchName
	repositorySession.state = StateLoaded
	notifyObservers := repositorySession.copyObservers()
	repositorySession.stateMutex.Unlock()

	for _, observer := range notifyObservers {
		observer.CurrentBranchChanged(resolvedBranchName)
		observer.LoadedChanged(true)
	}
	return nil
}

// RefreshBranches runs one full reconciliation pass and replaces the published
// branch collection.
//
// The pass always re-fetches raw branch text regardless of the loaded flag.
// Structural parsing failures propagate to the caller; per-branch divergence
// failures are logged and leave the affected branch at zero counts.
func (repositorySession *Session) RefreshBranches(executionContext context.Context) error {
	repositorySession.reconcileMutex.Lock()
	defer repositorySession.reconcileMutex.Unlock()

	repositorySession.stateMutex.Lock()
	if !repositorySession.identityAssigned {
		repositorySession.stateMutex.Unlock()
		return ErrNoActiveRepository
	}
	if !repositorySession.settingsLoaded {
		repositorySession.stateMutex.Unlock()
		return ErrSettingsNotLoaded
	}
	requestedRepositoryID := repositorySession.repositoryID
	repositoryPath := repositorySession.repositorySettings.Path
	repositorySession.stateMutex.Unlock()

	rawBranchText, listError := repositorySession.gateway.ListBranches(executionContext, repositoryPath, branchview.BranchSchema)
	if listError != nil {
		return fmt.Errorf(branchListingFailureTemplateConstant, listError)
	}

	parsedRecords, parseError := records.ParseRecords(rawBranchText, branchview.BranchSchema)
	if parseError != nil {
		return parseError
	}

	listedBranches, conversionError := branchview.BranchesFromRecords(parsedRecords)
	if conversionError != nil {
		return fmt.Errorf(branchDecodingFailureTemplateConstant, conversionError)
	}

	dedupedBranches := branchview.Resolve(listedBranches)
	resolvedBranches, divergenceWarnings := repositorySession.resolver.ComputeDivergence(executionContext, repositoryPath, dedupedBranches)
	for _, divergenceWarning := range divergenceWarnings {
		repositorySession.logger.Warn(divergenceWarningLogMessageConstant,
			zap.String(logFieldBranchNameConstant, divergenceWarning.BranchName),
			zap.Error(divergenceWarning.Cause),
		)
	}

	repositorySession.stateMutex.Lock()
	if !repositorySession.identityMatches(requestedRepositoryID) {
		repositorySession.logStaleResult(requestedRepositoryID)
		repositorySession.stateMutex.Unlock()
		return nil
	}
	repositorySession.branches = resolvedBranches
	publishedBranches := duplicateBranches(resolvedBranches)
	notifyObservers := repositorySession.copyObservers()
	repositorySession.stateMutex.Unlock()

	for _, observer := range notifyObservers {
		observer.BranchesChanged(publishedBranches)
	}
	return nil
}

// Reload forces the unloaded state, reloads settings, and bootstraps again.
func (repositorySession *Session) Reload(executionContext context.Context) error {
	repositorySession.stateMutex.Lock()
	if !repositorySession.identityAssigned {
		repositorySession.stateMutex.Unlock()
		return ErrNoActiveRepository
	}
	repositorySession.state = StateUnloaded
	repositorySession.settingsLoaded = false
	repositorySession.currentBranchName = ""
	repositorySession.branches = nil
	notifyObservers := repositorySession.copyObservers()
	repositorySession.stateMutex.Unlock()

	for _, observer := range notifyObservers {
		observer.LoadedChanged(false)
		observer.CurrentBranchChanged("")
		observer.BranchesChanged(nil)
	}

	if settingsError := repositorySession.LoadSettings(); settingsError != nil {
		return settingsError
	}
	return repositorySession.Bootstrap(executionContext)
}

// Snapshot returns a copy of the currently published state.
func (repositorySession *Session) Snapshot() Snapshot {
	repositorySession.stateMutex.Lock()
	defer repositorySession.stateMutex.Unlock()
	return Snapshot{
		RepositoryID:      repositorySession.repositoryID,
		State:             repositorySession.state,
		Loaded:            repositorySession.state == StateLoaded,
		CurrentBranchName: repositorySession.currentBranchName,
		Branches:          duplicateBranches(repositorySession.branches),
	}
}

func (repositorySession *Session) identityMatches(requestedRepositoryID int) bool {
	return repositorySession.identityAssigned && repositorySession.repositoryID == requestedRepositoryID
}

func (repositorySession *Session) logStaleResult(requestedRepositoryID int) {
	repositorySession.logger.Debug(staleResultDiscardedLogMessageConstant,
		zap.Int(logFieldRepositoryIDConstant, requestedRepositoryID),
		zap.Int(logFieldActiveRepositoryIDConstant, repositorySession.repositoryID),
	)
}

func (repositorySession *Session) copyObservers() []StateObserver {
	duplicatedObservers := make([]StateObserver, len(repositorySession.observers))
	copy(duplicatedObservers, repositorySession.observers)
	return duplicatedObservers
}

func duplicateBranches(sourceBranches []branchview.Branch) []branchview.Branch {
	if sourceBranches == nil {
		return nil
	}
	duplicatedBranches := make([]branchview.Branch, len(sourceBranches))
	copy(duplicatedBranches, sourceBranches)
	return duplicatedBranches
}
