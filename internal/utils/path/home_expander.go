package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	homeShortcutSymbolConstant = "~"
	homeShortcutSlashConstant  = "~/"
)

var homeShortcutSeparatorPrefix = homeShortcutSymbolConstant + string(os.PathSeparator)

// HomeDirectoryProvider looks up the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites leading tilde shortcuts in configured repository
// roots into absolute paths. The home directory lookup happens once and the
// result is reused for every subsequent expansion.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	cachedHomeDirectory   string
	cachedLookupError     error
	lookupGuard           sync.Once
}

// NewHomeExpander builds a HomeExpander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider builds a HomeExpander around the supplied
// lookup. A nil provider falls back to os.UserHomeDir.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand replaces a leading "~" or "~/" with the user's home directory.
// Paths without the shortcut, and all paths when the home directory cannot
// be resolved, come back unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || len(candidatePath) == 0 {
		return candidatePath
	}
	if !strings.HasPrefix(candidatePath, homeShortcutSymbolConstant) {
		return candidatePath
	}

	homeDirectory := expander.homeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	if candidatePath == homeShortcutSymbolConstant {
		return homeDirectory
	}

	for _, shortcutPrefix := range []string{homeShortcutSlashConstant, homeShortcutSeparatorPrefix} {
		if strings.HasPrefix(candidatePath, shortcutPrefix) {
			return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, shortcutPrefix))
		}
	}

	return candidatePath
}

func (expander *HomeExpander) homeDirectory() string {
	expander.lookupGuard.Do(func() {
		expander.cachedHomeDirectory, expander.cachedLookupError = expander.homeDirectoryProvider()
	})
	if expander.cachedLookupError != nil {
		return ""
	}
	return expander.cachedHomeDirectory
}
