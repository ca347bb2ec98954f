package worktree

import (
	"fmt"
	"strings"
)

const (
	statusLineMinimumLengthConstant     = 4
	statusCodeWidthConstant             = 2
	malformedStatusLineTemplateConstant = "malformed status line %d: %q"
	untrackedStatusCodeConstant         = "??"
	unmodifiedStatusCodeConstant        = ` `
	statusRecordSeparatorConstant       = "\n"
	statusCarriageReturnSuffixConstant  = "\r"
)

// StatusEntry describes one path reported by the porcelain status listing.
type StatusEntry struct {
	StagedCode   string
	UnstagedCode string
	Path         string
}

// Untracked reports whether the entry describes an untracked path.
func (entry StatusEntry) Untracked() bool {
	return entry.StagedCode+entry.UnstagedCode == untrackedStatusCodeConstant
}

// Summary aggregates the working tree status of one repository.
//
// An empty porcelain listing is a clean worktree, not a failure: unlike branch
// listings, git status legitimately emits nothing when there is nothing to
// report.
type Summary struct {
	Clean          bool
	StagedCount    int
	UnstagedCount  int
	UntrackedCount int
	Entries        []StatusEntry
}

// ParseStatus decodes porcelain status output into a Summary.
func ParseStatus(rawText string) (Summary, error) {
	statusLines := strings.Split(rawText, statusRecordSeparatorConstant)
	parsedEntries := make([]StatusEntry, 0, len(statusLines))
	summary := Summary{}
	for lineIndex, statusLine := range statusLines {
		trimmedLine := strings.TrimSuffix(statusLine, statusCarriageReturnSuffixConstant)
		if len(trimmedLine) == 0 {
			continue
		}
		if len(trimmedLine) < statusLineMinimumLengthConstant {
			return Summary{}, fmt.Errorf(malformedStatusLineTemplateConstant, lineIndex+1, statusLine)
		}

		statusEntry := StatusEntry{
			StagedCode:   trimmedLine[0:1],
			UnstagedCode: trimmedLine[1:2],
			Path:         strings.TrimSpace(trimmedLine[statusCodeWidthConstant:]),
		}
		parsedEntries = append(parsedEntries, statusEntry)

		switch {
		case statusEntry.Untracked():
			summary.UntrackedCount++
		default:
			if statusEntry.StagedCode != unmodifiedStatusCodeConstant {
				summary.StagedCount++
			}
			if statusEntry.UnstagedCode != unmodifiedStatusCodeConstant {
				summary.UnstagedCount++
			}
		}
	}

	summary.Entries = parsedEntries
	summary.Clean = len(parsedEntries) == 0
	return summary, nil
}
