package branchview

import (
	"errors"

	"github.com/temirov/repostate/internal/records"
)

const (
	branchNameMissingMessageConstant = "branch record missing ref name"
	currentBranchMarkerConstant      = "*"
)

// Schema field names for branch listings.
const (
	BranchNameField      records.FieldName = "name"
	BranchUpstreamField  records.FieldName = "upstream"
	BranchSHAField       records.FieldName = "sha"
	BranchIsCurrentField records.FieldName = "isCurrent"
)

// BranchSchema is the field contract for git for-each-ref branch listings.
//
// The schema instance handed to the command gateway is the same one that
// decodes the output, so field order is defined exactly once.
var BranchSchema = records.MustFieldSchema(
	records.RefFormatDelimiterAtom,
	records.FieldDefinition{Name: BranchNameField, FormatAtom: "%(refname:short)"},
	records.FieldDefinition{Name: BranchUpstreamField, FormatAtom: "%(upstream:short)"},
	records.FieldDefinition{Name: BranchSHAField, FormatAtom: "%(objectname)"},
	records.FieldDefinition{Name: BranchIsCurrentField, FormatAtom: "%(HEAD)"},
)

// ErrBranchNameMissing indicates a decoded record carried no ref name.
var ErrBranchNameMissing = errors.New(branchNameMissingMessageConstant)

// Branch describes one logical branch within a repository snapshot.
//
// Instances are created fresh on every reconciliation pass and never mutated
// afterwards; divergence computation returns new copies.
type Branch struct {
	Name      string
	Upstream  string
	SHA       string
	IsCurrent bool
	Ahead     int
	Behind    int
}

// BranchesFromRecords converts decoded branch records into Branch values.
//
// Ahead and Behind start at zero; they are populated later by the Resolver for
// branches that track an upstream.
func BranchesFromRecords(parsedRecords []records.Record) ([]Branch, error) {
	convertedBranches := make([]Branch, 0, len(parsedRecords))
	for _, parsedRecord := range parsedRecords {
		branchName := parsedRecord.Field(BranchNameField)
		if len(branchName) == 0 {
			return nil, ErrBranchNameMissing
		}
		convertedBranches = append(convertedBranches, Branch{
			Name:      branchName,
			Upstream:  parsedRecord.Field(BranchUpstreamField),
			SHA:       parsedRecord.Field(BranchSHAField),
			IsCurrent: parsedRecord.Field(BranchIsCurrentField) == currentBranchMarkerConstant,
		})
	}
	return convertedBranches, nil
}
