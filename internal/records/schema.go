package records

import (
	"errors"
	"fmt"
	"strings"
)

const (
	schemaFieldNameEmptyMessageConstant     = "schema field names must be non-empty"
	schemaFormatAtomEmptyTemplateConstant   = "schema field %q must declare a format atom"
	schemaDuplicateFieldTemplateConstant    = "schema field %q declared more than once"
	schemaWithoutFieldsMessageConstant      = "schema must declare at least one field"
	schemaDelimiterAtomEmptyMessageConstant = "schema must declare a field delimiter atom"
)

// FieldDelimiterAtom is the format escape a git command family uses to emit a
// NUL byte between fields. The escape syntax differs per command family even
// though the emitted byte is the same.
type FieldDelimiterAtom string

// Delimiter atoms per git format syntax.
const (
	// RefFormatDelimiterAtom is the hex escape understood by for-each-ref
	// style formats.
	RefFormatDelimiterAtom FieldDelimiterAtom = "%00"
	// LogFormatDelimiterAtom is the hex escape understood by log/pretty
	// formats, which print %00 literally instead of a NUL byte.
	LogFormatDelimiterAtom FieldDelimiterAtom = "%x00"
)

// ErrSchemaWithoutFields indicates a schema was constructed without any field definitions.
var ErrSchemaWithoutFields = errors.New(schemaWithoutFieldsMessageConstant)

// ErrSchemaFieldNameEmpty indicates a schema field definition carried an empty name.
var ErrSchemaFieldNameEmpty = errors.New(schemaFieldNameEmptyMessageConstant)

// ErrSchemaDelimiterAtomEmpty indicates a schema was constructed without a delimiter atom.
var ErrSchemaDelimiterAtomEmpty = errors.New(schemaDelimiterAtomEmptyMessageConstant)

// FieldName identifies a logical field within a record.
type FieldName string

// FieldDefinition binds a logical field name to the command format atom that emits it.
type FieldDefinition struct {
	Name       FieldName
	FormatAtom string
}

// FieldSchema is the ordered contract shared by command construction and record decoding.
//
// The same schema instance builds the --format argument handed to the external
// command and maps decoded fields onto names by position, so the emission order
// and the decoding order cannot drift apart. The delimiter atom is declared per
// schema because for-each-ref and log formats spell the NUL escape differently.
type FieldSchema struct {
	delimiterAtom FieldDelimiterAtom
	definitions   []FieldDefinition
	positions     map[FieldName]int
}

// NewFieldSchema validates the supplied definitions and returns an ordered schema.
func NewFieldSchema(delimiterAtom FieldDelimiterAtom, definitions ...FieldDefinition) (FieldSchema, error) {
	if len(strings.TrimSpace(string(delimiterAtom))) == 0 {
		return FieldSchema{}, ErrSchemaDelimiterAtomEmpty
	}
	if len(definitions) == 0 {
		return FieldSchema{}, ErrSchemaWithoutFields
	}

	orderedDefinitions := make([]FieldDefinition, len(definitions))
	copy(orderedDefinitions, definitions)

	fieldPositions := make(map[FieldName]int, len(orderedDefinitions))
	for definitionIndex, definition := range orderedDefinitions {
		trimmedName := FieldName(strings.TrimSpace(string(definition.Name)))
		if len(trimmedName) == 0 {
			return FieldSchema{}, ErrSchemaFieldNameEmpty
		}
		if len(strings.TrimSpace(definition.FormatAtom)) == 0 {
			return FieldSchema{}, fmt.Errorf(schemaFormatAtomEmptyTemplateConstant, trimmedName)
		}
		if _, alreadyDeclared := fieldPositions[trimmedName]; alreadyDeclared {
			return FieldSchema{}, fmt.Errorf(schemaDuplicateFieldTemplateConstant, trimmedName)
		}
		orderedDefinitions[definitionIndex].Name = trimmedName
		fieldPositions[trimmedName] = definitionIndex
	}

	return FieldSchema{delimiterAtom: delimiterAtom, definitions: orderedDefinitions, positions: fieldPositions}, nil
}

// MustFieldSchema builds a schema from definitions known to be valid at compile time.
func MustFieldSchema(delimiterAtom FieldDelimiterAtom, definitions ...FieldDefinition) FieldSchema {
	schema, schemaError := NewFieldSchema(delimiterAtom, definitions...)
	if schemaError != nil {
		panic(schemaError)
	}
	return schema
}

// Width reports how many fields each record carries.
func (schema FieldSchema) Width() int {
	return len(schema.definitions)
}

// FieldNames returns the ordered logical field names.
func (schema FieldSchema) FieldNames() []FieldName {
	orderedNames := make([]FieldName, 0, len(schema.definitions))
	for _, definition := range schema.definitions {
		orderedNames = append(orderedNames, definition.Name)
	}
	return orderedNames
}

// FormatString joins the schema format atoms with the schema's NUL delimiter atom.
func (schema FieldSchema) FormatString() string {
	formatAtoms := make([]string, 0, len(schema.definitions))
	for _, definition := range schema.definitions {
		formatAtoms = append(formatAtoms, definition.FormatAtom)
	}
	return strings.Join(formatAtoms, string(schema.delimiterAtom))
}

// position reports the index of the named field, or -1 when the schema omits it.
func (schema FieldSchema) position(name FieldName) int {
	fieldPosition, fieldKnown := schema.positions[name]
	if !fieldKnown {
		return -1
	}
	return fieldPosition
}
