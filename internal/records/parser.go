package records

import (
	"fmt"
	"strings"
)

const (
	recordSeparatorConstant          = "\n"
	fieldDelimiterConstant           = "\x00"
	carriageReturnConstant           = "\r"
	emptyInputReasonConstant         = "raw text is empty"
	fieldCountMismatchReasonTemplate = "line %d carries %d fields, schema expects %d"
	parseErrorMessageTemplate        = "parse records: %s"
)

// ParseError indicates raw command output could not be decoded into records.
//
// Empty output is always a ParseError: the commands feeding this parser emit at
// least one record when they succeed, so absence of output signals an upstream
// failure that must not be mistaken for an empty collection.
type ParseError struct {
	Reason string
}

// Error describes the decoding failure.
func (parseError ParseError) Error() string {
	return fmt.Sprintf(parseErrorMessageTemplate, parseError.Reason)
}

// Record holds one decoded line as text fields keyed by schema field name.
type Record map[FieldName]string

// Field returns the named field value, or the empty string when absent.
func (record Record) Field(name FieldName) string {
	return record[name]
}

// ParseRecords decodes newline-separated, NUL-delimited raw text into records.
//
// Fields are mapped onto schema names strictly by position. Degenerate lines
// (blank, or every field empty) are dropped; any other line whose field count
// disagrees with the schema width fails the whole parse rather than producing
// a half-populated record.
func ParseRecords(rawText string, schema FieldSchema) ([]Record, error) {
	if len(strings.TrimSpace(rawText)) == 0 {
		return nil, ParseError{Reason: emptyInputReasonConstant}
	}

	rawLines := strings.Split(rawText, recordSeparatorConstant)
	parsedRecords := make([]Record, 0, len(rawLines))
	for lineIndex, rawLine := range rawLines {
		trimmedLine := strings.TrimSuffix(rawLine, carriageReturnConstant)
		lineFields := strings.Split(trimmedLine, fieldDelimiterConstant)
		if isDegenerateLine(lineFields) {
			continue
		}
		if len(lineFields) != schema.Width() {
			return nil, ParseError{Reason: fmt.Sprintf(fieldCountMismatchReasonTemplate, lineIndex+1, len(lineFields), schema.Width())}
		}

		parsedRecord := make(Record, schema.Width())
		for _, fieldName := range schema.FieldNames() {
			parsedRecord[fieldName] = lineFields[schema.position(fieldName)]
		}
		parsedRecords = append(parsedRecords, parsedRecord)
	}

	return parsedRecords, nil
}

func isDegenerateLine(lineFields []string) bool {
	for _, fieldValue := range lineFields {
		if len(strings.TrimSpace(fieldValue)) > 0 {
			return false
		}
	}
	return true
}
