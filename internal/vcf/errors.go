package vcf

import (
	"errors"
	"fmt"
)

var (
	// ErrInfoFieldNotFound is returned when a requested INFO key is absent.
	// Callers also use it to detect legitimately optional fields.
	ErrInfoFieldNotFound = errors.New("info field not found")
	// ErrGenotypeFieldNotFound is returned when a FORMAT key is absent for a sample.
	ErrGenotypeFieldNotFound = errors.New("genotype field not found")
	// ErrMissingMate is returned when a breakend's mate has not been linked.
	ErrMissingMate = errors.New("missing mate")
	// ErrFieldNotFound is returned when a BEDPE extra field is not supported.
	ErrFieldNotFound = errors.New("field not found")
	// ErrMalformedInfo is returned when an INFO value cannot be interpreted.
	ErrMalformedInfo = errors.New("malformed info field")
	// ErrGenotypeMismatch is returned when a sample carries more values than
	// its FORMAT template has keys.
	ErrGenotypeMismatch = errors.New("genotype does not match format")
)

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vcf parse error at line %d: %s: %v", e.Line, e.Message, e.Err)
	}
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
