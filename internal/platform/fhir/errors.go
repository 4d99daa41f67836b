package fhir

import "errors"

// ProcessingError is a request problem attributable to the submitted
// resource. Each carries the FHIRPath of the offending element so the
// boundary can report it in an OperationOutcome expression.
type ProcessingError interface {
	error
	FHIRPath() string
	IssueCode() string
}

type processingError struct {
	message string
	path    string
	issue   string
}

func (e *processingError) Error() string    { return e.message }
func (e *processingError) FHIRPath() string { return e.path }
func (e *processingError) IssueCode() string {
	return e.issue
}

// TooFewValuesError reports a collection that was expected to contain more
// elements than it did.
type TooFewValuesError struct{ processingError }

// TooManyValuesError reports a collection that contained more elements than
// allowed.
type TooManyValuesError struct{ processingError }

// InvalidValueError reports a field whose value cannot be processed.
type InvalidValueError struct{ processingError }

// InconsistentValuesError reports fields that are individually valid but
// contradict each other.
type InconsistentValuesError struct{ processingError }

func NewTooFewValuesError(message, fhirPath string) *TooFewValuesError {
	return &TooFewValuesError{processingError{message, fhirPath, IssueTypeValue}}
}

func NewTooManyValuesError(message, fhirPath string) *TooManyValuesError {
	return &TooManyValuesError{processingError{message, fhirPath, IssueTypeValue}}
}

func NewInvalidValueError(message, fhirPath string) *InvalidValueError {
	return &InvalidValueError{processingError{message, fhirPath, IssueTypeValue}}
}

func NewInconsistentValuesError(message, fhirPath string) *InconsistentValuesError {
	return &InconsistentValuesError{processingError{message, fhirPath, IssueTypeValue}}
}

// AsProcessingError unwraps err to a ProcessingError if one is in the chain.
func AsProcessingError(err error) (ProcessingError, bool) {
	var pe ProcessingError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// ErrorToOperationOutcome maps any error to an OperationOutcome. Processing
// errors keep their FHIRPath as the issue expression; everything else
// becomes a generic exception.
func ErrorToOperationOutcome(err error) *OperationOutcome {
	if pe, ok := AsProcessingError(err); ok {
		if pe.FHIRPath() != "" {
			return NewOutcomeBuilder().
				AddIssueWithLocation(IssueSeverityError, pe.IssueCode(), pe.Error(), pe.FHIRPath()).
				Build()
		}
		return NewOutcomeBuilder().
			AddIssue(IssueSeverityError, pe.IssueCode(), pe.Error()).
			Build()
	}
	return NewOutcomeBuilder().
		AddIssue(IssueSeverityFatal, IssueTypeException, err.Error()).
		Build()
}
