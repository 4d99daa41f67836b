package fhir

import "fmt"

// OnlyElement returns the single element of items, with cardinality errors
// carrying the FHIRPath and optional context such as "system == '<url>'".
func OnlyElement[T any](items []T, fhirPath string, additionalContext ...string) (T, error) {
	var zero T
	context := ""
	if len(additionalContext) > 0 && additionalContext[0] != "" {
		context = " where " + additionalContext[0]
	}
	if len(items) == 0 {
		return zero, NewTooFewValuesError(
			fmt.Sprintf("Too few values submitted. Expected 1 element%s.", context),
			fhirPath,
		)
	}
	if len(items) > 1 {
		return zero, NewTooManyValuesError(
			fmt.Sprintf("Too many values submitted. Expected 1 element%s.", context),
			fhirPath,
		)
	}
	return items[0], nil
}

// OnlyElementOrNil returns a pointer to the single element of items, nil if
// items is empty, and a cardinality error if there is more than one.
func OnlyElementOrNil[T any](items []T, fhirPath string, additionalContext ...string) (*T, error) {
	context := ""
	if len(additionalContext) > 0 && additionalContext[0] != "" {
		context = " where " + additionalContext[0]
	}
	if len(items) == 0 {
		return nil, nil
	}
	if len(items) > 1 {
		return nil, NewTooManyValuesError(
			fmt.Sprintf("Too many values submitted. Expected at most 1 element%s.", context),
			fhirPath,
		)
	}
	return &items[0], nil
}

// ResourcesOfType collects every bundle resource of the requested type, in
// entry order.
func ResourcesOfType[T any](bundle *Bundle) []T {
	var out []T
	for _, entry := range bundle.Entry {
		if resource, ok := entry.Resource.(T); ok {
			out = append(out, resource)
		}
	}
	return out
}

// OnlyResourceOfType returns the bundle's single resource of type T.
func OnlyResourceOfType[T any](bundle *Bundle, fhirPath string) (T, error) {
	return OnlyElement(ResourcesOfType[T](bundle), fhirPath)
}

// ResourceForFullURL finds the single entry whose fullUrl matches exactly.
// No URL normalization is performed.
func ResourceForFullURL(bundle *Bundle, fullURL string) (any, error) {
	var matches []BundleEntry
	for _, entry := range bundle.Entry {
		if entry.FullURL == fullURL {
			matches = append(matches, entry)
		}
	}
	entry, err := OnlyElement(matches, "Bundle.entry", fmt.Sprintf("fullUrl == '%s'", fullURL))
	if err != nil {
		return nil, err
	}
	return entry.Resource, nil
}

// ResolveReference resolves a bundle-internal reference to a resource of
// type T.
func ResolveReference[T any](bundle *Bundle, reference *Reference) (T, error) {
	var zero T
	if reference == nil || reference.Reference == "" {
		return zero, NewInvalidValueError("Required reference missing.", "Bundle.entry")
	}
	resource, err := ResourceForFullURL(bundle, reference.Reference)
	if err != nil {
		return zero, err
	}
	typed, ok := resource.(T)
	if !ok {
		return zero, NewInvalidValueError(
			fmt.Sprintf("Resource at '%s' is not of the expected type.", reference.Reference),
			"Bundle.entry",
		)
	}
	return typed, nil
}

// ContainedResource resolves a '#id' reference against a contained resource
// list.
func ContainedResource[T interface{ GetID() string }](contained []any, reference *Reference, fhirPath string) (T, error) {
	var zero T
	if reference == nil || len(reference.Reference) < 2 || reference.Reference[0] != '#' {
		return zero, NewInvalidValueError("Expected a local '#id' reference.", fhirPath)
	}
	id := reference.Reference[1:]
	for _, resource := range contained {
		typed, ok := resource.(T)
		if !ok {
			continue
		}
		if typed.GetID() == id {
			return typed, nil
		}
	}
	return zero, NewInvalidValueError(
		fmt.Sprintf("Contained resource with id '%s' not found.", id),
		fhirPath,
	)
}

func (m *MedicationRequest) GetID() string  { return m.ID }
func (m *MedicationDispense) GetID() string { return m.ID }
func (p *PractitionerRole) GetID() string   { return p.ID }
func (o *Organization) GetID() string       { return o.ID }
func (p *Practitioner) GetID() string       { return p.ID }

// IdentifierValueForSystem returns the value of the single identifier with
// the given system.
func IdentifierValueForSystem(identifiers []Identifier, system, fhirPath string) (string, error) {
	if identifiers == nil {
		return "", NewInvalidValueError("Required field missing in IdentifierValueForSystem.", fhirPath)
	}
	var matches []Identifier
	for _, identifier := range identifiers {
		if identifier.System == system {
			matches = append(matches, identifier)
		}
	}
	match, err := OnlyElement(matches, fhirPath, fmt.Sprintf("system == '%s'", system))
	if err != nil {
		return "", err
	}
	return match.Value, nil
}

// IdentifierValueOrNilForSystem is IdentifierValueForSystem tolerating
// absence.
func IdentifierValueOrNilForSystem(identifiers []Identifier, system, fhirPath string) (string, error) {
	var matches []Identifier
	for _, identifier := range identifiers {
		if identifier.System == system {
			matches = append(matches, identifier)
		}
	}
	match, err := OnlyElementOrNil(matches, fhirPath, fmt.Sprintf("system == '%s'", system))
	if err != nil || match == nil {
		return "", err
	}
	return match.Value, nil
}

// CodingForSystem returns the single coding with the given system.
func CodingForSystem(codings []Coding, system, fhirPath string) (*Coding, error) {
	var matches []Coding
	for _, coding := range codings {
		if coding.System == system {
			matches = append(matches, coding)
		}
	}
	match, err := OnlyElement(matches, fhirPath, fmt.Sprintf("system == '%s'", system))
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// CodingForSystemOrNil is CodingForSystem tolerating absence.
func CodingForSystemOrNil(codings []Coding, system, fhirPath string) (*Coding, error) {
	var matches []Coding
	for _, coding := range codings {
		if coding.System == system {
			matches = append(matches, coding)
		}
	}
	return OnlyElementOrNil(matches, fhirPath, fmt.Sprintf("system == '%s'", system))
}

// ExtensionForURL returns the single extension with the given url.
func ExtensionForURL(extensions []Extension, url, fhirPath string) (*Extension, error) {
	var matches []Extension
	for _, extension := range extensions {
		if extension.URL == url {
			matches = append(matches, extension)
		}
	}
	match, err := OnlyElement(matches, fhirPath, fmt.Sprintf("url == '%s'", url))
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ExtensionForURLOrNil is ExtensionForURL tolerating absence.
func ExtensionForURLOrNil(extensions []Extension, url, fhirPath string) (*Extension, error) {
	var matches []Extension
	for _, extension := range extensions {
		if extension.URL == url {
			matches = append(matches, extension)
		}
	}
	return OnlyElementOrNil(matches, fhirPath, fmt.Sprintf("url == '%s'", url))
}

// CodeableConceptCodingForSystem flattens concept codings and returns the
// single coding with the given system.
func CodeableConceptCodingForSystem(concepts []CodeableConcept, system, fhirPath string) (*Coding, error) {
	if concepts == nil {
		return nil, NewInvalidValueError("Required field missing in CodeableConceptCodingForSystem.", fhirPath)
	}
	var codings []Coding
	for _, concept := range concepts {
		codings = append(codings, concept.Coding...)
	}
	return CodingForSystem(codings, system, fhirPath+".coding")
}

// CodeableConceptCodingForSystemOrNil is CodeableConceptCodingForSystem
// tolerating absence.
func CodeableConceptCodingForSystemOrNil(concepts []CodeableConcept, system, fhirPath string) (*Coding, error) {
	var codings []Coding
	for _, concept := range concepts {
		codings = append(codings, concept.Coding...)
	}
	return CodingForSystemOrNil(codings, system, fhirPath+".coding")
}

// MessageHeaderOf returns the bundle's single MessageHeader.
func MessageHeaderOf(bundle *Bundle) (*MessageHeader, error) {
	return OnlyResourceOfType[*MessageHeader](bundle, "Bundle.entry")
}

// IdentifyMessageType reads the event coding code off the message header.
func IdentifyMessageType(bundle *Bundle) (string, error) {
	header, err := MessageHeaderOf(bundle)
	if err != nil {
		return "", err
	}
	if header.EventCoding == nil {
		return "", NewInvalidValueError("MessageHeader.eventCoding missing.", "MessageHeader.eventCoding")
	}
	return header.EventCoding.Code, nil
}

// BundleIdentifierValue returns the bundle's RFC 4122 message id.
func BundleIdentifierValue(bundle *Bundle) (string, error) {
	if bundle.Identifier == nil {
		return "", NewInvalidValueError("Required field missing in BundleIdentifierValue.", "Bundle.identifier")
	}
	return IdentifierValueForSystem([]Identifier{*bundle.Identifier}, RFC4122System, "Bundle.identifier")
}

// TaskIdentifierValue returns the task's RFC 4122 message id.
func TaskIdentifierValue(task *Task) (string, error) {
	return IdentifierValueForSystem(task.Identifier, RFC4122System, "Task.identifier")
}

// ClaimIdentifierValue returns the claim's RFC 4122 message id.
func ClaimIdentifierValue(claim *Claim) (string, error) {
	return IdentifierValueForSystem(claim.Identifier, RFC4122System, "Claim.identifier")
}

type hasMedication interface {
	medication() (*CodeableConcept, *Reference)
}

func (m *MedicationRequest) medication() (*CodeableConcept, *Reference) {
	return m.MedicationCodeableConcept, m.MedicationReference
}

func (m *MedicationDispense) medication() (*CodeableConcept, *Reference) {
	return m.MedicationCodeableConcept, m.MedicationReference
}

// MedicationCoding returns the SNOMED coding for a medication, reading the
// inline codeable concept first and falling back to the referenced
// Medication resource.
func MedicationCoding(bundle *Bundle, resource hasMedication) (*Coding, error) {
	concept, reference := resource.medication()
	if concept != nil {
		return CodingForSystem(concept.Coding, SnomedSystem, "MedicationRequest.medicationCodeableConcept.coding")
	}
	medication, err := ResolveReference[*Medication](bundle, reference)
	if err != nil {
		return nil, err
	}
	if medication.Code == nil {
		return nil, NewInvalidValueError("Medication.code missing.", "Medication.code")
	}
	return CodingForSystem(medication.Code.Coding, SnomedSystem, "Medication.code.coding")
}
