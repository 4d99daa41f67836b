package fhir

import (
	"testing"
)

func TestOnlyElement(t *testing.T) {
	got, err := OnlyElement([]string{"only"}, "Task.identifier")
	if err != nil {
		t.Fatalf("OnlyElement() error = %v", err)
	}
	if got != "only" {
		t.Errorf("OnlyElement() = %q, want %q", got, "only")
	}
}

func TestOnlyElementTooFew(t *testing.T) {
	_, err := OnlyElement([]string{}, "Task.identifier")
	if err == nil {
		t.Fatal("OnlyElement() error = nil, want TooFewValuesError")
	}
	if got, want := err.Error(), "Too few values submitted. Expected 1 element."; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	pe, ok := AsProcessingError(err)
	if !ok {
		t.Fatal("AsProcessingError() = false, want true")
	}
	if got, want := pe.FHIRPath(), "Task.identifier"; got != want {
		t.Errorf("FHIRPath() = %q, want %q", got, want)
	}
}

func TestOnlyElementTooManyWithContext(t *testing.T) {
	_, err := OnlyElement([]int{1, 2}, "Task.identifier", "system == 'urn:test'")
	if err == nil {
		t.Fatal("OnlyElement() error = nil, want TooManyValuesError")
	}
	want := "Too many values submitted. Expected 1 element where system == 'urn:test'."
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestOnlyElementOrNil(t *testing.T) {
	got, err := OnlyElementOrNil([]string{}, "Task.note")
	if err != nil {
		t.Fatalf("OnlyElementOrNil() error = %v", err)
	}
	if got != nil {
		t.Errorf("OnlyElementOrNil() = %v, want nil", got)
	}

	_, err = OnlyElementOrNil([]string{"a", "b"}, "Task.note")
	if err == nil {
		t.Fatal("OnlyElementOrNil() error = nil, want TooManyValuesError")
	}
	want := "Too many values submitted. Expected at most 1 element."
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIdentifierValueForSystem(t *testing.T) {
	identifiers := []Identifier{
		{System: NHSNumberSystem, Value: "9990548609"},
		{System: OdsOrgSystem, Value: "VNE51"},
	}

	value, err := IdentifierValueForSystem(identifiers, NHSNumberSystem, "Patient.identifier")
	if err != nil {
		t.Fatalf("IdentifierValueForSystem() error = %v", err)
	}
	if got, want := value, "9990548609"; got != want {
		t.Errorf("IdentifierValueForSystem() = %q, want %q", got, want)
	}
}

func TestIdentifierValueForSystemMissing(t *testing.T) {
	identifiers := []Identifier{{System: OdsOrgSystem, Value: "VNE51"}}

	_, err := IdentifierValueForSystem(identifiers, NHSNumberSystem, "Patient.identifier")
	if err == nil {
		t.Fatal("IdentifierValueForSystem() error = nil, want TooFewValuesError")
	}
	want := "Too few values submitted. Expected 1 element where system == 'https://fhir.nhs.uk/Id/nhs-number'."
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIdentifierValueOrNilForSystem(t *testing.T) {
	value, err := IdentifierValueOrNilForSystem(nil, NHSNumberSystem, "Patient.identifier")
	if err != nil {
		t.Fatalf("IdentifierValueOrNilForSystem() error = %v", err)
	}
	if value != "" {
		t.Errorf("IdentifierValueOrNilForSystem() = %q, want empty", value)
	}
}

func TestCodingForSystem(t *testing.T) {
	codings := []Coding{
		{System: "https://fhir.nhs.uk/CodeSystem/message-event", Code: "prescription-order"},
		{System: SnomedSystem, Code: "322237000", Display: "Paracetamol 500mg soluble tablets"},
	}

	coding, err := CodingForSystem(codings, SnomedSystem, "Medication.code.coding")
	if err != nil {
		t.Fatalf("CodingForSystem() error = %v", err)
	}
	if got, want := coding.Code, "322237000"; got != want {
		t.Errorf("Code = %q, want %q", got, want)
	}
}

func TestExtensionForURL(t *testing.T) {
	extensions := []Extension{
		{URL: "https://fhir.nhs.uk/StructureDefinition/Extension-EPS-RepeatInformation", ValueString: "ignored"},
		{URL: "https://fhir.nhs.uk/StructureDefinition/Extension-DM-PrescriptionType", ValueCode: "0101"},
	}

	extension, err := ExtensionForURL(extensions, "https://fhir.nhs.uk/StructureDefinition/Extension-DM-PrescriptionType", "MedicationRequest.extension")
	if err != nil {
		t.Fatalf("ExtensionForURL() error = %v", err)
	}
	if got, want := extension.ValueCode, "0101"; got != want {
		t.Errorf("ValueCode = %q, want %q", got, want)
	}

	if _, err := ExtensionForURL(extensions, "urn:absent", "MedicationRequest.extension"); err == nil {
		t.Error("ExtensionForURL() error = nil for absent url, want error")
	}
}

func TestResourceForFullURL(t *testing.T) {
	patient := &Patient{ResourceType: "Patient", ID: "patient-1"}
	bundle := &Bundle{
		Entry: []BundleEntry{
			{FullURL: "urn:uuid:d52fbf9e-5306-46b1-bd69-5d1e0c3a1f92", Resource: patient},
		},
	}

	resource, err := ResourceForFullURL(bundle, "urn:uuid:d52fbf9e-5306-46b1-bd69-5d1e0c3a1f92")
	if err != nil {
		t.Fatalf("ResourceForFullURL() error = %v", err)
	}
	if resource != any(patient) {
		t.Errorf("ResourceForFullURL() = %v, want the patient entry", resource)
	}

	_, err = ResourceForFullURL(bundle, "urn:uuid:missing")
	if err == nil {
		t.Fatal("ResourceForFullURL() error = nil for missing fullUrl, want error")
	}
	want := "Too few values submitted. Expected 1 element where fullUrl == 'urn:uuid:missing'."
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestResolveReferenceWrongType(t *testing.T) {
	bundle := &Bundle{
		Entry: []BundleEntry{
			{FullURL: "urn:uuid:aef77afb-7e3c-427a-8657-2c427f71a271", Resource: &Patient{ResourceType: "Patient"}},
		},
	}

	_, err := ResolveReference[*Medication](bundle, &Reference{Reference: "urn:uuid:aef77afb-7e3c-427a-8657-2c427f71a271"})
	if err == nil {
		t.Fatal("ResolveReference() error = nil, want type mismatch error")
	}
	want := "Resource at 'urn:uuid:aef77afb-7e3c-427a-8657-2c427f71a271' is not of the expected type."
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestContainedResource(t *testing.T) {
	role := &PractitionerRole{ResourceType: "PractitionerRole", ID: "performer"}
	contained := []any{
		&Organization{ResourceType: "Organization", ID: "organisation"},
		role,
	}

	got, err := ContainedResource[*PractitionerRole](contained, &Reference{Reference: "#performer"}, "Task.requester")
	if err != nil {
		t.Fatalf("ContainedResource() error = %v", err)
	}
	if got != role {
		t.Errorf("ContainedResource() = %v, want the contained role", got)
	}
}

func TestContainedResourceNotLocal(t *testing.T) {
	_, err := ContainedResource[*PractitionerRole](nil, &Reference{Reference: "PractitionerRole/123"}, "Task.requester")
	if err == nil {
		t.Fatal("ContainedResource() error = nil, want error")
	}
	if got, want := err.Error(), "Expected a local '#id' reference."; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestContainedResourceNotFound(t *testing.T) {
	_, err := ContainedResource[*PractitionerRole](nil, &Reference{Reference: "#performer"}, "Task.requester")
	if err == nil {
		t.Fatal("ContainedResource() error = nil, want error")
	}
	if got, want := err.Error(), "Contained resource with id 'performer' not found."; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIdentifyMessageType(t *testing.T) {
	bundle := &Bundle{
		Entry: []BundleEntry{
			{Resource: &MessageHeader{
				ResourceType: "MessageHeader",
				EventCoding:  &Coding{System: "https://fhir.nhs.uk/CodeSystem/message-event", Code: "prescription-order"},
			}},
			{Resource: &Patient{ResourceType: "Patient"}},
		},
	}

	messageType, err := IdentifyMessageType(bundle)
	if err != nil {
		t.Fatalf("IdentifyMessageType() error = %v", err)
	}
	if got, want := messageType, "prescription-order"; got != want {
		t.Errorf("IdentifyMessageType() = %q, want %q", got, want)
	}
}

func TestIdentifyMessageTypeNoHeader(t *testing.T) {
	bundle := &Bundle{Entry: []BundleEntry{{Resource: &Patient{ResourceType: "Patient"}}}}

	_, err := IdentifyMessageType(bundle)
	if err == nil {
		t.Fatal("IdentifyMessageType() error = nil, want error")
	}
}

func TestBundleIdentifierValue(t *testing.T) {
	bundle := &Bundle{
		Identifier: &Identifier{System: RFC4122System, Value: "2b91f0b4-91a1-48d4-8f20-1aa9b0a70b91"},
	}

	value, err := BundleIdentifierValue(bundle)
	if err != nil {
		t.Fatalf("BundleIdentifierValue() error = %v", err)
	}
	if got, want := value, "2b91f0b4-91a1-48d4-8f20-1aa9b0a70b91"; got != want {
		t.Errorf("BundleIdentifierValue() = %q, want %q", got, want)
	}
}

func TestMedicationCodingInline(t *testing.T) {
	request := &MedicationRequest{
		MedicationCodeableConcept: &CodeableConcept{
			Coding: []Coding{{System: SnomedSystem, Code: "322237000", Display: "Paracetamol 500mg soluble tablets"}},
		},
	}

	coding, err := MedicationCoding(&Bundle{}, request)
	if err != nil {
		t.Fatalf("MedicationCoding() error = %v", err)
	}
	if got, want := coding.Code, "322237000"; got != want {
		t.Errorf("Code = %q, want %q", got, want)
	}
}

func TestMedicationCodingViaReference(t *testing.T) {
	bundle := &Bundle{
		Entry: []BundleEntry{
			{
				FullURL: "urn:uuid:1b33e305-1eca-42a1-8cb0-7a5f6c6a0a39",
				Resource: &Medication{
					ResourceType: "Medication",
					Code: &CodeableConcept{
						Coding: []Coding{{System: SnomedSystem, Code: "39720311000001101"}},
					},
				},
			},
		},
	}
	request := &MedicationRequest{
		MedicationReference: &Reference{Reference: "urn:uuid:1b33e305-1eca-42a1-8cb0-7a5f6c6a0a39"},
	}

	coding, err := MedicationCoding(bundle, request)
	if err != nil {
		t.Fatalf("MedicationCoding() error = %v", err)
	}
	if got, want := coding.Code, "39720311000001101"; got != want {
		t.Errorf("Code = %q, want %q", got, want)
	}
}
