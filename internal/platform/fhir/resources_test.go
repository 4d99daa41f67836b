package fhir

import (
	"testing"
)

func TestParseBundleRejectsWrongResourceType(t *testing.T) {
	_, err := ParseBundle([]byte(`{"resourceType":"Task"}`))
	if err == nil {
		t.Fatal("ParseBundle() error = nil, want error")
	}
	if got, want := err.Error(), "Expected resourceType 'Bundle' but got 'Task'."; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParseTaskDecodesContainedResources(t *testing.T) {
	raw := []byte(`{
		"resourceType": "Task",
		"id": "6a2624a2-321b-470e-91a6-8a7d8527dd2c",
		"contained": [
			{"resourceType": "PractitionerRole", "id": "performer"},
			{"resourceType": "Organization", "id": "organisation", "name": "The Pharmacy"}
		],
		"status": "rejected"
	}`)

	task, err := ParseTask(raw)
	if err != nil {
		t.Fatalf("ParseTask() error = %v", err)
	}
	if got, want := len(task.Contained), 2; got != want {
		t.Fatalf("len(Contained) = %d, want %d", got, want)
	}
	role, ok := task.Contained[0].(*PractitionerRole)
	if !ok {
		t.Fatalf("Contained[0] is %T, want *PractitionerRole", task.Contained[0])
	}
	if got, want := role.ID, "performer"; got != want {
		t.Errorf("role.ID = %q, want %q", got, want)
	}
	organization, ok := task.Contained[1].(*Organization)
	if !ok {
		t.Fatalf("Contained[1] is %T, want *Organization", task.Contained[1])
	}
	if got, want := organization.Name, "The Pharmacy"; got != want {
		t.Errorf("organization.Name = %q, want %q", got, want)
	}
}

func TestParseBundleDispatchesEntryResources(t *testing.T) {
	raw := []byte(`{
		"resourceType": "Bundle",
		"type": "message",
		"entry": [
			{"fullUrl": "urn:uuid:1", "resource": {"resourceType": "MessageHeader"}},
			{"fullUrl": "urn:uuid:2", "resource": {"resourceType": "Patient", "id": "patient-1"}},
			{"fullUrl": "urn:uuid:3", "resource": {"resourceType": "MedicationRequest"}}
		]
	}`)

	bundle, err := ParseBundle(raw)
	if err != nil {
		t.Fatalf("ParseBundle() error = %v", err)
	}
	if _, ok := bundle.Entry[0].Resource.(*MessageHeader); !ok {
		t.Errorf("Entry[0].Resource is %T, want *MessageHeader", bundle.Entry[0].Resource)
	}
	if _, ok := bundle.Entry[1].Resource.(*Patient); !ok {
		t.Errorf("Entry[1].Resource is %T, want *Patient", bundle.Entry[1].Resource)
	}
	if _, ok := bundle.Entry[2].Resource.(*MedicationRequest); !ok {
		t.Errorf("Entry[2].Resource is %T, want *MedicationRequest", bundle.Entry[2].Resource)
	}
}

func TestParseMedicationRequestPreservesNumericPrecision(t *testing.T) {
	raw := []byte(`{
		"resourceType": "MedicationRequest",
		"dispenseRequest": {
			"quantity": {"value": 63.20, "unit": "tablet"}
		}
	}`)

	request, err := ParseMedicationRequest(raw)
	if err != nil {
		t.Fatalf("ParseMedicationRequest() error = %v", err)
	}
	if got, want := request.DispenseRequest.Quantity.Value.String(), "63.20"; got != want {
		t.Errorf("Quantity.Value = %q, want %q", got, want)
	}
}

func TestParseClaimRejectsWrongResourceType(t *testing.T) {
	_, err := ParseClaim([]byte(`{"resourceType":"Bundle"}`))
	if err == nil {
		t.Fatal("ParseClaim() error = nil, want error")
	}
	if got, want := err.Error(), "Expected resourceType 'Claim' but got 'Bundle'."; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnmarshalResourceUnknownType(t *testing.T) {
	resource, err := UnmarshalResource([]byte(`{"resourceType":"Device","id":"dev-1"}`))
	if err != nil {
		t.Fatalf("UnmarshalResource() error = %v", err)
	}
	generic, ok := resource.(map[string]any)
	if !ok {
		t.Fatalf("UnmarshalResource() = %T, want map[string]any", resource)
	}
	if got, want := generic["id"], any("dev-1"); got != want {
		t.Errorf("id = %v, want %v", got, want)
	}
}
