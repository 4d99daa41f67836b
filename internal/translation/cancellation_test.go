package translation

import (
	"testing"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
)

func cancellationBundle() *fhir.Bundle {
	medicationRequest := orderMedicationRequest()
	medicationRequest.Status = "cancelled"
	medicationRequest.StatusReason = &fhir.CodeableConcept{
		Coding: []fhir.Coding{
			{
				System:  statusReasonSystem,
				Code:    "0001",
				Display: "Prescribing Error",
			},
		},
	}

	bundle := prescriptionOrderBundle(medicationRequest)
	for _, entry := range bundle.Entry {
		if practitioner, ok := entry.Resource.(*fhir.Practitioner); ok {
			practitioner.Identifier = append(practitioner.Identifier, fhir.Identifier{
				System: sdsUserIDSystem,
				Value:  "3415870201",
			})
		}
	}
	return bundle
}

func TestConvertBundleToCancellationRequest(t *testing.T) {
	cancellationRequest, err := ConvertBundleToCancellationRequest(cancellationBundle())
	if err != nil {
		t.Fatalf("ConvertBundleToCancellationRequest() error: %v", err)
	}

	if got, want := cancellationRequest.ID.Root, "AEF77AFB-7E3C-427A-8657-2C427F71A272"; got != want {
		t.Errorf("cancellation id = %q, want %q", got, want)
	}
	if got := cancellationRequest.EffectiveTime.Value; len(got) != 14 {
		t.Errorf("effective time = %q, want a 14 digit timestamp", got)
	}
	if got, want := cancellationRequest.RecordTarget.Patient.ID.Extension, "9990548609"; got != want {
		t.Errorf("record target nhs number = %q, want %q", got, want)
	}

	lineItemRef := cancellationRequest.PertinentInformation1.PertinentLineItemRef
	if got, want := lineItemRef.ID.Root, "A54219B8-F741-4C47-B662-E4F8DFA49AB6"; got != want {
		t.Errorf("line item ref = %q, want %q", got, want)
	}

	prescriptionID := cancellationRequest.PertinentInformation2.PertinentPrescriptionID
	if got, want := prescriptionID.Value.Extension, "88AF6C-C81007-00001C"; got != want {
		t.Errorf("short form prescription id = %q, want %q", got, want)
	}

	reason := cancellationRequest.PertinentInformation.PertinentCancellationReason
	if got, want := reason.Value.Code, "0001"; got != want {
		t.Errorf("cancellation reason code = %q, want %q", got, want)
	}
	if got, want := reason.Text.Value, "Prescribing Error"; got != want {
		t.Errorf("cancellation reason text = %q, want %q", got, want)
	}

	originalRef := cancellationRequest.PertinentInformation3.PertinentOriginalPrescriptionRef
	if got, want := originalRef.ID.Root, "A5B9DC81-CCF4-4DAB-B887-3D88E557FEBB"; got != want {
		t.Errorf("original prescription ref = %q, want %q", got, want)
	}

	author := cancellationRequest.Author.AgentPerson
	if got, want := author.AgentPerson.ID.Extension, "3415870201"; got != want {
		t.Errorf("author sds user id = %q, want %q", got, want)
	}
	if author.RepresentedOrganization.HealthCareProviderLicense != nil {
		t.Error("cancellation author must not carry a provider license")
	}
	responsibleParty := cancellationRequest.ResponsibleParty.AgentPerson
	if got, want := responsibleParty.AgentPerson.ID.Extension, "3415870201"; got != want {
		t.Errorf("responsible party sds user id = %q, want %q", got, want)
	}
}

func TestConvertBundleToCancellationRequest_MissingStatusReason(t *testing.T) {
	bundle := cancellationBundle()
	for _, entry := range bundle.Entry {
		if medicationRequest, ok := entry.Resource.(*fhir.MedicationRequest); ok {
			medicationRequest.StatusReason = nil
		}
	}

	_, err := ConvertBundleToCancellationRequest(bundle)
	if err == nil {
		t.Fatal("expected error for missing status reason")
	}
	if got, want := err.Error(), "Required field missing."; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}
