package translation

import (
	"time"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

const statusReasonSystem = "https://fhir.nhs.uk/CodeSystem/medicationrequest-status-reason"

// ConvertBundleToCancellationRequest builds a cancellation request for the
// single line item named by the bundle's first medication request.
func ConvertBundleToCancellationRequest(bundle *fhir.Bundle) (hl7v3.CancellationRequest, error) {
	medicationRequest, err := fhir.OnlyResourceOfType[*fhir.MedicationRequest](
		bundle, "Bundle.entry.resource.ofType(MedicationRequest)",
	)
	if err != nil {
		return hl7v3.CancellationRequest{}, err
	}

	messageID, err := fhir.BundleIdentifierValue(bundle)
	if err != nil {
		return hl7v3.CancellationRequest{}, err
	}
	cancellationRequest := hl7v3.NewCancellationRequest(
		hl7v3.NewGlobalIdentifier(messageID),
		ConvertTimeToHL7V3DateTime(time.Now()),
	)

	patient, err := fhir.OnlyResourceOfType[*fhir.Patient](bundle, "Bundle.entry.resource.ofType(Patient)")
	if err != nil {
		return hl7v3.CancellationRequest{}, err
	}
	hl7v3Patient, err := ConvertPatient(bundle, patient)
	if err != nil {
		return hl7v3.CancellationRequest{}, err
	}
	cancellationRequest.RecordTarget = hl7v3.NewRecordTarget(hl7v3Patient)

	cancellationRequest.Author, err = ConvertCancellationAuthor(bundle, medicationRequest)
	if err != nil {
		return hl7v3.CancellationRequest{}, err
	}
	cancellationRequest.ResponsibleParty, err = ConvertCancellationResponsibleParty(bundle, medicationRequest)
	if err != nil {
		return hl7v3.CancellationRequest{}, err
	}

	lineItemID, err := fhir.IdentifierValueForSystem(
		medicationRequest.Identifier, lineItemNumberSystem, "MedicationRequest.identifier",
	)
	if err != nil {
		return hl7v3.CancellationRequest{}, err
	}
	cancellationRequest.PertinentInformation1 = hl7v3.NewCancellationRequestPertinentInformation1(lineItemID)

	if medicationRequest.GroupIdentifier == nil {
		return hl7v3.CancellationRequest{}, fhir.NewInvalidValueError(
			"Required field missing.",
			"MedicationRequest.groupIdentifier",
		)
	}
	cancellationRequest.PertinentInformation2 = hl7v3.NewCancellationRequestPertinentInformation2(
		medicationRequest.GroupIdentifier.Value,
	)

	statusReason, err := convertStatusReason(medicationRequest)
	if err != nil {
		return hl7v3.CancellationRequest{}, err
	}
	cancellationRequest.PertinentInformation = hl7v3.NewCancellationRequestPertinentInformation(
		statusReason.Code, statusReason.Display,
	)

	prescriptionIDExtension, err := fhir.ExtensionForURL(
		medicationRequest.GroupIdentifier.Extension,
		prescriptionIDExtensionURL,
		"MedicationRequest.groupIdentifier.extension",
	)
	if err != nil {
		return hl7v3.CancellationRequest{}, err
	}
	if prescriptionIDExtension.ValueIdentifier == nil {
		return hl7v3.CancellationRequest{}, fhir.NewInvalidValueError(
			"Required field missing.",
			"MedicationRequest.groupIdentifier.extension.valueIdentifier",
		)
	}
	cancellationRequest.PertinentInformation3 = hl7v3.NewCancellationRequestPertinentInformation3(
		prescriptionIDExtension.ValueIdentifier.Value,
	)

	return cancellationRequest, nil
}

func convertStatusReason(medicationRequest *fhir.MedicationRequest) (*fhir.Coding, error) {
	if medicationRequest.StatusReason == nil {
		return nil, fhir.NewInvalidValueError(
			"Required field missing.",
			"MedicationRequest.statusReason",
		)
	}
	return fhir.CodingForSystem(
		medicationRequest.StatusReason.Coding,
		statusReasonSystem,
		"MedicationRequest.statusReason",
	)
}
