package translation

import (
	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

// ConvertBundleToParentPrescription builds the full parent prescription from
// a prescription-order bundle: the administration subtree, the patient record
// target and the care record element category referencing each line item.
func ConvertBundleToParentPrescription(bundle *fhir.Bundle) (hl7v3.ParentPrescription, error) {
	messageID, err := fhir.BundleIdentifierValue(bundle)
	if err != nil {
		return hl7v3.ParentPrescription{}, err
	}

	prescription, err := ConvertBundleToPrescription(bundle)
	if err != nil {
		return hl7v3.ParentPrescription{}, err
	}

	effectiveTime, err := parentPrescriptionEffectiveTime(bundle, prescription)
	if err != nil {
		return hl7v3.ParentPrescription{}, err
	}

	parentPrescription := hl7v3.NewParentPrescription(hl7v3.NewGlobalIdentifier(messageID), effectiveTime)

	patient, err := fhir.OnlyResourceOfType[*fhir.Patient](bundle, "Bundle.entry.resource.ofType(Patient)")
	if err != nil {
		return hl7v3.ParentPrescription{}, err
	}
	hl7v3Patient, err := ConvertPatient(bundle, patient)
	if err != nil {
		return hl7v3.ParentPrescription{}, err
	}
	parentPrescription.RecordTarget = hl7v3.NewRecordTarget(hl7v3Patient)

	parentPrescription.PertinentInformation1 = hl7v3.NewParentPrescriptionPertinentInformation1(prescription)
	parentPrescription.PertinentInformation2 = convertCareRecordElementCategory(prescription)

	return parentPrescription, nil
}

// parentPrescriptionEffectiveTime is the validity period start when the
// prescriber stated one, otherwise the author time, which is already the
// signature time or now.
func parentPrescriptionEffectiveTime(
	bundle *fhir.Bundle,
	prescription hl7v3.Prescription,
) (hl7v3.Timestamp, error) {
	medicationRequests := fhir.ResourcesOfType[*fhir.MedicationRequest](bundle)
	validityPeriod := medicationRequests[0].DispenseRequest.ValidityPeriod
	if validityPeriod != nil && validityPeriod.Start != "" {
		return ConvertISODateTimeToHL7V3DateTime(
			validityPeriod.Start,
			"MedicationRequest.dispenseRequest.validityPeriod.start",
		)
	}
	return prescription.Author.Time, nil
}

// convertCareRecordElementCategory references every line item act from the
// care record category grouping.
func convertCareRecordElementCategory(
	prescription hl7v3.Prescription,
) hl7v3.ParentPrescriptionPertinentInformation2 {
	components := make([]hl7v3.CareRecordElementCategoryComponent, 0, len(prescription.PertinentInformation2))
	for _, pertinentInformation2 := range prescription.PertinentInformation2 {
		lineItem := pertinentInformation2.PertinentLineItem
		actRef := hl7v3.NewActRef(lineItem.ClassCode, lineItem.MoodCode, lineItem.ID)
		components = append(components, hl7v3.NewCareRecordElementCategoryComponent(actRef))
	}
	return hl7v3.NewParentPrescriptionPertinentInformation2(hl7v3.NewCareRecordElementCategory(components))
}
