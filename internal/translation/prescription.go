package translation

import (
	"github.com/shopspring/decimal"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

// Course of therapy codes carried on each medication request.
const (
	CourseOfTherapyAcute                      = "acute"
	CourseOfTherapyContinuous                 = "continuous"
	CourseOfTherapyContinuousRepeatDispensing = "continuous-repeat-dispensing"
)

const (
	prescriptionIDExtensionURL        = "https://fhir.nhs.uk/StructureDefinition/Extension-DM-PrescriptionId"
	performerSiteTypeExtensionURL     = "https://fhir.nhs.uk/StructureDefinition/Extension-DM-PerformerSiteType"
	prescriptionTypeExtensionURL      = "https://fhir.nhs.uk/StructureDefinition/Extension-DM-PrescriptionType"
	ukCoreRepeatInformationURL        = "https://fhir.hl7.org.uk/StructureDefinition/Extension-UKCore-MedicationRepeatInformation"
	epsRepeatInformationURL           = "https://fhir.nhs.uk/StructureDefinition/Extension-EPS-RepeatInformation"
	authorisationExpiryDateURL        = "authorisationExpiryDate"
	numberOfRepeatsAllowedURL         = "numberOfRepeatsAllowed"
	prescriptionShortFormNumberSystem = "https://fhir.nhs.uk/Id/prescription-order-number"
)

// ConvertBundleToPrescription builds the prescription subtree from a
// prescription-order bundle. The first medication request drives the
// prescription level fields; every medication request contributes a line
// item.
func ConvertBundleToPrescription(bundle *fhir.Bundle) (hl7v3.Prescription, error) {
	medicationRequests := fhir.ResourcesOfType[*fhir.MedicationRequest](bundle)
	if len(medicationRequests) == 0 {
		return hl7v3.Prescription{}, fhir.NewTooFewValuesError(
			"Too few values submitted. Expected at least 1 element.",
			"Bundle.entry.resource.ofType(MedicationRequest)",
		)
	}
	firstMedicationRequest := medicationRequests[0]
	for _, medicationRequest := range medicationRequests {
		if medicationRequest.DispenseRequest == nil {
			return hl7v3.Prescription{}, fhir.NewInvalidValueError(
				"Required field missing.",
				"MedicationRequest.dispenseRequest",
			)
		}
	}

	communicationRequests := fhir.ResourcesOfType[*fhir.CommunicationRequest](bundle)

	id, shortFormID, err := convertPrescriptionIDs(firstMedicationRequest)
	if err != nil {
		return hl7v3.Prescription{}, err
	}
	prescription := hl7v3.NewPrescription(id, shortFormID)

	repeatNumber, err := convertRepeatNumber(medicationRequests)
	if err != nil {
		return hl7v3.Prescription{}, err
	}
	prescription.RepeatNumber = repeatNumber

	if performer := firstMedicationRequest.DispenseRequest.Performer; performer != nil {
		prescriptionPerformer := convertPerformer(performer)
		prescription.Performer = &prescriptionPerformer
	}

	prescription.Author, err = ConvertPrescriptionAuthor(bundle, firstMedicationRequest)
	if err != nil {
		return hl7v3.Prescription{}, err
	}
	prescription.ResponsibleParty, err = ConvertResponsibleParty(bundle, firstMedicationRequest)
	if err != nil {
		return hl7v3.Prescription{}, err
	}

	courseOfTherapyTypeCode, err := ResolveCourseOfTherapyTypeCode(medicationRequests)
	if err != nil {
		return hl7v3.Prescription{}, err
	}
	if courseOfTherapyTypeCode == CourseOfTherapyContinuousRepeatDispensing {
		component1, err := convertPrescriptionComponent1(firstMedicationRequest.DispenseRequest)
		if err != nil {
			return hl7v3.Prescription{}, err
		}
		prescription.Component1 = component1
	}

	reviewDate, err := extractReviewDate(firstMedicationRequest)
	if err != nil {
		return hl7v3.Prescription{}, err
	}
	if reviewDate != "" {
		pertinentInformation7, err := convertPrescriptionPertinentInformation7(reviewDate)
		if err != nil {
			return hl7v3.Prescription{}, err
		}
		prescription.PertinentInformation7 = pertinentInformation7
	}

	treatmentType, err := convertCourseOfTherapyType(medicationRequests)
	if err != nil {
		return hl7v3.Prescription{}, err
	}
	prescription.PertinentInformation5 = hl7v3.NewPrescriptionPertinentInformation5(treatmentType)

	pertinentInformation1, err := convertDispensingSitePreference(firstMedicationRequest)
	if err != nil {
		return hl7v3.Prescription{}, err
	}
	prescription.PertinentInformation1 = pertinentInformation1

	prescription.PertinentInformation2, err = convertLineItems(
		bundle, communicationRequests, medicationRequests, repeatNumber,
	)
	if err != nil {
		return hl7v3.Prescription{}, err
	}

	prescription.PertinentInformation8 = hl7v3.NewPrescriptionPertinentInformation8(hl7v3.NewTokenIssued(false))

	pertinentInformation4, err := convertPrescriptionType(firstMedicationRequest)
	if err != nil {
		return hl7v3.Prescription{}, err
	}
	prescription.PertinentInformation4 = pertinentInformation4

	return prescription, nil
}

func convertPrescriptionIDs(
	firstMedicationRequest *fhir.MedicationRequest,
) (hl7v3.Identifier, hl7v3.Identifier, error) {
	groupIdentifier := firstMedicationRequest.GroupIdentifier
	if groupIdentifier == nil {
		return hl7v3.Identifier{}, hl7v3.Identifier{}, fhir.NewInvalidValueError(
			"Required field missing.",
			"MedicationRequest.groupIdentifier",
		)
	}
	prescriptionIDExtension, err := fhir.ExtensionForURL(
		groupIdentifier.Extension,
		prescriptionIDExtensionURL,
		"MedicationRequest.groupIdentifier.extension",
	)
	if err != nil {
		return hl7v3.Identifier{}, hl7v3.Identifier{}, err
	}
	if prescriptionIDExtension.ValueIdentifier == nil {
		return hl7v3.Identifier{}, hl7v3.Identifier{}, fhir.NewInvalidValueError(
			"Required field missing.",
			"MedicationRequest.groupIdentifier.extension.valueIdentifier",
		)
	}
	prescriptionID := prescriptionIDExtension.ValueIdentifier.Value
	prescriptionShortFormID := groupIdentifier.Value
	return hl7v3.NewGlobalIdentifier(prescriptionID),
		hl7v3.NewShortFormPrescriptionIdentifier(prescriptionShortFormID),
		nil
}

// ResolveCourseOfTherapyTypeCode reduces the course of therapy codes of all
// medication requests to a single code for the prescription. A uniform set
// resolves to its code and the acute plus continuous pair resolves to acute.
// Any other mixture is inconsistent.
func ResolveCourseOfTherapyTypeCode(medicationRequests []*fhir.MedicationRequest) (string, error) {
	uniqueCodes := make(map[string]bool)
	for _, medicationRequest := range medicationRequests {
		if medicationRequest.CourseOfTherapyType == nil {
			return "", fhir.NewInvalidValueError(
				"Required field missing.",
				"MedicationRequest.courseOfTherapyType",
			)
		}
		coding, err := fhir.OnlyElement(
			medicationRequest.CourseOfTherapyType.Coding,
			"MedicationRequest.courseOfTherapyType.coding",
		)
		if err != nil {
			return "", err
		}
		uniqueCodes[coding.Code] = true
	}

	switch {
	case len(uniqueCodes) == 1:
		for code := range uniqueCodes {
			return code, nil
		}
		panic("unreachable")
	case len(uniqueCodes) == 2 && uniqueCodes[CourseOfTherapyAcute] && uniqueCodes[CourseOfTherapyContinuous]:
		return CourseOfTherapyAcute, nil
	default:
		return "", fhir.NewInconsistentValuesError(
			"Course of therapy type must either match for all MedicationRequests or be a mixture of acute and continuous.",
			"MedicationRequest.courseOfTherapyType.coding.code",
		)
	}
}

func convertCourseOfTherapyType(
	medicationRequests []*fhir.MedicationRequest,
) (hl7v3.PrescriptionTreatmentType, error) {
	courseOfTherapyTypeCode, err := ResolveCourseOfTherapyTypeCode(medicationRequests)
	if err != nil {
		return hl7v3.PrescriptionTreatmentType{}, err
	}
	switch courseOfTherapyTypeCode {
	case CourseOfTherapyAcute:
		return hl7v3.NewPrescriptionTreatmentType(hl7v3.TreatmentTypeAcute), nil
	case CourseOfTherapyContinuous:
		return hl7v3.NewPrescriptionTreatmentType(hl7v3.TreatmentTypeContinuous), nil
	case CourseOfTherapyContinuousRepeatDispensing:
		return hl7v3.NewPrescriptionTreatmentType(hl7v3.TreatmentTypeContinuousRepeat), nil
	default:
		return hl7v3.PrescriptionTreatmentType{}, fhir.NewInvalidValueError(
			"Unhandled course of therapy type code '"+courseOfTherapyTypeCode+"'.",
			"MedicationRequest.courseOfTherapyType.coding.code",
		)
	}
}

// convertRepeatNumber computes the prescription level repeat interval. A
// repeat prescribing prescription is always [1, 1]. A repeat dispensing
// prescription runs from 1 to the highest number of issues authorised across
// all items.
func convertRepeatNumber(
	medicationRequests []*fhir.MedicationRequest,
) (*hl7v3.Interval[hl7v3.NumericValue], error) {
	courseOfTherapyTypeCode, err := ResolveCourseOfTherapyTypeCode(medicationRequests)
	if err != nil {
		return nil, err
	}

	switch courseOfTherapyTypeCode {
	case CourseOfTherapyContinuous:
		interval := hl7v3.NewInterval(hl7v3.NewNumericValue("1"), hl7v3.NewNumericValue("1"))
		return &interval, nil
	case CourseOfTherapyContinuousRepeatDispensing:
		high, err := maxRepeatNumberHighValue(medicationRequests)
		if err != nil {
			return nil, err
		}
		interval := hl7v3.NewInterval(hl7v3.NewNumericValue("1"), hl7v3.NewNumericValue(high))
		return &interval, nil
	}
	return nil, nil
}

func maxRepeatNumberHighValue(medicationRequests []*fhir.MedicationRequest) (string, error) {
	var max decimal.Decimal
	for _, medicationRequest := range medicationRequests {
		high, err := extractRepeatNumberHighValue(medicationRequest)
		if err != nil {
			return "", err
		}
		if high.GreaterThan(max) {
			max = high
		}
	}
	return max.String(), nil
}

// extractRepeatNumberHighValue returns the number of issues authorised for
// one item. The number of repeats allowed on the dispense request counts
// repeats after the first issue, so one is added. A value carried on a
// basedOn extension is already an issue count: it originates from a
// translated document and is used as is so that a reverse translation
// reproduces the signed form exactly.
func extractRepeatNumberHighValue(medicationRequest *fhir.MedicationRequest) (decimal.Decimal, error) {
	fromDispenseRequest := medicationRequest.DispenseRequest.NumberOfRepeatsAllowed
	if fromDispenseRequest == "" {
		return decimal.Decimal{}, fhir.NewInvalidValueError(
			"Number of repeats allowed is required.",
			"MedicationRequest.dispenseRequest.numberOfRepeatsAllowed",
		)
	}

	fromBasedOn, err := extractRepeatNumberHighValueFromBasedOn(medicationRequest)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if fromBasedOn != "" {
		return parseNumberOfRepeatsAllowed(fromBasedOn)
	}

	repeatsAllowed, err := parseNumberOfRepeatsAllowed(fromDispenseRequest.String())
	if err != nil {
		return decimal.Decimal{}, err
	}
	return repeatsAllowed.Add(decimal.NewFromInt(1)), nil
}

func extractRepeatNumberHighValueFromBasedOn(medicationRequest *fhir.MedicationRequest) (string, error) {
	if len(medicationRequest.BasedOn) == 0 {
		return "", nil
	}

	var basedOnExtensions []fhir.Extension
	for _, basedOn := range medicationRequest.BasedOn {
		basedOnExtensions = append(basedOnExtensions, basedOn.Extension...)
	}
	repeatInformationExtension, err := fhir.ExtensionForURLOrNil(
		basedOnExtensions,
		epsRepeatInformationURL,
		"MedicationRequest.basedOn.extension",
	)
	if err != nil || repeatInformationExtension == nil {
		return "", err
	}

	numberOfRepeatsAllowedExtension, err := fhir.ExtensionForURLOrNil(
		repeatInformationExtension.Extension,
		numberOfRepeatsAllowedURL,
		"MedicationRequest.basedOn.extension.extension",
	)
	if err != nil || numberOfRepeatsAllowedExtension == nil {
		return "", err
	}

	return numberOfRepeatsAllowedExtension.ValueInteger.String(), nil
}

func parseNumberOfRepeatsAllowed(value string) (decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fhir.NewInvalidValueError(
			"Invalid number of repeats allowed '"+value+"'.",
			"MedicationRequest.dispenseRequest.numberOfRepeatsAllowed",
		)
	}
	return parsed, nil
}

// convertPrescriptionComponent1 builds the days' supply section mandatory
// for repeat dispensing prescriptions.
func convertPrescriptionComponent1(dispenseRequest *fhir.DispenseRequest) (*hl7v3.Component1, error) {
	validityPeriod := dispenseRequest.ValidityPeriod
	expectedSupplyDuration := dispenseRequest.ExpectedSupplyDuration
	if validityPeriod == nil || expectedSupplyDuration == nil {
		return nil, fhir.NewInvalidValueError(
			"Validity period and expected supply duration are required for repeat dispensing.",
			"MedicationRequest.dispenseRequest",
		)
	}

	daysSupply := hl7v3.NewDaysSupply()

	low, err := ConvertISODateTimeToHL7V3Date(
		validityPeriod.Start,
		"MedicationRequest.dispenseRequest.validityPeriod.start",
	)
	if err != nil {
		return nil, err
	}
	high, err := ConvertISODateTimeToHL7V3Date(
		validityPeriod.End,
		"MedicationRequest.dispenseRequest.validityPeriod.end",
	)
	if err != nil {
		return nil, err
	}
	effectiveTime := hl7v3.NewInterval(low, high)
	daysSupply.EffectiveTime = &effectiveTime

	if expectedSupplyDuration.Code != "d" {
		return nil, fhir.NewInvalidValueError(
			"Expected supply duration must be specified in days.",
			"MedicationRequest.dispenseRequest.expectedSupplyDuration.code",
		)
	}
	expectedUseTime := hl7v3.NewIntervalUnanchored(expectedSupplyDuration.Value.String(), "d")
	daysSupply.ExpectedUseTime = &expectedUseTime

	component1 := hl7v3.NewComponent1(daysSupply)
	return &component1, nil
}

func convertDispensingSitePreference(
	firstMedicationRequest *fhir.MedicationRequest,
) (hl7v3.PrescriptionPertinentInformation1, error) {
	performerSiteType, err := fhir.ExtensionForURL(
		firstMedicationRequest.DispenseRequest.Extension,
		performerSiteTypeExtensionURL,
		"MedicationRequest.dispenseRequest.extension",
	)
	if err != nil {
		return hl7v3.PrescriptionPertinentInformation1{}, err
	}
	if performerSiteType.ValueCoding == nil {
		return hl7v3.PrescriptionPertinentInformation1{}, fhir.NewInvalidValueError(
			"Required field missing.",
			"MedicationRequest.dispenseRequest.extension.valueCoding",
		)
	}
	preference := hl7v3.NewDispensingSitePreference(
		hl7v3.NewDispensingSitePreferenceCode(performerSiteType.ValueCoding.Code),
	)
	return hl7v3.NewPrescriptionPertinentInformation1(preference), nil
}

func convertPrescriptionType(
	firstMedicationRequest *fhir.MedicationRequest,
) (hl7v3.PrescriptionPertinentInformation4, error) {
	prescriptionTypeExtension, err := fhir.ExtensionForURL(
		firstMedicationRequest.Extension,
		prescriptionTypeExtensionURL,
		"MedicationRequest.extension",
	)
	if err != nil {
		return hl7v3.PrescriptionPertinentInformation4{}, err
	}
	if prescriptionTypeExtension.ValueCoding == nil {
		return hl7v3.PrescriptionPertinentInformation4{}, fhir.NewInvalidValueError(
			"Required field missing.",
			"MedicationRequest.extension.valueCoding",
		)
	}
	prescriptionType := hl7v3.NewPrescriptionType(
		hl7v3.NewPrescriptionTypeCode(prescriptionTypeExtension.ValueCoding.Code),
	)
	return hl7v3.NewPrescriptionPertinentInformation4(prescriptionType), nil
}

func convertPerformer(performerReference *fhir.Reference) hl7v3.Performer {
	organization := hl7v3.NewOrganization()
	if performerReference.Identifier != nil {
		organization.ID = hl7v3.NewSdsOrganizationIdentifier(performerReference.Identifier.Value)
	}
	return hl7v3.NewPerformer(hl7v3.NewAgentOrganization(organization))
}

func extractPatientInfoText(communicationRequests []*fhir.CommunicationRequest) []hl7v3.Text {
	var texts []hl7v3.Text
	for _, communicationRequest := range communicationRequests {
		for _, payload := range communicationRequest.Payload {
			if payload.ContentString != "" {
				texts = append(texts, hl7v3.NewText(payload.ContentString))
			}
		}
	}
	return texts
}

func extractMedicationListText(
	bundle *fhir.Bundle,
	communicationRequests []*fhir.CommunicationRequest,
) ([]hl7v3.Text, error) {
	var texts []hl7v3.Text
	for _, communicationRequest := range communicationRequests {
		for _, payload := range communicationRequest.Payload {
			if payload.ContentReference == nil {
				continue
			}
			list, err := fhir.ResolveReference[*fhir.List](bundle, payload.ContentReference)
			if err != nil {
				return nil, err
			}
			for _, entry := range list.Entry {
				if entry.Item != nil && entry.Item.Display != "" {
					texts = append(texts, hl7v3.NewText(entry.Item.Display))
				}
			}
		}
	}
	return texts, nil
}

// convertLineItems builds one line item per medication request. The shared
// medication list and patient info texts appear on the first line item only.
func convertLineItems(
	bundle *fhir.Bundle,
	communicationRequests []*fhir.CommunicationRequest,
	medicationRequests []*fhir.MedicationRequest,
	repeatNumber *hl7v3.Interval[hl7v3.NumericValue],
) ([]hl7v3.PrescriptionPertinentInformation2, error) {
	medicationListText, err := extractMedicationListText(bundle, communicationRequests)
	if err != nil {
		return nil, err
	}
	patientInfoText := extractPatientInfoText(communicationRequests)

	pertinentInformation2 := make([]hl7v3.PrescriptionPertinentInformation2, 0, len(medicationRequests))
	for i, medicationRequest := range medicationRequests {
		medicationCoding, err := fhir.MedicationCoding(bundle, medicationRequest)
		if err != nil {
			return nil, err
		}
		itemMedicationListText, itemPatientInfoText := medicationListText, patientInfoText
		if i > 0 {
			itemMedicationListText, itemPatientInfoText = nil, nil
		}
		lineItem, err := ConvertMedicationRequestToLineItem(
			*medicationRequest,
			repeatNumber,
			itemMedicationListText,
			itemPatientInfoText,
			*medicationCoding,
		)
		if err != nil {
			return nil, err
		}
		pertinentInformation2 = append(pertinentInformation2, hl7v3.NewPrescriptionPertinentInformation2(lineItem))
	}
	return pertinentInformation2, nil
}

func convertPrescriptionPertinentInformation7(reviewDate string) (*hl7v3.PrescriptionPertinentInformation7, error) {
	reviewDateTimestamp, err := ConvertISODateToHL7V3Date(
		reviewDate,
		"MedicationRequest.extension.extension.valueDateTime",
	)
	if err != nil {
		return nil, err
	}
	pertinentInformation7 := hl7v3.NewPrescriptionPertinentInformation7(hl7v3.NewReviewDate(reviewDateTimestamp))
	return &pertinentInformation7, nil
}

// extractReviewDate returns the repeat authorisation expiry date, which must
// be in the future. Empty when the prescription carries no repeat
// information.
func extractReviewDate(medicationRequest *fhir.MedicationRequest) (string, error) {
	repeatInformationExtension, err := fhir.ExtensionForURLOrNil(
		medicationRequest.Extension,
		ukCoreRepeatInformationURL,
		"MedicationRequest.extension",
	)
	if err != nil || repeatInformationExtension == nil {
		return "", err
	}

	reviewDateExtension, err := fhir.ExtensionForURLOrNil(
		repeatInformationExtension.Extension,
		authorisationExpiryDateURL,
		"MedicationRequest.extension.extension",
	)
	if err != nil || reviewDateExtension == nil {
		return "", err
	}

	reviewDate := reviewDateExtension.ValueDateTime
	if !IsFutureDated(reviewDate) {
		return "", fhir.NewInvalidValueError(
			"authorisationExpiryDate is not in the future '"+reviewDate+"'.",
			"MedicationRequest.extension.extension.valueDateTime",
		)
	}

	return reviewDate, nil
}
