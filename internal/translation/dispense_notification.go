package translation

import (
	"time"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
	"github.com/eprescribe/coordinator/internal/translation/dosage"
)

// ConvertBundleToDispenseNotification builds the dispense notification from
// a dispense-notification bundle. Each MedicationDispense contributes a
// supplied line item, with dispenses against the same prescription line item
// merged into one line item with multiple supplied quantities.
func ConvertBundleToDispenseNotification(bundle *fhir.Bundle) (hl7v3.DispenseNotification, error) {
	messageID, err := fhir.BundleIdentifierValue(bundle)
	if err != nil {
		return hl7v3.DispenseNotification{}, err
	}
	header, err := fhir.MessageHeaderOf(bundle)
	if err != nil {
		return hl7v3.DispenseNotification{}, err
	}

	medicationDispenses := fhir.ResourcesOfType[*fhir.MedicationDispense](bundle)
	if len(medicationDispenses) == 0 {
		return hl7v3.DispenseNotification{}, fhir.NewTooFewValuesError(
			"Too few values submitted. Expected at least 1 resource(s) of type MedicationDispense.",
			"Bundle.entry",
		)
	}
	firstMedicationDispense := medicationDispenses[0]

	practitionerRole, organization, err := dispensePerformer(bundle, firstMedicationDispense)
	if err != nil {
		return hl7v3.DispenseNotification{}, err
	}

	notification := hl7v3.NewDispenseNotification(hl7v3.NewGlobalIdentifier(messageID))

	notification.EffectiveTime, err = ConvertISODateTimeToHL7V3DateTime(
		firstMedicationDispense.WhenHandedOver, "MedicationDispense.whenHandedOver",
	)
	if err != nil {
		return hl7v3.DispenseNotification{}, err
	}

	nhsNumber, err := dispenseNhsNumber(bundle, firstMedicationDispense)
	if err != nil {
		return hl7v3.DispenseNotification{}, err
	}
	notification.RecordTarget = hl7v3.NewRecordTargetReference(hl7v3.NewNhsNumber(nhsNumber))

	payor, err := convertReimbursementAuthority(organization)
	if err != nil {
		return hl7v3.DispenseNotification{}, err
	}
	notification.PrimaryInformationRecipient = hl7v3.NewDispenseNotificationPrimaryInformationRecipient(payor)

	supplyHeader, err := convertSupplyHeader(
		bundle, messageID, medicationDispenses, practitionerRole, organization,
	)
	if err != nil {
		return hl7v3.DispenseNotification{}, err
	}
	notification.PertinentInformation1 = hl7v3.NewDispenseNotificationPertinentInformation1(supplyHeader)

	category, err := dispenseCareRecordElementCategory(medicationDispenses)
	if err != nil {
		return hl7v3.DispenseNotification{}, err
	}
	notification.PertinentInformation2 = hl7v3.NewDispenseNotificationPertinentInformation2(category)

	priorMessageRef, err := convertPriorMessageRef(header)
	if err != nil {
		return hl7v3.DispenseNotification{}, err
	}
	if priorMessageRef != nil {
		replacementOf := hl7v3.NewReplacementOf(*priorMessageRef)
		notification.ReplacementOf = &replacementOf
	}

	releaseEventRef, err := convertPriorPrescriptionReleaseEventRef(header)
	if err != nil {
		return hl7v3.DispenseNotification{}, err
	}
	notification.SequelTo = hl7v3.NewSequelTo(releaseEventRef)

	return notification, nil
}

// dispensePerformer resolves the contained practitioner role on the first
// dispense and the bundled organization it works for.
func dispensePerformer(
	bundle *fhir.Bundle,
	medicationDispense *fhir.MedicationDispense,
) (*fhir.PractitionerRole, *fhir.Organization, error) {
	if len(medicationDispense.Performer) == 0 || medicationDispense.Performer[0].Actor == nil {
		return nil, nil, fhir.NewTooFewValuesError(
			"Too few values submitted. Expected at least 1 performer.",
			"MedicationDispense.performer",
		)
	}
	practitionerRole, err := fhir.ContainedResource[*fhir.PractitionerRole](
		medicationDispense.Contained,
		medicationDispense.Performer[0].Actor,
		"MedicationDispense.performer",
	)
	if err != nil {
		return nil, nil, err
	}
	if practitionerRole.Organization == nil || practitionerRole.Organization.Reference == "" {
		return nil, nil, fhir.NewInvalidValueError(
			"practitionerRole.organization should be a Reference",
			`resource("MedicationDispense").contained("organization")`,
		)
	}
	organization, err := fhir.ResolveReference[*fhir.Organization](bundle, practitionerRole.Organization)
	if err != nil {
		return nil, nil, err
	}
	return practitionerRole, organization, nil
}

func dispenseNhsNumber(bundle *fhir.Bundle, medicationDispense *fhir.MedicationDispense) (string, error) {
	patients := fhir.ResourcesOfType[*fhir.Patient](bundle)
	if len(patients) > 0 {
		return fhir.IdentifierValueForSystem(
			patients[0].Identifier, fhir.NHSNumberSystem, "Patient.identifier.value",
		)
	}
	subject := medicationDispense.Subject
	if subject == nil || subject.Identifier == nil || subject.Identifier.Value == "" {
		return "", fhir.NewInvalidValueError("Required field missing.", "MedicationDispense.subject.identifier")
	}
	return subject.Identifier.Value, nil
}

// convertReimbursementAuthority reads the payor off the dispensing site's
// organisation relationships extension.
func convertReimbursementAuthority(organization *fhir.Organization) (hl7v3.AgentOrganization, error) {
	relationships, err := fhir.ExtensionForURLOrNil(
		organization.Extension, organisationRelationshipsURL, "Organization.extension",
	)
	if err != nil {
		return hl7v3.AgentOrganization{}, err
	}
	if relationships == nil {
		return hl7v3.AgentOrganization{}, fhir.NewInvalidValueError(
			"The dispense notification is missing the reimbursement authority and it should be provided.",
			"Organization.extension",
		)
	}
	commissionedBy, err := fhir.ExtensionForURLOrNil(
		relationships.Extension, reimbursementAuthorityURL, "Organization.extension[0].extension[0]",
	)
	if err != nil {
		return hl7v3.AgentOrganization{}, err
	}
	if commissionedBy == nil || commissionedBy.ValueIdentifier == nil {
		return hl7v3.AgentOrganization{}, fhir.NewInvalidValueError(
			"The dispense notification is missing the ODS code for the reimbursement authority and it should be provided.",
			"Organization.extension[0].extension[0]",
		)
	}

	payor := hl7v3.NewOrganization()
	payor.ID = hl7v3.NewSdsOrganizationIdentifier(commissionedBy.ValueIdentifier.Value)
	code := hl7v3.OrganizationTypeNotSpecified
	payor.Code = &code
	return hl7v3.NewAgentOrganization(payor), nil
}

func convertSupplyHeader(
	bundle *fhir.Bundle,
	messageID string,
	medicationDispenses []*fhir.MedicationDispense,
	practitionerRole *fhir.PractitionerRole,
	organization *fhir.Organization,
) (hl7v3.DispenseNotificationSupplyHeader, error) {
	firstMedicationDispense := medicationDispenses[0]
	firstMedicationRequest, err := authorizingMedicationRequest(firstMedicationDispense)
	if err != nil {
		return hl7v3.DispenseNotificationSupplyHeader{}, err
	}

	agentPerson, err := convertContainedAgentPerson(practitionerRole, organization)
	if err != nil {
		return hl7v3.DispenseNotificationSupplyHeader{}, err
	}
	author := hl7v3.NewPrescriptionAuthor()
	author.Time = ConvertTimeToHL7V3DateTime(time.Now())
	author.AgentPerson = agentPerson

	supplyHeader := hl7v3.NewDispenseNotificationSupplyHeader(hl7v3.NewGlobalIdentifier(messageID), author)

	supplyHeader.RepeatNumber, err = supplyHeaderRepeatNumber(firstMedicationRequest)
	if err != nil {
		return hl7v3.DispenseNotificationSupplyHeader{}, err
	}

	supplyHeader.PertinentInformation1, err = convertSuppliedLineItems(bundle, medicationDispenses)
	if err != nil {
		return hl7v3.DispenseNotificationSupplyHeader{}, err
	}

	supplyHeader.PertinentInformation2, err = convertSupplyHeaderNonDispensingReason(medicationDispenses)
	if err != nil {
		return hl7v3.DispenseNotificationSupplyHeader{}, err
	}

	prescriptionStatus, err := convertPrescriptionStatus(firstMedicationDispense)
	if err != nil {
		return hl7v3.DispenseNotificationSupplyHeader{}, err
	}
	supplyHeader.PertinentInformation3 = hl7v3.NewSupplyHeaderPertinentInformation3(prescriptionStatus)

	if firstMedicationRequest.GroupIdentifier == nil {
		return hl7v3.DispenseNotificationSupplyHeader{}, fhir.NewInvalidValueError(
			"Required field missing.", "MedicationRequest.groupIdentifier",
		)
	}
	supplyHeader.PertinentInformation4 = hl7v3.NewSupplyHeaderPertinentInformation4(
		hl7v3.NewPrescriptionID(firstMedicationRequest.GroupIdentifier.Value),
	)

	priorPrescriptionRef, err := convertOriginalPrescriptionRef(firstMedicationRequest)
	if err != nil {
		return hl7v3.DispenseNotificationSupplyHeader{}, err
	}
	supplyHeader.InFulfillmentOf = hl7v3.NewInFulfillmentOf(priorPrescriptionRef)

	return supplyHeader, nil
}

func authorizingMedicationRequest(medicationDispense *fhir.MedicationDispense) (*fhir.MedicationRequest, error) {
	if len(medicationDispense.AuthorizingPrescription) == 0 {
		return nil, fhir.NewTooFewValuesError(
			"Too few values submitted. Expected at least 1 authorizing prescription.",
			"MedicationDispense.authorizingPrescription",
		)
	}
	return fhir.ContainedResource[*fhir.MedicationRequest](
		medicationDispense.Contained,
		&medicationDispense.AuthorizingPrescription[0],
		"MedicationDispense.authorizingPrescription",
	)
}

// supplyHeaderRepeatNumber carries the issue interval for repeat dispensing
// prescriptions, read off the repeat information extension on the
// authorizing prescription's basedOn reference.
func supplyHeaderRepeatNumber(medicationRequest *fhir.MedicationRequest) (*hl7v3.Interval[hl7v3.NumericValue], error) {
	if len(medicationRequest.BasedOn) == 0 {
		return nil, nil
	}
	repeatInformation, err := fhir.ExtensionForURLOrNil(
		medicationRequest.BasedOn[0].Extension,
		epsRepeatInformationURL,
		"MedicationDispense.contained.MedicationRequest.basedOn.extension",
	)
	if err != nil || repeatInformation == nil {
		return nil, err
	}
	return repeatNumberFromRepeatInformation(
		repeatInformation,
		"MedicationDispense.contained.MedicationRequest.basedOn.extension",
	)
}

// convertSuppliedLineItems merges dispenses of the same prescription line
// item into a single supplied line item carrying one component per supplied
// quantity.
func convertSuppliedLineItems(
	bundle *fhir.Bundle,
	medicationDispenses []*fhir.MedicationDispense,
) ([]hl7v3.DispenseNotificationSupplyHeaderPertinentInformation1, error) {
	var mapped []hl7v3.DispenseNotificationSupplyHeaderPertinentInformation1
	for _, medicationDispense := range medicationDispenses {
		medicationRequest, err := authorizingMedicationRequest(medicationDispense)
		if err != nil {
			return nil, err
		}
		lineItemID, err := fhir.IdentifierValueForSystem(
			medicationRequest.Identifier, lineItemNumberSystem, "MedicationDispense.contained[0].identifier",
		)
		if err != nil {
			return nil, err
		}

		merged := false
		for i := range mapped {
			lineItem := &mapped[i].PertinentSuppliedLineItem
			if lineItem.InFulfillmentOf.PriorOriginalItemRef.ID.Root == hl7v3.NewGlobalIdentifier(lineItemID).Root {
				component, err := convertSuppliedLineItemComponent(bundle, medicationDispense)
				if err != nil {
					return nil, err
				}
				lineItem.Component = append(lineItem.Component, component)
				merged = true
				break
			}
		}
		if merged {
			continue
		}

		lineItem, err := convertSuppliedLineItem(bundle, medicationDispense, medicationRequest, lineItemID)
		if err != nil {
			return nil, err
		}
		mapped = append(mapped, hl7v3.NewDispenseNotificationSupplyHeaderPertinentInformation1(lineItem))
	}
	return mapped, nil
}

func convertSuppliedLineItem(
	bundle *fhir.Bundle,
	medicationDispense *fhir.MedicationDispense,
	medicationRequest *fhir.MedicationRequest,
	lineItemID string,
) (hl7v3.DispenseNotificationSuppliedLineItem, error) {
	dispenseItemNumber, err := fhir.IdentifierValueForSystem(
		medicationDispense.Identifier, dispenseItemNumberSystem, "MedicationDispense.identifier",
	)
	if err != nil {
		return hl7v3.DispenseNotificationSuppliedLineItem{}, err
	}
	lineItem := hl7v3.NewDispenseNotificationSuppliedLineItem(hl7v3.NewGlobalIdentifier(dispenseItemNumber))

	lineItem.RepeatNumber, err = suppliedLineItemRepeatNumber(medicationRequest)
	if err != nil {
		return hl7v3.DispenseNotificationSuppliedLineItem{}, err
	}

	requestedMedicationCoding, err := fhir.MedicationCoding(bundle, medicationRequest)
	if err != nil {
		return hl7v3.DispenseNotificationSuppliedLineItem{}, err
	}
	lineItem.Consumable = hl7v3.NewConsumable(hl7v3.NewRequestedManufacturedProduct(
		hl7v3.NewManufacturedRequestedMaterial(
			hl7v3.NewSnomedCode(requestedMedicationCoding.Code, requestedMedicationCoding.Display),
		),
	))

	component, err := convertSuppliedLineItemComponent(bundle, medicationDispense)
	if err != nil {
		return hl7v3.DispenseNotificationSuppliedLineItem{}, err
	}
	lineItem.Component = []hl7v3.DispenseNotificationSuppliedLineItemComponent{component}

	lineItem.Component1, err = convertSuppliedLineItemComponent1(medicationRequest)
	if err != nil {
		return hl7v3.DispenseNotificationSuppliedLineItem{}, err
	}

	lineItem.PertinentInformation2, err = convertLineItemNonDispensingReason(medicationDispense)
	if err != nil {
		return hl7v3.DispenseNotificationSuppliedLineItem{}, err
	}

	itemStatus, err := convertItemStatus(medicationDispense)
	if err != nil {
		return hl7v3.DispenseNotificationSuppliedLineItem{}, err
	}
	lineItem.PertinentInformation3 = hl7v3.NewSuppliedLineItemPertinentInformation3(itemStatus)

	lineItem.InFulfillmentOf = hl7v3.NewSuppliedLineItemInFulfillmentOf(
		hl7v3.NewOriginalPrescriptionRef(hl7v3.NewGlobalIdentifier(lineItemID)),
	)

	return lineItem, nil
}

// suppliedLineItemRepeatNumber pairs the number of prescriptions issued with
// the incremented number of repeats allowed when the authorizing request
// carries UK Core repeat information.
func suppliedLineItemRepeatNumber(medicationRequest *fhir.MedicationRequest) (*hl7v3.Interval[hl7v3.NumericValue], error) {
	repeatInformation, err := fhir.ExtensionForURLOrNil(
		medicationRequest.Extension,
		ukCoreRepeatInformationURL,
		"MedicationDispense.contained.MedicationRequest.extension",
	)
	if err != nil || repeatInformation == nil {
		return nil, err
	}
	issuedExtension, err := fhir.ExtensionForURLOrNil(
		repeatInformation.Extension,
		numberOfPrescriptionsIssuedURL,
		"MedicationDispense.contained.MedicationRequest.extension.extension",
	)
	if err != nil || issuedExtension == nil {
		return nil, err
	}

	if medicationRequest.DispenseRequest == nil || medicationRequest.DispenseRequest.NumberOfRepeatsAllowed == "" {
		return nil, fhir.NewInvalidValueError(
			"Number of repeats allowed is required.",
			"MedicationDispense.contained.MedicationRequest.dispenseRequest.numberOfRepeatsAllowed",
		)
	}
	allowed, err := incrementNumeric(
		medicationRequest.DispenseRequest.NumberOfRepeatsAllowed.String(),
		"MedicationDispense.contained.MedicationRequest.dispenseRequest.numberOfRepeatsAllowed",
	)
	if err != nil {
		return nil, err
	}

	interval := hl7v3.NewInterval(
		hl7v3.NewNumericValue(issuedExtension.ValueUnsignedInt.String()),
		hl7v3.NewNumericValue(allowed),
	)
	return &interval, nil
}

func convertSuppliedLineItemComponent(
	bundle *fhir.Bundle,
	medicationDispense *fhir.MedicationDispense,
) (hl7v3.DispenseNotificationSuppliedLineItemComponent, error) {
	quantity, err := convertDispenseQuantity(medicationDispense.Quantity, "MedicationDispense.quantity")
	if err != nil {
		return hl7v3.DispenseNotificationSuppliedLineItemComponent{}, err
	}

	suppliedMedicationCoding, err := fhir.MedicationCoding(bundle, medicationDispense)
	if err != nil {
		return hl7v3.DispenseNotificationSuppliedLineItemComponent{}, err
	}
	product := hl7v3.NewDispenseProduct(hl7v3.NewSuppliedManufacturedProduct(
		hl7v3.NewManufacturedRequestedMaterial(
			hl7v3.NewSnomedCode(suppliedMedicationCoding.Code, suppliedMedicationCoding.Display),
		),
	))

	instruction, err := dosage.Instruction(medicationDispense.DosageInstruction)
	if err != nil {
		return hl7v3.DispenseNotificationSuppliedLineItemComponent{}, err
	}

	lineItemQuantity := hl7v3.NewDispenseNotificationSuppliedLineItemQuantity(
		quantity,
		product,
		hl7v3.NewDispenseNotificationSuppliedLineItemQuantityPertinentInformation1(
			hl7v3.NewSupplyInstructions(instruction),
		),
	)
	return hl7v3.NewDispenseNotificationSuppliedLineItemComponent(lineItemQuantity), nil
}

func convertSuppliedLineItemComponent1(medicationRequest *fhir.MedicationRequest) (hl7v3.DispenseNotificationSuppliedLineItemComponent1, error) {
	if medicationRequest.DispenseRequest == nil {
		return hl7v3.DispenseNotificationSuppliedLineItemComponent1{}, fhir.NewInvalidValueError(
			"Required field missing.", "MedicationDispense.contained.MedicationRequest.dispenseRequest",
		)
	}
	requestedQuantity, err := convertDispenseQuantity(
		medicationRequest.DispenseRequest.Quantity,
		"MedicationDispense.contained.MedicationRequest.dispenseRequest.quantity",
	)
	if err != nil {
		return hl7v3.DispenseNotificationSuppliedLineItemComponent1{}, err
	}
	requestedQuantityCode := hl7v3.NewSnomedCode(
		medicationRequest.DispenseRequest.Quantity.Code,
		medicationRequest.DispenseRequest.Quantity.Unit,
	)
	return hl7v3.NewDispenseNotificationSuppliedLineItemComponent1(
		hl7v3.NewSupplyRequest(requestedQuantityCode, requestedQuantity),
	), nil
}

func convertDispenseQuantity(quantity *fhir.Quantity, fhirPath string) (hl7v3.QuantityInAlternativeUnits, error) {
	if quantity == nil || quantity.Value == "" {
		return hl7v3.QuantityInAlternativeUnits{}, fhir.NewInvalidValueError("Required field missing.", fhirPath)
	}
	value := quantity.Value.String()
	return hl7v3.NewQuantityInAlternativeUnits(
		value, value, hl7v3.NewSnomedCode(quantity.Code, quantity.Unit),
	), nil
}

func convertItemStatus(medicationDispense *fhir.MedicationDispense) (hl7v3.ItemStatus, error) {
	if medicationDispense.Type == nil {
		return hl7v3.ItemStatus{}, fhir.NewInvalidValueError("Required field missing.", "MedicationDispense.type")
	}
	coding, err := fhir.CodingForSystem(
		medicationDispense.Type.Coding, medicationDispenseTypeSystem, "MedicationDispense.type.coding",
	)
	if err != nil {
		return hl7v3.ItemStatus{}, err
	}
	return hl7v3.NewItemStatus(hl7v3.NewItemStatusCode(coding.Code, coding.Display)), nil
}

func convertLineItemNonDispensingReason(medicationDispense *fhir.MedicationDispense) (*hl7v3.PertinentInformation2NonDispensingReason, error) {
	if medicationDispense.StatusReasonCodeableConcept == nil {
		return nil, nil
	}
	coding, err := fhir.CodingForSystem(
		medicationDispense.StatusReasonCodeableConcept.Coding,
		dispenseStatusReasonSystem,
		"MedicationDispense.statusReasonCodeableConcept.coding[0]",
	)
	if err != nil {
		return nil, err
	}
	pertinentInformation := hl7v3.NewPertinentInformation2NonDispensingReason(
		hl7v3.NewNonDispensingReason(coding.Code, coding.Display),
	)
	return &pertinentInformation, nil
}

// convertSupplyHeaderNonDispensingReason lifts the non-dispensing reason to
// the supply header when every dispense carries one. The reasons must agree.
func convertSupplyHeaderNonDispensingReason(medicationDispenses []*fhir.MedicationDispense) (*hl7v3.PertinentInformation2NonDispensingReason, error) {
	var reasons []*fhir.Coding
	for _, medicationDispense := range medicationDispenses {
		extension, err := fhir.ExtensionForURLOrNil(
			medicationDispense.Extension, nonDispensingReasonExtensionURL, "MedicationDispense.extension",
		)
		if err != nil {
			return nil, err
		}
		if extension == nil || extension.ValueCoding == nil {
			return nil, nil
		}
		reasons = append(reasons, extension.ValueCoding)
	}
	if len(reasons) == 0 {
		return nil, nil
	}
	for _, reason := range reasons[1:] {
		if reason.Code != reasons[0].Code {
			return nil, fhir.NewInconsistentValuesError(
				"Expected all MedicationDispenses to have the same value for MedicationDispense.extension:prescriptionNonDispensingReason",
				"MedicationDispense.extension:prescriptionNonDispensingReason",
			)
		}
	}
	pertinentInformation := hl7v3.NewPertinentInformation2NonDispensingReason(
		hl7v3.NewNonDispensingReason(reasons[0].Code, reasons[0].Display),
	)
	return &pertinentInformation, nil
}

// convertPrescriptionStatus reads the task business status off the first
// dispense.
func convertPrescriptionStatus(medicationDispense *fhir.MedicationDispense) (hl7v3.PrescriptionStatus, error) {
	extension, err := fhir.ExtensionForURL(
		medicationDispense.Extension, taskBusinessStatusExtensionURL, "MedicationDispense.extension",
	)
	if err != nil {
		return hl7v3.PrescriptionStatus{}, err
	}
	if extension.ValueCoding == nil {
		return hl7v3.PrescriptionStatus{}, fhir.NewInvalidValueError(
			"Required field missing.", "MedicationDispense.extension.valueCoding",
		)
	}
	return hl7v3.NewPrescriptionStatus(extension.ValueCoding.Code, extension.ValueCoding.Display), nil
}

func convertOriginalPrescriptionRef(medicationRequest *fhir.MedicationRequest) (hl7v3.OriginalPrescriptionRef, error) {
	if medicationRequest.GroupIdentifier == nil {
		return hl7v3.OriginalPrescriptionRef{}, fhir.NewInvalidValueError(
			"Required field missing.", "MedicationRequest.groupIdentifier",
		)
	}
	extension, err := fhir.ExtensionForURL(
		medicationRequest.GroupIdentifier.Extension,
		prescriptionIDExtensionURL,
		"MedicationRequest.groupIdentifier.extension.valueIdentifier",
	)
	if err != nil {
		return hl7v3.OriginalPrescriptionRef{}, err
	}
	if extension.ValueIdentifier == nil {
		return hl7v3.OriginalPrescriptionRef{}, fhir.NewInvalidValueError(
			"Required field missing.", "MedicationRequest.groupIdentifier.extension.valueIdentifier",
		)
	}
	return hl7v3.NewOriginalPrescriptionRef(hl7v3.NewGlobalIdentifier(extension.ValueIdentifier.Value)), nil
}

func dispenseCareRecordElementCategory(medicationDispenses []*fhir.MedicationDispense) (hl7v3.CareRecordElementCategory, error) {
	components := make([]hl7v3.CareRecordElementCategoryComponent, 0, len(medicationDispenses))
	for _, medicationDispense := range medicationDispenses {
		dispenseItemNumber, err := fhir.IdentifierValueForSystem(
			medicationDispense.Identifier, dispenseItemNumberSystem, "MedicationDispense.identifier",
		)
		if err != nil {
			return hl7v3.CareRecordElementCategory{}, err
		}
		components = append(components, hl7v3.NewCareRecordElementCategoryComponent(
			hl7v3.NewActRef("SBADM", "PRMS", hl7v3.NewGlobalIdentifier(dispenseItemNumber)),
		))
	}
	return hl7v3.NewCareRecordElementCategory(components), nil
}

func convertPriorMessageRef(header *fhir.MessageHeader) (*hl7v3.MessageRef, error) {
	extension, err := fhir.ExtensionForURLOrNil(
		header.Extension, replacementOfExtensionURL, "MessageHeader.extension",
	)
	if err != nil || extension == nil {
		return nil, err
	}
	if extension.ValueIdentifier == nil {
		return nil, fhir.NewInvalidValueError("Required field missing.", "MessageHeader.extension.valueIdentifier")
	}
	messageRef := hl7v3.NewMessageRef(hl7v3.NewGlobalIdentifier(extension.ValueIdentifier.Value))
	return &messageRef, nil
}
