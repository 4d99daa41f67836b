package translation

import (
	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

const (
	chargeExemptionSystem       = "https://fhir.nhs.uk/CodeSystem/prescription-charge-exemption"
	exemptionEvidenceSystem     = "https://fhir.nhs.uk/CodeSystem/DM-exemption-evidence"
	prescriptionChargeSystem    = "https://fhir.nhs.uk/CodeSystem/DM-prescription-charge"
	dispensingEndorsementSystem = "https://fhir.nhs.uk/CodeSystem/medicationdispense-endorsement"

	taskBusinessStatusReasonExtensionURL = "https://fhir.nhs.uk/StructureDefinition/Extension-EPS-TaskBusinessStatusReason"
	claimSequenceIdentifierExtensionURL  = "https://fhir.nhs.uk/StructureDefinition/Extension-ClaimSequenceIdentifier"
	claimMedicationRequestReferenceURL   = "https://fhir.nhs.uk/StructureDefinition/Extension-ClaimMedicationRequestReference"
	groupIdentifierExtensionURL          = "https://fhir.nhs.uk/StructureDefinition/Extension-DM-GroupIdentifier"
	groupIdentifierShortFormURL          = "shortForm"
	groupIdentifierLongFormURL           = "UUID"

	// The reimbursement authority ignores this mandatory reference on
	// claims, so a fixed placeholder is sent.
	claimReleaseEventPlaceholder = "ffffffff-ffff-4fff-bfff-ffffffffffff"
)

// ConvertClaimToDispenseClaim builds the dispense claim for a completed
// prescription. The claim carries its dispensing performer as contained
// resources and one item detail per claimed line item.
func ConvertClaimToDispenseClaim(claim *fhir.Claim) (hl7v3.DispenseClaim, error) {
	messageID, err := fhir.ClaimIdentifierValue(claim)
	if err != nil {
		return hl7v3.DispenseClaim{}, err
	}
	claimDateTime, err := ConvertISODateTimeToHL7V3DateTime(claim.Created, "Claim.created")
	if err != nil {
		return hl7v3.DispenseClaim{}, err
	}
	dispenseClaim := hl7v3.NewDispenseClaim(hl7v3.NewGlobalIdentifier(messageID), claimDateTime)

	insurance, err := fhir.OnlyElement(claim.Insurance, "Claim.insurance")
	if err != nil {
		return hl7v3.DispenseClaim{}, err
	}
	payor, err := convertPayorAgentOrganization(insurance.Coverage)
	if err != nil {
		return hl7v3.DispenseClaim{}, err
	}
	dispenseClaim.PrimaryInformationRecipient = hl7v3.NewDispenseClaimPrimaryInformationRecipient(payor)

	item, err := fhir.OnlyElement(claim.Item, "Claim.item")
	if err != nil {
		return hl7v3.DispenseClaim{}, err
	}
	supplyHeader, err := convertClaimSupplyHeader(claim, &item, messageID)
	if err != nil {
		return hl7v3.DispenseClaim{}, err
	}
	dispenseClaim.PertinentInformation1 = hl7v3.NewDispenseClaimPertinentInformation1(supplyHeader)

	replacementOf, err := fhir.ExtensionForURLOrNil(claim.Extension, replacementOfExtensionURL, "Claim.extension")
	if err != nil {
		return hl7v3.DispenseClaim{}, err
	}
	if replacementOf != nil {
		if replacementOf.ValueIdentifier == nil {
			return hl7v3.DispenseClaim{}, fhir.NewInvalidValueError(
				"Required field missing.", "Claim.extension.valueIdentifier",
			)
		}
		priorMessageRef := hl7v3.NewReplacementOf(
			hl7v3.NewMessageRef(hl7v3.NewGlobalIdentifier(replacementOf.ValueIdentifier.Value)),
		)
		dispenseClaim.ReplacementOf = &priorMessageRef
	}

	dispenseClaim.Coverage, err = convertChargeExemptionCoverage(&item)
	if err != nil {
		return hl7v3.DispenseClaim{}, err
	}

	dispenseClaim.SequelTo = hl7v3.NewSequelTo(hl7v3.NewPriorPrescriptionReleaseEventRef(
		hl7v3.NewGlobalIdentifier(claimReleaseEventPlaceholder),
	))

	return dispenseClaim, nil
}

// convertPayorAgentOrganization maps the coverage's identifier reference to
// the payor organization.
func convertPayorAgentOrganization(coverage *fhir.Reference) (hl7v3.AgentOrganization, error) {
	if coverage == nil || coverage.Identifier == nil {
		return hl7v3.AgentOrganization{}, fhir.NewInvalidValueError(
			"Required field missing.", "Claim.insurance.coverage.identifier",
		)
	}
	payor := hl7v3.NewOrganization()
	payor.ID = hl7v3.NewSdsOrganizationIdentifier(coverage.Identifier.Value)
	code := hl7v3.OrganizationTypeNotSpecified
	payor.Code = &code
	if coverage.Display != "" {
		name := hl7v3.NewText(coverage.Display)
		payor.Name = &name
	}
	return hl7v3.NewAgentOrganization(payor), nil
}

func convertClaimSupplyHeader(
	claim *fhir.Claim,
	item *fhir.ClaimItem,
	messageID string,
) (hl7v3.DispenseClaimSupplyHeader, error) {
	supplyHeader := hl7v3.NewDispenseClaimSupplyHeader(hl7v3.NewGlobalIdentifier(messageID))

	if len(item.Detail) == 0 {
		return hl7v3.DispenseClaimSupplyHeader{}, fhir.NewTooFewValuesError(
			"Too few values submitted. Expected at least 1 claim item detail.", "Claim.item.detail",
		)
	}

	repeatInformation, err := fhir.ExtensionForURLOrNil(
		item.Detail[0].Extension, epsRepeatInformationURL, "Claim.item.detail.extension",
	)
	if err != nil {
		return hl7v3.DispenseClaimSupplyHeader{}, err
	}
	if repeatInformation != nil {
		supplyHeader.RepeatNumber, err = claimRepeatNumber(repeatInformation)
		if err != nil {
			return hl7v3.DispenseClaimSupplyHeader{}, err
		}
	}

	supplyHeader.LegalAuthenticator, err = convertClaimLegalAuthenticator(claim)
	if err != nil {
		return hl7v3.DispenseClaimSupplyHeader{}, err
	}

	supplyHeader.PertinentInformation2, err = convertClaimNonDispensingReason(
		item.Extension, "Claim.item.extension",
	)
	if err != nil {
		return hl7v3.DispenseClaimSupplyHeader{}, err
	}

	prescriptionStatus, err := convertClaimPrescriptionStatus(item)
	if err != nil {
		return hl7v3.DispenseClaimSupplyHeader{}, err
	}
	supplyHeader.PertinentInformation3 = hl7v3.NewSupplyHeaderPertinentInformation3(prescriptionStatus)

	for i := range item.Detail {
		lineItem, err := convertClaimSuppliedLineItem(&item.Detail[i])
		if err != nil {
			return hl7v3.DispenseClaimSupplyHeader{}, err
		}
		supplyHeader.PertinentInformation1 = append(
			supplyHeader.PertinentInformation1,
			hl7v3.NewDispenseClaimSupplyHeaderPertinentInformation1(lineItem),
		)
	}

	groupIdentifier, err := claimGroupIdentifierExtension(claim)
	if err != nil {
		return hl7v3.DispenseClaimSupplyHeader{}, err
	}
	shortFormID, err := claimGroupIdentifierValue(groupIdentifier, groupIdentifierShortFormURL)
	if err != nil {
		return hl7v3.DispenseClaimSupplyHeader{}, err
	}
	supplyHeader.PertinentInformation4 = hl7v3.NewSupplyHeaderPertinentInformation4(
		hl7v3.NewPrescriptionID(shortFormID),
	)

	longFormID, err := claimGroupIdentifierValue(groupIdentifier, groupIdentifierLongFormURL)
	if err != nil {
		return hl7v3.DispenseClaimSupplyHeader{}, err
	}
	supplyHeader.InFulfillmentOf = hl7v3.NewInFulfillmentOf(
		hl7v3.NewOriginalPrescriptionRef(hl7v3.NewGlobalIdentifier(longFormID)),
	)

	return supplyHeader, nil
}

// claimRepeatNumber reads the issue interval without the increments applied
// to dispense notifications: claims carry both bounds as one based counts
// already.
func claimRepeatNumber(repeatInformation *fhir.Extension) (*hl7v3.Interval[hl7v3.NumericValue], error) {
	issuedExtension, err := fhir.ExtensionForURL(
		repeatInformation.Extension, numberOfRepeatsIssuedURL, "Claim.item.detail.extension",
	)
	if err != nil {
		return nil, err
	}
	allowedExtension, err := fhir.ExtensionForURL(
		repeatInformation.Extension, numberOfRepeatsAllowedURL, "Claim.item.detail.extension",
	)
	if err != nil {
		return nil, err
	}
	interval := hl7v3.NewInterval(
		hl7v3.NewNumericValue(issuedExtension.ValueInteger.String()),
		hl7v3.NewNumericValue(allowedExtension.ValueInteger.String()),
	)
	return &interval, nil
}

// convertClaimLegalAuthenticator builds the legal authenticator from the
// claim's contained practitioner role and organization.
func convertClaimLegalAuthenticator(claim *fhir.Claim) (hl7v3.LegalAuthenticator, error) {
	practitionerRole, err := fhir.ContainedResource[*fhir.PractitionerRole](
		claim.Contained, claim.Provider, "Claim.provider",
	)
	if err != nil {
		return hl7v3.LegalAuthenticator{}, err
	}
	if practitionerRole.Organization == nil || practitionerRole.Organization.Reference == "" {
		return hl7v3.LegalAuthenticator{}, fhir.NewInvalidValueError(
			"practitioner.organization should be a reference",
			`Claim.contained("PractitionerRole").organization`,
		)
	}
	organization, err := fhir.ContainedResource[*fhir.Organization](
		claim.Contained, practitionerRole.Organization, `Claim.contained("PractitionerRole").organization`,
	)
	if err != nil {
		return hl7v3.LegalAuthenticator{}, err
	}

	agentPerson, err := convertContainedAgentPerson(practitionerRole, organization)
	if err != nil {
		return hl7v3.LegalAuthenticator{}, err
	}
	timestamp, err := ConvertISODateTimeToHL7V3DateTime(claim.Created, "Claim.created")
	if err != nil {
		return hl7v3.LegalAuthenticator{}, err
	}
	return hl7v3.NewLegalAuthenticator(timestamp, agentPerson), nil
}

func convertClaimPrescriptionStatus(item *fhir.ClaimItem) (hl7v3.PrescriptionStatus, error) {
	extension, err := fhir.ExtensionForURL(
		item.Extension, taskBusinessStatusExtensionURL, "Claim.item.extension",
	)
	if err != nil {
		return hl7v3.PrescriptionStatus{}, err
	}
	if extension.ValueCoding == nil {
		return hl7v3.PrescriptionStatus{}, fhir.NewInvalidValueError(
			"Required field missing.", "Claim.item.extension.valueCoding",
		)
	}
	return hl7v3.NewPrescriptionStatus(extension.ValueCoding.Code, extension.ValueCoding.Display), nil
}

// convertClaimNonDispensingReason reads the business status reason carried
// when an item was not dispensed. Claims omit the reason display name.
func convertClaimNonDispensingReason(
	extensions []fhir.Extension,
	fhirPath string,
) (*hl7v3.PertinentInformation2NonDispensingReason, error) {
	statusReason, err := fhir.ExtensionForURLOrNil(extensions, taskBusinessStatusReasonExtensionURL, fhirPath)
	if err != nil || statusReason == nil {
		return nil, err
	}
	if statusReason.ValueCoding == nil {
		return nil, fhir.NewInvalidValueError("Required field missing.", fhirPath+".valueCoding")
	}
	pertinentInformation := hl7v3.NewPertinentInformation2NonDispensingReason(
		hl7v3.NewNonDispensingReason(statusReason.ValueCoding.Code, ""),
	)
	return &pertinentInformation, nil
}

func convertClaimSuppliedLineItem(detail *fhir.ClaimItemDetail) (hl7v3.DispenseClaimSuppliedLineItem, error) {
	sequenceIdentifier, err := fhir.ExtensionForURL(
		detail.Extension, claimSequenceIdentifierExtensionURL, "Claim.item.detail.extension",
	)
	if err != nil {
		return hl7v3.DispenseClaimSuppliedLineItem{}, err
	}
	if sequenceIdentifier.ValueIdentifier == nil {
		return hl7v3.DispenseClaimSuppliedLineItem{}, fhir.NewInvalidValueError(
			"Required field missing.", "Claim.item.detail.extension.valueIdentifier",
		)
	}
	lineItem := hl7v3.NewDispenseClaimSuppliedLineItem(
		hl7v3.NewGlobalIdentifier(sequenceIdentifier.ValueIdentifier.Value),
	)

	repeatInformation, err := fhir.ExtensionForURLOrNil(
		detail.Extension, epsRepeatInformationURL, "Claim.item.detail.extension",
	)
	if err != nil {
		return hl7v3.DispenseClaimSuppliedLineItem{}, err
	}
	if repeatInformation != nil {
		lineItem.RepeatNumber, err = claimRepeatNumber(repeatInformation)
		if err != nil {
			return hl7v3.DispenseClaimSuppliedLineItem{}, err
		}
	}

	for i := range detail.SubDetail {
		quantity, err := convertClaimSuppliedLineItemQuantity(detail, &detail.SubDetail[i])
		if err != nil {
			return hl7v3.DispenseClaimSuppliedLineItem{}, err
		}
		lineItem.Component = append(lineItem.Component, hl7v3.NewDispenseClaimSuppliedLineItemComponent(quantity))
	}

	lineItem.PertinentInformation2, err = convertClaimNonDispensingReason(
		detail.Extension, "Claim.item.detail.extension",
	)
	if err != nil {
		return hl7v3.DispenseClaimSuppliedLineItem{}, err
	}

	statusCoding, err := fhir.CodeableConceptCodingForSystem(
		detail.Modifier, medicationDispenseTypeSystem, "Claim.item.detail.modifier",
	)
	if err != nil {
		return hl7v3.DispenseClaimSuppliedLineItem{}, err
	}
	lineItem.PertinentInformation3 = hl7v3.NewSuppliedLineItemPertinentInformation3(
		hl7v3.NewItemStatus(hl7v3.NewItemStatusCode(statusCoding.Code, statusCoding.Display)),
	)

	requestReference, err := fhir.ExtensionForURL(
		detail.Extension, claimMedicationRequestReferenceURL, "Claim.item.detail.extension",
	)
	if err != nil {
		return hl7v3.DispenseClaimSuppliedLineItem{}, err
	}
	if requestReference.ValueReference == nil || requestReference.ValueReference.Identifier == nil {
		return hl7v3.DispenseClaimSuppliedLineItem{}, fhir.NewInvalidValueError(
			"Required field missing.", "Claim.item.detail.extension.valueReference.identifier",
		)
	}
	lineItem.InFulfillmentOf = hl7v3.NewSuppliedLineItemInFulfillmentOf(hl7v3.NewOriginalPrescriptionRef(
		hl7v3.NewGlobalIdentifier(requestReference.ValueReference.Identifier.Value),
	))

	return lineItem, nil
}

func convertClaimSuppliedLineItemQuantity(
	detail *fhir.ClaimItemDetail,
	subDetail *fhir.ClaimItemSubDetail,
) (hl7v3.DispenseClaimSuppliedLineItemQuantity, error) {
	quantity, err := convertDispenseQuantity(subDetail.Quantity, "Claim.item.detail.subDetail.quantity")
	if err != nil {
		return hl7v3.DispenseClaimSuppliedLineItemQuantity{}, err
	}

	if subDetail.ProductOrService == nil {
		return hl7v3.DispenseClaimSuppliedLineItemQuantity{}, fhir.NewInvalidValueError(
			"Required field missing.", "Claim.item.detail.subDetail.productOrService",
		)
	}
	productCoding, err := fhir.CodingForSystem(
		subDetail.ProductOrService.Coding, fhir.SnomedSystem, "Claim.item.detail.subDetail.productOrService",
	)
	if err != nil {
		return hl7v3.DispenseClaimSuppliedLineItemQuantity{}, err
	}
	product := hl7v3.NewDispenseProduct(hl7v3.NewSuppliedManufacturedProduct(
		hl7v3.NewManufacturedRequestedMaterial(
			hl7v3.NewSnomedCode(productCoding.Code, productCoding.Display),
		),
	))

	chargePaid, err := claimChargePaid(detail)
	if err != nil {
		return hl7v3.DispenseClaimSuppliedLineItemQuantity{}, err
	}
	pertinentInformation1 := hl7v3.NewDispenseClaimSuppliedLineItemQuantityPertinentInformation1(
		hl7v3.NewChargePayment(chargePaid),
	)

	pertinentInformation2 := convertDispensingEndorsements(detail)

	return hl7v3.NewDispenseClaimSuppliedLineItemQuantity(
		quantity, product, pertinentInformation1, pertinentInformation2,
	), nil
}

func claimChargePaid(detail *fhir.ClaimItemDetail) (bool, error) {
	chargeCoding, err := fhir.CodeableConceptCodingForSystem(
		detail.ProgramCode, prescriptionChargeSystem, "Claim.item.detail.programCode",
	)
	if err != nil {
		return false, err
	}
	switch chargeCoding.Code {
	case "paid-once", "paid-twice":
		return true, nil
	case "not-paid":
		return false, nil
	}
	return false, fhir.NewInvalidValueError("Unsupported prescription charge code", "Claim.item.detail.programCode")
}

func convertDispensingEndorsements(detail *fhir.ClaimItemDetail) []hl7v3.DispenseClaimSuppliedLineItemQuantityPertinentInformation2 {
	var endorsements []hl7v3.DispenseClaimSuppliedLineItemQuantityPertinentInformation2
	for _, concept := range detail.ProgramCode {
		for _, coding := range concept.Coding {
			if coding.System != dispensingEndorsementSystem {
				continue
			}
			endorsement := hl7v3.NewDispensingEndorsement(
				concept.Text, hl7v3.NewDispensingEndorsementCode(coding.Code),
			)
			endorsements = append(
				endorsements,
				hl7v3.NewDispenseClaimSuppliedLineItemQuantityPertinentInformation2(endorsement),
			)
			break
		}
	}
	return endorsements
}

// convertChargeExemptionCoverage maps the charge exemption claimed for the
// prescription, with the evidence seen authorization when evidence codes are
// present.
func convertChargeExemptionCoverage(item *fhir.ClaimItem) (*hl7v3.Coverage, error) {
	exemptionCoding, err := fhir.CodeableConceptCodingForSystemOrNil(
		item.ProgramCode, chargeExemptionSystem, "Claim.item.programCode",
	)
	if err != nil || exemptionCoding == nil {
		return nil, err
	}

	// Code 0001 records that no exemption applies.
	chargeExempt := hl7v3.NewChargeExempt(exemptionCoding.Code != "0001", exemptionCoding.Code)

	evidenceCoding, err := fhir.CodeableConceptCodingForSystemOrNil(
		item.ProgramCode, exemptionEvidenceSystem, "Claim.item.programCode",
	)
	if err != nil {
		return nil, err
	}
	if evidenceCoding != nil {
		authorization := hl7v3.NewAuthorization(hl7v3.NewEvidenceSeen(evidenceCoding.Code == "evidence-seen"))
		chargeExempt.Authorization = &authorization
	}

	coverage := hl7v3.NewCoverage(chargeExempt)
	return &coverage, nil
}
