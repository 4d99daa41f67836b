package translation

import (
	"strings"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
	"github.com/eprescribe/coordinator/internal/translation/dosage"
)

const (
	lineItemNumberSystem   = "https://fhir.nhs.uk/Id/prescription-order-item-number"
	controlledDrugURL      = "https://fhir.nhs.uk/StructureDefinition/Extension-DM-ControlledDrug"
	endorsementURL         = "https://fhir.nhs.uk/StructureDefinition/Extension-DM-PrescriptionEndorsement"
	endorsementCodeSystem  = "https://fhir.nhs.uk/CodeSystem/medicationrequest-endorsement"
	controlledDrugWordsURL = "quantityWords"
)

// ConvertMedicationRequestToLineItem builds one prescription line item from a
// medication request. The medication list and patient info texts are shared
// across all line items of a prescription and are embedded in each item's
// additional instructions.
func ConvertMedicationRequestToLineItem(
	medicationRequest fhir.MedicationRequest,
	repeatNumber *hl7v3.Interval[hl7v3.NumericValue],
	medicationListText []hl7v3.Text,
	patientInfoText []hl7v3.Text,
	medicationCoding fhir.Coding,
) (hl7v3.LineItem, error) {
	lineItemID, err := fhir.IdentifierValueForSystem(
		medicationRequest.Identifier,
		lineItemNumberSystem,
		"MedicationRequest.identifier",
	)
	if err != nil {
		return hl7v3.LineItem{}, err
	}
	lineItem := hl7v3.NewLineItem(hl7v3.NewGlobalIdentifier(lineItemID))
	lineItem.RepeatNumber = repeatNumber
	lineItem.Product = convertProduct(medicationCoding)

	component, err := convertLineItemComponent(medicationRequest.DispenseRequest)
	if err != nil {
		return hl7v3.LineItem{}, err
	}
	lineItem.Component = component

	pertinentInformation1, err := convertAdditionalInstructions(
		medicationRequest, medicationListText, patientInfoText,
	)
	if err != nil {
		return hl7v3.LineItem{}, err
	}
	lineItem.PertinentInformation1 = pertinentInformation1

	pertinentInformation3, err := convertPrescriptionEndorsements(medicationRequest)
	if err != nil {
		return hl7v3.LineItem{}, err
	}
	lineItem.PertinentInformation3 = pertinentInformation3

	instruction, err := dosage.Instruction(medicationRequest.DosageInstruction)
	if err != nil {
		return hl7v3.LineItem{}, err
	}
	lineItem.PertinentInformation2 = hl7v3.NewLineItemPertinentInformation2(
		hl7v3.NewDosageInstructions(instruction),
	)

	return lineItem, nil
}

func convertProduct(medicationCoding fhir.Coding) hl7v3.Product {
	medicationCode := hl7v3.NewSnomedCode(medicationCoding.Code, medicationCoding.Display)
	material := hl7v3.NewManufacturedRequestedMaterial(medicationCode)
	return hl7v3.NewProduct(hl7v3.NewManufacturedProduct(material))
}

func convertLineItemComponent(dispenseRequest *fhir.DispenseRequest) (hl7v3.LineItemComponent, error) {
	if dispenseRequest == nil || dispenseRequest.Quantity == nil {
		return hl7v3.LineItemComponent{}, fhir.NewInvalidValueError(
			"Required field missing.",
			"MedicationRequest.dispenseRequest.quantity",
		)
	}
	quantity := dispenseRequest.Quantity
	unitCode := hl7v3.NewSnomedCode(quantity.Code, quantity.Unit)
	value := quantity.Value.String()
	lineItemQuantity := hl7v3.NewLineItemQuantity(
		hl7v3.NewQuantityInAlternativeUnits(value, value, unitCode),
	)
	return hl7v3.NewLineItemComponent(lineItemQuantity), nil
}

// convertAdditionalInstructions assembles the free-text additional
// instructions for a line item: the shared repeat-medication and patient info
// elements followed by the controlled drug quantity words and any note text.
// Returns nil when every part is absent.
func convertAdditionalInstructions(
	medicationRequest fhir.MedicationRequest,
	medicationListText []hl7v3.Text,
	patientInfoText []hl7v3.Text,
) (*hl7v3.LineItemPertinentInformation1, error) {
	controlledDrugWords, err := controlledDrugWordsWithPrefix(medicationRequest)
	if err != nil {
		return nil, err
	}

	note, err := fhir.OnlyElementOrNil(medicationRequest.Note, "MedicationRequest.note")
	if err != nil {
		return nil, err
	}
	var noteText string
	if note != nil {
		noteText = note.Text
	}

	value := assembleAdditionalInstructionsValue(
		medicationListText, patientInfoText, controlledDrugWords, noteText,
	)
	if value == "" {
		return nil, nil
	}

	pertinentInformation1 := hl7v3.NewLineItemPertinentInformation1(hl7v3.NewAdditionalInstructions(value))
	return &pertinentInformation1, nil
}

func controlledDrugWordsWithPrefix(medicationRequest fhir.MedicationRequest) (string, error) {
	controlledDrugExtension, err := fhir.ExtensionForURLOrNil(
		medicationRequest.Extension,
		controlledDrugURL,
		"MedicationRequest.extension",
	)
	if err != nil || controlledDrugExtension == nil {
		return "", err
	}

	wordsExtension, err := fhir.ExtensionForURLOrNil(
		controlledDrugExtension.Extension,
		controlledDrugWordsURL,
		`MedicationRequest.extension("`+controlledDrugURL+`").extension`,
	)
	if err != nil || wordsExtension == nil || wordsExtension.ValueString == "" {
		return "", err
	}

	return "CD: " + wordsExtension.ValueString, nil
}

// The additional instructions value is itself a small XML fragment: optional
// medication and patientInfo elements followed by plain character data. It is
// assembled unescaped because the whole value is escaped once when the line
// item is serialized.
func assembleAdditionalInstructionsValue(
	medicationListText []hl7v3.Text,
	patientInfoText []hl7v3.Text,
	controlledDrugWords string,
	noteText string,
) string {
	var sb strings.Builder
	for _, text := range medicationListText {
		sb.WriteString("<medication>" + text.Value + "</medication>")
	}
	for _, text := range patientInfoText {
		sb.WriteString("<patientInfo>" + text.Value + "</patientInfo>")
	}

	var chardataParts []string
	for _, part := range []string{controlledDrugWords, noteText} {
		if part != "" {
			chardataParts = append(chardataParts, part)
		}
	}
	sb.WriteString(strings.Join(chardataParts, "\n"))

	return sb.String()
}

func convertPrescriptionEndorsements(
	medicationRequest fhir.MedicationRequest,
) ([]hl7v3.LineItemPertinentInformation3, error) {
	var pertinentInformation3 []hl7v3.LineItemPertinentInformation3
	for _, extension := range medicationRequest.Extension {
		if extension.URL != endorsementURL {
			continue
		}
		var concepts []fhir.CodeableConcept
		if extension.ValueCodeableConcept != nil {
			concepts = []fhir.CodeableConcept{*extension.ValueCodeableConcept}
		}
		endorsementCoding, err := fhir.CodeableConceptCodingForSystem(
			concepts,
			endorsementCodeSystem,
			`MedicationRequest.extension("`+endorsementURL+`").valueCodeableConcept`,
		)
		if err != nil {
			return nil, err
		}
		endorsement := hl7v3.NewPrescriptionEndorsement(
			hl7v3.NewPrescriptionEndorsementCode(endorsementCoding.Code),
		)
		pertinentInformation3 = append(pertinentInformation3, hl7v3.NewLineItemPertinentInformation3(endorsement))
	}
	return pertinentInformation3, nil
}
