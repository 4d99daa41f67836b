package hl7v3

// Types shared between dispense notification and dispense claim documents.

// RecordTargetReference links a dispense message to the patient by NHS
// number alone.
type RecordTargetReference struct {
	TypeCode string           `xml:"typeCode,attr"`
	Patient  PatientReference `xml:"patient"`
}

func NewRecordTargetReference(nhsNumber Identifier) RecordTargetReference {
	return RecordTargetReference{
		TypeCode: "RCT",
		Patient:  PatientReference{ClassCode: "PAT", ID: nhsNumber},
	}
}

type PatientReference struct {
	ClassCode string     `xml:"classCode,attr"`
	ID        Identifier `xml:"id"`
}

// DispenseProduct establishes product specific data for the dispensed
// medication.
type DispenseProduct struct {
	TypeCode                    string                      `xml:"typeCode,attr"`
	ContextControlCode          string                      `xml:"contextControlCode,attr"`
	SuppliedManufacturedProduct SuppliedManufacturedProduct `xml:"suppliedManufacturedProduct"`
}

func NewDispenseProduct(product SuppliedManufacturedProduct) DispenseProduct {
	return DispenseProduct{TypeCode: "PRD", ContextControlCode: "OP", SuppliedManufacturedProduct: product}
}

type SuppliedManufacturedProduct struct {
	ClassCode                    string                        `xml:"classCode,attr"`
	ManufacturedSuppliedMaterial ManufacturedRequestedMaterial `xml:"manufacturedSuppliedMaterial"`
}

func NewSuppliedManufacturedProduct(material ManufacturedRequestedMaterial) SuppliedManufacturedProduct {
	return SuppliedManufacturedProduct{ClassCode: "MANU", ManufacturedSuppliedMaterial: material}
}

// SuppliedLineItemPertinentInformation3 records the status of the original
// prescription line item prior to this dispense.
type SuppliedLineItemPertinentInformation3 struct {
	TypeCode             string       `xml:"typeCode,attr"`
	ContextConductionInd string       `xml:"contextConductionInd,attr"`
	SeperatableInd       BooleanValue `xml:"seperatableInd"`
	PertinentItemStatus  ItemStatus   `xml:"pertinentItemStatus"`
}

func NewSuppliedLineItemPertinentInformation3(itemStatus ItemStatus) SuppliedLineItemPertinentInformation3 {
	return SuppliedLineItemPertinentInformation3{
		TypeCode:             "PERT",
		ContextConductionInd: "true",
		SeperatableInd:       NewBooleanValue(false),
		PertinentItemStatus:  itemStatus,
	}
}

// SuppliedLineItemInFulfillmentOf states that this dispense satisfies the
// treatment ordered in the identified prescription line item.
type SuppliedLineItemInFulfillmentOf struct {
	TypeCode             string                  `xml:"typeCode,attr"`
	InversionInd         string                  `xml:"inversionInd,attr"`
	NegationInd          string                  `xml:"negationInd,attr"`
	SeperatableInd       BooleanValue            `xml:"seperatableInd"`
	TemplateID           Identifier              `xml:"templateId"`
	PriorOriginalItemRef OriginalPrescriptionRef `xml:"priorOriginalItemRef"`
}

func NewSuppliedLineItemInFulfillmentOf(priorOriginalItemRef OriginalPrescriptionRef) SuppliedLineItemInFulfillmentOf {
	return SuppliedLineItemInFulfillmentOf{
		TypeCode:             "FLFS",
		InversionInd:         "false",
		NegationInd:          "false",
		SeperatableInd:       NewBooleanValue(true),
		TemplateID:           NewTemplateIdentifier("CSAB_RM-NPfITUK10.sourceOf1"),
		PriorOriginalItemRef: priorOriginalItemRef,
	}
}

type OriginalPrescriptionRef struct {
	ClassCode string     `xml:"classCode,attr"`
	MoodCode  string     `xml:"moodCode,attr"`
	ID        Identifier `xml:"id"`
}

func NewOriginalPrescriptionRef(id Identifier) OriginalPrescriptionRef {
	return OriginalPrescriptionRef{ClassCode: "SBADM", MoodCode: "RQO", ID: id}
}

// NonDispensingReason explains why a medication requirement was not
// dispensed.
type NonDispensingReason struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Code   `xml:"value"`
}

func NewNonDispensingReason(code, displayName string) NonDispensingReason {
	return NonDispensingReason{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationNonDispensingReason,
		Value: NewNotDispensedReasonCode(code, displayName),
	}
}

// PertinentInformation2NonDispensingReason attaches a non-dispensing reason
// to a supply header or supplied line item.
type PertinentInformation2NonDispensingReason struct {
	TypeCode                     string              `xml:"typeCode,attr"`
	ContextConductionInd         string              `xml:"contextConductionInd,attr"`
	SeperatableInd               BooleanValue        `xml:"seperatableInd"`
	PertinentNonDispensingReason NonDispensingReason `xml:"pertinentNonDispensingReason"`
}

func NewPertinentInformation2NonDispensingReason(reason NonDispensingReason) PertinentInformation2NonDispensingReason {
	return PertinentInformation2NonDispensingReason{
		TypeCode:                     "PERT",
		ContextConductionInd:         "true",
		SeperatableInd:               NewBooleanValue(false),
		PertinentNonDispensingReason: reason,
	}
}

// SupplyHeaderPertinentInformation3 carries the prescription status as a
// function of the dispense progress of the individual items.
type SupplyHeaderPertinentInformation3 struct {
	TypeCode                    string             `xml:"typeCode,attr"`
	ContextConductionInd        string             `xml:"contextConductionInd,attr"`
	SeperatableInd              BooleanValue       `xml:"seperatableInd"`
	PertinentPrescriptionStatus PrescriptionStatus `xml:"pertinentPrescriptionStatus"`
}

func NewSupplyHeaderPertinentInformation3(status PrescriptionStatus) SupplyHeaderPertinentInformation3 {
	return SupplyHeaderPertinentInformation3{
		TypeCode:                    "PERT",
		ContextConductionInd:        "true",
		SeperatableInd:              NewBooleanValue(false),
		PertinentPrescriptionStatus: status,
	}
}

type PrescriptionStatus struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Code   `xml:"value"`
}

func NewPrescriptionStatus(code, displayName string) PrescriptionStatus {
	return PrescriptionStatus{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationPrescriptionStatus,
		Value: NewPrescriptionStatusCode(code, displayName),
	}
}

// SupplyHeaderPertinentInformation4 identifies the original prescription.
type SupplyHeaderPertinentInformation4 struct {
	TypeCode                string         `xml:"typeCode,attr"`
	ContextConductionInd    string         `xml:"contextConductionInd,attr"`
	SeperatableInd          BooleanValue   `xml:"seperatableInd"`
	PertinentPrescriptionID PrescriptionID `xml:"pertinentPrescriptionID"`
}

func NewSupplyHeaderPertinentInformation4(prescriptionID PrescriptionID) SupplyHeaderPertinentInformation4 {
	return SupplyHeaderPertinentInformation4{
		TypeCode:                "PERT",
		ContextConductionInd:    "true",
		SeperatableInd:          NewBooleanValue(false),
		PertinentPrescriptionID: prescriptionID,
	}
}

// InFulfillmentOf states that this dispense satisfies the requirements of
// the original prescription.
type InFulfillmentOf struct {
	TypeCode                     string                  `xml:"typeCode,attr"`
	InversionInd                 string                  `xml:"inversionInd,attr"`
	NegationInd                  string                  `xml:"negationInd,attr"`
	SeperatableInd               BooleanValue            `xml:"seperatableInd"`
	TemplateID                   Identifier              `xml:"templateId"`
	PriorOriginalPrescriptionRef OriginalPrescriptionRef `xml:"priorOriginalPrescriptionRef"`
}

func NewInFulfillmentOf(priorOriginalPrescriptionRef OriginalPrescriptionRef) InFulfillmentOf {
	return InFulfillmentOf{
		TypeCode:                     "FLFS",
		InversionInd:                 "false",
		NegationInd:                  "false",
		SeperatableInd:               NewBooleanValue(true),
		TemplateID:                   NewTemplateIdentifier("CSAB_RM-NPfITUK10.sourceOf1"),
		PriorOriginalPrescriptionRef: priorOriginalPrescriptionRef,
	}
}

// ReplacementOf identifies the dispense event this notification replaces.
type ReplacementOf struct {
	TypeCode        string     `xml:"typeCode,attr"`
	PriorMessageRef MessageRef `xml:"priorMessageRef"`
}

func NewReplacementOf(messageRef MessageRef) ReplacementOf {
	return ReplacementOf{TypeCode: "RPLC", PriorMessageRef: messageRef}
}

type MessageRef struct {
	ClassCode string     `xml:"classCode,attr"`
	MoodCode  string     `xml:"moodCode,attr"`
	ID        Identifier `xml:"id"`
}

func NewMessageRef(id Identifier) MessageRef {
	return MessageRef{ClassCode: "INFO", MoodCode: "EVN", ID: id}
}

// SequelTo states that the dispense sequentially follows the prescription
// release event.
type SequelTo struct {
	TypeCode                         string                           `xml:"typeCode,attr"`
	PriorPrescriptionReleaseEventRef PriorPrescriptionReleaseEventRef `xml:"priorPrescriptionReleaseEventRef"`
}

func NewSequelTo(releaseEventRef PriorPrescriptionReleaseEventRef) SequelTo {
	return SequelTo{TypeCode: "SEQL", PriorPrescriptionReleaseEventRef: releaseEventRef}
}

// PriorPrescriptionReleaseEventRef identifies the release response that
// authorised the dispense event.
type PriorPrescriptionReleaseEventRef struct {
	ClassCode string     `xml:"classCode,attr"`
	MoodCode  string     `xml:"moodCode,attr"`
	ID        Identifier `xml:"id"`
}

func NewPriorPrescriptionReleaseEventRef(id Identifier) PriorPrescriptionReleaseEventRef {
	return PriorPrescriptionReleaseEventRef{ClassCode: "INFO", MoodCode: "RQO", ID: id}
}
