package hl7v3

// DispenseNotificationRoot wraps a dispense notification under its root
// element name.
type DispenseNotificationRoot struct {
	DispenseNotification DispenseNotification `xml:"DispenseNotification"`
}

// DispenseNotification reports the medication supplied against a released
// prescription.
type DispenseNotification struct {
	ClassCode                   string                                          `xml:"classCode,attr"`
	MoodCode                    string                                          `xml:"moodCode,attr"`
	ID                          Identifier                                      `xml:"id"`
	Code                        Code                                            `xml:"code"`
	EffectiveTime               Timestamp                                       `xml:"effectiveTime"`
	TypeID                      Identifier                                      `xml:"typeId"`
	RecordTarget                RecordTargetReference                           `xml:"recordTarget"`
	PrimaryInformationRecipient DispenseNotificationPrimaryInformationRecipient `xml:"primaryInformationRecipient"`
	PertinentInformation1       DispenseNotificationPertinentInformation1       `xml:"pertinentInformation1"`
	PertinentInformation2       DispenseNotificationPertinentInformation2       `xml:"pertinentInformation2"`
	ReplacementOf               *ReplacementOf                                  `xml:"replacementOf,omitempty"`
	SequelTo                    SequelTo                                        `xml:"sequelTo"`
}

func NewDispenseNotification(id Identifier) DispenseNotification {
	return DispenseNotification{
		ClassCode: "INFO",
		MoodCode:  "EVN",
		ID:        id,
		Code: NewSnomedCode(
			"163541000000107",
			"Dispensed Medication - FocusActOrEvent (administrative concept)",
		),
		TypeID: NewTypeIdentifier("PORX_MT024001UK31"),
	}
}

// DispenseNotificationPrimaryInformationRecipient identifies the
// reimbursement authority the dispense is reported to.
type DispenseNotificationPrimaryInformationRecipient struct {
	TypeCode           string            `xml:"typeCode,attr"`
	ContextControlCode string            `xml:"contextControlCode,attr"`
	AgentOrg           AgentOrganization `xml:"AgentOrg"`
}

func NewDispenseNotificationPrimaryInformationRecipient(agentOrg AgentOrganization) DispenseNotificationPrimaryInformationRecipient {
	return DispenseNotificationPrimaryInformationRecipient{
		TypeCode:           "PRCP",
		ContextControlCode: "ON",
		AgentOrg:           agentOrg,
	}
}

type DispenseNotificationPertinentInformation1 struct {
	TypeCode              string                           `xml:"typeCode,attr"`
	ContextConductionInd  string                           `xml:"contextConductionInd,attr"`
	TemplateID            Identifier                       `xml:"templateId"`
	PertinentSupplyHeader DispenseNotificationSupplyHeader `xml:"pertinentSupplyHeader"`
}

func NewDispenseNotificationPertinentInformation1(supplyHeader DispenseNotificationSupplyHeader) DispenseNotificationPertinentInformation1 {
	return DispenseNotificationPertinentInformation1{
		TypeCode:              "PERT",
		ContextConductionInd:  "true",
		TemplateID:            NewTemplateIdentifier("CSAB_RM-NPfITUK10.pertinentInformation"),
		PertinentSupplyHeader: supplyHeader,
	}
}

// DispenseNotificationSupplyHeader is the administrative event common to all
// dispensed items in this notification.
type DispenseNotificationSupplyHeader struct {
	ClassCode             string                                                  `xml:"classCode,attr"`
	MoodCode              string                                                  `xml:"moodCode,attr"`
	ID                    Identifier                                              `xml:"id"`
	Code                  Code                                                    `xml:"code"`
	EffectiveTime         Null                                                    `xml:"effectiveTime"`
	RepeatNumber          *Interval[NumericValue]                                 `xml:"repeatNumber,omitempty"`
	Author                PrescriptionAuthor                                      `xml:"author"`
	PertinentInformation1 []DispenseNotificationSupplyHeaderPertinentInformation1 `xml:"pertinentInformation1"`
	PertinentInformation2 *PertinentInformation2NonDispensingReason               `xml:"pertinentInformation2,omitempty"`
	PertinentInformation3 SupplyHeaderPertinentInformation3                       `xml:"pertinentInformation3"`
	PertinentInformation4 SupplyHeaderPertinentInformation4                       `xml:"pertinentInformation4"`
	InFulfillmentOf       InFulfillmentOf                                         `xml:"inFulfillmentOf"`
}

func NewDispenseNotificationSupplyHeader(id Identifier, author PrescriptionAuthor) DispenseNotificationSupplyHeader {
	return DispenseNotificationSupplyHeader{
		ClassCode:     "SBADM",
		MoodCode:      "EVN",
		ID:            id,
		Code:          NewSnomedCode("225426007", ""),
		EffectiveTime: NullNotApplicable,
		Author:        author,
	}
}

type DispenseNotificationSupplyHeaderPertinentInformation1 struct {
	TypeCode                  string                               `xml:"typeCode,attr"`
	ContextConductionInd      string                               `xml:"contextConductionInd,attr"`
	InversionInd              string                               `xml:"inversionInd,attr"`
	NegationInd               string                               `xml:"negationInd,attr"`
	SeperatableInd            BooleanValue                         `xml:"seperatableInd"`
	TemplateID                Identifier                           `xml:"templateId"`
	PertinentSuppliedLineItem DispenseNotificationSuppliedLineItem `xml:"pertinentSuppliedLineItem"`
}

func NewDispenseNotificationSupplyHeaderPertinentInformation1(lineItem DispenseNotificationSuppliedLineItem) DispenseNotificationSupplyHeaderPertinentInformation1 {
	return DispenseNotificationSupplyHeaderPertinentInformation1{
		TypeCode:                  "PERT",
		ContextConductionInd:      "true",
		InversionInd:              "false",
		NegationInd:               "false",
		SeperatableInd:            NewBooleanValue(false),
		TemplateID:                NewTemplateIdentifier("CSAB_RM-NPfITUK10.sourceOf2"),
		PertinentSuppliedLineItem: lineItem,
	}
}

// DispenseNotificationSuppliedLineItem details the medication dispensed to
// satisfy one prescription line item.
type DispenseNotificationSuppliedLineItem struct {
	ClassCode             string                                          `xml:"classCode,attr"`
	MoodCode              string                                          `xml:"moodCode,attr"`
	ID                    Identifier                                      `xml:"id"`
	Code                  Code                                            `xml:"code"`
	EffectiveTime         Null                                            `xml:"effectiveTime"`
	RepeatNumber          *Interval[NumericValue]                         `xml:"repeatNumber,omitempty"`
	Consumable            Consumable                                      `xml:"consumable"`
	Component             []DispenseNotificationSuppliedLineItemComponent `xml:"component"`
	Component1            DispenseNotificationSuppliedLineItemComponent1  `xml:"component1"`
	PertinentInformation3 SuppliedLineItemPertinentInformation3           `xml:"pertinentInformation3"`
	PertinentInformation2 *PertinentInformation2NonDispensingReason       `xml:"pertinentInformation2,omitempty"`
	InFulfillmentOf       SuppliedLineItemInFulfillmentOf                 `xml:"inFulfillmentOf"`
}

func NewDispenseNotificationSuppliedLineItem(id Identifier) DispenseNotificationSuppliedLineItem {
	return DispenseNotificationSuppliedLineItem{
		ClassCode:     "SBADM",
		MoodCode:      "PRMS",
		ID:            id,
		Code:          NewSnomedCode("225426007", "Administration of therapeutic substance (procedure)"),
		EffectiveTime: NullNotApplicable,
	}
}

// Consumable references the treatment ordered on the prescription line item.
type Consumable struct {
	TypeCode                     string                       `xml:"typeCode,attr"`
	ContextControlCode           string                       `xml:"contextControlCode,attr"`
	RequestedManufacturedProduct RequestedManufacturedProduct `xml:"requestedManufacturedProduct"`
}

func NewConsumable(product RequestedManufacturedProduct) Consumable {
	return Consumable{TypeCode: "CSM", ContextControlCode: "OP", RequestedManufacturedProduct: product}
}

type RequestedManufacturedProduct struct {
	ClassCode                     string                        `xml:"classCode,attr"`
	ManufacturedRequestedMaterial ManufacturedRequestedMaterial `xml:"manufacturedRequestedMaterial"`
}

func NewRequestedManufacturedProduct(material ManufacturedRequestedMaterial) RequestedManufacturedProduct {
	return RequestedManufacturedProduct{ClassCode: "MANU", ManufacturedRequestedMaterial: material}
}

type DispenseNotificationSuppliedLineItemComponent struct {
	TypeCode                 string                                       `xml:"typeCode,attr"`
	SeperatableInd           BooleanValue                                 `xml:"seperatableInd"`
	SuppliedLineItemQuantity DispenseNotificationSuppliedLineItemQuantity `xml:"suppliedLineItemQuantity"`
}

func NewDispenseNotificationSuppliedLineItemComponent(quantity DispenseNotificationSuppliedLineItemQuantity) DispenseNotificationSuppliedLineItemComponent {
	return DispenseNotificationSuppliedLineItemComponent{
		TypeCode:                 "COMP",
		SeperatableInd:           NewBooleanValue(false),
		SuppliedLineItemQuantity: quantity,
	}
}

// DispenseNotificationSuppliedLineItemQuantity details the medication
// actually dispensed in this event for this line item.
type DispenseNotificationSuppliedLineItemQuantity struct {
	ClassCode             string                                                            `xml:"classCode,attr"`
	MoodCode              string                                                            `xml:"moodCode,attr"`
	Code                  Code                                                              `xml:"code"`
	Quantity              QuantityInAlternativeUnits                                        `xml:"quantity"`
	Product               DispenseProduct                                                   `xml:"product"`
	PertinentInformation1 DispenseNotificationSuppliedLineItemQuantityPertinentInformation1 `xml:"pertinentInformation1"`
}

func NewDispenseNotificationSuppliedLineItemQuantity(
	quantity QuantityInAlternativeUnits,
	product DispenseProduct,
	pertinentInformation1 DispenseNotificationSuppliedLineItemQuantityPertinentInformation1,
) DispenseNotificationSuppliedLineItemQuantity {
	return DispenseNotificationSuppliedLineItemQuantity{
		ClassCode:             "SPLY",
		MoodCode:              "EVN",
		Code:                  NewSnomedCode("373784005", "Dispensing medication (procedure)"),
		Quantity:              quantity,
		Product:               product,
		PertinentInformation1: pertinentInformation1,
	}
}

type DispenseNotificationSuppliedLineItemQuantityPertinentInformation1 struct {
	TypeCode                    string             `xml:"typeCode,attr"`
	ContextConductionInd        string             `xml:"contextConductionInd,attr"`
	SeperatableInd              BooleanValue       `xml:"seperatableInd"`
	PertinentSupplyInstructions SupplyInstructions `xml:"pertinentSupplyInstructions"`
}

func NewDispenseNotificationSuppliedLineItemQuantityPertinentInformation1(instructions SupplyInstructions) DispenseNotificationSuppliedLineItemQuantityPertinentInformation1 {
	return DispenseNotificationSuppliedLineItemQuantityPertinentInformation1{
		TypeCode:                    "PERT",
		ContextConductionInd:        "true",
		SeperatableInd:              NewBooleanValue(false),
		PertinentSupplyInstructions: instructions,
	}
}

type SupplyInstructions struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Text   `xml:"value"`
}

func NewSupplyInstructions(value string) SupplyInstructions {
	return SupplyInstructions{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationSupplyInstructions,
		Value: NewText(value),
	}
}

// DispenseNotificationSuppliedLineItemComponent1 relates the quantity
// originally requested on the prescription line item.
type DispenseNotificationSuppliedLineItemComponent1 struct {
	TypeCode       string        `xml:"typeCode,attr"`
	SeperatableInd BooleanValue  `xml:"seperatableInd"`
	SupplyRequest  SupplyRequest `xml:"supplyRequest"`
}

func NewDispenseNotificationSuppliedLineItemComponent1(supplyRequest SupplyRequest) DispenseNotificationSuppliedLineItemComponent1 {
	return DispenseNotificationSuppliedLineItemComponent1{
		TypeCode:       "COMP",
		SeperatableInd: NewBooleanValue(false),
		SupplyRequest:  supplyRequest,
	}
}

type SupplyRequest struct {
	ClassCode string                     `xml:"classCode,attr"`
	MoodCode  string                     `xml:"moodCode,attr"`
	Code      Code                       `xml:"code"`
	Quantity  QuantityInAlternativeUnits `xml:"quantity"`
}

func NewSupplyRequest(code Code, quantity QuantityInAlternativeUnits) SupplyRequest {
	return SupplyRequest{ClassCode: "SPLY", MoodCode: "RQO", Code: code, Quantity: quantity}
}

type DispenseNotificationPertinentInformation2 struct {
	TypeCode                           string                    `xml:"typeCode,attr"`
	TemplateID                         Identifier                `xml:"templateId"`
	PertinentCareRecordElementCategory CareRecordElementCategory `xml:"pertinentCareRecordElementCategory"`
}

func NewDispenseNotificationPertinentInformation2(category CareRecordElementCategory) DispenseNotificationPertinentInformation2 {
	return DispenseNotificationPertinentInformation2{
		TypeCode:                           "PERT",
		TemplateID:                         NewTemplateIdentifier("CSAB_RM-NPfITUK10.pertinentInformation1"),
		PertinentCareRecordElementCategory: category,
	}
}
