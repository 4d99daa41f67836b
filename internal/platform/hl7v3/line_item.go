package hl7v3

// LineItem is one medication item on the prescription.
type LineItem struct {
	Xmlns                 string                          `xml:"xmlns,attr,omitempty"`
	ClassCode             string                          `xml:"classCode,attr"`
	MoodCode              string                          `xml:"moodCode,attr"`
	ID                    Identifier                      `xml:"id"`
	Code                  Code                            `xml:"code"`
	EffectiveTime         Null                            `xml:"effectiveTime"`
	RepeatNumber          *Interval[NumericValue]         `xml:"repeatNumber,omitempty"`
	Product               Product                         `xml:"product"`
	Component             LineItemComponent               `xml:"component"`
	PertinentInformation4 *LineItemPertinentInformation4  `xml:"pertinentInformation4,omitempty"`
	PertinentInformation1 *LineItemPertinentInformation1  `xml:"pertinentInformation1,omitempty"`
	PertinentInformation3 []LineItemPertinentInformation3 `xml:"pertinentInformation3,omitempty"`
	PertinentInformation2 LineItemPertinentInformation2   `xml:"pertinentInformation2"`
}

func NewLineItem(id Identifier) LineItem {
	return LineItem{
		ClassCode:     "SBADM",
		MoodCode:      "RQO",
		ID:            id,
		Code:          NewSnomedCode("225426007", "Administration of therapeutic substance (procedure)"),
		EffectiveTime: NullNotApplicable,
	}
}

// Product establishes the product specific data for the prescribed
// medication.
type Product struct {
	TypeCode            string              `xml:"typeCode,attr"`
	ContextControlCode  string              `xml:"contextControlCode,attr"`
	ManufacturedProduct ManufacturedProduct `xml:"manufacturedProduct"`
}

func NewProduct(manufacturedProduct ManufacturedProduct) Product {
	return Product{TypeCode: "PRD", ContextControlCode: "OP", ManufacturedProduct: manufacturedProduct}
}

type ManufacturedProduct struct {
	ClassCode                     string                        `xml:"classCode,attr"`
	ManufacturedRequestedMaterial ManufacturedRequestedMaterial `xml:"manufacturedRequestedMaterial"`
}

func NewManufacturedProduct(material ManufacturedRequestedMaterial) ManufacturedProduct {
	return ManufacturedProduct{ClassCode: "MANU", ManufacturedRequestedMaterial: material}
}

// ManufacturedRequestedMaterial describes the medication material itself.
type ManufacturedRequestedMaterial struct {
	ClassCode      string `xml:"classCode,attr"`
	DeterminerCode string `xml:"determinerCode,attr"`
	Code           Code   `xml:"code"`
}

func NewManufacturedRequestedMaterial(code Code) ManufacturedRequestedMaterial {
	return ManufacturedRequestedMaterial{ClassCode: "MMAT", DeterminerCode: "KIND", Code: code}
}

// LineItemComponent carries the total quantity of medication to dispense.
type LineItemComponent struct {
	TypeCode         string           `xml:"typeCode,attr"`
	SeperatableInd   BooleanValue     `xml:"seperatableInd"`
	LineItemQuantity LineItemQuantity `xml:"lineItemQuantity"`
}

func NewLineItemComponent(quantity LineItemQuantity) LineItemComponent {
	return LineItemComponent{TypeCode: "COMP", SeperatableInd: NewBooleanValue(false), LineItemQuantity: quantity}
}

type LineItemQuantity struct {
	ClassCode string                     `xml:"classCode,attr"`
	MoodCode  string                     `xml:"moodCode,attr"`
	Code      Code                       `xml:"code"`
	Quantity  QuantityInAlternativeUnits `xml:"quantity"`
}

func NewLineItemQuantity(quantity QuantityInAlternativeUnits) LineItemQuantity {
	return LineItemQuantity{
		ClassCode: "SPLY",
		MoodCode:  "RQO",
		Code:      NewSnomedCode("373784005", "Dispensing medication (procedure)"),
		Quantity:  quantity,
	}
}

// LineItemPertinentInformation1 attaches additional medication instructions.
type LineItemPertinentInformation1 struct {
	TypeCode                        string                 `xml:"typeCode,attr"`
	ContextConductionInd            string                 `xml:"contextConductionInd,attr"`
	SeperatableInd                  BooleanValue           `xml:"seperatableInd"`
	PertinentAdditionalInstructions AdditionalInstructions `xml:"pertinentAdditionalInstructions"`
}

func NewLineItemPertinentInformation1(instructions AdditionalInstructions) LineItemPertinentInformation1 {
	return LineItemPertinentInformation1{
		TypeCode:                        "PERT",
		ContextConductionInd:            "true",
		SeperatableInd:                  NewBooleanValue(false),
		PertinentAdditionalInstructions: instructions,
	}
}

// LineItemPertinentInformation2 attaches the human readable dosage
// instructions.
type LineItemPertinentInformation2 struct {
	TypeCode                    string             `xml:"typeCode,attr"`
	ContextConductionInd        string             `xml:"contextConductionInd,attr"`
	SeperatableInd              BooleanValue       `xml:"seperatableInd"`
	PertinentDosageInstructions DosageInstructions `xml:"pertinentDosageInstructions"`
}

func NewLineItemPertinentInformation2(instructions DosageInstructions) LineItemPertinentInformation2 {
	return LineItemPertinentInformation2{
		TypeCode:                    "PERT",
		ContextConductionInd:        "true",
		SeperatableInd:              NewBooleanValue(false),
		PertinentDosageInstructions: instructions,
	}
}

// LineItemPertinentInformation3 endorses a controlled drug.
type LineItemPertinentInformation3 struct {
	TypeCode                       string                  `xml:"typeCode,attr"`
	ContextConductionInd           string                  `xml:"contextConductionInd,attr"`
	SeperatableInd                 BooleanValue            `xml:"seperatableInd"`
	PertinentPrescriberEndorsement PrescriptionEndorsement `xml:"pertinentPrescriberEndorsement"`
}

func NewLineItemPertinentInformation3(endorsement PrescriptionEndorsement) LineItemPertinentInformation3 {
	return LineItemPertinentInformation3{
		TypeCode:                       "PERT",
		ContextConductionInd:           "true",
		SeperatableInd:                 NewBooleanValue(false),
		PertinentPrescriberEndorsement: endorsement,
	}
}

// LineItemPertinentInformation4 links the status of the line item at the
// point of a dispense event. Dispensing messages only.
type LineItemPertinentInformation4 struct {
	TypeCode             string       `xml:"typeCode,attr"`
	ContextConductionInd string       `xml:"contextConductionInd,attr"`
	SeperatableInd       BooleanValue `xml:"seperatableInd"`
	PertinentItemStatus  ItemStatus   `xml:"pertinentItemStatus"`
}

func NewLineItemPertinentInformation4(itemStatus ItemStatus) LineItemPertinentInformation4 {
	return LineItemPertinentInformation4{
		TypeCode:             "PERT",
		ContextConductionInd: "true",
		SeperatableInd:       NewBooleanValue(false),
		PertinentItemStatus:  itemStatus,
	}
}

// Line item annotations.

type PrescriptionEndorsement struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Code   `xml:"value"`
}

func NewPrescriptionEndorsement(value Code) PrescriptionEndorsement {
	return PrescriptionEndorsement{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationPrescriberEndorsement,
		Value: value,
	}
}

type DosageInstructions struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Text   `xml:"value"`
}

func NewDosageInstructions(value string) DosageInstructions {
	return DosageInstructions{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationDosageInstructions,
		Value: NewText(value),
	}
}

type AdditionalInstructions struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Text   `xml:"value"`
}

func NewAdditionalInstructions(value string) AdditionalInstructions {
	return AdditionalInstructions{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationAdditionalInstructions,
		Value: NewText(value),
	}
}

type ItemStatus struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Code   `xml:"value"`
}

func NewItemStatus(value Code) ItemStatus {
	return ItemStatus{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationItemStatus,
		Value: value,
	}
}
