package hl7v3

// DispenseClaimRoot wraps a dispense claim under its root element name.
type DispenseClaimRoot struct {
	DispenseClaim DispenseClaim `xml:"DispenseClaim"`
}

// DispenseClaim asserts reimbursement information for a completed dispense.
type DispenseClaim struct {
	ClassCode                   string                                   `xml:"classCode,attr"`
	MoodCode                    string                                   `xml:"moodCode,attr"`
	ID                          Identifier                               `xml:"id"`
	Code                        Code                                     `xml:"code"`
	EffectiveTime               Timestamp                                `xml:"effectiveTime"`
	TypeID                      Identifier                               `xml:"typeId"`
	PrimaryInformationRecipient DispenseClaimPrimaryInformationRecipient `xml:"primaryInformationRecipient"`
	PertinentInformation1       DispenseClaimPertinentInformation1       `xml:"pertinentInformation1"`
	ReplacementOf               *ReplacementOf                           `xml:"replacementOf,omitempty"`
	Coverage                    *Coverage                                `xml:"coverage,omitempty"`
	SequelTo                    SequelTo                                 `xml:"sequelTo"`
}

func NewDispenseClaim(id Identifier, effectiveTime Timestamp) DispenseClaim {
	return DispenseClaim{
		ClassCode: "INFO",
		MoodCode:  "EVN",
		ID:        id,
		Code: NewSnomedCode(
			"163541000000107",
			"Dispensed Medication - FocusActOrEvent (administrative concept)",
		),
		EffectiveTime: effectiveTime,
		TypeID:        NewTypeIdentifier("PORX_MT142001UK31"),
	}
}

type DispenseClaimPrimaryInformationRecipient struct {
	TypeCode string            `xml:"typeCode,attr"`
	AgentOrg AgentOrganization `xml:"AgentOrg"`
}

func NewDispenseClaimPrimaryInformationRecipient(agentOrg AgentOrganization) DispenseClaimPrimaryInformationRecipient {
	return DispenseClaimPrimaryInformationRecipient{TypeCode: "PRCP", AgentOrg: agentOrg}
}

type DispenseClaimPertinentInformation1 struct {
	TypeCode              string                    `xml:"typeCode,attr"`
	ContextConductionInd  string                    `xml:"contextConductionInd,attr"`
	TemplateID            Identifier                `xml:"templateId"`
	PertinentSupplyHeader DispenseClaimSupplyHeader `xml:"pertinentSupplyHeader"`
}

func NewDispenseClaimPertinentInformation1(supplyHeader DispenseClaimSupplyHeader) DispenseClaimPertinentInformation1 {
	return DispenseClaimPertinentInformation1{
		TypeCode:              "PERT",
		ContextConductionInd:  "true",
		TemplateID:            NewTemplateIdentifier("CSAB_RM-NPfITUK10.pertinentInformation"),
		PertinentSupplyHeader: supplyHeader,
	}
}

// DispenseClaimSupplyHeader is the administrative event common to all claimed
// items, signed by the claiming dispenser.
type DispenseClaimSupplyHeader struct {
	ClassCode             string                                           `xml:"classCode,attr"`
	MoodCode              string                                           `xml:"moodCode,attr"`
	ID                    Identifier                                       `xml:"id"`
	Code                  Code                                             `xml:"code"`
	EffectiveTime         Null                                             `xml:"effectiveTime"`
	RepeatNumber          *Interval[NumericValue]                          `xml:"repeatNumber,omitempty"`
	PertinentInformation1 []DispenseClaimSupplyHeaderPertinentInformation1 `xml:"pertinentInformation1"`
	PertinentInformation2 *PertinentInformation2NonDispensingReason        `xml:"pertinentInformation2,omitempty"`
	PertinentInformation3 SupplyHeaderPertinentInformation3                `xml:"pertinentInformation3"`
	PertinentInformation4 SupplyHeaderPertinentInformation4                `xml:"pertinentInformation4"`
	InFulfillmentOf       InFulfillmentOf                                  `xml:"inFulfillmentOf"`
	LegalAuthenticator    LegalAuthenticator                               `xml:"legalAuthenticator"`
}

func NewDispenseClaimSupplyHeader(id Identifier) DispenseClaimSupplyHeader {
	return DispenseClaimSupplyHeader{
		ClassCode:     "SBADM",
		MoodCode:      "EVN",
		ID:            id,
		Code:          NewSnomedCode("225426007", ""),
		EffectiveTime: NullNotApplicable,
	}
}

type DispenseClaimSupplyHeaderPertinentInformation1 struct {
	TypeCode                  string                        `xml:"typeCode,attr"`
	ContextConductionInd      string                        `xml:"contextConductionInd,attr"`
	InversionInd              string                        `xml:"inversionInd,attr"`
	NegationInd               string                        `xml:"negationInd,attr"`
	SeperatableInd            BooleanValue                  `xml:"seperatableInd"`
	TemplateID                Identifier                    `xml:"templateId"`
	PertinentSuppliedLineItem DispenseClaimSuppliedLineItem `xml:"pertinentSuppliedLineItem"`
}

func NewDispenseClaimSupplyHeaderPertinentInformation1(lineItem DispenseClaimSuppliedLineItem) DispenseClaimSupplyHeaderPertinentInformation1 {
	return DispenseClaimSupplyHeaderPertinentInformation1{
		TypeCode:                  "PERT",
		ContextConductionInd:      "true",
		InversionInd:              "false",
		NegationInd:               "false",
		SeperatableInd:            NewBooleanValue(false),
		TemplateID:                NewTemplateIdentifier("CSAB_RM-NPfITUK10.sourceOf2"),
		PertinentSuppliedLineItem: lineItem,
	}
}

type DispenseClaimSuppliedLineItem struct {
	ClassCode             string                                    `xml:"classCode,attr"`
	MoodCode              string                                    `xml:"moodCode,attr"`
	ID                    Identifier                                `xml:"id"`
	Code                  Code                                      `xml:"code"`
	EffectiveTime         Null                                      `xml:"effectiveTime"`
	RepeatNumber          *Interval[NumericValue]                   `xml:"repeatNumber,omitempty"`
	Component             []DispenseClaimSuppliedLineItemComponent  `xml:"component"`
	PertinentInformation2 *PertinentInformation2NonDispensingReason `xml:"pertinentInformation2,omitempty"`
	PertinentInformation3 SuppliedLineItemPertinentInformation3     `xml:"pertinentInformation3"`
	InFulfillmentOf       SuppliedLineItemInFulfillmentOf           `xml:"inFulfillmentOf"`
}

func NewDispenseClaimSuppliedLineItem(id Identifier) DispenseClaimSuppliedLineItem {
	return DispenseClaimSuppliedLineItem{
		ClassCode:     "SBADM",
		MoodCode:      "PRMS",
		ID:            id,
		Code:          NewSnomedCode("225426007", "Administration of therapeutic substance (procedure)"),
		EffectiveTime: NullNotApplicable,
	}
}

type DispenseClaimSuppliedLineItemComponent struct {
	TypeCode                 string                                `xml:"typeCode,attr"`
	SeperatableInd           BooleanValue                          `xml:"seperatableInd"`
	SuppliedLineItemQuantity DispenseClaimSuppliedLineItemQuantity `xml:"suppliedLineItemQuantity"`
}

func NewDispenseClaimSuppliedLineItemComponent(quantity DispenseClaimSuppliedLineItemQuantity) DispenseClaimSuppliedLineItemComponent {
	return DispenseClaimSuppliedLineItemComponent{
		TypeCode:                 "COMP",
		SeperatableInd:           NewBooleanValue(false),
		SuppliedLineItemQuantity: quantity,
	}
}

type DispenseClaimSuppliedLineItemQuantity struct {
	ClassCode             string                                                       `xml:"classCode,attr"`
	MoodCode              string                                                       `xml:"moodCode,attr"`
	Code                  Code                                                         `xml:"code"`
	Quantity              QuantityInAlternativeUnits                                   `xml:"quantity"`
	Product               DispenseProduct                                              `xml:"product"`
	PertinentInformation1 DispenseClaimSuppliedLineItemQuantityPertinentInformation1   `xml:"pertinentInformation1"`
	PertinentInformation2 []DispenseClaimSuppliedLineItemQuantityPertinentInformation2 `xml:"pertinentInformation2"`
}

func NewDispenseClaimSuppliedLineItemQuantity(
	quantity QuantityInAlternativeUnits,
	product DispenseProduct,
	pertinentInformation1 DispenseClaimSuppliedLineItemQuantityPertinentInformation1,
	pertinentInformation2 []DispenseClaimSuppliedLineItemQuantityPertinentInformation2,
) DispenseClaimSuppliedLineItemQuantity {
	return DispenseClaimSuppliedLineItemQuantity{
		ClassCode:             "SPLY",
		MoodCode:              "EVN",
		Code:                  NewSnomedCode("373784005", "Dispensing medication (procedure)"),
		Quantity:              quantity,
		Product:               product,
		PertinentInformation1: pertinentInformation1,
		PertinentInformation2: pertinentInformation2,
	}
}

type DispenseClaimSuppliedLineItemQuantityPertinentInformation1 struct {
	TypeCode               string        `xml:"typeCode,attr"`
	ContextConductionInd   string        `xml:"contextConductionInd,attr"`
	SeperatableInd         BooleanValue  `xml:"seperatableInd"`
	PertinentChargePayment ChargePayment `xml:"pertinentChargePayment"`
}

func NewDispenseClaimSuppliedLineItemQuantityPertinentInformation1(chargePayment ChargePayment) DispenseClaimSuppliedLineItemQuantityPertinentInformation1 {
	return DispenseClaimSuppliedLineItemQuantityPertinentInformation1{
		TypeCode:               "PERT",
		ContextConductionInd:   "true",
		SeperatableInd:         NewBooleanValue(false),
		PertinentChargePayment: chargePayment,
	}
}

// ChargePayment records whether a prescription charge was paid for the item.
type ChargePayment struct {
	ClassCode string       `xml:"classCode,attr"`
	MoodCode  string       `xml:"moodCode,attr"`
	Code      Code         `xml:"code"`
	Value     BooleanValue `xml:"value"`
}

func NewChargePayment(paid bool) ChargePayment {
	return ChargePayment{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationChargePayment,
		Value: NewBooleanValue(paid),
	}
}

type DispenseClaimSuppliedLineItemQuantityPertinentInformation2 struct {
	TypeCode                       string                `xml:"typeCode,attr"`
	ContextConductionInd           string                `xml:"contextConductionInd,attr"`
	SeperatableInd                 BooleanValue          `xml:"seperatableInd"`
	PertinentDispensingEndorsement DispensingEndorsement `xml:"pertinentDispensingEndorsement"`
}

func NewDispenseClaimSuppliedLineItemQuantityPertinentInformation2(endorsement DispensingEndorsement) DispenseClaimSuppliedLineItemQuantityPertinentInformation2 {
	return DispenseClaimSuppliedLineItemQuantityPertinentInformation2{
		TypeCode:                       "PERT",
		ContextConductionInd:           "true",
		SeperatableInd:                 NewBooleanValue(true),
		PertinentDispensingEndorsement: endorsement,
	}
}

type DispensingEndorsement struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Text      *Text  `xml:"text,omitempty"`
	Value     Code   `xml:"value"`
}

func NewDispensingEndorsement(text string, value Code) DispensingEndorsement {
	endorsement := DispensingEndorsement{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationDispensingEndorsement,
		Value: value,
	}
	if text != "" {
		supportingInfo := NewText(text)
		endorsement.Text = &supportingInfo
	}
	return endorsement
}

// Coverage carries the charge exemption claimed for the whole prescription.
type Coverage struct {
	TypeCode             string       `xml:"typeCode,attr"`
	ContextConductionInd string       `xml:"contextConductionInd,attr"`
	SeperatableInd       BooleanValue `xml:"seperatableInd"`
	CoveringChargeExempt ChargeExempt `xml:"coveringChargeExempt"`
}

func NewCoverage(chargeExempt ChargeExempt) Coverage {
	return Coverage{
		TypeCode:             "COVBY",
		ContextConductionInd: "true",
		SeperatableInd:       NewBooleanValue(false),
		CoveringChargeExempt: chargeExempt,
	}
}

// ChargeExempt is negated when no exemption applies.
type ChargeExempt struct {
	ClassCode     string         `xml:"classCode,attr"`
	MoodCode      string         `xml:"moodCode,attr"`
	NegationInd   string         `xml:"negationInd,attr"`
	Code          Code           `xml:"code"`
	Value         Code           `xml:"value"`
	Authorization *Authorization `xml:"authorization,omitempty"`
}

func NewChargeExempt(exempt bool, evidenceCode string) ChargeExempt {
	return ChargeExempt{
		ClassCode:   "OBS",
		MoodCode:    "EVN",
		NegationInd: NewBooleanValue(!exempt).Value,
		Code:        AnnotationChargeExempt,
		Value:       NewChargeExemptionCode(evidenceCode, ""),
	}
}

type Authorization struct {
	TypeCode                string       `xml:"typeCode,attr"`
	ContextConductionInd    string       `xml:"contextConductionInd,attr"`
	SeperatableInd          BooleanValue `xml:"seperatableInd"`
	AuthorizingEvidenceSeen EvidenceSeen `xml:"authorizingEvidenceSeen"`
}

func NewAuthorization(evidenceSeen EvidenceSeen) Authorization {
	return Authorization{
		TypeCode:                "AUTH",
		ContextConductionInd:    "true",
		SeperatableInd:          NewBooleanValue(false),
		AuthorizingEvidenceSeen: evidenceSeen,
	}
}

// EvidenceSeen is negated when exemption evidence was not produced.
type EvidenceSeen struct {
	ClassCode   string `xml:"classCode,attr"`
	MoodCode    string `xml:"moodCode,attr"`
	NegationInd string `xml:"negationInd,attr"`
	Code        Code   `xml:"code"`
}

func NewEvidenceSeen(seen bool) EvidenceSeen {
	return EvidenceSeen{
		ClassCode:   "OBS",
		MoodCode:    "EVN",
		NegationInd: NewBooleanValue(!seen).Value,
		Code:        AnnotationEvidenceSeen,
	}
}
