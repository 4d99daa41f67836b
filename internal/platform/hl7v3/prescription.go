package hl7v3

// Prescription represents the administration parts common to a single item
// on a prescription. The two ids are the long-form UUID and the short-form
// prescription identifier, in that order.
type Prescription struct {
	ClassCode             string                              `xml:"classCode,attr"`
	MoodCode              string                              `xml:"moodCode,attr"`
	ID                    []Identifier                        `xml:"id"`
	Code                  Code                                `xml:"code"`
	EffectiveTime         Null                                `xml:"effectiveTime"`
	RepeatNumber          *Interval[NumericValue]             `xml:"repeatNumber,omitempty"`
	Performer             *Performer                          `xml:"performer,omitempty"`
	Author                PrescriptionAuthor                  `xml:"author"`
	ResponsibleParty      PrescriptionResponsibleParty        `xml:"responsibleParty"`
	Component1            *Component1                         `xml:"component1,omitempty"`
	PertinentInformation7 *PrescriptionPertinentInformation7  `xml:"pertinentInformation7,omitempty"`
	PertinentInformation5 PrescriptionPertinentInformation5   `xml:"pertinentInformation5"`
	PertinentInformation1 PrescriptionPertinentInformation1   `xml:"pertinentInformation1"`
	PertinentInformation2 []PrescriptionPertinentInformation2 `xml:"pertinentInformation2"`
	PertinentInformation8 PrescriptionPertinentInformation8   `xml:"pertinentInformation8"`
	PertinentInformation4 PrescriptionPertinentInformation4   `xml:"pertinentInformation4"`
}

func NewPrescription(id, shortFormID Identifier) Prescription {
	return Prescription{
		ClassCode:     "SBADM",
		MoodCode:      "RQO",
		ID:            []Identifier{id, shortFormID},
		Code:          NewSnomedCode("225426007", "Administration of therapeutic substance (procedure)"),
		EffectiveTime: NullNotApplicable,
	}
}

// Performer links the prescription to the patient's nominated pharmacy.
type Performer struct {
	TypeCode           string            `xml:"typeCode,attr"`
	ContextControlCode string            `xml:"contextControlCode,attr"`
	AgentOrgSDS        AgentOrganization `xml:"AgentOrgSDS"`
}

func NewPerformer(agentOrganization AgentOrganization) Performer {
	return Performer{TypeCode: "PRF", ContextControlCode: "OP", AgentOrgSDS: agentOrganization}
}

// Component1 carries the days' supply information used to calculate the
// dispensing window. Mandatory for repeat dispensing prescriptions.
type Component1 struct {
	TypeCode       string       `xml:"typeCode,attr"`
	SeperatableInd BooleanValue `xml:"seperatableInd"`
	DaysSupply     DaysSupply   `xml:"daysSupply"`
}

func NewComponent1(daysSupply DaysSupply) Component1 {
	return Component1{TypeCode: "COMP", SeperatableInd: NewBooleanValue(true), DaysSupply: daysSupply}
}

type DaysSupply struct {
	ClassCode       string               `xml:"classCode,attr"`
	MoodCode        string               `xml:"moodCode,attr"`
	Code            Code                 `xml:"code"`
	EffectiveTime   *Interval[Timestamp] `xml:"effectiveTime,omitempty"`
	ExpectedUseTime *IntervalUnanchored  `xml:"expectedUseTime,omitempty"`
}

func NewDaysSupply() DaysSupply {
	return DaysSupply{
		ClassCode: "SPLY",
		MoodCode:  "RQO",
		Code:      NewSnomedCode("373784005", "Dispensing medication (procedure)"),
	}
}

// PrescriptionPertinentInformation1 carries the dispensing site preference.
type PrescriptionPertinentInformation1 struct {
	TypeCode                          string                   `xml:"typeCode,attr"`
	ContextConductionInd              string                   `xml:"contextConductionInd,attr"`
	SeperatableInd                    BooleanValue             `xml:"seperatableInd"`
	PertinentDispensingSitePreference DispensingSitePreference `xml:"pertinentDispensingSitePreference"`
}

func NewPrescriptionPertinentInformation1(preference DispensingSitePreference) PrescriptionPertinentInformation1 {
	return PrescriptionPertinentInformation1{
		TypeCode:                          "PERT",
		ContextConductionInd:              "true",
		SeperatableInd:                    NewBooleanValue(true),
		PertinentDispensingSitePreference: preference,
	}
}

// PrescriptionPertinentInformation2 associates one prescribed line item with
// the prescription.
type PrescriptionPertinentInformation2 struct {
	TypeCode             string       `xml:"typeCode,attr"`
	InversionInd         string       `xml:"inversionInd,attr"`
	ContextConductionInd string       `xml:"contextConductionInd,attr"`
	NegationInd          string       `xml:"negationInd,attr"`
	SeperatableInd       BooleanValue `xml:"seperatableInd"`
	TemplateID           Identifier   `xml:"templateId"`
	PertinentLineItem    LineItem     `xml:"pertinentLineItem"`
}

func NewPrescriptionPertinentInformation2(lineItem LineItem) PrescriptionPertinentInformation2 {
	return PrescriptionPertinentInformation2{
		TypeCode:             "PERT",
		InversionInd:         "false",
		ContextConductionInd: "true",
		NegationInd:          "false",
		SeperatableInd:       NewBooleanValue(true),
		TemplateID:           NewTemplateIdentifier("CSAB_RM-NPfITUK10.sourceOf2"),
		PertinentLineItem:    lineItem,
	}
}

// PrescriptionPertinentInformation4 qualifies the type of prescriber and the
// reason for the prescription.
type PrescriptionPertinentInformation4 struct {
	TypeCode                  string           `xml:"typeCode,attr"`
	ContextConductionInd      string           `xml:"contextConductionInd,attr"`
	SeperatableInd            BooleanValue     `xml:"seperatableInd"`
	PertinentPrescriptionType PrescriptionType `xml:"pertinentPrescriptionType"`
}

func NewPrescriptionPertinentInformation4(prescriptionType PrescriptionType) PrescriptionPertinentInformation4 {
	return PrescriptionPertinentInformation4{
		TypeCode:                  "PERT",
		ContextConductionInd:      "true",
		SeperatableInd:            NewBooleanValue(false),
		PertinentPrescriptionType: prescriptionType,
	}
}

// PrescriptionPertinentInformation5 qualifies the treatment type: acute,
// repeat prescribing or repeat dispensing.
type PrescriptionPertinentInformation5 struct {
	TypeCode                           string                    `xml:"typeCode,attr"`
	ContextConductionInd               string                    `xml:"contextConductionInd,attr"`
	SeperatableInd                     BooleanValue              `xml:"seperatableInd"`
	PertinentPrescriptionTreatmentType PrescriptionTreatmentType `xml:"pertinentPrescriptionTreatmentType"`
}

func NewPrescriptionPertinentInformation5(treatmentType PrescriptionTreatmentType) PrescriptionPertinentInformation5 {
	return PrescriptionPertinentInformation5{
		TypeCode:                           "PERT",
		ContextConductionInd:               "true",
		SeperatableInd:                     NewBooleanValue(false),
		PertinentPrescriptionTreatmentType: treatmentType,
	}
}

// PrescriptionPertinentInformation7 informs the dispenser of the anticipated
// review date for a repeat dispensing prescription.
type PrescriptionPertinentInformation7 struct {
	TypeCode             string       `xml:"typeCode,attr"`
	ContextConductionInd string       `xml:"contextConductionInd,attr"`
	SeperatableInd       BooleanValue `xml:"seperatableInd"`
	PertinentReviewDate  ReviewDate   `xml:"pertinentReviewDate"`
}

func NewPrescriptionPertinentInformation7(reviewDate ReviewDate) PrescriptionPertinentInformation7 {
	return PrescriptionPertinentInformation7{
		TypeCode:             "PERT",
		ContextConductionInd: "true",
		SeperatableInd:       NewBooleanValue(false),
		PertinentReviewDate:  reviewDate,
	}
}

// PrescriptionPertinentInformation8 records whether the patient was given a
// token.
type PrescriptionPertinentInformation8 struct {
	TypeCode             string       `xml:"typeCode,attr"`
	ContextConductionInd string       `xml:"contextConductionInd,attr"`
	SeperatableInd       BooleanValue `xml:"seperatableInd"`
	PertinentTokenIssued TokenIssued  `xml:"pertinentTokenIssued"`
}

func NewPrescriptionPertinentInformation8(tokenIssued TokenIssued) PrescriptionPertinentInformation8 {
	return PrescriptionPertinentInformation8{
		TypeCode:             "PERT",
		ContextConductionInd: "true",
		SeperatableInd:       NewBooleanValue(false),
		PertinentTokenIssued: tokenIssued,
	}
}

// Prescription annotations. Each is an observation pairing its fixed
// annotation code with a value.

type PrescriptionTreatmentType struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Code   `xml:"value"`
}

func NewPrescriptionTreatmentType(value Code) PrescriptionTreatmentType {
	return PrescriptionTreatmentType{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationPrescriptionTreatmentType,
		Value: value,
	}
}

type DispensingSitePreference struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Code   `xml:"value"`
}

func NewDispensingSitePreference(value Code) DispensingSitePreference {
	return DispensingSitePreference{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationDispensingSitePreference,
		Value: value,
	}
}

type TokenIssued struct {
	ClassCode string       `xml:"classCode,attr"`
	MoodCode  string       `xml:"moodCode,attr"`
	Code      Code         `xml:"code"`
	Value     BooleanValue `xml:"value"`
}

func NewTokenIssued(value bool) TokenIssued {
	return TokenIssued{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationTokenIssued,
		Value: NewBooleanValue(value),
	}
}

type PrescriptionType struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Code   `xml:"value"`
}

func NewPrescriptionType(value Code) PrescriptionType {
	return PrescriptionType{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationPrescriptionType,
		Value: value,
	}
}

type ReviewDate struct {
	ClassCode string    `xml:"classCode,attr"`
	MoodCode  string    `xml:"moodCode,attr"`
	Code      Code      `xml:"code"`
	Value     Timestamp `xml:"value"`
}

func NewReviewDate(value Timestamp) ReviewDate {
	return ReviewDate{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationReviewDate,
		Value: value,
	}
}

// PrescriptionID is the short-form prescription identifier annotation used
// by cancellations and dispense messages.
type PrescriptionID struct {
	ClassCode string     `xml:"classCode,attr"`
	MoodCode  string     `xml:"moodCode,attr"`
	Code      Code       `xml:"code"`
	Value     Identifier `xml:"value"`
}

func NewPrescriptionID(shortFormID string) PrescriptionID {
	return PrescriptionID{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationPrescriptionID,
		Value: NewShortFormPrescriptionIdentifier(shortFormID),
	}
}
