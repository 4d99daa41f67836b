package hl7v3

// ParentPrescriptionRoot wraps the parent prescription under its root
// element name for canonical serialization.
type ParentPrescriptionRoot struct {
	ParentPrescription ParentPrescription `xml:"ParentPrescription"`
}

// ParentPrescription holds the parts of the administration side of a
// prescription that are common to every item on it.
type ParentPrescription struct {
	ClassCode             string                                  `xml:"classCode,attr"`
	MoodCode              string                                  `xml:"moodCode,attr"`
	ID                    Identifier                              `xml:"id"`
	Code                  Code                                    `xml:"code"`
	EffectiveTime         Timestamp                               `xml:"effectiveTime"`
	TypeID                Identifier                              `xml:"typeId"`
	RecordTarget          RecordTarget                            `xml:"recordTarget"`
	PertinentInformation1 ParentPrescriptionPertinentInformation1 `xml:"pertinentInformation1"`
	PertinentInformation2 ParentPrescriptionPertinentInformation2 `xml:"pertinentInformation2"`
}

func NewParentPrescription(id Identifier, effectiveTime Timestamp) ParentPrescription {
	return ParentPrescription{
		ClassCode:     "INFO",
		MoodCode:      "EVN",
		ID:            id,
		Code:          NewSnomedCode("163501000000109", "Prescription - FocusActOrEvent (record artifact)"),
		EffectiveTime: effectiveTime,
		TypeID:        NewTypeIdentifier("PORX_MT132004UK31"),
	}
}

// ParentPrescriptionPertinentInformation1 links the parent prescription to
// the prescription administration information.
type ParentPrescriptionPertinentInformation1 struct {
	TypeCode              string       `xml:"typeCode,attr"`
	ContextConductionInd  string       `xml:"contextConductionInd,attr"`
	TemplateID            Identifier   `xml:"templateId"`
	PertinentPrescription Prescription `xml:"pertinentPrescription"`
}

func NewParentPrescriptionPertinentInformation1(prescription Prescription) ParentPrescriptionPertinentInformation1 {
	return ParentPrescriptionPertinentInformation1{
		TypeCode:              "PERT",
		ContextConductionInd:  "true",
		TemplateID:            NewTemplateIdentifier("CSAB_RM-NPfITUK10.pertinentInformation"),
		PertinentPrescription: prescription,
	}
}

// ParentPrescriptionPertinentInformation2 relates the clinical statements in
// the message to the focal act.
type ParentPrescriptionPertinentInformation2 struct {
	TypeCode                           string                    `xml:"typeCode,attr"`
	TemplateID                         Identifier                `xml:"templateId"`
	PertinentCareRecordElementCategory CareRecordElementCategory `xml:"pertinentCareRecordElementCategory"`
}

func NewParentPrescriptionPertinentInformation2(category CareRecordElementCategory) ParentPrescriptionPertinentInformation2 {
	return ParentPrescriptionPertinentInformation2{
		TypeCode:                           "PERT",
		TemplateID:                         NewTemplateIdentifier("CSAB_RM-NPfITUK10.pertinentInformation1"),
		PertinentCareRecordElementCategory: category,
	}
}

// CareRecordElementCategory groups the clinical statements in the message
// under a single care record category.
type CareRecordElementCategory struct {
	ClassCode string                               `xml:"classCode,attr"`
	MoodCode  string                               `xml:"moodCode,attr"`
	Code      Code                                 `xml:"code"`
	Component []CareRecordElementCategoryComponent `xml:"component"`
}

func NewCareRecordElementCategory(components []CareRecordElementCategoryComponent) CareRecordElementCategory {
	return CareRecordElementCategory{
		ClassCode: "CATEGORY",
		MoodCode:  "EVN",
		Code:      NewSnomedCode("185361000000102", "Medication - care record element (record artifact)"),
		Component: components,
	}
}

type CareRecordElementCategoryComponent struct {
	TypeCode string `xml:"typeCode,attr"`
	ActRef   ActRef `xml:"actRef"`
}

func NewCareRecordElementCategoryComponent(actRef ActRef) CareRecordElementCategoryComponent {
	return CareRecordElementCategoryComponent{TypeCode: "COMP", ActRef: actRef}
}

// ActRef is a reference to a clinical statement within this message. It
// copies the structural codes and id of the act it points at.
type ActRef struct {
	ClassCode string     `xml:"classCode,attr"`
	MoodCode  string     `xml:"moodCode,attr"`
	ID        Identifier `xml:"id"`
}

func NewActRef(classCode, moodCode string, id Identifier) ActRef {
	return ActRef{ClassCode: classCode, MoodCode: moodCode, ID: id}
}
