package hl7v3

// CancellationRequestRoot wraps a cancellation request under its root
// element name.
type CancellationRequestRoot struct {
	CancellationRequest CancellationRequest `xml:"CancellationRequest"`
}

// CancellationRequest asks the backbone to cancel a single prescription line
// item.
type CancellationRequest struct {
	ClassCode             string                                   `xml:"classCode,attr"`
	MoodCode              string                                   `xml:"moodCode,attr"`
	ID                    Identifier                               `xml:"id"`
	EffectiveTime         Timestamp                                `xml:"effectiveTime"`
	RecordTarget          RecordTarget                             `xml:"recordTarget"`
	Author                Author                                   `xml:"author"`
	ResponsibleParty      ResponsibleParty                         `xml:"responsibleParty"`
	PertinentInformation1 CancellationRequestPertinentInformation1 `xml:"pertinentInformation1"`
	PertinentInformation2 CancellationRequestPertinentInformation2 `xml:"pertinentInformation2"`
	PertinentInformation  CancellationRequestPertinentInformation  `xml:"pertinentInformation"`
	PertinentInformation3 CancellationRequestPertinentInformation3 `xml:"pertinentInformation3"`
}

func NewCancellationRequest(id Identifier, effectiveTime Timestamp) CancellationRequest {
	return CancellationRequest{
		ClassCode:     "INFO",
		MoodCode:      "EVN",
		ID:            id,
		EffectiveTime: effectiveTime,
	}
}

// CancellationRequestPertinentInformation1 identifies the line item to
// cancel.
type CancellationRequestPertinentInformation1 struct {
	TypeCode             string               `xml:"typeCode,attr"`
	InversionInd         string               `xml:"inversionInd,attr"`
	NegationInd          string               `xml:"negationInd,attr"`
	SeperatableInd       BooleanValue         `xml:"seperatableInd"`
	PertinentLineItemRef PertinentLineItemRef `xml:"pertinentLineItemRef"`
}

func NewCancellationRequestPertinentInformation1(lineItemRef string) CancellationRequestPertinentInformation1 {
	return CancellationRequestPertinentInformation1{
		TypeCode:       "PERT",
		InversionInd:   "false",
		NegationInd:    "false",
		SeperatableInd: NewBooleanValue(true),
		PertinentLineItemRef: PertinentLineItemRef{
			ClassCode: "SBADM",
			MoodCode:  "RQO",
			ID:        NewGlobalIdentifier(lineItemRef),
		},
	}
}

type PertinentLineItemRef struct {
	ClassCode string     `xml:"classCode,attr"`
	MoodCode  string     `xml:"moodCode,attr"`
	ID        Identifier `xml:"id"`
}

// CancellationRequestPertinentInformation2 carries the short-form
// prescription identifier.
type CancellationRequestPertinentInformation2 struct {
	TypeCode                string         `xml:"typeCode,attr"`
	ContextConductionInd    string         `xml:"contextConductionInd,attr"`
	SeperatableInd          BooleanValue   `xml:"seperatableInd"`
	PertinentPrescriptionID PrescriptionID `xml:"pertinentPrescriptionID"`
}

func NewCancellationRequestPertinentInformation2(shortFormID string) CancellationRequestPertinentInformation2 {
	return CancellationRequestPertinentInformation2{
		TypeCode:                "PERT",
		ContextConductionInd:    "true",
		SeperatableInd:          NewBooleanValue(false),
		PertinentPrescriptionID: NewPrescriptionID(shortFormID),
	}
}

// CancellationRequestPertinentInformation carries the reason for the
// cancellation.
type CancellationRequestPertinentInformation struct {
	TypeCode                    string             `xml:"typeCode,attr"`
	ContextConductionInd        string             `xml:"contextConductionInd,attr"`
	SeperatableInd              BooleanValue       `xml:"seperatableInd"`
	PertinentCancellationReason CancellationReason `xml:"pertinentCancellationReason"`
}

func NewCancellationRequestPertinentInformation(code, display string) CancellationRequestPertinentInformation {
	return CancellationRequestPertinentInformation{
		TypeCode:                    "PERT",
		ContextConductionInd:        "true",
		SeperatableInd:              NewBooleanValue(false),
		PertinentCancellationReason: NewCancellationReason(code, display),
	}
}

type CancellationReason struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Text      Text   `xml:"text"`
	Value     Code   `xml:"value"`
}

func NewCancellationReason(code, display string) CancellationReason {
	return CancellationReason{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationCancellationReason,
		Text:  NewText(display),
		Value: NewCancellationCode(code, ""),
	}
}

// CancellationRequestPertinentInformation3 references the original
// prescription by its long-form id.
type CancellationRequestPertinentInformation3 struct {
	TypeCode                         string                           `xml:"typeCode,attr"`
	ContextConductionInd             string                           `xml:"contextConductionInd,attr"`
	SeperatableInd                   BooleanValue                     `xml:"seperatableInd"`
	PertinentOriginalPrescriptionRef PertinentOriginalPrescriptionRef `xml:"pertinentOriginalPrescriptionRef"`
}

func NewCancellationRequestPertinentInformation3(prescriptionRef string) CancellationRequestPertinentInformation3 {
	return CancellationRequestPertinentInformation3{
		TypeCode:             "PERT",
		ContextConductionInd: "false",
		SeperatableInd:       NewBooleanValue(true),
		PertinentOriginalPrescriptionRef: PertinentOriginalPrescriptionRef{
			ClassCode: "SBADM",
			MoodCode:  "RQO",
			ID:        NewGlobalIdentifier(prescriptionRef),
		},
	}
}

type PertinentOriginalPrescriptionRef struct {
	ClassCode string     `xml:"classCode,attr"`
	MoodCode  string     `xml:"moodCode,attr"`
	ID        Identifier `xml:"id"`
}
