package hl7v3

// DispenseProposalReturnRoot wraps a return under its root element name.
type DispenseProposalReturnRoot struct {
	DispenseProposalReturn DispenseProposalReturn `xml:"DispenseProposalReturn"`
}

// DispenseProposalReturn sends a downloaded prescription back to the
// national store so another dispenser can pick it up.
type DispenseProposalReturn struct {
	ClassCode             string                                      `xml:"classCode,attr"`
	MoodCode              string                                      `xml:"moodCode,attr"`
	ID                    Identifier                                  `xml:"id"`
	EffectiveTime         Timestamp                                   `xml:"effectiveTime"`
	Author                Author                                      `xml:"author"`
	PertinentInformation1 DispenseProposalReturnPertinentInformation1 `xml:"pertinentInformation1"`
	PertinentInformation3 DispenseProposalReturnPertinentInformation3 `xml:"pertinentInformation3"`
	ReversalOf            DispenseProposalReturnReversalOf            `xml:"reversalOf"`
}

func NewDispenseProposalReturn(id Identifier, effectiveTime Timestamp) DispenseProposalReturn {
	return DispenseProposalReturn{
		ClassCode:     "INFO",
		MoodCode:      "RQO",
		ID:            id,
		EffectiveTime: effectiveTime,
	}
}

type DispenseProposalReturnPertinentInformation1 struct {
	TypeCode                string         `xml:"typeCode,attr"`
	ContextConductionInd    string         `xml:"contextConductionInd,attr"`
	SeperatableInd          BooleanValue   `xml:"seperatableInd"`
	PertinentPrescriptionID PrescriptionID `xml:"pertinentPrescriptionID"`
}

func NewDispenseProposalReturnPertinentInformation1(prescriptionID PrescriptionID) DispenseProposalReturnPertinentInformation1 {
	return DispenseProposalReturnPertinentInformation1{
		TypeCode:                "PERT",
		ContextConductionInd:    "true",
		SeperatableInd:          NewBooleanValue(false),
		PertinentPrescriptionID: prescriptionID,
	}
}

type DispenseProposalReturnPertinentInformation3 struct {
	TypeCode              string       `xml:"typeCode,attr"`
	ContextConductionInd  string       `xml:"contextConductionInd,attr"`
	SeperatableInd        BooleanValue `xml:"seperatableInd"`
	PertinentReturnReason ReturnReason `xml:"pertinentReturnReason"`
}

func NewDispenseProposalReturnPertinentInformation3(returnReason ReturnReason) DispenseProposalReturnPertinentInformation3 {
	return DispenseProposalReturnPertinentInformation3{
		TypeCode:              "PERT",
		ContextConductionInd:  "true",
		SeperatableInd:        NewBooleanValue(false),
		PertinentReturnReason: returnReason,
	}
}

type ReturnReason struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Code   `xml:"value"`
}

func NewReturnReason(code string, displayName string) ReturnReason {
	return ReturnReason{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationReturnReason,
		Value: NewReturnReasonCode(code, displayName),
	}
}

type DispenseProposalReturnReversalOf struct {
	TypeCode                            string                           `xml:"typeCode,attr"`
	PriorPrescriptionReleaseResponseRef PriorPrescriptionReleaseEventRef `xml:"priorPrescriptionReleaseResponseRef"`
}

func NewDispenseProposalReturnReversalOf(releaseResponseRef PriorPrescriptionReleaseEventRef) DispenseProposalReturnReversalOf {
	return DispenseProposalReturnReversalOf{
		TypeCode:                            "REV",
		PriorPrescriptionReleaseResponseRef: releaseResponseRef,
	}
}
