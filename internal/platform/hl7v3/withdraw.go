package hl7v3

// EtpWithdrawRoot wraps a dispenser withdraw under its root element name.
type EtpWithdrawRoot struct {
	ETPWithdraw EtpWithdraw `xml:"ETPWithdraw"`
}

// EtpWithdraw retracts the most recent dispense notification for a
// prescription.
type EtpWithdraw struct {
	ClassCode             string                            `xml:"classCode,attr"`
	MoodCode              string                            `xml:"moodCode,attr"`
	ID                    Identifier                        `xml:"id"`
	EffectiveTime         Timestamp                         `xml:"effectiveTime"`
	RecordTarget          RecordTargetReference             `xml:"recordTarget"`
	Author                AuthorPersonSds                   `xml:"author"`
	PertinentInformation1 *EtpWithdrawPertinentInformation1 `xml:"pertinentInformation1,omitempty"`
	PertinentInformation2 EtpWithdrawPertinentInformation2  `xml:"pertinentInformation2"`
	PertinentInformation3 EtpWithdrawPertinentInformation3  `xml:"pertinentInformation3"`
	PertinentInformation4 EtpWithdrawPertinentInformation4  `xml:"pertinentInformation4"`
	PertinentInformation5 EtpWithdrawPertinentInformation5  `xml:"pertinentInformation5"`
}

func NewEtpWithdraw(id Identifier, effectiveTime Timestamp) EtpWithdraw {
	return EtpWithdraw{
		ClassCode:     "ALRT",
		MoodCode:      "EVN",
		ID:            id,
		EffectiveTime: effectiveTime,
	}
}

type EtpWithdrawPertinentInformation1 struct {
	TypeCode                    string             `xml:"typeCode,attr"`
	ContextConductionInd        string             `xml:"contextConductionInd,attr"`
	SeperatableInd              BooleanValue       `xml:"seperatableInd"`
	PertinentRepeatInstanceInfo RepeatInstanceInfo `xml:"pertinentRepeatInstanceInfo"`
}

func NewEtpWithdrawPertinentInformation1(repeatInstanceInfo RepeatInstanceInfo) EtpWithdrawPertinentInformation1 {
	return EtpWithdrawPertinentInformation1{
		TypeCode:                    "PERT",
		ContextConductionInd:        "true",
		SeperatableInd:              NewBooleanValue(false),
		PertinentRepeatInstanceInfo: repeatInstanceInfo,
	}
}

// RepeatInstanceInfo identifies which issue of a repeat prescription the
// withdraw applies to.
type RepeatInstanceInfo struct {
	ClassCode string       `xml:"classCode,attr"`
	MoodCode  string       `xml:"moodCode,attr"`
	Code      Code         `xml:"code"`
	Value     NumericValue `xml:"value"`
}

func NewRepeatInstanceInfo(repeatInstance string) RepeatInstanceInfo {
	return RepeatInstanceInfo{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationRepeatInstanceInfo,
		Value: NumericValue{Value: repeatInstance},
	}
}

type EtpWithdrawPertinentInformation2 struct {
	TypeCode              string       `xml:"typeCode,attr"`
	ContextConductionInd  string       `xml:"contextConductionInd,attr"`
	SeperatableInd        BooleanValue `xml:"seperatableInd"`
	PertinentWithdrawType WithdrawType `xml:"pertinentWithdrawType"`
}

func NewEtpWithdrawPertinentInformation2(withdrawType WithdrawType) EtpWithdrawPertinentInformation2 {
	return EtpWithdrawPertinentInformation2{
		TypeCode:              "PERT",
		ContextConductionInd:  "true",
		SeperatableInd:        NewBooleanValue(false),
		PertinentWithdrawType: withdrawType,
	}
}

type WithdrawType struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Code   `xml:"value"`
}

func NewWithdrawType(code string, displayName string) WithdrawType {
	return WithdrawType{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationWithdrawType,
		Value: NewWithdrawTypeCode(code, displayName),
	}
}

type EtpWithdrawPertinentInformation3 struct {
	TypeCode             string       `xml:"typeCode,attr"`
	ContextConductionInd string       `xml:"contextConductionInd,attr"`
	SeperatableInd       BooleanValue `xml:"seperatableInd"`
	PertinentWithdrawID  WithdrawID   `xml:"pertinentWithdrawID"`
}

func NewEtpWithdrawPertinentInformation3(withdrawID WithdrawID) EtpWithdrawPertinentInformation3 {
	return EtpWithdrawPertinentInformation3{
		TypeCode:             "PERT",
		ContextConductionInd: "false",
		SeperatableInd:       NewBooleanValue(false),
		PertinentWithdrawID:  withdrawID,
	}
}

type WithdrawID struct {
	ClassCode string     `xml:"classCode,attr"`
	MoodCode  string     `xml:"moodCode,attr"`
	Code      Code       `xml:"code"`
	Value     Identifier `xml:"value"`
}

func NewWithdrawID(shortFormID string) WithdrawID {
	return WithdrawID{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationWithdrawID,
		Value: NewShortFormPrescriptionIdentifier(shortFormID),
	}
}

type EtpWithdrawPertinentInformation4 struct {
	TypeCode                         string                  `xml:"typeCode,attr"`
	InversionInd                     string                  `xml:"inversionInd,attr"`
	NegationInd                      string                  `xml:"negationInd,attr"`
	SeperatableInd                   BooleanValue            `xml:"seperatableInd"`
	PertinentDispenseNotificationRef DispenseNotificationRef `xml:"pertinentDispenseNotificationRef"`
}

func NewEtpWithdrawPertinentInformation4(dispenseNotificationRef DispenseNotificationRef) EtpWithdrawPertinentInformation4 {
	return EtpWithdrawPertinentInformation4{
		TypeCode:                         "PERT",
		InversionInd:                     "false",
		NegationInd:                      "false",
		SeperatableInd:                   NewBooleanValue(true),
		PertinentDispenseNotificationRef: dispenseNotificationRef,
	}
}

// DispenseNotificationRef points at the dispense notification being
// withdrawn.
type DispenseNotificationRef struct {
	ClassCode string     `xml:"classCode,attr"`
	MoodCode  string     `xml:"moodCode,attr"`
	ID        Identifier `xml:"id"`
}

func NewDispenseNotificationRef(id string) DispenseNotificationRef {
	return DispenseNotificationRef{
		ClassCode: "INFO",
		MoodCode:  "EVN",
		ID:        NewGlobalIdentifier(id),
	}
}

type EtpWithdrawPertinentInformation5 struct {
	TypeCode                string         `xml:"typeCode,attr"`
	ContextConductionInd    string         `xml:"contextConductionInd,attr"`
	SeperatableInd          BooleanValue   `xml:"seperatableInd"`
	PertinentWithdrawReason WithdrawReason `xml:"pertinentWithdrawReason"`
}

func NewEtpWithdrawPertinentInformation5(withdrawReason WithdrawReason) EtpWithdrawPertinentInformation5 {
	return EtpWithdrawPertinentInformation5{
		TypeCode:                "PERT",
		ContextConductionInd:    "true",
		SeperatableInd:          NewBooleanValue(false),
		PertinentWithdrawReason: withdrawReason,
	}
}

type WithdrawReason struct {
	ClassCode string `xml:"classCode,attr"`
	MoodCode  string `xml:"moodCode,attr"`
	Code      Code   `xml:"code"`
	Value     Code   `xml:"value"`
}

func NewWithdrawReason(code string, displayName string) WithdrawReason {
	return WithdrawReason{
		ClassCode: "OBS", MoodCode: "EVN",
		Code:  AnnotationWithdrawReason,
		Value: NewWithdrawReasonCode(code, displayName),
	}
}
