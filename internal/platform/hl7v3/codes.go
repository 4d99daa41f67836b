// Package hl7v3 models the attribute-coded XML vocabulary accepted by the
// national prescription backbone. Every node type carries its fixed
// structural attributes (classCode, moodCode, typeCode) and every coded value
// carries the OID of its code system. Constructors set the fixed attributes
// so callers only supply the varying parts.
package hl7v3

// Code system OIDs. These are interoperability constants and must be emitted
// verbatim.
const (
	SnomedCodeSystem                 = "2.16.840.1.113883.2.1.3.2.4.15"
	SexCodeSystem                    = "2.16.840.1.113883.2.1.3.2.4.16.25"
	SdsJobRoleCodeSystem             = "1.2.826.0.1285.0.2.1.104"
	OrganizationTypeCodeSystem       = "2.16.840.1.113883.2.1.3.2.4.17.94"
	PrescriptionAnnotationCodeSystem = "2.16.840.1.113883.2.1.3.2.4.17.30"
	TreatmentTypeCodeSystem          = "2.16.840.1.113883.2.1.3.2.4.16.36"
	DispensingSitePreferenceSystem   = "2.16.840.1.113883.2.1.3.2.4.17.21"
	PrescriptionEndorsementSystem    = "2.16.840.1.113883.2.1.3.2.4.16.32"
	PrescriptionTypeCodeSystem       = "2.16.840.1.113883.2.1.3.2.4.17.25"
	CancellationCodeSystem           = "2.16.840.1.113883.2.1.3.2.4.16.27"
	PrescriptionStatusCodeSystem     = "2.16.840.1.113883.2.1.3.2.4.16.35"
	ItemStatusCodeSystem             = "2.16.840.1.113883.2.1.3.2.4.17.23"
	ReturnReasonCodeSystem           = "2.16.840.1.113883.2.1.3.2.4.16.28"
	WithdrawTypeCodeSystem           = "2.16.840.1.113883.2.1.3.2.4.17.109"
	WithdrawReasonCodeSystem         = "2.16.840.1.113883.2.1.3.2.4.17.110"
	DispensingEndorsementSystem      = "2.16.840.1.113883.2.1.3.2.4.16.29"
	NotDispensedReasonCodeSystem     = "2.16.840.1.113883.2.1.3.2.4.16.31"
	ChargeExemptionCodeSystem        = "2.16.840.1.113883.2.1.3.2.4.16.33"
	PatientCareProvisionTypeSystem   = "2.16.840.1.113883.2.1.3.2.4.17.37"
)

// Code is a coded value with its owning code system. Node types embed it
// under whatever element name the schema requires.
type Code struct {
	Xmlns        string `xml:"xmlns,attr,omitempty"`
	Code         string `xml:"code,attr"`
	CodeSystem   string `xml:"codeSystem,attr,omitempty"`
	DisplayName  string `xml:"displayName,attr,omitempty"`
	OriginalText *Text  `xml:"originalText,omitempty"`
}

func NewSnomedCode(code, displayName string) Code {
	return Code{CodeSystem: SnomedCodeSystem, Code: code, DisplayName: displayName}
}

func NewSexCode(code string) Code {
	return Code{CodeSystem: SexCodeSystem, Code: code}
}

// Administrative sex codes.
var (
	SexUnknown       = NewSexCode("0")
	SexMale          = NewSexCode("1")
	SexFemale        = NewSexCode("2")
	SexIndeterminate = NewSexCode("9")
)

func NewSdsJobRoleCode(code string) Code {
	return Code{CodeSystem: SdsJobRoleCodeSystem, Code: code}
}

func NewOrganizationTypeCode(code string) Code {
	return Code{CodeSystem: OrganizationTypeCodeSystem, Code: code}
}

// OrganizationTypeNotSpecified is emitted for every organization. The source
// data does not carry a reliable organization type.
var OrganizationTypeNotSpecified = NewOrganizationTypeCode("008")

func NewPrescriptionAnnotationCode(code string) Code {
	return Code{CodeSystem: PrescriptionAnnotationCodeSystem, Code: code}
}

func NewTreatmentTypeCode(code string) Code {
	return Code{CodeSystem: TreatmentTypeCodeSystem, Code: code}
}

// Prescription treatment types.
var (
	TreatmentTypeAcute              = NewTreatmentTypeCode("0001")
	TreatmentTypeContinuous         = NewTreatmentTypeCode("0002")
	TreatmentTypeContinuousRepeat   = NewTreatmentTypeCode("0003")
	PatientCareProvisionPrimaryCare = Code{CodeSystem: PatientCareProvisionTypeSystem, Code: "1"}
)

func NewDispensingSitePreferenceCode(code string) Code {
	return Code{CodeSystem: DispensingSitePreferenceSystem, Code: code}
}

func NewPrescriptionEndorsementCode(code string) Code {
	return Code{CodeSystem: PrescriptionEndorsementSystem, Code: code}
}

func NewPrescriptionTypeCode(code string) Code {
	return Code{CodeSystem: PrescriptionTypeCodeSystem, Code: code}
}

func NewCancellationCode(code, displayName string) Code {
	return Code{CodeSystem: CancellationCodeSystem, Code: code, DisplayName: displayName}
}

func NewPrescriptionStatusCode(code, displayName string) Code {
	return Code{CodeSystem: PrescriptionStatusCodeSystem, Code: code, DisplayName: displayName}
}

func NewItemStatusCode(code, displayName string) Code {
	return Code{CodeSystem: ItemStatusCodeSystem, Code: code, DisplayName: displayName}
}

func NewReturnReasonCode(code, displayName string) Code {
	return Code{CodeSystem: ReturnReasonCodeSystem, Code: code, DisplayName: displayName}
}

func NewWithdrawTypeCode(code, displayName string) Code {
	return Code{CodeSystem: WithdrawTypeCodeSystem, Code: code, DisplayName: displayName}
}

func NewWithdrawReasonCode(code, displayName string) Code {
	return Code{CodeSystem: WithdrawReasonCodeSystem, Code: code, DisplayName: displayName}
}

func NewDispensingEndorsementCode(code string) Code {
	return Code{CodeSystem: DispensingEndorsementSystem, Code: code}
}

func NewNotDispensedReasonCode(code, displayName string) Code {
	return Code{CodeSystem: NotDispensedReasonCodeSystem, Code: code, DisplayName: displayName}
}

func NewChargeExemptionCode(code, displayName string) Code {
	return Code{CodeSystem: ChargeExemptionCodeSystem, Code: code, DisplayName: displayName}
}

// Envelope codes have no code system.
var (
	VersionCodeV3NPfIT4200 = Code{Code: "V3NPfIT4.2.00"}
	ProcessingIDProduction = Code{Code: "P"}
	ProcessingModeOnline   = Code{Code: "T"}
	AcceptAckNever         = Code{Code: "NE"}
)

// Prescription annotation codes, one per pertinent information variant.
var (
	AnnotationPrescriptionTreatmentType = NewPrescriptionAnnotationCode("PTT")
	AnnotationDispensingSitePreference  = NewPrescriptionAnnotationCode("DSP")
	AnnotationTokenIssued               = NewPrescriptionAnnotationCode("TI")
	AnnotationPrescriptionType          = NewPrescriptionAnnotationCode("PT")
	AnnotationReviewDate                = NewPrescriptionAnnotationCode("RD")
	AnnotationAdditionalInstructions    = NewPrescriptionAnnotationCode("AI")
	AnnotationDosageInstructions        = NewPrescriptionAnnotationCode("DI")
	AnnotationPrescriberEndorsement     = NewPrescriptionAnnotationCode("PE")
	AnnotationItemStatus                = NewPrescriptionAnnotationCode("IS")
	AnnotationPrescriptionStatus        = NewPrescriptionAnnotationCode("PS")
	AnnotationPrescriptionID            = NewPrescriptionAnnotationCode("PID")
	AnnotationCancellationReason        = NewPrescriptionAnnotationCode("CR")
	AnnotationNonDispensingReason       = NewPrescriptionAnnotationCode("NDR")
	AnnotationSupplyInstructions        = NewPrescriptionAnnotationCode("SI")
	AnnotationRepeatInstanceInfo        = NewPrescriptionAnnotationCode("RPI")
	AnnotationWithdrawID                = NewPrescriptionAnnotationCode("WID")
	AnnotationWithdrawType              = NewPrescriptionAnnotationCode("PWT")
	AnnotationWithdrawReason            = NewPrescriptionAnnotationCode("PWR")
	AnnotationReturnReason              = NewPrescriptionAnnotationCode("RR")
	AnnotationChargePayment             = NewPrescriptionAnnotationCode("CP")
	AnnotationChargeExempt              = NewPrescriptionAnnotationCode("EX")
	AnnotationEvidenceSeen              = NewPrescriptionAnnotationCode("ES")
	AnnotationDispensingEndorsement     = NewPrescriptionAnnotationCode("DE")
)
