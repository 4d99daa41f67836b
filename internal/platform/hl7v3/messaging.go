package hl7v3

// AcknowledgementTypeCode classifies an inbound acknowledgement.
type AcknowledgementTypeCode string

const (
	AcknowledgementAcknowledged AcknowledgementTypeCode = "AA"
	AcknowledgementRejected     AcknowledgementTypeCode = "AR"
	AcknowledgementError        AcknowledgementTypeCode = "AE"
)

// SendMessagePayload is the transmission wrapper shared by every outbound
// interaction. The subject carries the interaction-specific root.
type SendMessagePayload[T any] struct {
	ID                       Identifier            `xml:"id"`
	CreationTime             Timestamp             `xml:"creationTime"`
	VersionCode              Code                  `xml:"versionCode"`
	InteractionID            Identifier            `xml:"interactionId"`
	ProcessingCode           Code                  `xml:"processingCode"`
	ProcessingModeCode       Code                  `xml:"processingModeCode"`
	AcceptAckCode            Code                  `xml:"acceptAckCode"`
	Acknowledgement          *Acknowledgement      `xml:"acknowledgement,omitempty"`
	CommunicationFunctionRcv CommunicationFunction `xml:"communicationFunctionRcv"`
	CommunicationFunctionSnd CommunicationFunction `xml:"communicationFunctionSnd"`
	ControlActEvent          ControlActEvent[T]    `xml:"ControlActEvent"`
}

func NewSendMessagePayload[T any](id Identifier, creationTime Timestamp, interactionID Identifier) SendMessagePayload[T] {
	return SendMessagePayload[T]{
		ID:                 id,
		CreationTime:       creationTime,
		VersionCode:        VersionCodeV3NPfIT4200,
		InteractionID:      interactionID,
		ProcessingCode:     ProcessingIDProduction,
		ProcessingModeCode: ProcessingModeOnline,
		AcceptAckCode:      AcceptAckNever,
	}
}

type Acknowledgement struct {
	TypeCode              AcknowledgementTypeCode `xml:"typeCode,attr"`
	AcknowledgementDetail []AcknowledgementDetail `xml:"acknowledgementDetail,omitempty"`
}

type AcknowledgementDetail struct {
	Code Code `xml:"code"`
}

type CommunicationFunction struct {
	Device Device `xml:"device"`
}

func NewCommunicationFunction(device Device) CommunicationFunction {
	return CommunicationFunction{Device: device}
}

// Device identifies an accredited system endpoint.
type Device struct {
	ClassCode      string     `xml:"classCode,attr"`
	DeterminerCode string     `xml:"determinerCode,attr"`
	ID             Identifier `xml:"id"`
}

func NewDevice(id Identifier) Device {
	return Device{ClassCode: "DEV", DeterminerCode: "INSTANCE", ID: id}
}

// ControlActEvent carries the requesting user, the sending system and the
// domain payload.
type ControlActEvent[T any] struct {
	ClassCode string                     `xml:"classCode,attr"`
	MoodCode  string                     `xml:"moodCode,attr"`
	Author    *AuthorPersonSds           `xml:"author,omitempty"`
	Author1   AuthorSystemSds            `xml:"author1"`
	Reason    []SendMessagePayloadReason `xml:"reason,omitempty"`
	Subject   T                          `xml:"subject"`
}

func NewControlActEvent[T any](subject T) ControlActEvent[T] {
	return ControlActEvent[T]{ClassCode: "CACT", MoodCode: "EVN", Subject: subject}
}

type SendMessagePayloadReason struct {
	JustifyingDetectedIssueEvent JustifyingDetectedIssueEvent `xml:"justifyingDetectedIssueEvent"`
}

type JustifyingDetectedIssueEvent struct {
	Code Code `xml:"code"`
}
