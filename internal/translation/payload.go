package translation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eprescribe/coordinator/internal/platform/canonxml"
	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

// PreparedMessage is an enveloped document ready for submission. The
// interaction id names both the wire root element and the message routing.
type PreparedMessage struct {
	InteractionID string
	MessageID     string
	Payload       any
}

// CanonicalXML serializes the enveloped payload as the interaction root
// element in the HL7v3 namespace.
func (m PreparedMessage) CanonicalXML() (string, error) {
	body, err := canonxml.Marshal(m.Payload)
	if err != nil {
		return "", err
	}
	return `<` + m.InteractionID + ` xmlns="urn:hl7-org:v3">` + body + `</` + m.InteractionID + `>`, nil
}

// PayloadFactory wraps translated documents in the transmission envelope for
// submission. The sender and receiver accredited system ids come from
// configuration and identify the endpoints on both sides.
type PayloadFactory struct {
	logger       zerolog.Logger
	senderASID   string
	receiverASID string
	now          func() time.Time
	newID        func() string
}

func NewPayloadFactory(logger zerolog.Logger, senderASID, receiverASID string) *PayloadFactory {
	return &PayloadFactory{
		logger:       logger,
		senderASID:   senderASID,
		receiverASID: receiverASID,
		now:          time.Now,
		newID:        func() string { return strings.ToUpper(uuid.NewString()) },
	}
}

// FromBundle selects the translator for a message bundle by its event coding
// and returns the enveloped payload.
func (f *PayloadFactory) FromBundle(bundle *fhir.Bundle) (PreparedMessage, error) {
	messageType, err := fhir.IdentifyMessageType(bundle)
	if err != nil {
		return PreparedMessage{}, err
	}
	switch messageType {
	case fhir.EventPrescriptionOrder:
		parentPrescription, err := ConvertBundleToParentPrescription(bundle)
		if err != nil {
			return PreparedMessage{}, err
		}
		return wrapPayload(f, hl7v3.ParentPrescriptionRoot{ParentPrescription: parentPrescription},
			hl7v3.InteractionParentPrescriptionUrgent, parentPrescription.ID.Root), nil
	case fhir.EventPrescriptionOrderUpdate:
		cancellation, err := ConvertBundleToCancellationRequest(bundle)
		if err != nil {
			return PreparedMessage{}, err
		}
		return wrapPayload(f, hl7v3.CancellationRequestRoot{CancellationRequest: cancellation},
			hl7v3.InteractionCancelRequest, cancellation.ID.Root), nil
	case fhir.EventDispenseNotification:
		notification, err := ConvertBundleToDispenseNotification(bundle)
		if err != nil {
			return PreparedMessage{}, err
		}
		return wrapPayload(f, hl7v3.DispenseNotificationRoot{DispenseNotification: notification},
			hl7v3.InteractionDispenseNotification, notification.ID.Root), nil
	}
	return PreparedMessage{}, fhir.NewInvalidValueError(
		"Unsupported message type '"+messageType+"'.", "MessageHeader.eventCoding",
	)
}

// FromTask selects the return or withdraw translator by the task's status.
func (f *PayloadFactory) FromTask(task *fhir.Task) (PreparedMessage, error) {
	switch task.Status {
	case "rejected":
		proposalReturn, err := ConvertTaskToDispenseProposalReturn(task)
		if err != nil {
			return PreparedMessage{}, err
		}
		return wrapPayload(f, hl7v3.DispenseProposalReturnRoot{DispenseProposalReturn: proposalReturn},
			hl7v3.InteractionDispenseProposalReturn, proposalReturn.ID.Root), nil
	case "in-progress":
		withdraw, err := ConvertTaskToEtpWithdraw(task)
		if err != nil {
			return PreparedMessage{}, err
		}
		return wrapPayload(f, hl7v3.EtpWithdrawRoot{ETPWithdraw: withdraw},
			hl7v3.InteractionDispenserWithdraw, withdraw.ID.Root), nil
	}
	return PreparedMessage{}, fhir.NewInvalidValueError(
		"Unsupported Task.status '"+task.Status+"'.", "Task.status",
	)
}

// FromClaim envelopes a dispense claim.
func (f *PayloadFactory) FromClaim(claim *fhir.Claim) (PreparedMessage, error) {
	dispenseClaim, err := ConvertClaimToDispenseClaim(claim)
	if err != nil {
		return PreparedMessage{}, err
	}
	return wrapPayload(f, hl7v3.DispenseClaimRoot{DispenseClaim: dispenseClaim},
		hl7v3.InteractionDispenseClaimInformation, dispenseClaim.ID.Root), nil
}

func wrapPayload[T any](
	f *PayloadFactory,
	subject T,
	interactionID hl7v3.Identifier,
	payloadID string,
) PreparedMessage {
	f.logger.Info().
		Str("interaction", interactionID.Extension).
		Str("payload_id", payloadID).
		Msg("Creating Spine payload from FHIR resource")

	payload := hl7v3.NewSendMessagePayload[T](
		hl7v3.NewGlobalIdentifier(f.newID()),
		ConvertTimeToHL7V3DateTime(f.now()),
		interactionID,
	)
	payload.CommunicationFunctionRcv = hl7v3.NewCommunicationFunction(
		hl7v3.NewDevice(hl7v3.NewAccreditedSystemIdentifier(f.receiverASID)),
	)
	payload.CommunicationFunctionSnd = hl7v3.NewCommunicationFunction(
		hl7v3.NewDevice(hl7v3.NewAccreditedSystemIdentifier(f.senderASID)),
	)
	payload.ControlActEvent = hl7v3.NewControlActEvent(subject)
	payload.ControlActEvent.Author1 = hl7v3.NewAuthorSystemSds(hl7v3.NewAgentSystemSds(
		hl7v3.NewAgentSystemSystemSds(hl7v3.NewAccreditedSystemIdentifier(f.senderASID)),
	))
	return PreparedMessage{
		InteractionID: interactionID.Extension,
		MessageID:     payload.ID.Root,
		Payload:       payload,
	}
}
