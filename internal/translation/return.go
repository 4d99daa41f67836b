package translation

import (
	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

const returnStatusReasonSystem = "https://fhir.nhs.uk/CodeSystem/EPS-task-dispense-return-status-reason"

// ConvertTaskToDispenseProposalReturn sends a downloaded prescription back
// to the national store. The rejected Task references the release response
// in its focus and carries the returning dispenser as contained resources.
func ConvertTaskToDispenseProposalReturn(task *fhir.Task) (hl7v3.DispenseProposalReturn, error) {
	messageID, err := fhir.TaskIdentifierValue(task)
	if err != nil {
		return hl7v3.DispenseProposalReturn{}, err
	}
	effectiveTime, err := ConvertISODateTimeToHL7V3DateTime(task.AuthoredOn, "Task.authoredOn")
	if err != nil {
		return hl7v3.DispenseProposalReturn{}, err
	}
	proposalReturn := hl7v3.NewDispenseProposalReturn(hl7v3.NewGlobalIdentifier(messageID), effectiveTime)

	practitionerRole, organization, err := taskPerformer(task)
	if err != nil {
		return hl7v3.DispenseProposalReturn{}, err
	}
	agentPerson, err := convertContainedAgentPerson(practitionerRole, organization)
	if err != nil {
		return hl7v3.DispenseProposalReturn{}, err
	}
	proposalReturn.Author = hl7v3.NewAuthor(agentPerson)

	shortFormID, err := taskPrescriptionShortFormID(task)
	if err != nil {
		return hl7v3.DispenseProposalReturn{}, err
	}
	proposalReturn.PertinentInformation1 = hl7v3.NewDispenseProposalReturnPertinentInformation1(
		hl7v3.NewPrescriptionID(shortFormID),
	)

	if task.StatusReason == nil {
		return hl7v3.DispenseProposalReturn{}, fhir.NewInvalidValueError(
			"Required field missing.", "Task.statusReason",
		)
	}
	reasonCoding, err := fhir.CodingForSystem(
		task.StatusReason.Coding, returnStatusReasonSystem, "Task.statusReason",
	)
	if err != nil {
		return hl7v3.DispenseProposalReturn{}, err
	}
	proposalReturn.PertinentInformation3 = hl7v3.NewDispenseProposalReturnPertinentInformation3(
		hl7v3.NewReturnReason(reasonCoding.Code, reasonCoding.Display),
	)

	releaseResponseID, err := taskFocusMessageID(task)
	if err != nil {
		return hl7v3.DispenseProposalReturn{}, err
	}
	proposalReturn.ReversalOf = hl7v3.NewDispenseProposalReturnReversalOf(
		hl7v3.NewPriorPrescriptionReleaseEventRef(hl7v3.NewGlobalIdentifier(releaseResponseID)),
	)

	return proposalReturn, nil
}

// taskPerformer resolves the contained practitioner role referenced by the
// task's requester, together with its contained organization.
func taskPerformer(task *fhir.Task) (*fhir.PractitionerRole, *fhir.Organization, error) {
	if task.Requester == nil || task.Requester.Reference == "" {
		return nil, nil, fhir.NewInvalidValueError(
			"task.requester should be a reference to contained.practitionerRole",
			"task.requester",
		)
	}
	practitionerRole, err := fhir.ContainedResource[*fhir.PractitionerRole](
		task.Contained, task.Requester, "Task.requester",
	)
	if err != nil {
		return nil, nil, err
	}
	if practitionerRole.Organization == nil || practitionerRole.Organization.Reference == "" {
		return nil, nil, fhir.NewInvalidValueError(
			"practitionerRole.organization should be a Reference",
			`task.contained("PractitionerRole").organization`,
		)
	}
	organization, err := fhir.ContainedResource[*fhir.Organization](
		task.Contained, practitionerRole.Organization, `task.contained("PractitionerRole").organization`,
	)
	if err != nil {
		return nil, nil, err
	}
	return practitionerRole, organization, nil
}

// taskPrescriptionShortFormID reads the short form prescription id off the
// task's group identifier.
func taskPrescriptionShortFormID(task *fhir.Task) (string, error) {
	if task.GroupIdentifier == nil {
		return "", fhir.NewInvalidValueError("Required field missing.", "Task.groupIdentifier")
	}
	return fhir.IdentifierValueForSystem(
		[]fhir.Identifier{*task.GroupIdentifier},
		prescriptionShortFormNumberSystem,
		"Task.groupIdentifier",
	)
}

// taskFocusMessageID reads the referenced message id off the task's focus.
func taskFocusMessageID(task *fhir.Task) (string, error) {
	if task.Focus == nil || task.Focus.Identifier == nil {
		return "", fhir.NewInvalidValueError("Required field missing.", "Task.focus.identifier")
	}
	return fhir.IdentifierValueForSystem(
		[]fhir.Identifier{*task.Focus.Identifier},
		fhir.RFC4122System,
		"Task.focus.identifier",
	)
}
