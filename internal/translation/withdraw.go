package translation

import (
	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

const withdrawReasonSystem = "https://fhir.nhs.uk/CodeSystem/EPS-task-dispense-withdraw-reason"

// ConvertTaskToEtpWithdraw retracts the most recent dispense notification
// for a prescription. The Task focus points at that notification and the
// status reason explains the withdrawal.
func ConvertTaskToEtpWithdraw(task *fhir.Task) (hl7v3.EtpWithdraw, error) {
	messageID, err := fhir.TaskIdentifierValue(task)
	if err != nil {
		return hl7v3.EtpWithdraw{}, err
	}
	effectiveTime, err := ConvertISODateTimeToHL7V3DateTime(task.AuthoredOn, "Task.authoredOn")
	if err != nil {
		return hl7v3.EtpWithdraw{}, err
	}
	withdraw := hl7v3.NewEtpWithdraw(hl7v3.NewGlobalIdentifier(messageID), effectiveTime)

	nhsNumber, err := taskPatientNhsNumber(task)
	if err != nil {
		return hl7v3.EtpWithdraw{}, err
	}
	withdraw.RecordTarget = hl7v3.NewRecordTargetReference(hl7v3.NewNhsNumber(nhsNumber))

	withdraw.Author, err = convertWithdrawAuthor(task)
	if err != nil {
		return hl7v3.EtpWithdraw{}, err
	}

	withdraw.PertinentInformation1, err = convertWithdrawRepeatInstance(task)
	if err != nil {
		return hl7v3.EtpWithdraw{}, err
	}
	withdraw.PertinentInformation2 = hl7v3.NewEtpWithdrawPertinentInformation2(
		hl7v3.NewWithdrawType("LD", "Last Dispense"),
	)

	shortFormID, err := taskPrescriptionShortFormID(task)
	if err != nil {
		return hl7v3.EtpWithdraw{}, err
	}
	withdraw.PertinentInformation3 = hl7v3.NewEtpWithdrawPertinentInformation3(
		hl7v3.NewWithdrawID(shortFormID),
	)

	notificationID, err := taskFocusMessageID(task)
	if err != nil {
		return hl7v3.EtpWithdraw{}, err
	}
	withdraw.PertinentInformation4 = hl7v3.NewEtpWithdrawPertinentInformation4(
		hl7v3.NewDispenseNotificationRef(notificationID),
	)

	if task.StatusReason == nil {
		return hl7v3.EtpWithdraw{}, fhir.NewInvalidValueError(
			"Required field missing.", "Task.statusReason",
		)
	}
	reasonCoding, err := fhir.CodingForSystem(
		task.StatusReason.Coding, withdrawReasonSystem, "Task.statusReason",
	)
	if err != nil {
		return hl7v3.EtpWithdraw{}, err
	}
	withdraw.PertinentInformation5 = hl7v3.NewEtpWithdrawPertinentInformation5(
		hl7v3.NewWithdrawReason(reasonCoding.Code, reasonCoding.Display),
	)

	return withdraw, nil
}

// convertWithdrawAuthor builds the SDS-identified author from the contained
// practitioner role and its organization. The withdraw identifies the
// author purely by SDS role profile and the organization's ODS code.
func convertWithdrawAuthor(task *fhir.Task) (hl7v3.AuthorPersonSds, error) {
	practitionerRole, organization, err := taskPerformer(task)
	if err != nil {
		return hl7v3.AuthorPersonSds{}, err
	}
	roleProfileID, err := fhir.IdentifierValueForSystem(
		practitionerRole.Identifier, sdsRoleProfileIDSystem, "PractitionerRole.identifier",
	)
	if err != nil {
		return hl7v3.AuthorPersonSds{}, err
	}
	odsCode, err := fhir.IdentifierValueForSystem(
		organization.Identifier, odsOrganizationCodeSystem, "Organization.identifier",
	)
	if err != nil {
		return hl7v3.AuthorPersonSds{}, err
	}

	agentPersonSds := hl7v3.NewAgentPersonSds()
	agentPersonSds.ID = hl7v3.NewSdsRoleProfileIdentifier(roleProfileID)
	agentPersonSds.AgentPersonSDS = hl7v3.NewAgentPersonPersonSds(hl7v3.NewSdsUniqueIdentifier(odsCode))
	return hl7v3.NewAuthorPersonSds(agentPersonSds), nil
}

// convertWithdrawRepeatInstance lifts the repeat issue number when the task
// carries repeat information. Acute prescriptions omit it.
func convertWithdrawRepeatInstance(task *fhir.Task) (*hl7v3.EtpWithdrawPertinentInformation1, error) {
	repeatInformation, err := fhir.ExtensionForURLOrNil(
		task.Extension, epsRepeatInformationURL, "Task.extension",
	)
	if err != nil || repeatInformation == nil {
		return nil, err
	}
	issued, err := fhir.ExtensionForURL(
		repeatInformation.Extension, numberOfRepeatsIssuedURL, "Task.extension",
	)
	if err != nil {
		return nil, err
	}
	repeatInstance, err := incrementNumeric(issued.ValueInteger.String(), "Task.extension")
	if err != nil {
		return nil, err
	}
	pertinentInformation := hl7v3.NewEtpWithdrawPertinentInformation1(
		hl7v3.NewRepeatInstanceInfo(repeatInstance),
	)
	return &pertinentInformation, nil
}

// taskPatientNhsNumber reads the NHS number off the task's beneficiary.
func taskPatientNhsNumber(task *fhir.Task) (string, error) {
	if task.For == nil || task.For.Identifier == nil {
		return "", fhir.NewInvalidValueError("Required field missing.", "Task.for.identifier")
	}
	return fhir.IdentifierValueForSystem(
		[]fhir.Identifier{*task.For.Identifier}, fhir.NHSNumberSystem, "Task.for.identifier",
	)
}
