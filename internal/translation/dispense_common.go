package translation

import (
	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
	"github.com/shopspring/decimal"
)

// Helpers shared by the dispense notification and dispense claim
// translators. Dispensing messages carry their performer as a contained
// PractitionerRole whose practitioner is an identifier reference, so the
// agent person is assembled without resolving bundle entries.

const (
	dispenseItemNumberSystem     = "https://fhir.nhs.uk/Id/prescription-dispense-item-number"
	medicationDispenseTypeSystem = "https://fhir.nhs.uk/CodeSystem/medicationdispense-type"
	dispenseStatusReasonSystem   = "https://fhir.nhs.uk/CodeSystem/medicationdispense-status-reason"

	taskBusinessStatusExtensionURL  = "https://fhir.nhs.uk/StructureDefinition/Extension-EPS-TaskBusinessStatus"
	organisationRelationshipsURL    = "https://fhir.nhs.uk/StructureDefinition/Extension-ODS-OrganisationRelationships"
	reimbursementAuthorityURL       = "reimbursementAuthority"
	replacementOfExtensionURL       = "https://fhir.nhs.uk/StructureDefinition/Extension-replacementOf"
	nonDispensingReasonExtensionURL = "https://fhir.nhs.uk/StructureDefinition/Extension-DM-PrescriptionNonDispensingReason"
	numberOfRepeatsIssuedURL        = "numberOfRepeatsIssued"
	numberOfPrescriptionsIssuedURL  = "numberOfPrescriptionsIssued"
)

// convertContainedAgentPerson builds the agent person for a dispensing
// participation from a contained practitioner role and the dispensing site
// organization.
func convertContainedAgentPerson(
	practitionerRole *fhir.PractitionerRole,
	organization *fhir.Organization,
) (hl7v3.AgentPerson, error) {
	agentPerson := hl7v3.NewAgentPerson()

	sdsRoleProfileID, err := fhir.IdentifierValueForSystem(
		practitionerRole.Identifier, sdsRoleProfileIDSystem, "PractitionerRole.identifier",
	)
	if err != nil {
		return hl7v3.AgentPerson{}, err
	}
	id := hl7v3.NewSdsRoleProfileIdentifier(sdsRoleProfileID)
	agentPerson.ID = &id

	jobRoleCoding, err := fhir.CodeableConceptCodingForSystem(
		practitionerRole.Code, sdsJobRoleNameSystem, "PractitionerRole.code",
	)
	if err != nil {
		return hl7v3.AgentPerson{}, err
	}
	code := hl7v3.NewSdsJobRoleCode(jobRoleCoding.Code)
	agentPerson.Code = &code

	roleTelecom, err := firstContactPoint(practitionerRole.Telecom, "PractitionerRole.telecom")
	if err != nil {
		return hl7v3.AgentPerson{}, err
	}
	telecom, err := ConvertTelecom(*roleTelecom, "PractitionerRole.telecom")
	if err != nil {
		return hl7v3.AgentPerson{}, err
	}
	agentPerson.Telecom = []hl7v3.Telecom{telecom}

	agentPerson.AgentPerson, err = convertContainedAgentPersonPerson(practitionerRole)
	if err != nil {
		return hl7v3.AgentPerson{}, err
	}

	agentPerson.RepresentedOrganization, err = convertDispenseOrganization(organization, roleTelecom)
	if err != nil {
		return hl7v3.AgentPerson{}, err
	}

	return agentPerson, nil
}

func convertContainedAgentPersonPerson(practitionerRole *fhir.PractitionerRole) (hl7v3.AgentPersonPerson, error) {
	practitioner := practitionerRole.Practitioner
	if practitioner == nil || practitioner.Identifier == nil {
		return hl7v3.AgentPersonPerson{}, fhir.NewInvalidValueError(
			"PractitionerRole.practitioner should be an Identifier",
			"PractitionerRole.practitioner",
		)
	}
	sdsUserID, err := fhir.IdentifierValueForSystem(
		[]fhir.Identifier{*practitioner.Identifier}, sdsUserIDSystem, "PractitionerRole.practitioner",
	)
	if err != nil {
		return hl7v3.AgentPersonPerson{}, err
	}
	agentPersonPerson := hl7v3.NewAgentPersonPerson(hl7v3.NewProfessionalCode(sdsUserID))
	if practitioner.Display != "" {
		agentPersonPerson.Name = &hl7v3.Name{Text: practitioner.Display}
	}
	return agentPersonPerson, nil
}

// convertDispenseOrganization maps the dispensing site organization without
// the provider license chain carried on prescribing messages. The agent
// person's contact point stands in when the organization has none of its
// own.
func convertDispenseOrganization(
	organization *fhir.Organization,
	fallbackTelecom *fhir.ContactPoint,
) (hl7v3.Organization, error) {
	converted := hl7v3.NewOrganization()

	odsCode, err := fhir.IdentifierValueForSystem(
		organization.Identifier, odsOrganizationCodeSystem, "Organization.identifier",
	)
	if err != nil {
		return hl7v3.Organization{}, err
	}
	converted.ID = hl7v3.NewSdsOrganizationIdentifier(odsCode)
	code := hl7v3.OrganizationTypeNotSpecified
	converted.Code = &code

	if organization.Name != "" {
		name := hl7v3.NewText(organization.Name)
		converted.Name = &name
	}

	contactPoint := fallbackTelecom
	if len(organization.Telecom) > 0 {
		contactPoint = &organization.Telecom[0]
	}
	telecom, err := ConvertTelecom(*contactPoint, "Organization.telecom")
	if err != nil {
		return hl7v3.Organization{}, err
	}
	converted.Telecom = &telecom

	if len(organization.Address) > 0 {
		address, err := ConvertAddress(organization.Address[0], "Organization.address")
		if err != nil {
			return hl7v3.Organization{}, err
		}
		converted.Addr = &address
	}

	return converted, nil
}

// convertPriorPrescriptionReleaseEventRef links a dispensing message back to
// the release response that authorised it.
func convertPriorPrescriptionReleaseEventRef(header *fhir.MessageHeader) (hl7v3.PriorPrescriptionReleaseEventRef, error) {
	if header.Response == nil || header.Response.Identifier == "" {
		return hl7v3.PriorPrescriptionReleaseEventRef{}, fhir.NewInvalidValueError(
			"Required field missing.", "MessageHeader.response.identifier",
		)
	}
	return hl7v3.NewPriorPrescriptionReleaseEventRef(
		hl7v3.NewGlobalIdentifier(header.Response.Identifier),
	), nil
}

// repeatNumberFromRepeatInformation reads the issue interval off a repeat
// information extension. Both bounds originate as zero based counts, so each
// is incremented to produce the one based interval the wire format carries.
func repeatNumberFromRepeatInformation(
	repeatInformation *fhir.Extension,
	fhirPath string,
) (*hl7v3.Interval[hl7v3.NumericValue], error) {
	issuedExtension, err := fhir.ExtensionForURL(
		repeatInformation.Extension, numberOfRepeatsIssuedURL, fhirPath,
	)
	if err != nil {
		return nil, err
	}
	issued, err := incrementNumeric(issuedExtension.ValueInteger.String(), fhirPath)
	if err != nil {
		return nil, err
	}

	allowedExtension, err := fhir.ExtensionForURL(
		repeatInformation.Extension, numberOfRepeatsAllowedURL, fhirPath,
	)
	if err != nil {
		return nil, err
	}
	allowed, err := incrementNumeric(allowedExtension.ValueInteger.String(), fhirPath)
	if err != nil {
		return nil, err
	}

	interval := hl7v3.NewInterval(hl7v3.NewNumericValue(issued), hl7v3.NewNumericValue(allowed))
	return &interval, nil
}

func incrementNumeric(value, fhirPath string) (string, error) {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return "", fhir.NewInvalidValueError("Invalid numeric value '"+value+"'.", fhirPath)
	}
	return parsed.Add(decimal.NewFromInt(1)).String(), nil
}

func firstContactPoint(telecom []fhir.ContactPoint, fhirPath string) (*fhir.ContactPoint, error) {
	if len(telecom) == 0 {
		return nil, fhir.NewTooFewValuesError("Too few values submitted. Expected at least 1 contact point.", fhirPath)
	}
	return &telecom[0], nil
}
