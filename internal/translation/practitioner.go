package translation

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/eprescribe/coordinator/internal/platform/canonxml"
	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

const (
	sdsRoleProfileIDSystem = "https://fhir.nhs.uk/Id/sds-role-profile-id"
	sdsUserIDSystem        = "https://fhir.nhs.uk/Id/sds-user-id"
	sdsJobRoleNameSystem   = "https://fhir.hl7.org.uk/CodeSystem/UKCore-SDSJobRoleName"
	gmcNumberSystem        = "https://fhir.hl7.org.uk/Id/gmc-number"
	gmpNumberSystem        = "https://fhir.hl7.org.uk/Id/gmp-number"
	nmcNumberSystem        = "https://fhir.hl7.org.uk/Id/nmc-number"
	gphcNumberSystem       = "https://fhir.hl7.org.uk/Id/gphc-number"
	hcpcNumberSystem       = "https://fhir.hl7.org.uk/Id/hcpc-number"
	spuriousCodeSystem     = "https://fhir.hl7.org.uk/Id/nhsbsa-spurious-code"

	responsiblePractitionerExtensionURL = "https://fhir.nhs.uk/StructureDefinition/Extension-DM-ResponsiblePractitioner"
)

// agentPersonPersonIDSelector chooses the person identifier for an agent
// person from the practitioner and practitioner role identifier lists.
type agentPersonPersonIDSelector func(
	practitionerIdentifiers, practitionerRoleIdentifiers []fhir.Identifier,
) (hl7v3.Identifier, error)

// ConvertPrescriptionAuthor builds the authoring participation for a
// prescription, attaching the requester's signature from the provenance when
// one is present.
func ConvertPrescriptionAuthor(
	bundle *fhir.Bundle,
	firstMedicationRequest *fhir.MedicationRequest,
) (hl7v3.PrescriptionAuthor, error) {
	author := hl7v3.NewPrescriptionAuthor()

	signature, err := findRequesterSignature(bundle, firstMedicationRequest.Requester)
	if err != nil {
		return hl7v3.PrescriptionAuthor{}, err
	}
	if signature != nil {
		author.Time, err = ConvertISODateTimeToHL7V3DateTime(signature.When, "Provenance.signature.when")
		if err != nil {
			return hl7v3.PrescriptionAuthor{}, err
		}
		signatureText, err := decodeSignatureData(signature.Data)
		if err != nil {
			return hl7v3.PrescriptionAuthor{}, err
		}
		author.SignatureText = signatureText
	} else {
		author.Time = ConvertTimeToHL7V3DateTime(time.Now())
		author.SignatureText = hl7v3.NullNotApplicable
	}

	practitionerRole, err := fhir.ResolveReference[*fhir.PractitionerRole](bundle, firstMedicationRequest.Requester)
	if err != nil {
		return hl7v3.PrescriptionAuthor{}, err
	}
	author.AgentPerson, err = convertPractitionerRole(bundle, practitionerRole, true, agentPersonPersonIDForAuthor)
	if err != nil {
		return hl7v3.PrescriptionAuthor{}, err
	}
	return author, nil
}

// ConvertCancellationAuthor builds the authoring participation for a
// cancellation request. Cancellations identify the person by SDS user id
// rather than professional code and carry no signature or provider license
// chain.
func ConvertCancellationAuthor(
	bundle *fhir.Bundle,
	medicationRequest *fhir.MedicationRequest,
) (hl7v3.Author, error) {
	practitionerRole, err := fhir.ResolveReference[*fhir.PractitionerRole](bundle, medicationRequest.Requester)
	if err != nil {
		return hl7v3.Author{}, err
	}
	agentPerson, err := convertPractitionerRole(bundle, practitionerRole, false, agentPersonPersonIDForCancellation)
	if err != nil {
		return hl7v3.Author{}, err
	}
	return hl7v3.NewAuthor(agentPerson), nil
}

// ConvertCancellationResponsibleParty identifies the original prescription
// author. The responsible practitioner extension takes precedence over the
// requester.
func ConvertCancellationResponsibleParty(
	bundle *fhir.Bundle,
	medicationRequest *fhir.MedicationRequest,
) (hl7v3.ResponsibleParty, error) {
	responsibleParty := medicationRequest.Requester
	extension, err := fhir.ExtensionForURLOrNil(
		medicationRequest.Extension,
		responsiblePractitionerExtensionURL,
		"MedicationRequest.extension",
	)
	if err != nil {
		return hl7v3.ResponsibleParty{}, err
	}
	if extension != nil {
		responsibleParty = extension.ValueReference
	}

	practitionerRole, err := fhir.ResolveReference[*fhir.PractitionerRole](bundle, responsibleParty)
	if err != nil {
		return hl7v3.ResponsibleParty{}, err
	}
	agentPerson, err := convertPractitionerRole(bundle, practitionerRole, false, agentPersonPersonIDForCancellation)
	if err != nil {
		return hl7v3.ResponsibleParty{}, err
	}
	return hl7v3.NewResponsibleParty(agentPerson), nil
}

// ConvertResponsibleParty builds the responsible party participation. The
// responsible practitioner extension takes precedence over the requester.
func ConvertResponsibleParty(
	bundle *fhir.Bundle,
	medicationRequest *fhir.MedicationRequest,
) (hl7v3.PrescriptionResponsibleParty, error) {
	responsibleParty := medicationRequest.Requester
	extension, err := fhir.ExtensionForURLOrNil(
		medicationRequest.Extension,
		responsiblePractitionerExtensionURL,
		"MedicationRequest.extension",
	)
	if err != nil {
		return hl7v3.PrescriptionResponsibleParty{}, err
	}
	if extension != nil {
		responsibleParty = extension.ValueReference
	}

	practitionerRole, err := fhir.ResolveReference[*fhir.PractitionerRole](bundle, responsibleParty)
	if err != nil {
		return hl7v3.PrescriptionResponsibleParty{}, err
	}
	agentPerson, err := convertPractitionerRole(bundle, practitionerRole, true, agentPersonPersonIDForResponsibleParty)
	if err != nil {
		return hl7v3.PrescriptionResponsibleParty{}, err
	}
	return hl7v3.NewPrescriptionResponsibleParty(agentPerson), nil
}

func convertPractitionerRole(
	bundle *fhir.Bundle,
	practitionerRole *fhir.PractitionerRole,
	includeProviderLicense bool,
	selectPersonID agentPersonPersonIDSelector,
) (hl7v3.AgentPerson, error) {
	practitioner, err := fhir.ResolveReference[*fhir.Practitioner](bundle, practitionerRole.Practitioner)
	if err != nil {
		return hl7v3.AgentPerson{}, err
	}

	agentPerson, err := createAgentPerson(practitionerRole, practitioner, selectPersonID)
	if err != nil {
		return hl7v3.AgentPerson{}, err
	}

	organization, err := fhir.ResolveReference[*fhir.Organization](bundle, practitionerRole.Organization)
	if err != nil {
		return hl7v3.AgentPerson{}, err
	}

	var healthcareService *fhir.HealthcareService
	if len(practitionerRole.HealthcareService) > 0 {
		healthcareService, err = fhir.ResolveReference[*fhir.HealthcareService](
			bundle, &practitionerRole.HealthcareService[0],
		)
		if err != nil {
			return hl7v3.AgentPerson{}, err
		}
	}

	agentPerson.RepresentedOrganization, err = ConvertOrganizationAndProviderLicense(
		bundle, organization, healthcareService, includeProviderLicense,
	)
	if err != nil {
		return hl7v3.AgentPerson{}, err
	}

	return agentPerson, nil
}

func createAgentPerson(
	practitionerRole *fhir.PractitionerRole,
	practitioner *fhir.Practitioner,
	selectPersonID agentPersonPersonIDSelector,
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

	agentPerson.Telecom, err = AgentPersonTelecom(practitionerRole.Telecom, practitioner.Telecom)
	if err != nil {
		return hl7v3.AgentPerson{}, err
	}

	agentPerson.AgentPerson, err = convertAgentPersonPerson(practitionerRole, practitioner, selectPersonID)
	if err != nil {
		return hl7v3.AgentPerson{}, err
	}

	return agentPerson, nil
}

// AgentPersonTelecom prefers the role's contact points over the
// practitioner's.
func AgentPersonTelecom(
	practitionerRoleTelecom, practitionerTelecom []fhir.ContactPoint,
) ([]hl7v3.Telecom, error) {
	source := practitionerRoleTelecom
	fhirPath := "PractitionerRole.telecom"
	if source == nil {
		source = practitionerTelecom
		fhirPath = "Practitioner.telecom"
	}
	converted := make([]hl7v3.Telecom, 0, len(source))
	for _, contactPoint := range source {
		telecom, err := ConvertTelecom(contactPoint, fhirPath)
		if err != nil {
			return nil, err
		}
		converted = append(converted, telecom)
	}
	return converted, nil
}

func convertAgentPersonPerson(
	practitionerRole *fhir.PractitionerRole,
	practitioner *fhir.Practitioner,
	selectPersonID agentPersonPersonIDSelector,
) (hl7v3.AgentPersonPerson, error) {
	id, err := selectPersonID(practitioner.Identifier, practitionerRole.Identifier)
	if err != nil {
		return hl7v3.AgentPersonPerson{}, err
	}
	agentPersonPerson := hl7v3.NewAgentPersonPerson(id)
	if practitioner.Name != nil {
		name, err := fhir.OnlyElement(practitioner.Name, "Practitioner.name")
		if err != nil {
			return hl7v3.AgentPersonPerson{}, err
		}
		converted, err := ConvertName(name, "Practitioner.name")
		if err != nil {
			return hl7v3.AgentPersonPerson{}, err
		}
		agentPersonPerson.Name = &converted
	}
	return agentPersonPerson, nil
}

var professionalCodeSystems = []string{
	gmcNumberSystem,
	gmpNumberSystem,
	nmcNumberSystem,
	gphcNumberSystem,
	hcpcNumberSystem,
}

// agentPersonPersonIDForAuthor requires exactly one recognised professional
// code among the practitioner's identifiers. GMC numbers are stripped of a
// leading C.
func agentPersonPersonIDForAuthor(
	practitionerIdentifiers, _ []fhir.Identifier,
) (hl7v3.Identifier, error) {
	var codes []string
	for _, system := range professionalCodeSystems {
		value, err := fhir.IdentifierValueOrNilForSystem(
			practitionerIdentifiers, system, "Practitioner.identifier",
		)
		if err != nil {
			return hl7v3.Identifier{}, err
		}
		if value == "" {
			continue
		}
		if system == gmcNumberSystem && strings.HasPrefix(strings.ToUpper(value), "C") {
			value = value[1:]
		}
		codes = append(codes, value)
	}

	if len(codes) == 1 {
		return hl7v3.NewProfessionalCode(codes[0]), nil
	}

	message := "Expected exactly one professional code. One of GMC|GMP|NMC|GPhC|HCPC. "
	if len(codes) > 0 {
		message += "But got: " + strings.Join(codes, ", ")
	}
	if len(codes) > 1 {
		return hl7v3.Identifier{}, fhir.NewTooManyValuesError(message, "Practitioner.identifier")
	}
	return hl7v3.Identifier{}, fhir.NewTooFewValuesError(message, "Practitioner.identifier")
}

// agentPersonPersonIDForCancellation requires the practitioner's SDS user
// id.
func agentPersonPersonIDForCancellation(
	practitionerIdentifiers, _ []fhir.Identifier,
) (hl7v3.Identifier, error) {
	sdsUserID, err := fhir.IdentifierValueForSystem(
		practitionerIdentifiers, sdsUserIDSystem, "Practitioner.identifier",
	)
	if err != nil {
		return hl7v3.Identifier{}, err
	}
	return hl7v3.NewSdsUniqueIdentifier(sdsUserID), nil
}

// agentPersonPersonIDForResponsibleParty prefers the spurious code on the
// role, then the DIN number, before falling back to the professional codes.
func agentPersonPersonIDForResponsibleParty(
	practitionerIdentifiers, practitionerRoleIdentifiers []fhir.Identifier,
) (hl7v3.Identifier, error) {
	spuriousCode, err := fhir.IdentifierValueOrNilForSystem(
		practitionerRoleIdentifiers, spuriousCodeSystem, "PractitionerRole.identifier",
	)
	if err != nil {
		return hl7v3.Identifier{}, err
	}
	if spuriousCode != "" {
		return hl7v3.NewPrescribingCode(spuriousCode), nil
	}

	dinCode, err := fhir.IdentifierValueOrNilForSystem(
		practitionerIdentifiers, "https://fhir.hl7.org.uk/Id/din-number", "Practitioner.identifier",
	)
	if err != nil {
		return hl7v3.Identifier{}, err
	}
	if dinCode != "" {
		return hl7v3.NewPrescribingCode(dinCode), nil
	}

	return agentPersonPersonIDForAuthor(practitionerIdentifiers, nil)
}

func findRequesterSignature(bundle *fhir.Bundle, signatory *fhir.Reference) (*fhir.Signature, error) {
	if signatory == nil {
		return nil, nil
	}
	var requesterSignatures []fhir.Signature
	for _, provenance := range fhir.ResourcesOfType[*fhir.Provenance](bundle) {
		for _, signature := range provenance.Signature {
			if signature.Who != nil && signature.Who.Reference == signatory.Reference {
				requesterSignatures = append(requesterSignatures, signature)
			}
		}
	}
	return fhir.OnlyElementOrNil(
		requesterSignatures,
		"Provenance.signature",
		fmt.Sprintf("who.reference == '%s'", signatory.Reference),
	)
}

// decodeSignatureData decodes the base64 signature payload and checks it is
// well-formed XML before it is embedded verbatim in the prescription.
func decodeSignatureData(data string) (canonxml.Raw, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fhir.NewInvalidValueError("Invalid signature format.", "Provenance.signature.data")
	}
	if err := canonxml.CheckWellFormed(string(decoded)); err != nil {
		return "", fhir.NewInvalidValueError("Invalid signature format.", "Provenance.signature.data")
	}
	return canonxml.Raw(decoded), nil
}
