package translation

import (
	"fmt"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

const (
	odsOrganizationCodeSystem  = "https://fhir.nhs.uk/Id/ods-organization-code"
	organisationRoleSystem     = "https://fhir.nhs.uk/CodeSystem/organisation-role"
	nhsTrustOrganisationRole   = "197"
	organisationTypeAcuteTrust = "008"
	organisationTypeUnknown    = "999"
)

// costCentre is the organisation or healthcare service that a prescription is
// costed against, with its address already resolved.
type costCentre struct {
	resourceType string
	identifier   []fhir.Identifier
	name         string
	telecom      []fhir.ContactPoint
	address      *fhir.Address
	addressPath  string
}

// ConvertOrganizationAndProviderLicense builds the represented organization
// for an agent person. NHS trusts are represented by their healthcare service
// instead, and the provider license chain is attached unless suppressed.
func ConvertOrganizationAndProviderLicense(
	bundle *fhir.Bundle,
	organization *fhir.Organization,
	healthcareService *fhir.HealthcareService,
	includeProviderLicense bool,
) (hl7v3.Organization, error) {
	converted, err := convertRepresentedOrganization(bundle, organization, healthcareService)
	if err != nil {
		return hl7v3.Organization{}, err
	}

	if includeProviderLicense {
		license, err := convertHealthCareProviderLicense(bundle, organization)
		if err != nil {
			return hl7v3.Organization{}, err
		}
		converted.HealthCareProviderLicense = license
	}

	return converted, nil
}

func convertRepresentedOrganization(
	bundle *fhir.Bundle,
	organization *fhir.Organization,
	healthcareService *fhir.HealthcareService,
) (hl7v3.Organization, error) {
	isTrust, err := isNhsTrust(organization)
	if err != nil {
		return hl7v3.Organization{}, err
	}
	if isTrust && healthcareService == nil {
		return hl7v3.Organization{}, fhir.NewInvalidValueError(
			fmt.Sprintf(
				"A HealthcareService must be provided if the Organization role is '%s'.",
				nhsTrustOrganisationRole,
			),
			"PractitionerRole.healthcareService",
		)
	}

	var centre costCentre
	if isTrust {
		centre, err = healthcareServiceCostCentre(bundle, healthcareService)
	} else {
		centre, err = organizationCostCentre(organization)
	}
	if err != nil {
		return hl7v3.Organization{}, err
	}

	organisationTypeCode := organisationTypeUnknown
	if healthcareService != nil {
		organisationTypeCode = organisationTypeAcuteTrust
	}

	result, err := convertCommonOrganizationDetails(centre, organisationTypeCode)
	if err != nil {
		return hl7v3.Organization{}, err
	}

	telecomPath := centre.resourceType + ".telecom"
	contactPoint, err := fhir.OnlyElement(centre.telecom, telecomPath)
	if err != nil {
		return hl7v3.Organization{}, err
	}
	telecom, err := ConvertTelecom(contactPoint, telecomPath)
	if err != nil {
		return hl7v3.Organization{}, err
	}
	result.Telecom = &telecom

	address, err := ConvertAddress(*centre.address, centre.addressPath)
	if err != nil {
		return hl7v3.Organization{}, err
	}
	result.Addr = &address

	return result, nil
}

func isNhsTrust(organization *fhir.Organization) (bool, error) {
	coding, err := fhir.CodeableConceptCodingForSystemOrNil(
		organization.Type, organisationRoleSystem, "Organization.type",
	)
	if err != nil {
		return false, err
	}
	return coding != nil && coding.Code == nhsTrustOrganisationRole, nil
}

// convertHealthCareProviderLicense chains the parent organization, or the
// organization itself when it has no parent.
func convertHealthCareProviderLicense(
	bundle *fhir.Bundle,
	organization *fhir.Organization,
) (*hl7v3.HealthCareProviderLicense, error) {
	parentOrganization := organization
	if partOf := organization.PartOf; partOf != nil {
		if partOf.Reference != "" {
			resolved, err := fhir.ResolveReference[*fhir.Organization](bundle, partOf)
			if err != nil {
				return nil, err
			}
			parentOrganization = resolved
		} else if partOf.Identifier != nil {
			parentOrganization = &fhir.Organization{
				ResourceType: "Organization",
				Identifier:   []fhir.Identifier{*partOf.Identifier},
				Name:         partOf.Display,
			}
		}
	}

	centre, err := organizationCostCentre(parentOrganization)
	if err != nil {
		return nil, err
	}
	converted, err := convertCommonOrganizationDetails(centre, organisationTypeUnknown)
	if err != nil {
		return nil, err
	}
	license := hl7v3.NewHealthCareProviderLicense(converted)
	return &license, nil
}

func convertCommonOrganizationDetails(centre costCentre, organisationTypeCode string) (hl7v3.Organization, error) {
	result := hl7v3.NewOrganization()

	odsCode, err := fhir.IdentifierValueForSystem(
		centre.identifier, odsOrganizationCodeSystem, centre.resourceType+".identifier",
	)
	if err != nil {
		return hl7v3.Organization{}, err
	}
	result.ID = hl7v3.NewSdsOrganizationIdentifier(odsCode)

	code := hl7v3.NewOrganizationTypeCode(organisationTypeCode)
	result.Code = &code

	if centre.name == "" {
		return hl7v3.Organization{}, fhir.NewInvalidValueError(
			"Name must be provided.", centre.resourceType+".address",
		)
	}
	name := hl7v3.NewText(centre.name)
	result.Name = &name

	return result, nil
}

func organizationCostCentre(organization *fhir.Organization) (costCentre, error) {
	address, err := fhir.OnlyElement(organization.Address, "Organization.address")
	if err != nil {
		return costCentre{}, err
	}
	return costCentre{
		resourceType: "Organization",
		identifier:   organization.Identifier,
		name:         organization.Name,
		telecom:      organization.Telecom,
		address:      &address,
		addressPath:  "Organization.address",
	}, nil
}

func healthcareServiceCostCentre(
	bundle *fhir.Bundle,
	healthcareService *fhir.HealthcareService,
) (costCentre, error) {
	locationReference, err := fhir.OnlyElement(healthcareService.Location, "HealthcareService.location")
	if err != nil {
		return costCentre{}, err
	}
	location, err := fhir.ResolveReference[*fhir.Location](bundle, &locationReference)
	if err != nil {
		return costCentre{}, err
	}
	if location.Address == nil {
		return costCentre{}, fhir.NewInvalidValueError("Address must be provided.", "Location.address")
	}
	return costCentre{
		resourceType: "HealthcareService",
		identifier:   healthcareService.Identifier,
		name:         healthcareService.Name,
		telecom:      healthcareService.Telecom,
		address:      location.Address,
		addressPath:  "Location.address",
	}, nil
}
