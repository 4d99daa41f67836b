package translation

import (
	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

// unknownGPOdsCode is the placeholder ODS code submitted for patients with no
// registered GP practice.
const unknownGPOdsCode = "V81999"

// ConvertPatient maps a patient resource onto the legacy record target
// patient role.
func ConvertPatient(bundle *fhir.Bundle, patient *fhir.Patient) (hl7v3.Patient, error) {
	converted := hl7v3.NewPatient()

	nhsNumber, err := fhir.IdentifierValueForSystem(
		patient.Identifier, fhir.NHSNumberSystem, "Patient.identifier",
	)
	if err != nil {
		return hl7v3.Patient{}, err
	}
	converted.ID = hl7v3.NewNhsNumber(nhsNumber)

	for _, address := range patient.Address {
		addr, err := ConvertAddress(address, "Patient.address")
		if err != nil {
			return hl7v3.Patient{}, err
		}
		converted.Addr = append(converted.Addr, addr)
	}

	for _, contactPoint := range patient.Telecom {
		telecom, err := ConvertTelecom(contactPoint, "Patient.telecom")
		if err != nil {
			return hl7v3.Patient{}, err
		}
		converted.Telecom = append(converted.Telecom, telecom)
	}

	patientPerson := hl7v3.NewPatientPerson()
	for _, humanName := range patient.Name {
		name, err := ConvertName(humanName, "Patient.name")
		if err != nil {
			return hl7v3.Patient{}, err
		}
		patientPerson.Name = append(patientPerson.Name, name)
	}
	patientPerson.AdministrativeGenderCode, err = ConvertGender(patient.Gender, "Patient.gender")
	if err != nil {
		return hl7v3.Patient{}, err
	}
	birthTime, err := ConvertISODateToHL7V3Date(patient.BirthDate, "Patient.birthDate")
	if err != nil {
		return hl7v3.Patient{}, err
	}
	patientPerson.BirthTime = birthTime

	gpID, err := generalPractitionerID(patient)
	if err != nil {
		return hl7v3.Patient{}, err
	}
	provision := hl7v3.NewPatientCareProvision(hl7v3.PatientCareProvisionPrimaryCare)
	provision.ResponsibleParty = hl7v3.NewCareResponsibleParty(hl7v3.NewHealthCareProvider(gpID))
	patientPerson.PlayedProviderPatient = hl7v3.NewProviderPatient(hl7v3.NewSubjectOf(provision))

	converted.PatientPerson = patientPerson
	return converted, nil
}

// generalPractitionerID resolves the patient's GP practice ODS code. A
// missing practice or the unknown-GP placeholder yields an unknown
// identifier.
func generalPractitionerID(patient *fhir.Patient) (hl7v3.Identifier, error) {
	gp, err := fhir.OnlyElementOrNil(patient.GeneralPractitioner, "Patient.generalPractitioner")
	if err != nil {
		return hl7v3.Identifier{}, err
	}
	if gp == nil || gp.Identifier == nil || gp.Identifier.Value == "" {
		return hl7v3.NewUnknownIdentifier(), nil
	}
	if gp.Identifier.Value == unknownGPOdsCode {
		return hl7v3.NewUnknownIdentifier(), nil
	}
	return hl7v3.NewSdsOrganizationIdentifier(gp.Identifier.Value), nil
}
