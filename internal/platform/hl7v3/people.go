package hl7v3

// RecordTarget links a message to the patient whose record it concerns.
type RecordTarget struct {
	Xmlns    string  `xml:"xmlns,attr,omitempty"`
	TypeCode string  `xml:"typeCode,attr"`
	Patient  Patient `xml:"patient"`
}

func NewRecordTarget(patient Patient) RecordTarget {
	return RecordTarget{TypeCode: "RCT", Patient: patient}
}

// Patient is the role of a person receiving healthcare.
type Patient struct {
	ClassCode     string        `xml:"classCode,attr"`
	ID            Identifier    `xml:"id"`
	Addr          []Address     `xml:"addr,omitempty"`
	Telecom       []Telecom     `xml:"telecom,omitempty"`
	PatientPerson PatientPerson `xml:"patientPerson"`
}

func NewPatient() Patient {
	return Patient{ClassCode: "PAT"}
}

// PatientPerson carries the demographic details of the patient.
type PatientPerson struct {
	ClassCode                string          `xml:"classCode,attr"`
	DeterminerCode           string          `xml:"determinerCode,attr"`
	Name                     []Name          `xml:"name,omitempty"`
	AdministrativeGenderCode Code            `xml:"administrativeGenderCode"`
	BirthTime                Timestamp       `xml:"birthTime"`
	PlayedProviderPatient    ProviderPatient `xml:"playedProviderPatient"`
}

func NewPatientPerson() PatientPerson {
	return PatientPerson{ClassCode: "PSN", DeterminerCode: "INSTANCE"}
}

type ProviderPatient struct {
	ClassCode string    `xml:"classCode,attr"`
	SubjectOf SubjectOf `xml:"subjectOf"`
}

func NewProviderPatient(subjectOf SubjectOf) ProviderPatient {
	return ProviderPatient{ClassCode: "PAT", SubjectOf: subjectOf}
}

type SubjectOf struct {
	TypeCode             string               `xml:"typeCode,attr"`
	PatientCareProvision PatientCareProvision `xml:"patientCareProvision"`
}

func NewSubjectOf(provision PatientCareProvision) SubjectOf {
	return SubjectOf{TypeCode: "SBJ", PatientCareProvision: provision}
}

// PatientCareProvision identifies the primary care relationship the patient
// holds with their GP practice.
type PatientCareProvision struct {
	ClassCode        string               `xml:"classCode,attr"`
	MoodCode         string               `xml:"moodCode,attr"`
	Code             Code                 `xml:"code"`
	ResponsibleParty CareResponsibleParty `xml:"responsibleParty"`
}

func NewPatientCareProvision(code Code) PatientCareProvision {
	return PatientCareProvision{ClassCode: "PCPR", MoodCode: "EVN", Code: code}
}

type CareResponsibleParty struct {
	TypeCode           string             `xml:"typeCode,attr"`
	HealthCareProvider HealthCareProvider `xml:"healthCareProvider"`
}

func NewCareResponsibleParty(provider HealthCareProvider) CareResponsibleParty {
	return CareResponsibleParty{TypeCode: "RESP", HealthCareProvider: provider}
}

type HealthCareProvider struct {
	ClassCode string     `xml:"classCode,attr"`
	ID        Identifier `xml:"id"`
}

func NewHealthCareProvider(id Identifier) HealthCareProvider {
	return HealthCareProvider{ClassCode: "PROV", ID: id}
}

// Organization describes an organization involved in the prescription
// process, optionally chained to the organization it provides care under.
type Organization struct {
	ClassCode                 string                     `xml:"classCode,attr"`
	DeterminerCode            string                     `xml:"determinerCode,attr"`
	ID                        Identifier                 `xml:"id"`
	Code                      *Code                      `xml:"code,omitempty"`
	Name                      *Text                      `xml:"name,omitempty"`
	Telecom                   *Telecom                   `xml:"telecom,omitempty"`
	Addr                      *Address                   `xml:"addr,omitempty"`
	HealthCareProviderLicense *HealthCareProviderLicense `xml:"healthCareProviderLicense,omitempty"`
}

func NewOrganization() Organization {
	return Organization{ClassCode: "ORG", DeterminerCode: "INSTANCE"}
}

type HealthCareProviderLicense struct {
	ClassCode    string       `xml:"classCode,attr"`
	Organization Organization `xml:"Organization"`
}

func NewHealthCareProviderLicense(organization Organization) HealthCareProviderLicense {
	return HealthCareProviderLicense{ClassCode: "PROV", Organization: organization}
}

// AgentOrganization is a role played by an organization acting alone, such as
// a nominated dispensing site.
type AgentOrganization struct {
	ClassCode            string       `xml:"classCode,attr"`
	AgentOrganizationSDS Organization `xml:"agentOrganizationSDS"`
}

func NewAgentOrganization(organization Organization) AgentOrganization {
	return AgentOrganization{ClassCode: "AGNT", AgentOrganizationSDS: organization}
}
