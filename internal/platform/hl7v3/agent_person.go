package hl7v3

// AgentPerson identifies a person fulfilling a role when the full role
// profile, player and scoper details may not all be held on SDS.
type AgentPerson struct {
	Xmlns                   string            `xml:"xmlns,attr,omitempty"`
	ClassCode               string            `xml:"classCode,attr"`
	ID                      *Identifier       `xml:"id,omitempty"`
	Code                    *Code             `xml:"code,omitempty"`
	Telecom                 []Telecom         `xml:"telecom,omitempty"`
	AgentPerson             AgentPersonPerson `xml:"agentPerson"`
	RepresentedOrganization Organization      `xml:"representedOrganization"`
}

func NewAgentPerson() AgentPerson {
	return AgentPerson{ClassCode: "AGNT"}
}

// AgentPersonPerson holds the details of a person on SDS.
type AgentPersonPerson struct {
	ClassCode      string     `xml:"classCode,attr"`
	DeterminerCode string     `xml:"determinerCode,attr"`
	ID             Identifier `xml:"id"`
	Name           *Name      `xml:"name,omitempty"`
}

func NewAgentPersonPerson(id Identifier) AgentPersonPerson {
	return AgentPersonPerson{ClassCode: "PSN", DeterminerCode: "INSTANCE", ID: id}
}

// Author links an act to the agent person who authored it.
type Author struct {
	TypeCode    string      `xml:"typeCode,attr"`
	AgentPerson AgentPerson `xml:"AgentPerson"`
}

func NewAuthor(agentPerson AgentPerson) Author {
	return Author{TypeCode: "AUT", AgentPerson: agentPerson}
}

// PrescriptionAuthor is the authoring participation on a prescription or
// supply header. It additionally carries the participation time and the
// signature placeholder hashed into the prescription digest.
type PrescriptionAuthor struct {
	TypeCode           string      `xml:"typeCode,attr"`
	ContextControlCode string      `xml:"contextControlCode,attr"`
	Time               Timestamp   `xml:"time"`
	SignatureText      any         `xml:"signatureText"`
	AgentPerson        AgentPerson `xml:"AgentPerson"`
}

func NewPrescriptionAuthor() PrescriptionAuthor {
	return PrescriptionAuthor{TypeCode: "AUT", ContextControlCode: "OP", SignatureText: NullNotApplicable}
}

// ResponsibleParty links an act to the healthcare professional with direct
// responsibility for the patient.
type ResponsibleParty struct {
	TypeCode    string      `xml:"typeCode,attr"`
	AgentPerson AgentPerson `xml:"AgentPerson"`
}

func NewResponsibleParty(agentPerson AgentPerson) ResponsibleParty {
	return ResponsibleParty{TypeCode: "RESP", AgentPerson: agentPerson}
}

// PrescriptionResponsibleParty is the responsible party participation on a
// prescription, which carries a context control code.
type PrescriptionResponsibleParty struct {
	TypeCode           string      `xml:"typeCode,attr"`
	ContextControlCode string      `xml:"contextControlCode,attr"`
	AgentPerson        AgentPerson `xml:"AgentPerson"`
}

func NewPrescriptionResponsibleParty(agentPerson AgentPerson) PrescriptionResponsibleParty {
	return PrescriptionResponsibleParty{TypeCode: "RESP", ContextControlCode: "OP", AgentPerson: agentPerson}
}

// LegalAuthenticator is the participation of the person legally responsible
// for a dispense claim.
type LegalAuthenticator struct {
	TypeCode           string      `xml:"typeCode,attr"`
	ContextControlCode string      `xml:"contextControlCode,attr"`
	Time               Timestamp   `xml:"time"`
	SignatureText      any         `xml:"signatureText"`
	AgentPerson        AgentPerson `xml:"AgentPerson"`
}

func NewLegalAuthenticator(time Timestamp, agentPerson AgentPerson) LegalAuthenticator {
	return LegalAuthenticator{
		TypeCode:           "LA",
		ContextControlCode: "OP",
		Time:               time,
		SignatureText:      NullNotApplicable,
		AgentPerson:        agentPerson,
	}
}

// AuthorPersonSds is the authoring participation used where the person is
// fully identified on SDS, as in a dispenser withdraw.
type AuthorPersonSds struct {
	TypeCode       string         `xml:"typeCode,attr"`
	AgentPersonSDS AgentPersonSds `xml:"AgentPersonSDS"`
}

func NewAuthorPersonSds(agentPersonSds AgentPersonSds) AuthorPersonSds {
	return AuthorPersonSds{TypeCode: "AUT", AgentPersonSDS: agentPersonSds}
}

type AgentPersonSds struct {
	ClassCode      string               `xml:"classCode,attr"`
	ID             Identifier           `xml:"id"`
	AgentPersonSDS AgentPersonPersonSds `xml:"agentPersonSDS"`
	Part           *AgentPersonPart     `xml:"part,omitempty"`
}

func NewAgentPersonSds() AgentPersonSds {
	return AgentPersonSds{ClassCode: "AGNT"}
}

type AgentPersonPersonSds struct {
	ClassCode      string     `xml:"classCode,attr"`
	DeterminerCode string     `xml:"determinerCode,attr"`
	ID             Identifier `xml:"id"`
}

func NewAgentPersonPersonSds(id Identifier) AgentPersonPersonSds {
	return AgentPersonPersonSds{ClassCode: "PSN", DeterminerCode: "INSTANCE", ID: id}
}

type AgentPersonPart struct {
	TypeCode    string  `xml:"typeCode,attr"`
	PartSDSRole SdsRole `xml:"partSDSRole"`
}

func NewAgentPersonPart(sdsRole SdsRole) AgentPersonPart {
	return AgentPersonPart{TypeCode: "PART", PartSDSRole: sdsRole}
}

type SdsRole struct {
	ClassCode string     `xml:"classCode,attr"`
	ID        Identifier `xml:"id"`
}

func NewSdsRole(id Identifier) SdsRole {
	return SdsRole{ClassCode: "ROL", ID: id}
}

// AuthorSystemSds identifies the sending system as the author of the control
// act wrapper.
type AuthorSystemSds struct {
	TypeCode       string         `xml:"typeCode,attr"`
	AgentSystemSDS AgentSystemSds `xml:"AgentSystemSDS"`
}

func NewAuthorSystemSds(agentSystemSds AgentSystemSds) AuthorSystemSds {
	return AuthorSystemSds{TypeCode: "AUT", AgentSystemSDS: agentSystemSds}
}

type AgentSystemSds struct {
	ClassCode      string               `xml:"classCode,attr"`
	AgentSystemSDS AgentSystemSystemSds `xml:"agentSystemSDS"`
}

func NewAgentSystemSds(systemSds AgentSystemSystemSds) AgentSystemSds {
	return AgentSystemSds{ClassCode: "AGNT", AgentSystemSDS: systemSds}
}

type AgentSystemSystemSds struct {
	ClassCode      string     `xml:"classCode,attr"`
	DeterminerCode string     `xml:"determinerCode,attr"`
	ID             Identifier `xml:"id"`
}

func NewAgentSystemSystemSds(id Identifier) AgentSystemSystemSds {
	return AgentSystemSystemSds{ClassCode: "DEV", DeterminerCode: "INSTANCE", ID: id}
}
