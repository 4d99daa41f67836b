package hl7v3

import (
	"regexp"
	"strings"
)

// Identifier root OIDs.
const (
	TypeIdentifierRoot           = "2.16.840.1.113883.2.1.3.2.4.18.7"
	TemplateIdentifierRoot       = "2.16.840.1.113883.2.1.3.2.4.18.2"
	NhsNumberRoot                = "2.16.840.1.113883.2.1.4.1"
	AgentPersonIDRoot            = "1.2.826.0.1285.0.2.1.54"
	SdsUniqueIdentifierRoot      = "1.2.826.0.1285.0.2.0.65"
	SdsRoleProfileIdentifierRoot = "1.2.826.0.1285.0.2.0.67"
	ShortFormPrescriptionIDRoot  = "2.16.840.1.113883.2.1.3.2.4.18.8"
	SdsOrganizationIDRoot        = "1.2.826.0.1285.0.1.10"
	InteractionIdentifierRoot    = "2.16.840.1.113883.2.1.3.2.4.12"
	AccreditedSystemIDRoot       = "1.2.826.0.1285.0.2.0.107"
	SdsJobRoleIdentifierRoot     = "1.2.826.0.1285.0.2.1.104"
)

// Identifier is an instance identifier: a root OID (or a UUID acting as the
// whole identifier) plus an optional extension value.
type Identifier struct {
	Xmlns      string `xml:"xmlns,attr,omitempty"`
	Extension  string `xml:"extension,attr,omitempty"`
	Root       string `xml:"root,attr,omitempty"`
	NullFlavor string `xml:"nullFlavor,attr,omitempty"`
}

// NewUnknownIdentifier is used where the identified entity is known to exist
// but its identifier is not held, such as a patient with no registered GP.
func NewUnknownIdentifier() Identifier {
	return Identifier{NullFlavor: "UNK"}
}

var uuidPattern = regexp.MustCompile(`[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`)

// NewGlobalIdentifier builds an identifier whose root is itself the globally
// unique value. UUID-shaped values are normalised to uppercase; anything else
// passes through unchanged.
func NewGlobalIdentifier(root string) Identifier {
	if uuidPattern.MatchString(strings.ToLower(root)) {
		return Identifier{Root: strings.ToUpper(root)}
	}
	return Identifier{Root: root}
}

func NewTypeIdentifier(extension string) Identifier {
	return Identifier{Root: TypeIdentifierRoot, Extension: extension}
}

func NewTemplateIdentifier(extension string) Identifier {
	return Identifier{Root: TemplateIdentifierRoot, Extension: extension}
}

func NewNhsNumber(extension string) Identifier {
	return Identifier{Root: NhsNumberRoot, Extension: extension}
}

// NewPrescribingCode and NewProfessionalCode share a root. They are kept
// separate because prescriber identity resolution treats them as different
// priority tiers.
func NewPrescribingCode(extension string) Identifier {
	return Identifier{Root: AgentPersonIDRoot, Extension: extension}
}

func NewProfessionalCode(extension string) Identifier {
	return Identifier{Root: AgentPersonIDRoot, Extension: extension}
}

func NewSdsUniqueIdentifier(extension string) Identifier {
	return Identifier{Root: SdsUniqueIdentifierRoot, Extension: extension}
}

func NewSdsRoleProfileIdentifier(extension string) Identifier {
	return Identifier{Root: SdsRoleProfileIdentifierRoot, Extension: extension}
}

func NewShortFormPrescriptionIdentifier(extension string) Identifier {
	return Identifier{Root: ShortFormPrescriptionIDRoot, Extension: extension}
}

func NewSdsOrganizationIdentifier(extension string) Identifier {
	return Identifier{Root: SdsOrganizationIDRoot, Extension: extension}
}

func NewAccreditedSystemIdentifier(extension string) Identifier {
	return Identifier{Root: AccreditedSystemIDRoot, Extension: extension}
}

func NewSdsJobRoleIdentifier(extension string) Identifier {
	return Identifier{Root: SdsJobRoleIdentifierRoot, Extension: extension}
}

func newInteractionIdentifier(extension string) Identifier {
	return Identifier{Root: InteractionIdentifierRoot, Extension: extension}
}

// Interaction identifiers, one per outbound message family.
var (
	InteractionParentPrescriptionUrgent = newInteractionIdentifier("PORX_IN020101SM31")
	InteractionCancelRequest            = newInteractionIdentifier("PORX_IN030101SM32")
	InteractionDispenseNotification     = newInteractionIdentifier("PORX_IN080101SM31")
	InteractionDispenseClaimInformation = newInteractionIdentifier("PORX_IN090101SM31")
	InteractionDispenseProposalReturn   = newInteractionIdentifier("PORX_IN100101SM31")
	InteractionDispenserWithdraw        = newInteractionIdentifier("PORX_IN510101SM31")
	InteractionNominatedReleaseRequest  = newInteractionIdentifier("PORX_IN060102SM30")
	InteractionPatientReleaseRequest    = newInteractionIdentifier("PORX_IN132004SM30")
)
