package hl7v3

// Name use codes.
const (
	NameUseUsual            = "L"
	NameUseAlias            = "A"
	NameUsePreferred        = "PREFERRED"
	NameUsePrevious         = "PREVIOUS"
	NameUsePreviousBirth    = "PREVIOUS-BIRTH"
	NameUsePreviousMaiden   = "PREVIOUS-MAIDEN"
	NameUsePreviousBachelor = "PREVIOUS-BACHELOR"
)

// Address use codes.
const (
	AddressUseHome        = "H"
	AddressUsePrimaryHome = "HP"
	AddressUseWork        = "WP"
	AddressUseTemporary   = "TMP"
	AddressUsePostal      = "PST"
)

// Telecom use codes.
const (
	TelecomUsePermanentHome = "HP"
	TelecomUseWorkplace     = "WP"
	TelecomUseTemporary     = "HV"
	TelecomUseMobile        = "MC"
)

// Name is a structured person name. Unstructured names carry only Text.
type Name struct {
	Use    string `xml:"use,attr,omitempty"`
	Prefix []Text `xml:"prefix,omitempty"`
	Given  []Text `xml:"given,omitempty"`
	Family *Text  `xml:"family,omitempty"`
	Suffix []Text `xml:"suffix,omitempty"`
	Text   string `xml:",chardata"`
}

type Address struct {
	Use               string `xml:"use,attr,omitempty"`
	StreetAddressLine []Text `xml:"streetAddressLine,omitempty"`
	PostalCode        *Text  `xml:"postalCode,omitempty"`
}

type Telecom struct {
	Use   string `xml:"use,attr,omitempty"`
	Value string `xml:"value,attr,omitempty"`
}
