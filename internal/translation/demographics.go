package translation

import (
	"fmt"
	"strings"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

// ConvertName maps a structured person name onto the legacy name element.
func ConvertName(humanName fhir.HumanName, fhirPath string) (hl7v3.Name, error) {
	name := hl7v3.Name{}
	if humanName.Use != "" {
		use, err := convertNameUse(humanName.Use, fhirPath)
		if err != nil {
			return hl7v3.Name{}, err
		}
		name.Use = use
	}
	for _, prefix := range humanName.Prefix {
		name.Prefix = append(name.Prefix, hl7v3.NewText(prefix))
	}
	for _, given := range humanName.Given {
		name.Given = append(name.Given, hl7v3.NewText(given))
	}
	if humanName.Family != "" {
		family := hl7v3.NewText(humanName.Family)
		name.Family = &family
	}
	for _, suffix := range humanName.Suffix {
		name.Suffix = append(name.Suffix, hl7v3.NewText(suffix))
	}
	return name, nil
}

func convertNameUse(nameUse, fhirPath string) (string, error) {
	switch nameUse {
	case "usual", "official":
		return hl7v3.NameUseUsual, nil
	case "temp", "anonymous":
		return hl7v3.NameUseAlias, nil
	case "nickname":
		return hl7v3.NameUsePreferred, nil
	case "old":
		return hl7v3.NameUsePrevious, nil
	case "maiden":
		return hl7v3.NameUsePreviousMaiden, nil
	default:
		return "", fhir.NewInvalidValueError(
			fmt.Sprintf("Unhandled name use '%s'.", nameUse),
			fhirPath+".use",
		)
	}
}

// ConvertTelecom maps a contact point onto the legacy telecom element. Phone
// numbers are stripped of whitespace and prefixed with the tel scheme.
func ConvertTelecom(contactPoint fhir.ContactPoint, fhirPath string) (hl7v3.Telecom, error) {
	telecom := hl7v3.Telecom{}
	if contactPoint.Use != "" {
		use, err := convertTelecomUse(contactPoint.Use, fhirPath)
		if err != nil {
			return hl7v3.Telecom{}, err
		}
		telecom.Use = use
	}
	if contactPoint.Value != "" {
		telecom.Value = convertTelecomValue(contactPoint.Value)
	}
	return telecom, nil
}

func convertTelecomUse(telecomUse, fhirPath string) (string, error) {
	switch telecomUse {
	case "home":
		return hl7v3.TelecomUsePermanentHome, nil
	case "work":
		return hl7v3.TelecomUseWorkplace, nil
	case "temp":
		return hl7v3.TelecomUseTemporary, nil
	case "mobile":
		return hl7v3.TelecomUseMobile, nil
	default:
		return "", fhir.NewInvalidValueError(
			fmt.Sprintf("Unhandled telecom use '%s'.", telecomUse),
			fhirPath+".use",
		)
	}
}

func convertTelecomValue(value string) string {
	value = strings.Join(strings.Fields(value), "")
	if !strings.HasPrefix(value, "tel:") {
		value = "tel:" + value
	}
	return value
}

// ConvertAddress maps an address onto the legacy address element. Line, city,
// district and state components all become street address lines.
func ConvertAddress(address fhir.Address, fhirPath string) (hl7v3.Address, error) {
	converted := hl7v3.Address{}
	if address.Use != "" {
		use, err := convertAddressUse(address.Use, fhirPath)
		if err != nil {
			return hl7v3.Address{}, err
		}
		converted.Use = use
	}
	var allLines []string
	allLines = append(allLines, address.Line...)
	allLines = append(allLines, address.City, address.District, address.State)
	for _, line := range allLines {
		if line != "" {
			converted.StreetAddressLine = append(converted.StreetAddressLine, hl7v3.NewText(line))
		}
	}
	if address.PostalCode != "" {
		postalCode := hl7v3.NewText(address.PostalCode)
		converted.PostalCode = &postalCode
	}
	return converted, nil
}

func convertAddressUse(addressUse, fhirPath string) (string, error) {
	switch addressUse {
	case "home":
		return hl7v3.AddressUseHome, nil
	case "work":
		return hl7v3.AddressUseWork, nil
	case "temp":
		return hl7v3.AddressUseTemporary, nil
	case "billing":
		return hl7v3.AddressUsePostal, nil
	default:
		return "", fhir.NewInvalidValueError(
			fmt.Sprintf("Unhandled address use '%s'.", addressUse),
			fhirPath+".use",
		)
	}
}

// ConvertGender maps an administrative gender code onto the legacy sex code.
func ConvertGender(gender, fhirPath string) (hl7v3.Code, error) {
	switch gender {
	case "male":
		return hl7v3.SexMale, nil
	case "female":
		return hl7v3.SexFemale, nil
	case "other":
		return hl7v3.SexIndeterminate, nil
	case "unknown":
		return hl7v3.SexUnknown, nil
	default:
		return hl7v3.Code{}, fhir.NewInvalidValueError(
			fmt.Sprintf("Unhandled gender '%s'.", gender),
			fhirPath,
		)
	}
}
