package translation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
	"github.com/eprescribe/coordinator/internal/platform/hl7v3"
)

const (
	hl7V3DateFormat     = "20060102"
	hl7V3DateTimeFormat = "20060102150405"
)

var fhirDateRegexp = regexp.MustCompile(
	`^([0-9]([0-9]([0-9][1-9]|[1-9]0)|[1-9]00)|[1-9]000)` +
		`(-(0[1-9]|1[0-2])(-(0[1-9]|[1-2][0-9]|3[0-1]))?)?$`,
)

var fhirDateTimeRegexp = regexp.MustCompile(
	`^([0-9]([0-9]([0-9][1-9]|[1-9]0)|[1-9]00)|[1-9]000)` +
		`(-(0[1-9]|1[0-2])(-(0[1-9]|[1-2][0-9]|3[0-1])` +
		`(T([01][0-9]|2[0-3]):[0-5][0-9]:([0-5][0-9]|60)(\.[0-9]+)?` +
		`(Z|([+-])((0[0-9]|1[0-3]):[0-5][0-9]|14:00)))?)?)?$`,
)

var isoDateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006",
}

// ConvertISODateTimeToHL7V3DateTime validates a dateTime value and renders it
// as a legacy timestamp in UTC.
func ConvertISODateTimeToHL7V3DateTime(isoDateTime, fhirPath string) (hl7v3.Timestamp, error) {
	parsed, err := parseISODateTime(isoDateTime, fhirDateTimeRegexp, "date time", fhirPath)
	if err != nil {
		return hl7v3.Timestamp{}, err
	}
	return hl7v3.NewTimestamp(parsed.UTC().Format(hl7V3DateTimeFormat)), nil
}

// ConvertISODateTimeToHL7V3Date validates a dateTime value and renders its
// date component as a legacy date.
func ConvertISODateTimeToHL7V3Date(isoDateTime, fhirPath string) (hl7v3.Timestamp, error) {
	parsed, err := parseISODateTime(isoDateTime, fhirDateTimeRegexp, "date time", fhirPath)
	if err != nil {
		return hl7v3.Timestamp{}, err
	}
	return hl7v3.NewTimestamp(parsed.UTC().Format(hl7V3DateFormat)), nil
}

// ConvertISODateToHL7V3Date validates a date value and renders it as a legacy
// date.
func ConvertISODateToHL7V3Date(isoDate, fhirPath string) (hl7v3.Timestamp, error) {
	parsed, err := parseISODateTime(isoDate, fhirDateRegexp, "date", fhirPath)
	if err != nil {
		return hl7v3.Timestamp{}, err
	}
	return hl7v3.NewTimestamp(parsed.UTC().Format(hl7V3DateFormat)), nil
}

// ConvertTimeToHL7V3DateTime renders a point in time as a legacy timestamp in
// UTC.
func ConvertTimeToHL7V3DateTime(t time.Time) hl7v3.Timestamp {
	return hl7v3.NewTimestamp(t.UTC().Format(hl7V3DateTimeFormat))
}

// ConvertHL7V3DateTimeToISODateTime renders a legacy timestamp, always UTC,
// back as an ISO dateTime with an explicit offset.
func ConvertHL7V3DateTimeToISODateTime(timestamp hl7v3.Timestamp) (string, error) {
	parsed, err := time.Parse(hl7V3DateTimeFormat, timestamp.Value)
	if err != nil {
		return "", fhir.NewInvalidValueError(
			fmt.Sprintf("Incorrect format for date time string '%s'.", timestamp.Value),
			"",
		)
	}
	return parsed.Format("2006-01-02T15:04:05") + "+00:00", nil
}

func parseISODateTime(value string, pattern *regexp.Regexp, kind, fhirPath string) (time.Time, error) {
	if !pattern.MatchString(value) {
		return time.Time{}, fhir.NewInvalidValueError(
			fmt.Sprintf("Incorrect format for %s string '%s'.", kind, value),
			fhirPath,
		)
	}
	for _, layout := range isoDateTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fhir.NewInvalidValueError(
		fmt.Sprintf("Incorrect format for %s string '%s'.", kind, value),
		fhirPath,
	)
}

// IsFutureDated reports whether a dateTime value is after the current time.
func IsFutureDated(isoDateTime string) bool {
	for _, layout := range isoDateTimeLayouts {
		if parsed, err := time.Parse(layout, isoDateTime); err == nil {
			return time.Now().UTC().Before(parsed.UTC())
		}
	}
	return false
}
