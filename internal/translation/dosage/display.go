package dosage

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
)

// Unit-of-time codes from the timing value set.
const (
	unitSecond = "s"
	unitMinute = "min"
	unitHour   = "h"
	unitDay    = "d"
	unitWeek   = "wk"
	unitMonth  = "mo"
	unitYear   = "a"
)

func unitOfTimeDisplay(unitOfTime string) (string, error) {
	switch unitOfTime {
	case unitSecond:
		return "second", nil
	case unitMinute:
		return "minute", nil
	case unitHour:
		return "hour", nil
	case unitDay:
		return "day", nil
	case unitWeek:
		return "week", nil
	case unitMonth:
		return "month", nil
	case unitYear:
		return "year", nil
	default:
		return "", fhir.NewInvalidValueError(
			"Unhandled unit of time "+unitOfTime,
			"Dosage.timing.repeat",
		)
	}
}

func reciprocalUnitOfTimeDisplay(periodUnit string) (string, error) {
	switch periodUnit {
	case unitSecond:
		return "every second", nil
	case unitMinute:
		return "every minute", nil
	case unitHour:
		return "hourly", nil
	case unitDay:
		return "daily", nil
	case unitWeek:
		return "weekly", nil
	case unitMonth:
		return "monthly", nil
	case unitYear:
		return "annually", nil
	default:
		return "", fhir.NewInvalidValueError(
			"Unhandled unit of time "+periodUnit,
			"Dosage.timing.repeat.periodUnit",
		)
	}
}

func indefiniteArticle(unitOfTime string) string {
	if unitOfTime == unitHour {
		return "an"
	}
	return "a"
}

func eventTimingDisplay(eventTiming string) (string, error) {
	switch eventTiming {
	case "MORN":
		return "during the morning", nil
	case "MORN.early":
		return "during the early morning", nil
	case "MORN.late":
		return "during the late morning", nil
	case "NOON":
		return "around 12:00pm", nil
	case "AFT":
		return "during the afternoon", nil
	case "AFT.early":
		return "during the early afternoon", nil
	case "AFT.late":
		return "during the late afternoon", nil
	case "EVE":
		return "during the evening", nil
	case "EVE.early":
		return "during the early evening", nil
	case "EVE.late":
		return "during the late evening", nil
	case "NIGHT":
		return "during the night", nil
	case "PHS":
		return "once asleep", nil
	case "HS":
		return "before sleep", nil
	case "WAKE":
		return "upon waking", nil
	case "C":
		return "at a meal", nil
	case "CM":
		return "at breakfast", nil
	case "CD":
		return "at lunch", nil
	case "CV":
		return "at dinner", nil
	case "AC":
		return "before a meal", nil
	case "ACM":
		return "before breakfast", nil
	case "ACD":
		return "before lunch", nil
	case "ACV":
		return "before dinner", nil
	case "PC":
		return "after a meal", nil
	case "PCM":
		return "after breakfast", nil
	case "PCD":
		return "after lunch", nil
	case "PCV":
		return "after dinner", nil
	default:
		return "", fhir.NewInvalidValueError(
			"Unhandled EventTiming "+eventTiming,
			"Dosage.timing.repeat.when",
		)
	}
}

func dayOfWeekDisplay(dayOfWeek string) (string, error) {
	switch dayOfWeek {
	case "mon":
		return "Monday", nil
	case "tue":
		return "Tuesday", nil
	case "wed":
		return "Wednesday", nil
	case "thu":
		return "Thursday", nil
	case "fri":
		return "Friday", nil
	case "sat":
		return "Saturday", nil
	case "sun":
		return "Sunday", nil
	default:
		return "", fhir.NewInvalidValueError(
			"Unhandled DayOfWeek "+dayOfWeek,
			"Dosage.timing.repeat.dayOfWeek",
		)
	}
}

var timeOfDayLayouts = []string{"15:04:05.999999999", "15:04:05"}

// formatTime renders a time-of-day value, dropping the seconds component when
// it is zero.
func formatTime(timeOfDay string) (string, error) {
	for _, layout := range timeOfDayLayouts {
		parsed, err := time.Parse(layout, timeOfDay)
		if err != nil {
			continue
		}
		if parsed.Second() == 0 {
			return parsed.Format("15:04"), nil
		}
		return parsed.Format("15:04:05"), nil
	}
	return "", fhir.NewInvalidValueError(
		"Invalid time of day "+timeOfDay,
		"Dosage.timing.repeat.timeOfDay",
	)
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// formatDate renders the date component of an ISO 8601 dateTime as DD/MM/YYYY.
func formatDate(dateTime string) (string, error) {
	for _, layout := range dateTimeLayouts {
		parsed, err := time.Parse(layout, dateTime)
		if err != nil {
			continue
		}
		return parsed.Format("02/01/2006"), nil
	}
	return "", fhir.NewInvalidValueError(
		"Invalid dateTime "+dateTime,
		"Dosage.timing.repeat.boundsPeriod",
	)
}

func codingDisplays(codings []fhir.Coding) []string {
	displays := make([]string, 0, len(codings))
	for _, coding := range codings {
		displays = append(displays, coding.Display)
	}
	return displays
}

func quantityValue(quantity *fhir.Quantity) string {
	if quantity == nil {
		return ""
	}
	return numericValue(quantity.Value)
}

func quantityUnit(quantity *fhir.Quantity, pluralise bool) string {
	if quantity == nil || quantity.Unit == "" {
		return ""
	}
	if pluralise {
		return pluraliseUnit(quantity.Unit, quantity.Value)
	}
	return quantity.Unit
}

func numericValue(value json.Number) string {
	return value.String()
}

// pluraliseUnit appends a plural "s" unless the accompanying value is
// missing or exactly one.
func pluraliseUnit(unit string, value json.Number) string {
	if unit == "" {
		return ""
	}
	if value == "" || isOne(value) {
		return unit
	}
	return unit + "s"
}

func pluraliseUnitString(unit, value string) string {
	if unit == "" {
		return ""
	}
	if value == "" || value == "1" {
		return unit
	}
	return unit + "s"
}

func isOne(value json.Number) bool {
	return numericValueEquals(value, 1)
}

func isTwo(value json.Number) bool {
	return numericValueEquals(value, 2)
}

func numericValueEquals(value json.Number, n int64) bool {
	if value == "" {
		return false
	}
	parsed, err := decimal.NewFromString(value.String())
	if err != nil {
		return false
	}
	return parsed.Equal(decimal.NewFromInt(n))
}

// listWithSeparators joins display values with commas and a final "and".
func listWithSeparators(list []string) []string {
	elements := make([]string, 0, 2*len(list))
	for i, element := range list {
		elements = append(elements, element)
		if i < len(list)-2 {
			elements = append(elements, ", ")
		} else if i < len(list)-1 {
			elements = append(elements, " and ")
		}
	}
	return elements
}
