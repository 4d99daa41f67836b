// Package dosage renders structured dosage instructions as clinician-readable
// text. Rendering is deterministic: the same structured input always yields
// the identical string, and any required sub-field that is missing is a fatal
// error rather than a silent default.
package dosage

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
)

// StringifyDosages renders a list of dosage instructions as a single
// instruction string. A single entry is rendered directly. Multiple entries
// must all carry a sequence number; entries sharing a sequence are joined
// with ", and " and consecutive sequences with ", then ".
func StringifyDosages(dosages []fhir.Dosage) (string, error) {
	if len(dosages) == 0 {
		return "", nil
	}

	if len(dosages) == 1 {
		return StringifyDosage(dosages[0])
	}

	for _, d := range dosages {
		if d.Sequence == "" {
			return "", fhir.NewInvalidValueError(
				"Multiple dosage instructions but sequence not specified",
				"Dosage.sequence",
			)
		}
	}

	return joinBySequence(dosages, StringifyDosage)
}

// Instruction joins the free-text instruction of each dosage entry, grouped by
// sequence number the same way StringifyDosages groups rendered entries. An
// entry with no text contributes an empty string rather than an error.
func Instruction(dosages []fhir.Dosage) (string, error) {
	if len(dosages) == 0 {
		return "", fhir.NewInvalidValueError(
			"Dosage instructions not provided",
			"Dosage",
		)
	}

	if len(dosages) == 1 {
		return dosages[0].Text, nil
	}

	for _, d := range dosages {
		if d.Sequence == "" {
			return "", fhir.NewInvalidValueError(
				"Dosage instructions lacking complete sequencing",
				"Dosage.sequence",
			)
		}
	}

	return joinBySequence(dosages, func(d fhir.Dosage) (string, error) {
		return d.Text, nil
	})
}

// joinBySequence renders each entry and joins the results: entries sharing a
// sequence with ", and ", consecutive sequence groups with ", then ". Callers
// must have checked that every entry carries a sequence.
func joinBySequence(dosages []fhir.Dosage, render func(fhir.Dosage) (string, error)) (string, error) {
	sequenceToInstructions := make(map[int64][]string)
	var sequences []int64
	for _, d := range dosages {
		seq, err := decimal.NewFromString(d.Sequence.String())
		if err != nil {
			return "", fhir.NewInvalidValueError(
				"Invalid dosage sequence "+d.Sequence.String(),
				"Dosage.sequence",
			)
		}
		instruction, err := render(d)
		if err != nil {
			return "", err
		}
		n := seq.IntPart()
		if _, seen := sequenceToInstructions[n]; !seen {
			sequences = append(sequences, n)
		}
		sequenceToInstructions[n] = append(sequenceToInstructions[n], instruction)
	}

	sort.Slice(sequences, func(i, j int) bool { return sequences[i] < sequences[j] })

	sequential := make([]string, 0, len(sequences))
	for _, seq := range sequences {
		sequential = append(sequential, strings.Join(sequenceToInstructions[seq], ", and "))
	}
	return strings.Join(sequential, ", then "), nil
}

// StringifyDosage renders one dosage instruction. Fragments are produced in a
// fixed order, empty fragments are omitted, and the remainder are joined with
// single spaces.
func StringifyDosage(dosage fhir.Dosage) (string, error) {
	builders := []func(fhir.Dosage) ([]string, error){
		stringifyMethod,
		stringifyDose,
		stringifyRate,
		stringifyDuration,
		stringifyFrequencyAndPeriod,
		stringifyOffsetAndWhen,
		stringifyDayOfWeekAndTimeOfDay,
		stringifyRoute,
		stringifySite,
		stringifyAsNeeded,
		stringifyBounds,
		stringifyCount,
		stringifyEvent,
		stringifyMaxDosePerPeriod,
		stringifyMaxDosePerAdministration,
		stringifyMaxDosePerLifetime,
		stringifyAdditionalInstruction,
		stringifyPatientInstruction,
	}

	fragments := make([]string, 0, len(builders))
	for _, build := range builders {
		part, err := build(dosage)
		if err != nil {
			return "", err
		}
		for _, element := range part {
			if element == "" {
				return "", fhir.NewInvalidValueError(
					"Null or undefined dosage element - required field not populated.",
					"Dosage",
				)
			}
		}
		if fragment := strings.Join(part, ""); fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	return strings.Join(fragments, " "), nil
}

func stringifyMethod(dosage fhir.Dosage) ([]string, error) {
	if dosage.Method == nil {
		return nil, nil
	}
	return codingDisplays(dosage.Method.Coding), nil
}

func stringifyDose(dosage fhir.Dosage) ([]string, error) {
	for _, doseAndRate := range dosage.DoseAndRate {
		if q := doseAndRate.DoseQuantity; q != nil {
			return []string{quantityValue(q), " ", quantityUnit(q, false)}, nil
		}
	}
	for _, doseAndRate := range dosage.DoseAndRate {
		if doseAndRate.DoseRange != nil {
			return stringifyRange(doseAndRate.DoseRange, false), nil
		}
	}
	return nil, nil
}

func stringifyRate(dosage fhir.Dosage) ([]string, error) {
	for _, doseAndRate := range dosage.DoseAndRate {
		if ratio := doseAndRate.RateRatio; ratio != nil {
			numerator := ratio.Numerator
			denominator := ratio.Denominator
			if denominator != nil && isOne(denominator.Value) {
				return []string{
					"at a rate of ",
					quantityValue(numerator), " ", quantityUnit(numerator, false),
					" per ", quantityUnit(denominator, false),
				}, nil
			}
			return []string{
				"at a rate of ",
				quantityValue(numerator), " ", quantityUnit(numerator, false),
				" every ",
				quantityValue(denominator), " ", quantityUnit(denominator, true),
			}, nil
		}
	}
	for _, doseAndRate := range dosage.DoseAndRate {
		if doseAndRate.RateRange != nil {
			return append([]string{"at a rate of "}, stringifyRange(doseAndRate.RateRange, false)...), nil
		}
	}
	for _, doseAndRate := range dosage.DoseAndRate {
		if q := doseAndRate.RateQuantity; q != nil {
			return []string{"at a rate of ", quantityValue(q), " ", quantityUnit(q, false)}, nil
		}
	}
	return nil, nil
}

func stringifyDuration(dosage fhir.Dosage) ([]string, error) {
	repeat := dosage.Timing.GetRepeat()
	if repeat == nil {
		return nil, nil
	}
	duration := repeat.Duration
	durationMax := repeat.DurationMax
	if duration == "" && durationMax == "" {
		return nil, nil
	}

	unit, err := unitOfTimeDisplay(repeat.DurationUnit)
	if err != nil {
		return nil, err
	}
	elements := []string{"over ", numericValue(duration), " ", pluraliseUnit(unit, duration), "."}
	if durationMax != "" {
		elements = append(elements,
			" (maximum ", numericValue(durationMax), " ", pluraliseUnit(unit, durationMax), ")",
		)
	}
	return elements, nil
}

func stringifyFrequencyAndPeriod(dosage fhir.Dosage) ([]string, error) {
	repeat := dosage.Timing.GetRepeat()
	if repeat == nil {
		return nil, nil
	}
	frequency := repeat.Frequency
	frequencyMax := repeat.FrequencyMax
	period := repeat.Period
	periodMax := repeat.PeriodMax

	if frequency == "" && frequencyMax == "" {
		return stringifyIndefiniteFrequency(repeat)
	}

	if isOne(frequency) && frequencyMax == "" {
		return stringifyOnceFrequency(repeat)
	}

	if isTwo(frequency) && frequencyMax == "" {
		return stringifyTwiceFrequency(repeat)
	}

	elements := stringifyStandardFrequency(repeat)
	if period != "" || periodMax != "" {
		periodElements, err := stringifyStandardPeriod(repeat)
		if err != nil {
			return nil, err
		}
		elements = append(elements, " ")
		elements = append(elements, periodElements...)
	}
	return elements, nil
}

func stringifyIndefiniteFrequency(repeat *fhir.Repeat) ([]string, error) {
	switch {
	case repeat.Period == "" && repeat.PeriodMax == "":
		return nil, nil
	case isOne(repeat.Period) && repeat.PeriodMax == "":
		reciprocal, err := reciprocalUnitOfTimeDisplay(repeat.PeriodUnit)
		if err != nil {
			return nil, err
		}
		return []string{reciprocal}, nil
	default:
		return nil, fhir.NewInvalidValueError(
			"Period or periodMax specified without a frequency and period is not 1.",
			"Dosage.timing.repeat",
		)
	}
}

func stringifyOnceFrequency(repeat *fhir.Repeat) ([]string, error) {
	if repeat.Period == "" && repeat.PeriodMax == "" {
		return []string{"once"}, nil
	}
	periodElements, err := stringifyStandardPeriod(repeat)
	if err != nil {
		return nil, err
	}
	if isOne(repeat.Period) && repeat.PeriodMax == "" {
		return append([]string{"once "}, periodElements...), nil
	}
	return periodElements, nil
}

func stringifyTwiceFrequency(repeat *fhir.Repeat) ([]string, error) {
	if repeat.Period == "" && repeat.PeriodMax == "" {
		return []string{"twice"}, nil
	}
	periodElements, err := stringifyStandardPeriod(repeat)
	if err != nil {
		return nil, err
	}
	return append([]string{"twice "}, periodElements...), nil
}

func stringifyStandardFrequency(repeat *fhir.Repeat) []string {
	frequency := repeat.Frequency
	frequencyMax := repeat.FrequencyMax
	switch {
	case frequency != "" && frequencyMax != "":
		return []string{numericValue(frequency), " to ", numericValue(frequencyMax), " times"}
	case frequency != "":
		return []string{numericValue(frequency), " times"}
	default:
		return []string{"up to ", numericValue(frequencyMax), " times"}
	}
}

func stringifyStandardPeriod(repeat *fhir.Repeat) ([]string, error) {
	period := repeat.Period
	periodMax := repeat.PeriodMax
	unit, err := unitOfTimeDisplay(repeat.PeriodUnit)
	if err != nil {
		return nil, err
	}
	switch {
	case periodMax != "":
		return []string{
			"every ", numericValue(period), " to ", numericValue(periodMax),
			" ", pluraliseUnit(unit, periodMax),
		}, nil
	case isOne(period):
		return []string{indefiniteArticle(repeat.PeriodUnit), " ", unit}, nil
	default:
		return []string{"every ", numericValue(period), " ", pluraliseUnit(unit, period)}, nil
	}
}

func stringifyOffsetAndWhen(dosage fhir.Dosage) ([]string, error) {
	repeat := dosage.Timing.GetRepeat()
	if repeat == nil {
		return nil, nil
	}
	offset := repeat.Offset
	when := repeat.When
	if offset == "" && len(when) == 0 {
		return nil, nil
	}

	var elements []string

	if offset != "" {
		offsetMinutes, err := decimal.NewFromString(offset.String())
		if err != nil {
			return nil, fhir.NewInvalidValueError(
				"Invalid offset "+offset.String(),
				"Dosage.timing.repeat.offset",
			)
		}
		value, unit := offsetValueAndUnit(offsetMinutes.IntPart())
		elements = append(elements, value, " ", pluraliseUnitString(unit, value), " ")
	}

	timings := make([]string, 0, len(when))
	for _, eventTiming := range when {
		display, err := eventTimingDisplay(eventTiming)
		if err != nil {
			return nil, err
		}
		timings = append(timings, display)
	}
	return append(elements, listWithSeparators(timings)...), nil
}

// offsetValueAndUnit converts an offset in minutes to the largest whole unit
// that divides it evenly.
func offsetValueAndUnit(offsetMinutes int64) (string, string) {
	if offsetMinutes%60 != 0 {
		return decimal.NewFromInt(offsetMinutes).String(), "minute"
	}
	offsetHours := offsetMinutes / 60
	if offsetHours%24 != 0 {
		return decimal.NewFromInt(offsetHours).String(), "hour"
	}
	return decimal.NewFromInt(offsetHours / 24).String(), "day"
}

func stringifyDayOfWeekAndTimeOfDay(dosage fhir.Dosage) ([]string, error) {
	repeat := dosage.Timing.GetRepeat()
	if repeat == nil {
		return nil, nil
	}
	dayOfWeek := repeat.DayOfWeek
	timeOfDay := repeat.TimeOfDay
	if len(dayOfWeek) == 0 && len(timeOfDay) == 0 {
		return nil, nil
	}

	var elements []string

	if len(dayOfWeek) > 0 {
		days := make([]string, 0, len(dayOfWeek))
		for _, day := range dayOfWeek {
			display, err := dayOfWeekDisplay(day)
			if err != nil {
				return nil, err
			}
			days = append(days, display)
		}
		elements = append(elements, "on ")
		elements = append(elements, listWithSeparators(days)...)
	}

	if len(timeOfDay) > 0 {
		if len(elements) > 0 {
			elements = append(elements, " ")
		}
		times := make([]string, 0, len(timeOfDay))
		for _, t := range timeOfDay {
			formatted, err := formatTime(t)
			if err != nil {
				return nil, err
			}
			times = append(times, formatted)
		}
		elements = append(elements, "at ")
		elements = append(elements, listWithSeparators(times)...)
	}

	return elements, nil
}

func stringifyRoute(dosage fhir.Dosage) ([]string, error) {
	if dosage.Route == nil {
		return nil, nil
	}
	return codingDisplays(dosage.Route.Coding), nil
}

func stringifySite(dosage fhir.Dosage) ([]string, error) {
	if dosage.Site == nil {
		return nil, nil
	}
	return codingDisplays(dosage.Site.Coding), nil
}

func stringifyAsNeeded(dosage fhir.Dosage) ([]string, error) {
	if concept := dosage.AsNeededCodeableConcept; concept != nil {
		if len(concept.Coding) == 0 {
			return nil, fhir.NewTooFewValuesError(
				"No entries in asNeededCodeableConcept.",
				"Dosage.asNeededCodeableConcept",
			)
		}
		displays := codingDisplays(concept.Coding)
		return append([]string{"as required for "}, listWithSeparators(displays)...), nil
	}
	if dosage.AsNeededBoolean != nil && *dosage.AsNeededBoolean {
		return []string{"as required"}, nil
	}
	return nil, nil
}

func stringifyBounds(dosage fhir.Dosage) ([]string, error) {
	repeat := dosage.Timing.GetRepeat()
	if repeat == nil {
		return nil, nil
	}
	switch {
	case repeat.BoundsDuration != nil:
		d := repeat.BoundsDuration
		return []string{"for ", numericValue(d.Value), " ", pluraliseUnit(d.Unit, d.Value)}, nil
	case repeat.BoundsRange != nil:
		return append([]string{"for "}, stringifyRange(repeat.BoundsRange, true)...), nil
	case repeat.BoundsPeriod != nil:
		period := repeat.BoundsPeriod
		switch {
		case period.Start != "" && period.End != "":
			start, err := formatDate(period.Start)
			if err != nil {
				return nil, err
			}
			end, err := formatDate(period.End)
			if err != nil {
				return nil, err
			}
			return []string{"from ", start, " to ", end}, nil
		case period.Start != "":
			start, err := formatDate(period.Start)
			if err != nil {
				return nil, err
			}
			return []string{"from ", start}, nil
		default:
			end, err := formatDate(period.End)
			if err != nil {
				return nil, err
			}
			return []string{"until ", end}, nil
		}
	default:
		return nil, nil
	}
}

func stringifyCount(dosage fhir.Dosage) ([]string, error) {
	repeat := dosage.Timing.GetRepeat()
	if repeat == nil {
		return nil, nil
	}
	count := repeat.Count
	countMax := repeat.CountMax
	if count == "" && countMax == "" {
		return nil, nil
	}

	if isOne(count) && countMax == "" {
		return []string{"take once"}, nil
	}
	if isTwo(count) && countMax == "" {
		return []string{"take twice"}, nil
	}

	elements := []string{"take ", numericValue(count)}
	if countMax != "" {
		elements = append(elements, " to ", numericValue(countMax))
	}
	return append(elements, " times"), nil
}

func stringifyEvent(dosage fhir.Dosage) ([]string, error) {
	if dosage.Timing == nil || len(dosage.Timing.Event) == 0 {
		return nil, nil
	}
	events := make([]string, 0, len(dosage.Timing.Event))
	for _, event := range dosage.Timing.Event {
		formatted, err := formatDate(event)
		if err != nil {
			return nil, err
		}
		events = append(events, formatted)
	}
	return append([]string{"on "}, listWithSeparators(events)...), nil
}

func stringifyMaxDosePerPeriod(dosage fhir.Dosage) ([]string, error) {
	if dosage.MaxDosePerPeriod == nil {
		return nil, nil
	}
	numerator := dosage.MaxDosePerPeriod.Numerator
	denominator := dosage.MaxDosePerPeriod.Denominator
	return []string{
		"up to a maximum of ",
		quantityValue(numerator), " ", quantityUnit(numerator, false),
		" in ",
		quantityValue(denominator), " ", quantityUnit(denominator, true),
	}, nil
}

func stringifyMaxDosePerAdministration(dosage fhir.Dosage) ([]string, error) {
	if dosage.MaxDosePerAdministration == nil {
		return nil, nil
	}
	q := dosage.MaxDosePerAdministration
	return []string{
		"up to a maximum of ", quantityValue(q), " ", quantityUnit(q, false), " per dose",
	}, nil
}

func stringifyMaxDosePerLifetime(dosage fhir.Dosage) ([]string, error) {
	if dosage.MaxDosePerLifetime == nil {
		return nil, nil
	}
	q := dosage.MaxDosePerLifetime
	return []string{
		"up to a maximum of ", quantityValue(q), " ", quantityUnit(q, false),
		" for the lifetime of the patient",
	}, nil
}

func stringifyAdditionalInstruction(dosage fhir.Dosage) ([]string, error) {
	if len(dosage.AdditionalInstruction) == 0 {
		return nil, nil
	}
	var displays []string
	for _, concept := range dosage.AdditionalInstruction {
		displays = append(displays, codingDisplays(concept.Coding)...)
	}
	return listWithSeparators(displays), nil
}

func stringifyPatientInstruction(dosage fhir.Dosage) ([]string, error) {
	if dosage.PatientInstruction == "" {
		return nil, nil
	}
	return []string{dosage.PatientInstruction}, nil
}

func stringifyRange(r *fhir.Range, pluralise bool) []string {
	low := r.Low
	high := r.High
	lowUnit := quantityUnit(low, pluralise)
	highUnit := quantityUnit(high, pluralise)
	lowValue := quantityValue(low)
	highValue := quantityValue(high)

	switch {
	case low != nil && high == nil:
		return []string{"at least ", lowValue, " ", lowUnit}
	case high != nil && low == nil:
		return []string{"up to ", highValue, " ", highUnit}
	case lowUnit != highUnit:
		return []string{lowValue, " ", lowUnit, " to ", highValue, " ", highUnit}
	default:
		return []string{lowValue, " to ", highValue, " ", highUnit}
	}
}
