package dosage

import (
	"encoding/json"
	"testing"

	"github.com/eprescribe/coordinator/internal/platform/fhir"
)

func simpleQuantity(value, unit string) *fhir.Quantity {
	return &fhir.Quantity{Value: json.Number(value), Unit: unit}
}

func timingRepeat(repeat fhir.Repeat) *fhir.Timing {
	return &fhir.Timing{Repeat: &repeat}
}

func TestStringifyDosage_DoseQuantity(t *testing.T) {
	dosage := fhir.Dosage{
		DoseAndRate: []fhir.DoseAndRate{{DoseQuantity: simpleQuantity("10", "milligram")}},
	}

	got, err := StringifyDosage(dosage)
	if err != nil {
		t.Fatalf("StringifyDosage() error: %v", err)
	}
	if want := "10 milligram"; got != want {
		t.Errorf("StringifyDosage() = %q, want %q", got, want)
	}
}

func TestStringifyDosage_DoseRange(t *testing.T) {
	dosage := fhir.Dosage{
		DoseAndRate: []fhir.DoseAndRate{{DoseRange: &fhir.Range{
			Low:  simpleQuantity("10", "milligram"),
			High: simpleQuantity("20", "milligram"),
		}}},
	}

	got, err := StringifyDosage(dosage)
	if err != nil {
		t.Fatalf("StringifyDosage() error: %v", err)
	}
	if want := "10 to 20 milligram"; got != want {
		t.Errorf("StringifyDosage() = %q, want %q", got, want)
	}
}

func TestStringifyDosage_DoseRangeDifferentUnits(t *testing.T) {
	dosage := fhir.Dosage{
		DoseAndRate: []fhir.DoseAndRate{{DoseRange: &fhir.Range{
			Low:  simpleQuantity("500", "microgram"),
			High: simpleQuantity("1", "milligram"),
		}}},
	}

	got, err := StringifyDosage(dosage)
	if err != nil {
		t.Fatalf("StringifyDosage() error: %v", err)
	}
	if want := "500 microgram to 1 milligram"; got != want {
		t.Errorf("StringifyDosage() = %q, want %q", got, want)
	}
}

func TestStringifyDosage_RateRatio(t *testing.T) {
	cases := []struct {
		name        string
		denominator *fhir.Quantity
		want        string
	}{
		{
			name:        "unit denominator",
			denominator: simpleQuantity("1", "hour"),
			want:        "at a rate of 100 millilitre per hour",
		},
		{
			name:        "non-unit denominator",
			denominator: simpleQuantity("8", "hour"),
			want:        "at a rate of 100 millilitre every 8 hours",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dosage := fhir.Dosage{
				DoseAndRate: []fhir.DoseAndRate{{RateRatio: &fhir.Ratio{
					Numerator:   simpleQuantity("100", "millilitre"),
					Denominator: tc.denominator,
				}}},
			}

			got, err := StringifyDosage(dosage)
			if err != nil {
				t.Fatalf("StringifyDosage() error: %v", err)
			}
			if got != tc.want {
				t.Errorf("StringifyDosage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStringifyDosage_Duration(t *testing.T) {
	dosage := fhir.Dosage{
		Timing: timingRepeat(fhir.Repeat{
			Duration:     "2",
			DurationUnit: "d",
		}),
	}

	got, err := StringifyDosage(dosage)
	if err != nil {
		t.Fatalf("StringifyDosage() error: %v", err)
	}
	if want := "over 2 days."; got != want {
		t.Errorf("StringifyDosage() = %q, want %q", got, want)
	}
}

func TestStringifyDosage_DurationWithMaximum(t *testing.T) {
	dosage := fhir.Dosage{
		Timing: timingRepeat(fhir.Repeat{
			Duration:     "1",
			DurationMax:  "4",
			DurationUnit: "h",
		}),
	}

	got, err := StringifyDosage(dosage)
	if err != nil {
		t.Fatalf("StringifyDosage() error: %v", err)
	}
	if want := "over 1 hour. (maximum 4 hours)"; got != want {
		t.Errorf("StringifyDosage() = %q, want %q", got, want)
	}
}

func TestStringifyDosage_FrequencyAndPeriod(t *testing.T) {
	cases := []struct {
		name   string
		repeat fhir.Repeat
		want   string
	}{
		{
			name:   "once a day",
			repeat: fhir.Repeat{Frequency: "1", Period: "1", PeriodUnit: "d"},
			want:   "once a day",
		},
		{
			name:   "twice every 8 hours",
			repeat: fhir.Repeat{Frequency: "2", Period: "8", PeriodUnit: "h"},
			want:   "twice every 8 hours",
		},
		{
			name:   "once an hour",
			repeat: fhir.Repeat{Frequency: "1", Period: "1", PeriodUnit: "h"},
			want:   "once an hour",
		},
		{
			name:   "bare once",
			repeat: fhir.Repeat{Frequency: "1"},
			want:   "once",
		},
		{
			name:   "bare twice",
			repeat: fhir.Repeat{Frequency: "2"},
			want:   "twice",
		},
		{
			name:   "reciprocal period",
			repeat: fhir.Repeat{Period: "1", PeriodUnit: "d"},
			want:   "daily",
		},
		{
			name:   "frequency range",
			repeat: fhir.Repeat{Frequency: "3", FrequencyMax: "4", Period: "1", PeriodUnit: "d"},
			want:   "3 to 4 times a day",
		},
		{
			name:   "period range",
			repeat: fhir.Repeat{Frequency: "3", Period: "4", PeriodMax: "6", PeriodUnit: "h"},
			want:   "3 times every 4 to 6 hours",
		},
		{
			name:   "frequency max only",
			repeat: fhir.Repeat{FrequencyMax: "4", Period: "1", PeriodUnit: "d"},
			want:   "up to 4 times a day",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := StringifyDosage(fhir.Dosage{Timing: timingRepeat(tc.repeat)})
			if err != nil {
				t.Fatalf("StringifyDosage() error: %v", err)
			}
			if got != tc.want {
				t.Errorf("StringifyDosage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStringifyDosage_PeriodWithoutFrequencyFails(t *testing.T) {
	dosage := fhir.Dosage{
		Timing: timingRepeat(fhir.Repeat{Period: "8", PeriodUnit: "h"}),
	}

	_, err := StringifyDosage(dosage)
	if err == nil {
		t.Fatal("StringifyDosage() expected error for period without frequency")
	}
	if want := "Period or periodMax specified without a frequency and period is not 1."; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestStringifyDosage_OffsetAndWhen(t *testing.T) {
	cases := []struct {
		name   string
		repeat fhir.Repeat
		want   string
	}{
		{
			name:   "minutes",
			repeat: fhir.Repeat{Offset: "30", When: []string{"AC"}},
			want:   "30 minutes before a meal",
		},
		{
			name:   "whole hours",
			repeat: fhir.Repeat{Offset: "120", When: []string{"CM"}},
			want:   "2 hours at breakfast",
		},
		{
			name:   "whole days",
			repeat: fhir.Repeat{Offset: "2880", When: []string{"HS"}},
			want:   "2 days before sleep",
		},
		{
			name:   "multiple timing events",
			repeat: fhir.Repeat{When: []string{"MORN", "NOON", "HS"}},
			want:   "during the morning, around 12:00pm and before sleep",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := StringifyDosage(fhir.Dosage{Timing: timingRepeat(tc.repeat)})
			if err != nil {
				t.Fatalf("StringifyDosage() error: %v", err)
			}
			if got != tc.want {
				t.Errorf("StringifyDosage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStringifyDosage_DayOfWeekAndTimeOfDay(t *testing.T) {
	dosage := fhir.Dosage{
		Timing: timingRepeat(fhir.Repeat{
			DayOfWeek: []string{"mon", "wed", "fri"},
			TimeOfDay: []string{"08:00:00", "20:30:00"},
		}),
	}

	got, err := StringifyDosage(dosage)
	if err != nil {
		t.Fatalf("StringifyDosage() error: %v", err)
	}
	if want := "on Monday, Wednesday and Friday at 08:00 and 20:30"; got != want {
		t.Errorf("StringifyDosage() = %q, want %q", got, want)
	}
}

func TestStringifyDosage_TimeOfDayKeepsNonZeroSeconds(t *testing.T) {
	dosage := fhir.Dosage{
		Timing: timingRepeat(fhir.Repeat{TimeOfDay: []string{"08:15:30"}}),
	}

	got, err := StringifyDosage(dosage)
	if err != nil {
		t.Fatalf("StringifyDosage() error: %v", err)
	}
	if want := "at 08:15:30"; got != want {
		t.Errorf("StringifyDosage() = %q, want %q", got, want)
	}
}

func TestStringifyDosage_InvalidTimeOfDay(t *testing.T) {
	dosage := fhir.Dosage{
		Timing: timingRepeat(fhir.Repeat{TimeOfDay: []string{"late"}}),
	}

	_, err := StringifyDosage(dosage)
	if err == nil {
		t.Fatal("StringifyDosage() expected error for invalid time of day")
	}
	if want := "Invalid time of day late"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestStringifyDosage_AsNeeded(t *testing.T) {
	asNeeded := true
	dosage := fhir.Dosage{AsNeededBoolean: &asNeeded}

	got, err := StringifyDosage(dosage)
	if err != nil {
		t.Fatalf("StringifyDosage() error: %v", err)
	}
	if want := "as required"; got != want {
		t.Errorf("StringifyDosage() = %q, want %q", got, want)
	}
}

func TestStringifyDosage_AsNeededForConditions(t *testing.T) {
	dosage := fhir.Dosage{
		AsNeededCodeableConcept: &fhir.CodeableConcept{Coding: []fhir.Coding{
			{Display: "pain"},
			{Display: "fever"},
		}},
	}

	got, err := StringifyDosage(dosage)
	if err != nil {
		t.Fatalf("StringifyDosage() error: %v", err)
	}
	if want := "as required for pain and fever"; got != want {
		t.Errorf("StringifyDosage() = %q, want %q", got, want)
	}
}

func TestStringifyDosage_AsNeededWithoutCodingFails(t *testing.T) {
	dosage := fhir.Dosage{AsNeededCodeableConcept: &fhir.CodeableConcept{}}

	_, err := StringifyDosage(dosage)
	if err == nil {
		t.Fatal("StringifyDosage() expected error for empty asNeededCodeableConcept")
	}
	if want := "No entries in asNeededCodeableConcept."; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestStringifyDosage_Bounds(t *testing.T) {
	cases := []struct {
		name   string
		repeat fhir.Repeat
		want   string
	}{
		{
			name: "bounds duration",
			repeat: fhir.Repeat{BoundsDuration: &fhir.Duration{
				Value: "2", Unit: "week",
			}},
			want: "for 2 weeks",
		},
		{
			name: "bounds period start and end",
			repeat: fhir.Repeat{BoundsPeriod: &fhir.Period{
				Start: "2022-04-21", End: "2022-05-21",
			}},
			want: "from 21/04/2022 to 21/05/2022",
		},
		{
			name:   "bounds period start only",
			repeat: fhir.Repeat{BoundsPeriod: &fhir.Period{Start: "2022-04-21"}},
			want:   "from 21/04/2022",
		},
		{
			name:   "bounds period end only",
			repeat: fhir.Repeat{BoundsPeriod: &fhir.Period{End: "2022-05-21"}},
			want:   "until 21/05/2022",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := StringifyDosage(fhir.Dosage{Timing: timingRepeat(tc.repeat)})
			if err != nil {
				t.Fatalf("StringifyDosage() error: %v", err)
			}
			if got != tc.want {
				t.Errorf("StringifyDosage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStringifyDosage_Count(t *testing.T) {
	cases := []struct {
		name   string
		repeat fhir.Repeat
		want   string
	}{
		{name: "take once", repeat: fhir.Repeat{Count: "1"}, want: "take once"},
		{name: "take twice", repeat: fhir.Repeat{Count: "2"}, want: "take twice"},
		{name: "take n times", repeat: fhir.Repeat{Count: "3"}, want: "take 3 times"},
		{name: "take range", repeat: fhir.Repeat{Count: "3", CountMax: "5"}, want: "take 3 to 5 times"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := StringifyDosage(fhir.Dosage{Timing: timingRepeat(tc.repeat)})
			if err != nil {
				t.Fatalf("StringifyDosage() error: %v", err)
			}
			if got != tc.want {
				t.Errorf("StringifyDosage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStringifyDosage_MaxDoses(t *testing.T) {
	dosage := fhir.Dosage{
		MaxDosePerPeriod: &fhir.Ratio{
			Numerator:   simpleQuantity("4", "gram"),
			Denominator: simpleQuantity("24", "hour"),
		},
		MaxDosePerAdministration: simpleQuantity("1", "gram"),
		MaxDosePerLifetime:       simpleQuantity("100", "gram"),
	}

	got, err := StringifyDosage(dosage)
	if err != nil {
		t.Fatalf("StringifyDosage() error: %v", err)
	}
	want := "up to a maximum of 4 gram in 24 hours" +
		" up to a maximum of 1 gram per dose" +
		" up to a maximum of 100 gram for the lifetime of the patient"
	if got != want {
		t.Errorf("StringifyDosage() = %q, want %q", got, want)
	}
}

func TestStringifyDosage_CombinedFragments(t *testing.T) {
	dosage := fhir.Dosage{
		Method: &fhir.CodeableConcept{Coding: []fhir.Coding{{Display: "Inhale"}}},
		DoseAndRate: []fhir.DoseAndRate{
			{DoseQuantity: simpleQuantity("2", "puff")},
		},
		Timing: timingRepeat(fhir.Repeat{
			Frequency: "1", Period: "1", PeriodUnit: "d",
		}),
		Route:              &fhir.CodeableConcept{Coding: []fhir.Coding{{Display: "inhalation"}}},
		PatientInstruction: "Rinse mouth after use",
	}

	got, err := StringifyDosage(dosage)
	if err != nil {
		t.Fatalf("StringifyDosage() error: %v", err)
	}
	if want := "Inhale 2 puff once a day inhalation Rinse mouth after use"; got != want {
		t.Errorf("StringifyDosage() = %q, want %q", got, want)
	}
}

func TestStringifyDosage_MissingQuantityValueFails(t *testing.T) {
	dosage := fhir.Dosage{
		DoseAndRate: []fhir.DoseAndRate{{DoseQuantity: &fhir.Quantity{Unit: "milligram"}}},
	}

	_, err := StringifyDosage(dosage)
	if err == nil {
		t.Fatal("StringifyDosage() expected error for dose quantity without value")
	}
	if want := "Null or undefined dosage element - required field not populated."; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestStringifyDosage_UnhandledUnitOfTimeFails(t *testing.T) {
	dosage := fhir.Dosage{
		Timing: timingRepeat(fhir.Repeat{Frequency: "3", Period: "2", PeriodUnit: "fortnight"}),
	}

	_, err := StringifyDosage(dosage)
	if err == nil {
		t.Fatal("StringifyDosage() expected error for unhandled unit of time")
	}
	if want := "Unhandled unit of time fortnight"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestStringifyDosage_Deterministic(t *testing.T) {
	dosage := fhir.Dosage{
		DoseAndRate: []fhir.DoseAndRate{{DoseQuantity: simpleQuantity("10", "milligram")}},
		Timing: timingRepeat(fhir.Repeat{
			Frequency: "2", Period: "8", PeriodUnit: "h",
			When: []string{"MORN", "EVE"},
		}),
	}

	first, err := StringifyDosage(dosage)
	if err != nil {
		t.Fatalf("StringifyDosage() error: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := StringifyDosage(dosage)
		if err != nil {
			t.Fatalf("StringifyDosage() error on run %d: %v", i, err)
		}
		if got != first {
			t.Fatalf("StringifyDosage() run %d = %q, first run = %q", i, got, first)
		}
	}
}

func TestStringifyDosages_Empty(t *testing.T) {
	got, err := StringifyDosages(nil)
	if err != nil {
		t.Fatalf("StringifyDosages() error: %v", err)
	}
	if got != "" {
		t.Errorf("StringifyDosages() = %q, want empty string", got)
	}
}

func TestStringifyDosages_Sequenced(t *testing.T) {
	dosages := []fhir.Dosage{
		{
			Sequence:    "2",
			DoseAndRate: []fhir.DoseAndRate{{DoseQuantity: simpleQuantity("5", "milligram")}},
		},
		{
			Sequence:    "1",
			DoseAndRate: []fhir.DoseAndRate{{DoseQuantity: simpleQuantity("10", "milligram")}},
		},
		{
			Sequence:    "1",
			DoseAndRate: []fhir.DoseAndRate{{DoseQuantity: simpleQuantity("20", "millilitre")}},
		},
	}

	got, err := StringifyDosages(dosages)
	if err != nil {
		t.Fatalf("StringifyDosages() error: %v", err)
	}
	if want := "10 milligram, and 20 millilitre, then 5 milligram"; got != want {
		t.Errorf("StringifyDosages() = %q, want %q", got, want)
	}
}

func TestStringifyDosages_MissingSequenceFails(t *testing.T) {
	dosages := []fhir.Dosage{
		{Sequence: "1", DoseAndRate: []fhir.DoseAndRate{{DoseQuantity: simpleQuantity("10", "milligram")}}},
		{DoseAndRate: []fhir.DoseAndRate{{DoseQuantity: simpleQuantity("5", "milligram")}}},
	}

	_, err := StringifyDosages(dosages)
	if err == nil {
		t.Fatal("StringifyDosages() expected error when sequence missing")
	}
	if want := "Multiple dosage instructions but sequence not specified"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestInstruction_Single(t *testing.T) {
	got, err := Instruction([]fhir.Dosage{{Text: "Test instruction"}})
	if err != nil {
		t.Fatalf("Instruction() error: %v", err)
	}
	if want := "Test instruction"; got != want {
		t.Errorf("Instruction() = %q, want %q", got, want)
	}
}

func TestInstruction_Sequenced(t *testing.T) {
	tests := []struct {
		name    string
		dosages []fhir.Dosage
		want    string
	}{
		{
			name: "concurrent",
			dosages: []fhir.Dosage{
				{Text: "Test instruction 1", Sequence: "0"},
				{Text: "Test instruction 2", Sequence: "0"},
			},
			want: "Test instruction 1, and Test instruction 2",
		},
		{
			name: "consecutive",
			dosages: []fhir.Dosage{
				{Text: "Test instruction 1", Sequence: "0"},
				{Text: "Test instruction 2", Sequence: "1"},
			},
			want: "Test instruction 1, then Test instruction 2",
		},
		{
			name: "out of order",
			dosages: []fhir.Dosage{
				{Text: "Test instruction 1", Sequence: "0"},
				{Text: "Test instruction 3", Sequence: "1"},
				{Text: "Test instruction 4", Sequence: "1"},
				{Text: "Test instruction 2", Sequence: "0"},
			},
			want: "Test instruction 1, and Test instruction 2, then Test instruction 3, and Test instruction 4",
		},
		{
			name: "discontinuous sequence numbers",
			dosages: []fhir.Dosage{
				{Text: "Test instruction 1", Sequence: "0"},
				{Text: "Test instruction 2", Sequence: "0"},
				{Text: "Test instruction 3", Sequence: "2"},
				{Text: "Test instruction 4", Sequence: "2"},
			},
			want: "Test instruction 1, and Test instruction 2, then Test instruction 3, and Test instruction 4",
		},
		{
			name: "missing text renders empty",
			dosages: []fhir.Dosage{
				{Text: "Test instruction 1", Sequence: "0"},
				{Sequence: "0"},
				{Sequence: "1"},
				{Text: "Test instruction 4", Sequence: "1"},
			},
			want: "Test instruction 1, and , then , and Test instruction 4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Instruction(tt.dosages)
			if err != nil {
				t.Fatalf("Instruction() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Instruction() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInstruction_IncompleteSequencingFails(t *testing.T) {
	dosages := []fhir.Dosage{
		{Text: "Test instruction 1", Sequence: "0"},
		{Text: "Test instruction 2"},
	}

	_, err := Instruction(dosages)
	if err == nil {
		t.Fatal("Instruction() expected error when sequencing incomplete")
	}
	if want := "Dosage instructions lacking complete sequencing"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestInstruction_EmptyFails(t *testing.T) {
	_, err := Instruction(nil)
	if err == nil {
		t.Fatal("Instruction() expected error for no dosage instructions")
	}
	if want := "Dosage instructions not provided"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}
