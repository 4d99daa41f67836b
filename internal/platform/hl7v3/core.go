package hl7v3

// Text is a free-text element.
type Text struct {
	Value string `xml:",chardata"`
}

func NewText(value string) Text {
	return Text{Value: value}
}

// BooleanValue renders as value="true" or value="false".
type BooleanValue struct {
	Value string `xml:"value,attr"`
}

func NewBooleanValue(value bool) BooleanValue {
	if value {
		return BooleanValue{Value: "true"}
	}
	return BooleanValue{Value: "false"}
}

// Null carries a null flavor in place of a value.
type Null struct {
	NullFlavor string `xml:"nullFlavor,attr"`
}

var (
	NullNotApplicable = Null{NullFlavor: "NA"}
	NullUnknown       = Null{NullFlavor: "UNK"}
)

// Timestamp holds an already formatted HL7 date or date-time string.
type Timestamp struct {
	Xmlns string `xml:"xmlns,attr,omitempty"`
	Value string `xml:"value,attr"`
}

func NewTimestamp(value string) Timestamp {
	return Timestamp{Value: value}
}

type NumericValue struct {
	Value string `xml:"value,attr"`
}

func NewNumericValue(value string) NumericValue {
	return NumericValue{Value: value}
}

// Interval is a low/high pair. Either bound may be absent.
type Interval[T any] struct {
	Low  *T `xml:"low,omitempty"`
	High *T `xml:"high,omitempty"`
}

func NewInterval[T any](low, high T) Interval[T] {
	return Interval[T]{Low: &low, High: &high}
}

// IntervalUnanchored is a width-only interval, such as an expected use time.
type IntervalUnanchored struct {
	Width ValueAndUnit `xml:"width"`
}

func NewIntervalUnanchored(value, unit string) IntervalUnanchored {
	return IntervalUnanchored{Width: ValueAndUnit{Value: value, Unit: unit}}
}

type ValueAndUnit struct {
	Value string `xml:"value,attr"`
	Unit  string `xml:"unit,attr"`
}

// QuantityTranslation carries the quantity restated in the coded alternative
// unit of measure.
type QuantityTranslation struct {
	Value       string `xml:"value,attr"`
	CodeSystem  string `xml:"codeSystem,attr"`
	Code        string `xml:"code,attr"`
	DisplayName string `xml:"displayName,attr"`
}

// QuantityInAlternativeUnits is a physical quantity converted to the approved
// UCUM representation from a recording in an alternative coded unit. Used for
// medication dose form quantities recorded in dm+d units.
type QuantityInAlternativeUnits struct {
	Value       string              `xml:"value,attr"`
	Unit        string              `xml:"unit,attr"`
	Translation QuantityTranslation `xml:"translation"`
}

func NewQuantityInAlternativeUnits(approvedUnitValue, alternativeUnitValue string, alternativeUnitCode Code) QuantityInAlternativeUnits {
	return QuantityInAlternativeUnits{
		Value: approvedUnitValue,
		Unit:  "1",
		Translation: QuantityTranslation{
			Value:       alternativeUnitValue,
			CodeSystem:  alternativeUnitCode.CodeSystem,
			Code:        alternativeUnitCode.Code,
			DisplayName: alternativeUnitCode.DisplayName,
		},
	}
}
