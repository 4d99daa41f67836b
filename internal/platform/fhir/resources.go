package fhir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message event codings understood by the service.
const (
	EventPrescriptionOrder       = "prescription-order"
	EventPrescriptionOrderUpdate = "prescription-order-update"
	EventDispenseNotification    = "dispense-notification"
)

const (
	RFC4122System   = "https://tools.ietf.org/html/rfc4122"
	SnomedSystem    = "http://snomed.info/sct"
	NHSNumberSystem = "https://fhir.nhs.uk/Id/nhs-number"
	OdsOrgSystem    = "https://fhir.nhs.uk/Id/ods-organization-code"
)

type Bundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id,omitempty"`
	Identifier   *Identifier   `json:"identifier,omitempty"`
	Type         string        `json:"type,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

type BundleEntry struct {
	FullURL  string `json:"fullUrl,omitempty"`
	Resource any    `json:"resource,omitempty"`
}

func (e *BundleEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		FullURL  string          `json:"fullUrl"`
		Resource json.RawMessage `json:"resource"`
	}
	if err := unmarshalNumeric(data, &raw); err != nil {
		return err
	}
	e.FullURL = raw.FullURL
	if len(raw.Resource) == 0 {
		return nil
	}
	resource, err := UnmarshalResource(raw.Resource)
	if err != nil {
		return err
	}
	e.Resource = resource
	return nil
}

type MessageHeader struct {
	ResourceType string                 `json:"resourceType"`
	ID           string                 `json:"id,omitempty"`
	EventCoding  *Coding                `json:"eventCoding,omitempty"`
	Destination  []MessageDestination   `json:"destination,omitempty"`
	Sender       *Reference             `json:"sender,omitempty"`
	Source       *MessageSource         `json:"source,omitempty"`
	Focus        []Reference            `json:"focus,omitempty"`
	Extension    []Extension            `json:"extension,omitempty"`
	Response     *MessageHeaderResponse `json:"response,omitempty"`
}

type MessageHeaderResponse struct {
	Identifier string `json:"identifier,omitempty"`
	Code       string `json:"code,omitempty"`
}

type MessageDestination struct {
	Endpoint string     `json:"endpoint,omitempty"`
	Receiver *Reference `json:"receiver,omitempty"`
}

type MessageSource struct {
	Name     string `json:"name,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

type MedicationRequest struct {
	ResourceType              string            `json:"resourceType"`
	ID                        string            `json:"id,omitempty"`
	Extension                 []Extension       `json:"extension,omitempty"`
	Identifier                []Identifier      `json:"identifier,omitempty"`
	Status                    string            `json:"status,omitempty"`
	StatusReason              *CodeableConcept  `json:"statusReason,omitempty"`
	Intent                    string            `json:"intent,omitempty"`
	Category                  []CodeableConcept `json:"category,omitempty"`
	MedicationCodeableConcept *CodeableConcept  `json:"medicationCodeableConcept,omitempty"`
	MedicationReference       *Reference        `json:"medicationReference,omitempty"`
	Subject                   *Reference        `json:"subject,omitempty"`
	AuthoredOn                string            `json:"authoredOn,omitempty"`
	Requester                 *Reference        `json:"requester,omitempty"`
	GroupIdentifier           *Identifier       `json:"groupIdentifier,omitempty"`
	CourseOfTherapyType       *CodeableConcept  `json:"courseOfTherapyType,omitempty"`
	Note                      []Annotation      `json:"note,omitempty"`
	DosageInstruction         []Dosage          `json:"dosageInstruction,omitempty"`
	DispenseRequest           *DispenseRequest  `json:"dispenseRequest,omitempty"`
	BasedOn                   []Reference       `json:"basedOn,omitempty"`
}

type Annotation struct {
	Text string `json:"text,omitempty"`
}

// CommunicationRequest carries patient-facing information for the
// prescription: free-text notes and references to repeat medication lists.
type CommunicationRequest struct {
	ResourceType string                        `json:"resourceType"`
	ID           string                        `json:"id,omitempty"`
	Status       string                        `json:"status,omitempty"`
	Subject      *Reference                    `json:"subject,omitempty"`
	Payload      []CommunicationRequestPayload `json:"payload,omitempty"`
}

type CommunicationRequestPayload struct {
	ContentString    string     `json:"contentString,omitempty"`
	ContentReference *Reference `json:"contentReference,omitempty"`
}

type List struct {
	ResourceType string      `json:"resourceType"`
	ID           string      `json:"id,omitempty"`
	Status       string      `json:"status,omitempty"`
	Entry        []ListEntry `json:"entry,omitempty"`
}

type ListEntry struct {
	Item *Reference `json:"item,omitempty"`
}

type DispenseRequest struct {
	Extension              []Extension `json:"extension,omitempty"`
	ValidityPeriod         *Period     `json:"validityPeriod,omitempty"`
	ExpectedSupplyDuration *Duration   `json:"expectedSupplyDuration,omitempty"`
	NumberOfRepeatsAllowed json.Number `json:"numberOfRepeatsAllowed,omitempty"`
	Quantity               *Quantity   `json:"quantity,omitempty"`
	Performer              *Reference  `json:"performer,omitempty"`
}

type MedicationDispense struct {
	ResourceType                string              `json:"resourceType"`
	ID                          string              `json:"id,omitempty"`
	Extension                   []Extension         `json:"extension,omitempty"`
	Contained                   []any               `json:"-"`
	Identifier                  []Identifier        `json:"identifier,omitempty"`
	Status                      string              `json:"status,omitempty"`
	StatusReasonCodeableConcept *CodeableConcept    `json:"statusReasonCodeableConcept,omitempty"`
	MedicationCodeableConcept   *CodeableConcept    `json:"medicationCodeableConcept,omitempty"`
	MedicationReference         *Reference          `json:"medicationReference,omitempty"`
	Subject                     *Reference          `json:"subject,omitempty"`
	Performer                   []DispensePerformer `json:"performer,omitempty"`
	AuthorizingPrescription     []Reference         `json:"authorizingPrescription,omitempty"`
	Type                        *CodeableConcept    `json:"type,omitempty"`
	Quantity                    *Quantity           `json:"quantity,omitempty"`
	DaysSupply                  *Quantity           `json:"daysSupply,omitempty"`
	WhenHandedOver              string              `json:"whenHandedOver,omitempty"`
	DosageInstruction           []Dosage            `json:"dosageInstruction,omitempty"`
}

func (m *MedicationDispense) UnmarshalJSON(data []byte) error {
	type alias MedicationDispense
	var decoded struct {
		alias
		Contained []json.RawMessage `json:"contained"`
	}
	if err := unmarshalNumeric(data, &decoded); err != nil {
		return err
	}
	*m = MedicationDispense(decoded.alias)
	for _, raw := range decoded.Contained {
		resource, err := UnmarshalResource(raw)
		if err != nil {
			return err
		}
		m.Contained = append(m.Contained, resource)
	}
	return nil
}

type DispensePerformer struct {
	Actor *Reference `json:"actor,omitempty"`
}

type Medication struct {
	ResourceType string           `json:"resourceType"`
	ID           string           `json:"id,omitempty"`
	Code         *CodeableConcept `json:"code,omitempty"`
}

type Patient struct {
	ResourceType        string         `json:"resourceType"`
	ID                  string         `json:"id,omitempty"`
	Identifier          []Identifier   `json:"identifier,omitempty"`
	Name                []HumanName    `json:"name,omitempty"`
	Telecom             []ContactPoint `json:"telecom,omitempty"`
	Gender              string         `json:"gender,omitempty"`
	BirthDate           string         `json:"birthDate,omitempty"`
	Address             []Address      `json:"address,omitempty"`
	GeneralPractitioner []Reference    `json:"generalPractitioner,omitempty"`
}

type Practitioner struct {
	ResourceType string         `json:"resourceType"`
	ID           string         `json:"id,omitempty"`
	Identifier   []Identifier   `json:"identifier,omitempty"`
	Name         []HumanName    `json:"name,omitempty"`
	Telecom      []ContactPoint `json:"telecom,omitempty"`
}

type PractitionerRole struct {
	ResourceType      string            `json:"resourceType"`
	ID                string            `json:"id,omitempty"`
	Identifier        []Identifier      `json:"identifier,omitempty"`
	Practitioner      *Reference        `json:"practitioner,omitempty"`
	Organization      *Reference        `json:"organization,omitempty"`
	Code              []CodeableConcept `json:"code,omitempty"`
	HealthcareService []Reference       `json:"healthcareService,omitempty"`
	Location          []Reference       `json:"location,omitempty"`
	Telecom           []ContactPoint    `json:"telecom,omitempty"`
}

type Organization struct {
	ResourceType string            `json:"resourceType"`
	ID           string            `json:"id,omitempty"`
	Extension    []Extension       `json:"extension,omitempty"`
	Identifier   []Identifier      `json:"identifier,omitempty"`
	Type         []CodeableConcept `json:"type,omitempty"`
	Name         string            `json:"name,omitempty"`
	Telecom      []ContactPoint    `json:"telecom,omitempty"`
	Address      []Address         `json:"address,omitempty"`
	PartOf       *Reference        `json:"partOf,omitempty"`
}

type HealthcareService struct {
	ResourceType string         `json:"resourceType"`
	ID           string         `json:"id,omitempty"`
	Identifier   []Identifier   `json:"identifier,omitempty"`
	Name         string         `json:"name,omitempty"`
	Location     []Reference    `json:"location,omitempty"`
	Telecom      []ContactPoint `json:"telecom,omitempty"`
}

type Location struct {
	ResourceType string       `json:"resourceType"`
	ID           string       `json:"id,omitempty"`
	Identifier   []Identifier `json:"identifier,omitempty"`
	Address      *Address     `json:"address,omitempty"`
}

type Provenance struct {
	ResourceType string            `json:"resourceType"`
	ID           string            `json:"id,omitempty"`
	Target       []Reference       `json:"target,omitempty"`
	Recorded     string            `json:"recorded,omitempty"`
	Agent        []ProvenanceAgent `json:"agent,omitempty"`
	Signature    []Signature       `json:"signature,omitempty"`
}

type ProvenanceAgent struct {
	Who *Reference `json:"who,omitempty"`
}

type Task struct {
	ResourceType    string           `json:"resourceType"`
	ID              string           `json:"id,omitempty"`
	Extension       []Extension      `json:"extension,omitempty"`
	Contained       []any            `json:"-"`
	Identifier      []Identifier     `json:"identifier,omitempty"`
	GroupIdentifier *Identifier      `json:"groupIdentifier,omitempty"`
	Status          string           `json:"status,omitempty"`
	StatusReason    *CodeableConcept `json:"statusReason,omitempty"`
	Intent          string           `json:"intent,omitempty"`
	Code            *CodeableConcept `json:"code,omitempty"`
	Focus           *Reference       `json:"focus,omitempty"`
	For             *Reference       `json:"for,omitempty"`
	AuthoredOn      string           `json:"authoredOn,omitempty"`
	Requester       *Reference       `json:"requester,omitempty"`
	Owner           *Reference       `json:"owner,omitempty"`
	ReasonCode      *CodeableConcept `json:"reasonCode,omitempty"`
}

func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	var decoded struct {
		alias
		Contained []json.RawMessage `json:"contained"`
	}
	if err := unmarshalNumeric(data, &decoded); err != nil {
		return err
	}
	*t = Task(decoded.alias)
	for _, raw := range decoded.Contained {
		resource, err := UnmarshalResource(raw)
		if err != nil {
			return err
		}
		t.Contained = append(t.Contained, resource)
	}
	return nil
}

type Claim struct {
	ResourceType string           `json:"resourceType"`
	ID           string           `json:"id,omitempty"`
	Extension    []Extension      `json:"extension,omitempty"`
	Contained    []any            `json:"-"`
	Identifier   []Identifier     `json:"identifier,omitempty"`
	Status       string           `json:"status,omitempty"`
	Type         *CodeableConcept `json:"type,omitempty"`
	Use          string           `json:"use,omitempty"`
	Patient      *Reference       `json:"patient,omitempty"`
	Created      string           `json:"created,omitempty"`
	Provider     *Reference       `json:"provider,omitempty"`
	Priority     *CodeableConcept `json:"priority,omitempty"`
	Prescription *Reference       `json:"prescription,omitempty"`
	Payee        *ClaimPayee      `json:"payee,omitempty"`
	Insurance    []ClaimInsurance `json:"insurance,omitempty"`
	Item         []ClaimItem      `json:"item,omitempty"`
}

func (c *Claim) UnmarshalJSON(data []byte) error {
	type alias Claim
	var decoded struct {
		alias
		Contained []json.RawMessage `json:"contained"`
	}
	if err := unmarshalNumeric(data, &decoded); err != nil {
		return err
	}
	*c = Claim(decoded.alias)
	for _, raw := range decoded.Contained {
		resource, err := UnmarshalResource(raw)
		if err != nil {
			return err
		}
		c.Contained = append(c.Contained, resource)
	}
	return nil
}

type ClaimPayee struct {
	Type  *CodeableConcept `json:"type,omitempty"`
	Party *Reference       `json:"party,omitempty"`
}

type ClaimInsurance struct {
	Sequence json.Number `json:"sequence,omitempty"`
	Focal    *bool       `json:"focal,omitempty"`
	Coverage *Reference  `json:"coverage,omitempty"`
}

type ClaimItem struct {
	Extension        []Extension       `json:"extension,omitempty"`
	Sequence         json.Number       `json:"sequence,omitempty"`
	ProductOrService *CodeableConcept  `json:"productOrService,omitempty"`
	ProgramCode      []CodeableConcept `json:"programCode,omitempty"`
	Quantity         *Quantity         `json:"quantity,omitempty"`
	Detail           []ClaimItemDetail `json:"detail,omitempty"`
}

type ClaimItemDetail struct {
	Extension        []Extension          `json:"extension,omitempty"`
	Sequence         json.Number          `json:"sequence,omitempty"`
	ProductOrService *CodeableConcept     `json:"productOrService,omitempty"`
	Modifier         []CodeableConcept    `json:"modifier,omitempty"`
	ProgramCode      []CodeableConcept    `json:"programCode,omitempty"`
	Quantity         *Quantity            `json:"quantity,omitempty"`
	SubDetail        []ClaimItemSubDetail `json:"subDetail,omitempty"`
}

type ClaimItemSubDetail struct {
	Sequence         json.Number      `json:"sequence,omitempty"`
	ProductOrService *CodeableConcept `json:"productOrService,omitempty"`
	Quantity         *Quantity        `json:"quantity,omitempty"`
}

type Parameters struct {
	ResourceType string      `json:"resourceType"`
	Parameter    []Parameter `json:"parameter,omitempty"`
}

type Parameter struct {
	Name            string      `json:"name,omitempty"`
	ValueString     string      `json:"valueString,omitempty"`
	ValueIdentifier *Identifier `json:"valueIdentifier,omitempty"`
	ValueCoding     *Coding     `json:"valueCoding,omitempty"`
	Resource        any         `json:"resource,omitempty"`
	Part            []Parameter `json:"part,omitempty"`
}

func (p *Parameter) UnmarshalJSON(data []byte) error {
	type alias Parameter
	var decoded struct {
		alias
		Resource json.RawMessage `json:"resource"`
	}
	if err := unmarshalNumeric(data, &decoded); err != nil {
		return err
	}
	*p = Parameter(decoded.alias)
	if len(decoded.Resource) > 0 {
		resource, err := UnmarshalResource(decoded.Resource)
		if err != nil {
			return err
		}
		p.Resource = resource
	}
	return nil
}

// UnmarshalResource decodes raw JSON into the typed resource matching its
// resourceType. Unrecognized types decode to a generic map so bundles with
// extra resources still parse.
func UnmarshalResource(raw json.RawMessage) (any, error) {
	var probe struct {
		ResourceType string `json:"resourceType"`
	}
	if err := unmarshalNumeric(raw, &probe); err != nil {
		return nil, fmt.Errorf("reading resourceType: %w", err)
	}
	var target any
	switch probe.ResourceType {
	case "Bundle":
		target = &Bundle{}
	case "MessageHeader":
		target = &MessageHeader{}
	case "MedicationRequest":
		target = &MedicationRequest{}
	case "MedicationDispense":
		target = &MedicationDispense{}
	case "Medication":
		target = &Medication{}
	case "CommunicationRequest":
		target = &CommunicationRequest{}
	case "List":
		target = &List{}
	case "Patient":
		target = &Patient{}
	case "Practitioner":
		target = &Practitioner{}
	case "PractitionerRole":
		target = &PractitionerRole{}
	case "Organization":
		target = &Organization{}
	case "HealthcareService":
		target = &HealthcareService{}
	case "Location":
		target = &Location{}
	case "Provenance":
		target = &Provenance{}
	case "Task":
		target = &Task{}
	case "Claim":
		target = &Claim{}
	case "Parameters":
		target = &Parameters{}
	case "OperationOutcome":
		target = &OperationOutcome{}
	default:
		generic := map[string]any{}
		if err := unmarshalNumeric(raw, &generic); err != nil {
			return nil, err
		}
		return generic, nil
	}
	if err := unmarshalNumeric(raw, target); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", probe.ResourceType, err)
	}
	return target, nil
}

// ParseBundle decodes a message bundle preserving numeric precision.
func ParseBundle(data []byte) (*Bundle, error) {
	bundle := &Bundle{}
	if err := unmarshalNumeric(data, bundle); err != nil {
		return nil, err
	}
	if bundle.ResourceType != "Bundle" {
		return nil, NewInvalidValueError(
			fmt.Sprintf("Expected resourceType 'Bundle' but got '%s'.", bundle.ResourceType),
			"resourceType",
		)
	}
	return bundle, nil
}

// ParseTask decodes a Task resource preserving numeric precision.
func ParseTask(data []byte) (*Task, error) {
	task := &Task{}
	if err := unmarshalNumeric(data, task); err != nil {
		return nil, err
	}
	if task.ResourceType != "Task" {
		return nil, NewInvalidValueError(
			fmt.Sprintf("Expected resourceType 'Task' but got '%s'.", task.ResourceType),
			"resourceType",
		)
	}
	return task, nil
}

// ParseMedicationRequest decodes a MedicationRequest preserving numeric
// precision.
func ParseMedicationRequest(data []byte) (*MedicationRequest, error) {
	request := &MedicationRequest{}
	if err := unmarshalNumeric(data, request); err != nil {
		return nil, err
	}
	if request.ResourceType != "MedicationRequest" {
		return nil, NewInvalidValueError(
			fmt.Sprintf("Expected resourceType 'MedicationRequest' but got '%s'.", request.ResourceType),
			"resourceType",
		)
	}
	return request, nil
}

// ParseClaim decodes a Claim resource preserving numeric precision.
func ParseClaim(data []byte) (*Claim, error) {
	claim := &Claim{}
	if err := unmarshalNumeric(data, claim); err != nil {
		return nil, err
	}
	if claim.ResourceType != "Claim" {
		return nil, NewInvalidValueError(
			fmt.Sprintf("Expected resourceType 'Claim' but got '%s'.", claim.ResourceType),
			"resourceType",
		)
	}
	return claim, nil
}

// unmarshalNumeric decodes with json.Number so clinical quantities never
// pass through float64.
func unmarshalNumeric(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
