package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eprescribe/coordinator/internal/config"
	"github.com/eprescribe/coordinator/internal/platform/spine"
)

const returnTaskJSON = `{
  "resourceType": "Task",
  "id": "return-example",
  "contained": [
    {
      "resourceType": "PractitionerRole",
      "id": "performer",
      "identifier": [{"system": "https://fhir.nhs.uk/Id/sds-role-profile-id", "value": "555086415105"}],
      "practitioner": {
        "identifier": {"system": "https://fhir.nhs.uk/Id/sds-user-id", "value": "3415870201"},
        "display": "Mr Peter Potion"
      },
      "organization": {"reference": "#organisation"},
      "code": [{"coding": [{"system": "https://fhir.hl7.org.uk/CodeSystem/UKCore-SDSJobRoleName", "code": "R8000", "display": "Clinical Practitioner Access Role"}]}],
      "telecom": [{"system": "phone", "value": "02380798431", "use": "work"}]
    },
    {
      "resourceType": "Organization",
      "id": "organisation",
      "identifier": [{"system": "https://fhir.nhs.uk/Id/ods-organization-code", "value": "VNE51"}],
      "name": "The Simple Pharmacy",
      "address": [{"line": ["17 Austhorpe Road"], "city": "Leeds", "postalCode": "LS15 8BA"}]
    }
  ],
  "identifier": [{"system": "https://tools.ietf.org/html/rfc4122", "value": "6a2624a2-321b-470e-91a6-8a7d8527dd2c"}],
  "groupIdentifier": {"system": "https://fhir.nhs.uk/Id/prescription-order-number", "value": "88AF6C-C81007-00001C"},
  "status": "rejected",
  "statusReason": {"coding": [{"system": "https://fhir.nhs.uk/CodeSystem/EPS-task-dispense-return-status-reason", "code": "0002", "display": "Unable to dispense medication on prescriptions"}]},
  "intent": "order",
  "focus": {"identifier": {"system": "https://tools.ietf.org/html/rfc4122", "value": "28828c55-8fa7-42d7-916f-fcf076e0c10e"}},
  "for": {"identifier": {"system": "https://fhir.nhs.uk/Id/nhs-number", "value": "9990548609"}},
  "authoredOn": "2026-01-14T11:15:31+00:00",
  "requester": {"reference": "#performer"}
}`

const doseMedicationRequestJSON = `{
  "resourceType": "MedicationRequest",
  "dosageInstruction": [{
    "doseAndRate": [{"doseQuantity": {"value": 10, "unit": "milligram", "system": "http://unitsofmeasure.org", "code": "mg"}}]
  }]
}`

func testConfig() *config.Config {
	return &config.Config{
		Port:             "9000",
		Env:              "development",
		SandboxMode:      true,
		SenderASID:       "200000001285",
		ReceiverASID:     "567456789789",
		SenderPartyKey:   "T141D-822234",
		ReceiverPartyKey: "T100000009",
	}
}

func testServer(client spine.Client) http.Handler {
	return New(testConfig(), zerolog.Nop(), client)
}

// pendingClient reports every submission as accepted but unfinished.
type pendingClient struct{}

func (pendingClient) Submit(context.Context, string, []byte) (spine.Response, error) {
	return spine.Response{
		StatusCode:  http.StatusAccepted,
		PollingPath: "/_poll/9AD427AE-8D8D-42A4-A935-2A43E83B3E8A",
	}, nil
}

func (pendingClient) Poll(context.Context, string) (spine.Response, error) {
	return spine.Response{
		StatusCode:  http.StatusAccepted,
		PollingPath: "/_poll/9AD427AE-8D8D-42A4-A935-2A43E83B3E8A",
	}, nil
}

func TestStatus(t *testing.T) {
	srv := testServer(spine.NewSandboxClient())
	req := httptest.NewRequest(http.MethodGet, "/_status", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusOK; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got, want := body["status"], "pass"; got != want {
		t.Errorf("status field = %q, want %q", got, want)
	}
	if got, want := body["mode"], "sandbox"; got != want {
		t.Errorf("mode field = %q, want %q", got, want)
	}
}

func TestSubmitTask_Sandbox(t *testing.T) {
	srv := testServer(spine.NewSandboxClient())
	req := httptest.NewRequest(http.MethodPost, "/Task", strings.NewReader(returnTaskJSON))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusOK; got != want {
		t.Fatalf("status = %d, want %d: %s", got, want, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `typeCode="AA"`) {
		t.Errorf("body = %q, want a success acknowledgement", rec.Body.String())
	}
}

func TestSubmitTask_ValidationError(t *testing.T) {
	invalid := strings.Replace(returnTaskJSON, `"statusReason"`, `"ignoredReason"`, 1)
	srv := testServer(spine.NewSandboxClient())
	req := httptest.NewRequest(http.MethodPost, "/Task", strings.NewReader(invalid))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusBadRequest; got != want {
		t.Fatalf("status = %d, want %d: %s", got, want, rec.Body.String())
	}
	var outcome struct {
		ResourceType string `json:"resourceType"`
		Issue        []struct {
			Severity    string   `json:"severity"`
			Diagnostics string   `json:"diagnostics"`
			Expression  []string `json:"expression"`
		} `json:"issue"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("unmarshal outcome: %v", err)
	}
	if got, want := outcome.ResourceType, "OperationOutcome"; got != want {
		t.Fatalf("resourceType = %q, want %q", got, want)
	}
	if len(outcome.Issue) != 1 {
		t.Fatalf("issues = %d, want 1", len(outcome.Issue))
	}
	if got, want := outcome.Issue[0].Diagnostics, "Required field missing."; got != want {
		t.Errorf("diagnostics = %q, want %q", got, want)
	}
	if len(outcome.Issue[0].Expression) != 1 || outcome.Issue[0].Expression[0] != "Task.statusReason" {
		t.Errorf("expression = %v, want [Task.statusReason]", outcome.Issue[0].Expression)
	}
}

func TestSubmitTask_Pending(t *testing.T) {
	srv := testServer(pendingClient{})
	req := httptest.NewRequest(http.MethodPost, "/Task", strings.NewReader(returnTaskJSON))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusAccepted; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if got, want := rec.Header().Get("Content-Location"), "/_poll/9AD427AE-8D8D-42A4-A935-2A43E83B3E8A"; got != want {
		t.Errorf("Content-Location = %q, want %q", got, want)
	}
}

func TestConvert_Task(t *testing.T) {
	srv := testServer(spine.NewSandboxClient())
	req := httptest.NewRequest(http.MethodPost, "/$convert", strings.NewReader(returnTaskJSON))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusOK; got != want {
		t.Fatalf("status = %d, want %d: %s", got, want, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, `<PORX_IN100101SM31 xmlns="urn:hl7-org:v3">`) {
		t.Errorf("document should open with the interaction root element, got %q", body[:60])
	}
	if !strings.Contains(body, `<id root="6A2624A2-321B-470E-91A6-8A7D8527DD2C"></id>`) {
		t.Error("document should carry the uppercased return id")
	}
}

func TestConvert_UnsupportedResource(t *testing.T) {
	srv := testServer(spine.NewSandboxClient())
	req := httptest.NewRequest(http.MethodPost, "/$convert", strings.NewReader(`{"resourceType":"Patient"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusBadRequest; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if !strings.Contains(rec.Body.String(), "Unsupported resourceType 'Patient'.") {
		t.Errorf("body = %q, want an unsupported resource diagnostics", rec.Body.String())
	}
}

func TestDoseToText(t *testing.T) {
	srv := testServer(spine.NewSandboxClient())
	req := httptest.NewRequest(http.MethodPost, "/$dose-to-text", strings.NewReader(doseMedicationRequestJSON))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusOK; got != want {
		t.Fatalf("status = %d, want %d: %s", got, want, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got, want := body["dosageInstructionText"], "10 milligram"; got != want {
		t.Errorf("dosage text = %q, want %q", got, want)
	}
}

func TestPoll_Pending(t *testing.T) {
	srv := testServer(pendingClient{})
	req := httptest.NewRequest(http.MethodGet, "/_poll/9AD427AE-8D8D-42A4-A935-2A43E83B3E8A", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusAccepted; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if got, want := rec.Header().Get("Content-Location"), "/_poll/9AD427AE-8D8D-42A4-A935-2A43E83B3E8A"; got != want {
		t.Errorf("Content-Location = %q, want %q", got, want)
	}
}

func TestPoll_Complete(t *testing.T) {
	srv := testServer(spine.NewSandboxClient())
	req := httptest.NewRequest(http.MethodGet, "/_poll/9AD427AE-8D8D-42A4-A935-2A43E83B3E8A", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusOK; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if !strings.Contains(rec.Body.String(), `typeCode="AA"`) {
		t.Errorf("body = %q, want a success acknowledgement", rec.Body.String())
	}
}
