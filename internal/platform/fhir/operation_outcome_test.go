package fhir

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewOperationOutcome(t *testing.T) {
	outcome := NewOperationOutcome(IssueSeverityError, IssueTypeValue, "Invalid NHS number.")

	if got, want := outcome.ResourceType, "OperationOutcome"; got != want {
		t.Errorf("ResourceType = %q, want %q", got, want)
	}
	if got, want := len(outcome.Issue), 1; got != want {
		t.Fatalf("len(Issue) = %d, want %d", got, want)
	}
	issue := outcome.Issue[0]
	if got, want := issue.Severity, IssueSeverityError; got != want {
		t.Errorf("Severity = %q, want %q", got, want)
	}
	if got, want := issue.Code, IssueTypeValue; got != want {
		t.Errorf("Code = %q, want %q", got, want)
	}
	if got, want := issue.Diagnostics, "Invalid NHS number."; got != want {
		t.Errorf("Diagnostics = %q, want %q", got, want)
	}
}

func TestOutcomeBuilderAccumulatesIssues(t *testing.T) {
	outcome := NewOutcomeBuilder().
		AddIssue(IssueSeverityWarning, IssueTypeProcessing, "Dosage text was generated.").
		AddIssueWithLocation(IssueSeverityError, IssueTypeRequired, "Required field missing.", "Task.statusReason").
		Build()

	if got, want := len(outcome.Issue), 2; got != want {
		t.Fatalf("len(Issue) = %d, want %d", got, want)
	}
	if got, want := outcome.Issue[0].Severity, IssueSeverityWarning; got != want {
		t.Errorf("Issue[0].Severity = %q, want %q", got, want)
	}
	if outcome.Issue[0].Expression != nil {
		t.Errorf("Issue[0].Expression = %v, want nil", outcome.Issue[0].Expression)
	}
	if got, want := len(outcome.Issue[1].Expression), 1; got != want {
		t.Fatalf("len(Issue[1].Expression) = %d, want %d", got, want)
	}
	if got, want := outcome.Issue[1].Expression[0], "Task.statusReason"; got != want {
		t.Errorf("Issue[1].Expression[0] = %q, want %q", got, want)
	}
}

func TestOperationOutcomeHasErrors(t *testing.T) {
	tests := []struct {
		name     string
		severity string
		want     bool
	}{
		{"fatal", IssueSeverityFatal, true},
		{"error", IssueSeverityError, true},
		{"warning", IssueSeverityWarning, false},
		{"information", IssueSeverityInformation, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := NewOperationOutcome(tt.severity, IssueTypeProcessing, "message")
			if got := outcome.HasErrors(); got != tt.want {
				t.Errorf("HasErrors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuccessOutcome(t *testing.T) {
	outcome := SuccessOutcome("Message accepted.")

	if outcome.HasErrors() {
		t.Error("HasErrors() = true, want false")
	}
	if got, want := outcome.Issue[0].Severity, IssueSeverityInformation; got != want {
		t.Errorf("Severity = %q, want %q", got, want)
	}
}

func TestInternalErrorOutcome(t *testing.T) {
	outcome := InternalErrorOutcome("unexpected failure")

	if got, want := outcome.Issue[0].Severity, IssueSeverityFatal; got != want {
		t.Errorf("Severity = %q, want %q", got, want)
	}
	if got, want := outcome.Issue[0].Code, IssueTypeException; got != want {
		t.Errorf("Code = %q, want %q", got, want)
	}
}

func TestNotSupportedOutcome(t *testing.T) {
	outcome := NotSupportedOutcome("Unsupported message type 'unknown'.")

	if got, want := outcome.Issue[0].Code, IssueTypeNotSupported; got != want {
		t.Errorf("Code = %q, want %q", got, want)
	}
	if !outcome.HasErrors() {
		t.Error("HasErrors() = false, want true")
	}
}

func TestOperationOutcomeJSONShape(t *testing.T) {
	outcome := NewOutcomeBuilder().
		AddIssueWithLocation(IssueSeverityError, IssueTypeValue, "Invalid value.", "MedicationRequest.status").
		Build()

	raw, err := json.Marshal(outcome)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	body := string(raw)
	for _, fragment := range []string{
		`"resourceType":"OperationOutcome"`,
		`"severity":"error"`,
		`"code":"value"`,
		`"diagnostics":"Invalid value."`,
		`"expression":["MedicationRequest.status"]`,
	} {
		if !strings.Contains(body, fragment) {
			t.Errorf("Marshal() = %s, missing %s", body, fragment)
		}
	}
	if strings.Contains(body, `"details"`) {
		t.Errorf("Marshal() = %s, details should be omitted when empty", body)
	}
}
