package spine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLiveClientSubmit(t *testing.T) {
	var gotAction, gotFrom, gotTo, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.Header.Get("SOAPAction")
		gotFrom = r.Header.Get("NHSD-Request-From-ASID")
		gotTo = r.Header.Get("NHSD-Request-To-ASID")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`<acknowledgement typeCode="AA"/>`))
	}))
	defer server.Close()

	client := NewLiveClient(server.URL, "200000001285", "567456789789", zerolog.Nop())
	response, err := client.Submit(context.Background(), "PORX_IN020101SM31", []byte("<payload/>"))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if got, want := response.StatusCode, http.StatusOK; got != want {
		t.Errorf("status = %d, want %d", got, want)
	}
	if response.Pending() {
		t.Error("response should not be pending")
	}
	if got, want := gotAction, "PORX_IN020101SM31"; got != want {
		t.Errorf("SOAPAction = %q, want %q", got, want)
	}
	if got, want := gotFrom, "200000001285"; got != want {
		t.Errorf("from asid = %q, want %q", got, want)
	}
	if got, want := gotTo, "567456789789"; got != want {
		t.Errorf("to asid = %q, want %q", got, want)
	}
	if got, want := gotBody, "<payload/>"; got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
	if !strings.Contains(response.Body, `typeCode="AA"`) {
		t.Errorf("response body = %q, want an acknowledgement", response.Body)
	}
}

func TestLiveClientSubmitAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Location", "/_poll/9AD427AE-8D8D-42A4-A935-2A43E83B3E8A")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewLiveClient(server.URL, "200000001285", "567456789789", zerolog.Nop())
	response, err := client.Submit(context.Background(), "PORX_IN080101SM31", []byte("<payload/>"))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if !response.Pending() {
		t.Fatal("response should be pending")
	}
	if got, want := response.PollingPath, "/_poll/9AD427AE-8D8D-42A4-A935-2A43E83B3E8A"; got != want {
		t.Errorf("polling path = %q, want %q", got, want)
	}
}

func TestLiveClientPoll(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`<acknowledgement typeCode="AA"/>`))
	}))
	defer server.Close()

	client := NewLiveClient(server.URL, "200000001285", "567456789789", zerolog.Nop())
	response, err := client.Poll(context.Background(), "/_poll/9AD427AE-8D8D-42A4-A935-2A43E83B3E8A")
	if err != nil {
		t.Fatalf("Poll() error: %v", err)
	}

	if got, want := gotPath, "/_poll/9AD427AE-8D8D-42A4-A935-2A43E83B3E8A"; got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
	if response.Pending() {
		t.Error("completed poll should not be pending")
	}
}

func TestSandboxClient(t *testing.T) {
	client := NewSandboxClient()

	response, err := client.Submit(context.Background(), "PORX_IN020101SM31", []byte("<payload/>"))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if got, want := response.StatusCode, 200; got != want {
		t.Errorf("status = %d, want %d", got, want)
	}
	if !strings.Contains(response.Body, `typeCode="AA"`) {
		t.Errorf("body = %q, want a success acknowledgement", response.Body)
	}
	if response.Pending() {
		t.Error("sandbox submissions complete synchronously")
	}

	polled, err := client.Poll(context.Background(), "/_poll/anything")
	if err != nil {
		t.Fatalf("Poll() error: %v", err)
	}
	if got, want := polled.StatusCode, 200; got != want {
		t.Errorf("poll status = %d, want %d", got, want)
	}
}
