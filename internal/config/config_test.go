package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("SPINE_BASE_URL")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("expected default port 9000, got %s", cfg.Port)
	}

	if !cfg.SandboxMode {
		t.Error("expected sandbox mode by default")
	}

	if cfg.SenderASID != "200000001285" {
		t.Errorf("expected default sender ASID, got %s", cfg.SenderASID)
	}
}

func TestLoad_WithSpineBaseURL(t *testing.T) {
	os.Setenv("SPINE_BASE_URL", "https://msg.int.spine2.ncrs.nhs.uk")
	os.Setenv("SANDBOX_MODE", "false")
	defer os.Unsetenv("SPINE_BASE_URL")
	defer os.Unsetenv("SANDBOX_MODE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SpineBaseURL != "https://msg.int.spine2.ncrs.nhs.uk" {
		t.Errorf("expected SPINE_BASE_URL to be set, got %s", cfg.SpineBaseURL)
	}

	if cfg.SandboxMode {
		t.Error("expected sandbox mode off")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		SandboxMode:      true,
		SenderASID:       "200000001285",
		ReceiverASID:     "567456789789",
		SenderPartyKey:   "T141D-822234",
		ReceiverPartyKey: "T100000009",
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error for valid config: %v", err)
	}

	missingURL := valid
	missingURL.SandboxMode = false
	if err := missingURL.Validate(); err == nil {
		t.Error("expected error when SPINE_BASE_URL is missing outside sandbox mode")
	}

	badASID := valid
	badASID.SenderASID = "not-an-asid"
	if err := badASID.Validate(); err == nil {
		t.Error("expected error for malformed sender ASID")
	}

	missingPartyKey := valid
	missingPartyKey.SenderPartyKey = ""
	if err := missingPartyKey.Validate(); err == nil {
		t.Error("expected error when sender party key is missing")
	}
}
