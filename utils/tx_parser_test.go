package utils

import (
	"testing"
)

const executeResult = `{
	"digest": "3nZbNKtRN6wiCd3ko1Ghjd8tEfgqWwCJaB5mHy7QfWYi",
	"checkpoint": "1024",
	"effects": {
		"status": {"status": "success"},
		"gasUsed": {"computationCost": "1000000", "storageCost": "1976000", "storageRebate": "978120"},
		"transactionDigest": "3nZbNKtRN6wiCd3ko1Ghjd8tEfgqWwCJaB5mHy7QfWYi"
	}
}`

func TestParseTransactionBlock(t *testing.T) {
	parsed, err := ParseTransactionBlock([]byte(executeResult))
	if err != nil {
		t.Fatalf("ParseTransactionBlock() error = %v", err)
	}

	if parsed.Digest != "3nZbNKtRN6wiCd3ko1Ghjd8tEfgqWwCJaB5mHy7QfWYi" {
		t.Errorf("Digest = %s", parsed.Digest)
	}
	if parsed.Status != StatusSuccess {
		t.Errorf("Status = %s, want success", parsed.Status)
	}
	if parsed.Checkpoint != 1024 {
		t.Errorf("Checkpoint = %d, want 1024", parsed.Checkpoint)
	}
	if parsed.GasUsed == nil {
		t.Fatal("GasUsed = nil")
	}
	if got := parsed.GasUsed.NetCost(); got != 1997880 {
		t.Errorf("NetCost() = %d, want 1997880", got)
	}
}

func TestParseTransactionBlock_Invalid(t *testing.T) {
	for _, raw := range []string{``, `[]`, `null`, `"x"`} {
		if _, err := ParseTransactionBlock([]byte(raw)); err == nil {
			t.Errorf("ParseTransactionBlock(%q) expected error", raw)
		}
	}
}

func TestParseSubmitResponse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantDigest string
		wantStatus string
		wantErrors int
		hasErrors  bool
	}{
		{
			name:       "sponsor envelope success",
			raw:        `{"response": ` + executeResult + `, "errors": []}`,
			wantDigest: "3nZbNKtRN6wiCd3ko1Ghjd8tEfgqWwCJaB5mHy7QfWYi",
			wantStatus: StatusSuccess,
		},
		{
			name:       "sponsor envelope with errors",
			raw:        `{"response": {"digest": "abc"}, "errors": ["InsufficientGas"]}`,
			wantDigest: "abc",
			wantErrors: 1,
			hasErrors:  true,
		},
		{
			name:       "failure status without errors array",
			raw:        `{"response": {"digest": "abc", "effects": {"status": {"status": "failure", "error": "MoveAbort"}}}}`,
			wantDigest: "abc",
			wantStatus: StatusFailure,
			wantErrors: 1,
			hasErrors:  true,
		},
		{
			name:       "flat response",
			raw:        `{"digest": "flat", "effects": {"status": {"status": "success"}}}`,
			wantDigest: "flat",
			wantStatus: StatusSuccess,
		},
		{
			name:       "non-string errors",
			raw:        `{"response": {}, "errors": [{"code": 1}]}`,
			wantErrors: 1,
			hasErrors:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseSubmitResponse([]byte(tt.raw))
			if err != nil {
				t.Fatalf("ParseSubmitResponse() error = %v", err)
			}
			if result.Digest != tt.wantDigest {
				t.Errorf("Digest = %q, want %q", result.Digest, tt.wantDigest)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", result.Status, tt.wantStatus)
			}
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("len(Errors) = %d, want %d", len(result.Errors), tt.wantErrors)
			}
			if result.HasErrors() != tt.hasErrors {
				t.Errorf("HasErrors() = %v, want %v", result.HasErrors(), tt.hasErrors)
			}
			if string(result.Raw) != tt.raw {
				t.Error("Raw should keep the acknowledgment verbatim")
			}
		})
	}
}

func TestParseSubmitResponse_Invalid(t *testing.T) {
	if _, err := ParseSubmitResponse([]byte(`not json`)); err == nil {
		t.Error("expected error for non-json body")
	}
}
