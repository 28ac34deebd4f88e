package errors

import (
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid https", "https://api.github.com/graphql", false},
		{"valid http", "http://localhost:8080", false},

		{"empty", "", true},
		{"no scheme", "api.github.com/graphql", true},
		{"ftp scheme", "ftp://example.com", true},
		{"javascript scheme", "javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantErr  bool
		wantCode Code
	}{
		{"valid", "ghp_abc123", false, ""},
		{"empty", "", true, ErrCodeMissingToken},
		{"whitespace only", "   ", true, ErrCodeMissingToken},
		{"embedded space", "ghp abc", true, ErrCodeInvalidInput},
		{"embedded newline", "ghp\nabc", true, ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToken("GITHUB_TOKEN", tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantCode != "" && GetCode(err) != tt.wantCode {
				t.Errorf("code = %v, want %v", GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestValidateRepoKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid", "owner/repo", false},
		{"valid with dots", "owner/repo.name", false},

		{"no slash", "ownerrepo", true},
		{"empty owner", "/repo", true},
		{"empty name", "owner/", true},
		{"quote injection", `owner/re"po`, true},
		{"embedded space", "owner/re po", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepoKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepoKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}
