package device

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "render-01", false},
		{"with spaces inside", "Render Box 01", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"leading space", " render", true},
		{"newline", "render\n01", true},
		{"too long", strings.Repeat("a", maxNameLength+1), true},
		{"max length", strings.Repeat("a", maxNameLength), false},
		{"trailing backslash", `share\`, false},
		{"inner quotes", `say "hi"`, false},
		{"comment characters", "render#01;b", false},
		{"wrapped in double quotes", `"quoted"`, true},
		{"wrapped in single quotes", `'quoted'`, true},
		{"triple quote", `"""`, true},
		{"triple quote prefix", `"""render`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidName) {
				t.Errorf("error %v does not wrap ErrInvalidName", err)
			}
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	if err := ValidateCredentials("builder", ""); err != nil {
		t.Errorf("username without password error = %v", err)
	}
	if err := ValidateCredentials("", ""); err != nil {
		t.Errorf("empty credentials error = %v", err)
	}
	if err := ValidateCredentials("builder", "se\rcret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("line break error = %v, want ErrInvalidCredentials", err)
	}

	for _, tt := range []struct{ user, pass string }{
		{`"admin"`, "secret"},
		{"builder", `"""`},
		{"builder", ` "x`},
	} {
		if err := ValidateCredentials(tt.user, tt.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("ValidateCredentials(%q, %q) = %v, want ErrInvalidCredentials", tt.user, tt.pass, err)
		}
	}
	if err := ValidateCredentials(`domain\`, " spaced "); err != nil {
		t.Errorf("storable credentials error = %v", err)
	}
}

func TestValidateDisplayName(t *testing.T) {
	if err := ValidateDisplayName(""); err != nil {
		t.Errorf("empty display name error = %v", err)
	}
	if err := ValidateDisplayName("Render Box"); err != nil {
		t.Errorf("ValidateDisplayName() error = %v", err)
	}
	if err := ValidateDisplayName(`"Render"`); !errors.Is(err, ErrInvalidName) {
		t.Errorf("quoted display name error = %v, want ErrInvalidName", err)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input   string
		want    ID
		wantErr bool
	}{
		{"LinuxNoEditor@render-01", ID{Platform: "LinuxNoEditor", Name: "render-01"}, false},
		{"Linux@user@host", ID{Platform: "Linux", Name: "user@host"}, false},
		{"render-01", ID{}, true},
		{"@render-01", ID{}, true},
		{"Linux@", ID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !tt.wantErr && got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}
