package inputval

import (
	"strings"
	"testing"
)

type hoursInput struct {
	Name  string `validate:"required,max=200" label:"Name" json:"name"`
	Date  string `validate:"required,reportdate" label:"Date" json:"date"`
	Hours string `validate:"required,money" label:"Hours" json:"hours"`
}

func TestValidateHoursInput(t *testing.T) {
	tests := []struct {
		name    string
		input   hoursInput
		wantErr string // substring of First(); empty means valid
	}{
		{"valid", hoursInput{Name: "Carlos", Date: "25/12/2024", Hours: "8"}, ""},
		{"valid iso date", hoursInput{Name: "Carlos", Date: "2024-12-25", Hours: "7,5"}, ""},
		{"missing name", hoursInput{Date: "25/12/2024", Hours: "8"}, "Name is required"},
		{"bad date", hoursInput{Name: "Carlos", Date: "25/13/2024", Hours: "8"}, "Date must be a date"},
		{"garbage hours", hoursInput{Name: "Carlos", Date: "25/12/2024", Hours: "oito"}, "Hours must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)
			if tt.wantErr == "" {
				if result.HasErrors() {
					t.Fatalf("unexpected errors: %s", result.All())
				}
				return
			}
			if !result.HasErrors() {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(result.First(), tt.wantErr) {
				t.Errorf("First() = %q, want it to contain %q", result.First(), tt.wantErr)
			}
		})
	}
}

func TestValidateRoleRule(t *testing.T) {
	type roleInput struct {
		Role string `validate:"required,role" label:"Role"`
	}
	if result := Validate(roleInput{Role: "admin"}); result.HasErrors() {
		t.Errorf("admin rejected: %s", result.All())
	}
	if result := Validate(roleInput{Role: " Staff "}); result.HasErrors() {
		t.Errorf("role check should trim and fold case: %s", result.All())
	}
	if result := Validate(roleInput{Role: "root"}); !result.HasErrors() {
		t.Error("unknown role accepted")
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ana@example.com", true},
		{" ana@example.com ", true},
		{"Ana Souza <ana@example.com>", false},
		{"ana@", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestIsValidReportDate(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"25/12/2024", true},
		{"2024-12-25", true},
		{"2024-12-25T10:30:00", true},
		{"31/02/2024", false},
		{"tomorrow", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidReportDate(tt.raw); got != tt.want {
			t.Errorf("IsValidReportDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestIsValidAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"8", true},
		{"7,5", true},
		{"R$ 1.234,56", true},
		{"", false},
		{"oito", false},
	}
	for _, tt := range tests {
		if got := IsValidAmount(tt.raw); got != tt.want {
			t.Errorf("IsValidAmount(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestIsValidObjectID(t *testing.T) {
	if !IsValidObjectID("507f1f77bcf86cd799439011") {
		t.Error("valid hex rejected")
	}
	if IsValidObjectID("not-an-id") || IsValidObjectID("") {
		t.Error("invalid id accepted")
	}
}
