// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package validation

import (
	"strings"
	"testing"
)

type circleArgs struct {
	Latitude  *float64 `validate:"required,latitude"`
	Longitude *float64 `validate:"required,longitude"`
	Radius    *float64 `validate:"required,gt=0"`
}

type projectArgs struct {
	ProjectID string `validate:"omitempty,geocoreid"`
	BaseURL   string `validate:"required,url"`
}

func ptr(f float64) *float64 { return &f }

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil {
		t.Fatal("GetValidator() returned nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct_Coordinates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       circleArgs
		wantFields []string
	}{
		{
			name: "valid circle",
			args: circleArgs{Latitude: ptr(35.68), Longitude: ptr(139.76), Radius: ptr(500)},
		},
		{
			name:       "missing everything",
			args:       circleArgs{},
			wantFields: []string{"Latitude", "Longitude", "Radius"},
		},
		{
			name:       "latitude out of range",
			args:       circleArgs{Latitude: ptr(91), Longitude: ptr(0), Radius: ptr(1)},
			wantFields: []string{"Latitude"},
		},
		{
			name:       "longitude out of range",
			args:       circleArgs{Latitude: ptr(0), Longitude: ptr(-180.5), Radius: ptr(1)},
			wantFields: []string{"Longitude"},
		},
		{
			name:       "zero radius",
			args:       circleArgs{Latitude: ptr(0), Longitude: ptr(0), Radius: ptr(0)},
			wantFields: []string{"Radius"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.args)
			if len(tt.wantFields) == 0 {
				if verr != nil {
					t.Fatalf("ValidateStruct() unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() expected error, got nil")
			}
			got := strings.Join(verr.Fields(), ",")
			want := strings.Join(tt.wantFields, ",")
			if got != want {
				t.Errorf("failed fields = %s, want %s", got, want)
			}
		})
	}
}

func TestValidateStruct_GeocoreID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id    string
		valid bool
	}{
		{"PRO-TEST-1", true},
		{"PLA-TEST-42", true},
		{"", true},
		{"pro-test", false},
		{"PROTEST", false},
		{"PRO-", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&projectArgs{ProjectID: tt.id, BaseURL: "https://api.example.com"})
			if tt.valid && verr != nil {
				t.Errorf("id %q: unexpected error %v", tt.id, verr)
			}
			if !tt.valid && verr == nil {
				t.Errorf("id %q: expected error", tt.id)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&circleArgs{Latitude: ptr(100), Longitude: ptr(0), Radius: ptr(-1)})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	msg := verr.Error()
	if !strings.Contains(msg, "Latitude must be a valid latitude (-90 to 90)") {
		t.Errorf("missing latitude message in %q", msg)
	}
	if !strings.Contains(msg, "Radius must be greater than 0") {
		t.Errorf("missing radius message in %q", msg)
	}

	errs := verr.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[1].Tag() != "gt" || errs[1].Param() != "0" {
		t.Errorf("radius error tag/param = %s/%s, want gt/0", errs[1].Tag(), errs[1].Param())
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	t.Parallel()

	verr := &RequestValidationError{}
	if verr.Error() != "validation failed" {
		t.Errorf("Error() = %q, want %q", verr.Error(), "validation failed")
	}
}
