package validator

import (
	"errors"
	"testing"

	"location_picker/platform/apperr"
)

type sample struct {
	Name string  `json:"name" validate:"notblank"`
	Lat  float64 `json:"lat" validate:"latitude"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := New()

	if err := v.Struct(sample{Name: "Paris", Lat: 48.85}); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}

	err := v.Struct(sample{Name: "   ", Lat: 120})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		t.Fatal("expected *apperr.Error")
	}
	details, ok := domainErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("details = %T", domainErr.Details)
	}
	if details["name"] != "notblank" || details["lat"] != "latitude" {
		t.Errorf("details = %v", details)
	}
}
