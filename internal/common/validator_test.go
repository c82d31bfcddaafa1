package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

type sampleRequest struct {
	Filename string `validate:"required"`
}

func TestGenericEchoValidator_Valid(t *testing.T) {
	v := &GenericEchoValidator{}
	if err := v.Validate(&sampleRequest{Filename: "a.png"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestGenericEchoValidator_InvalidReturnsBadRequest(t *testing.T) {
	v := NewGenericEchoValidator()
	err := v.Validate(&sampleRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty filename")
	}
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, httpErr.Code)
	}
}

func TestValidateStruct(t *testing.T) {
	if err := ValidateStruct(sampleRequest{Filename: "x"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ValidateStruct(sampleRequest{}); err == nil {
		t.Fatal("expected error for missing required field")
	}
}
