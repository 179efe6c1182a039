package polish

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateRequiresFields(t *testing.T) {
	err := ResumeFields{Name: "Jane", Education: "BS", Experience: "2y"}.Validate(100)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "skills" || verr.Fields[0].Issue != "required" {
		t.Fatalf("unexpected fields: %+v", verr.Fields)
	}
	if !strings.Contains(verr.Error(), "skills is required") {
		t.Fatalf("unexpected message: %s", verr.Error())
	}
}

func TestValidateLengthBounds(t *testing.T) {
	f := ResumeFields{Name: "Jane", Education: "BS", Experience: strings.Repeat("x", 11), Skills: "Go", Email: strings.Repeat("e", 321)}
	err := f.Validate(10)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected two field errors, got %+v", verr.Fields)
	}
	if verr.Fields[0].Field != "experience" || verr.Fields[0].Issue != "max" || verr.Fields[0].Limit != 10 {
		t.Fatalf("unexpected experience error: %+v", verr.Fields[0])
	}
	if verr.Fields[1].Field != "email" || verr.Fields[1].Limit != maxEmailLength {
		t.Fatalf("unexpected email error: %+v", verr.Fields[1])
	}
}

func TestValidateCountsCharactersNotBytes(t *testing.T) {
	f := ResumeFields{Name: "Zoë Ångström", Education: "é", Experience: "é", Skills: "é"}
	if err := f.Validate(12); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestSanitizedThenValidateRejectsWhitespaceOnly(t *testing.T) {
	f := ResumeFields{Name: "  \x00 ", Education: "BS", Experience: "2y", Skills: "Go"}.Sanitized()
	if err := f.Validate(100); err == nil {
		t.Fatalf("expected whitespace-only name to be rejected")
	}
}
