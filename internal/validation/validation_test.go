package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name  string `default:"sleeper" validate:"required,max=8"`
	Email string `validate:"omitempty,email"`
	Goal  int    `default:"7" validate:"gte=1,lte=11"`
	Mode  string `default:"week" validate:"oneof=day week month"`
}

func TestSetDefaultsFillsZeroFields(t *testing.T) {
	s := sample{Goal: 9}
	if err := SetDefaults(&s); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if s.Name != "sleeper" || s.Goal != 9 || s.Mode != "week" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if err := Struct(s); err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}
}

func TestStructReportsReadableErrors(t *testing.T) {
	s := sample{Name: "someone-long", Email: "nope", Goal: 12, Mode: "year"}
	err := Struct(s)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	for _, want := range []string{"must be a valid email", "must be at most 11", "must be one of: day, week, month", "at most 8 characters"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestVar(t *testing.T) {
	if err := Var("email", "me@example.com", "email"); err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}
	err := Var("email", "me@", "email")
	if err == nil || !strings.Contains(err.Error(), "email must be a valid email") {
		t.Fatalf("unexpected error: %v", err)
	}
}
