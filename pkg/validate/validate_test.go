package validate_test

import (
	"testing"

	"github.com/Zin-Mg-Nyunt/shopping/pkg/validate"
)

type checkoutInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"required,digits=10"`
	Address  string `json:"address"  validate:"required,max=255"`
	Payment  string `json:"payment"  validate:"required,in=cod,card,paypal"`
	Note     string `json:"note"     validate:"nullable,max=500"`
	Quantity int    `json:"quantity" validate:"required,gte=1,lte=100"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(checkoutInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Phone:    "0912345678",
		Address:  "12 Main Street",
		Payment:  "cod",
		Note:     "", // nullable — allowed to be empty
		Quantity: 2,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(checkoutInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,gte=1,lte=100"`
	}
	if errs := validate.Struct(in{Quantity: 101}); !validate.HasErrors(errs) {
		t.Error("expected quantity > 100 to fail")
	}
	if errs := validate.Struct(in{Quantity: 5}); validate.HasErrors(errs) {
		t.Errorf("expected quantity 5 to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Payment string `json:"payment" validate:"required,in=cod,card,paypal"`
	}
	if errs := validate.Struct(in{Payment: "bitcoin"}); !validate.HasErrors(errs) {
		t.Error("expected invalid payment method to fail")
	}
	if errs := validate.Struct(in{Payment: "card"}); validate.HasErrors(errs) {
		t.Errorf("expected card to pass: %v", errs)
	}
}

func TestConfirmedRule(t *testing.T) {
	// confirmed goes on the base field and checks the _confirmation sibling.
	type in struct {
		Password             string `json:"password"              validate:"required,min=8,confirmed"`
		PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "wrong"}); !validate.HasErrors(errs) {
		t.Error("expected confirmation mismatch to fail")
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "secret123"}); validate.HasErrors(errs) {
		t.Errorf("expected matching confirmation to pass: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Note string `json:"note" validate:"nullable,digits=4"`
	}
	// Empty string — nullable, remaining rules skipped.
	if errs := validate.Struct(in{Note: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	// Non-empty still goes through the remaining rules.
	if errs := validate.Struct(in{Note: "abcd"}); !validate.HasErrors(errs) {
		t.Error("expected non-digit note to fail")
	}
}

func TestDigitsRule(t *testing.T) {
	type in struct {
		Code string `json:"code" validate:"required,digits=6"`
	}
	if errs := validate.Struct(in{Code: "123456"}); validate.HasErrors(errs) {
		t.Errorf("expected 6-digit code to pass: %v", errs)
	}
	if errs := validate.Struct(in{Code: "12345"}); !validate.HasErrors(errs) {
		t.Error("expected 5-digit code to fail")
	}
	if errs := validate.Struct(in{Code: "12345a"}); !validate.HasErrors(errs) {
		t.Error("expected non-numeric code to fail")
	}
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Rating float64 `json:"rating" validate:"required,between=1,5"`
	}
	if errs := validate.Struct(in{Rating: 6}); !validate.HasErrors(errs) {
		t.Error("expected rating > 5 to fail")
	}
	if errs := validate.Struct(in{Rating: 3.5}); validate.HasErrors(errs) {
		t.Errorf("expected rating 3.5 to pass: %v", errs)
	}
}

func TestAlphaDashRule(t *testing.T) {
	type in struct {
		Slug string `json:"slug" validate:"required,alpha_dash"`
	}
	if errs := validate.Struct(in{Slug: "summer-sale_2026"}); validate.HasErrors(errs) {
		t.Errorf("expected alpha_dash to pass: %v", errs)
	}
	if errs := validate.Struct(in{Slug: "summer sale!"}); !validate.HasErrors(errs) {
		t.Error("expected alpha_dash to fail for spaces/punctuation")
	}
}
