package validate_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PascalSeth/trendiwear/pkg/validate"
)

type registerInput struct {
	Name                 string `json:"name"                 validate:"required,min=2,max=100"`
	Email                string `json:"email"                validate:"required,email"`
	Password             string `json:"password"             validate:"required,min=8"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"nullable"`
	Role                 string `json:"role"                 validate:"nullable,in=CUSTOMER,PROFESSIONAL"`
	Phone                string `json:"phone"                validate:"nullable,phone"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:     "Ama Mensah",
		Email:    "ama@trendiwear.test",
		Password: "secret123",
		Role:     "PROFESSIONAL",
		Phone:    "+233 20 123 4567",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	for _, f := range []string{"name", "email", "password"} {
		if _, ok := errs[f]; !ok {
			t.Errorf("expected %s to be required, got %v", f, errs)
		}
	}
	if _, ok := errs["role"]; ok {
		t.Error("nullable role must not be reported")
	}
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(registerInput{Name: "Al", Email: "a@b.co", Password: "12345678", Role: "SUPER_ADMIN"})
	if _, ok := errs["role"]; !ok {
		t.Errorf("expected SUPER_ADMIN to be rejected, got %v", errs)
	}
}

func TestConfirmedRule(t *testing.T) {
	type in struct {
		Password             string `json:"password"             validate:"required,min=8,confirmed"`
		PasswordConfirmation string `json:"passwordConfirmation"`
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "wrong"}); !validate.HasErrors(errs) {
		t.Error("expected confirmation mismatch to fail")
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "secret123"}); validate.HasErrors(errs) {
		t.Errorf("expected matching confirmation to pass: %v", errs)
	}
}

func TestRatingBetween(t *testing.T) {
	type in struct {
		Rating int `json:"rating" validate:"required,between=1,5"`
	}
	if errs := validate.Struct(in{Rating: 6}); !validate.HasErrors(errs) {
		t.Error("expected rating 6 to fail")
	}
	if errs := validate.Struct(in{Rating: 4}); validate.HasErrors(errs) {
		t.Errorf("expected rating 4 to pass: %v", errs)
	}
}

func TestDecimalBounds(t *testing.T) {
	type in struct {
		Price decimal.Decimal `json:"price" validate:"required,gt=0"`
	}
	if errs := validate.Struct(in{Price: decimal.RequireFromString("-1.50")}); !validate.HasErrors(errs) {
		t.Error("expected negative price to fail")
	}
	if errs := validate.Struct(in{}); errs["price"] != "The price field is required." {
		t.Errorf("expected zero price to be required, got %v", errs)
	}
	if errs := validate.Struct(in{Price: decimal.RequireFromString("49.99")}); validate.HasErrors(errs) {
		t.Errorf("expected 49.99 to pass: %v", errs)
	}
}

func TestPointerFields(t *testing.T) {
	type in struct {
		Name     *string `json:"name"     validate:"nullable,min=2"`
		Quantity *int    `json:"quantity" validate:"required,min=1"`
	}
	short, qty := "x", 0
	errs := validate.Struct(in{Name: &short, Quantity: &qty})
	if _, ok := errs["name"]; !ok {
		t.Errorf("expected short name to fail, got %v", errs)
	}
	if _, ok := errs["quantity"]; !ok {
		t.Errorf("expected quantity 0 to fail, got %v", errs)
	}

	errs = validate.Struct(in{})
	if _, ok := errs["name"]; ok {
		t.Error("absent optional pointer must be skipped")
	}
	if _, ok := errs["quantity"]; !ok {
		t.Error("absent required pointer must fail")
	}
}

func TestFutureRule(t *testing.T) {
	type in struct {
		ScheduledAt time.Time `json:"scheduledAt" validate:"required,future"`
	}
	if errs := validate.Struct(in{ScheduledAt: time.Now().Add(-time.Hour)}); !validate.HasErrors(errs) {
		t.Error("expected past time to fail")
	}
	if errs := validate.Struct(in{ScheduledAt: time.Now().Add(24 * time.Hour)}); validate.HasErrors(errs) {
		t.Errorf("expected tomorrow to pass: %v", errs)
	}
}

func TestSlugAndURL(t *testing.T) {
	type in struct {
		Slug  string `json:"slug"  validate:"required,slug"`
		Image string `json:"image" validate:"nullable,url"`
	}
	if errs := validate.Struct(in{Slug: "summer-looks-2024", Image: "https://cdn.trendiwear.test/a.png"}); validate.HasErrors(errs) {
		t.Errorf("expected valid input to pass: %v", errs)
	}
	errs := validate.Struct(in{Slug: "Summer Looks", Image: "not-a-url"})
	if len(errs) != 2 {
		t.Errorf("expected slug and image errors, got %v", errs)
	}
}
