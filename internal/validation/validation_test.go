package validation

import "testing"

func TestViolations(t *testing.T) {
	v := Violations{}
	if !v.Empty() {
		t.Fatal("fresh map should be empty")
	}

	Required("firstName", "  ", v)
	NonNegativeFloat("totalAmount", -1, v)
	PositiveFloat("amount", 0, v)
	MaxFloat("amount", 150, 100, v)

	if v.Empty() {
		t.Fatal("expected violations")
	}
	want := map[string]string{
		"firstName":   "required",
		"totalAmount": "must_not_be_negative",
		"amount":      "exceeds_maximum", // MaxFloat ran last and overwrote
	}
	for field, msg := range want {
		if v[field] != msg {
			t.Errorf("%s: got %q want %q", field, v[field], msg)
		}
	}
}

func TestValidatorsPassCleanInput(t *testing.T) {
	v := Violations{}
	Required("name", "Paracetamol", v)
	NonNegativeFloat("price", 0, v)
	PositiveFloat("amount", 12.5, v)
	MaxFloat("amount", 12.5, 100, v)
	if !v.Empty() {
		t.Fatalf("unexpected violations: %v", v)
	}
}
