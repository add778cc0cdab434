package pkg

import (
	"math"
	"testing"
)

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(10.5); err != nil {
		t.Errorf("Expected valid amount, got %v", err)
	}
	if err := ValidateAmount(0); err == nil {
		t.Error("Expected error for zero amount")
	}
	if err := ValidateAmount(-1); err == nil {
		t.Error("Expected error for negative amount")
	}
	if err := ValidateAmount(math.NaN()); err == nil {
		t.Error("Expected error for NaN")
	}
	if err := ValidateAmount(math.Inf(1)); err == nil {
		t.Error("Expected error for Inf")
	}
}

func TestValidateCurrency(t *testing.T) {
	if err := ValidateCurrency("coin"); err != nil {
		t.Errorf("Expected coin to be valid, got %v", err)
	}
	if err := ValidateCurrency("rus"); err != nil {
		t.Errorf("Expected rus to be valid, got %v", err)
	}
	if err := ValidateCurrency("usd"); err == nil {
		t.Error("Expected error for unsupported currency")
	}
}

func TestValidateDecision(t *testing.T) {
	if err := ValidateDecision("approved"); err != nil {
		t.Errorf("Expected approved to be valid, got %v", err)
	}
	if err := ValidateDecision("denied"); err != nil {
		t.Errorf("Expected denied to be valid, got %v", err)
	}
	if err := ValidateDecision("pending"); err == nil {
		t.Error("Expected error for non-terminal decision")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("Expected normalized email, got %q", got)
	}
}

func TestMaskPixKey(t *testing.T) {
	if got := MaskPixKey("11999998888"); got != "11*******88" {
		t.Errorf("Unexpected mask: %q", got)
	}
	if got := MaskPixKey("abc"); got != "***" {
		t.Errorf("Short keys must be fully masked, got %q", got)
	}
}
