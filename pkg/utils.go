package pkg

import (
	"fmt"
	"math"
	"strings"
)

// ValidateAmount проверяет, что сумма положительная и конечная
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("amount must be a finite number")
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// ValidateCurrency проверяет, что валюта является одной из поддерживаемых
func ValidateCurrency(currency string) error {
	switch currency {
	case "coin", "rus":
		return nil
	}
	return fmt.Errorf("unsupported currency: %s. Supported currencies: coin, rus", currency)
}

// ValidateDecision проверяет, что решение является терминальным статусом заявки
func ValidateDecision(decision string) error {
	switch decision {
	case "approved", "denied":
		return nil
	}
	return fmt.Errorf("unsupported decision: %s. Supported decisions: approved, denied", decision)
}

// NormalizeEmail приводит email к нижнему регистру без пробелов
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MaskPixKey маскирует ключ PIX для логов: видны только первые и последние
// два символа
func MaskPixKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:2] + strings.Repeat("*", len(key)-4) + key[len(key)-2:]
}
