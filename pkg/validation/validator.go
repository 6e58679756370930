package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator предоставляет общие функции валидации
type Validator struct{}

// NewValidator создает новый Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRequiredFields проверяет обязательные поля
func (v *Validator) ValidateRequiredFields(fields map[string]interface{}) error {
	for name, value := range fields {
		if value == nil || value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	return nil
}

// ValidateStringLength проверяет длину строки
func (v *Validator) ValidateStringLength(name, value string, min, max int) error {
	length := len(value)
	if length < min || length > max {
		return fmt.Errorf("%s must be between %d and %d characters, got %d", name, min, max, length)
	}
	return nil
}

// ValidateEmail выполняет базовую проверку формата email
func (v *Validator) ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateURL проверяет корректность URL
func (v *Validator) ValidateURL(target string, allowedSchemes []string) error {
	if target == "" {
		return fmt.Errorf("target is required")
	}

	parsedURL, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	// Проверяем схему
	if len(allowedSchemes) > 0 {
		schemeValid := false
		for _, scheme := range allowedSchemes {
			if parsedURL.Scheme == scheme {
				schemeValid = true
				break
			}
		}
		if !schemeValid {
			return fmt.Errorf("URL must use one of allowed schemes %v, got: %s", allowedSchemes, parsedURL.Scheme)
		}
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("URL must have a valid host")
	}

	return nil
}

// ValidateQuantity проверяет, что количество товара положительное
func (v *Validator) ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	return nil
}
