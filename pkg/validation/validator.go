package validation

import (
	"fmt"
	"strings"
)

// Validator предоставляет общие функции валидации
type Validator struct{}

// NewValidator создает новый Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRequiredFields проверяет обязательные поля запроса
func (v *Validator) ValidateRequiredFields(req map[string]interface{}, fieldNames map[string]string) error {
	for field, fieldName := range fieldNames {
		value, exists := req[field]
		if !exists || value == nil || value == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}
	return nil
}

// ValidateNotBlank проверяет, что строка не пустая и не состоит из одних пробелов
func (v *Validator) ValidateNotBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", field)
	}
	return nil
}

// ValidateStringLength проверяет длину строки
func (v *Validator) ValidateStringLength(field, value string, min, max int) error {
	length := len(value)
	if length < min || length > max {
		return fmt.Errorf("%s должен содержать от %d до %d символов, получено: %d", field, min, max, length)
	}
	return nil
}

// ValidateNonNegativeInt проверяет, что число неотрицательное
func (v *Validator) ValidateNonNegativeInt(field string, value int) error {
	if value < 0 {
		return fmt.Errorf("%s не может быть отрицательным, получено: %d", field, value)
	}
	return nil
}

// ValidatePositiveInt проверяет, что число положительное
func (v *Validator) ValidatePositiveInt(field string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s должен быть положительным числом, получено: %d", field, value)
	}
	return nil
}
