package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNotBlank(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateNotBlank("имя системы", "Inventory"))
	assert.Error(t, v.ValidateNotBlank("имя системы", ""))
	// Строка из одних пробелов тоже считается пустой
	assert.Error(t, v.ValidateNotBlank("имя системы", "   \t "))
}

func TestValidateRequiredFields(t *testing.T) {
	v := NewValidator()

	req := map[string]interface{}{
		"username": "admin",
		"password": "",
	}
	fieldNames := map[string]string{
		"username": "имя пользователя",
	}

	assert.NoError(t, v.ValidateRequiredFields(req, fieldNames))

	fieldNames["password"] = "пароль"
	assert.Error(t, v.ValidateRequiredFields(req, fieldNames))
}

func TestValidateStringLength(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateStringLength("имя", "abc", 1, 10))
	assert.Error(t, v.ValidateStringLength("имя", "", 1, 10))
	assert.Error(t, v.ValidateStringLength("имя", "слишком длинное значение", 1, 10))
}

func TestValidateNonNegativeInt(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateNonNegativeInt("лимит", 0))
	assert.NoError(t, v.ValidateNonNegativeInt("лимит", 5))
	assert.Error(t, v.ValidateNonNegativeInt("лимит", -1))
}

func TestValidatePositiveInt(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidatePositiveInt("id системы", 1))
	assert.Error(t, v.ValidatePositiveInt("id системы", 0))
	assert.Error(t, v.ValidatePositiveInt("id системы", -3))
}
