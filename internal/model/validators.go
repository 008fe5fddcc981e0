// Package model содержит валидаторы для моделей.
//
// Группа: BASE - Базовые компоненты
// Содержит: Validator, ValidationError, ValidationErrors, валидаторы
package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator представляет интерфейс валидатора
type Validator interface {
	Validate() error
}

// ValidationError представляет ошибку валидации
type ValidationError struct {
	Field   string
	Message string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors представляет множество ошибок валидации
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// HasErrors проверяет, есть ли ошибки валидации
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// groupNameRegex - имя группы вида "Ит1-22": буквы, цифра курса, дефис, год
var groupNameRegex = regexp.MustCompile(`^[А-Яа-яЁё]{1,2}\d-\d{2}$`)

// ValidateGroupName проверяет формат имени группы
func ValidateGroupName(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ValidationError{Field: field, Message: "is required"}
	}
	if !groupNameRegex.MatchString(value) {
		return ValidationError{Field: field, Message: "invalid group name format"}
	}
	return nil
}

// ValidateConfigKey проверяет, что ключ настройки разрешено менять из бота
func ValidateConfigKey(field, key string, allowed []string) error {
	for _, k := range allowed {
		if key == k {
			return nil
		}
	}
	return ValidationError{Field: field, Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", "))}
}
