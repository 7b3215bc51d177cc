// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует все наши кастомные правила
// валидации в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("location_ref", validateLocationRef); err != nil {
		return err
	}
	if err := v.RegisterValidation("allocation_status", isKnownAllocationStatus); err != nil {
		return err
	}
	return nil
}

// validateLocationRef проверяет правило "ровно один вариант": у строки плана
// должен быть заполнен либо location_id, либо location_name, но не оба сразу
// и не ни одного. Вешается на поле LocationID.
func validateLocationRef(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}

	idField := parent.FieldByName("LocationID")
	nameField := parent.FieldByName("LocationName")
	if !idField.IsValid() || !nameField.IsValid() {
		return false
	}

	hasID := idField.Kind() == reflect.Ptr && !idField.IsNil()
	hasName := false
	switch nameField.Kind() {
	case reflect.String:
		hasName = strings.TrimSpace(nameField.String()) != ""
	case reflect.Ptr:
		hasName = !nameField.IsNil() && strings.TrimSpace(nameField.Elem().String()) != ""
	}

	return hasID != hasName
}

// Жизненный цикл брони под шоу.
var knownAllocationStatuses = []string{
	"requested", "allocated", "checked-out", "in-use", "returned",
}

func isKnownAllocationStatus(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	for _, known := range knownAllocationStatuses {
		if s == known {
			return true
		}
	}
	return false
}
