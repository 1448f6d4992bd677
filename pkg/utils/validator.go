package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// Sui address regex: 0x followed by up to 64 hex characters
	suiAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

// ValidateSuiAddress validates a Sui address format
func ValidateSuiAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if !strings.HasPrefix(address, "0x") {
		return fmt.Errorf("address must start with 0x")
	}

	if !suiAddressRegex.MatchString(address) {
		return fmt.Errorf("invalid Sui address format")
	}

	return nil
}

// NormalizeSuiAddress lowercases an address and pads it to 66 characters
func NormalizeSuiAddress(address string) string {
	address = strings.ToLower(strings.TrimSpace(address))
	if len(address) >= 66 || !strings.HasPrefix(address, "0x") {
		return address
	}
	return "0x" + strings.Repeat("0", 64-len(address[2:])) + address[2:]
}

// Validator returns the shared struct validator with the sui_address tag registered
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("sui_address", func(fl validator.FieldLevel) bool {
			return ValidateSuiAddress(fl.Field().String()) == nil
		})
	})
	return validate
}

// ValidateStruct validates v and flattens the first field error into a readable message
func ValidateStruct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", fe.Field())
		case "sui_address":
			return fmt.Errorf("%s is not a valid Sui address", fe.Field())
		default:
			return fmt.Errorf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
	}
	return err
}
