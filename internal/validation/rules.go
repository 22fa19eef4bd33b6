// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/licensegate/internal/errors"
)

// domainRegex matches a bare hostname: labels of letters, digits and hyphens
// separated by dots, with at least one dot. No scheme, port or path.
var domainRegex = regexp.MustCompile(
	`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`,
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// DomainName validates that a string is a plausible bare domain name
// (e.g., "shop.example.com"). Activation binds a license to exactly one
// of these, so schemes and paths are rejected at the edge.
var DomainName = validation.NewStringRuleWithError(
	func(s string) bool {
		return domainRegex.MatchString(strings.TrimSpace(s))
	},
	validation.NewError("validation_domain_name", "must be a valid domain name"),
)
