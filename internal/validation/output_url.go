package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("output_url", validateOutputURL)
}

// ValidateOutputURL checks that a URL returned by an external generation
// service is something a client can actually resolve. Used to decide
// whether an extracted video or image URL counts as a real output.
func ValidateOutputURL(u string) error {
	if err := validate.Var(u, "required,output_url"); err != nil {
		return fmt.Errorf("invalid output URL %q: %w", u, err)
	}
	return nil
}

// IsResolvable reports whether the string looks like a usable output URL.
func IsResolvable(u string) bool {
	return ValidateOutputURL(u) == nil
}

func validateOutputURL(fl validator.FieldLevel) bool {
	urlStr := fl.Field().String()

	if !strings.HasPrefix(urlStr, "http") {
		return false
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != ""
}
