// Package billing checks the billing and shipping fields of the checkout form.
package billing

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"

	"github.com/novacart/checkout/checkout/models"
)

// Fields is the flat set of billing inputs. Field order here is the order
// problems are reported in.
type Fields struct {
	FullName string `json:"fullName" validate:"fullname"`
	Email    string `json:"email" validate:"looseemail"`
	Phone    string `json:"phone" validate:"notblank"`
	Address  string `json:"address" validate:"notblank"`
	City     string `json:"city" validate:"notblank"`
	State    string `json:"state" validate:"notblank"`
	Country  string `json:"country" validate:"notblank"`
}

// FieldsFrom flattens the persisted checkout details.
func FieldsFrom(d models.Details) Fields {
	return Fields{
		FullName: d.BillingInfo.FullName,
		Email:    d.BillingInfo.Email,
		Phone:    d.BillingInfo.Phone,
		Address:  d.ShippingInfo.Address,
		City:     d.ShippingInfo.City,
		State:    d.ShippingInfo.State,
		Country:  d.ShippingInfo.Country,
	}
}

var messages = map[string]string{
	"fullName": "Please enter full name (min 2 words).",
	"email":    "Enter a valid email address.",
	"phone":    "Enter phone number.",
	"address":  "Enter shipping address.",
	"city":     "Enter city.",
	"state":    "Enter state.",
	"country":  "Enter country.",
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidFullName wants at least two whitespace separated words.
func ValidFullName(v string) bool {
	return len(strings.Fields(v)) >= 2
}

// ValidEmail is a structural check for a single @ and a dotted domain.
func ValidEmail(v string) bool {
	return emailPattern.MatchString(strings.TrimSpace(v))
}

func ValidRequiredText(v string) bool {
	return strings.TrimSpace(v) != ""
}

// RegisterValidations adds the fullname, looseemail and notblank tags to v.
func RegisterValidations(v *validator.Validate) error {
	rules := map[string]func(string) bool{
		"fullname":   ValidFullName,
		"looseemail": ValidEmail,
		"notblank":   ValidRequiredText,
	}
	for tag, fn := range rules {
		fn := fn
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		})
		if err != nil {
			return err
		}
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// ValidateAll checks every field and returns one problem per failing field,
// always in the order fullName, email, phone, address, city, state, country.
func ValidateAll(f Fields) []models.Problem {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []models.Problem{{Field: "form", Message: err.Error()}}
	}
	problems := make([]models.Problem, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, models.Problem{Field: fe.Field(), Message: messages[fe.Field()]})
	}
	return problems
}
