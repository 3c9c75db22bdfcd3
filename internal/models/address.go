package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	AddressShipping = "shipping"
	AddressBilling  = "billing"
	AddressBoth     = "both"

	DefaultCountry = "United States"
)

// Address is an embedded value object. It is always stored inline inside a
// user or order document and never gets an _id.
type Address struct {
	FullName     string `bson:"fullName" json:"fullName" validate:"required,max=120"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	AddressLine1 string `bson:"addressLine1" json:"addressLine1" validate:"required,max=200"`
	AddressLine2 string `bson:"addressLine2,omitempty" json:"addressLine2,omitempty" validate:"max=200"`
	City         string `bson:"city" json:"city" validate:"required,max=100"`
	State        string `bson:"state" json:"state" validate:"required,max=100"`
	ZipCode      string `bson:"zipCode" json:"zipCode" validate:"required,max=20"`
	Country      string `bson:"country" json:"country" validate:"required,max=100"`
	IsDefault    bool   `bson:"isDefault" json:"isDefault"`
	Type         string `bson:"type" json:"type" validate:"required,oneof=shipping billing both"`
}

// AddressError lists the fields that made address construction fail.
type AddressError struct {
	Fields []string
}

func (e *AddressError) Error() string {
	return "invalid address: " + strings.Join(e.Fields, ", ")
}

var addressValidate = newAddressValidator()

func newAddressValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// NewAddress trims the input, applies defaults for country and type and
// validates the result. An address missing a required field is never returned.
func NewAddress(in Address) (Address, error) {
	a := Address{
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		AddressLine1: strings.TrimSpace(in.AddressLine1),
		AddressLine2: strings.TrimSpace(in.AddressLine2),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		ZipCode:      strings.TrimSpace(in.ZipCode),
		Country:      strings.TrimSpace(in.Country),
		IsDefault:    in.IsDefault,
		Type:         strings.ToLower(strings.TrimSpace(in.Type)),
	}
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	if a.Type == "" {
		a.Type = AddressShipping
	}

	if err := a.Validate(); err != nil {
		return Address{}, err
	}
	return a, nil
}

// Validate checks required fields and the type enumeration.
func (a Address) Validate() error {
	err := addressValidate.Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields = append(fields, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			fields = append(fields, fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param()))
		default:
			fields = append(fields, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return &AddressError{Fields: fields}
}

// UsableFor reports whether the address may serve as the given kind.
func (a Address) UsableFor(kind string) bool {
	return a.Type == AddressBoth || a.Type == kind
}

// Format renders the address one field per line with the country last.
// Empty fields are skipped so no blank lines appear.
func (a Address) Format() string {
	region := strings.TrimSpace(strings.TrimSpace(a.State) + " " + strings.TrimSpace(a.ZipCode))
	cityLine := strings.TrimSpace(a.City)
	if region != "" {
		if cityLine != "" {
			cityLine += ", " + region
		} else {
			cityLine = region
		}
	}

	parts := []string{a.FullName, a.AddressLine1, a.AddressLine2, cityLine, a.Country}
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	return strings.Join(lines, "\n")
}
