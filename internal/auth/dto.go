package auth

import (
	"github.com/frahmantamala/payment-portal/internal/core/common/validation"
)

// RegisterUserDTO is the transport shape for staff-initiated user
// registration.
type RegisterUserDTO struct {
	IDNumber  string `json:"idNumber"`
	FirstName string `json:"firstName"`
	Surname   string `json:"surname"`
	Password  string `json:"password"`
}

func (d RegisterUserDTO) Validate() error {
	v := validation.NewValidator()

	v.Field("idNumber", d.IDNumber).Required().IDNumber()
	v.Field("firstName", d.FirstName).Required().MaxLength(100).PersonName()
	v.Field("surname", d.Surname).Required().MaxLength(100).PersonName()
	v.Field("password", d.Password).Required()

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// RegisterStaffDTO is the transport shape for staff self-registration.
type RegisterStaffDTO struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	Surname   string `json:"surname"`
	Password  string `json:"password"`
}

func (d RegisterStaffDTO) Validate() error {
	v := validation.NewValidator()

	v.Field("email", d.Email).Required().Email()
	v.Field("firstName", d.FirstName).Required().MaxLength(100).PersonName()
	v.Field("surname", d.Surname).Required().MaxLength(100).PersonName()
	v.Field("password", d.Password).Required()

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// LoginDTO carries user credentials.
type LoginDTO struct {
	IDNumber string `json:"idNumber"`
	Password string `json:"password"`
}

// Identity-number syntax is checked before any store lookup so malformed
// ids never reach the credential store.
func (d LoginDTO) Validate() error {
	v := validation.NewValidator()

	v.Field("idNumber", d.IDNumber).Required().IDNumber()
	v.Field("password", d.Password).Required()

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// StaffLoginDTO carries staff credentials.
type StaffLoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d StaffLoginDTO) Validate() error {
	v := validation.NewValidator()

	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
