package forms

import (
	"net/url"

	"github.com/hugh/raid-finder/internal/api/validation"
)

// MaxPasswordBytes matches the bcrypt input limit.
const MaxPasswordBytes = 72

type RegisterForm struct {
	Username    string
	Email       string
	Password    string
	PassConfirm string
}

// Registration is a validated RegisterForm.
type Registration struct {
	Username string
	Email    string
	Password string
}

func ParseRegister(form url.Values) RegisterForm {
	return RegisterForm{
		Username:    text(form, "username"),
		Email:       text(form, "email"),
		Password:    secret(form, "password"),
		PassConfirm: secret(form, "pass_confirm"),
	}
}

func (f RegisterForm) Validate() (Registration, error) {
	errs := Errors{}

	if errs.required("username", f.Username) {
		errs.maxLen("username", f.Username, 255)
	}
	if errs.required("email", f.Email) && !validation.IsValidEmail(f.Email) {
		errs.Add("email", MsgEmail)
	}
	if errs.required("password", f.Password) {
		if f.Password != f.PassConfirm {
			errs.Add("password", MsgPasswordsMatch)
		} else if len(f.Password) > MaxPasswordBytes {
			errs.Add("password", "Password cannot be longer than 72 bytes.")
		}
	}
	errs.required("pass_confirm", f.PassConfirm)

	if err := errs.Err(); err != nil {
		return Registration{}, err
	}
	return Registration{Username: f.Username, Email: f.Email, Password: f.Password}, nil
}

type LoginForm struct {
	Email    string
	Password string
}

func ParseLogin(form url.Values) LoginForm {
	return LoginForm{
		Email:    text(form, "email"),
		Password: secret(form, "password"),
	}
}

func (f LoginForm) Validate() (LoginForm, error) {
	errs := Errors{}

	if errs.required("email", f.Email) && !validation.IsValidEmail(f.Email) {
		errs.Add("email", MsgEmail)
	}
	errs.required("password", f.Password)

	if err := errs.Err(); err != nil {
		return LoginForm{}, err
	}
	return f, nil
}
