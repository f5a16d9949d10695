package dto_test

import (
	"strings"
	"testing"

	"github.com/skycast/auth-service/internal/auth/dto"
	"github.com/stretchr/testify/assert"
)

func fields(errs []dto.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestRegisterInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     dto.RegisterInput
		badFields []string
	}{
		{
			name: "valid",
			input: dto.RegisterInput{
				Email:     "test@example.com",
				Password:  "Str0ng!Pass",
				FirstName: "Ada",
				LastName:  "Lovelace",
			},
		},
		{
			name: "invalid email",
			input: dto.RegisterInput{
				Email:     "not-an-email",
				Password:  "Str0ng!Pass",
				FirstName: "Ada",
				LastName:  "Lovelace",
			},
			badFields: []string{"email"},
		},
		{
			name: "oversized email",
			input: dto.RegisterInput{
				Email:     strings.Repeat("a", 250) + "@example.com",
				Password:  "Str0ng!Pass",
				FirstName: "Ada",
				LastName:  "Lovelace",
			},
			badFields: []string{"email"},
		},
		{
			name: "weak password",
			input: dto.RegisterInput{
				Email:     "test@example.com",
				Password:  "alllowercase1!",
				FirstName: "Ada",
				LastName:  "Lovelace",
			},
			badFields: []string{"password"},
		},
		{
			name: "short password",
			input: dto.RegisterInput{
				Email:     "test@example.com",
				Password:  "S1!a",
				FirstName: "Ada",
				LastName:  "Lovelace",
			},
			badFields: []string{"password"},
		},
		{
			name: "numeric name",
			input: dto.RegisterInput{
				Email:     "test@example.com",
				Password:  "Str0ng!Pass",
				FirstName: "Ada99",
				LastName:  "Lovelace",
			},
			badFields: []string{"firstName"},
		},
		{
			name: "everything wrong",
			input: dto.RegisterInput{
				Email:    "",
				Password: "",
			},
			badFields: []string{"email", "password", "firstName", "lastName"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.input.Validate()
			if len(tc.badFields) == 0 {
				assert.Empty(t, errs)
				return
			}
			assert.ElementsMatch(t, tc.badFields, fields(errs))
		})
	}
}

func TestLoginInputValidate(t *testing.T) {
	assert.Empty(t, dto.LoginInput{Email: "test@example.com", Password: "anything"}.Validate())

	errs := dto.LoginInput{Email: "bad", Password: ""}.Validate()
	assert.ElementsMatch(t, []string{"email", "password"}, fields(errs))
}

func TestForgotPasswordInputValidate(t *testing.T) {
	assert.Empty(t, dto.ForgotPasswordInput{Email: "test@example.com"}.Validate())
	assert.NotEmpty(t, dto.ForgotPasswordInput{Email: "nope"}.Validate())
}

func TestResetPasswordInputValidate(t *testing.T) {
	assert.Empty(t, dto.ResetPasswordInput{Token: "tok", Password: "Str0ng!Pass"}.Validate())

	errs := dto.ResetPasswordInput{Token: "  ", Password: "weak"}.Validate()
	assert.ElementsMatch(t, []string{"token", "password"}, fields(errs))
}
