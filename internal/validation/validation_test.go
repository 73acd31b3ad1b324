package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username        string `json:"username" validate:"required,min=2,max=20"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"omitempty,eqfield=Password"`
	ExamDate        string `json:"exam_date" validate:"omitempty,datetime=2006-01-02"`
}

func TestValidate_OK(t *testing.T) {
	in := signup{Username: "alice", Email: "alice@x.com", Password: "pw12345", ConfirmPassword: "pw12345", ExamDate: "2024-06-01"}
	assert.Nil(t, Validate(in))
}

func TestValidate_EnumeratesEveryField(t *testing.T) {
	in := signup{Username: "a", Email: "not-an-email", Password: "123", ConfirmPassword: "321", ExamDate: "01/06/2024"}

	verr := Validate(in)
	require.NotNil(t, verr)

	rules := map[string]string{}
	for _, f := range verr.Fields {
		rules[f.Field] = f.Rule
		assert.NotEmpty(t, f.Message)
	}
	assert.Equal(t, map[string]string{
		"username":         "min",
		"email":            "email",
		"password":         "min",
		"confirm_password": "eqfield",
		"exam_date":        "datetime",
	}, rules)
}

func TestValidate_Required(t *testing.T) {
	verr := Validate(signup{})
	require.NotNil(t, verr)
	assert.Len(t, verr.Fields, 3)
	for _, f := range verr.Fields {
		assert.Equal(t, "required", f.Rule)
		assert.Equal(t, "This field is required.", f.Message)
	}
}
