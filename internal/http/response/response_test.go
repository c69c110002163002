package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := OKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		PlanCode string  `validate:"required,alphanum"`
		Months   int     `validate:"omitempty,gte=1,lte=24"`
		Amount   float64 `validate:"omitempty,gt=0"`
	}

	v := validator.New()

	t.Run("required field", func(t *testing.T) {
		err := v.Struct(TestStruct{})
		require.Error(t, err)

		resp := ValidationError(err.(validator.ValidationErrors))
		assert.Equal(t, StatusError, resp.Status)
		assert.Contains(t, resp.Error, "field PlanCode is a required field")
	})

	t.Run("value above maximum", func(t *testing.T) {
		err := v.Struct(TestStruct{PlanCode: "pro", Months: 25})
		require.Error(t, err)

		resp := ValidationError(err.(validator.ValidationErrors))
		assert.Contains(t, resp.Error, "field Months is above the allowed maximum")
	})

	t.Run("value below minimum", func(t *testing.T) {
		err := v.Struct(TestStruct{PlanCode: "pro", Amount: -1})
		require.Error(t, err)

		resp := ValidationError(err.(validator.ValidationErrors))
		assert.Contains(t, resp.Error, "field Amount is below the allowed minimum")
	})

	t.Run("several violations are joined", func(t *testing.T) {
		err := v.Struct(TestStruct{PlanCode: "!", Months: 30})
		require.Error(t, err)

		resp := ValidationError(err.(validator.ValidationErrors))
		assert.Contains(t, resp.Error, "field PlanCode can contain only numbers and letters")
		assert.Contains(t, resp.Error, "field Months is above the allowed maximum")
	})
}
