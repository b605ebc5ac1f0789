package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Name     string `form:"customerName" label:"Customer name" validate:"required,min=2,max=100"`
	Phone    string `form:"phoneNumber" label:"Phone number" validate:"required,phone"`
	Email    string `form:"email" label:"Email" validate:"required,email"`
	Status   string `form:"status" label:"Status" validate:"required,oneof=Available 'Low Stock' Expired"`
	Quantity string `form:"quantity" label:"Quantity" validate:"required,posint"`
	Price    string `form:"price" label:"Price" validate:"required,decimalgt0"`
	Expiry   string `form:"expiredDate" label:"Expiry date" validate:"required,futuredate"`
}

func validSample() sampleForm {
	return sampleForm{
		Name:     "Asha",
		Phone:    "(555) 123-4567",
		Email:    "asha@example.com",
		Status:   "Low Stock",
		Quantity: "12",
		Price:    "9.50",
		Expiry:   "2025-06-02",
	}
}

func fixedValidator() *Validator {
	return NewValidator().WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC)
	})
}

func TestValidatorAcceptsValidForm(t *testing.T) {
	require.NoError(t, fixedValidator().Struct(validSample()))
}

func TestValidatorReportsFieldMessages(t *testing.T) {
	form := validSample()
	form.Name = ""
	form.Phone = "555-123-4567"
	form.Email = "not-an-email"
	form.Status = "Unknown"
	form.Quantity = "0"
	form.Price = "-1"
	form.Expiry = "2025-06-01"

	err := fixedValidator().Struct(form)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Customer name is required", fe["customerName"])
	assert.Equal(t, "Phone number must be in format (XXX) XXX-XXXX", fe["phoneNumber"])
	assert.Equal(t, "Please enter a valid email address", fe["email"])
	assert.Equal(t, "Status must be one of: Available, Low Stock, Expired", fe["status"])
	assert.Equal(t, "Quantity must be a positive number", fe["quantity"])
	assert.Equal(t, "Price must be greater than 0", fe["price"])
	assert.Equal(t, "Expiry date must be a future date", fe["expiredDate"])
}

func TestValidatorMinLength(t *testing.T) {
	form := validSample()
	form.Name = "A"
	fe, ok := AsFieldErrors(fixedValidator().Struct(form))
	require.True(t, ok)
	assert.Equal(t, "Customer name must be at least 2 characters", fe["customerName"])
}

func TestIsFutureDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	assert.False(t, IsFutureDate("2025-06-01", now))
	assert.True(t, IsFutureDate("2025-06-02", now))
	assert.False(t, IsFutureDate("06/02/2025", now))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("(012) 345-6789"))
	assert.False(t, IsValidPhone("(012)345-6789"))
	assert.False(t, IsValidPhone("012 345 6789"))
}
