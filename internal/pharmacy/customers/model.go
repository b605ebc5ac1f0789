package customers

import (
	"net/http"
	"strings"
)

// Genders accepted by the backend.
var Genders = []string{"Male", "Female", "Other"}

// Customer is a pharmacy customer as returned by /api/customers.
type Customer struct {
	ID           int64  `json:"id"`
	CustomerName string `json:"customerName"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email"`
	Gender       string `json:"gender"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

// Form carries the add/edit form values as typed by the user.
type Form struct {
	CustomerName string `form:"customerName" label:"Customer name" validate:"required,min=2,max=100"`
	PhoneNumber  string `form:"phoneNumber" label:"Phone number" validate:"required,phone"`
	Email        string `form:"email" label:"Email" validate:"required,email"`
	Gender       string `form:"gender" label:"Gender" validate:"required,oneof=Male Female Other"`
}

type customerRequest struct {
	CustomerName string `json:"customerName"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email"`
	Gender       string `json:"gender"`
}

// Stats summarises the fetched list.
type Stats struct {
	Total  int
	Male   int
	Female int
}

// FormFromRequest reads a posted form.
func FormFromRequest(r *http.Request) Form {
	return Form{
		CustomerName: strings.TrimSpace(r.PostFormValue("customerName")),
		PhoneNumber:  strings.TrimSpace(r.PostFormValue("phoneNumber")),
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		Gender:       strings.TrimSpace(r.PostFormValue("gender")),
	}
}

// FormFromCustomer pre-fills the edit form.
func FormFromCustomer(c Customer) Form {
	return Form{CustomerName: c.CustomerName, PhoneNumber: c.PhoneNumber, Email: c.Email, Gender: c.Gender}
}

func (f Form) request() customerRequest {
	return customerRequest{CustomerName: f.CustomerName, PhoneNumber: f.PhoneNumber, Email: f.Email, Gender: f.Gender}
}
