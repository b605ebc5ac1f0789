package payments

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Statuses accepted by the payment form.
var Statuses = []string{"Completed", "Pending", "Failed"}

// PaymentTypes accepted by the payment form.
var PaymentTypes = []string{"Cash", "Bank Transfer", "Credit Card", "Digital Wallet", "Cheque"}

// Payment is a supplier payment as returned by /api/payments.
type Payment struct {
	PaymentID   int64           `json:"paymentId"`
	PaymentType string          `json:"paymentType"`
	Date        string          `json:"date"`
	PaymentBy   string          `json:"paymentBy"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
}

// Label names the payment in dialogs.
func (p Payment) Label() string {
	return "payment #" + strconv.FormatInt(p.PaymentID, 10)
}

// Form carries the add/edit form values as typed.
type Form struct {
	PaymentType string `form:"paymentType" label:"Payment type" validate:"required,max=50,oneof=Cash 'Bank Transfer' 'Credit Card' 'Digital Wallet' Cheque"`
	Date        string `form:"date" label:"Date" validate:"required,datetime=2006-01-02"`
	PaymentBy   string `form:"paymentBy" label:"Supplier" validate:"required,max=100"`
	Amount      string `form:"amount" label:"Amount" validate:"required,decimalgt0"`
	Status      string `form:"status" label:"Status" validate:"required,max=20,oneof=Completed Pending Failed"`
}

type paymentRequest struct {
	PaymentType string      `json:"paymentType"`
	Date        string      `json:"date"`
	PaymentBy   string      `json:"paymentBy"`
	Amount      json.Number `json:"amount"`
	Status      string      `json:"status"`
}

// Stats summarises the fetched list.
type Stats struct {
	Total       decimal.Decimal
	Count       int
	ByType      map[string]int
	Pending     int
	SuccessRate int
}

// FormFromRequest reads a posted form.
func FormFromRequest(r *http.Request) Form {
	return Form{
		PaymentType: strings.TrimSpace(r.PostFormValue("paymentType")),
		Date:        strings.TrimSpace(r.PostFormValue("date")),
		PaymentBy:   strings.TrimSpace(r.PostFormValue("paymentBy")),
		Amount:      strings.TrimSpace(r.PostFormValue("amount")),
		Status:      strings.TrimSpace(r.PostFormValue("status")),
	}
}

// FormFromPayment pre-fills the edit form.
func FormFromPayment(p Payment) Form {
	return Form{PaymentType: p.PaymentType, Date: p.Date, PaymentBy: p.PaymentBy, Amount: p.Amount.String(), Status: p.Status}
}

func (f Form) request() paymentRequest {
	amount, _ := decimal.NewFromString(f.Amount)
	return paymentRequest{
		PaymentType: f.PaymentType,
		Date:        f.Date,
		PaymentBy:   f.PaymentBy,
		Amount:      json.Number(amount.String()),
		Status:      f.Status,
	}
}
