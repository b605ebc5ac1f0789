package sales

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Statuses accepted by the sale form.
var Statuses = []string{"Completed", "Pending", "Cancelled"}

// SaleTypes offered by the sale type select.
var SaleTypes = []string{"Medicine", "Equipment", "Consultation", "Other"}

// Sale is a sale record as returned by /api/sales.
type Sale struct {
	SaleID   int64           `json:"saleId"`
	SaleType string          `json:"saleType"`
	Date     string          `json:"date"`
	Customer string          `json:"customer"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
}

// Label names the sale in dialogs.
func (s Sale) Label() string {
	return "sale #" + strconv.FormatInt(s.SaleID, 10)
}

// Form carries the add/edit form values as typed.
type Form struct {
	SaleType string `form:"saleType" label:"Sale type" validate:"required,max=50"`
	Date     string `form:"date" label:"Date" validate:"required,datetime=2006-01-02"`
	Customer string `form:"customer" label:"Customer" validate:"required,max=100"`
	Amount   string `form:"amount" label:"Amount" validate:"required,decimalgt0"`
	Status   string `form:"status" label:"Status" validate:"required,oneof=Completed Pending Cancelled"`
}

type saleRequest struct {
	SaleType string      `json:"saleType"`
	Date     string      `json:"date"`
	Customer string      `json:"customer"`
	Amount   json.Number `json:"amount"`
	Status   string      `json:"status"`
}

// Stats summarises the fetched list.
type Stats struct {
	Count     int
	Revenue   decimal.Decimal
	Completed int
	Pending   int
}

// FormFromRequest reads a posted form.
func FormFromRequest(r *http.Request) Form {
	return Form{
		SaleType: strings.TrimSpace(r.PostFormValue("saleType")),
		Date:     strings.TrimSpace(r.PostFormValue("date")),
		Customer: strings.TrimSpace(r.PostFormValue("customer")),
		Amount:   strings.TrimSpace(r.PostFormValue("amount")),
		Status:   strings.TrimSpace(r.PostFormValue("status")),
	}
}

// FormFromSale pre-fills the edit form.
func FormFromSale(s Sale) Form {
	return Form{SaleType: s.SaleType, Date: s.Date, Customer: s.Customer, Amount: s.Amount.String(), Status: s.Status}
}

func (f Form) request() saleRequest {
	amount, _ := decimal.NewFromString(f.Amount)
	return saleRequest{
		SaleType: f.SaleType,
		Date:     f.Date,
		Customer: f.Customer,
		Amount:   json.Number(amount.String()),
		Status:   f.Status,
	}
}
