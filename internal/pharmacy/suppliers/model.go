package suppliers

import (
	"net/http"
	"strings"
)

// SupplyTypes accepted by the supplier form.
var SupplyTypes = []string{"Medicine", "Equipment"}

// Supplier is a vendor as returned by /api/suppliers.
type Supplier struct {
	SupplierID   int64  `json:"supplierId"`
	SupplierName string `json:"supplierName"`
	Company      string `json:"company"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	SupplyType   string `json:"supplyType"`
}

// Form carries the add/edit form values.
type Form struct {
	SupplierName string `form:"supplierName" label:"Supplier name" validate:"required,min=2,max=100"`
	Company      string `form:"company" label:"Company name" validate:"required,min=2,max=100"`
	Email        string `form:"email" label:"Email" validate:"required,email"`
	PhoneNumber  string `form:"phoneNumber" label:"Phone number" validate:"required,phone"`
	SupplyType   string `form:"supplyType" label:"Supply type" validate:"required"`
}

type supplierRequest struct {
	SupplierName string `json:"supplierName"`
	Company      string `json:"company"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	SupplyType   string `json:"supplyType"`
}

// Stats summarises the fetched list.
type Stats struct {
	Total     int
	Medicine  int
	Equipment int
}

// FormFromRequest reads a posted form. Supply type defaults to Medicine like
// the radio group on the page.
func FormFromRequest(r *http.Request) Form {
	return Form{
		SupplierName: strings.TrimSpace(r.PostFormValue("supplierName")),
		Company:      strings.TrimSpace(r.PostFormValue("company")),
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		PhoneNumber:  strings.TrimSpace(r.PostFormValue("phoneNumber")),
		SupplyType:   strings.TrimSpace(r.PostFormValue("supplyType")),
	}
}

// FormFromSupplier pre-fills the edit form.
func FormFromSupplier(s Supplier) Form {
	supplyType := s.SupplyType
	if supplyType == "" {
		supplyType = SupplyTypes[0]
	}
	return Form{
		SupplierName: s.SupplierName,
		Company:      s.Company,
		Email:        s.Email,
		PhoneNumber:  s.PhoneNumber,
		SupplyType:   supplyType,
	}
}

func (f Form) request() supplierRequest {
	return supplierRequest(f)
}
