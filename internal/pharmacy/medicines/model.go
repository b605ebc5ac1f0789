package medicines

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the quantity under which a medicine counts as short.
const LowStockThreshold = 10

// Statuses accepted by the medicine form.
var Statuses = []string{"Available", "Low Stock", "Expired"}

// Types offered by the medicine type select.
var Types = []string{"Tablet", "Capsule", "Syrup", "Injection", "Cream", "Drops", "Inhaler", "Other"}

// Medicine is an inventory line as returned by /api/medicines.
type Medicine struct {
	ID            int64           `json:"id"`
	MedicineName  string          `json:"medicineName"`
	MedicineType  string          `json:"medicineType"`
	NoOfMedicines int             `json:"noOfMedicines"`
	Status        string          `json:"status"`
	ExpiredDate   string          `json:"expiredDate"`
	Price         decimal.Decimal `json:"price"`
	BatchNumber   string          `json:"batchNumber"`
	Manufacturer  string          `json:"manufacturer"`
	Description   string          `json:"description"`
}

// LowStock reports whether the quantity is under LowStockThreshold.
func (m Medicine) LowStock() bool {
	return m.NoOfMedicines < LowStockThreshold
}

// Form carries the add/edit form values as typed.
type Form struct {
	MedicineName  string `form:"medicineName" label:"Medicine name" validate:"required,min=2,max=100"`
	MedicineType  string `form:"medicineType" label:"Medicine type" validate:"required,max=50"`
	NoOfMedicines string `form:"noOfMedicines" label:"Quantity" validate:"required,posint"`
	Status        string `form:"status" label:"Status" validate:"required,oneof=Available 'Low Stock' Expired"`
	ExpiredDate   string `form:"expiredDate" label:"Expiry date" validate:"required,futuredate"`
	Price         string `form:"price" label:"Price" validate:"required,decimalgt0"`
	BatchNumber   string `form:"batchNumber" label:"Batch number" validate:"required,max=50"`
	Manufacturer  string `form:"manufacturer" label:"Manufacturer" validate:"required,max=100"`
	Description   string `form:"description" label:"Description" validate:"max=500"`
}

type medicineRequest struct {
	MedicineName  string      `json:"medicineName"`
	MedicineType  string      `json:"medicineType"`
	NoOfMedicines int         `json:"noOfMedicines"`
	Status        string      `json:"status"`
	ExpiredDate   string      `json:"expiredDate"`
	Price         json.Number `json:"price"`
	BatchNumber   string      `json:"batchNumber"`
	Manufacturer  string      `json:"manufacturer"`
	Description   string      `json:"description"`
}

// Stats summarises the fetched list.
type Stats struct {
	Total           int
	LowStock        int
	Expired         int
	InventoryStatus string
}

// InventoryStatus grades the number of short medicines: Good when none,
// Warning under five, Critical otherwise.
func InventoryStatus(shortage int) string {
	switch {
	case shortage == 0:
		return "Good"
	case shortage < 5:
		return "Warning"
	default:
		return "Critical"
	}
}

// FormFromRequest reads a posted form.
func FormFromRequest(r *http.Request) Form {
	return Form{
		MedicineName:  strings.TrimSpace(r.PostFormValue("medicineName")),
		MedicineType:  strings.TrimSpace(r.PostFormValue("medicineType")),
		NoOfMedicines: strings.TrimSpace(r.PostFormValue("noOfMedicines")),
		Status:        strings.TrimSpace(r.PostFormValue("status")),
		ExpiredDate:   strings.TrimSpace(r.PostFormValue("expiredDate")),
		Price:         strings.TrimSpace(r.PostFormValue("price")),
		BatchNumber:   strings.TrimSpace(r.PostFormValue("batchNumber")),
		Manufacturer:  strings.TrimSpace(r.PostFormValue("manufacturer")),
		Description:   strings.TrimSpace(r.PostFormValue("description")),
	}
}

// FormFromMedicine pre-fills the edit form.
func FormFromMedicine(m Medicine) Form {
	return Form{
		MedicineName:  m.MedicineName,
		MedicineType:  m.MedicineType,
		NoOfMedicines: strconv.Itoa(m.NoOfMedicines),
		Status:        m.Status,
		ExpiredDate:   m.ExpiredDate,
		Price:         m.Price.String(),
		BatchNumber:   m.BatchNumber,
		Manufacturer:  m.Manufacturer,
		Description:   m.Description,
	}
}

// request converts a validated form.
func (f Form) request() medicineRequest {
	qty, _ := strconv.Atoi(f.NoOfMedicines)
	price, _ := decimal.NewFromString(f.Price)
	return medicineRequest{
		MedicineName:  f.MedicineName,
		MedicineType:  f.MedicineType,
		NoOfMedicines: qty,
		Status:        f.Status,
		ExpiredDate:   f.ExpiredDate,
		Price:         json.Number(price.String()),
		BatchNumber:   f.BatchNumber,
		Manufacturer:  f.Manufacturer,
		Description:   f.Description,
	}
}
