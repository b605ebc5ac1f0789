package equipment

import (
	"net/http"
	"strconv"
	"strings"
)

// LowStockThreshold is the unit count under which equipment counts as short.
const LowStockThreshold = 5

// Equipment is a stock line as returned by /api/equipment.
type Equipment struct {
	ID             int64  `json:"id"`
	EquipmentName  string `json:"equipmentName"`
	Model          string `json:"model"`
	NoOfEquipments int    `json:"noOfEquipments"`
}

// LowStock reports whether fewer than LowStockThreshold units remain.
func (e Equipment) LowStock() bool {
	return e.NoOfEquipments < LowStockThreshold
}

// Form carries the add/edit form values.
type Form struct {
	EquipmentName  string `form:"equipmentName" label:"Equipment name" validate:"required,min=2,max=100"`
	Model          string `form:"model" label:"Model" validate:"required,min=2,max=100"`
	NoOfEquipments string `form:"noOfEquipments" label:"Number of equipments" validate:"required,posint"`
}

type equipmentRequest struct {
	EquipmentName  string `json:"equipmentName"`
	Model          string `json:"model"`
	NoOfEquipments int    `json:"noOfEquipments"`
}

// Stats summarises the fetched list.
type Stats struct {
	Total      int
	TotalUnits int
	LowStock   int
}

// FormFromRequest reads a posted form.
func FormFromRequest(r *http.Request) Form {
	return Form{
		EquipmentName:  strings.TrimSpace(r.PostFormValue("equipmentName")),
		Model:          strings.TrimSpace(r.PostFormValue("model")),
		NoOfEquipments: strings.TrimSpace(r.PostFormValue("noOfEquipments")),
	}
}

// FormFromEquipment pre-fills the edit form.
func FormFromEquipment(e Equipment) Form {
	return Form{EquipmentName: e.EquipmentName, Model: e.Model, NoOfEquipments: strconv.Itoa(e.NoOfEquipments)}
}

func (f Form) request() equipmentRequest {
	n, _ := strconv.Atoi(f.NoOfEquipments)
	return equipmentRequest{EquipmentName: f.EquipmentName, Model: f.Model, NoOfEquipments: n}
}

// TotalUnits sums noOfEquipments across items.
func TotalUnits(items []Equipment) int {
	total := 0
	for _, e := range items {
		total += e.NoOfEquipments
	}
	return total
}
