package medicines

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalShared "github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/internal/testing/pagetest"
)

func newHarness(t *testing.T, backend http.Handler) (*pagetest.Harness, *Handler) {
	t.Helper()
	h := pagetest.New(t, backend)
	v := internalShared.NewValidator().WithClock(func() time.Time { return today })
	return h, NewHandler(h.Screen, NewService(NewRepository(h.API, 0), v))
}

func TestCreatePostsNumbers(t *testing.T) {
	var got map[string]any
	h, handler := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		got = pagetest.DecodeBody(t, r)
		pagetest.JSON(w, http.StatusOK, map[string]any{"success": true, "medicine": map[string]any{"id": 4, "medicineName": "Paracetamol"}})
	}))
	sess := h.Session()

	form := url.Values{
		"medicineName": {"Paracetamol"}, "medicineType": {"Tablet"}, "noOfMedicines": {"40"},
		"status": {"Available"}, "expiredDate": {"2026-03-01"}, "price": {"9.99"},
		"batchNumber": {"PCM-1"}, "manufacturer": {"Acme"},
	}
	rec := pagetest.Serve("/medicines", handler.MountRoutes, h.Request(http.MethodPost, "/medicines/", form, sess))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, float64(40), got["noOfMedicines"])
	assert.Equal(t, 9.99, got["price"])
	assert.Equal(t, "2026-03-01", got["expiredDate"])

	flash := sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "Medicine Paracetamol added successfully", flash.Message)
}

func TestListStaleSnapshotOnFailure(t *testing.T) {
	fail := false
	h, handler := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		pagetest.JSON(w, http.StatusOK, map[string]any{"success": true, "medicines": sampleMedicines()})
	}))
	sess := h.Session()

	rec := pagetest.Serve("/medicines", handler.MountRoutes, h.Request(http.MethodGet, "/medicines", nil, sess))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Amoxicillin")

	fail = true
	rec = pagetest.Serve("/medicines", handler.MountRoutes, h.Request(http.MethodGet, "/medicines", nil, sess))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Amoxicillin")
	assert.Contains(t, body, "HTTP error! status: 503")
}

func TestExportPDF(t *testing.T) {
	h, handler := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagetest.JSON(w, http.StatusOK, map[string]any{"success": true, "medicines": sampleMedicines()})
	}))

	rec := pagetest.Serve("/medicines", handler.MountRoutes, h.Request(http.MethodGet, "/medicines/export.pdf", nil, h.Session()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4", rec.Body.String())
}
