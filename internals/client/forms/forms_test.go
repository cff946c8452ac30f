package forms

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sampleDto "labtrack_backend/internals/features/samples/dto"
	"labtrack_backend/internals/features/samples/model"
	helper "labtrack_backend/internals/helpers"
)

func validSampleForm() SampleForm {
	f := NewSampleForm()
	f.KitTypeID = uuid.NewString()
	f.Customer = "Trại tôm Minh Phú"
	f.SampleType = "Tôm giống"
	f.ReceivedAt = "2026-03-10"
	f.Technician = "Lan"
	f.Price = "150000"
	f.CategoryID = uuid.NewString()
	f.CompanyName = "Minh Phú"
	f.CustomerName = "Anh Tuấn"
	return f
}

func TestSampleForm_Valid(t *testing.T) {
	assert.Empty(t, validSampleForm().Validate())
}

func TestSampleForm_RequiredMessages(t *testing.T) {
	errs := SampleForm{Status: "draft", BillingStatus: "unpaid", AssignNext: true}.Validate()

	assert.Equal(t, "Khách hàng không được để trống", errs["customer"])
	assert.Equal(t, "Giá không được để trống", errs["price"])
	assert.Equal(t, "Vui lòng chọn danh mục", errs["category_id"])
	assert.Equal(t, "Tên công ty không được để trống", errs["company_name"])
	assert.Equal(t, "Tên khách hàng không được để trống", errs["customer_name"])
	assert.Equal(t, "Số lượng mẫu không được để trống", errs["sl_mau"])
	assert.Equal(t, MsgKitSelection, errs["kit_type_id"])
}

func TestSampleForm_Rules(t *testing.T) {
	f := validSampleForm()
	f.Price = "-1"
	f.SlMau = "0"
	f.Customer = "   "
	errs := f.Validate()
	assert.Equal(t, MsgPriceNegative, errs["price"])
	assert.Equal(t, MsgSlMauPositive, errs["sl_mau"])
	assert.Equal(t, "Khách hàng không được để trống", errs["customer"])

	f = validSampleForm()
	f.AssignNext = false
	f.KitID = ""
	assert.Equal(t, MsgKitSelection, f.Validate()["kit_type_id"])

	f.KitID = uuid.NewString()
	assert.NotContains(t, f.Validate(), "kit_type_id")
}

func TestSampleForm_InvoiceMonthRule(t *testing.T) {
	for _, status := range []string{"invoiced", "eom_credit"} {
		f := validSampleForm()
		f.BillingStatus = status
		assert.Equal(t, MsgInvoiceRequired, f.Validate()["invoice_month"], status)

		f.InvoiceMonth = "2026-03"
		assert.NotContains(t, f.Validate(), "invoice_month", status)
	}
	f := validSampleForm()
	f.BillingStatus = "paid"
	assert.NotContains(t, f.Validate(), "invoice_month")
}

func TestSampleForm_ToRequestPassesServerValidation(t *testing.T) {
	f := validSampleForm()
	f.BillingStatus = "invoiced"
	f.InvoiceMonth = "2026-03"
	f.CompanyRegion = "Cà Mau"
	f.SlMau = "3"

	req := f.ToRequest()
	require.NotNil(t, req.InvoiceMonth)
	assert.Equal(t, "2026-03-01", *req.InvoiceMonth)
	assert.Equal(t, 150000.0, *req.Price)
	assert.Equal(t, 3, *req.SlMau)
	assert.Nil(t, req.KitID)
	assert.Equal(t, "Cà Mau", *req.CompanySnapshot.Region)
	assert.Nil(t, req.CompanySnapshot.Province)

	req.Normalize()
	assert.Empty(t, helper.ValidateStruct(&req, sampleDto.SampleMessages))
}

func TestFromSample_RoundTrip(t *testing.T) {
	inv := "2026-03-01"
	phone := "0909"
	s := sampleDto.SampleResponse{
		KitID:            uuid.New(),
		Customer:         "C",
		SampleType:       "T",
		ReceivedAt:       "2026-03-10",
		Technician:       "Lan",
		Price:            1.5,
		Status:           model.SampleDone,
		BillingStatus:    model.BillingInvoiced,
		InvoiceMonth:     &inv,
		CategoryID:       uuid.New(),
		CompanySnapshot:  model.CompanySnapshot{Name: "Co"},
		CustomerSnapshot: model.CustomerSnapshot{Name: "Cu", Phone: &phone},
		SlMau:            2,
	}
	f := FromSample(s)
	assert.Equal(t, "2026-03", f.InvoiceMonth)
	assert.Equal(t, "1.5", f.Price)
	assert.Equal(t, "0909", f.CustomerPhone)
	assert.False(t, f.AssignNext)
	assert.Empty(t, f.Validate())
}

func TestSampleForm_DraftPatch(t *testing.T) {
	f := validSampleForm()
	f.Status = "done"
	f.Price = ""
	f.SlMau = ""

	p := f.ToDraftPatch()
	assert.Equal(t, "draft", p["status"])
	assert.Equal(t, 0.0, p["price"])
	assert.Equal(t, 1, p["sl_mau"])
	assert.Nil(t, p["note"])
}

func TestKitBatchForm(t *testing.T) {
	f := KitBatchForm{
		BatchCode:   "LOT-2026-001",
		KitTypeID:   uuid.NewString(),
		Supplier:    "ABC",
		PurchasedAt: "2026-03-01",
		UnitCost:    "25000",
		Quantity:    "10",
	}
	assert.Empty(t, f.Validate())

	req := f.ToRequest()
	req.Normalize()
	assert.Equal(t, 10, req.Quantity)
	assert.Empty(t, helper.ValidateStruct(&req, nil))

	bad := f
	bad.Quantity = "101"
	bad.UnitCost = "0"
	bad.ExpiresAt = "2026-03-01"
	errs := bad.Validate()
	assert.Equal(t, MsgQuantityMax, errs["quantity"])
	assert.Equal(t, MsgUnitCostPositive, errs["unit_cost"])
	assert.Equal(t, MsgExpiresAfter, errs["expires_at"])

	empty := KitBatchForm{}.Validate()
	assert.Equal(t, "Vui lòng chọn loại kit", empty["kit_type_id"])
	assert.Equal(t, MsgQuantityMin, empty["quantity"])
}
