package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	kitModel "labtrack_backend/internals/features/kits/model"
)

type SampleStatus string

const (
	SampleDraft    SampleStatus = "draft"
	SampleDone     SampleStatus = "done"
	SampleApproved SampleStatus = "approved"
)

type BillingStatus string

const (
	BillingUnpaid    BillingStatus = "unpaid"
	BillingInvoiced  BillingStatus = "invoiced"
	BillingPaid      BillingStatus = "paid"
	BillingEOMCredit BillingStatus = "eom_credit"
)

// NeedsInvoiceMonth: billing yang wajib punya invoice_month (dipakai form)
func (b BillingStatus) NeedsInvoiceMonth() bool {
	return b == BillingInvoiced || b == BillingEOMCredit
}

// Kode marker hasil uji
const (
	MetricCLGan        = "CL_GAN"
	MetricWSSV         = "WSSV"
	MetricEHP          = "EHP"
	MetricEMS          = "EMS"
	MetricTPD          = "TPD"
	MetricKhuan        = "KHUAN"
	MetricMBV          = "MBV"
	MetricDIV1         = "DIV1"
	MetricDangKhac     = "DANG_KHAC"
	MetricViKhuanViNam = "VI_KHUAN_VI_NAM"
	MetricTamSoat      = "TAM_SOAT"
)

var AllMetricCodes = []string{
	MetricCLGan, MetricWSSV, MetricEHP, MetricEMS, MetricTPD, MetricKhuan,
	MetricMBV, MetricDIV1, MetricDangKhac, MetricViKhuanViNam, MetricTamSoat,
}

// Snapshot disimpan apa adanya saat sampel dibuat (jsonb)
type CompanySnapshot struct {
	Name     string  `json:"name"`
	Region   *string `json:"region,omitempty"`
	Province *string `json:"province,omitempty"`
}

type CustomerSnapshot struct {
	Name   string  `json:"name"`
	Phone  *string `json:"phone,omitempty"`
	Region *string `json:"region,omitempty"`
}

type SampleModel struct {
	ID               uuid.UUID                            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	KitID            uuid.UUID                            `gorm:"column:kit_id;type:uuid;not null" json:"kit_id"`
	SampleCode       string                               `gorm:"column:sample_code;type:varchar(30);not null;uniqueIndex" json:"sample_code"`
	Customer         string                               `gorm:"column:customer;type:varchar(200);not null" json:"customer"`
	SampleType       string                               `gorm:"column:sample_type;type:varchar(150);not null" json:"sample_type"`
	ReceivedAt       time.Time                            `gorm:"column:received_at;type:date;not null" json:"received_at"`
	CollectedAt      *time.Time                           `gorm:"column:collected_at;type:date" json:"collected_at"`
	Technician       string                               `gorm:"column:technician;type:varchar(150);not null" json:"technician"`
	Price            float64                              `gorm:"column:price;type:numeric(14,2);not null" json:"price"`
	Status           SampleStatus                         `gorm:"column:status;type:varchar(20);not null;default:draft" json:"status"`
	BillingStatus    BillingStatus                        `gorm:"column:billing_status;type:varchar(20);not null;default:unpaid" json:"billing_status"`
	InvoiceMonth     *time.Time                           `gorm:"column:invoice_month;type:date" json:"invoice_month"`
	CategoryID       uuid.UUID                            `gorm:"column:category_id;type:uuid;not null" json:"category_id"`
	CompanySnapshot  datatypes.JSONType[CompanySnapshot]  `gorm:"column:company_snapshot;type:jsonb;not null" json:"company_snapshot"`
	CustomerSnapshot datatypes.JSONType[CustomerSnapshot] `gorm:"column:customer_snapshot;type:jsonb;not null" json:"customer_snapshot"`
	SlMau            int                                  `gorm:"column:sl_mau;not null;default:1" json:"sl_mau"`
	Note             *string                              `gorm:"column:note" json:"note"`
	CreatedBy        *uuid.UUID                           `gorm:"column:created_by;type:uuid" json:"created_by"`
	CreatedAt        time.Time                            `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                            `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`

	Kit     *kitModel.KitModel  `gorm:"foreignKey:KitID;references:ID" json:"kit,omitempty"`
	Results []SampleResultModel `gorm:"foreignKey:SampleID;references:ID" json:"results,omitempty"`
}

func (SampleModel) TableName() string { return "samples" }

type SampleResultModel struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SampleID   uuid.UUID `gorm:"column:sample_id;type:uuid;not null;index" json:"sample_id"`
	MetricCode string    `gorm:"column:metric_code;type:varchar(30);not null" json:"metric_code"`
	MetricName string    `gorm:"column:metric_name;type:varchar(150);not null" json:"metric_name"`
	ValueNum   *float64  `gorm:"column:value_num;type:numeric(14,4)" json:"value_num"`
	ValueText  *string   `gorm:"column:value_text;type:varchar(100)" json:"value_text"`
	Unit       string    `gorm:"column:unit;type:varchar(30);not null;default:''" json:"unit"`
	RefLow     *float64  `gorm:"column:ref_low;type:numeric(14,4)" json:"ref_low"`
	RefHigh    *float64  `gorm:"column:ref_high;type:numeric(14,4)" json:"ref_high"`
	Position   int       `gorm:"column:position;not null" json:"position"` // urutan input, satu insert berbagi created_at
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
}

// ResultOrder: urutan baku hasil uji (urutan saat dikirim)
const ResultOrder = "position ASC, created_at ASC"

func (SampleResultModel) TableName() string { return "sample_results" }

// NegativeText: value_text "-" berarti teruji negatif, value_num dipaksa 0
const NegativeText = "-"

// EffectiveValue: nilai numerik setelah normalisasi sentinel "-"
func (r SampleResultModel) EffectiveValue() float64 {
	if r.ValueText != nil && *r.ValueText == NegativeText {
		return 0
	}
	if r.ValueNum == nil {
		return 0
	}
	return *r.ValueNum
}
