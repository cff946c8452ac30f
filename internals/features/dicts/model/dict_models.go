package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
   Reference tables (read-only dari sisi aplikasi)
========================================================= */

type CategoryModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string    `gorm:"column:code" json:"code"`
	Name        string    `gorm:"column:name" json:"name"`
	Description *string   `gorm:"column:description" json:"description"`
	IsActive    bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (CategoryModel) TableName() string { return "categories" }

type CompanyModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code      string    `gorm:"column:code" json:"code"`
	Name      string    `gorm:"column:name" json:"name"`
	Address   *string   `gorm:"column:address" json:"address"`
	Phone     *string   `gorm:"column:phone" json:"phone"`
	IsActive  bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (CompanyModel) TableName() string { return "companies" }

// CompanyRef: bentuk ringkas untuk relasi customer → company(id, name)
type CompanyRef struct {
	ID   uuid.UUID `gorm:"column:id" json:"id"`
	Name string    `gorm:"column:name" json:"name"`
}

func (CompanyRef) TableName() string { return "companies" }

type CustomerModel struct {
	ID        uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code      string      `gorm:"column:code" json:"code"`
	Name      string      `gorm:"column:name" json:"name"`
	CompanyID *uuid.UUID  `gorm:"column:company_id;type:uuid" json:"company_id"`
	Phone     *string     `gorm:"column:phone" json:"phone"`
	Email     *string     `gorm:"column:email" json:"email"`
	Address   *string     `gorm:"column:address" json:"address"`
	IsActive  bool        `gorm:"column:is_active" json:"is_active"`
	CreatedAt time.Time   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time   `gorm:"column:updated_at" json:"updated_at"`
	Company   *CompanyRef `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`
}

func (CustomerModel) TableName() string { return "customers" }

type KitTypeModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code         string    `gorm:"column:code" json:"code"`
	Name         string    `gorm:"column:name" json:"name"`
	Description  *string   `gorm:"column:description" json:"description"`
	DefaultSlMau *int      `gorm:"column:default_sl_mau" json:"default_sl_mau,omitempty"`
	IsActive     bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (KitTypeModel) TableName() string { return "kit_types" }

type SampleTypeModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string    `gorm:"column:code" json:"code"`
	Name        string    `gorm:"column:name" json:"name"`
	Description *string   `gorm:"column:description" json:"description"`
	IsActive    bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (SampleTypeModel) TableName() string { return "sample_types" }

// TypeRef: kit_type / sample_type ringkas (id, code, name) untuk cost catalog
type TypeRef struct {
	ID   uuid.UUID `gorm:"column:id" json:"id"`
	Code string    `gorm:"column:code" json:"code"`
	Name string    `gorm:"column:name" json:"name"`
}

type CostCatalogModel struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	KitTypeID     *uuid.UUID `gorm:"column:kit_type_id;type:uuid" json:"kit_type_id"`
	SampleTypeID  *uuid.UUID `gorm:"column:sample_type_id;type:uuid" json:"sample_type_id"`
	CostPerUnit   float64    `gorm:"column:cost_per_unit" json:"cost_per_unit"`
	EffectiveFrom time.Time  `gorm:"column:effective_from;type:date" json:"effective_from"`
	EffectiveTo   *time.Time `gorm:"column:effective_to;type:date" json:"effective_to"`
	IsActive      bool       `gorm:"column:is_active" json:"is_active"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at" json:"updated_at"`

	KitType    *KitTypeRef    `gorm:"foreignKey:KitTypeID;references:ID" json:"kit_type,omitempty"`
	SampleType *SampleTypeRef `gorm:"foreignKey:SampleTypeID;references:ID" json:"sample_type,omitempty"`
}

func (CostCatalogModel) TableName() string { return "cost_catalog" }

type KitTypeRef TypeRef

func (KitTypeRef) TableName() string { return "kit_types" }

type SampleTypeRef TypeRef

func (SampleTypeRef) TableName() string { return "sample_types" }
