package service

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"labtrack_backend/internals/constants"
	"labtrack_backend/internals/features/dicts/model"
	helper "labtrack_backend/internals/helpers"
)

// Resource yang bisa di-list lewat /api/dicts/:resource
const (
	ResourceCategories  = "categories"
	ResourceCompanies   = "companies"
	ResourceCosts       = "costs"
	ResourceCustomers   = "customers"
	ResourceKitTypes    = "kit-types"
	ResourceSampleTypes = "sample-types"
)

var failMessages = map[string]string{
	ResourceCategories:  constants.MsgDictCategories,
	ResourceCompanies:   constants.MsgDictCompanies,
	ResourceCosts:       constants.MsgDictCosts,
	ResourceCustomers:   constants.MsgDictCustomers,
	ResourceKitTypes:    constants.MsgDictKitTypes,
	ResourceSampleTypes: constants.MsgDictSampleTypes,
}

// FailMessage: pesan 500 baku per resource
func FailMessage(resource string) string {
	if msg, ok := failMessages[resource]; ok {
		return msg
	}
	return constants.MsgGenericError
}

func IsKnownResource(resource string) bool {
	_, ok := failMessages[resource]
	return ok
}

// Query: Search sudah dinormalisasi (trim + NFC). "" = tanpa filter.
type Query struct {
	ActiveOnly bool
	Search     string
}

type Store interface {
	Categories(ctx context.Context, q Query) ([]model.CategoryModel, error)
	Companies(ctx context.Context, q Query) ([]model.CompanyModel, error)
	Customers(ctx context.Context, q Query) ([]model.CustomerModel, error)
	KitTypes(ctx context.Context, q Query) ([]model.KitTypeModel, error)
	SampleTypes(ctx context.Context, q Query) ([]model.SampleTypeModel, error)
	Costs(ctx context.Context, q Query) ([]model.CostCatalogModel, error)
}

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// List mengembalikan slice model sesuai resource (tidak pernah nil).
// Resource tak dikenal → 404; error backend dikembalikan mentah.
func (s *Service) List(ctx context.Context, resource string, q Query) (any, error) {
	q.Search = helper.NormalizeSearch(q.Search)

	switch resource {
	case ResourceCategories:
		return nonNil(s.store.Categories(ctx, q))
	case ResourceCompanies:
		return nonNil(s.store.Companies(ctx, q))
	case ResourceCustomers:
		return nonNil(s.store.Customers(ctx, q))
	case ResourceKitTypes:
		return nonNil(s.store.KitTypes(ctx, q))
	case ResourceSampleTypes:
		return nonNil(s.store.SampleTypes(ctx, q))
	case ResourceCosts:
		return nonNil(s.store.Costs(ctx, q))
	default:
		return nil, fiber.NewError(fiber.StatusNotFound, constants.MsgDictUnknown)
	}
}

// nonNil: hasil kosong tetap [] di JSON
func nonNil[T any](rows []T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}
