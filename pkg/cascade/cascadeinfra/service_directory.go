package cascadeinfra

import (
	"context"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/cascade"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region/regionsrv"
)

// ServiceDirectory adapta el servicio de regiones in-process al contrato del
// cascade (para el admin SPA renderizado desde este backend y para tests de
// integración sin red)
type ServiceDirectory struct {
	service *regionsrv.RegionService
}

func NewServiceDirectory(service *regionsrv.RegionService) *ServiceDirectory {
	return &ServiceDirectory{service: service}
}

func (d *ServiceDirectory) Provinces(ctx context.Context, search string) ([]cascade.Option, error) {
	provinces, err := d.service.Provinces(ctx, search)
	if err != nil {
		return nil, err
	}
	options := make([]cascade.Option, 0, len(provinces))
	for _, p := range provinces {
		options = append(options, cascade.Option{ID: p.ID, Name: p.Name})
	}
	return options, nil
}

func (d *ServiceDirectory) Regencies(ctx context.Context, provinceID kernel.RegionID, search string) ([]cascade.Option, error) {
	regencies, err := d.service.Regencies(ctx, provinceID, search)
	if err != nil {
		return nil, err
	}
	options := make([]cascade.Option, 0, len(regencies))
	for _, r := range regencies {
		options = append(options, cascade.Option{ID: r.ID, Name: r.Name})
	}
	return options, nil
}

func (d *ServiceDirectory) Districts(ctx context.Context, regencyID kernel.RegionID, search string) ([]cascade.Option, error) {
	districts, err := d.service.Districts(ctx, regencyID, search)
	if err != nil {
		return nil, err
	}
	options := make([]cascade.Option, 0, len(districts))
	for _, dist := range districts {
		options = append(options, cascade.Option{ID: dist.ID, Name: dist.Name})
	}
	return options, nil
}

func (d *ServiceDirectory) Villages(ctx context.Context, districtID kernel.RegionID, search string) ([]cascade.Option, error) {
	villages, err := d.service.Villages(ctx, districtID, search)
	if err != nil {
		return nil, err
	}
	options := make([]cascade.Option, 0, len(villages))
	for _, v := range villages {
		options = append(options, cascade.Option{ID: v.ID, Name: v.Name})
	}
	return options, nil
}

func (d *ServiceDirectory) Village(ctx context.Context, id kernel.RegionID) (*cascade.VillageRef, error) {
	detail, err := d.service.VillageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &cascade.VillageRef{
		ID:         detail.ID,
		Name:       detail.Name,
		DistrictID: detail.DistrictID,
	}, nil
}

var _ cascade.Directory = (*ServiceDirectory)(nil)
