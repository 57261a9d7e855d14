package regionapi

import (
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region/regionsrv"
	"github.com/gofiber/fiber/v2"
)

// RegionHandlers expone el directorio de regiones para los dropdowns.
// Public and read-only: applicants load the address cascade before they have
// any session, so these routes take no auth middleware.
type RegionHandlers struct {
	service *regionsrv.RegionService
}

func NewRegionHandlers(service *regionsrv.RegionService) *RegionHandlers {
	return &RegionHandlers{service: service}
}

func (h *RegionHandlers) RegisterRoutes(router fiber.Router) {
	regions := router.Group("/regions")

	regions.Get("/provinces", h.ListProvinces)
	regions.Get("/regencies", h.ListRegencies)
	regions.Get("/districts", h.ListDistricts)
	regions.Get("/villages", h.ListVillages)
	regions.Get("/villages/:id", h.GetVillage)
}

// parentID parses the given query param; 0 means absent or malformed.
// A malformed parent is treated the same as a missing one: empty list, not 400.
func parentID(c *fiber.Ctx, param string) kernel.RegionID {
	return kernel.ParseRegionID(c.Query(param))
}

func (h *RegionHandlers) ListProvinces(c *fiber.Ctx) error {
	provinces, err := h.service.Provinces(c.Context(), c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(provinces)
}

func (h *RegionHandlers) ListRegencies(c *fiber.Ctx) error {
	regencies, err := h.service.Regencies(c.Context(), parentID(c, "province_id"), c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(regencies)
}

func (h *RegionHandlers) ListDistricts(c *fiber.Ctx) error {
	districts, err := h.service.Districts(c.Context(), parentID(c, "regency_id"), c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(districts)
}

func (h *RegionHandlers) ListVillages(c *fiber.Ctx) error {
	villages, err := h.service.Villages(c.Context(), parentID(c, "district_id"), c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(villages)
}

func (h *RegionHandlers) GetVillage(c *fiber.Ctx) error {
	id := kernel.ParseRegionID(c.Params("id"))

	detail, err := h.service.VillageByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}
