package applicantapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/applicant"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/applicant/applicantsrv"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/authx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/kernel"
)

// ApplicantHandlers expone el ciclo de vida de la biodata.
// Registration and biodata edits come from the mobile app without a session;
// review and listing are back-office operations behind the staff token.
type ApplicantHandlers struct {
	service *applicantsrv.ApplicantService
	auth    *authx.Middleware
}

func NewApplicantHandlers(service *applicantsrv.ApplicantService, auth *authx.Middleware) *ApplicantHandlers {
	return &ApplicantHandlers{
		service: service,
		auth:    auth,
	}
}

func (h *ApplicantHandlers) RegisterRoutes(router fiber.Router) {
	applicants := router.Group("/applicants")

	// applicant-facing (mobile)
	applicants.Post("/", h.Register)
	applicants.Get("/:id", h.Get)
	applicants.Patch("/:id", h.UpdateBiodata)
	applicants.Post("/:id/submit", h.Submit)

	// back-office (admin SPA)
	staff := applicants.Group("", h.auth.Authenticate())
	staff.Get("/", h.auth.RequireScope("applicants:read"), h.List)
	staff.Post("/:id/verify", h.auth.RequireScope("applicants:write"), h.Verify)
	staff.Post("/:id/reject", h.auth.RequireScope("applicants:write"), h.Reject)
	staff.Delete("/:id", h.auth.RequireScope("applicants:write"), h.Delete)
}

func applicantID(c *fiber.Ctx) kernel.ApplicantID {
	return kernel.NewApplicantID(c.Params("id"))
}

func (h *ApplicantHandlers) Register(c *fiber.Ctx) error {
	var req applicant.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return applicant.ErrInvalidRequest().WithCause(err)
	}

	a, err := h.service.Register(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *ApplicantHandlers) Get(c *fiber.Ctx) error {
	a, err := h.service.Get(c.Context(), applicantID(c))
	if err != nil {
		return err
	}
	return c.JSON(a)
}

func (h *ApplicantHandlers) UpdateBiodata(c *fiber.Ctx) error {
	var req applicant.UpdateBiodataRequest
	if err := c.BodyParser(&req); err != nil {
		return applicant.ErrInvalidRequest().WithCause(err)
	}

	a, err := h.service.UpdateBiodata(c.Context(), applicantID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(a)
}

func (h *ApplicantHandlers) Submit(c *fiber.Ctx) error {
	a, err := h.service.Submit(c.Context(), applicantID(c))
	if err != nil {
		return err
	}
	return c.JSON(a)
}

func (h *ApplicantHandlers) List(c *fiber.Ctx) error {
	filter := applicant.ListFilter{
		Status: applicant.Status(c.Query("status")),
		Search: c.Query("search"),
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}

	page, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *ApplicantHandlers) Verify(c *fiber.Ctx) error {
	a, err := h.service.Verify(c.Context(), applicantID(c))
	if err != nil {
		return err
	}
	return c.JSON(a)
}

func (h *ApplicantHandlers) Reject(c *fiber.Ctx) error {
	a, err := h.service.Reject(c.Context(), applicantID(c))
	if err != nil {
		return err
	}
	return c.JSON(a)
}

func (h *ApplicantHandlers) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), applicantID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
