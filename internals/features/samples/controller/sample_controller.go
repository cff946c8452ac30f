package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"labtrack_backend/internals/constants"
	"labtrack_backend/internals/features/samples/dto"
	"labtrack_backend/internals/features/samples/service"
	helper "labtrack_backend/internals/helpers"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SampleController struct {
	Svc *service.Service
}

func NewSampleController(svc *service.Service) *SampleController {
	return &SampleController{Svc: svc}
}

// =========================================================
// GET /api/samples/next-code?receivedAt=YYYY-MM-DD
// =========================================================
func (h *SampleController) NextCode(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("receivedAt"))
	if raw == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, constants.MsgReceivedAtRequired)
	}
	day, ok := helper.ParseDate(raw)
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, constants.MsgReceivedAtInvalid)
	}

	code, err := h.Svc.NextCode(c.UserContext(), day)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	return helper.JsonOK(c, dto.NextCodeResponse{SampleCode: code, ReceivedAt: raw})
}

// =========================================================
// POST /api/samples (editor)
// =========================================================
func (h *SampleController) Create(c *fiber.Ctx) error {
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}

	var req dto.CreateSampleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, constants.MsgInvalidJSON)
	}
	req.Normalize()
	if msg := helper.ValidateStruct(&req, dto.SampleMessages); msg != "" {
		return helper.JsonValidationError(c, msg)
	}

	sample, err := h.Svc.Create(c.UserContext(), actor, req)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	return helper.JsonCreated(c, dto.ToSampleResponse(*sample))
}

// =========================================================
// GET /api/samples?page&pageSize&status&billingStatus&customer
// =========================================================
func (h *SampleController) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, constants.MsgInvalidInput)
	}
	q.Normalize()
	p := helper.ResolvePaging(c, helper.DefaultOpts)

	rows, pagination, err := h.Svc.List(c.UserContext(), q, p)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	return helper.JsonList(c, dto.ToSampleResponses(rows), pagination)
}

// =========================================================
// GET /api/samples/export (xlsx, filter sama dengan list)
// =========================================================
func (h *SampleController) Export(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, constants.MsgInvalidInput)
	}
	q.Normalize()

	b, err := h.Svc.Export(c.UserContext(), q)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgExportFailed)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="samples-%s.xlsx"`, time.Now().Format("20060102")))
	return c.Status(fiber.StatusOK).Send(b)
}

// =========================================================
// GET /api/samples/:id
// =========================================================
func (h *SampleController) Get(c *fiber.Ctx) error {
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	id, err := helper.ParseUUIDParam(c, "id", constants.MsgSampleIDInvalid)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}

	sample, err := h.Svc.Get(c.UserContext(), actor, id)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	return helper.JsonOK(c, dto.ToSampleResponse(*sample))
}

// =========================================================
// PATCH /api/samples/:id (editor)
// =========================================================
func (h *SampleController) Update(c *fiber.Ctx) error {
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	id, err := helper.ParseUUIDParam(c, "id", constants.MsgSampleIDInvalid)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}

	var req dto.UpdateSampleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, constants.MsgInvalidJSON)
	}
	req.Normalize()
	if msg := req.Validate(); msg != "" {
		return helper.JsonValidationError(c, msg)
	}

	sample, err := h.Svc.Update(c.UserContext(), actor, id, req)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	return helper.JsonOK(c, dto.ToSampleResponse(*sample))
}

// =========================================================
// PATCH /api/samples/:id/results (editor)
// =========================================================
func (h *SampleController) ReplaceResults(c *fiber.Ctx) error {
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	id, err := helper.ParseUUIDParam(c, "id", constants.MsgSampleIDInvalid)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}

	var req dto.ReplaceResultsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, constants.MsgInvalidJSON)
	}
	req.Normalize()
	if msg := helper.ValidateStruct(&req, dto.ResultMessages); msg != "" {
		return helper.JsonValidationError(c, msg)
	}

	rows, err := h.Svc.ReplaceResults(c.UserContext(), actor, id, req)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	return helper.JsonWithCount(c, dto.ToResultResponses(rows), len(rows))
}

// =========================================================
// GET /api/samples/:id/report-message
// =========================================================
func (h *SampleController) ReportMessage(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", constants.MsgSampleIDInvalid)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}

	report, err := h.Svc.ReportMessage(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err, constants.MsgGenericError)
	}
	return helper.JsonOK(c, report)
}
