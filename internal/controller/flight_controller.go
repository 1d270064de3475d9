package controller

import (
	"airport-assistant-be/internal/pkg/serverutils"
	"airport-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFlightController interface {
	RegisterRoutes(r fiber.Router)
	GetFlight(ctx *fiber.Ctx) error
}

type flightController struct {
	service service.IChatService
}

func NewFlightController(service service.IChatService) IFlightController {
	return &flightController{service: service}
}

func (c *flightController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/flights")
	h.Get("/:number", c.GetFlight)
}

// GetFlight looks a flight up directly, outside any conversation. The
// connector always resolves to a record, so this cannot 404.
func (c *flightController) GetFlight(ctx *fiber.Ctx) error {
	number := ctx.Params("number")
	if number == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "flight number is required"))
	}
	date := ctx.Query("date", "")

	record := c.service.FlightStatus(ctx.Context(), number, date)
	return ctx.JSON(serverutils.SuccessResponse("Flight status", record))
}
