package entities

import (
	"errors"
	"strconv"

	"entity-store/core/logger"
	"entity-store/core/store"
	"entity-store/core/transport"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the entity inspection API.
type Handler struct {
	client *Client
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(client *Client, l *zap.Logger) *Handler {
	return &Handler{client: client, logger: logger.OrNop(l)}
}

// RegisterRoutes registers the entity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/entities")
	group.Get("/", h.HandleListTypes)
	group.Get("/:type", h.HandleFindAll)
	group.Get("/:type/:id", h.HandleFind)
	group.Post("/:type/refresh", h.HandleRefresh)
}

// HandleListTypes returns the schema's type names.
func (h *Handler) HandleListTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"types": h.client.Registry().Types()})
}

// HandleFindAll returns the records of a type, filtered by the query
// parameters used as an equality predicate. Values are typed first; when
// that matches nothing the raw strings are tried, so ?code=007 still finds
// a record whose code is the string "007".
func (h *Handler) HandleFindAll(c *fiber.Ctx) error {
	typ, raw := c.Params("type"), c.Queries()
	if len(raw) == 0 {
		records, err := h.client.FindAll(typ, nil)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(records)
	}

	typed := predicate(raw)
	records, err := h.client.FindAll(typ, typed)
	if err != nil {
		return h.fail(c, err)
	}
	if len(records) == 0 && !allStrings(typed) {
		literal := make(map[string]any, len(raw))
		for k, v := range raw {
			literal[k] = v
		}
		if records, err = h.client.FindAll(typ, literal); err != nil {
			return h.fail(c, err)
		}
	}
	return c.JSON(records)
}

// HandleFind returns one record by id.
func (h *Handler) HandleFind(c *fiber.Ctx) error {
	typ, id := c.Params("type"), c.Params("id")
	record, err := h.client.Find(typ, id)
	if err != nil {
		return h.fail(c, err)
	}
	if record == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "record " + id + " of type " + typ + " not found",
		})
	}
	return c.JSON(record)
}

// HandleRefresh fetches a type from the remote API, forwarding the query
// parameters, and reports how many records were ingested.
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	typ := c.Params("type")
	params := make(map[string]any)
	for k, v := range c.Queries() {
		params[k] = v
	}
	res, err := h.client.Get(c.UserContext(), typ, params)
	if err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.logger, c).Info("Refreshed type", zap.String("type", typ), zap.Int("records", len(res.Records)))
	return c.JSON(fiber.Map{"type": typ, "records": len(res.Records)})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrUnknownType):
		status = fiber.StatusNotFound
	case errors.Is(err, store.ErrInvalidQuery), errors.Is(err, store.ErrMissingIdentity):
		status = fiber.StatusBadRequest
	case errors.Is(err, transport.ErrTransportFailure), errors.Is(err, store.ErrInvalidPayload):
		status = fiber.StatusBadGateway
	}
	if status >= fiber.StatusInternalServerError {
		logger.WithRayID(h.logger, c).Error("Entity request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// predicate converts query parameters to typed values so that numeric and
// boolean attributes can be matched.
func predicate(params map[string]string) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = queryValue(v)
	}
	return out
}

func allStrings(params map[string]any) bool {
	for _, v := range params {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}

func queryValue(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
