package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dimitrije/leaderboard-api/internal/logger"
	"github.com/dimitrije/leaderboard-api/internal/models"
	"github.com/dimitrije/leaderboard-api/internal/services"
	"github.com/dimitrije/leaderboard-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

// RecordHandler serves the create, read and list routes of one schema.
type RecordHandler struct {
	records RecordServiceInterface
	baseURL string
	logger  *zap.Logger
}

func NewRecordHandler(records RecordServiceInterface, baseURL string, log *zap.Logger) *RecordHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RecordHandler{
		records: records,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  log,
	}
}

// ListPath is where the listing of the handler's schema is mounted.
func (h *RecordHandler) ListPath() string {
	return "/" + h.records.Schema().Collection + "/"
}

// ItemPath is the route prefix for single records of the handler's schema.
func (h *RecordHandler) ItemPath() string {
	return "/" + h.records.Schema().Kind + "/"
}

func (h *RecordHandler) Create(c *drift.Context) {
	var raw map[string]any
	if err := c.BindJSON(&raw); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	rec, err := h.records.Create(c.Request.Context(), raw)
	if err != nil {
		h.handleError(c, err)
		return
	}

	_ = c.JSON(http.StatusCreated, rec.ToWire())
}

func (h *RecordHandler) Get(c *drift.Context) {
	rec, err := h.records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, rec.ToWire())
}

func (h *RecordHandler) List(c *drift.Context) {
	page, err := parsePage(c.QueryParam("page"))
	if err != nil {
		c.BadRequest(err.Error())
		return
	}

	result, err := h.records.List(c.Request.Context(), page)
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]map[string]any, 0, len(result.Records))
	for _, rec := range result.Records {
		items = append(items, rec.ToWire())
	}

	_ = c.JSON(http.StatusOK, dto.ListResponse(h.records.Schema().Collection, items, h.links(result.Links)))
}

func (h *RecordHandler) links(l services.PageLinks) dto.PageLinks {
	links := dto.PageLinks{
		Self:  h.pageLink(l.Self),
		First: h.pageLink(l.First),
		Last:  h.pageLink(l.Last),
	}
	if l.Prev != nil {
		prev := h.pageLink(*l.Prev)
		links.Prev = &prev
	}
	if l.Next != nil {
		next := h.pageLink(*l.Next)
		links.Next = &next
	}
	return links
}

func (h *RecordHandler) pageLink(page int) dto.Link {
	return dto.Link{Href: fmt.Sprintf("%s%s?page=%d", h.baseURL, h.ListPath(), page)}
}

func (h *RecordHandler) handleError(c *drift.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.BadRequest(verr.Error())
	case errors.Is(err, services.ErrRecordNotFound):
		c.NotFound(h.records.Schema().Kind + " not found")
	default:
		h.logger.Error("record request failed",
			zap.String("kind", h.records.Schema().Kind),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.InternalServerError("internal server error")
	}
}

// parsePage reads the 1-based page query parameter; an absent value means the
// first page.
func parsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, errors.New("page: must be a positive integer")
	}
	return page, nil
}
