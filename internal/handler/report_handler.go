package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/model"
	"github.com/fairyhunter13/coupon-directory-analytics/internal/service"
)

// DashboardServiceInterface defines the dashboard aggregation operations.
type DashboardServiceInterface interface {
	Summary(ctx context.Context, windowDays int) (*model.DashboardSummary, error)
}

// RankerInterface defines the top-N ranking operation.
type RankerInterface interface {
	Top(ctx context.Context, q model.TopQuery) (*model.TopResult, error)
}

// reportQueryTimeout bounds each report's database work.
const reportQueryTimeout = 15 * time.Second

// ReportHandler serves the admin reporting endpoints.
type ReportHandler struct {
	dashboard    DashboardServiceInterface
	ranker       RankerInterface
	validator    *validator.Validate
	defaultDays  int
	queryTimeout time.Duration
}

// NewReportHandler creates a new ReportHandler. defaultDays is the chart window
// used when the request does not specify one.
func NewReportHandler(dashboard DashboardServiceInterface, ranker RankerInterface, v *validator.Validate, defaultDays int) *ReportHandler {
	return &ReportHandler{
		dashboard:    dashboard,
		ranker:       ranker,
		validator:    v,
		defaultDays:  defaultDays,
		queryTimeout: reportQueryTimeout,
	}
}

// queryContext derives the context for a report's reads from the request's
// user context, so cancellation set up by middleware propagates.
func (h *ReportHandler) queryContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.queryTimeout)
}

type dashboardQuery struct {
	Days int `query:"days" validate:"omitempty,min=1,max=365"`
}

// periodQuery is the raw month/year pair. It only takes effect when both are
// present; either one alone is ignored as if neither were sent.
type periodQuery struct {
	Month string `query:"month"`
	Year  string `query:"year"`
}

type monthPeriod struct {
	Month int `validate:"min=1,max=12"`
	Year  int `validate:"min=1000,max=9999"`
}

// filter returns the month filter for a complete pair, nil for a partial one.
func (q periodQuery) filter(v *validator.Validate) (*model.MonthFilter, string) {
	if q.Month == "" || q.Year == "" {
		return nil, ""
	}
	month, errMonth := strconv.Atoi(q.Month)
	year, errYear := strconv.Atoi(q.Year)
	if errMonth != nil || errYear != nil {
		return nil, "invalid request: month and year must be numbers"
	}
	if err := v.Struct(monthPeriod{Month: month, Year: year}); err != nil {
		return nil, formatValidationError(err)
	}
	return model.NewMonthFilter(year, month), ""
}

// Dashboard handles GET /api/admin/reports/dashboard.
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	var q dashboardQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "invalid request: days must be a number")
	}
	if err := h.validator.Struct(q); err != nil {
		return badRequest(c, formatValidationError(err))
	}
	days := q.Days
	if days == 0 {
		days = h.defaultDays
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	summary, err := h.dashboard.Summary(ctx, days)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return badRequest(c, "invalid request")
		}
		return internalError(c, err, "failed to build dashboard summary")
	}

	return c.JSON(fiber.Map{"success": true, "data": summary})
}

// TopCoupons handles GET /api/admin/reports/dashboard/top-coupons.
func (h *ReportHandler) TopCoupons(c *fiber.Ctx) error {
	return h.top(c, model.TargetCoupon, "Top coupons retrieved")
}

// TopStores handles GET /api/admin/reports/dashboard/top-stores.
func (h *ReportHandler) TopStores(c *fiber.Ctx) error {
	return h.top(c, model.TargetStore, "Top stores retrieved")
}

func (h *ReportHandler) top(c *fiber.Ctx, targetType model.TargetType, message string) error {
	var pq periodQuery
	if err := c.QueryParser(&pq); err != nil {
		return badRequest(c, "invalid request query")
	}
	period, msg := pq.filter(h.validator)
	if msg != "" {
		return badRequest(c, msg)
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	result, err := h.ranker.Top(ctx, model.TopQuery{
		TargetType: targetType,
		Limit:      parseLimit(c.Query("limit")),
		Language:   RequestLanguage(c),
		Period:     period,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedTarget) {
			return badRequest(c, "invalid request: unsupported entity type")
		}
		return internalError(c, err, "failed to rank "+string(targetType)+" targets")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"meta":    fiber.Map{"filter": result.Filter},
		"data":    result.Entities,
	})
}

// parseLimit falls back to the default for absent or non-numeric input.
// Range clamping happens in the ranker.
func parseLimit(raw string) int {
	if raw == "" {
		return service.DefaultTopLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return service.DefaultTopLimit
	}
	return n
}
