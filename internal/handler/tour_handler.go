package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "natours/internal/errors"
	"natours/internal/model"
	"natours/internal/repository"
	"natours/internal/service"
)

var errInvalidYear = apperrors.Validation("Invalid year")

// TourHandler serves tours and their aggregates.
type TourHandler struct {
	*CRUD[model.Tour]
	tours service.TourService
}

// NewTourHandler creates a new tour handler.
func NewTourHandler(repo repository.TourRepository, tours service.TourService) *TourHandler {
	crud := NewCRUD[model.Tour](repo, model.TourQuerySchema,
		WithPreloads[model.Tour]("Guides", "Reviews"),
		WithPrepare[model.Tour](func(_ echo.Context, t *model.Tour) error {
			service.PrepareTour(t)
			return nil
		}),
		WithAfterWrite[model.Tour](func(c echo.Context, _ *model.Tour) error {
			tours.InvalidateStats(c.Request().Context())
			return nil
		}),
	)
	return &TourHandler{CRUD: crud, tours: tours}
}

// StatsResponse wraps the per-difficulty aggregates.
type StatsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Stats []model.DifficultyStats `json:"stats"`
	} `json:"data"`
}

// PlanResponse wraps the monthly plan.
type PlanResponse struct {
	Status  string `json:"status"`
	Results int    `json:"results"`
	Data    struct {
		Plan []model.MonthlyPlan `json:"plan"`
	} `json:"data"`
}

// AliasTopTours rewrites the query to the five best rated, cheapest tours.
func AliasTopTours(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		q := c.QueryParams()
		q.Set("limit", "5")
		q.Set("sort", "-ratingsAverage,price")
		q.Set("fields", "name,price,ratingsAverage,summary,difficulty")
		return next(c)
	}
}

// Stats godoc
// @Summary Tour statistics by difficulty
// @Description Aggregates tours with ratingsAverage of at least 4.5.
// @Tags tours
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /tours/tour-stats [get]
func (h *TourHandler) Stats(c echo.Context) error {
	stats, err := h.tours.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	var resp StatsResponse
	resp.Status = statusSuccess
	resp.Data.Stats = stats
	return c.JSON(http.StatusOK, resp)
}

// MonthlyPlan godoc
// @Summary Tour starts per month
// @Tags tours
// @Produce json
// @Security CookieAuth
// @Param year path int true "Calendar year"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /tours/monthly-plan/{year} [get]
func (h *TourHandler) MonthlyPlan(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		return errInvalidYear
	}
	plan, err := h.tours.MonthlyPlan(c.Request().Context(), year)
	if err != nil {
		return err
	}
	var resp PlanResponse
	resp.Status = statusSuccess
	resp.Results = len(plan)
	resp.Data.Plan = plan
	return c.JSON(http.StatusOK, resp)
}
