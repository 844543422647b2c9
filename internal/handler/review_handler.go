package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"natours/internal/middleware"
	"natours/internal/model"
	"natours/internal/repository"
	"natours/internal/service"
)

// NewReviewHandler builds the review CRUD. Reviews listed under /tours/:tourId are scoped to that
// tour, new reviews default to the routed tour and the signed-in author, and every write refreshes
// the tour's rating aggregate.
func NewReviewHandler(repo repository.ReviewRepository, reviews service.ReviewService) *CRUD[model.Review] {
	return NewCRUD[model.Review](repo, model.ReviewQuerySchema,
		WithParent[model.Review]("tourId", "tour_id"),
		WithPreloads[model.Review]("Author"),
		WithListPreloads[model.Review]("Author"),
		WithStrippedFields[model.Review]("tour", "user"),
		WithPrepare[model.Review](func(c echo.Context, r *model.Review) error {
			if r.TourID == uuid.Nil && c.Param("tourId") != "" {
				tourID, err := parseID(c, "tourId")
				if err != nil {
					return err
				}
				r.TourID = tourID
			}
			if r.UserID == uuid.Nil {
				if user := middleware.CurrentUser(c); user != nil {
					r.UserID = user.ID
				}
			}
			return nil
		}),
		WithAfterWrite[model.Review](func(c echo.Context, r *model.Review) error {
			return reviews.RecalculateRatings(c.Request().Context(), r.TourID)
		}),
	)
}
