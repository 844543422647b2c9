package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "natours/internal/errors"
	"natours/internal/model"
	"natours/internal/query"
	"natours/internal/service"
)

func tourRoutes(repo *MockRepository[model.Tour], opts ...Option[model.Tour]) *echo.Echo {
	opts = append([]Option[model.Tour]{
		WithPrepare[model.Tour](func(_ echo.Context, t *model.Tour) error {
			service.PrepareTour(t)
			return nil
		}),
	}, opts...)
	h := NewCRUD[model.Tour](repo, model.TourQuerySchema, opts...)

	e := newTestEcho()
	e.GET("/tours", h.List)
	e.GET("/tours/:id", h.Get)
	e.POST("/tours", h.Create)
	e.PATCH("/tours/:id", h.Update)
	e.DELETE("/tours/:id", h.Delete)
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func validTour() *model.Tour {
	return &model.Tour{
		ID:           uuid.New(),
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   model.DifficultyEasy,
		Price:        decimal.NewFromInt(397),
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:   "tour-1-cover.jpg",
	}
}

func TestCRUD_ListEmpty(t *testing.T) {
	repo := new(MockRepository[model.Tour])
	repo.On("List", mock.Anything, mock.AnythingOfType("*query.Descriptor")).Return([]model.Tour{}, nil)

	rec := serve(tourRoutes(repo), http.MethodGet, "/tours", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","results":0,"data":{"data":[]}}`, rec.Body.String())
}

func TestCRUD_ListPassesDescriptor(t *testing.T) {
	repo := new(MockRepository[model.Tour])
	repo.On("List", mock.Anything, mock.MatchedBy(func(d *query.Descriptor) bool {
		return len(d.Conditions) == 1 &&
			d.Conditions[0].Column == "price" &&
			d.Conditions[0].Op == query.OpGte &&
			d.Page == 2 && d.Limit == 3
	})).Return([]model.Tour{*validTour()}, nil)

	rec := serve(tourRoutes(repo), http.MethodGet, "/tours?price[gte]=100&page=2&limit=3", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Results int `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Results)
	repo.AssertExpectations(t)
}

func TestCRUD_ListRejectsBadQuery(t *testing.T) {
	repo := new(MockRepository[model.Tour])

	rec := serve(tourRoutes(repo), http.MethodGet, "/tours?secretTour=true", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid filter field: secretTour", decodeError(t, rec).Message)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestCRUD_ListScopedToParent(t *testing.T) {
	tourID := uuid.New()
	repo := new(MockRepository[model.Review])
	repo.On("List", mock.Anything, mock.MatchedBy(func(d *query.Descriptor) bool {
		last := d.Conditions[len(d.Conditions)-1]
		return last.Column == "tour_id" && last.Op == query.OpEq && last.Value == tourID
	})).Return([]model.Review{}, nil)

	h := NewCRUD[model.Review](repo, model.ReviewQuerySchema, WithParent[model.Review]("tourId", "tour_id"))
	e := newTestEcho()
	e.GET("/tours/:tourId/reviews", h.List)
	e.GET("/reviews", h.List)

	rec := serve(e, http.MethodGet, "/tours/"+tourID.String()+"/reviews", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)

	unscoped := new(MockRepository[model.Review])
	unscoped.On("List", mock.Anything, mock.MatchedBy(func(d *query.Descriptor) bool {
		return len(d.Conditions) == 0
	})).Return([]model.Review{}, nil)
	h.repo = unscoped
	rec = serve(e, http.MethodGet, "/reviews", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	unscoped.AssertExpectations(t)
}

// urnShapedID has the length of a urn:uuid string but not its prefix.
const urnShapedID = "xxxxxxxxxaaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

// preloadRecorder captures the associations List was asked to load.
type preloadRecorder[T any] struct {
	*MockRepository[T]
	listPreloads []string
}

func (r *preloadRecorder[T]) List(ctx context.Context, desc *query.Descriptor, preloads ...string) ([]T, error) {
	r.listPreloads = preloads
	return r.MockRepository.List(ctx, desc)
}

func TestCRUD_ListPreloads(t *testing.T) {
	repo := &preloadRecorder[model.Review]{MockRepository: new(MockRepository[model.Review])}
	repo.On("List", mock.Anything, mock.Anything).Return([]model.Review{}, nil)

	h := NewCRUD[model.Review](repo, model.ReviewQuerySchema, WithListPreloads[model.Review]("Author"))
	e := newTestEcho()
	e.GET("/reviews", h.List)

	rec := serve(e, http.MethodGet, "/reviews", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Author"}, repo.listPreloads)
}

func TestCRUD_RejectsMalformedIDs(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "list parent", method: http.MethodGet, target: "/tours/" + urnShapedID + "/reviews"},
		{name: "update", method: http.MethodPatch, target: "/reviews/" + urnShapedID, body: `{"rating":4}`},
		{name: "delete", method: http.MethodDelete, target: "/reviews/" + urnShapedID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository[model.Review])
			h := NewCRUD[model.Review](repo, model.ReviewQuerySchema, WithParent[model.Review]("tourId", "tour_id"))
			e := newTestEcho()
			e.GET("/tours/:tourId/reviews", h.List)
			e.PATCH("/reviews/:id", h.Update)
			e.DELETE("/reviews/:id", h.Delete)

			rec := serve(e, tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid id", decodeError(t, rec).Message)
			assert.Empty(t, repo.Calls)
		})
	}
}

func TestCRUD_CreateDanglingReference(t *testing.T) {
	repo := new(MockRepository[model.Review])
	repo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrForeignKeyViolated)

	h := NewCRUD[model.Review](repo, model.ReviewQuerySchema)
	e := newTestEcho()
	e.POST("/reviews", h.Create)

	body := `{"review":"Loved it","rating":5,"tour":"` + uuid.NewString() + `","user":"` + uuid.NewString() + `"}`
	rec := serve(e, http.MethodPost, "/reviews", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "fail", resp.Status)
	assert.Equal(t, "Invalid reference: the related document does not exist", resp.Message)
}

func TestCRUD_Get(t *testing.T) {
	tour := validTour()
	missing := uuid.New()

	tests := []struct {
		name       string
		target     string
		setup      func(*MockRepository[model.Tour])
		wantStatus int
		wantMsg    string
	}{
		{
			name:   "found",
			target: "/tours/" + tour.ID.String(),
			setup: func(m *MockRepository[model.Tour]) {
				m.On("FindByID", mock.Anything, tour.ID).Return(tour, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "missing",
			target: "/tours/" + missing.String(),
			setup: func(m *MockRepository[model.Tour]) {
				m.On("FindByID", mock.Anything, missing).Return(nil, gorm.ErrRecordNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "No document found with that ID",
		},
		{
			name:       "malformed id",
			target:     "/tours/not-a-uuid",
			setup:      func(m *MockRepository[model.Tour]) {},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid id",
		},
		{
			name:       "urn length id without urn prefix",
			target:     "/tours/" + urnShapedID,
			setup:      func(m *MockRepository[model.Tour]) {},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository[model.Tour])
			tt.setup(repo)

			rec := serve(tourRoutes(repo), http.MethodGet, tt.target, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeError(t, rec).Message)
			} else {
				assert.Contains(t, rec.Body.String(), `"name":"The Forest Hiker"`)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestCRUD_Create(t *testing.T) {
	repo := new(MockRepository[model.Tour])
	repo.On("Create", mock.Anything, mock.MatchedBy(func(tour *model.Tour) bool {
		return tour.Slug == "the-forest-hiker" && tour.Price.Equal(decimal.NewFromInt(397))
	})).Return(nil)

	written := false
	e := tourRoutes(repo, WithAfterWrite[model.Tour](func(echo.Context, *model.Tour) error {
		written = true
		return nil
	}))
	body := `{"name":"The Forest Hiker","duration":5,"maxGroupSize":25,"difficulty":"easy","price":397,
		"summary":"Breathtaking hike","imageCover":"tour-1-cover.jpg"}`

	rec := serve(e, http.MethodPost, "/tours", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"the-forest-hiker"`)
	assert.True(t, written)
	repo.AssertExpectations(t)
}

func TestCRUD_CreateRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "struct tags",
			body:    `{"name":"Short","duration":5,"maxGroupSize":25,"difficulty":"easy","price":397,"summary":"s","imageCover":"c.jpg"}`,
			wantMsg: "Invalid input data: Name must satisfy min=10",
		},
		{
			name: "discount above price",
			body: `{"name":"The Forest Hiker","duration":5,"maxGroupSize":25,"difficulty":"easy","price":397,
				"priceDiscount":500,"summary":"s","imageCover":"c.jpg"}`,
			wantMsg: "Invalid input data: Discount price should be below regular price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository[model.Tour])

			rec := serve(tourRoutes(repo), http.MethodPost, "/tours", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec).Message)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCRUD_UpdateStripsFields(t *testing.T) {
	user := &model.User{ID: uuid.New(), Name: "Old Name", Email: "old@example.io", Role: model.RoleUser, PasswordHash: "hash"}
	repo := new(MockRepository[model.User])
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Name == "New Name" && u.PasswordHash == "hash" && u.ID == user.ID
	})).Return(nil)

	h := NewCRUD[model.User](repo, model.UserQuerySchema, WithStrippedFields[model.User]("password", "passwordConfirm"))
	e := newTestEcho()
	e.PATCH("/users/:id", h.Update)

	body := `{"id":"` + uuid.NewString() + `","name":"New Name","password":"hijack123","passwordConfirm":"hijack123"}`
	rec := serve(e, http.MethodPatch, "/users/"+user.ID.String(), body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"New Name"`)
	assert.NotContains(t, rec.Body.String(), "hash")
	repo.AssertExpectations(t)
}

func TestCRUD_UpdateMissing(t *testing.T) {
	id := uuid.New()
	repo := new(MockRepository[model.Tour])
	repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	rec := serve(tourRoutes(repo), http.MethodPatch, "/tours/"+id.String(), `{"price":10}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCRUD_Delete(t *testing.T) {
	existing, missing, referenced := uuid.New(), uuid.New(), uuid.New()
	repo := new(MockRepository[model.User])
	repo.On("Delete", mock.Anything, existing).Return(nil)
	repo.On("Delete", mock.Anything, missing).Return(gorm.ErrRecordNotFound)
	repo.On("Delete", mock.Anything, referenced).Return(gorm.ErrForeignKeyViolated)

	h := NewCRUD[model.User](repo, model.UserQuerySchema)
	e := newTestEcho()
	e.DELETE("/users/:id", h.Delete)

	rec := serve(e, http.MethodDelete, "/users/"+existing.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(e, http.MethodDelete, "/users/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "fail", decodeError(t, rec).Status)

	rec = serve(e, http.MethodDelete, "/users/"+referenced.String(), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid reference: the related document does not exist", decodeError(t, rec).Message)
}

func TestCRUD_DeleteRunsAfterWriteWithRecord(t *testing.T) {
	review := &model.Review{ID: uuid.New(), TourID: uuid.New(), UserID: uuid.New(), Review: "Great", Rating: 5}
	repo := new(MockRepository[model.Review])
	repo.On("FindByID", mock.Anything, review.ID).Return(review, nil)
	repo.On("Delete", mock.Anything, review.ID).Return(nil)

	var recalculated uuid.UUID
	h := NewCRUD[model.Review](repo, model.ReviewQuerySchema, WithAfterWrite[model.Review](func(_ echo.Context, r *model.Review) error {
		recalculated = r.TourID
		return nil
	}))
	e := newTestEcho()
	e.DELETE("/reviews/:id", h.Delete)

	rec := serve(e, http.MethodDelete, "/reviews/"+review.ID.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, review.TourID, recalculated)
	repo.AssertExpectations(t)
}
