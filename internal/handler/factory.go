package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "natours/internal/errors"
	"natours/internal/query"
	"natours/internal/repository"
)

var (
	errInvalidBody = apperrors.Validation("Invalid request body")
	errInvalidID   = apperrors.Validation("Invalid id")
)

// Hook runs against a record inside a write request.
type Hook[T any] func(c echo.Context, rec *T) error

// CRUD produces the five generic handlers for one entity.
type CRUD[T any] struct {
	repo         repository.Repository[T]
	schema       query.Schema
	parentParam  string
	parentColumn string
	preloads     []string
	listPreloads []string
	stripped     []string
	prepare      Hook[T]
	afterWrite   Hook[T]
}

// Option configures a CRUD.
type Option[T any] func(*CRUD[T])

// WithParent scopes List to the record named by a path parameter, when present.
func WithParent[T any](param, column string) Option[T] {
	return func(h *CRUD[T]) {
		h.parentParam = param
		h.parentColumn = column
	}
}

// WithPreloads eager-loads associations on Get.
func WithPreloads[T any](preloads ...string) Option[T] {
	return func(h *CRUD[T]) { h.preloads = preloads }
}

// WithListPreloads eager-loads associations on List.
func WithListPreloads[T any](preloads ...string) Option[T] {
	return func(h *CRUD[T]) { h.listPreloads = preloads }
}

// WithStrippedFields drops payload keys before an update is applied.
func WithStrippedFields[T any](fields ...string) Option[T] {
	return func(h *CRUD[T]) { h.stripped = fields }
}

// WithPrepare runs before validation on create and update.
func WithPrepare[T any](hook Hook[T]) Option[T] {
	return func(h *CRUD[T]) { h.prepare = hook }
}

// WithAfterWrite runs after a successful create, update or delete.
func WithAfterWrite[T any](hook Hook[T]) Option[T] {
	return func(h *CRUD[T]) { h.afterWrite = hook }
}

func NewCRUD[T any](repo repository.Repository[T], schema query.Schema, opts ...Option[T]) *CRUD[T] {
	h := &CRUD[T]{repo: repo, schema: schema}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// List runs the query pipeline, scoped to the parent record when one is routed.
func (h *CRUD[T]) List(c echo.Context) error {
	desc, err := query.New(h.schema, c.QueryParams()).
		Filter().
		Sort().
		LimitFields().
		Paginate().
		Build()
	if err != nil {
		return err
	}

	if h.parentParam != "" {
		if c.Param(h.parentParam) != "" {
			parentID, err := parseID(c, h.parentParam)
			if err != nil {
				return err
			}
			desc.Conditions = append(desc.Conditions, query.Condition{
				Field:  h.parentParam,
				Column: h.parentColumn,
				Op:     query.OpEq,
				Value:  parentID,
			})
		}
	}

	docs, err := h.repo.List(c.Request().Context(), desc, h.listPreloads...)
	if err != nil {
		return err
	}
	return list(c, docs)
}

// Get loads one record with the configured preloads.
func (h *CRUD[T]) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	doc, err := h.repo.FindByID(c.Request().Context(), id, h.preloads...)
	if err != nil {
		return err
	}
	return document(c, http.StatusOK, doc)
}

func (h *CRUD[T]) Create(c echo.Context) error {
	rec := new(T)
	if err := c.Bind(rec); err != nil {
		return err
	}
	if err := h.validate(c, rec); err != nil {
		return err
	}
	if err := h.repo.Create(c.Request().Context(), rec); err != nil {
		return err
	}
	if err := h.runAfterWrite(c, rec); err != nil {
		return err
	}
	return document(c, http.StatusCreated, rec)
}

// Update applies a JSON patch over the stored record.
func (h *CRUD[T]) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var patch map[string]json.RawMessage
	if err := decodeBody(c, &patch); err != nil {
		return err
	}
	delete(patch, "id")
	for _, field := range h.stripped {
		delete(patch, field)
	}

	ctx := c.Request().Context()
	rec, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if len(patch) > 0 {
		raw, err := json.Marshal(patch)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, rec); err != nil {
			return errInvalidBody.Wrap(err)
		}
	}

	if err := h.validate(c, rec); err != nil {
		return err
	}
	if err := h.repo.Save(ctx, rec); err != nil {
		return err
	}
	if err := h.runAfterWrite(c, rec); err != nil {
		return err
	}
	return document(c, http.StatusOK, rec)
}

func (h *CRUD[T]) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var rec *T
	if h.afterWrite != nil {
		if rec, err = h.repo.FindByID(ctx, id); err != nil {
			return err
		}
	}
	if err := h.repo.Delete(ctx, id); err != nil {
		return err
	}
	if rec != nil {
		if err := h.afterWrite(c, rec); err != nil {
			return err
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// validate runs the prepare hook, struct tags and the record's own Validate method.
func (h *CRUD[T]) validate(c echo.Context, rec *T) error {
	if h.prepare != nil {
		if err := h.prepare(c, rec); err != nil {
			return err
		}
	}
	if err := c.Validate(rec); err != nil {
		return err
	}
	if v, ok := any(rec).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				return appErr
			}
			return apperrors.Validation("Invalid input data: " + err.Error())
		}
	}
	return nil
}

func (h *CRUD[T]) runAfterWrite(c echo.Context, rec *T) error {
	if h.afterWrite == nil {
		return nil
	}
	return h.afterWrite(c, rec)
}

// parseID reads a uuid path parameter.
func parseID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errInvalidID.Wrap(err)
	}
	return id, nil
}

// decodeBody reads a JSON body. An empty body leaves v untouched.
func decodeBody(c echo.Context, v interface{}) error {
	err := json.NewDecoder(c.Request().Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errInvalidBody.Wrap(err)
}
