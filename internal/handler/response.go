package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const statusSuccess = "success"

// MessageResponse is returned by endpoints that only report an outcome.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DocumentResponse wraps a single record.
type DocumentResponse struct {
	Status string  `json:"status"`
	Data   DataDoc `json:"data"`
}

// ListResponse wraps a page of records.
type ListResponse struct {
	Status  string  `json:"status"`
	Results int     `json:"results"`
	Data    DataDoc `json:"data"`
}

type DataDoc struct {
	Data interface{} `json:"data"`
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, MessageResponse{Status: statusSuccess, Message: msg})
}

func document(c echo.Context, status int, doc interface{}) error {
	return c.JSON(status, DocumentResponse{Status: statusSuccess, Data: DataDoc{Data: doc}})
}

func list[T any](c echo.Context, docs []T) error {
	return c.JSON(http.StatusOK, ListResponse{Status: statusSuccess, Results: len(docs), Data: DataDoc{Data: docs}})
}
