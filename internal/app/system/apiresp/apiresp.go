// Package apiresp writes the JSON envelope shared by every API endpoint:
//
//	{ "success": true, "data": ..., "message": "..." }
//	{ "success": true, "data": [...], "pagination": {"page":1,"limit":12,"total":40,"pages":4} }
//	{ "success": false, "error": "..." }
package apiresp

import (
	"encoding/json"
	"net/http"
)

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination computes the page count for total rows at limit per page.
func NewPagination(page, limit int, total int64) Pagination {
	var pages int64
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Envelope is the response body shape.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Ref        string      `json:"ref,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// JSON writes env with the given status.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes 200 with data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message writes 200 with data (may be nil) and a human message.
func Message(w http.ResponseWriter, data any, msg string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Message: msg})
}

// List writes 200 with rows and a row count.
func List[T any](w http.ResponseWriter, rows []T) {
	if rows == nil {
		rows = []T{}
	}
	n := len(rows)
	JSON(w, http.StatusOK, Envelope{Success: true, Data: rows, Count: &n})
}

// Page writes 200 with one page of rows.
func Page[T any](w http.ResponseWriter, rows []T, p Pagination) {
	if rows == nil {
		rows = []T{}
	}
	JSON(w, http.StatusOK, Envelope{Success: true, Data: rows, Pagination: &p})
}
