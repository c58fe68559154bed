// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads a single JSON object from the request body into v.
// Unknown fields are ignored.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// Query returns a sanitized query parameter.
func Query(r *http.Request, name string) string {
	return sanitizeInput(r.URL.Query().Get(name))
}

// PathValue returns a sanitized path wildcard.
func PathValue(r *http.Request, name string) string {
	return sanitizeInput(r.PathValue(name))
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// Presence bodies carry a required present flag.
type (
	attendanceMark struct {
		Class   string `json:"class"`
		Date    string `json:"date"`
		Present *bool  `json:"present"`
	}

	staffAttendanceMark struct {
		Date    string `json:"date"`
		Present *bool  `json:"present"`
	}

	timetableCell struct {
		Class   string `json:"class"`
		Day     string `json:"day"`
		Period  int    `json:"period"`
		Subject string `json:"subject"`
		Teacher string `json:"teacher"`
	}
)
