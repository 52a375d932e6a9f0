// Package decode reads storefront request bodies.
package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps every request body; a checkout with a full cart stays far below it.
const MaxBodyBytes = 1 << 20

var ErrEmptyBody = errors.New("empty request body")

// JSON decodes a single JSON object into dest, rejecting unknown fields and empty bodies.
func JSON(r *http.Request, dest any) error {
	err := decodeBody(r, dest)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	return err
}

// Optional is JSON for requests whose body may be omitted entirely; dest is then left untouched.
func Optional(r *http.Request, dest any) error {
	err := decodeBody(r, dest)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func decodeBody(r *http.Request, dest any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return io.EOF
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
