package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// Numeric failure codes carried in every error body.
const (
	codeMissingField = 1
	codeDuplicate    = 2
	codeNotFound     = 3
)

var (
	errBadContentType = errors.New("body must be application/json")
	errMalformedBody  = errors.New("body is not a valid JSON object")
)

// decodeBody enforces the JSON body contract: the content type must be
// application/json and the payload must decode into dst with matching field
// types. An absent body is treated as an empty object so endpoints with
// all-optional fields work without one.
func decodeBody(c *fiber.Ctx, dst any) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return nil
	}
	ctype := strings.ToLower(c.Get(fiber.HeaderContentType))
	if !strings.HasPrefix(ctype, fiber.MIMEApplicationJSON) {
		return errBadContentType
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errMalformedBody
	}
	return nil
}

// fail writes the error/error_msg failure envelope with the given status.
func fail(c *fiber.Ctx, status, code int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":     code,
		"error_msg": msg,
	})
}

// failFromQuery maps categorized query errors onto HTTP statuses.
func failFromQuery(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := codeNotFound
	var gerr *goerrors.Error
	if goerrors.As(err, &gerr) {
		switch gerr.Category {
		case goerrors.CategoryValidation:
			status, code = fiber.StatusBadRequest, codeMissingField
		case goerrors.CategoryNotFound:
			status, code = fiber.StatusNotFound, codeNotFound
		}
	}
	return fail(c, status, code, err.Error())
}
