package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Request shape with the validation tags the cart and order DTOs use.
type testLineRequest struct {
	UserID    string `json:"user_id" validate:"required,uuid"`
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeUser bool, includeProduct bool, includeQuantity bool) bool {
			reqMap := make(map[string]interface{})

			if includeUser {
				reqMap["user_id"] = "a81bc81b-dead-4e5d-abff-90865d1e13b1"
			}
			if includeProduct {
				reqMap["product_id"] = "b72cd92c-beef-4f6e-bcaa-81754c2f24c2"
			}
			if includeQuantity {
				reqMap["quantity"] = 2
			}

			allFieldsPresent := includeUser && includeProduct && includeQuantity

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/cart", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var line testLineRequest
			err := DecodeAndValidate(req, &line)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ValidationErrorsAreFormatted(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validation errors include field information", prop.ForAll(
		func() bool {
			reqMap := map[string]interface{}{
				"user_id":    "not-a-uuid",
				"product_id": "b72cd92c-beef-4f6e-bcaa-81754c2f24c2",
				"quantity":   2,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/cart", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var line testLineRequest
			err := DecodeAndValidate(req, &line)
			if err == nil {
				return false
			}

			validationErrors := FormatValidationErrors(err)
			if len(validationErrors) == 0 {
				return false
			}

			for _, ve := range validationErrors {
				if ve.Field == "" || ve.Message == "" {
					return false
				}
			}

			return true
		},
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_QuantityBoundsValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("non-positive quantities are rejected", prop.ForAll(
		func(quantity int) bool {
			reqMap := map[string]interface{}{
				"user_id":    "a81bc81b-dead-4e5d-abff-90865d1e13b1",
				"product_id": "b72cd92c-beef-4f6e-bcaa-81754c2f24c2",
				"quantity":   quantity,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/cart", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var line testLineRequest
			err := DecodeAndValidate(req, &line)

			if quantity > 0 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-10, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/cart", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	var line testLineRequest
	if err := DecodeAndValidate(req, &line); err == nil {
		t.Error("malformed JSON should fail decoding")
	}
}
