package httpapi

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const checkoutSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["cart", "subtotal", "finalTotal"],
  "properties": {
    "name": { "type": "string" },
    "email": { "type": ["string", "null"] },
    "phone": { "type": "string" },
    "address": { "type": "string" },
    "city": { "type": "string" },
    "notes": { "type": ["string", "null"] },
    "cart": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "price", "quantity"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "name": { "type": "string" },
          "price": { "type": "number", "minimum": 0 },
          "quantity": { "type": "integer", "minimum": 1 },
          "category": { "type": "string" },
          "image": { "type": "string" }
        }
      }
    },
    "subtotal": { "type": "number", "minimum": 0 },
    "discountAmount": { "type": "number" },
    "finalTotal": { "type": "number", "minimum": 0 }
  }
}`

const customerInfoSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "name": { "type": "string" },
    "email": { "type": ["string", "null"] },
    "phone": { "type": "string" },
    "address": { "type": "string" },
    "city": { "type": "string" },
    "notes": { "type": ["string", "null"] }
  }
}`

var (
	checkoutLoader     = gojsonschema.NewStringLoader(checkoutSchema)
	customerInfoLoader = gojsonschema.NewStringLoader(customerInfoSchema)
)

func validateJSONSchema(schemaLoader gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("request does not conform to schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}
