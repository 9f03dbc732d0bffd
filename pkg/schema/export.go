package schema

// templateJSONSchema describes a template schema document: an object whose
// values are any JSON value, optionally framed under ContextKey. Choice
// variables must offer at least one option.
const templateJSONSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/ormasoftchile/cutter/schemas/template-v1.json",
  "title": "cutter template variables",
  "type": "object",
  "$defs": {
    "variables": {
      "type": "object",
      "propertyNames": { "minLength": 1 },
      "additionalProperties": { "$ref": "#/$defs/definition" }
    },
    "definition": {
      "anyOf": [
        { "type": ["null", "boolean", "number", "string", "object"] },
        { "type": "array", "minItems": 1 }
      ]
    }
  },
  "if": { "required": ["cookiecutter"] },
  "then": { "properties": { "cookiecutter": { "$ref": "#/$defs/variables" } } },
  "else": { "$ref": "#/$defs/variables" }
}`

// TemplateJSONSchema returns the JSON Schema for template schema documents.
func TemplateJSONSchema() []byte {
	return []byte(templateJSONSchema)
}
