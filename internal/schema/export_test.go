package schema

import (
	"encoding/json"
	"testing"
)

func TestDescribe(t *testing.T) {
	minimum := 0.0
	model := compileOrFatal(t, Config{
		Name: "Page",
		Fields: []Field{
			{Name: "number", Spec: DtypeSpec{Dtype: "integer", Minimum: &minimum, Description: "1-based page number"}},
			{Name: "lines", Spec: DtypeSpec{Dim: 1, Dtype: "string", Optional: true}},
			{Name: "kind", Spec: DtypeSpec{Dtype: "string", AllowedValues: []any{"cover", "body"}}},
		},
	})

	desc := model.Describe()
	if desc.Type != "object" {
		t.Fatalf("root type = %q, want object", desc.Type)
	}
	if desc.AdditionalProperties != false {
		t.Error("exported schema must close additionalProperties")
	}
	if got := desc.Properties["number"]; got.Type != "integer" || got.Minimum == nil || *got.Minimum != 0 {
		t.Errorf("number schema = %+v, want integer with minimum 0", got)
	}
	if got := desc.Properties["lines"]; got.Type != "array" || got.Items.Type != "string" {
		t.Errorf("lines schema = %+v, want array of string", got)
	}
	if got := desc.Properties["kind"]; len(got.Enum) != 2 {
		t.Errorf("kind enum = %v, want 2 values", got.Enum)
	}

	wantRequired := map[string]bool{"number": true, "kind": true}
	if len(desc.Required) != len(wantRequired) {
		t.Fatalf("required = %v, want number and kind", desc.Required)
	}
	for _, name := range desc.Required {
		if !wantRequired[name] {
			t.Errorf("unexpected required field %q", name)
		}
	}
}

func TestCompileJSONSchemaAgreesWithModel(t *testing.T) {
	model := compileOrFatal(t, Config{
		Name: "Item",
		Fields: []Field{
			scalarField("name", "string"),
			{Name: "values", Spec: DtypeSpec{Dim: 1, Dtype: "integer"}},
			{Name: "kind", Spec: DtypeSpec{Dtype: "string", AllowedValues: []any{"a", "b"}}},
		},
	})

	compiled, err := model.CompileJSONSchema()
	if err != nil {
		t.Fatalf("CompileJSONSchema() error = %v", err)
	}

	cases := []struct {
		name string
		doc  string
		ok   bool
	}{
		{"valid", `{"name":"x","values":[1,2,3],"kind":"a"}`, true},
		{"bad list element", `{"name":"x","values":[1,"x"],"kind":"a"}`, false},
		{"enum violation", `{"name":"x","values":[],"kind":"c"}`, false},
		{"undeclared field", `{"name":"x","values":[],"kind":"a","extra":1}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var doc any
			if err := json.Unmarshal([]byte(tc.doc), &doc); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			_, modelErr := model.Validate(doc)
			schemaErr := compiled.Validate(doc)

			if (modelErr == nil) != tc.ok {
				t.Errorf("model verdict = %v, want ok=%v", modelErr, tc.ok)
			}
			if (schemaErr == nil) != tc.ok {
				t.Errorf("jsonschema verdict = %v, want ok=%v", schemaErr, tc.ok)
			}
		})
	}
}

func TestJSONSchemaNestedCustomTypes(t *testing.T) {
	model := compileOrFatal(t, Config{
		Name: "Doc",
		Fields: []Field{
			{Name: "regions", Spec: DtypeSpec{Dim: 1, Dtype: "Region"}},
		},
		CustomDTypes: []CustomDType{
			{Name: "Region", Fields: []Field{
				{Name: "box", Spec: DtypeSpec{Dtype: "bbox"}},
				scalarField("label", "string"),
			}},
		},
	})

	raw, err := model.JSONSchema()
	if err != nil {
		t.Fatalf("JSONSchema() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("exported schema is not valid JSON: %v", err)
	}

	regions := doc["properties"].(map[string]any)["regions"].(map[string]any)
	items := regions["items"].(map[string]any)
	box := items["properties"].(map[string]any)["box"].(map[string]any)
	if box["type"] != "object" {
		t.Errorf("bbox exported as %v, want object", box["type"])
	}
	coords := box["properties"].(map[string]any)
	for _, name := range []string{"x1", "y1", "x2", "y2"} {
		coord, ok := coords[name].(map[string]any)
		if !ok || coord["type"] != "integer" {
			t.Errorf("bbox coordinate %s exported as %v, want integer", name, coords[name])
		}
	}
}
