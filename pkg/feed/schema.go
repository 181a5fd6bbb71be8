package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "feed.schema.json"

// ErrSchemaViolation is returned when the feed does not match Schema.
var ErrSchemaViolation = errors.New("feed does not match schema")

// Schema returns the JSON schema of the feed: an array of records, each
// requiring version and released-on. Other properties are allowed.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Anonymous:                  true,
		DoNotReference:             true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}

	item := r.Reflect(&Record{})
	item.Version = ""

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "PAN-OS versions feed",
		Description: "Release records consumed by panos-eol.",
		Type:        "array",
		Items:       item,
	}
}

var (
	compiled    *validator.Schema
	compileErr  error
	compileOnce sync.Once
)

func compiledSchema() (*validator.Schema, error) {
	compileOnce.Do(func() {
		data, err := json.Marshal(Schema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}

		c := validator.NewCompiler()
		if err := c.AddResource(schemaResource, bytes.NewReader(data)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaResource)
	})
	return compiled, compileErr
}

// validate checks raw feed JSON against the schema.
func validate(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to parse feed JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("failed to parse feed JSON: unexpected data after top-level value at offset %d", dec.InputOffset())
	}

	if err := sch.Validate(doc); err != nil {
		var ve *validator.ValidationError
		if errors.As(err, &ve) {
			leaf := firstLeaf(ve)
			return fmt.Errorf("%w: %s: %s", ErrSchemaViolation, pointerToPath(leaf.InstanceLocation), leaf.Message)
		}
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return nil
}

// firstLeaf walks down the first cause chain to the most specific error.
func firstLeaf(ve *validator.ValidationError) *validator.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// pointerToPath turns "/3/released-on" into "[3].released-on".
func pointerToPath(ptr string) string {
	if ptr == "" || ptr == "/" {
		return "(root)"
	}

	var b strings.Builder
	for _, seg := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		if seg != "" && strings.Trim(seg, "0123456789") == "" {
			b.WriteString("[" + seg + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(seg)
	}
	return b.String()
}
