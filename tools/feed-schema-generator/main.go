package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/grovetools/panos-eol/pkg/feed"
	"github.com/spf13/pflag"
)

func main() {
	out := pflag.StringP("output", "o", "feed.schema.json", "Where to write the schema")
	pflag.Parse()

	schema := feed.Schema()

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	if err := os.WriteFile(*out, append(data, '\n'), 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated feed schema at %s", *out)
}
