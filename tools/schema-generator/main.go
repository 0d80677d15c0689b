// Command schema-generator writes the record and config JSON Schemas to
// disk for editors and for publishing alongside releases.
//
//	go run ./tools/schema-generator -out schema/dist
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/lifeisriding/slimductor/pkg/sessions"
	"github.com/lifeisriding/slimductor/schema"
)

func main() {
	outputDir := flag.String("out", "schema/dist", "directory to write the schema files to")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}

	outputs := []struct {
		name     string
		generate func() ([]byte, error)
	}{
		{"record.schema.json", sessions.RecordSchemaJSON},
		{"slimductor.schema.json", schema.ConfigSchemaJSON},
	}

	for _, o := range outputs {
		data, err := o.generate()
		if err != nil {
			log.Fatalf("Error generating %s: %v", o.name, err)
		}
		outputPath := filepath.Join(*outputDir, o.name)
		if err := os.WriteFile(outputPath, append(data, '\n'), 0644); err != nil {
			log.Fatalf("Error writing schema file: %v", err)
		}
		log.Printf("Successfully generated %s", outputPath)
	}
}
