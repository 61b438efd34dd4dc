package main

import (
	"log"
	"os"

	"github.com/osteele/project-version/pkg/config"
)

func main() {
	data, err := config.SchemaJSON()
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	// Write to the module root
	if err := os.WriteFile("project-version.schema.json", append(data, '\n'), 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated config schema at project-version.schema.json")
}
