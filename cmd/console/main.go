package main

import (
	"log"

	"github.com/quillcms/console/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ console failed to start: %v", err)
	}
}
