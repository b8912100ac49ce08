package service

import (
	"embed"
	"fmt"
)

//go:embed templates/*
var templatesFS embed.FS

// mustTemplate returns an embedded template body. The set of bodies is fixed
// at build time, so a missing one is a programming error.
func mustTemplate(name string) string {
	data, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("service: missing embedded template %s: %v", name, err))
	}
	return string(data)
}
