package compose

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// DefaultProjectName is used when the caller has no project name to verify under.
const DefaultProjectName = "stackgen"

// =============================================================================
// Verification
// =============================================================================

// Verify loads the serialized document with compose-go, the reference
// implementation of the compose specification, and checks that the project it
// produces holds exactly the document's services.
//
// The document itself is never modified. The emitted `expose: <port>` scalar
// is widened to a one-element list for the check only, since the compose
// schema accepts expose as a list.
func Verify(ctx context.Context, doc *Document, projectName string) error {
	if doc.Len() == 0 {
		return ErrEmptyDocument
	}

	data, err := MarshalYAML(doc)
	if err != nil {
		return err
	}

	project, err := loadProject(ctx, data, projectName)
	if err != nil {
		return err
	}

	got := project.ServiceNames()
	want := doc.ServiceNames()
	sort.Strings(got)
	sort.Strings(want)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		return NewDocumentError(
			"services",
			fmt.Sprintf("loaded services [%s], expected [%s]", strings.Join(got, ", "), strings.Join(want, ", ")),
			ErrServiceMismatch,
		)
	}

	return nil
}

// loadProject loads compose YAML using compose-go without touching the
// filesystem: env files are not resolved and paths are not normalized.
func loadProject(ctx context.Context, data []byte, projectName string) (*types.Project, error) {
	var dict map[string]interface{}
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return nil, NewDocumentError("", "invalid YAML syntax", ErrInvalidYAML)
	}
	if dict == nil {
		return nil, NewDocumentError("", "invalid YAML syntax", ErrInvalidYAML)
	}
	normalizeExpose(dict)

	project, err := loader.LoadWithContext(ctx, types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Filename: "compose.yml",
				Config:   dict,
			},
		},
		Environment: types.Mapping{},
	}, func(opts *loader.Options) {
		opts.SetProjectName(ProjectName(projectName), true)
		opts.SkipNormalization = true
		opts.SkipExtends = true
		opts.SkipResolveEnvironment = true
	})
	if err != nil {
		return nil, NewDocumentError("", err.Error(), ErrInvalidDocument)
	}

	return project, nil
}

// normalizeExpose rewrites scalar expose values into one-element lists.
func normalizeExpose(dict map[string]interface{}) {
	services, ok := dict["services"].(map[string]interface{})
	if !ok {
		return
	}
	for _, raw := range services {
		svc, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		switch v := svc["expose"].(type) {
		case int, string:
			svc["expose"] = []interface{}{v}
		}
	}
}

// ProjectName converts a free-form name into a valid compose project name:
// lowercase letters, digits, dashes and underscores, starting with a letter
// or digit. Falls back to DefaultProjectName when nothing usable remains.
//
// Example:
//
//	ProjectName("My Shop") // returns "my-shop"
func ProjectName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	out := strings.TrimLeft(b.String(), "-_")
	if out == "" {
		return DefaultProjectName
	}
	return out
}
