// Package generator drives one generation run: it plans the services,
// applies cross-service mutations, injects every service into the compose
// document and the env template, materializes service directories, and
// writes the run-level outputs last.
package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/artpar/stackgen/internal/core/compose"
	"github.com/artpar/stackgen/internal/core/plan"
	"github.com/artpar/stackgen/internal/core/service"
	"github.com/artpar/stackgen/internal/core/validation"
	"github.com/artpar/stackgen/internal/shell/docker"
	"github.com/artpar/stackgen/internal/shell/toolchain"
	"github.com/artpar/stackgen/internal/shell/workspace"
	"github.com/google/uuid"
)

// =============================================================================
// Configuration
// =============================================================================

// Default output names.
const (
	DefaultComposeFile = "compose.yml"
	DefaultEnvFile     = ".env.example"
)

// Config controls one run.
type Config struct {
	// Project names the compose project; it is also the "project" run var.
	Project string

	// EnvNames adds one .env.<name>.example per name.
	EnvNames []string

	// Vars are run-level substitution values, e.g. python_version.
	Vars map[string]string

	ComposeFile string
	EnvFile     string

	// Verify loads the document with compose-go before writing it.
	Verify bool

	// PullImages pre-pulls every image the stack references. Needs a
	// docker client.
	PullImages  bool
	PullOptions docker.PullOptions
}

// Generator runs generations into one workspace.
type Generator struct {
	cfg     Config
	ws      *workspace.Workspace
	invoker *toolchain.Invoker
	docker  docker.Client
	logger  *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithInvoker enables external tools. Without it lifecycle steps are skipped.
func WithInvoker(inv *toolchain.Invoker) Option {
	return func(g *Generator) { g.invoker = inv }
}

// WithDockerClient sets the client used for image pre-pulls.
func WithDockerClient(cli docker.Client) Option {
	return func(g *Generator) { g.docker = cli }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// New creates a Generator writing into ws.
func New(cfg Config, ws *workspace.Workspace, opts ...Option) *Generator {
	if cfg.Project == "" {
		cfg.Project = compose.DefaultProjectName
	}
	if cfg.ComposeFile == "" {
		cfg.ComposeFile = DefaultComposeFile
	}
	if cfg.EnvFile == "" {
		cfg.EnvFile = DefaultEnvFile
	}
	g := &Generator{cfg: cfg, ws: ws, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// =============================================================================
// Run
// =============================================================================

// Result summarizes a successful run.
type Result struct {
	RunID    string
	Root     string
	Services []string
	Document *compose.Document
	Env      *compose.EnvMap

	// Files are the run-level outputs, in write order.
	Files []string

	Warnings []*toolchain.ToolError
	Pulled   []string
}

// Run generates the stack rooted at top.
//
// Planning and validation happen before anything is written. Each service's
// files are rendered in full before any is written. The env templates and the
// compose document are written last, so a failed run never leaves a compose
// document behind.
func (g *Generator) Run(ctx context.Context, top []service.Behavior) (*Result, error) {
	runID := uuid.NewString()
	logger := g.logger.With("run_id", runID, "project", g.cfg.Project)
	logger.Info("generation started", "top_level", len(top), "root", g.ws.Root())

	// 1. Plan
	p, err := plan.Build(top)
	if err != nil {
		return nil, stageError(StagePlan, "", err)
	}
	services := p.Services()
	logger.Debug("planned services", "services", p.Names())

	// 2. Validate
	if err := validation.ValidateRun(services); err != nil {
		return nil, stageError(StageValidate, "", err)
	}
	for _, name := range g.cfg.EnvNames {
		if err := validation.ValidateName(name); err != nil {
			return nil, stageError(StageValidate, "", fmt.Errorf("environment name: %w", err))
		}
	}

	// 3. Attach registry and environment names
	vars := g.runVars()
	registry := service.NewRegistry(g.cfg.Project, vars, services)
	logger.Debug("registry attached", "services", registry.Names())
	for _, s := range services {
		d := s.Describe()
		d.Registry = registry
		d.EnvNames = append([]string(nil), g.cfg.EnvNames...)
	}

	// 4. Two-phase mutations
	mutations, err := service.CollectMutations(registry)
	if err != nil {
		return nil, stageError(StageMutate, "", err)
	}
	if err := service.ApplyMutations(registry, mutations); err != nil {
		return nil, stageError(StageMutate, "", err)
	}
	logger.Debug("applied mutations", "count", len(mutations))

	// 5. Inject in plan order
	doc := compose.NewDocument()
	env := compose.NewEnvMap()
	rw := &runWorkspace{ws: g.ws, invoker: g.invoker, vars: vars, logger: logger}

	for _, step := range p.Steps {
		s := step.Service
		name := step.Name()

		fragment, err := s.BuildFragment()
		if err != nil {
			return nil, stageError(StageInject, name, err)
		}
		doc.MergeFragment(name, fragment)
		env.Merge(s.EnvVars())

		if err := s.MaterializeFiles(ctx, rw); err != nil {
			return nil, stageError(StageMaterialize, name, err)
		}
		logger.Info("service injected", "service", name, "kind", s.Describe().Kind, "depth", step.Depth)
	}

	result := &Result{
		RunID:    runID,
		Root:     g.ws.Root(),
		Services: p.Names(),
		Document: doc,
		Env:      env,
	}
	if g.invoker != nil {
		result.Warnings = g.invoker.Warnings()
	}

	// 6. Verify and pull
	if g.cfg.Verify {
		if err := compose.Verify(ctx, doc, g.cfg.Project); err != nil {
			return nil, stageError(StageVerify, "", err)
		}
		logger.Debug("compose document verified")
	}
	if g.cfg.PullImages && g.docker != nil {
		pulled, err := docker.EnsureImages(ctx, g.docker, images(services), g.cfg.PullOptions, logger)
		if err != nil {
			return nil, stageError(StagePull, "", err)
		}
		result.Pulled = pulled.Pulled
	}

	// 7. Write run-level outputs, compose document last
	files, err := g.writeOutputs(doc, env)
	result.Files = files
	if err != nil {
		return result, stageError(StageWrite, "", err)
	}

	logger.Info("generation complete",
		"services", len(result.Services),
		"warnings", len(result.Warnings),
		"files", result.Files,
	)
	return result, nil
}

func (g *Generator) runVars() map[string]string {
	vars := make(map[string]string, len(g.cfg.Vars)+1)
	for k, v := range g.cfg.Vars {
		vars[k] = v
	}
	vars["project"] = g.cfg.Project
	return vars
}

func (g *Generator) writeOutputs(doc *compose.Document, env *compose.EnvMap) ([]string, error) {
	var written []string

	composeData, err := compose.MarshalYAML(doc)
	if err != nil {
		return written, err
	}

	if err := g.ws.WriteFile(g.cfg.EnvFile, compose.MarshalEnv(env)); err != nil {
		return written, err
	}
	written = append(written, g.cfg.EnvFile)

	for _, name := range g.cfg.EnvNames {
		file := EnvFileName(name)
		if err := g.ws.WriteFile(file, compose.MarshalEnv(EnvFor(name, env))); err != nil {
			return written, err
		}
		written = append(written, file)
	}

	if err := g.ws.WriteFile(g.cfg.ComposeFile, composeData); err != nil {
		return written, err
	}
	written = append(written, g.cfg.ComposeFile)

	return written, nil
}

// EnvFileName returns the env template name for an environment.
func EnvFileName(envName string) string {
	return fmt.Sprintf(".env.%s.example", envName)
}

// EnvFor returns env prefixed with APP_ENV=<envName>.
func EnvFor(envName string, env *compose.EnvMap) *compose.EnvMap {
	out := compose.NewEnvMap("APP_ENV", envName)
	out.Merge(env)
	return out
}

// images returns the images of services, in order.
func images(services []service.Behavior) []string {
	var out []string
	for _, s := range services {
		if img := s.Describe().Image; img != "" {
			out = append(out, img)
		}
	}
	return out
}
