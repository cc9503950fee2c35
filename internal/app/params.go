// Package app orchestrates deployments: it turns validated parameters
// into a Deployment, assembles the provisioning stages in fixed order,
// drives the pipeline executor, and replays persisted registry records
// for teardown.
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/validation"
)

// DefaultPackages are the system packages every backend deployment needs.
var DefaultPackages = []string{"nginx", "postgresql", "certbot", "python3-certbot-nginx"}

// DefaultServiceUser is the account the application unit runs as.
const DefaultServiceUser = "www-data"

// DefaultWorkers is the application-server worker count.
const DefaultWorkers = 3

// DeployParams are the operator-supplied inputs for one deployment run.
// Collected from flags or a manifest file; validated before any mutation.
type DeployParams struct {
	Name             string          `yaml:"name" toml:"name" validate:"required"`
	Domain           string          `yaml:"domain" toml:"domain" validate:"required,fqdn"`
	Aliases          []string        `yaml:"aliases" toml:"aliases" validate:"omitempty,dive,fqdn"`
	WorkDir          string          `yaml:"work_dir" toml:"work_dir" validate:"required,startswith=/"`
	DatabaseName     string          `yaml:"database_name" toml:"database_name"`
	DatabaseUser     string          `yaml:"database_user" toml:"database_user"`
	DatabasePassword string          `yaml:"database_password" toml:"database_password" validate:"required"`
	ServiceUser      string          `yaml:"service_user" toml:"service_user"`
	StartCommand     string          `yaml:"start_command" toml:"start_command"`
	Workers          int             `yaml:"workers" toml:"workers" validate:"omitempty,min=1,max=64"`
	Email            string          `yaml:"email" toml:"email" validate:"required_unless=SkipTLS true,omitempty,email"`
	SkipTLS          bool            `yaml:"skip_tls" toml:"skip_tls"`
	EnvContent       string          `yaml:"env" toml:"env"`
	Packages         []string        `yaml:"packages" toml:"packages"`
	Frontend         *FrontendParams `yaml:"frontend" toml:"frontend" validate:"omitempty"`
}

// FrontendParams describe an optional static/SPA frontend deployed next
// to the backend under its own domain.
type FrontendParams struct {
	Name    string   `yaml:"name" toml:"name" validate:"required"`
	Domain  string   `yaml:"domain" toml:"domain" validate:"required,fqdn"`
	DistDir string   `yaml:"dist_dir" toml:"dist_dir" validate:"required,startswith=/"`
	Aliases []string `yaml:"aliases" toml:"aliases" validate:"omitempty,dive,fqdn"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the parameters and fills defaults. Violations surface
// as a PlanningError naming the offending field; planning failures never
// mutate the host.
func (p *DeployParams) Validate() error {
	p.applyDefaults()

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return &pipeline.PlanningError{
				Field:      fieldName(first.Namespace()),
				Message:    validationMessage(first),
				Underlying: err,
			}
		}
		return &pipeline.PlanningError{Message: err.Error(), Underlying: err}
	}

	// The password ends up inside a quoted SQL literal; reject injection
	// characters here so a bad value never reaches the database stage.
	if err := validation.ValidateSQLLiteral(p.DatabasePassword); err != nil {
		return &pipeline.PlanningError{
			Field:      "database_password",
			Message:    "must not contain quotes or newlines",
			Underlying: err,
		}
	}

	return nil
}

// applyDefaults fills unset optional parameters.
func (p *DeployParams) applyDefaults() {
	if p.ServiceUser == "" {
		p.ServiceUser = DefaultServiceUser
	}
	if p.Workers == 0 {
		p.Workers = DefaultWorkers
	}
	if len(p.Packages) == 0 {
		p.Packages = append([]string(nil), DefaultPackages...)
	}
}

// Deployment builds the immutable deployment value object, linking the
// frontend when one is configured.
func (p *DeployParams) Deployment() (*deployment.Deployment, error) {
	opts := []deployment.Option{
		deployment.WithWorkDir(p.WorkDir),
		deployment.WithDatabase(p.DatabaseName, p.DatabaseUser),
		deployment.WithAliases(p.Aliases...),
	}

	if p.Frontend != nil {
		fe, err := deployment.New(p.Frontend.Name, p.Frontend.Domain,
			deployment.AsStatic(p.Frontend.DistDir),
			deployment.WithAliases(p.Frontend.Aliases...))
		if err != nil {
			return nil, &pipeline.PlanningError{Field: "frontend.name", Message: err.Error(), Underlying: err}
		}
		opts = append(opts, deployment.WithFrontend(fe))
	}

	dep, err := deployment.New(p.Name, p.Domain, opts...)
	if err != nil {
		return nil, &pipeline.PlanningError{Field: "name", Message: err.Error(), Underlying: err}
	}
	return dep, nil
}

// StartCommandFor returns the unit ExecStart line, defaulting to the
// project virtualenv's gunicorn bound through the runtime config.
func (p *DeployParams) StartCommandFor(dep *deployment.Deployment) string {
	if p.StartCommand != "" {
		return p.StartCommand
	}
	return fmt.Sprintf("%s/.venv/bin/gunicorn --config %s wsgi:application", dep.WorkDir(), dep.RuntimeConfigPath())
}

// fieldName lowercases a validator namespace like
// "DeployParams.Frontend.DistDir" into "frontend.dist_dir" for messages.
func fieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = snake(part)
	}
	return strings.Join(parts, ".")
}

// snake converts an exported field name to its flag/manifest spelling.
func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validationMessage renders one validator violation as a human sentence.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_unless":
		return "value is required"
	case "fqdn":
		return fmt.Sprintf("%q is not a fully qualified domain name", fe.Value())
	case "email":
		return fmt.Sprintf("%q is not a valid email address", fe.Value())
	case "startswith":
		return "must be an absolute path"
	case "min", "max":
		return fmt.Sprintf("must be between 1 and 64, got %v", fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
