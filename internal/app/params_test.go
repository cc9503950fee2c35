package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
)

func TestValidateFillsDefaults(t *testing.T) {
	params := validParams()
	require.NoError(t, params.Validate())

	assert.Equal(t, DefaultServiceUser, params.ServiceUser)
	assert.Equal(t, DefaultWorkers, params.Workers)
	assert.Equal(t, DefaultPackages, params.Packages)
}

func TestValidateReportsFirstViolationAsPlanningError(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DeployParams)
		field  string
	}{
		{"missing name", func(p *DeployParams) { p.Name = "" }, "name"},
		{"bad domain", func(p *DeployParams) { p.Domain = "not a domain" }, "domain"},
		{"relative work dir", func(p *DeployParams) { p.WorkDir = "srv/myapp" }, "work_dir"},
		{"missing db password", func(p *DeployParams) { p.DatabasePassword = "" }, "database_password"},
		{"quoted db password", func(p *DeployParams) { p.DatabasePassword = "s3'cret" }, "database_password"},
		{"multiline db password", func(p *DeployParams) { p.DatabasePassword = "s3cret\nextra" }, "database_password"},
		{"bad email", func(p *DeployParams) { p.Email = "not-an-email" }, "email"},
		{"bad alias", func(p *DeployParams) { p.Aliases = []string{"ok.example.com", "bad alias"} }, "aliases"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(params)

			err := params.Validate()
			var perr *pipeline.PlanningError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Contains(t, perr.Field, tt.field)
		})
	}
}

func TestValidateFrontendFields(t *testing.T) {
	params := validParams()
	params.Frontend = &FrontendParams{Name: "web", Domain: "app.example.com"}

	err := params.Validate()
	var perr *pipeline.PlanningError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Field, "dist_dir")
}

func TestDeploymentLinksFrontend(t *testing.T) {
	params := validParams()
	params.Frontend = &FrontendParams{
		Name:    "myapp-web",
		Domain:  "app.example.com",
		DistDir: "/srv/myapp-web/dist",
	}
	require.NoError(t, params.Validate())

	dep, err := params.Deployment()
	require.NoError(t, err)
	require.NotNil(t, dep.Frontend())
	assert.True(t, dep.Frontend().Static())
	assert.Equal(t, "/srv/myapp-web/dist", dep.Frontend().StaticRoot())
}

func TestStartCommandDefaultsToVirtualenvGunicorn(t *testing.T) {
	params := validParams()
	require.NoError(t, params.Validate())
	dep, err := params.Deployment()
	require.NoError(t, err)

	assert.Equal(t,
		"/srv/myapp/.venv/bin/gunicorn --config /srv/myapp/gunicorn.conf.py wsgi:application",
		params.StartCommandFor(dep))

	params.StartCommand = "/usr/bin/myapp serve"
	assert.Equal(t, "/usr/bin/myapp serve", params.StartCommandFor(dep))
}
