package app

import (
	"fmt"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/probe"
	"github.com/chrisokoth/ops-toolkit/internal/provider/aptpkg"
	"github.com/chrisokoth/ops-toolkit/internal/provider/certbot"
	"github.com/chrisokoth/ops-toolkit/internal/provider/files"
	"github.com/chrisokoth/ops-toolkit/internal/provider/nginx"
	"github.com/chrisokoth/ops-toolkit/internal/provider/postgres"
	"github.com/chrisokoth/ops-toolkit/internal/provider/systemd"
	"github.com/chrisokoth/ops-toolkit/internal/render"
)

// proxyMaxBodySize is the upload limit baked into generated vhosts.
const proxyMaxBodySize = "25m"

// buildStages assembles the fixed-order provisioning pipeline for the
// deployment. All templates render here, before any mutation, so a
// template problem is a planning failure with nothing to roll back.
func (s *Service) buildStages(dep *deployment.Deployment, params *DeployParams) ([]pipeline.Stage, error) {
	stages := make([]pipeline.Stage, 0, 10)

	depActions := make([]pipeline.Action, 0, len(params.Packages))
	for _, pkg := range params.Packages {
		depActions = append(depActions, aptpkg.NewInstallAction(pkg, s.runner))
	}
	stages = append(stages, pipeline.NewStage(pipeline.StageDependencies, depActions...))

	stages = append(stages, pipeline.NewStage(pipeline.StageDatabase,
		postgres.NewRoleAction(dep.DatabaseUser(), params.DatabasePassword, s.runner),
		postgres.NewDatabaseAction(dep.DatabaseName(), dep.DatabaseUser(), s.runner),
	))

	runtimeStage, err := s.buildRuntimeConfigStage(dep, params)
	if err != nil {
		return nil, err
	}
	stages = append(stages, runtimeStage)

	proxyStage, err := s.buildProxyStage(pipeline.StageReverseProxy, dep)
	if err != nil {
		return nil, err
	}
	stages = append(stages, proxyStage)

	if !params.SkipTLS {
		stages = append(stages, pipeline.NewStage(pipeline.StageCertificate,
			certbot.NewIssueAction(dep.ServerNames(), params.Email, s.fs, s.runner),
		))
	}

	stages = append(stages, pipeline.NewStage(pipeline.StageVerification,
		probe.NewAction(s.probe, dep.URL()),
	))

	if fe := dep.Frontend(); fe != nil {
		feProxy, err := s.buildProxyStage(pipeline.StageFrontendProxy, fe)
		if err != nil {
			return nil, err
		}
		stages = append(stages, feProxy)

		if !params.SkipTLS {
			stages = append(stages, pipeline.NewStage(pipeline.StageFrontendCertificate,
				certbot.NewIssueAction(fe.ServerNames(), params.Email, s.fs, s.runner),
			))
		}

		stages = append(stages, pipeline.NewStage(pipeline.StageFrontendVerification,
			probe.NewAction(s.probe, fe.URL()),
		))
	}

	return stages, nil
}

// buildRuntimeConfigStage renders the env file, the application-server
// config and the unit file, then enables the unit.
func (s *Service) buildRuntimeConfigStage(dep *deployment.Deployment, params *DeployParams) (pipeline.Stage, error) {
	envContent, err := NormalizeEnv(params.EnvContent)
	if err != nil {
		return pipeline.Stage{}, &pipeline.PlanningError{Field: "env", Message: err.Error(), Underlying: err}
	}

	runtimeConfig, err := render.Render(render.TemplateRuntimeConfig, render.RuntimeParams{
		SocketPath: dep.SocketPath(),
		Workers:    params.Workers,
		LogDir:     dep.LogDir(),
	})
	if err != nil {
		return pipeline.Stage{}, planningRenderError(err)
	}

	unit, err := render.Render(render.TemplateServiceUnit, render.UnitParams{
		AppName:     dep.Name(),
		Description: fmt.Sprintf("%s application server", dep.Name()),
		User:        params.ServiceUser,
		Group:       params.ServiceUser,
		WorkDir:     dep.WorkDir(),
		EnvFilePath: dep.EnvFilePath(),
		ExecStart:   params.StartCommandFor(dep),
	})
	if err != nil {
		return pipeline.Stage{}, planningRenderError(err)
	}

	actions := []pipeline.Action{
		files.NewEnsureDirAction(dep.LogDir(), 0o755, s.fs),
	}
	if envContent != "" {
		// Secrets live in the env file; keep it owner-only.
		actions = append(actions,
			files.NewWriteFileAction(dep.Name()+" env file", dep.EnvFilePath(), envContent, 0o600, s.fs))
	}
	actions = append(actions,
		files.NewWriteFileAction(dep.Name()+" runtime config", dep.RuntimeConfigPath(), runtimeConfig, 0o644, s.fs),
		files.NewWriteFileAction(dep.UnitName(), dep.UnitFilePath(), unit, 0o644, s.fs),
		systemd.NewEnableAction(dep.UnitName(), dep.UnitFilePath(), s.runner),
	)

	return pipeline.NewStage(pipeline.StageRuntimeConfig, actions...), nil
}

// buildProxyStage renders the vhost for a backend or static deployment
// and enables it.
func (s *Service) buildProxyStage(stageName string, dep *deployment.Deployment) (pipeline.Stage, error) {
	templateID := render.TemplateProxyBackend
	if dep.Static() {
		templateID = render.TemplateProxyFrontend
	}

	vhost, err := render.Render(templateID, render.ProxyParams{
		AppName:     dep.Name(),
		ServerNames: dep.ServerNames(),
		WorkDir:     dep.WorkDir(),
		SocketPath:  dep.SocketPath(),
		StaticRoot:  dep.StaticRoot(),
		MaxBodySize: proxyMaxBodySize,
	})
	if err != nil {
		return pipeline.Stage{}, planningRenderError(err)
	}

	return pipeline.NewStage(stageName,
		files.NewWriteFileAction(dep.Name()+" vhost", dep.ProxyConfigPath(), vhost, 0o644, s.fs),
		nginx.NewEnableVhostAction(dep.Name(), dep.ProxyConfigPath(), dep.ProxyEnabledPath(), s.fs, s.runner),
	), nil
}

// planningRenderError wraps a template failure as a planning failure.
func planningRenderError(err error) error {
	return &pipeline.PlanningError{Message: fmt.Sprintf("render configuration: %v", err), Underlying: err}
}
