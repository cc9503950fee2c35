// Package render maps a template identifier and parameters to rendered
// configuration text. Rendering is pure: no filesystem or network access,
// and identical input always yields byte-identical output. The caller (an
// action) writes the result to the host.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// TemplateID names one of the supported template families.
type TemplateID string

const (
	// TemplateProxyBackend is the reverse-proxy vhost for a backend app.
	TemplateProxyBackend TemplateID = "proxy-backend"
	// TemplateProxyFrontend is the vhost for a static/SPA frontend.
	TemplateProxyFrontend TemplateID = "proxy-frontend"
	// TemplateServiceUnit is the process-manager unit file.
	TemplateServiceUnit TemplateID = "service-unit"
	// TemplateRuntimeConfig is the application-server runtime config.
	TemplateRuntimeConfig TemplateID = "runtime-config"
	// TemplateEnvFile is the canonical KEY=value environment file.
	TemplateEnvFile TemplateID = "env-file"
)

// ProxyParams parameterize the reverse-proxy vhost templates.
type ProxyParams struct {
	AppName     string
	ServerNames []string
	WorkDir     string
	SocketPath  string
	StaticRoot  string
	MaxBodySize string
}

// UnitParams parameterize the process-manager unit template.
type UnitParams struct {
	AppName     string
	Description string
	User        string
	Group       string
	WorkDir     string
	EnvFilePath string
	ExecStart   string
}

// RuntimeParams parameterize the application-server config template.
type RuntimeParams struct {
	SocketPath string
	Workers    int
	LogDir     string
}

// EnvPair is one environment variable in an env file.
type EnvPair struct {
	Key   string
	Value string
}

// EnvParams parameterize the environment-file template. Pairs must
// already be in the order they should appear.
type EnvParams struct {
	Pairs []EnvPair
}

var templates = map[TemplateID]string{
	TemplateProxyBackend:  proxyBackendTemplate,
	TemplateProxyFrontend: proxyFrontendTemplate,
	TemplateServiceUnit:   serviceUnitTemplate,
	TemplateRuntimeConfig: runtimeConfigTemplate,
	TemplateEnvFile:       envFileTemplate,
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

// Render produces the configuration text for the template and parameters.
func Render(id TemplateID, params any) (string, error) {
	text, ok := templates[id]
	if !ok {
		return "", fmt.Errorf("unknown template %q", id)
	}

	tmpl, err := template.New(string(id)).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("template %q: %w", id, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("template %q: %w", id, err)
	}

	return buf.String(), nil
}
