// Package deployment defines the deployment value objects: the named,
// host-local unit being provisioned and the resource descriptors derived
// from it. The application name uniquely determines every derived resource
// name, which is what keeps actions idempotent and teardown deterministic.
package deployment

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// namePattern constrains application names so that every derived resource
// name (unit file, vhost, socket path, database) is safe without quoting.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]{1,62}$`)

// Deployment is one named, host-local instance of the provisioned
// application. Immutable after construction; all resource names derive
// from the application name.
type Deployment struct {
	name       string
	domain     string
	aliases    []string
	workDir    string
	dbName     string
	dbUser     string
	static     bool
	staticRoot string
	frontend   *Deployment
}

// Option configures a Deployment during construction.
type Option func(*Deployment)

// WithWorkDir sets the application working directory.
func WithWorkDir(dir string) Option {
	return func(d *Deployment) {
		d.workDir = dir
	}
}

// WithDatabase sets the database name and owning role. Empty values fall
// back to names derived from the application name.
func WithDatabase(name, user string) Option {
	return func(d *Deployment) {
		d.dbName = name
		d.dbUser = user
	}
}

// WithAliases adds extra domains served by the same virtual host.
func WithAliases(aliases ...string) Option {
	return func(d *Deployment) {
		d.aliases = append(d.aliases, aliases...)
	}
}

// WithFrontend links a static frontend deployment to this backend.
func WithFrontend(fe *Deployment) Option {
	return func(d *Deployment) {
		d.frontend = fe
	}
}

// AsStatic marks the deployment as a static/SPA frontend served from root.
// Static deployments have no database, unit, or socket.
func AsStatic(root string) Option {
	return func(d *Deployment) {
		d.static = true
		d.staticRoot = root
	}
}

// New creates a Deployment for the given application name and domain.
func New(name, domain string, opts ...Option) (*Deployment, error) {
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid application name %q: must be lowercase letters, digits and hyphens, starting with a letter", name)
	}
	if strings.TrimSpace(domain) == "" {
		return nil, fmt.Errorf("domain cannot be empty")
	}

	d := &Deployment{
		name:   name,
		domain: domain,
	}
	for _, opt := range opts {
		opt(d)
	}

	if !d.static {
		if d.dbName == "" {
			d.dbName = strings.ReplaceAll(name, "-", "_")
		}
		if d.dbUser == "" {
			d.dbUser = strings.ReplaceAll(name, "-", "_")
		}
	}

	return d, nil
}

// Name returns the application name.
func (d *Deployment) Name() string { return d.name }

// Domain returns the primary domain.
func (d *Deployment) Domain() string { return d.domain }

// Aliases returns extra domains served by the virtual host.
func (d *Deployment) Aliases() []string { return d.aliases }

// ServerNames returns the primary domain followed by aliases, for the
// proxy virtual host.
func (d *Deployment) ServerNames() []string {
	return append([]string{d.domain}, d.aliases...)
}

// WorkDir returns the application working directory.
func (d *Deployment) WorkDir() string { return d.workDir }

// DatabaseName returns the database name. Empty for static deployments.
func (d *Deployment) DatabaseName() string { return d.dbName }

// DatabaseUser returns the database owning role. Empty for static deployments.
func (d *Deployment) DatabaseUser() string { return d.dbUser }

// Static returns true for static/SPA frontend deployments.
func (d *Deployment) Static() bool { return d.static }

// StaticRoot returns the directory static deployments are served from.
func (d *Deployment) StaticRoot() string { return d.staticRoot }

// Frontend returns the linked frontend deployment, or nil.
func (d *Deployment) Frontend() *Deployment { return d.frontend }

// UnitName returns the process-manager unit name.
func (d *Deployment) UnitName() string {
	return d.name + ".service"
}

// UnitFilePath returns the unit file location.
func (d *Deployment) UnitFilePath() string {
	return filepath.Join("/etc/systemd/system", d.UnitName())
}

// ProxyConfigPath returns the available virtual-host file location.
func (d *Deployment) ProxyConfigPath() string {
	return filepath.Join("/etc/nginx/sites-available", d.name)
}

// ProxyEnabledPath returns the enabled virtual-host symlink location.
func (d *Deployment) ProxyEnabledPath() string {
	return filepath.Join("/etc/nginx/sites-enabled", d.name)
}

// RuntimeDir returns the socket/runtime directory.
func (d *Deployment) RuntimeDir() string {
	return filepath.Join("/run", d.name)
}

// SocketPath returns the application socket path.
func (d *Deployment) SocketPath() string {
	return filepath.Join(d.RuntimeDir(), d.name+".sock")
}

// LogDir returns the application log directory.
func (d *Deployment) LogDir() string {
	return filepath.Join("/var/log", d.name)
}

// EnvFilePath returns the environment file location.
func (d *Deployment) EnvFilePath() string {
	return filepath.Join(d.workDir, ".env")
}

// RuntimeConfigPath returns the application-server config file location.
func (d *Deployment) RuntimeConfigPath() string {
	return filepath.Join(d.workDir, "gunicorn.conf.py")
}

// URL returns the plain HTTP URL for the primary domain. The certificate
// action upgrades the vhost to TLS after issuance; until then the probe
// targets this URL.
func (d *Deployment) URL() string {
	return "http://" + d.domain
}

// SecureURL returns the HTTPS URL for the primary domain.
func (d *Deployment) SecureURL() string {
	return "https://" + d.domain
}
