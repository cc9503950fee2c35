package deployment

import (
	"fmt"
	"strings"
)

// Kind classifies the provisionable unit a Descriptor names.
type Kind string

const (
	// KindPackage is a system package installed via the package manager.
	KindPackage Kind = "package"
	// KindDatabaseRole is a database login role.
	KindDatabaseRole Kind = "database-role"
	// KindDatabase is a database owned by a role.
	KindDatabase Kind = "database"
	// KindServiceUnit is a process-manager unit.
	KindServiceUnit Kind = "service-unit"
	// KindProxyConfig is a reverse-proxy virtual host.
	KindProxyConfig Kind = "proxy-config"
	// KindCertificate is a TLS certificate issued for a domain.
	KindCertificate Kind = "certificate"
	// KindDirectory is a directory created on the host.
	KindDirectory Kind = "directory"
	// KindRenderedFile is a rendered configuration file written to the host.
	KindRenderedFile Kind = "rendered-file"
	// KindHealthCheck is an ephemeral verification target, never persisted.
	KindHealthCheck Kind = "health-check"
)

// Valid returns true for a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPackage, KindDatabaseRole, KindDatabase, KindServiceUnit,
		KindProxyConfig, KindCertificate, KindDirectory, KindRenderedFile,
		KindHealthCheck:
		return true
	}
	return false
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Descriptor names exactly one provisionable unit: its kind, a stable
// identifier, and the host path or handle it occupies. Descriptors are
// immutable; they are created during planning and consumed by exactly
// one Action.
type Descriptor struct {
	kind       Kind
	identifier string
	locator    string
}

// NewDescriptor creates a Descriptor, validating kind and identifier.
func NewDescriptor(kind Kind, identifier, locator string) (Descriptor, error) {
	if !kind.Valid() {
		return Descriptor{}, fmt.Errorf("unknown resource kind %q", kind)
	}
	if strings.TrimSpace(identifier) == "" {
		return Descriptor{}, fmt.Errorf("resource identifier cannot be empty")
	}
	return Descriptor{
		kind:       kind,
		identifier: identifier,
		locator:    locator,
	}, nil
}

// MustNewDescriptor creates a Descriptor and panics on invalid input.
// Use only with compile-time constant arguments.
func MustNewDescriptor(kind Kind, identifier, locator string) Descriptor {
	d, err := NewDescriptor(kind, identifier, locator)
	if err != nil {
		panic(err)
	}
	return d
}

// Kind returns the resource kind.
func (d Descriptor) Kind() Kind {
	return d.kind
}

// Identifier returns the resource identifier (package name, database name,
// unit name, domain).
func (d Descriptor) Identifier() string {
	return d.identifier
}

// Locator returns the host path or handle the resource occupies.
// Empty for resources without a filesystem location.
func (d Descriptor) Locator() string {
	return d.locator
}

// IsZero returns true for the zero Descriptor.
func (d Descriptor) IsZero() bool {
	return d.kind == "" && d.identifier == ""
}

// String returns "kind:identifier" for logs and error messages.
func (d Descriptor) String() string {
	return string(d.kind) + ":" + d.identifier
}
