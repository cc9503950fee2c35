// Package validation provides input validation utilities to prevent
// command injection and other input-based attacks in values that end up
// in shell commands, SQL statements, and rendered configuration.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput           = errors.New("input cannot be empty")
	ErrInvalidPackageName   = errors.New("invalid package name")
	ErrInvalidIdentifier    = errors.New("invalid database identifier")
	ErrInvalidDomain        = errors.New("invalid domain name")
	ErrInvalidUnitName      = errors.New("invalid service unit name")
	ErrNewlineInjection     = errors.New("newline injection detected")
	ErrInvalidAbsolutePath  = errors.New("path must be absolute")
	ErrSingleQuoteInjection = errors.New("single quote not allowed")
)

// Compiled regex patterns (compiled once for performance).
var (
	// packageNameRegex matches valid package names: alphanumeric, hyphens,
	// underscores, dots, plus. Examples: "nginx", "python3.11", "g++"
	packageNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._+-]*$`)

	// sqlIdentifierRegex matches conservative PostgreSQL identifiers.
	// Examples: "myapp", "my_app_db"
	sqlIdentifierRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

	// domainRegex matches DNS names. Examples: "example.com", "api.example.co.uk"
	domainRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?)+$`)

	// unitNameRegex matches systemd unit names. Example: "myapp.service"
	unitNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*\.service$`)
)

// ValidatePackageName validates a system package name before it reaches
// the package manager command line.
func ValidatePackageName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPackageName, name)
	}
	return nil
}

// ValidateSQLIdentifier validates a database or role name before it is
// interpolated into a SQL statement.
func ValidateSQLIdentifier(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if !sqlIdentifierRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// ValidateSQLLiteral validates a string literal (such as a password)
// before it is interpolated into a single-quoted SQL string.
func ValidateSQLLiteral(value string) error {
	if strings.ContainsAny(value, "'") {
		return ErrSingleQuoteInjection
	}
	if strings.ContainsAny(value, "\n\r") {
		return ErrNewlineInjection
	}
	return nil
}

// ValidateDomain validates a DNS name before it reaches the certificate
// authority client or a rendered vhost.
func ValidateDomain(domain string) error {
	if domain == "" {
		return ErrEmptyInput
	}
	if len(domain) > 253 || !domainRegex.MatchString(domain) {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}
	return nil
}

// ValidateUnitName validates a service unit name before it reaches the
// service manager command line.
func ValidateUnitName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if !unitNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidUnitName, name)
	}
	return nil
}

// ValidateAbsolutePath validates that a path is absolute and free of
// newline injection before it is written into configuration.
func ValidateAbsolutePath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidAbsolutePath, path)
	}
	if strings.ContainsAny(path, "\n\r") {
		return ErrNewlineInjection
	}
	return nil
}
