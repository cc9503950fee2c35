// Package postgres provides actions that manage database roles and
// databases through the psql client, invoked as the postgres system user.
package postgres

import (
	"fmt"
	"strings"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
	"github.com/chrisokoth/ops-toolkit/internal/validation"
)

// psql runs a SQL statement as the postgres superuser and returns the
// trimmed stdout.
func psql(ctx pipeline.RunContext, runner ports.CommandRunner, sql string) (string, error) {
	result, err := runner.Run(ctx.Context(), "sudo", "-u", "postgres", "psql", "-tAc", sql)
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", fmt.Errorf("psql failed: %s", strings.TrimSpace(result.Stderr))
	}
	return strings.TrimSpace(result.Stdout), nil
}

// RoleAction creates a database login role. An existing role is success;
// its password is left untouched.
type RoleAction struct {
	role     string
	password string
	desc     deployment.Descriptor
	runner   ports.CommandRunner
}

// NewRoleAction creates a role action.
func NewRoleAction(role, password string, runner ports.CommandRunner) *RoleAction {
	return &RoleAction{
		role:     role,
		password: password,
		desc:     deployment.MustNewDescriptor(deployment.KindDatabaseRole, role, ""),
		runner:   runner,
	}
}

// Descriptor returns the role descriptor.
func (a *RoleAction) Descriptor() deployment.Descriptor {
	return a.desc
}

// Apply creates the role unless it exists.
func (a *RoleAction) Apply(ctx pipeline.RunContext) error {
	if err := validation.ValidateSQLIdentifier(a.role); err != nil {
		return err
	}
	if err := validation.ValidateSQLLiteral(a.password); err != nil {
		return fmt.Errorf("invalid role password: %w", err)
	}

	out, err := psql(ctx, a.runner, fmt.Sprintf("SELECT 1 FROM pg_roles WHERE rolname = '%s'", a.role))
	if err != nil {
		return err
	}
	if out == "1" {
		ctx.Logger().Debug(ctx.Context(), "role already exists", ports.F("role", a.role))
		return nil
	}

	_, err = psql(ctx, a.runner, fmt.Sprintf(`CREATE ROLE "%s" WITH LOGIN PASSWORD '%s'`, a.role, a.password))
	return err
}

// Present reports whether the role exists.
func (a *RoleAction) Present(ctx pipeline.RunContext) (bool, error) {
	if err := validation.ValidateSQLIdentifier(a.role); err != nil {
		return false, err
	}
	out, err := psql(ctx, a.runner, fmt.Sprintf("SELECT 1 FROM pg_roles WHERE rolname = '%s'", a.role))
	if err != nil {
		return false, err
	}
	return out == "1", nil
}

// Undo drops the role. An absent role is success.
func (a *RoleAction) Undo(ctx pipeline.RunContext) error {
	if err := validation.ValidateSQLIdentifier(a.role); err != nil {
		return err
	}
	_, err := psql(ctx, a.runner, fmt.Sprintf(`DROP ROLE IF EXISTS "%s"`, a.role))
	return err
}

// DatabaseAction creates a database owned by a role. Recreating an
// existing database is destructive and requires explicit confirmation;
// declined confirmation keeps the existing database and succeeds.
type DatabaseAction struct {
	db     string
	owner  string
	desc   deployment.Descriptor
	runner ports.CommandRunner
}

// NewDatabaseAction creates a database action.
func NewDatabaseAction(db, owner string, runner ports.CommandRunner) *DatabaseAction {
	return &DatabaseAction{
		db:     db,
		owner:  owner,
		desc:   deployment.MustNewDescriptor(deployment.KindDatabase, db, ""),
		runner: runner,
	}
}

// Descriptor returns the database descriptor.
func (a *DatabaseAction) Descriptor() deployment.Descriptor {
	return a.desc
}

// Apply creates the database. An existing database is kept unless the
// operator explicitly confirms a drop-and-recreate.
func (a *DatabaseAction) Apply(ctx pipeline.RunContext) error {
	if err := validation.ValidateSQLIdentifier(a.db); err != nil {
		return err
	}
	if err := validation.ValidateSQLIdentifier(a.owner); err != nil {
		return err
	}

	exists, err := a.exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		if !ctx.Confirm(fmt.Sprintf("Database %q already exists. Drop and recreate it? ALL DATA WILL BE LOST.", a.db)) {
			ctx.Logger().Info(ctx.Context(), "keeping existing database", ports.F("database", a.db))
			return nil
		}
		if _, err := psql(ctx, a.runner, fmt.Sprintf(`DROP DATABASE "%s"`, a.db)); err != nil {
			return err
		}
	}

	_, err = psql(ctx, a.runner, fmt.Sprintf(`CREATE DATABASE "%s" OWNER "%s"`, a.db, a.owner))
	return err
}

// Present reports whether the database exists.
func (a *DatabaseAction) Present(ctx pipeline.RunContext) (bool, error) {
	if err := validation.ValidateSQLIdentifier(a.db); err != nil {
		return false, err
	}
	return a.exists(ctx)
}

// Undo drops the database. An absent database is success. Outside a
// same-run rollback the drop is gated by confirmation: it is irreversible.
func (a *DatabaseAction) Undo(ctx pipeline.RunContext) error {
	if err := validation.ValidateSQLIdentifier(a.db); err != nil {
		return err
	}

	exists, err := a.exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	if !ctx.Confirm(fmt.Sprintf("Drop database %q? ALL DATA WILL BE LOST.", a.db)) {
		ctx.Logger().Info(ctx.Context(), "database left in place", ports.F("database", a.db))
		return nil
	}

	_, err = psql(ctx, a.runner, fmt.Sprintf(`DROP DATABASE "%s"`, a.db))
	return err
}

// exists checks pg_database for the database name.
func (a *DatabaseAction) exists(ctx pipeline.RunContext) (bool, error) {
	out, err := psql(ctx, a.runner, fmt.Sprintf("SELECT 1 FROM pg_database WHERE datname = '%s'", a.db))
	if err != nil {
		return false, err
	}
	return out == "1", nil
}

// Ensure actions implement pipeline.StatefulAction.
var (
	_ pipeline.StatefulAction = (*RoleAction)(nil)
	_ pipeline.StatefulAction = (*DatabaseAction)(nil)
)
