// Package registry defines the durable ledger of applied resources.
// A Record is written when a deployment run commits and consumed by a
// later teardown run, possibly in a different process.
package registry

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
)

// Record is the committed ledger for one deployment: the ordered list of
// resource descriptors that were applied, oldest first. Teardown replays
// the list in reverse.
type Record struct {
	id          string
	deployment  string
	createdAt   time.Time
	descriptors []deployment.Descriptor
}

// NewRecord creates a Record for the given deployment name.
func NewRecord(deploymentName string, descriptors []deployment.Descriptor) (*Record, error) {
	if deploymentName == "" {
		return nil, fmt.Errorf("deployment name cannot be empty")
	}
	return &Record{
		id:          uuid.NewString(),
		deployment:  deploymentName,
		createdAt:   time.Now().UTC(),
		descriptors: append([]deployment.Descriptor(nil), descriptors...),
	}, nil
}

// ID returns the record identifier.
func (r *Record) ID() string { return r.id }

// DeploymentName returns the deployment this record belongs to.
func (r *Record) DeploymentName() string { return r.deployment }

// CreatedAt returns the commit time.
func (r *Record) CreatedAt() time.Time { return r.createdAt }

// Descriptors returns the applied descriptors in apply order.
func (r *Record) Descriptors() []deployment.Descriptor {
	return append([]deployment.Descriptor(nil), r.descriptors...)
}

// Len returns the number of applied descriptors.
func (r *Record) Len() int { return len(r.descriptors) }

// RecordDTO is the serialization shape of a Record.
type RecordDTO struct {
	ID         string          `yaml:"id"`
	Deployment string          `yaml:"deployment"`
	CreatedAt  time.Time       `yaml:"created_at"`
	Resources  []DescriptorDTO `yaml:"resources"`
}

// DescriptorDTO is the serialization shape of a resource descriptor.
type DescriptorDTO struct {
	Kind       string `yaml:"kind"`
	Identifier string `yaml:"identifier"`
	Locator    string `yaml:"locator,omitempty"`
}

// ToDTO converts a Record for persistence.
func ToDTO(r *Record) RecordDTO {
	dto := RecordDTO{
		ID:         r.id,
		Deployment: r.deployment,
		CreatedAt:  r.createdAt,
		Resources:  make([]DescriptorDTO, 0, len(r.descriptors)),
	}
	for _, d := range r.descriptors {
		dto.Resources = append(dto.Resources, DescriptorDTO{
			Kind:       d.Kind().String(),
			Identifier: d.Identifier(),
			Locator:    d.Locator(),
		})
	}
	return dto
}

// FromDTO reconstructs a Record from its persisted shape.
func FromDTO(dto RecordDTO) (*Record, error) {
	if dto.Deployment == "" {
		return nil, fmt.Errorf("record missing deployment name")
	}
	descriptors := make([]deployment.Descriptor, 0, len(dto.Resources))
	for _, res := range dto.Resources {
		d, err := deployment.NewDescriptor(deployment.Kind(res.Kind), res.Identifier, res.Locator)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", dto.Deployment, err)
		}
		descriptors = append(descriptors, d)
	}
	return &Record{
		id:          dto.ID,
		deployment:  dto.Deployment,
		createdAt:   dto.CreatedAt,
		descriptors: descriptors,
	}, nil
}
