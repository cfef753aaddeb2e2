package usecase

import (
	"time"

	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/domain/model/config"
	"github.com/positonic/exponential-sync/pkg/domain/types"
)

// FieldMapper translates between local action fields and provider
// property payloads according to one workflow's field mapping. It is
// pure; all I/O stays in the engines and clients.
type FieldMapper struct {
	mapping *config.FieldMapping
}

func NewFieldMapper(mapping *config.FieldMapping) *FieldMapper {
	if mapping == nil {
		mapping = config.DefaultFieldMapping()
	}
	return &FieldMapper{mapping: mapping}
}

// MappedFields is the local view of one external record after mapping.
// Nil pointer fields mean the local field has no mapping entry and must
// be left untouched; a mapped but empty value clears the local field.
type MappedFields struct {
	Name        string
	Description *string
	Status      *types.ActionStatus
	Priority    *types.Priority
	DueDate     *time.Time
	// HasDueDate distinguishes "mapped and absent" (clear the local due
	// date) from "not mapped" (leave it alone).
	HasDueDate bool
	// ExternalAssigneeID is nil when the assignee field is unmapped,
	// and points at an empty string for a mapped but unassigned record.
	ExternalAssigneeID *string
}

// ParseRecord maps an external record into local field values.
// Status and priority values outside the configured vocabulary are
// dropped rather than failing the record.
func (m *FieldMapper) ParseRecord(record *model.ExternalRecord) *MappedFields {
	fields := &MappedFields{Name: record.Title}

	if prop, ok := m.mapping.PropertyFor(config.FieldName); ok && fields.Name == "" {
		fields.Name = record.Property(prop)
	}

	if prop, ok := m.mapping.PropertyFor(config.FieldDescription); ok {
		desc := record.Property(prop)
		fields.Description = &desc
	}

	if prop, ok := m.mapping.PropertyFor(config.FieldStatus); ok {
		if status, ok := m.parseStatus(record.Property(prop)); ok {
			fields.Status = &status
		}
	}

	if prop, ok := m.mapping.PropertyFor(config.FieldPriority); ok {
		if priority, ok := m.parsePriority(record.Property(prop)); ok {
			fields.Priority = &priority
		}
	}

	if prop, ok := m.mapping.PropertyFor(config.FieldDueDate); ok {
		fields.HasDueDate = true
		if due, ok := model.AsTime(record.Properties[prop]); ok {
			fields.DueDate = &due
		}
	}

	if prop, ok := m.mapping.PropertyFor(config.FieldAssignee); ok {
		assignee := record.Property(prop)
		fields.ExternalAssigneeID = &assignee
	}

	return fields
}

// Apply writes mapped field values onto an action. Fields without a
// mapping entry are untouched; the assignee is applied by the caller
// after user identity resolution.
func (m *FieldMapper) Apply(action *model.Action, fields *MappedFields) {
	if fields.Name != "" {
		action.Name = fields.Name
	}
	if fields.Description != nil {
		action.Description = *fields.Description
	}
	if fields.Status != nil {
		action.Status = *fields.Status
	}
	if fields.Priority != nil {
		action.Priority = *fields.Priority
	}
	if fields.HasDueDate {
		action.DueDate = fields.DueDate
	}
}

// BuildProperties produces the provider property payload for pushing an
// action. The external assignee ID is already resolved; empty means the
// assignee property stays unset. The external project ID tags the record
// when the mapping names a project property.
func (m *FieldMapper) BuildProperties(action *model.Action, externalAssigneeID string, externalProjectID string) map[string]any {
	properties := make(map[string]any)

	if prop, ok := m.mapping.PropertyFor(config.FieldDescription); ok && action.Description != "" {
		properties[prop] = model.Text(action.Description)
	}

	if prop, ok := m.mapping.PropertyFor(config.FieldStatus); ok {
		if value, ok := m.translateStatus(action.Status); ok {
			properties[prop] = model.Select(value)
		}
	}

	if prop, ok := m.mapping.PropertyFor(config.FieldPriority); ok {
		if value, ok := m.translatePriority(action.Priority); ok {
			properties[prop] = model.Select(value)
		}
	}

	if prop, ok := m.mapping.PropertyFor(config.FieldDueDate); ok && action.DueDate != nil {
		properties[prop] = model.Date(*action.DueDate)
	}

	if prop, ok := m.mapping.PropertyFor(config.FieldAssignee); ok && externalAssigneeID != "" {
		properties[prop] = model.Person(externalAssigneeID)
	}

	if prop, ok := m.mapping.PropertyFor(config.FieldProject); ok && externalProjectID != "" {
		properties[prop] = model.Text(externalProjectID)
	}

	return properties
}

// A mapping without a status table passes local values through verbatim.
// With a table, values outside it stay unset (push) or untouched (pull).
func (m *FieldMapper) translateStatus(status types.ActionStatus) (string, bool) {
	if status == "" {
		return "", false
	}
	if len(m.mapping.Statuses) == 0 {
		return status.String(), true
	}
	return m.mapping.TranslateStatus(status)
}

func (m *FieldMapper) parseStatus(external string) (types.ActionStatus, bool) {
	if len(m.mapping.Statuses) == 0 {
		status := types.ActionStatus(external)
		return status, status.IsValid()
	}
	return m.mapping.ReverseStatus(external)
}

func (m *FieldMapper) translatePriority(priority types.Priority) (string, bool) {
	if priority == "" {
		return "", false
	}
	if len(m.mapping.Priorities) == 0 {
		return priority.String(), true
	}
	return m.mapping.TranslatePriority(priority)
}

func (m *FieldMapper) parsePriority(external string) (types.Priority, bool) {
	if len(m.mapping.Priorities) == 0 {
		priority := types.Priority(external)
		return priority, priority.IsValid()
	}
	return m.mapping.ReversePriority(external)
}
