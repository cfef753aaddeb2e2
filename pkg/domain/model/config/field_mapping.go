package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/types"
)

// Local field names recognized by the field mapper.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldDueDate     = "dueDate"
	FieldAssignee    = "assignee"
	// FieldProject is the provider property that tags which external
	// project a record belongs to, used for scope filtering and for
	// tagging records created by push.
	FieldProject = "project"
)

// knownFields is the closed set of local fields a mapping may reference.
var knownFields = map[string]bool{
	FieldName:        true,
	FieldDescription: true,
	FieldStatus:      true,
	FieldPriority:    true,
	FieldDueDate:     true,
	FieldAssignee:    true,
	FieldProject:     true,
}

// FieldMapping translates between local action fields and a provider's
// property or column names. User-configured, persisted per workflow.
type FieldMapping struct {
	// Properties maps a local field name to the provider property name.
	// A local field without an entry is not synchronized.
	Properties map[string]string `toml:"properties"`

	// Priorities translates local priority levels to the provider's own
	// vocabulary. Several local levels may collapse to one external
	// value. PriorityFallback is used for local priorities without an
	// entry; an empty fallback leaves the property unset.
	Priorities       map[string]string `toml:"priorities"`
	PriorityFallback string            `toml:"priority_fallback"`

	// Statuses translates local action statuses to provider status
	// values, and is inverted during pull.
	Statuses map[string]string `toml:"statuses"`
}

// Validate checks the mapping references only known local fields and
// valid priority and status values.
func (m *FieldMapping) Validate() error {
	for field := range m.Properties {
		if !knownFields[field] {
			return goerr.New("unknown local field in mapping", goerr.V("field", field))
		}
	}
	for p := range m.Priorities {
		if !types.Priority(p).IsValid() {
			return goerr.New("unknown priority in mapping", goerr.V("priority", p))
		}
	}
	for s := range m.Statuses {
		if !types.ActionStatus(s).IsValid() {
			return goerr.New("unknown status in mapping", goerr.V("status", s))
		}
	}
	return nil
}

// PropertyFor returns the provider property name for a local field.
func (m *FieldMapping) PropertyFor(field string) (string, bool) {
	prop, ok := m.Properties[field]
	return prop, ok
}

// TranslatePriority converts a local priority to the provider vocabulary.
func (m *FieldMapping) TranslatePriority(p types.Priority) (string, bool) {
	if v, ok := m.Priorities[p.String()]; ok {
		return v, true
	}
	if m.PriorityFallback != "" {
		return m.PriorityFallback, true
	}
	return "", false
}

// ReversePriority converts a provider priority value back to the local
// scale. Several local levels may share an external value; the highest
// ranked local level wins, so collapsing scales is lossy by construction.
func (m *FieldMapping) ReversePriority(external string) (types.Priority, bool) {
	if external == "" {
		return "", false
	}
	for _, local := range types.AllPriorities() {
		if m.Priorities[local.String()] == external {
			return local, true
		}
	}
	return "", false
}

// TranslateStatus converts a local status to the provider vocabulary.
func (m *FieldMapping) TranslateStatus(s types.ActionStatus) (string, bool) {
	v, ok := m.Statuses[s.String()]
	return v, ok
}

// ReverseStatus converts a provider status value back to a local status.
func (m *FieldMapping) ReverseStatus(external string) (types.ActionStatus, bool) {
	if external == "" {
		return "", false
	}
	for _, local := range types.AllActionStatuses() {
		if m.Statuses[local.String()] == external {
			return local, true
		}
	}
	return "", false
}

// DefaultFieldMapping returns a mapping that mirrors the local field
// names one to one, with no priority or status translation.
func DefaultFieldMapping() *FieldMapping {
	return &FieldMapping{
		Properties: map[string]string{
			FieldName:        "Name",
			FieldDescription: "Description",
			FieldStatus:      "Status",
			FieldPriority:    "Priority",
			FieldDueDate:     "Due Date",
			FieldAssignee:    "Assignee",
		},
		Priorities: map[string]string{},
		Statuses:   map[string]string{},
	}
}
