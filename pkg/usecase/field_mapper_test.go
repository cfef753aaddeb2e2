package usecase_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/domain/model/config"
	"github.com/positonic/exponential-sync/pkg/domain/types"
	"github.com/positonic/exponential-sync/pkg/usecase"
)

func collapsedMapping() *config.FieldMapping {
	return &config.FieldMapping{
		Properties: map[string]string{
			config.FieldName:        "Task",
			config.FieldDescription: "Notes",
			config.FieldStatus:      "State",
			config.FieldPriority:    "Urgency",
			config.FieldDueDate:     "Due",
			config.FieldAssignee:    "Owner",
			config.FieldProject:     "Project ID",
		},
		Priorities: map[string]string{
			types.PriorityFirst.String():  "High",
			types.PrioritySecond.String(): "Medium",
			types.PriorityThird.String():  "Medium",
			types.PriorityQuick.String():  "Low",
		},
		PriorityFallback: "Low",
		Statuses: map[string]string{
			types.ActionStatusActive.String():    "In Progress",
			types.ActionStatusCompleted.String(): "Done",
			types.ActionStatusCancelled.String(): "Dropped",
		},
	}
}

func TestFieldMapperBuildProperties(t *testing.T) {
	mapper := usecase.NewFieldMapper(collapsedMapping())
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	action := &model.Action{
		Name:        "Prepare launch",
		Description: "Checklist in the doc",
		Status:      types.ActionStatusActive,
		Priority:    types.PrioritySecond,
		DueDate:     &due,
	}

	props := mapper.BuildProperties(action, "ext-user-9", "proj-3")
	gt.Value(t, props["Notes"]).Equal(model.Text("Checklist in the doc"))
	gt.Value(t, props["State"]).Equal(model.Select("In Progress"))
	gt.Value(t, props["Urgency"]).Equal(model.Select("Medium"))
	gt.Value(t, props["Due"]).Equal(model.Date(due))
	gt.Value(t, props["Owner"]).Equal(model.Person("ext-user-9"))
	gt.Value(t, props["Project ID"]).Equal(model.Text("proj-3"))
}

func TestFieldMapperPriorityFallback(t *testing.T) {
	mapper := usecase.NewFieldMapper(collapsedMapping())

	action := &model.Action{
		Name:     "Someday",
		Status:   types.ActionStatusActive,
		Priority: types.PrioritySomedayMaybe,
	}

	props := mapper.BuildProperties(action, "", "")
	gt.Value(t, props["Urgency"]).Equal(model.Select("Low"))

	// No fallback: the property stays unset for unmapped levels
	mapping := collapsedMapping()
	mapping.PriorityFallback = ""
	strict := usecase.NewFieldMapper(mapping)
	props = strict.BuildProperties(action, "", "")
	_, ok := props["Urgency"]
	gt.B(t, ok).False()
}

func TestFieldMapperDefaultPassthrough(t *testing.T) {
	mapper := usecase.NewFieldMapper(nil)

	action := &model.Action{
		Name:     "Plain",
		Status:   types.ActionStatusCompleted,
		Priority: types.PriorityErrand,
	}

	// Without translation tables local vocabulary passes through verbatim
	props := mapper.BuildProperties(action, "", "")
	gt.Value(t, props["Status"]).Equal(model.Select("COMPLETED"))
	gt.Value(t, props["Priority"]).Equal(model.Select("Errand"))
}

func TestFieldMapperParseRecord(t *testing.T) {
	mapper := usecase.NewFieldMapper(collapsedMapping())
	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	record := &model.ExternalRecord{
		ID:    "rec-1",
		Title: "Prepare launch",
		Properties: map[string]any{
			"Notes":   "Checklist in the doc",
			"State":   "Done",
			"Urgency": "High",
			"Due":     due,
			"Owner":   "ext-user-9",
		},
	}

	fields := mapper.ParseRecord(record)
	gt.Value(t, fields.Name).Equal("Prepare launch")
	gt.Value(t, *fields.Description).Equal("Checklist in the doc")
	gt.Value(t, *fields.Status).Equal(types.ActionStatusCompleted)
	gt.Value(t, *fields.Priority).Equal(types.PriorityFirst)
	gt.Value(t, *fields.DueDate).Equal(due)
	gt.Value(t, *fields.ExternalAssigneeID).Equal("ext-user-9")
}

func TestFieldMapperParseUnknownVocabulary(t *testing.T) {
	mapper := usecase.NewFieldMapper(collapsedMapping())

	record := &model.ExternalRecord{
		ID:    "rec-1",
		Title: "Odd one",
		Properties: map[string]any{
			"State":   "Blocked",
			"Urgency": "Critical",
		},
	}

	// Values outside the configured vocabulary are dropped, not errors
	fields := mapper.ParseRecord(record)
	gt.Value(t, fields.Status).Nil()
	gt.Value(t, fields.Priority).Nil()
}

func TestFieldMapperApply(t *testing.T) {
	mapper := usecase.NewFieldMapper(collapsedMapping())
	due := time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC)

	action := &model.Action{
		Name:        "Old name",
		Description: "Old notes",
		Status:      types.ActionStatusActive,
		Priority:    types.PriorityQuick,
		DueDate:     &due,
	}

	// A mapped but absent due date clears the local one; unmapped
	// fields stay untouched
	empty := ""
	status := types.ActionStatusCancelled
	mapper.Apply(action, &usecase.MappedFields{
		Name:        "New name",
		Description: &empty,
		Status:      &status,
		HasDueDate:  true,
	})

	gt.Value(t, action.Name).Equal("New name")
	gt.Value(t, action.Description).Equal("")
	gt.Value(t, action.Status).Equal(types.ActionStatusCancelled)
	gt.Value(t, action.Priority).Equal(types.PriorityQuick)
	gt.Value(t, action.DueDate).Nil()
}
