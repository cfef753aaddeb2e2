package model

// ExternalRecord is the provider-neutral view of one task record in an
// external system. Provider clients translate their native page/item
// representations into this shape; the engines never see provider types.
type ExternalRecord struct {
	ID         string
	Title      string
	Properties map[string]any
	URL        string
}

// Property returns the flattened string form of a property value, empty
// when absent.
func (r *ExternalRecord) Property(name string) string {
	if r.Properties == nil {
		return ""
	}
	return AsString(r.Properties[name])
}

// RecordFilter narrows a ListRecords call within a scope.
type RecordFilter struct {
	// ExternalProjectID restricts records to those tagged with the
	// project identifier, for scopes shared between projects.
	ExternalProjectID string
}
