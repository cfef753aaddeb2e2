package provider

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/interfaces"
	"github.com/positonic/exponential-sync/pkg/domain/types"
	"github.com/positonic/exponential-sync/pkg/service/monday"
	"github.com/positonic/exponential-sync/pkg/service/notion"
)

// New builds the provider client for a workflow. The scope ID is the
// provider database or board the workflow targets; Monday needs it up
// front because its column value mutations are board scoped. An empty
// projectProperty keeps each client's default project tag property.
func New(p types.Provider, token string, scopeID string, projectProperty string) (interfaces.ProviderClient, error) {
	switch p {
	case types.ProviderNotion:
		var opts []notion.Option
		if projectProperty != "" {
			opts = append(opts, notion.WithProjectProperty(projectProperty))
		}
		return notion.New(token, opts...)
	case types.ProviderMonday:
		opts := []monday.Option{monday.WithBoard(scopeID)}
		if projectProperty != "" {
			opts = append(opts, monday.WithProjectColumn(projectProperty))
		}
		return monday.New(token, opts...)
	default:
		return nil, goerr.New("unsupported provider", goerr.V("provider", p))
	}
}
