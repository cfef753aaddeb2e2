package types

import "fmt"

// Provider identifies an external task management system
type Provider string

const (
	ProviderNotion Provider = "notion"
	ProviderMonday Provider = "monday"
)

// AllProviders returns all valid providers
func AllProviders() []Provider {
	return []Provider{
		ProviderNotion,
		ProviderMonday,
	}
}

// IsValid checks if the provider is valid
func (p Provider) IsValid() bool {
	switch p {
	case ProviderNotion, ProviderMonday:
		return true
	default:
		return false
	}
}

// String returns the string representation of the provider
func (p Provider) String() string {
	return string(p)
}

// ParseProvider parses a string into a Provider
func ParseProvider(s string) (Provider, error) {
	provider := Provider(s)
	if !provider.IsValid() {
		return "", fmt.Errorf("invalid provider: %s", s)
	}
	return provider, nil
}

// TaskManagementTool is where a project's tasks are managed. Unlike
// Provider it includes the internal store itself, for projects that do
// not sync externally.
type TaskManagementTool string

const (
	TaskManagementToolInternal TaskManagementTool = "internal"
	TaskManagementToolNotion   TaskManagementTool = "notion"
	TaskManagementToolMonday   TaskManagementTool = "monday"
)

// AllTaskManagementTools returns all valid task management tools
func AllTaskManagementTools() []TaskManagementTool {
	return []TaskManagementTool{
		TaskManagementToolInternal,
		TaskManagementToolNotion,
		TaskManagementToolMonday,
	}
}

// IsValid checks if the task management tool is valid
func (t TaskManagementTool) IsValid() bool {
	switch t {
	case TaskManagementToolInternal, TaskManagementToolNotion, TaskManagementToolMonday:
		return true
	default:
		return false
	}
}

// String returns the string representation of the task management tool
func (t TaskManagementTool) String() string {
	return string(t)
}

// Provider returns the external provider backing the tool. The internal
// store has no external provider.
func (t TaskManagementTool) Provider() (Provider, bool) {
	switch t {
	case TaskManagementToolNotion:
		return ProviderNotion, true
	case TaskManagementToolMonday:
		return ProviderMonday, true
	default:
		return "", false
	}
}

// ParseTaskManagementTool parses a string into a TaskManagementTool
func ParseTaskManagementTool(s string) (TaskManagementTool, error) {
	tool := TaskManagementTool(s)
	if !tool.IsValid() {
		return "", fmt.Errorf("invalid task management tool: %s", s)
	}
	return tool, nil
}
