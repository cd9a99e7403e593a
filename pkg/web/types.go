// Package web provides the HTTP surface for enqueuing work items and
// inspecting workflow runs.
package web

// EnqueueWorkItemRequest represents the request body for enqueuing a work item.
type EnqueueWorkItemRequest struct {
	Title       string `json:"title"       validate:"required,min=3"`
	Description string `json:"description"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high"`
	Workstream  string `json:"workstream"`
}
