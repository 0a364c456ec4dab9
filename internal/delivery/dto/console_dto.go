package dto

import "time"

// Request DTOs

type SelectCategoryRequest struct {
	CategoryID string `json:"category_id" validate:"required"`
}

type ResolveNavigationRequest struct {
	Confirm *bool `json:"confirm" validate:"required"`
}

type ReportUnsavedChangesRequest struct {
	Unsaved *bool `json:"unsaved" validate:"required"`
}

// Response DTOs

type CategoryResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type CategoryListResponse struct {
	Role       string             `json:"role"`
	Categories []CategoryResponse `json:"categories"`
}

type PendingNavigationResponse struct {
	ID          string    `json:"id"`
	Target      string    `json:"target"`
	Prompt      string    `json:"prompt"`
	RequestedAt time.Time `json:"requested_at"`
}

type ConsoleResponse struct {
	Role              string                     `json:"role"`
	Categories        []CategoryResponse         `json:"categories"`
	Active            string                     `json:"active,omitempty"`
	ActiveCategory    *CategoryResponse          `json:"active_category,omitempty"`
	HasUnsavedChanges bool                       `json:"has_unsaved_changes"`
	Pending           *PendingNavigationResponse `json:"pending,omitempty"`
}

type NavigationResponse struct {
	Outcome string          `json:"outcome"`
	Console ConsoleResponse `json:"console"`
}

type PanelResponse struct {
	Category          string      `json:"category"`
	HasUnsavedChanges bool        `json:"has_unsaved_changes"`
	Data              interface{} `json:"data"`
}
