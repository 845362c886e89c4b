package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes a tool exposed to MCP clients.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func stringArray(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Listings
		{
			Name:        "list_recent_listings",
			Description: "List the most recent swipe listings, newest first",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit": map[string]any{
						"type":        "integer",
						"minimum":     1,
						"description": "Maximum listings to return (default 20)",
					},
				},
			},
		},
		{
			Name:        "create_listing",
			Description: "Post a new listing offering to buy meal swipes",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"swipe_count": map[string]any{
						"type":        "integer",
						"minimum":     1,
						"description": "Number of swipes wanted",
					},
					"price_per_swipe": map[string]any{
						"type":        "number",
						"minimum":     1,
						"description": "Offered price per swipe in dollars",
					},
					"dates":     stringArray("Days the swipes are wanted, YYYY-MM-DD"),
					"meals":     stringArray("Meal periods, e.g. Breakfast, Lunch, Dinner"),
					"locations": stringArray("Dining halls, e.g. Anteatery, Brandywine"),
					"buyer_name": map[string]any{
						"type":        "string",
						"description": "Display name of the buyer",
					},
					"contact_phone": map[string]any{
						"type":        "string",
						"description": "US phone number; formatted as (XXX) XXX-XXXX before validation",
					},
					"note": map[string]any{
						"type":        "string",
						"description": "Optional free-form note",
					},
				},
				"required": []string{"swipe_count", "price_per_swipe", "dates", "meals", "locations", "buyer_name", "contact_phone"},
			},
		},
		{
			Name:        "get_listing",
			Description: "Get a single listing by id",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Listing ID",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "contact_link",
			Description: "Build an sms: link that opens a prefilled message to the buyer",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "string",
						"description": "Listing ID",
					},
					"greeting": map[string]any{
						"type":        "string",
						"description": "Message body (omit for the default greeting)",
					},
				},
				"required": []string{"id"},
			},
		},

		// Form helpers
		{
			Name:        "format_phone",
			Description: "Format raw phone input as (XXX) XXX-XXXX and report whether it is complete",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"raw": map[string]any{
						"type":        "string",
						"description": "Raw phone input",
					},
				},
				"required": []string{"raw"},
			},
		},
		{
			Name:        "get_listing_form",
			Description: "Get selectable meals, locations, dates and default values for a new listing",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},

		// Menus
		{
			Name:        "get_menu",
			Description: "Get today's menu for one dining hall",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"location": map[string]any{
						"type":        "string",
						"description": "Dining hall, e.g. anteatery or brandywine",
					},
				},
				"required": []string{"location"},
			},
		},
		{
			Name:        "get_all_menus",
			Description: "Get today's menus for every configured dining hall",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

func registerTools(server *sdkmcp.Server, handler *Handler, logger *slog.Logger) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := handler.Handle(ctx, name, args)
			if err != nil {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					logger.Error("tool call failed", "tool", name, "error", err)
					apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
				}
				return toolResult(apiErr, true)
			}
			return toolResult(result, false)
		})
	}
}

func toolResult(payload any, isError bool) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: isError,
	}, nil
}
