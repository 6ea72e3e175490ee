package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common invoicing workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("overdue_review").
		Description("Review outstanding invoices and decide which to mark overdue or paid.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Overdue Review",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me review outstanding invoices. Please:

1. Read the current totals from the fakturering://report resource
2. Check the accepted status codes in fakturering://statuses

For each invoice I name:
- Look it up with invoice.get
- If the due date has passed and it is NOT_PAID, set it to OVERDUE with invoice.update_status
- If I confirm payment, set it to PAID

Finish by reading the report again and summarizing what changed.`,
						},
					},
				},
			}, nil
		})

	return nil
}
