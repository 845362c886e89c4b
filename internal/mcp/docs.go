package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `zotswipe is a board where students post offers to buy dining hall meal swipes.

Core concepts:
- Listing: an immutable offer (swipe count, price per swipe, dates, meals, locations, buyer, phone, note).
- Recent listings: the newest listings, newest first, default page of 20.
- Menu: today's menu for a dining hall, fetched from an upstream menu API.

Workflow:
1) Call get_listing_form to learn the selectable meals, locations and dates.
2) Use format_phone on raw phone input; only (XXX) XXX-XXXX numbers are accepted.
3) Call create_listing. A NOT_SUBMITTABLE error means a required field is missing or the phone is incomplete.
4) Browse with list_recent_listings; use contact_link to reach a buyer by SMS.
5) get_menu / get_all_menus show what the halls serve today.

Docs:
- zotswipe://docs/index
- zotswipe://docs/listing-rules
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "zotswipe://docs/index",
		Name:        "docs_index",
		Title:       "zotswipe docs index",
		Description: "Entry point for agent-facing docs.",
		Content: `# zotswipe: Agent Docs Index

## Quick start

1. ` + "`get_listing_form`" + ` for catalog options and defaults.
2. ` + "`create_listing`" + ` to post an offer.
3. ` + "`list_recent_listings`" + ` to browse, newest first.
4. ` + "`contact_link`" + ` to build an ` + "`sms:`" + ` link for a buyer.

## Docs

- ` + "`zotswipe://docs/listing-rules`" + ` for submission rules and error codes.

## Limitations

- Listings cannot be edited or deleted.
- Records that fail to decode are skipped silently when listing.
`,
	},
	{
		URI:         "zotswipe://docs/listing-rules",
		Name:        "docs_listing_rules",
		Title:       "Listing rules",
		Description: "Which drafts are submittable and what each error code means.",
		Content: `# Listing rules

A draft is submittable only when all of these hold:

- ` + "`swipe_count`" + ` >= 1 and ` + "`price_per_swipe`" + ` >= 1
- at least one date, meal and location
- ` + "`buyer_name`" + ` is not blank
- ` + "`contact_phone`" + ` matches ` + "`(XXX) XXX-XXXX`" + ` after formatting

Dates are de-duplicated and sorted. Duplicate meals and locations are dropped.
Each listing gets a ` + "`listed_at`" + ` timestamp assigned by the server; it never decreases.

## Error codes

| Code | Meaning |
|------|---------|
| NOT_SUBMITTABLE | draft failed the rules above; nothing was stored |
| STORE_UNAVAILABLE | the listing store failed; retry later |
| LISTING_NOT_FOUND | no listing with that id |
| LISTING_MALFORMED | the stored record could not be decoded |
| UNKNOWN_LOCATION | the dining hall is not configured |
| MENU_UNAVAILABLE | the upstream menu API failed |
| INVALID_PARAMS | tool arguments did not match the schema |
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
