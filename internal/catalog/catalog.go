// Package catalog wires the generic document store to the product domain:
// the product schema, the search field mapping, and the demo seed data.
package catalog

import (
	"shelf/pkg/docstore"
	"shelf/pkg/docstore/schema"
)

// handleCharset are the characters allowed in product handles.
const handleCharset = "abcdefghijklmnopqrstuvwxyz0123456789-"

// Schema declares the full product record, system fields included. The
// store derives the creation-input schema from it.
func Schema() *schema.Schema {
	return schema.New().
		Text("id", schema.Required(), schema.NonEmpty()).
		Text("handle", schema.Required(), schema.NonEmpty(), schema.Charset(handleCharset)).
		Text("createdAt", schema.Required(), schema.NonEmpty()).
		Text("updatedAt", schema.Required(), schema.NonEmpty()).
		Text("title", schema.Required(), schema.NonEmpty()).
		Text("description").
		Number("price", schema.Required(), schema.Positive()).
		Number("compareAtPrice", schema.Min(0)).
		Text("category").
		TextList("tags", schema.NonEmpty()).
		Bool("inStock").
		Bool("featured").
		Int("inventory", schema.Min(0))
}

// SearchConfig maps the search operation onto product fields.
func SearchConfig() docstore.SearchConfig {
	return docstore.SearchConfig{
		TextFields:    []string{"title", "handle", "description"},
		CategoryField: "category",
		TagsField:     "tags",
	}
}

// Demo returns the seed records for a fresh catalog, in insertion order.
func Demo() []docstore.Record {
	return []docstore.Record{
		{
			"handle":      "radiance-serum",
			"title":       "Radiance Vitamin C Serum",
			"description": "Brightening serum with 15% vitamin C and ferulic acid.",
			"price":       42.0,
			"category":    "Serums",
			"tags":        []any{"vitamin-c", "brightening"},
			"inStock":     true,
			"featured":    true,
			"inventory":   120,
		},
		{
			"handle":      "night-repair-serum",
			"title":       "Night Repair Retinol Serum",
			"description": "Overnight renewal serum with encapsulated retinol.",
			"price":       48.0,
			"category":    "Serums",
			"tags":        []any{"retinol", "anti-aging"},
			"inStock":     false,
			"featured":    false,
			"inventory":   0,
		},
		{
			"handle":      "gentle-foam-cleanser",
			"title":       "Gentle Foam Cleanser",
			"description": "Sulfate-free daily cleanser for sensitive skin.",
			"price":       18.0,
			"category":    "Cleansers",
			"tags":        []any{"gentle", "daily"},
			"inStock":     true,
			"featured":    false,
			"inventory":   340,
		},
		{
			"handle":         "hydra-moisturizer",
			"title":          "Hydra Barrier Moisturizer",
			"description":    "Ceramide moisturizer for all skin types.",
			"price":          26.0,
			"compareAtPrice": 32.0,
			"category":       "Moisturizers",
			"tags":           []any{"ceramides", "hydrating", "daily"},
			"inStock":        true,
			"featured":       true,
			"inventory":      85,
		},
	}
}
