package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"desc returns DESC", "desc", "DESC"},
		{"invalid value returns DESC", "sideways", "DESC"},
		{"injection attempt returns DESC", "ASC; DROP TABLE products;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", "created_at", "created_at"},
		{"whitelisted field passes", "price", "created_at", "price"},
		{"unknown field returns default", "secret_column", "created_at", "created_at"},
		{"injection attempt returns default", "price; DROP TABLE products;--", "created_at", "created_at"},
		{"case sensitive", "PRICE", "created_at", "created_at"},
		{"whitespace around valid field passes", "  sku  ", "created_at", "sku"},
		{"field with subquery returns default", "price, (SELECT secret FROM t)", "created_at", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProductSortFields, tt.defaultField))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"ProductSortFields":  ProductSortFields,
		"CategorySortFields": CategorySortFields,
		"ReviewSortFields":   ReviewSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			for _, field := range []string{"id", "created_at", "updated_at"} {
				assert.True(t, whitelist[field], "%s should contain %q", name, field)
			}
		})
	}
}
