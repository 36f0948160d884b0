package core

import (
	"io"

	"github.com/opstools/qrcleaner/internal/schema"
)

// SheetNameTemplate is the sheet name for the blank import template.
const SheetNameTemplate = "Template"

// TemplateTable builds an empty table with the canonical column layout,
// with the identifier and date columns pre-marked as text so Excel never
// mangles what users type into them.
func TemplateTable() *Table {
	t := NewTable(schema.TemplateColumns, nil)
	for _, col := range schema.DateColumns {
		t.MarkTextColumn(col)
	}
	for _, col := range schema.AadhaarColumns {
		t.MarkTextColumn(col)
	}
	t.MarkTextColumn(schema.AccountNoColumn)
	return t
}

// WriteTemplate writes the blank import template workbook to w.
func WriteTemplate(w io.Writer) error {
	return WriteTable(TemplateTable(), SheetNameTemplate, w)
}
