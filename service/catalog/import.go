// Package catalog bulk-loads product variations from CSV.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inventory.GO/model/entity"
)

// ImportOptions configures a variation import run.
type ImportOptions struct {
	BatchSize           int
	DefaultReorderLevel int
}

// ImportResult holds counters and timing from an import run.
type ImportResult struct {
	TotalRows       int
	Created         int
	Updated         int
	Skipped         int
	ProductsCreated int
	Warnings        []string
	TotalTime       time.Duration
}

// reserved columns; every other column lands in the variation's attributes.
var staticColumns = map[string]bool{
	"sku": true, "product": true, "reorder_level": true, "stock_level": true,
}

type variationRow struct {
	line       int
	sku        string
	product    string
	reorder    *int
	stock      int
	attributes datatypes.JSONMap
}

// ImportVariations upserts variations keyed by SKU. Existing rows get their reorder level
// and attributes replaced; stock_level is only applied to new rows, since changes to
// existing stock go through the ledger.
func ImportVariations(ctx context.Context, db *gorm.DB, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	start := time.Now()
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	if opts.DefaultReorderLevel <= 0 {
		opts.DefaultReorderLevel = 10
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		headers[i] = h
		colIndex[h] = i
	}
	if _, ok := colIndex["sku"]; !ok {
		return nil, fmt.Errorf("CSV must contain a 'sku' column")
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	result := &ImportResult{TotalRows: len(records)}

	rows, order := parseRows(records, headers, colIndex, result)

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := lookupSKUs(tx, order, opts.BatchSize)
		if err != nil {
			return err
		}
		products, err := resolveProducts(tx, rows, existing, result)
		if err != nil {
			return err
		}

		batch := make([]entity.ProductVariation, 0, len(order))
		for _, sku := range order {
			row := rows[sku]
			v := entity.ProductVariation{SKUCode: sku, Attributes: row.attributes, ReorderLevel: opts.DefaultReorderLevel}
			if row.reorder != nil {
				v.ReorderLevel = *row.reorder
			}
			if cur, ok := existing[sku]; ok {
				v.ProductID = cur.ProductID
				if row.reorder == nil {
					v.ReorderLevel = cur.ReorderLevel
				}
				result.Updated++
			} else {
				pid, ok := products[row.product]
				if !ok {
					result.Skipped++
					result.Warnings = append(result.Warnings, fmt.Sprintf("line %d sku=%s: new SKU needs a product column", row.line, sku))
					continue
				}
				v.ProductID = pid
				v.StockLevel = row.stock
				result.Created++
			}
			batch = append(batch, v)
		}
		if len(batch) == 0 {
			return nil
		}
		upsert := clause.OnConflict{
			Columns:   []clause.Column{{Name: "sku_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"reorder_level", "attributes"}),
		}
		return tx.Clauses(upsert).CreateInBatches(batch, opts.BatchSize).Error
	})
	if err != nil {
		return nil, err
	}
	result.TotalTime = time.Since(start)
	return result, nil
}

// parseRows validates each record. Later rows for a repeated SKU replace earlier ones.
func parseRows(records [][]string, headers []string, colIndex map[string]int, result *ImportResult) (map[string]*variationRow, []string) {
	cell := func(rec []string, col string) string {
		ci, ok := colIndex[col]
		if !ok || ci >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[ci])
	}

	rows := make(map[string]*variationRow, len(records))
	var order []string
	for i, rec := range records {
		line := i + 2
		sku := cell(rec, "sku")
		if sku == "" {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: empty sku, skipping", line))
			continue
		}
		row := &variationRow{line: line, sku: sku, product: cell(rec, "product"), attributes: datatypes.JSONMap{}}

		if v := cell(rec, "reorder_level"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("line %d sku=%s: invalid reorder_level %q", line, sku, v))
				continue
			}
			row.reorder = &n
		}
		if v := cell(rec, "stock_level"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("line %d sku=%s: invalid stock_level %q", line, sku, v))
				continue
			}
			row.stock = n
		}
		for ci, h := range headers {
			if staticColumns[h] || h == "" || ci >= len(rec) {
				continue
			}
			if v := strings.TrimSpace(rec[ci]); v != "" {
				row.attributes[h] = v
			}
		}

		if prev, dup := rows[sku]; dup {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d sku=%s: replaced by line %d", prev.line, sku, line))
		} else {
			order = append(order, sku)
		}
		rows[sku] = row
	}
	return rows, order
}

// lookupSKUs batch-queries existing variations by SKU.
func lookupSKUs(db *gorm.DB, skus []string, batchSize int) (map[string]entity.ProductVariation, error) {
	m := make(map[string]entity.ProductVariation, len(skus))
	for i := 0; i < len(skus); i += batchSize {
		end := i + batchSize
		if end > len(skus) {
			end = len(skus)
		}
		var chunk []entity.ProductVariation
		if err := db.Select("id, product_id, sku_code, reorder_level").Where("sku_code IN ?", skus[i:end]).Find(&chunk).Error; err != nil {
			return nil, fmt.Errorf("lookup skus: %w", err)
		}
		for _, v := range chunk {
			m[v.SKUCode] = v
		}
	}
	return m, nil
}

// resolveProducts maps the product names of new SKUs to ids, creating missing products.
func resolveProducts(db *gorm.DB, rows map[string]*variationRow, existing map[string]entity.ProductVariation, result *ImportResult) (map[string]uint, error) {
	var names []string
	seen := make(map[string]bool)
	for sku, row := range rows {
		if _, ok := existing[sku]; ok || row.product == "" || seen[row.product] {
			continue
		}
		seen[row.product] = true
		names = append(names, row.product)
	}
	ids := make(map[string]uint, len(names))
	if len(names) == 0 {
		return ids, nil
	}

	var found []entity.Product
	if err := db.Select("id, name").Where("name IN ?", names).Order("id").Find(&found).Error; err != nil {
		return nil, fmt.Errorf("lookup products: %w", err)
	}
	for _, p := range found {
		if _, ok := ids[p.Name]; !ok {
			ids[p.Name] = p.ID
		}
	}
	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}
		p := entity.Product{Name: name}
		if err := db.Create(&p).Error; err != nil {
			return nil, fmt.Errorf("create product %q: %w", name, err)
		}
		ids[name] = p.ID
		result.ProductsCreated++
	}
	return ids, nil
}
