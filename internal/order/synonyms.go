package order

// headerSynonyms maps normalized header spellings onto canonical
// columns. Entries are priority ordered: when fuzzy matching scores two
// groups equally, the earlier group wins.
type synonymGroup struct {
	Column CanonicalColumn
	Terms  []string
}

func defaultSynonyms() []synonymGroup {
	return []synonymGroup{
		{
			Column: ColQuantity,
			Terms: []string{
				"qty", "quantity", "order qty", "order quantity", "qty ordered",
				"quantity ordered", "units", "count",
			},
		},
		{
			Column: ColProductName,
			Terms: []string{
				"item", "description", "product", "product name", "item name",
				"item description", "article", "goods",
			},
		},
		{
			Column: ColUnitPrice,
			Terms: []string{
				"price", "unit price", "rate", "unit cost", "price each",
				"price per unit", "unit rate",
			},
		},
		{
			Column: ColLineTotal,
			Terms: []string{
				"amount", "total", "line total", "extended price", "ext price",
				"total price", "line amount", "net amount",
			},
		},
		{
			Column: ColSKU,
			Terms: []string{
				"sku", "code", "item num", "item no", "item code", "part num",
				"part no", "part number", "product code", "model",
			},
		},
	}
}
