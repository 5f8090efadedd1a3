package enums

// StockStatus is the derived availability label of a raw material or ingredient.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusExpired    StockStatus = "expired"
)

var stockStatuses = []StockStatus{
	StockStatusInStock,
	StockStatusLowStock,
	StockStatusOutOfStock,
	StockStatusExpired,
}

func (s StockStatus) String() string { return string(s) }

func (s StockStatus) IsValid() bool {
	_, err := ParseStockStatus(string(s))
	return err == nil
}

func ParseStockStatus(value string) (StockStatus, error) {
	return parse(stockStatuses, value, "stock status")
}
