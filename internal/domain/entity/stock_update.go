package entity

// StockOperation tipo de operación sobre la cantidad en stock (value object).
type StockOperation string

const (
	StockOperationAdd    StockOperation = "ADD"    // suma al stock
	StockOperationRemove StockOperation = "REMOVE" // resta del stock
	StockOperationSet    StockOperation = "SET"    // fija un valor absoluto
)

// Valid indica si la operación es una de las conocidas.
func (o StockOperation) Valid() bool {
	switch o {
	case StockOperationAdd, StockOperationRemove, StockOperationSet:
		return true
	}
	return false
}

// StockUpdate comando transitorio (no persistido) para mutar la cantidad de un producto.
// Notes se acepta pero no se guarda.
type StockUpdate struct {
	ProductID      string
	QuantityChange int
	OperationType  StockOperation
	Notes          string
}
