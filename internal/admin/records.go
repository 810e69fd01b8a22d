package admin

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ufscompras/internal/domain"
)

// MovementType is the direction of a stock movement.
type MovementType string

const (
	MovementIn  MovementType = "Entrada"
	MovementOut MovementType = "Saida"
)

// ParseMovementType accepts the two movement directions.
func ParseMovementType(value string) (MovementType, bool) {
	switch MovementType(strings.TrimSpace(value)) {
	case MovementIn:
		return MovementIn, true
	case MovementOut:
		return MovementOut, true
	default:
		return "", false
	}
}

// ProductRef is a product embedded in movement and report documents.
type ProductRef struct {
	ID    string          `json:"_id"`
	Name  string          `json:"nome"`
	Price decimal.Decimal `json:"preco"`
}

// UserRef is the user responsible for a movement.
type UserRef struct {
	ID   string `json:"_id"`
	Name string `json:"nome"`
}

// Movement is a recorded stock entry or exit.
type Movement struct {
	ID          string          `json:"_id"`
	Type        MovementType    `json:"tipo"`
	Quantity    int             `json:"quantidade"`
	UnitValue   decimal.Decimal `json:"valor_unitario"`
	Note        string          `json:"observacao,omitempty"`
	Product     *ProductRef     `json:"id_produto,omitempty"`
	User        *UserRef        `json:"id_user,omitempty"`
	Accessories []ProductRef    `json:"acessorios,omitempty"`
	Date        time.Time       `json:"data_mov"`
}

// AccessorySummary groups repeated accessories of a movement.
type AccessorySummary struct {
	ProductRef
	Count int
}

// SummarizeAccessories groups the movement's accessories by id, in first-seen order.
func (m Movement) SummarizeAccessories() []AccessorySummary {
	var out []AccessorySummary
	index := make(map[string]int)
	for _, acc := range m.Accessories {
		if i, ok := index[acc.ID]; ok {
			out[i].Count++
			continue
		}
		index[acc.ID] = len(out)
		out = append(out, AccessorySummary{ProductRef: acc, Count: 1})
	}
	return out
}

// Total is the product value plus every accessory sold with it.
func (m Movement) Total() decimal.Decimal {
	total := m.UnitValue.Mul(decimal.NewFromInt(int64(m.Quantity)))
	for _, acc := range m.Accessories {
		total = total.Add(acc.Price)
	}
	return total
}

// NewMovement is the body of a movement registration.
type NewMovement struct {
	Type      MovementType    `json:"tipo"`
	Quantity  int             `json:"quantidade"`
	UnitValue decimal.Decimal `json:"valor_unitario"`
	Note      string          `json:"observacao,omitempty"`
	ProductID string          `json:"id_produto"`
}

func (n NewMovement) MarshalJSON() ([]byte, error) {
	type movement NewMovement
	return json.Marshal(struct {
		movement
		UnitValue json.Number `json:"valor_unitario"`
	}{movement(n), domain.PriceNumber(n.UnitValue)})
}

// Validate rejects movements the backend would refuse anyway.
func (n NewMovement) Validate() error {
	if _, ok := ParseMovementType(string(n.Type)); !ok {
		return fmt.Errorf("%w: tipo must be Entrada or Saida, got %q", domain.ErrInvalidInput, n.Type)
	}
	if n.Quantity < 1 {
		return fmt.Errorf("%w: quantidade must be positive", domain.ErrInvalidInput)
	}
	if n.UnitValue.IsNegative() {
		return fmt.Errorf("%w: valor_unitario must not be negative", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(n.ProductID) == "" {
		return fmt.Errorf("%w: id_produto is required", domain.ErrInvalidInput)
	}
	return nil
}

// CategoryInput creates or renames a category. An empty slug lets the
// backend derive one from the name.
type CategoryInput struct {
	Name string `json:"nome,omitempty"`
	Slug string `json:"slug,omitempty"`
}

type SalesReport struct {
	TotalUnits   int             `json:"totalUnits"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// MovementTotals sums one direction of the stock report.
type MovementTotals struct {
	TotalUnits int             `json:"totalUnits"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

type StockMovementReport struct {
	In  MovementTotals `json:"Entrada"`
	Out MovementTotals `json:"Saida"`
}

type TopProductReport struct {
	Product      ProductRef      `json:"produto"`
	TotalUnits   int             `json:"totalUnits"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// DateRange bounds a report. Empty fields are omitted from the query.
type DateRange struct {
	From string
	To   string
}

// MovementQuery filters the movement list.
type MovementQuery struct {
	DateRange
	Type      MovementType
	ProductID string
}
