// Package idgen genera números de venta únicos entre procesos con Snowflake.
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// SaleNumbers genera números "<prefijo>-<snowflake>"; cada proceso usa un nodo distinto.
type SaleNumbers struct {
	node   *snowflake.Node
	prefix string
}

// NewSaleNumbers crea el generador para el nodo indicado (0..1023).
func NewSaleNumbers(node int64, prefix string) (*SaleNumbers, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("idgen: nodo snowflake %d: %w", node, err)
	}
	return &SaleNumbers{node: n, prefix: prefix}, nil
}

// Next devuelve un número de venta nuevo.
func (g *SaleNumbers) Next() string {
	id := g.node.Generate().String()
	if g.prefix == "" {
		return id
	}
	return g.prefix + "-" + id
}
