// Package maintenance carga y reinicia los datos de ejemplo usando los casos de uso
// ordinarios, de modo que se aplican las mismas validaciones e invariantes que en la API.
package maintenance

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

// Dataset conjunto de categorías con sus productos.
type Dataset struct {
	Categories []CategorySeed `yaml:"categories"`
}

// CategorySeed categoría de ejemplo.
type CategorySeed struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Products    []ProductSeed `yaml:"products"`
}

// ProductSeed producto de ejemplo. Price es texto para no perder precisión.
type ProductSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	SKU         string `yaml:"sku"`
	Price       string `yaml:"price"`
	Quantity    int    `yaml:"quantity"`
}

// ParseDataset decodifica un dataset YAML y valida los precios.
func ParseDataset(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	for _, c := range ds.Categories {
		for _, p := range c.Products {
			if _, err := p.price(); err != nil {
				return nil, fmt.Errorf("producto %q: precio inválido %q", p.Name, p.Price)
			}
		}
	}
	return &ds, nil
}

// LoadDataset lee el dataset de path; vacío devuelve el dataset embebido.
func LoadDataset(path string) (*Dataset, error) {
	if path == "" {
		return DefaultDataset(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir dataset: %w", err)
	}
	defer f.Close()
	return ParseDataset(f)
}

// DefaultDataset dataset embebido: cuatro categorías y diez productos.
func DefaultDataset() *Dataset {
	var ds Dataset
	if err := yaml.Unmarshal(sampleYAML, &ds); err != nil {
		panic(fmt.Sprintf("sample.yaml embebido inválido: %v", err))
	}
	return &ds
}

func (p ProductSeed) price() (decimal.Decimal, error) {
	if p.Price == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(p.Price)
}
