// Package seed loads the reference catalogue used by development and demo
// environments: categories, brands, warranty providers and warranty templates.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"api_reports/internal/database"
)

var ErrProduction = errors.New("refusing to seed a production environment")

// Category is a node of the fixed category tree.
type Category struct {
	Name     string
	Children []string
}

// Categories is the tree inserted on every run.
var Categories = []Category{
	{Name: "Electrodomésticos", Children: []string{"Refrigeradores", "Cocinas", "Lavadoras"}},
	{Name: "Tecnología", Children: []string{"Televisores", "Audio y Video", "Computacion"}},
	{Name: "Muebles", Children: []string{"Sofas y Sillones", "Dormitorio", "Comedor"}},
	{Name: "Climatización", Children: []string{"Aires Acondicionados", "Ventiladores"}},
}

var Brands = []string{"Samsung", "LG", "Sony", "Hisense", "Mabe", "Indurama", "Oster"}

var Providers = []string{
	"Servicio Técnico Autorizado S.A.",
	"Garantía Total Bolivia",
	"ReparaFácil S.R.L.",
	"ElectroService Plus",
	"Soluciones Hogar",
	"ServiTec Autorizado",
	"Asistencia Inmediata S.R.L.",
}

// Warranty is a warranty template. Provider is an index into Providers.
type Warranty struct {
	Title        string
	Terms        string
	DurationDays int
	Provider     int
}

var Warranties = []Warranty{
	{
		Title:        "Garantía Estándar (12 Meses)",
		Terms:        "Cobertura estándar por 12 meses contra defectos de fábrica. No incluye daños por mal uso.",
		DurationDays: 365,
		Provider:     0,
	},
	{
		Title:        "Garantía Limitada (6 Meses)",
		Terms:        "Cobertura de 180 días en partes y componentes principales. Excluye accesorios y consumibles.",
		DurationDays: 180,
		Provider:     1,
	},
	{
		Title:        "Garantía Extendida Motor/Compresor (2 Años)",
		Terms:        "Cobertura especial de 2 años (730 días) exclusivamente para el motor o compresor del equipo.",
		DurationDays: 730,
		Provider:     2,
	},
	{
		Title:        "Garantía Básica (90 Días)",
		Terms:        "Cubre fallas en componentes electrónicos básicos por 90 días. Mano de obra no incluida.",
		DurationDays: 90,
		Provider:     3,
	},
}

// Summary counts the rows inserted by a run.
type Summary struct {
	Categories int
	Brands     int
	Providers  int
	Warranties int
}

// Seeder wipes and reloads the catalogue.
type Seeder struct {
	db     *database.DB
	faker  *gofakeit.Faker
	out    io.Writer
	logger *zap.Logger
}

// New creates a Seeder. Progress lines go to out.
func New(db *database.DB, faker *gofakeit.Faker, out io.Writer, logger *zap.Logger) *Seeder {
	if faker == nil {
		faker = gofakeit.New(0)
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{db: db, faker: faker, out: out, logger: logger}
}

// Run wipes the catalogue tables and inserts the fixtures. It stops at the
// first error; rows written before it stay.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	s.progress("Limpiando datos antiguos...")
	for _, table := range []string{"categories", "brands", "warranties", "warranty_providers"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return sum, fmt.Errorf("could not clear %s: %w", table, err)
		}
	}

	s.progress("Poblando Categorías...")
	for _, c := range Categories {
		parentID, err := s.db.Insert(ctx, "INSERT INTO categories (name, parent_id) VALUES (?, ?)", c.Name, nil)
		if err != nil {
			return sum, fmt.Errorf("could not create category %q: %w", c.Name, err)
		}
		sum.Categories++
		for _, child := range c.Children {
			if _, err := s.db.Insert(ctx, "INSERT INTO categories (name, parent_id) VALUES (?, ?)", child, parentID); err != nil {
				return sum, fmt.Errorf("could not create category %q: %w", child, err)
			}
			sum.Categories++
		}
	}

	s.progress("Poblando Marcas (orden aleatorio)...")
	brands := append([]string(nil), Brands...)
	s.faker.ShuffleStrings(brands)
	for _, name := range brands {
		if _, err := s.db.Insert(ctx, "INSERT INTO brands (name) VALUES (?)", name); err != nil {
			return sum, fmt.Errorf("could not create brand %q: %w", name, err)
		}
		sum.Brands++
	}

	s.progress("Poblando Proveedores de Garantía...")
	providerIDs := make([]int64, 0, len(Providers))
	for _, name := range Providers {
		id, err := s.db.Insert(ctx,
			"INSERT INTO warranty_providers (name, contact_email, contact_phone) VALUES (?, ?, ?)",
			name, s.faker.Email(), s.faker.Phone())
		if err != nil {
			return sum, fmt.Errorf("could not create provider %q: %w", name, err)
		}
		providerIDs = append(providerIDs, id)
		sum.Providers++
	}

	s.progress("Poblando Plantillas de Garantía...")
	for _, w := range Warranties {
		if _, err := s.db.Insert(ctx,
			"INSERT INTO warranties (title, terms, duration_days, provider_id) VALUES (?, ?, ?, ?)",
			w.Title, w.Terms, w.DurationDays, providerIDs[w.Provider]); err != nil {
			return sum, fmt.Errorf("could not create warranty %q: %w", w.Title, err)
		}
		sum.Warranties++
	}

	s.progress("\n--- ¡Núcleo poblado con éxito! ---")
	s.logger.Info("seed finished",
		zap.Int("categories", sum.Categories),
		zap.Int("brands", sum.Brands),
		zap.Int("providers", sum.Providers),
		zap.Int("warranties", sum.Warranties))
	return sum, nil
}

func (s *Seeder) progress(line string) {
	fmt.Fprintln(s.out, line)
}
