// Package bootstrap siembra los datos de referencia que la API necesita para arrancar:
// catálogo de planes y funcionalidades, el super_admin inicial y una empresa demo.
package bootstrap

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

// catalogNamespace fija los IDs de funcionalidades y planes generados desde el catálogo,
// así el mismo código produce siempre el mismo UUID.
var catalogNamespace = uuid.MustParse("6f1c1b9e-2f0a-4c55-9d7e-3b8a41d2c0a7")

// PlanEntry es un plan del catálogo con su asignación explícita (vacía = matriz por defecto).
type PlanEntry struct {
	Plan     *entity.Plan
	Features []string
}

// Catalog agrupa funcionalidades y planes de referencia.
type Catalog struct {
	Features []*entity.PlanFeature
	Plans    []PlanEntry
}

// DefaultCatalog devuelve el catálogo base: siete funcionalidades y los planes
// BASICO (1 sucursal), ESTANDAR (3) y PREMIUM (ilimitado), sin asignación explícita.
func DefaultCatalog() *Catalog {
	one, three := 1, 3
	features := []*entity.PlanFeature{
		{Code: entity.FeatureInventory, Label: "Inventario", Description: "Stock por sucursal y movimientos"},
		{Code: entity.FeatureSales, Label: "Ventas", Description: "Registro de ventas y comprobantes"},
		{Code: entity.FeatureOrders, Label: "Órdenes", Description: "Órdenes de compra a proveedores"},
		{Code: entity.FeaturePOS, Label: "Punto de venta", Description: "Carrito y checkout"},
		{Code: entity.FeatureReports, Label: "Reportes", Description: "Reposición y conciliación"},
		{Code: entity.FeatureUserManagement, Label: "Usuarios", Description: "Gestión de usuarios de la empresa"},
		{Code: entity.FeatureBranchesUnlimited, Label: "Sucursales ilimitadas", Description: ""},
	}
	plans := []*entity.Plan{
		{Code: entity.PlanBasico, Name: "Básico", MonthlyPrice: decimal.NewFromInt(19990), BranchLimit: &one, IsActive: true},
		{Code: entity.PlanEstandar, Name: "Estándar", MonthlyPrice: decimal.NewFromInt(39990), BranchLimit: &three, IsActive: true},
		{Code: entity.PlanPremium, Name: "Premium", MonthlyPrice: decimal.NewFromInt(79990), IsActive: true},
	}
	c := &Catalog{Features: features}
	for _, p := range plans {
		c.Plans = append(c.Plans, PlanEntry{Plan: p})
	}
	c.assignIDs()
	return c
}

func (c *Catalog) assignIDs() {
	for _, f := range c.Features {
		if f.ID == "" {
			f.ID = uuid.NewSHA1(catalogNamespace, []byte("feature:"+f.Code)).String()
		}
	}
	for _, e := range c.Plans {
		if e.Plan.ID == "" {
			e.Plan.ID = uuid.NewSHA1(catalogNamespace, []byte("plan:"+e.Plan.Code)).String()
		}
	}
}

// ReadCatalogCSV lee un catálogo en CSV Latin-1 separado por ';'. Líneas con '#' se ignoran.
//
//	feature;<codigo>;<etiqueta>;<descripcion>
//	plan;<codigo>;<nombre>;<precio_mensual>;<limite_sucursales|vacío>;<func1|func2|...>
func ReadCatalogCSV(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	c := &Catalog{}
	known := make(map[string]bool)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer catálogo: %w", err)
		}
		line, _ := cr.FieldPos(0)
		switch strings.ToLower(strings.TrimSpace(rec[0])) {
		case "feature":
			if len(rec) < 3 {
				return nil, fmt.Errorf("línea %d: feature requiere código y etiqueta", line)
			}
			f := &entity.PlanFeature{Code: strings.TrimSpace(rec[1]), Label: strings.TrimSpace(rec[2])}
			if len(rec) > 3 {
				f.Description = strings.TrimSpace(rec[3])
			}
			if f.Code == "" || known[f.Code] {
				return nil, fmt.Errorf("línea %d: código de funcionalidad vacío o repetido", line)
			}
			known[f.Code] = true
			c.Features = append(c.Features, f)
		case "plan":
			entry, err := parsePlan(rec)
			if err != nil {
				return nil, fmt.Errorf("línea %d: %w", line, err)
			}
			c.Plans = append(c.Plans, entry)
		default:
			return nil, fmt.Errorf("línea %d: tipo de registro desconocido %q", line, rec[0])
		}
	}

	for _, e := range c.Plans {
		for _, code := range e.Features {
			if !known[code] {
				return nil, fmt.Errorf("plan %s: funcionalidad desconocida %q", e.Plan.Code, code)
			}
		}
	}
	c.assignIDs()
	return c, nil
}

func parsePlan(rec []string) (PlanEntry, error) {
	if len(rec) < 4 {
		return PlanEntry{}, errors.New("plan requiere código, nombre y precio")
	}
	p := &entity.Plan{
		Code:     strings.ToUpper(strings.TrimSpace(rec[1])),
		Name:     strings.TrimSpace(rec[2]),
		IsActive: true,
	}
	if p.Code == "" || p.Name == "" {
		return PlanEntry{}, errors.New("código y nombre de plan son obligatorios")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(rec[3]))
	if err != nil || price.IsNegative() {
		return PlanEntry{}, fmt.Errorf("precio inválido %q", rec[3])
	}
	p.MonthlyPrice = price
	if len(rec) > 4 && strings.TrimSpace(rec[4]) != "" {
		limit, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil || limit < 0 {
			return PlanEntry{}, fmt.Errorf("límite de sucursales inválido %q", rec[4])
		}
		p.BranchLimit = &limit
	}
	entry := PlanEntry{Plan: p}
	if len(rec) > 5 {
		for _, code := range strings.Split(rec[5], "|") {
			if code = strings.TrimSpace(code); code != "" {
				entry.Features = append(entry.Features, code)
			}
		}
	}
	return entry, nil
}

// WriteSQL escribe el catálogo como script idempotente para Postgres.
func WriteSQL(w io.Writer, c *Catalog) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de planes y funcionalidades\n")
	b.WriteString("-- Generado por cmd/seed_plans\n\n")

	if len(c.Features) > 0 {
		b.WriteString("INSERT INTO plan_features (id, code, label, description) VALUES\n")
		for i, f := range c.Features {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s')", f.ID, escapeSQL(f.Code), escapeSQL(f.Label), escapeSQL(f.Description))
			b.WriteString(listSep(i, len(c.Features)))
		}
		b.WriteString("ON CONFLICT (code) DO UPDATE SET label = EXCLUDED.label, description = EXCLUDED.description;\n\n")
	}

	for _, e := range c.Plans {
		p := e.Plan
		limit := "NULL"
		if p.BranchLimit != nil {
			limit = strconv.Itoa(*p.BranchLimit)
		}
		fmt.Fprintf(&b, "INSERT INTO plans (id, code, name, description, monthly_price, branch_limit, is_active)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', %s, %s, %t)\n",
			p.ID, escapeSQL(p.Code), escapeSQL(p.Name), escapeSQL(p.Description), p.MonthlyPrice.StringFixed(2), limit, p.IsActive)
		b.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, monthly_price = EXCLUDED.monthly_price, branch_limit = EXCLUDED.branch_limit;\n")
		for _, code := range e.Features {
			fmt.Fprintf(&b, "INSERT INTO plan_feature_assignments (plan_id, feature_id)\n")
			fmt.Fprintf(&b, "SELECT p.id, f.id FROM plans p, plan_features f WHERE p.code = '%s' AND f.code = '%s'\n",
				escapeSQL(p.Code), escapeSQL(code))
			b.WriteString("ON CONFLICT DO NOTHING;\n")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func listSep(i, n int) string {
	if i < n-1 {
		return ",\n"
	}
	return "\n"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// EnsurePlans crea los planes del catálogo que aún no existen (por código) y aplica su
// asignación explícita. Los planes existentes no se tocan: super_admin pudo editarlos.
func EnsurePlans(ctx context.Context, plans repository.PlanRepository, c *Catalog, log zerolog.Logger) (map[string]*entity.Plan, error) {
	out := make(map[string]*entity.Plan, len(c.Plans))
	for _, e := range c.Plans {
		existing, err := plans.GetByCode(ctx, e.Plan.Code)
		if err != nil {
			return nil, fmt.Errorf("buscar plan %s: %w", e.Plan.Code, err)
		}
		if existing != nil {
			out[existing.Code] = existing
			continue
		}
		if e.Plan.CreatedAt.IsZero() {
			e.Plan.CreatedAt = time.Now().UTC()
			e.Plan.UpdatedAt = e.Plan.CreatedAt
		}
		if err := plans.Create(ctx, e.Plan); err != nil {
			return nil, fmt.Errorf("crear plan %s: %w", e.Plan.Code, err)
		}
		if len(e.Features) > 0 {
			if err := plans.SetFeatures(ctx, e.Plan.ID, e.Features); err != nil {
				return nil, fmt.Errorf("asignar funcionalidades a %s: %w", e.Plan.Code, err)
			}
		}
		log.Info().Str("plan", e.Plan.Code).Msg("plan creado")
		out[e.Plan.Code] = e.Plan
	}
	return out, nil
}
