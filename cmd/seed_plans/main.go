// seed_plans genera el script SQL del catálogo de planes y funcionalidades.
//
// Uso: go run ./cmd/seed_plans [ruta/planes.csv]
// Sin argumento usa el catálogo por defecto (BASICO, ESTANDAR, PREMIUM).
// El CSV se lee en ISO-8859-1 (exportación típica de planilla).
// Escribe: migrations/002_seed_plans.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/retail-api/internal/bootstrap"
)

func main() {
	catalog := bootstrap.DefaultCatalog()
	source := "catálogo por defecto"
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
			os.Exit(1)
		}
		catalog, err = bootstrap.ReadCatalogCSV(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
			os.Exit(1)
		}
		source = os.Args[1]
	}

	outPath := filepath.Join(findModuleRoot(), "migrations", "002_seed_plans.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := bootstrap.WriteSQL(out, catalog); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s desde %s: %d funcionalidades, %d planes\n",
		outPath, source, len(catalog.Features), len(catalog.Plans))
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
