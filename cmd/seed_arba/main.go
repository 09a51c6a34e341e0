// seed_arba genera un script SQL que aplica las alícuotas de percepción del padrón ARBA
// (régimen general, archivo de texto en ISO-8859-1) a la tabla customers.
//
// Uso: go run ./cmd/seed_arba [ruta/PadronRGSPer.txt] [fecha AAAA-MM-DD]
// Por defecto busca PadronRGSPer.txt en el directorio actual y usa la fecha de hoy.
// Escribe: internal/infrastructure/postgres/migrations/002_arba_padron.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/Presupuestos-api/pkg/arba"
)

func main() {
	path := "PadronRGSPer.txt"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	at := time.Now()
	if len(os.Args) > 2 {
		t, err := time.Parse("2006-01-02", os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fecha inválida: %v\n", err)
			os.Exit(1)
		}
		at = t
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir padrón: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	res, err := arba.ParsePadron(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer padrón: %v\n", err)
		os.Exit(1)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "ignorada: %v\n", e)
	}
	records := res.Perceptions(at)

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_arba_padron.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "-- Alícuotas de percepción IIBB ARBA vigentes al %s\n", at.Format("02/01/2006"))
	fmt.Fprintf(out, "-- Generado desde %s\n\n", filepath.Base(path))
	if len(records) == 0 {
		fmt.Fprintln(out, "-- sin filas vigentes")
	} else {
		fmt.Fprintln(out, "UPDATE customers AS c SET arba_aliquot = p.aliquot, updated_at = NOW()")
		fmt.Fprintln(out, "FROM (VALUES")
		for i, r := range records {
			sep := ","
			if i == len(records)-1 {
				sep = ""
			}
			// CUIT y alícuota ya validados por el parser: solo dígitos y un decimal.
			fmt.Fprintf(out, "  ('%s', %s::numeric)%s\n", r.CUIT, r.Aliquot.StringFixed(2), sep)
		}
		fmt.Fprintln(out, ") AS p (cuit, aliquot)")
		fmt.Fprintln(out, "WHERE c.cuit = p.cuit;")
	}

	fmt.Printf("Generado %s: %d alícuotas, %d líneas rechazadas\n", outPath, len(records), len(res.Errors))
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
