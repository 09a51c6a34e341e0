// Package arba lee el padrón de regímenes generales de percepción/retención de Ingresos
// Brutos que publica ARBA (Provincia de Buenos Aires).
//
// Cada línea del archivo (ISO-8859-1, separado por ';') tiene la forma:
//
//	P;25102024;01112024;30112024;20123456786;D;S;N;1,75;00;
//
// régimen, fecha de publicación, vigencia desde, vigencia hasta (DDMMAAAA), CUIT,
// tipo de contribuyente, marca de alta, marca de cambio de alícuota, alícuota con coma
// decimal y grupo.
package arba

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Presupuestos-api/pkg/afip"
)

// Regímenes del padrón.
const (
	RegimePerception = "P"
	RegimeRetention  = "R"
)

const dateLayout = "02012006"

var ErrMalformedLine = errors.New("arba: línea mal formada")

// Record una fila del padrón.
type Record struct {
	Regime        string
	PublishedAt   time.Time
	ValidFrom     time.Time
	ValidTo       time.Time
	CUIT          string
	TaxpayerType  string
	Registered    bool // marca de alta
	AliquotChange bool // marca de cambio de alícuota
	Aliquot       decimal.Decimal
	Group         string
}

// IsValidOn indica si la fila está vigente en la fecha t.
func (r Record) IsValidOn(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(r.ValidFrom) && !day.After(r.ValidTo)
}

// LineError error de una línea concreta; el resto del archivo se sigue leyendo.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("línea %d: %v", e.Line, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }

// Result registros válidos y errores por línea.
type Result struct {
	Records []Record
	Errors  []*LineError
}

// ParsePadron lee el padrón completo desde r (codificado en ISO-8859-1).
// Las líneas vacías se ignoran; las inválidas se informan en Result.Errors.
func ParsePadron(r io.Reader) (*Result, error) {
	sc := bufio.NewScanner(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	res := &Result{}
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rec, err := ParseLine(line)
		if err != nil {
			res.Errors = append(res.Errors, &LineError{Line: n, Err: err})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("arba: leer padrón: %w", err)
	}
	return res, nil
}

// ParseLine interpreta una línea ya decodificada.
func ParseLine(line string) (Record, error) {
	fields := strings.Split(strings.TrimSuffix(line, ";"), ";")
	if len(fields) < 10 {
		return Record{}, fmt.Errorf("%w: se esperaban 10 campos, hay %d", ErrMalformedLine, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	var rec Record
	rec.Regime = strings.ToUpper(fields[0])
	if rec.Regime != RegimePerception && rec.Regime != RegimeRetention {
		return Record{}, fmt.Errorf("%w: régimen %q", ErrMalformedLine, fields[0])
	}

	dates := []*time.Time{&rec.PublishedAt, &rec.ValidFrom, &rec.ValidTo}
	for i, dst := range dates {
		t, err := time.Parse(dateLayout, fields[1+i])
		if err != nil {
			return Record{}, fmt.Errorf("%w: fecha %q", ErrMalformedLine, fields[1+i])
		}
		*dst = t
	}
	if rec.ValidTo.Before(rec.ValidFrom) {
		return Record{}, fmt.Errorf("%w: vigencia hasta anterior a vigencia desde", ErrMalformedLine)
	}

	if err := afip.ValidateCUIT(fields[4]); err != nil {
		return Record{}, err
	}
	rec.CUIT, _ = afip.NormalizeCUIT(fields[4])

	rec.TaxpayerType = fields[5]
	rec.Registered = strings.EqualFold(fields[6], "S")
	rec.AliquotChange = strings.EqualFold(fields[7], "S")

	aliquot, err := decimal.NewFromString(strings.Replace(fields[8], ",", ".", 1))
	if err != nil || aliquot.IsNegative() || aliquot.GreaterThan(decimal.NewFromInt(100)) {
		return Record{}, fmt.Errorf("%w: alícuota %q", ErrMalformedLine, fields[8])
	}
	rec.Aliquot = aliquot
	rec.Group = fields[9]
	return rec, nil
}

// Perceptions devuelve las filas de percepción vigentes en at, una por CUIT
// (si hay repetidos gana la última publicada).
func (res *Result) Perceptions(at time.Time) []Record {
	byCUIT := make(map[string]Record)
	order := make([]string, 0)
	for _, r := range res.Records {
		if r.Regime != RegimePerception || !r.IsValidOn(at) {
			continue
		}
		prev, seen := byCUIT[r.CUIT]
		if !seen {
			order = append(order, r.CUIT)
		}
		if !seen || !r.PublishedAt.Before(prev.PublishedAt) {
			byCUIT[r.CUIT] = r
		}
	}
	out := make([]Record, 0, len(order))
	for _, c := range order {
		out = append(out, byCUIT[c])
	}
	return out
}
