// Package guard expresa una sola vez el patrón de validación de campos del dominio:
// normalizar el valor, aplicar reglas y devolver el valor normalizado o un
// *domain.ValidationError que identifica el campo.
package guard

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/pkg/afip"
)

// Rule valida un valor ya normalizado. Devuelve nil si es aceptable; en caso
// contrario un error cuyo texto es el motivo (si envuelve domain.ErrChecksumMismatch
// se conserva como tipo).
type Rule[T any] func(T) error

// Normalizer transforma el valor antes de validarlo.
type Normalizer[T any] func(T) T

// Check normaliza value y aplica las reglas en orden; la primera que falla corta.
func Check[T any](field string, value T, normalize Normalizer[T], rules ...Rule[T]) (T, error) {
	if normalize != nil {
		value = normalize(value)
	}
	for _, rule := range rules {
		if err := rule(value); err != nil {
			var zero T
			return zero, asValidationError(field, err)
		}
	}
	return value, nil
}

func asValidationError(field string, err error) *domain.ValidationError {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return &domain.ValidationError{Field: field, Reason: ve.Reason, Kind: ve.Kind}
	}
	kind := domain.ErrInvalidArgument
	if errors.Is(err, domain.ErrChecksumMismatch) {
		kind = domain.ErrChecksumMismatch
	}
	return &domain.ValidationError{Field: field, Reason: err.Error(), Kind: kind}
}

// ── Normalizadores ───────────────────────────────────────────────────────────

func Trim(s string) string      { return strings.TrimSpace(s) }
func TrimUpper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
func TrimLower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// ── Reglas de texto ──────────────────────────────────────────────────────────

// Required rechaza cadenas vacías.
func Required(s string) error {
	if s == "" {
		return errors.New("es obligatorio")
	}
	return nil
}

// MaxLen limita la longitud en caracteres.
func MaxLen(n int) Rule[string] {
	return func(s string) error {
		if utf8.RuneCountInString(s) > n {
			return fmt.Errorf("no puede superar %d caracteres", n)
		}
		return nil
	}
}

// LenBetween exige una longitud entre min y max caracteres (inclusive).
func LenBetween(min, max int) Rule[string] {
	return func(s string) error {
		n := utf8.RuneCountInString(s)
		if n < min || n > max {
			return fmt.Errorf("debe tener entre %d y %d caracteres", min, max)
		}
		return nil
	}
}

// Matches exige que la cadena cumpla la expresión regular. Las cadenas vacías se aceptan;
// combinar con Required si el campo es obligatorio.
func Matches(re *regexp.Regexp, description string) Rule[string] {
	return func(s string) error {
		if s != "" && !re.MatchString(s) {
			return fmt.Errorf("formato inválido, se espera %s", description)
		}
		return nil
	}
}

// CUIT valida un identificador fiscal con el algoritmo módulo 11 de AFIP.
func CUIT(s string) error {
	err := afip.ValidateCUIT(s)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, afip.ErrCheckDigit):
		return fmt.Errorf("%w (%v)", domain.ErrChecksumMismatch, err)
	default:
		return err
	}
}

// NormalizeCUIT deja solo los dígitos si el CUIT es normalizable; si no, lo devuelve recortado
// para que la regla CUIT informe el error.
func NormalizeCUIT(s string) string {
	if digits, err := afip.NormalizeCUIT(s); err == nil {
		return digits
	}
	return strings.TrimSpace(s)
}

// ── Reglas numéricas ─────────────────────────────────────────────────────────

// DecimalBetween exige min <= d <= max.
func DecimalBetween(min, max decimal.Decimal) Rule[decimal.Decimal] {
	return func(d decimal.Decimal) error {
		if d.LessThan(min) || d.GreaterThan(max) {
			return fmt.Errorf("debe estar entre %s y %s", min.String(), max.String())
		}
		return nil
	}
}

// DecimalPositiveUpTo exige 0 < d <= max.
func DecimalPositiveUpTo(max decimal.Decimal) Rule[decimal.Decimal] {
	return func(d decimal.Decimal) error {
		if !d.IsPositive() || d.GreaterThan(max) {
			return fmt.Errorf("debe ser mayor que 0 y como máximo %s", max.String())
		}
		return nil
	}
}

// DecimalMaxScale exige como máximo places decimales significativos (1.50 tiene escala 1).
// Debe coincidir con la escala de la columna NUMERIC que guarda el valor.
func DecimalMaxScale(places int32) Rule[decimal.Decimal] {
	return func(d decimal.Decimal) error {
		if !d.Equal(d.Truncate(places)) {
			return fmt.Errorf("admite como máximo %d decimales", places)
		}
		return nil
	}
}

// DecimalNonNegative rechaza valores negativos.
func DecimalNonNegative(d decimal.Decimal) error {
	if d.IsNegative() {
		return errors.New("no puede ser negativo")
	}
	return nil
}

// IntBetween exige min <= n <= max.
func IntBetween(min, max int) Rule[int] {
	return func(n int) error {
		if n < min || n > max {
			return fmt.Errorf("debe estar entre %d y %d", min, max)
		}
		return nil
	}
}

// ── Otras reglas ─────────────────────────────────────────────────────────────

// UUID exige un identificador con formato UUID distinto de uuid.Nil.
func UUID(s string) error {
	id, err := uuid.Parse(s)
	if err != nil {
		return errors.New("no es un identificador válido")
	}
	if id == uuid.Nil {
		return errors.New("no puede ser el identificador nulo")
	}
	return nil
}

// OneOf exige que el valor pertenezca al conjunto permitido.
func OneOf[T comparable](allowed ...T) Rule[T] {
	return func(v T) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("valor %v no permitido", v)
	}
}

// Satisfies adapta un predicado a Rule.
func Satisfies[T any](pred func(T) bool, reason string) Rule[T] {
	return func(v T) error {
		if !pred(v) {
			return errors.New(reason)
		}
		return nil
	}
}
