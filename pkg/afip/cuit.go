package afip

import (
	"errors"
	"fmt"
)

// Errores de validación de CUIT/CUIL.
var (
	ErrMalformedCUIT = errors.New("afip: CUIT con formato inválido")
	ErrCheckDigit    = errors.New("afip: dígito verificador del CUIT inválido")
)

// CUITLength cantidad de dígitos de un CUIT/CUIL normalizado.
const CUITLength = 11

// pesos del algoritmo módulo 11 de AFIP, aplicados a los 10 primeros dígitos de izquierda a derecha.
var cuitWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// NormalizeCUIT quita guiones y espacios. Cualquier otro carácter no numérico,
// o una longitud distinta de 11, devuelve ErrMalformedCUIT.
// cuit puede ser "20-12345678-6", "20 12345678 6" o "20123456786".
func NormalizeCUIT(cuit string) (string, error) {
	out := make([]byte, 0, CUITLength)
	for i := 0; i < len(cuit); i++ {
		c := cuit[i]
		switch {
		case c == '-' || c == ' ':
			continue
		case c >= '0' && c <= '9':
			out = append(out, c)
		default:
			return "", fmt.Errorf("%w: carácter %q no permitido", ErrMalformedCUIT, c)
		}
	}
	if len(out) != CUITLength {
		return "", fmt.Errorf("%w: se esperaban %d dígitos, se encontraron %d", ErrMalformedCUIT, CUITLength, len(out))
	}
	return string(out), nil
}

// ComputeCUITCheckDigit calcula el dígito verificador para los 10 primeros dígitos.
// Un resultado de 11 se convierte en 0 y uno de 10 en 9.
func ComputeCUITCheckDigit(first10 string) (byte, error) {
	if len(first10) != CUITLength-1 {
		return 0, fmt.Errorf("%w: se requieren 10 dígitos para calcular el verificador, se recibieron %d", ErrMalformedCUIT, len(first10))
	}
	var sum int
	for i := 0; i < len(first10); i++ {
		d := first10[i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("%w: carácter %q no permitido", ErrMalformedCUIT, d)
		}
		sum += int(d-'0') * cuitWeights[i]
	}
	check := 11 - sum%11
	switch check {
	case 11:
		check = 0
	case 10:
		check = 9
	}
	return byte('0' + check), nil
}

// ValidateCUIT normaliza el CUIT y verifica su dígito verificador.
func ValidateCUIT(cuit string) error {
	digits, err := NormalizeCUIT(cuit)
	if err != nil {
		return err
	}
	expected, err := ComputeCUITCheckDigit(digits[:10])
	if err != nil {
		return err
	}
	if digits[10] != expected {
		return fmt.Errorf("%w: esperado %c, recibido %c", ErrCheckDigit, expected, digits[10])
	}
	return nil
}

// IsValidCUIT es la variante booleana de ValidateCUIT.
func IsValidCUIT(cuit string) bool {
	return ValidateCUIT(cuit) == nil
}

// FormatCUIT devuelve el CUIT con guiones (XX-XXXXXXXX-X). Si no se puede
// normalizar devuelve la entrada sin cambios.
func FormatCUIT(cuit string) string {
	digits, err := NormalizeCUIT(cuit)
	if err != nil {
		return cuit
	}
	return digits[:2] + "-" + digits[2:10] + "-" + digits[10:]
}

// PersonKind tipo de contribuyente según el prefijo del CUIT.
type PersonKind int

const (
	PersonUnknown PersonKind = iota
	PersonNatural            // 20, 23, 24, 27 (CUIL / personas humanas)
	PersonLegal              // 30, 33, 34 (personas jurídicas)
)

// KindOf clasifica un CUIT normalizado por su prefijo.
func KindOf(cuit string) PersonKind {
	digits, err := NormalizeCUIT(cuit)
	if err != nil {
		return PersonUnknown
	}
	switch digits[:2] {
	case "20", "23", "24", "27":
		return PersonNatural
	case "30", "33", "34":
		return PersonLegal
	}
	return PersonUnknown
}
