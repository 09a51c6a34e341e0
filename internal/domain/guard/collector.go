package guard

import "errors"

// Collector aplica las mismas reglas que Check pero acumula todas las violaciones
// en lugar de cortar en la primera. Pensado para formularios que muestran varios
// mensajes a la vez.
type Collector struct {
	violations []error
}

// Add registra una violación si err no es nil.
func (c *Collector) Add(err error) {
	if err != nil {
		c.violations = append(c.violations, err)
	}
}

// Violations devuelve las violaciones registradas, en orden.
func (c *Collector) Violations() []error {
	out := make([]error, len(c.violations))
	copy(out, c.violations)
	return out
}

// Messages devuelve el texto de cada violación.
func (c *Collector) Messages() []string {
	out := make([]string, 0, len(c.violations))
	for _, v := range c.violations {
		out = append(out, v.Error())
	}
	return out
}

// Err une todas las violaciones con errors.Join, o nil si no hay ninguna.
func (c *Collector) Err() error {
	if len(c.violations) == 0 {
		return nil
	}
	return errors.Join(c.violations...)
}

// Collect valida con Check y, si falla, registra la violación en c.
// Devuelve el valor normalizado (o el cero de T si falló).
func Collect[T any](c *Collector, field string, value T, normalize Normalizer[T], rules ...Rule[T]) T {
	v, err := Check(field, value, normalize, rules...)
	c.Add(err)
	return v
}
