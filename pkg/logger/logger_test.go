package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Presupuestos-api/pkg/logger"
)

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWriter(&buf, "info").Component("quoting")
	l.Info().Str("quote_id", "q1").Msg("presupuesto aprobado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "quoting", entry["component"])
	assert.Equal(t, "q1", entry["quote_id"])
	assert.Equal(t, "presupuesto aprobado", entry["message"])
}

func TestNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWriter(&buf, "warn")
	l.Info().Msg("no se escribe")
	assert.Zero(t, buf.Len())

	l = logger.NewWriter(&buf, "nivel-desconocido")
	l.Debug().Msg("no se escribe")
	assert.Zero(t, buf.Len(), "nivel por defecto info")
}
