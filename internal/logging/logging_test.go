package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", "json")
	require.NoError(t, err)

	log.WithField("client", "acme").Info("Reconciled")
	log.Debug("hidden")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Reconciled", entry["msg"])
	assert.Equal(t, "acme", entry["client"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_Invalid(t *testing.T) {
	var buf bytes.Buffer
	_, err := New(&buf, "loud", "text")
	assert.Error(t, err)

	_, err = New(&buf, "info", "xml")
	assert.Error(t, err)
}
