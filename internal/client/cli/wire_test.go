package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/projecthub/internal/client/config"
	"github.com/dmitrijs2005/projecthub/internal/client/localapi"
)

func testConfig(backend string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Backend = backend
	cfg.DataSource = ":memory:"
	cfg.APIBaseURL = "http://127.0.0.1:1/api"
	return cfg
}

func TestNewAppFromConfig_Local(t *testing.T) {
	app, closeFn, err := NewAppFromConfig(context.Background(), testConfig(config.BackendLocal), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	assert.NotNil(t, app.attachments)
	assert.Nil(t, app.metrics)

	old := getPassword
	t.Cleanup(func() { getPassword = old })
	getPassword = func(io.Writer) ([]byte, error) {
		return []byte(localapi.SeedPassword), nil
	}

	var out bytes.Buffer
	app.out = &out
	app.reader = rdr("login\n" + localapi.SeedAdminEmail + "\n")
	app.Run(context.Background())

	assert.Contains(t, out.String(), "Logged in as Admin User (admin).")
}

func TestNewAppFromConfig_Remote(t *testing.T) {
	app, closeFn, err := NewAppFromConfig(context.Background(), testConfig(config.BackendRemote), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	assert.Nil(t, app.attachments)
	require.NotNil(t, app.metrics)

	var out bytes.Buffer
	app.out = &out
	require.NoError(t, app.Stats(context.Background()))
	assert.Equal(t, "No requests recorded yet.\n", out.String())
}

func TestNewAppFromConfig_Errors(t *testing.T) {
	_, _, err := NewAppFromConfig(context.Background(), testConfig("carrier-pigeon"), nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown backend"))

	cfg := testConfig(config.BackendLocal)
	cfg.TokenSecret = ""
	_, _, err = NewAppFromConfig(context.Background(), cfg, nil)
	require.Error(t, err)
}
