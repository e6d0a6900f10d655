package definition

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRegistry(t *testing.T) {
	t.Run("Should register every option in declaration order", func(t *testing.T) {
		registry := CreateRegistry()

		assert.Equal(t, []string{
			"dsn",
			"release",
			"environment",
			"server_name",
			"included_environments",
			"sample_rate",
			"log_level",
			"max_breadcrumbs",
			"report_deps",
			"source_code_path_pattern",
			"source_code_exclude_patterns",
			"context_lines",
			"json_codec",
			"before_send",
			"before_send_event",
			"extra",
		}, registry.Names())
	})

	t.Run("Should map environment variables to option names", func(t *testing.T) {
		registry := CreateRegistry()

		assert.Equal(t, map[string]string{
			"FAULTLINE_DSN":         "dsn",
			"FAULTLINE_RELEASE":     "release",
			"FAULTLINE_ENVIRONMENT": "environment",
			"FAULTLINE_SERVER_NAME": "server_name",
		}, registry.EnvMapping())
	})

	t.Run("Should mark only the alias options as deprecated", func(t *testing.T) {
		registry := CreateRegistry()

		deprecated := map[string]string{}
		for _, name := range registry.Names() {
			def, ok := registry.GetOption(name)
			require.True(t, ok)
			if def.Deprecated() {
				deprecated[name] = def.ReplacedBy
			}
		}

		assert.Equal(t, map[string]string{
			"included_environments": "environment",
			"before_send_event":     "before_send",
		}, deprecated)
	})

	t.Run("Should compute the server name default from the hostname", func(t *testing.T) {
		registry := CreateRegistry()

		hostname, err := os.Hostname()
		require.NoError(t, err)
		assert.Equal(t, hostname, registry.GetDefault("server_name"))
	})

	t.Run("Should default the allow-list to the accept-all sentinel", func(t *testing.T) {
		registry := CreateRegistry()

		assert.Equal(t, AllEnvironments, registry.GetDefault("included_environments"))
	})

	t.Run("Should return nil defaults for unknown names", func(t *testing.T) {
		registry := CreateRegistry()

		assert.Nil(t, registry.GetDefault("typo_option"))
	})
}

func TestRegistry_Register(t *testing.T) {
	t.Run("Should keep declaration order stable on re-registration", func(t *testing.T) {
		registry := NewRegistry()
		registry.Register(&OptionDef{Name: "first", Kind: KindString})
		registry.Register(&OptionDef{Name: "second", Kind: KindString})
		registry.Register(&OptionDef{Name: "first", Kind: KindBool})

		assert.Equal(t, []string{"first", "second"}, registry.Names())
		def, ok := registry.GetOption("first")
		require.True(t, ok)
		assert.Equal(t, KindBool, def.Kind)
	})
}
