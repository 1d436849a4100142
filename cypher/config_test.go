package cypher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigFromRecognisedKeys(t *testing.T) {
	cfg, warnings := ConfigFrom(map[string]string{
		"s2c.parse-name-case":              "upper",
		"s2c.render-name-case":             "lower",
		"s2c.pretty-print":                 "false",
		"s2c.table-to-label-mappings":      "Person:Human;Movie:Film",
		"s2c.join-columns-to-type-mappings": "fk,pk:REL",
		"s2c.parse-named-param-prefix":     "@",
	})
	require.Empty(t, warnings)
	require.Equal(t, Upper, cfg.ParseNameCase())
	require.Equal(t, Lower, cfg.RenderNameCase())
	require.False(t, cfg.PrettyPrint())
	require.Equal(t, "Human", cfg.LabelFor("Person"))
	require.Equal(t, "REL", cfg.RelTypeFor("fk", "pk"))
	require.Equal(t, "@", cfg.ParseNamedParamPrefix())
}

func TestConfigFromUnknownKeyWarns(t *testing.T) {
	_, warnings := ConfigFrom(map[string]string{"s2c.not-a-real-option": "x"})
	require.Len(t, warnings, 1)
	require.Equal(t, "s2c.not-a-real-option", warnings[0].Key)
}

func TestConfigFromIgnoresUnprefixedKeys(t *testing.T) {
	cfg, warnings := ConfigFrom(map[string]string{"unrelated.key": "value"})
	require.Empty(t, warnings)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestAlwaysEscapeNamesDefaultsToInverseOfPrettyPrint(t *testing.T) {
	prettyOn := ConfigBuilder{}.WithPrettyPrint(true).Build()
	require.False(t, prettyOn.AlwaysEscapeNames())

	prettyOff := ConfigBuilder{}.WithPrettyPrint(false).Build()
	require.True(t, prettyOff.AlwaysEscapeNames())
}

func TestAlwaysEscapeNamesExplicitOverridesDefault(t *testing.T) {
	cfg := ConfigBuilder{}.WithPrettyPrint(true).WithAlwaysEscapeNames(true).Build()
	require.True(t, cfg.AlwaysEscapeNames())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, AsIs, cfg.ParseNameCase())
	require.Equal(t, AsIs, cfg.RenderNameCase())
	require.True(t, cfg.PrettyPrint())
	require.Equal(t, ":", cfg.ParseNamedParamPrefix())
}
