// Package cypher translates SQL statements into semantically equivalent
// Cypher statements: it parses SQL into a neutral AST (cypher/sqlast),
// rewrites it into a Cypher AST (cypher/cypherast) using table/column/join
// mappings, and renders Cypher text.
package cypher

import (
	"sort"
	"strings"
)

// NameCase is a name-casing policy applied to identifiers during SQL
// parsing or Cypher rendering.
type NameCase int

const (
	// AsIs leaves identifiers untouched.
	AsIs NameCase = iota
	// Upper upper-cases identifiers.
	Upper
	// Lower lower-cases identifiers.
	Lower
)

func (c NameCase) apply(s string) string {
	switch c {
	case Upper:
		return strings.ToUpper(s)
	case Lower:
		return strings.ToLower(s)
	default:
		return s
	}
}

func parseNameCase(v string) (NameCase, bool) {
	switch strings.ToUpper(v) {
	case "AS_IS", "ASIS":
		return AsIs, true
	case "UPPER":
		return Upper, true
	case "LOWER":
		return Lower, true
	default:
		return AsIs, false
	}
}

// Config is an immutable bundle of translator settings. Build one with
// NewConfigBuilder or derive one from a property map with ConfigFrom.
type Config struct {
	parseNameCase             NameCase
	renderNameCase            NameCase
	diagnosticLogging         bool
	tableToLabelMappings      map[string]string
	joinColumnsToTypeMappings map[string]string
	sqlDialect                string
	prettyPrint               bool
	alwaysEscapeNames         *bool
	parseNamedParamPrefix     string
}

// DefaultConfig is the zero-value-equivalent configuration: AsIs casing,
// pretty printing on, named parameters prefixed with ':', no mappings.
func DefaultConfig() Config {
	return ConfigBuilder{}.Build()
}

// ParseNameCase reports the casing policy applied to identifiers while
// parsing SQL.
func (c Config) ParseNameCase() NameCase { return c.parseNameCase }

// RenderNameCase reports the casing policy applied to identifiers while
// rendering Cypher.
func (c Config) RenderNameCase() NameCase { return c.renderNameCase }

// DiagnosticLogging reports whether parser diagnostics are emitted.
func (c Config) DiagnosticLogging() bool { return c.diagnosticLogging }

// LabelFor returns the Cypher label for SQL table name, consulting
// TableToLabelMappings and falling back to the table name itself
// (re-cased per RenderNameCase).
func (c Config) LabelFor(table string) string {
	if l, ok := c.tableToLabelMappings[table]; ok {
		return l
	}
	return c.renderNameCase.apply(table)
}

// RelTypeFor returns the Cypher relationship type for a join on
// (foreignKeyColumn, primaryKeyColumn), consulting
// JoinColumnsToTypeMappings keyed by "fk,pk" and falling back to the
// upper-cased foreign key column name with a trailing "_ID" stripped.
func (c Config) RelTypeFor(fkColumn, pkColumn string) string {
	key := fkColumn + "," + pkColumn
	if t, ok := c.joinColumnsToTypeMappings[key]; ok {
		return t
	}
	name := strings.ToUpper(fkColumn)
	name = strings.TrimSuffix(name, "_ID")
	return name
}

// PrettyPrint reports whether rendered Cypher is pretty-formatted.
func (c Config) PrettyPrint() bool { return c.prettyPrint }

// AlwaysEscapeNames reports whether identifiers are always back-tick
// quoted. When not set explicitly, it defaults to the inverse of
// PrettyPrint.
func (c Config) AlwaysEscapeNames() bool {
	if c.alwaysEscapeNames != nil {
		return *c.alwaysEscapeNames
	}
	return !c.prettyPrint
}

// ParseNamedParamPrefix returns the prefix character introducing a named
// parameter while parsing SQL, default ":".
func (c Config) ParseNamedParamPrefix() string {
	if c.parseNamedParamPrefix == "" {
		return ":"
	}
	return c.parseNamedParamPrefix
}

// ConfigBuilder builds a Config. The zero value is a usable builder with
// every field at its default.
type ConfigBuilder struct {
	cfg Config
	set bool
}

func (b ConfigBuilder) start() ConfigBuilder {
	if !b.set {
		b.cfg = Config{
			parseNameCase:  AsIs,
			renderNameCase: AsIs,
			prettyPrint:    true,
		}
		b.set = true
	}
	return b
}

// WithParseNameCase sets the SQL-parse-time casing policy.
func (b ConfigBuilder) WithParseNameCase(c NameCase) ConfigBuilder {
	b = b.start()
	b.cfg.parseNameCase = c
	return b
}

// WithRenderNameCase sets the Cypher-render-time casing policy.
func (b ConfigBuilder) WithRenderNameCase(c NameCase) ConfigBuilder {
	b = b.start()
	b.cfg.renderNameCase = c
	return b
}

// WithDiagnosticLogging enables or disables parser diagnostic logging.
func (b ConfigBuilder) WithDiagnosticLogging(enabled bool) ConfigBuilder {
	b = b.start()
	b.cfg.diagnosticLogging = enabled
	return b
}

// WithTableToLabelMappings replaces the table->label mapping.
func (b ConfigBuilder) WithTableToLabelMappings(m map[string]string) ConfigBuilder {
	b = b.start()
	b.cfg.tableToLabelMappings = copyMap(m)
	return b
}

// WithJoinColumnsToTypeMappings replaces the "fk,pk"->relationship-type
// mapping.
func (b ConfigBuilder) WithJoinColumnsToTypeMappings(m map[string]string) ConfigBuilder {
	b = b.start()
	b.cfg.joinColumnsToTypeMappings = copyMap(m)
	return b
}

// WithSQLDialect selects the SQL grammar variant.
func (b ConfigBuilder) WithSQLDialect(dialect string) ConfigBuilder {
	b = b.start()
	b.cfg.sqlDialect = dialect
	return b
}

// WithPrettyPrint enables or disables pretty-formatted Cypher output.
func (b ConfigBuilder) WithPrettyPrint(v bool) ConfigBuilder {
	b = b.start()
	b.cfg.prettyPrint = v
	return b
}

// WithAlwaysEscapeNames sets the tri-state escape-names policy explicitly.
func (b ConfigBuilder) WithAlwaysEscapeNames(v bool) ConfigBuilder {
	b = b.start()
	b.cfg.alwaysEscapeNames = &v
	return b
}

// WithParseNamedParamPrefix sets the named-parameter prefix character.
func (b ConfigBuilder) WithParseNamedParamPrefix(prefix string) ConfigBuilder {
	b = b.start()
	b.cfg.parseNamedParamPrefix = prefix
	return b
}

// Build finishes the builder into an immutable Config.
func (b ConfigBuilder) Build() Config {
	b = b.start()
	return b.cfg
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ConfigWarning reports a property key ConfigFrom did not recognise.
type ConfigWarning struct {
	Key string
}

// ConfigFrom derives a Config from a property map, considering only keys
// prefixed with "s2c.". Dash-delimited key segments after the prefix are
// converted to camelCase ("join-columns-to-type-mappings" ->
// "joinColumnsToTypeMappings"). Unrecognised keys are returned as warnings
// and otherwise ignored; a map with no recognised "s2c." keys yields
// DefaultConfig.
func ConfigFrom(props map[string]string) (Config, []ConfigWarning) {
	if len(props) == 0 {
		return DefaultConfig(), nil
	}

	b := ConfigBuilder{}
	var warnings []ConfigWarning
	matched := false

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, rawKey := range keys {
		suffix, ok := cutPrefix(rawKey, "s2c.")
		if !ok {
			continue
		}
		v := props[rawKey]
		key := dashToCamel(suffix)
		switch key {
		case "parseNameCase":
			if nc, ok := parseNameCase(v); ok {
				b = b.WithParseNameCase(nc)
				matched = true
			}
		case "renderNameCase":
			if nc, ok := parseNameCase(v); ok {
				b = b.WithRenderNameCase(nc)
				matched = true
			}
		case "diagnosticLogging":
			b = b.WithDiagnosticLogging(v == "true")
			matched = true
		case "tableToLabelMappings":
			b = b.WithTableToLabelMappings(buildMap(v))
			matched = true
		case "joinColumnsToTypeMappings":
			b = b.WithJoinColumnsToTypeMappings(buildMap(v))
			matched = true
		case "sqlDialect":
			b = b.WithSQLDialect(v)
			matched = true
		case "prettyPrint":
			b = b.WithPrettyPrint(v == "true")
			matched = true
		case "alwaysEscapeNames":
			b = b.WithAlwaysEscapeNames(v == "true")
			matched = true
		case "parseNamedParamPrefix":
			b = b.WithParseNamedParamPrefix(v)
			matched = true
		default:
			warnings = append(warnings, ConfigWarning{Key: rawKey})
		}
	}

	if !matched {
		return DefaultConfig(), warnings
	}
	return b.Build(), warnings
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return "", false
	}
	return s[len(prefix):], true
}

// dashToCamel converts "k1-k2-k3" to "k1K2K3".
func dashToCamel(s string) string {
	var b strings.Builder
	upperNext := false
	for _, r := range s {
		if r == '-' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteString(strings.ToUpper(string(r)))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// buildMap parses a "k1:v1;k2:v2" string into a map.
func buildMap(source string) map[string]string {
	out := map[string]string{}
	for _, entry := range strings.Split(source, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			continue
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out
}
