package cypher

import "github.com/neo4j-contrib/bolt-cypher-driver/internal/boltz"

// SyntaxErr wraps an unparseable SQL statement as a KindTranslation
// error carrying the offending byte position.
func SyntaxErr(pos int, message string) *boltz.Error {
	return boltz.New(boltz.KindTranslation, "syntax error at %d: %s", pos, message)
}

// UntranslatableErr wraps a construct outside the translatable SQL
// subset as a KindTranslation error.
func UntranslatableErr(construct string) *boltz.Error {
	return boltz.New(boltz.KindTranslation, "untranslatable construct: %s", construct)
}
