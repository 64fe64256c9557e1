package program

import (
	"cairoprog/internal/felt"
	"cairoprog/internal/serde"
)

const constType = "const"

// extractConstants copies the value of every "const" identifier into a
// standalone name -> value map. A const without a value is an error.
func extractConstants(identifiers map[string]serde.Identifier) (map[string]felt.Felt, error) {
	constants := make(map[string]felt.Felt)
	for name, id := range identifiers {
		if id.Type != constType {
			continue
		}
		if id.Value == nil {
			return nil, &IdentifierError{Name: name, Err: ErrConstWithoutValue}
		}
		constants[name] = *id.Value
	}
	return constants, nil
}
