// Package snapshot encodes the full customer sequence in the persisted form
// shared by every storage driver: an indented JSON array.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"customerdesk/pkg/domain"
)

// Marshal renders customers as a JSON array indented with two spaces. An
// empty or nil sequence renders as [].
func Marshal(customers []domain.Customer) ([]byte, error) {
	if customers == nil {
		customers = []domain.Customer{}
	}
	return json.MarshalIndent(customers, "", "  ")
}

// Unmarshal decodes a persisted sequence. A JSON null decodes to an empty
// sequence; anything that is not an array of customer records is an error.
func Unmarshal(data []byte) ([]domain.Customer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	var customers []domain.Customer
	if err := json.Unmarshal(data, &customers); err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return customers, nil
}
