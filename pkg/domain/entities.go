// Package domain defines the customer record, batch outcome types and the
// rule evaluation primitives used by customerdesk.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Customer is a single customer record as exchanged over HTTP and persisted.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
	ID        int    `json:"id"`
}

// FullName joins first and last name with a single space.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Compare orders customers by last name, then first name, using byte-wise
// comparison. It returns -1, 0 or +1.
func (c Customer) Compare(other Customer) int {
	if cmp := strings.Compare(c.LastName, other.LastName); cmp != 0 {
		return cmp
	}
	return strings.Compare(c.FirstName, other.FirstName)
}

// String renders the customer as compact JSON. Rejection reasons embed it.
func (c Customer) String() string {
	b, err := json.Marshal(c)
	if err != nil {
		return c.FullName()
	}
	return string(b)
}

// BatchResult is the outcome of a batch submission. Added is the total number
// of records held after processing, not the number accepted from the batch.
type BatchResult struct {
	Added  int      `json:"added"`
	Errors []string `json:"errors"`
}

// Rejected reports how many candidates of the batch were turned down.
func (r BatchResult) Rejected() int { return len(r.Errors) }

// BatchEvent is emitted after a batch has been applied and persisted.
type BatchEvent struct {
	BatchID     string    `json:"batchId"`
	Received    int       `json:"received"`
	Accepted    int       `json:"accepted"`
	Rejected    int       `json:"rejected"`
	Total       int       `json:"total"`
	ProcessedAt time.Time `json:"processedAt"`
}
