package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Customer{FirstName: "Ann", LastName: "Smith", Age: 30, ID: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstName":"Ann","lastName":"Smith","age":30,"id":1}`, string(data))
}

func TestCustomerStringIsCompactJSON(t *testing.T) {
	c := Customer{FirstName: "", LastName: "Smith", Age: 30, ID: 7}
	assert.Equal(t, `{"firstName":"","lastName":"Smith","age":30,"id":7}`, c.String())
	assert.Equal(t, "Ann Smith", Customer{FirstName: "Ann", LastName: "Smith"}.FullName())
}

func TestCustomerCompare(t *testing.T) {
	cases := []struct {
		name string
		a, b Customer
		want int
	}{
		{"last name decides", Customer{FirstName: "Zed", LastName: "Adams"}, Customer{FirstName: "Ann", LastName: "Smith"}, -1},
		{"first name breaks tie", Customer{FirstName: "Bob", LastName: "Smith"}, Customer{FirstName: "Ann", LastName: "Smith"}, 1},
		{"equal keys", Customer{FirstName: "Ann", LastName: "Smith", ID: 1}, Customer{FirstName: "Ann", LastName: "Smith", ID: 2}, 0},
		{"byte-wise uppercase first", Customer{FirstName: "Ann", LastName: "Zed"}, Customer{FirstName: "Ann", LastName: "adams"}, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Compare(tc.b))
		})
	}
}

func TestBatchResultEncodesEmptyErrors(t *testing.T) {
	data, err := json.Marshal(BatchResult{Added: 3, Errors: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"added":3,"errors":[]}`, string(data))
	assert.Zero(t, BatchResult{}.Rejected())
}

func TestPersistenceErrorsMatchSentinels(t *testing.T) {
	cause := assert.AnError
	corrupt := &CorruptError{Driver: StorageFile, Location: "customers.json", Err: cause}
	assert.ErrorIs(t, corrupt, ErrCorrupt)
	assert.ErrorIs(t, corrupt, cause)
	assert.NotErrorIs(t, corrupt, ErrWrite)
	assert.Contains(t, corrupt.Error(), "customers.json")

	write := &WriteError{Driver: StorageS3, Location: "bucket/customers.json", Err: cause}
	assert.ErrorIs(t, write, ErrWrite)
	assert.NotErrorIs(t, write, ErrCorrupt)
	assert.Contains(t, write.Error(), "s3 storage")

	parse := &ParseError{Err: cause}
	assert.ErrorIs(t, parse, cause)
	assert.Contains(t, parse.Error(), "malformed customer batch")
}
