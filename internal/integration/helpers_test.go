package integration

import (
	"encoding/json"
	"reflect"
	"testing"
)

func assertJSONEqual(t *testing.T, want, got string) {
	t.Helper()
	var w, g any
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("decode want: %v", err)
	}
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("decode got: %v (%s)", err, got)
	}
	if !reflect.DeepEqual(w, g) {
		t.Fatalf("json mismatch:\nwant %s\ngot  %s", want, got)
	}
}
