package model

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The reservation reads use SELECT *, so every column in the reservations
// table needs a mapped destination field.
func TestReservationColumnMapping(t *testing.T) {
	columns := []string{
		"id", "user_id", "hospital_id", "reserved_at",
		"status", "memo", "created_at", "updated_at",
	}

	mapped := map[string]bool{}
	rt := reflect.TypeOf(Reservation{})
	for i := 0; i < rt.NumField(); i++ {
		mapped[rt.Field(i).Tag.Get("db")] = true
	}

	for _, column := range columns {
		assert.Truef(t, mapped[column], "column %q has no destination field", column)
	}
}

func TestReservationMemoValue(t *testing.T) {
	r := &Reservation{}
	assert.Equal(t, "", r.MemoValue())

	r.Memo = sql.NullString{String: "first visit", Valid: true}
	assert.Equal(t, "first visit", r.MemoValue())
}
