package entity

import (
	"github.com/google/uuid"
)

type Address struct {
	BaseSimple
	UserID      uuid.UUID `db:"user_id"`
	AddressLine string    `db:"address_line"`
	City        string    `db:"city"`
	State       string    `db:"state"`
	Zipcode     string    `db:"zipcode"`
}
