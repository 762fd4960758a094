package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type Flat struct {
	BaseModel

	Name          string                      `json:"name"`
	Description   string                      `json:"description"`
	City          string                      `json:"city"`
	StreetName    string                      `json:"street_name"`
	StreetNumber  string                      `json:"street_number"`
	AreaSize      float64                     `json:"area_size"`
	HasAC         bool                        `json:"has_ac"`
	YearBuilt     int                         `json:"year_built"`
	RentPrice     float64                     `json:"rent_price"`
	DateAvailable *time.Time                  `json:"date_available"`
	Photos        datatypes.JSONSlice[string] `json:"photos"`

	Messages  []Message      `json:"messages"`
	Favorites []FlatFavorite `json:"favorites"`

	Owner   Account `json:"owner"`
	OwnerID uint    `json:"owner_id"`
}

func (v Flat) DisplayText() string {
	return fmt.Sprintf("%s, %s %s, %s", v.Name, v.StreetName, v.StreetNumber, v.City)
}

type FlatFavorite struct {
	BaseModel

	Flat      Flat    `json:"flat"`
	FlatID    uint    `json:"flat_id" gorm:"uniqueIndex:idx_flat_account"`
	Account   Account `json:"account"`
	AccountID uint    `json:"account_id" gorm:"uniqueIndex:idx_flat_account"`
}
