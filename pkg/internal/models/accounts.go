package models

import "fmt"

type AccountRole = string

const (
	AccountRoleUser  = AccountRole("user")
	AccountRoleAdmin = AccountRole("admin")
)

type Account struct {
	BaseModel

	Name      string      `json:"name" gorm:"uniqueIndex"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Avatar    *string     `json:"avatar"`
	Role      AccountRole `json:"role"`
	Password  []byte      `json:"-"`

	Flats     []Flat         `json:"flats" gorm:"foreignKey:OwnerID"`
	Favorites []FlatFavorite `json:"favorites"`
}

func (v Account) DisplayName() string {
	if len(v.FirstName) == 0 && len(v.LastName) == 0 {
		return v.Name
	}
	return fmt.Sprintf("%s %s", v.FirstName, v.LastName)
}
