package models

import "time"

// User гражданин, подающий обращения.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	Surname      string    `db:"surname" json:"surname"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Role должность сотрудника.
type Role struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Officer сотрудник муниципалитета или подрядчика.
//
// CompanyName заполнено только для внешних сотрудников.
type Officer struct {
	ID           int64
	Username     string
	Email        string
	Name         string
	Surname      string
	PasswordHash string
	External     bool
	CompanyName  *string
	Role         *Role
}

// Party участник живой доставки: гражданин или сотрудник.
type Party struct {
	Kind PartyKind
	ID   int64
}

func UserParty(id int64) Party    { return Party{Kind: PartyUser, ID: id} }
func OfficerParty(id int64) Party { return Party{Kind: PartyOfficer, ID: id} }
