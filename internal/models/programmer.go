package models

import (
	"strings"
)

// Programmer matches the "Programmer" table created by RunMigrations.
type Programmer struct {
	ID          int    `gorm:"column:id;primaryKey;autoIncrement" db:"id"`
	FirstName   string `gorm:"column:first_name" db:"first_name"`
	LastName    string `gorm:"column:last_name" db:"last_name"`
	Gender      string `gorm:"column:gender" db:"gender"`
	Nationality string `gorm:"column:nationality" db:"nationality"`
	FamousFor   string `gorm:"column:famous_for" db:"famous_for"`
}

func (Programmer) TableName() string {
	return ProgrammerTable.Name
}

func (p *Programmer) Prepare() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Gender = strings.TrimSpace(p.Gender)
	p.Nationality = strings.TrimSpace(p.Nationality)
	p.FamousFor = strings.TrimSpace(p.FamousFor)
}

func (p Programmer) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Fields is the listing shape: id | full name | gender | nationality | famous for.
func (p Programmer) Fields() []any {
	return []any{p.ID, p.FullName(), p.Gender, p.Nationality, p.FamousFor}
}
