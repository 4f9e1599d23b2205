// Package demo holds the sample models served by "sqladminctl server". Their
// tables are created by the migrations under db/migrations.
package demo

import "time"

// Author writes books
type Author struct {
	ID        uint
	Name      string `gorm:"size:100;not null"`
	Bio       string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Author) AdminDescription() string {
	return "People credited on at least one **book**."
}

// Book is a title in the catalogue
type Book struct {
	ID        uint
	Title     string `gorm:"size:200;not null"`
	AuthorID  uint   `gorm:"not null" sqladmin:"label:Author"`
	Summary   string `gorm:"type:text"`
	Price     float64
	InPrint   bool `gorm:"not null"`
	Published *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Book) AdminDescription() string {
	return "The catalogue. *Author* is the id of an existing author."
}

// Models returns the demo models in registration order
func Models() []interface{} {
	return []interface{}{&Author{}, &Book{}}
}
