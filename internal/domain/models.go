package domain

import "time"

// TimeLayout is the text layout used for every stored timestamp
const TimeLayout = "2006-01-02 15:04:05"

// Soft-delete flag values
const (
	Live    = "N"
	Deleted = "Y"
)

// FormatTime renders t in TimeLayout
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// Audit holds the timestamps stamped by the store on every write.
// Both are owned by the repository; values sent by clients are ignored.
type Audit struct {
	CreatedAt string `json:"createdAt,omitempty"` // When the record was inserted
	UpdatedAt string `json:"updatedAt,omitempty"` // When the record was last saved
}

// SoftDelete marks a record as deleted without removing its row
type SoftDelete struct {
	DeleteYn   string  `json:"deleteYn,omitempty"` // "N" while live, "Y" once deleted
	DeleteTime *string `json:"deleteTime"`         // Set when the record is deleted
}

// IsDeleted reports whether the record carries the deleted flag
func (s SoftDelete) IsDeleted() bool {
	return s.DeleteYn == Deleted
}

// Customer represents a customer contact.
// Nil data fields are left untouched when the record is saved.
type Customer struct {
	CID       int64   `json:"cid"`       // Unique identifier, assigned by the store
	FirstName *string `json:"firstName"` // Given name
	LastName  *string `json:"lastName"`  // Family name
	Email     *string `json:"email"`     // Contact email, searchable
	Phone     *string `json:"phone"`     // Contact phone number
	Audit
	SoftDelete
}

// Dept represents a department
type Dept struct {
	DNO   int64   `json:"dno"`   // Unique identifier, assigned by the store
	DName *string `json:"dname"` // Department name, searchable
	Loc   *string `json:"loc"`   // Department location
	Audit
	SoftDelete
}

// Faq represents a frequently asked question. FAQs are removed by hard delete.
type Faq struct {
	No      int64   `json:"no"`      // Unique identifier, assigned by the store
	Title   *string `json:"title"`   // Question title, searchable
	Content *string `json:"content"` // Answer text
	Audit
}
