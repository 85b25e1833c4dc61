package domain

import (
	"time"
)

// StatusID identifies a request status
type StatusID int64

// Seeded statuses. StatusNew is the default for new requests.
const (
	StatusNew        StatusID = 1
	StatusInProgress StatusID = 2
	StatusSourced    StatusID = 3
	StatusCompleted  StatusID = 4
)

// Customer is the person a sourcing request is made for
type Customer struct {
	ID        int64     `gorm:"column:customer_id;primaryKey;autoIncrement"`
	FullName  string    `gorm:"column:full_name;type:text;not null"`
	Email     string    `gorm:"column:email;type:text;not null"`
	Phone     string    `gorm:"column:phone;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (Customer) TableName() string { return "customers" }

// Status is one step of a request's lifecycle
type Status struct {
	ID   StatusID `gorm:"column:status_id;primaryKey;autoIncrement:false"`
	Name string   `gorm:"column:status_name;type:text;not null;uniqueIndex"`
}

func (Status) TableName() string { return "statuses" }

// Request is a customer's sourcing request for a single item
type Request struct {
	ID         int64         `gorm:"column:request_id;primaryKey;autoIncrement"`
	CustomerID int64         `gorm:"column:customer_id;not null;index"`
	Customer   *Customer     `gorm:"foreignKey:CustomerID;references:ID"`
	StatusID   StatusID      `gorm:"column:status_id;not null;index"`
	Status     *Status       `gorm:"foreignKey:StatusID;references:ID"`
	ItemName   string        `gorm:"column:item_name;type:text;not null"`
	Brand      string        `gorm:"column:brand;type:text"`
	BudgetGBP  *float64      `gorm:"column:budget_gbp"`
	Size       string        `gorm:"column:size;type:text"`
	Colour     string        `gorm:"column:colour;type:text"`
	CreatedAt  time.Time     `gorm:"column:created_at;not null"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;not null"`
	Notes      []RequestNote `gorm:"foreignKey:RequestID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Request) TableName() string { return "requests" }

// StatusName returns the joined status name, or "" when the status was not loaded
func (r *Request) StatusName() string {
	if r.Status == nil {
		return ""
	}
	return r.Status.Name
}

// RequestNote is a free-text annotation on a request
type RequestNote struct {
	ID        int64     `gorm:"column:note_id;primaryKey;autoIncrement"`
	RequestID int64     `gorm:"column:request_id;not null;index"`
	Text      string    `gorm:"column:note_text;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (RequestNote) TableName() string { return "request_notes" }

// StatusCount is the number of requests currently in a status
type StatusCount struct {
	StatusID   StatusID
	StatusName string
	Count      int64
}
