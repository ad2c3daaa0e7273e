package reports

import (
	"time"

	"gorm.io/gorm"
)

// Controller serves the read-only report endpoints behind the admin dashboard
type Controller struct {
	DB *gorm.DB

	now func() time.Time
}

func New(db *gorm.DB) *Controller {
	return &Controller{DB: db, now: time.Now}
}
