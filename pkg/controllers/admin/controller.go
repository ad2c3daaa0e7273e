package admin

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"radhe_backend/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errBillsUnavailable = errors.New("bill storage is not configured")

// Controller serves the owner's back office: users, orders, payments,
// deliveries, service requests and dashboard counters
type Controller struct {
	DB    *gorm.DB
	Bills services.BillStore

	now func() time.Time
}

// New wires the admin controller. bills may be nil, in which case uploads are refused.
func New(db *gorm.DB, bills services.BillStore) *Controller {
	return &Controller{
		DB:    db,
		Bills: bills,
		now:   time.Now,
	}
}

// formBill stores the optional billFile upload and returns its location.
// A request without the field yields nil.
func (ac *Controller) formBill(c *gin.Context) (*string, error) {
	header, err := c.FormFile("billFile")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ac.saveBill(c.Request.Context(), header)
}

func (ac *Controller) saveBill(ctx context.Context, header *multipart.FileHeader) (*string, error) {
	if ac.Bills == nil {
		return nil, errBillsUnavailable
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	location, err := ac.Bills.Save(ctx, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		return nil, err
	}
	return &location, nil
}
