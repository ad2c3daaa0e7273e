package database

import (
	"context"
	"errors"
	"testing"

	"radhe_backend/pkg/config"
	"radhe_backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(&config.Config{DatabaseURL: ":memory:", Environment: "test"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { Close(db) })
	return db
}

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		url        string
		wantSQLite bool
		wantErr    bool
	}{
		{url: "postgres://u:p@localhost:5432/radhe", wantSQLite: false},
		{url: "postgresql://u:p@localhost/radhe", wantSQLite: false},
		{url: "sqlite://radhe.db", wantSQLite: true},
		{url: "file:radhe.db?cache=shared", wantSQLite: true},
		{url: ":memory:", wantSQLite: true},
		{url: "mysql://root@localhost/radhe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			d, isSQLite, err := dialectorFor(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, d)
			assert.Equal(t, tt.wantSQLite, isSQLite)
		})
	}
}

func TestWithTransaction_CommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)

	err := WithTransaction(context.Background(), db, func(tx *gorm.DB) error {
		order := models.Order{UserID: 1, OrderStatus: models.OrderStatusPending}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderDetail{OrderID: order.ID, ProductID: 1, Quantity: 1, NoOfEnds: 1, CreelType: models.CreelTypeO, CreelPitch: 1, BobinLength: 1}).Error
	})
	require.NoError(t, err)

	var orders, details int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderDetail{}).Count(&details)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(1), details)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("detail insert failed")

	err := WithTransaction(context.Background(), db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.Order{UserID: 1, OrderStatus: models.OrderStatusPending}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	db := openTestDB(t)

	assert.Panics(t, func() {
		_ = WithTransaction(context.Background(), db, func(tx *gorm.DB) error {
			tx.Create(&models.Order{UserID: 1, OrderStatus: models.OrderStatusPending})
			panic("driver exploded")
		})
	})

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestMigrate_InstallmentUniqueness(t *testing.T) {
	db := openTestDB(t)
	one := 1

	first := models.Payment{OrderID: 1, PaymentAmount: 10, InstallmentNumber: &one, PaymentMethod: models.PaymentMethodCash, PaymentType: models.PaymentTypeProduct, PaymentStatus: models.PaymentStatusPending}
	require.NoError(t, db.Create(&first).Error)

	dup := first
	dup.ID = 0
	assert.Error(t, db.Create(&dup).Error)
}
