package catalog

import (
	"context"
	"log"

	"radhe_backend/pkg/services"

	"gorm.io/gorm"
)

// Controller serves categories, products, product feedback and inquiries
type Controller struct {
	DB               *gorm.DB
	Cache            services.CatalogCache
	Mailer           services.Mailer
	InquiryRecipient string
}

func New(db *gorm.DB, cache services.CatalogCache, mailer services.Mailer, inquiryRecipient string) *Controller {
	if cache == nil {
		cache = services.NoopCatalogCache{}
	}
	return &Controller{
		DB:               db,
		Cache:            cache,
		Mailer:           mailer,
		InquiryRecipient: inquiryRecipient,
	}
}

// cached fills dest from the cache, or runs load and stores the result
func (cc *Controller) cached(ctx context.Context, key string, dest interface{}, load func() error) error {
	hit, err := cc.Cache.Get(ctx, key, dest)
	if err != nil {
		log.Printf("⚠️  Catalog cache read failed for %s: %v", key, err)
	}
	if hit {
		return nil
	}

	if err := load(); err != nil {
		return err
	}

	if err := cc.Cache.Set(ctx, key, dest); err != nil {
		log.Printf("⚠️  Catalog cache write failed for %s: %v", key, err)
	}
	return nil
}

func (cc *Controller) invalidate(ctx context.Context) {
	if err := cc.Cache.Invalidate(ctx); err != nil {
		log.Printf("⚠️  Catalog cache invalidation failed: %v", err)
	}
}
