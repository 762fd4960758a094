package services

import (
	"context"
	"fmt"

	localCache "github.com/flatfinder/flatfinder/pkg/internal/cache"
	"github.com/flatfinder/flatfinder/pkg/internal/database"
	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type flatIdentityCacheEntry struct {
	Flat models.Flat
}

func GetFlatIdentityCacheKey(flat uint) string {
	return fmt.Sprintf("flat-identity-%d", flat)
}

func CacheFlatIdentity(flat models.Flat) {
	key := GetFlatIdentityCacheKey(flat.ID)

	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	contx := context.Background()

	_ = marshal.Set(
		contx,
		key,
		flatIdentityCacheEntry{flat},
		store.WithTags([]string{"flat-identity", fmt.Sprintf("flat#%d", flat.ID)}),
	)
}

func FlushFlatIdentity(flat uint) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	contx := context.Background()

	_ = marshal.Delete(contx, GetFlatIdentityCacheKey(flat))
}

// GetFlatIdentity answers the hot question of the messaging path: which flat
// is this, and who owns it. Backed by the shared cache since it is asked
// once per message list render and once per submit.
func GetFlatIdentity(id uint) (models.Flat, error) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	contx := context.Background()

	if val, err := marshal.Get(contx, GetFlatIdentityCacheKey(id), new(flatIdentityCacheEntry)); err == nil {
		entry := val.(*flatIdentityCacheEntry)
		return entry.Flat, nil
	}

	flat, err := GetFlat(id)
	if err != nil {
		return flat, err
	}
	CacheFlatIdentity(flat)

	return flat, nil
}

func GetFlat(id uint) (models.Flat, error) {
	var flat models.Flat
	if err := database.C.Where(models.Flat{
		BaseModel: models.BaseModel{ID: id},
	}).Preload("Owner").First(&flat).Error; err != nil {
		return flat, err
	}
	return flat, nil
}

type FlatFilter struct {
	City     string
	MaxPrice *float64
	MinArea  *float64

	Take   int
	Offset int
}

func CountFlat(filter FlatFilter) int64 {
	var count int64
	if err := buildFlatFilter(database.C.Model(&models.Flat{}), filter).
		Count(&count).Error; err != nil {
		return 0
	}
	return count
}

func ListFlat(filter FlatFilter) ([]models.Flat, error) {
	if filter.Take <= 0 || filter.Take > 100 {
		filter.Take = 100
	}

	var flats []models.Flat
	if err := buildFlatFilter(database.C, filter).
		Limit(filter.Take).Offset(filter.Offset).
		Order("created_at DESC").
		Preload("Owner").
		Find(&flats).Error; err != nil {
		return flats, err
	}
	return flats, nil
}

func buildFlatFilter(tx *gorm.DB, filter FlatFilter) *gorm.DB {
	if len(filter.City) > 0 {
		tx = tx.Where("city = ?", filter.City)
	}
	if filter.MaxPrice != nil {
		tx = tx.Where("rent_price <= ?", *filter.MaxPrice)
	}
	if filter.MinArea != nil {
		tx = tx.Where("area_size >= ?", *filter.MinArea)
	}
	return tx
}

func ListOwnedFlat(user models.Account) ([]models.Flat, error) {
	var flats []models.Flat
	if err := database.C.Where(models.Flat{
		OwnerID: user.ID,
	}).Order("created_at DESC").Find(&flats).Error; err != nil {
		return flats, err
	}
	return flats, nil
}

func NewFlat(flat models.Flat) (models.Flat, error) {
	if err := database.C.Save(&flat).Error; err != nil {
		return flat, err
	}
	return flat, nil
}

func EditFlat(flat models.Flat) (models.Flat, error) {
	if err := database.C.Save(&flat).Error; err != nil {
		return flat, err
	}
	FlushFlatIdentity(flat.ID)
	return flat, nil
}

// DeleteFlat removes a listing together with its messages and favorites.
// Live feed subscribers of the flat receive one final empty snapshot.
func DeleteFlat(flat models.Flat) error {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Message{}, "flat_id = ?", flat.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.FlatFavorite{}, "flat_id = ?", flat.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&flat).Error
	})
	if err != nil {
		return err
	}

	FlushFlatIdentity(flat.ID)
	PublishFlatSnapshot(flat.ID)

	return nil
}

// ToggleFlatFavorite flips the favorite mark and reports the new state.
func ToggleFlatFavorite(flat models.Flat, user models.Account) (bool, error) {
	var favorite models.FlatFavorite
	err := database.C.Where(models.FlatFavorite{
		FlatID:    flat.ID,
		AccountID: user.ID,
	}).First(&favorite).Error
	if err == nil {
		if err := database.C.Delete(&favorite).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}

	favorite = models.FlatFavorite{
		FlatID:    flat.ID,
		AccountID: user.ID,
	}
	if err := database.C.Save(&favorite).Error; err != nil {
		return false, err
	}
	return true, nil
}

func ListFavoriteFlat(user models.Account) ([]models.Flat, error) {
	var favorites []models.FlatFavorite
	if err := database.C.Where(models.FlatFavorite{
		AccountID: user.ID,
	}).Preload("Flat").Preload("Flat.Owner").Find(&favorites).Error; err != nil {
		return nil, err
	}

	return lo.Map(favorites, func(item models.FlatFavorite, index int) models.Flat {
		return item.Flat
	}), nil
}
