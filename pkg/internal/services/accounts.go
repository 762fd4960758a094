package services

import (
	"fmt"

	"github.com/flatfinder/flatfinder/pkg/internal/database"
	"github.com/flatfinder/flatfinder/pkg/internal/models"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func GetAccount(id uint) (models.Account, error) {
	var account models.Account
	if err := database.C.Where(models.Account{
		BaseModel: models.BaseModel{ID: id},
	}).First(&account).Error; err != nil {
		return account, err
	}
	return account, nil
}

func GetAccountWithName(name string) (models.Account, error) {
	var account models.Account
	if err := database.C.Where(models.Account{
		Name: name,
	}).First(&account).Error; err != nil {
		return account, err
	}
	return account, nil
}

func NewAccount(account models.Account, password string) (models.Account, error) {
	if _, err := GetAccountWithName(account.Name); err == nil {
		return account, NewValidationError("account name %s was already taken", account.Name)
	} else if err != gorm.ErrRecordNotFound {
		return account, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return account, err
	}
	account.Password = hashed
	if len(account.Role) == 0 {
		account.Role = models.AccountRoleUser
	}

	if err := database.C.Save(&account).Error; err != nil {
		return account, err
	}
	return account, nil
}

func LoginAccount(name string, password string) (models.Account, string, error) {
	account, err := GetAccountWithName(name)
	if err != nil {
		return account, "", fmt.Errorf("account was not found: %v", err)
	}
	if bcrypt.CompareHashAndPassword(account.Password, []byte(password)) != nil {
		return account, "", fmt.Errorf("invalid credentials")
	}

	token, err := CreateAuthToken(account)
	if err != nil {
		return account, "", err
	}
	return account, token, nil
}

func EditAccount(account models.Account) (models.Account, error) {
	if err := database.C.Save(&account).Error; err != nil {
		return account, err
	}
	return account, nil
}

func CountAccount() (int64, error) {
	var count int64
	if err := database.C.Model(&models.Account{}).Count(&count).Error; err != nil {
		return count, err
	}
	return count, nil
}

func ListAccount(take int, offset int) ([]models.Account, error) {
	if take <= 0 || take > 100 {
		take = 100
	}

	var accounts []models.Account
	if err := database.C.
		Limit(take).Offset(offset).
		Order("id ASC").
		Find(&accounts).Error; err != nil {
		return accounts, err
	}
	return accounts, nil
}

// DeleteAccount removes the account along with everything it owns, so the
// flats it listed and the messages under them go away in the same transaction.
func DeleteAccount(account models.Account) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		var flats []models.Flat
		if err := tx.Where("owner_id = ?", account.ID).Find(&flats).Error; err != nil {
			return err
		}

		flatIds := lo.Map(flats, func(item models.Flat, index int) uint {
			return item.ID
		})

		if len(flatIds) > 0 {
			if err := tx.Where("flat_id IN ?", flatIds).Delete(&models.Message{}).Error; err != nil {
				return err
			}
			if err := tx.Where("flat_id IN ?", flatIds).Delete(&models.FlatFavorite{}).Error; err != nil {
				return err
			}
			if err := tx.Where("owner_id = ?", account.ID).Delete(&models.Flat{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("account_id = ?", account.ID).Delete(&models.FlatFavorite{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&account).Error; err != nil {
			return err
		}

		for _, flatId := range flatIds {
			FlushFlatIdentity(flatId)
		}

		return nil
	})
}
