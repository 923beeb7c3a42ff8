package service

import (
	"context"
	"errors"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/rs/zerolog/log"
)

type CreateAddressRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"isDefault"`
}

// UpdateAddressRequest nil 欄位維持原值
type UpdateAddressRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	ZipCode   *string `json:"zipCode"`
	Country   *string `json:"country"`
	Phone     *string `json:"phone"`
	IsDefault *bool   `json:"isDefault"`
}

type IAddressService interface {
	// List 預設地址在前, 其餘新到舊
	List(ctx context.Context, userID string) ([]model.Address, error)
	// Create 第一筆地址一定是預設, 設為預設時其他地址取消預設
	// 錯誤:
	//   - er.Validation 400: 必填欄位空白
	Create(ctx context.Context, userID string, req CreateAddressRequest) (*model.Address, error)
	// Update 不能直接取消目前的預設地址
	// 錯誤:
	//   - er.NotFound 404: 地址不存在或不屬於呼叫者
	Update(ctx context.Context, userID, addressID string, req UpdateAddressRequest) (*model.Address, error)
	// Delete 刪除預設地址時, 最新建立的剩餘地址成為預設
	// 錯誤:
	//   - er.NotFound 404: 地址不存在或不屬於呼叫者
	Delete(ctx context.Context, userID, addressID string) error
}

type AddressService struct {
	store db.Store
}

var _ IAddressService = (*AddressService)(nil)

func NewAddressService(store db.Store) *AddressService {
	if store == nil {
		panic("address service initialization failed: store cannot be nil")
	}
	return &AddressService{store: store}
}

func (s *AddressService) List(ctx context.Context, userID string) ([]model.Address, error) {
	if userID == "" {
		return nil, er.New(er.Unauthenticated, "you must be logged in")
	}
	addresses, err := s.store.ListAddressesByUser(ctx, userID)
	if err != nil {
		return nil, er.Wrap(er.Unexpected, "failed to list addresses", err)
	}
	return addresses, nil
}

func (s *AddressService) Create(ctx context.Context, userID string, req CreateAddressRequest) (*model.Address, error) {
	if userID == "" {
		return nil, er.New(er.Unauthenticated, "you must be logged in")
	}

	address := &model.Address{
		UserID:    userID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Address:   strings.TrimSpace(req.Address),
		City:      strings.TrimSpace(req.City),
		ZipCode:   strings.TrimSpace(req.ZipCode),
		Country:   strings.TrimSpace(req.Country),
		Phone:     strings.TrimSpace(req.Phone),
	}
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	if address.Country == "" {
		address.Country = constants.DefaultCountry
	}

	err := s.store.ExecTx(ctx, func(tx db.Store) error {
		if err := lockOwner(ctx, tx, userID); err != nil {
			return err
		}

		count, err := tx.CountAddressesByUser(ctx, userID)
		if err != nil {
			return err
		}
		address.IsDefault = req.IsDefault || count == 0

		if address.IsDefault && count > 0 {
			if err := tx.ClearDefaultAddresses(ctx, userID, ""); err != nil {
				return err
			}
		}
		return tx.CreateAddress(ctx, address)
	})
	if err != nil {
		return nil, s.translate(err, userID, "failed to create address")
	}
	return address, nil
}

func (s *AddressService) Update(ctx context.Context, userID, addressID string, req UpdateAddressRequest) (*model.Address, error) {
	if userID == "" {
		return nil, er.New(er.Unauthenticated, "you must be logged in")
	}

	var updated *model.Address
	err := s.store.ExecTx(ctx, func(tx db.Store) error {
		if err := lockOwner(ctx, tx, userID); err != nil {
			return err
		}

		address, err := getOwnedAddress(ctx, tx, userID, addressID)
		if err != nil {
			return err
		}

		applyAddressUpdate(address, req)
		if err := validateAddress(address); err != nil {
			return err
		}

		// 傳入 false 不會取消目前的預設
		wantDefault := req.IsDefault != nil && *req.IsDefault
		if wantDefault && !address.IsDefault {
			if err := tx.ClearDefaultAddresses(ctx, userID, address.ID); err != nil {
				return err
			}
		}
		address.IsDefault = address.IsDefault || wantDefault

		if err := tx.UpdateAddress(ctx, address); err != nil {
			return err
		}
		updated = address
		return nil
	})
	if err != nil {
		return nil, s.translate(err, userID, "failed to update address")
	}
	return updated, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	if userID == "" {
		return er.New(er.Unauthenticated, "you must be logged in")
	}

	err := s.store.ExecTx(ctx, func(tx db.Store) error {
		if err := lockOwner(ctx, tx, userID); err != nil {
			return err
		}

		address, err := getOwnedAddress(ctx, tx, userID, addressID)
		if err != nil {
			return err
		}
		if err := tx.DeleteAddress(ctx, address.ID); err != nil {
			return err
		}
		if !address.IsDefault {
			return nil
		}

		next, err := tx.GetLatestAddress(ctx, userID)
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.SetDefaultAddress(ctx, next.ID)
	})
	if err != nil {
		return s.translate(err, userID, "failed to delete address")
	}
	return nil
}

func (s *AddressService) translate(err error, userID, msg string) error {
	if _, ok := er.As(err); ok {
		return err
	}
	log.Error().Err(err).Str("user_id", userID).Msg(msg)
	return er.Wrap(er.Unexpected, msg, err)
}

// lockOwner 同一使用者的地址異動排隊執行
func lockOwner(ctx context.Context, tx db.Store, userID string) error {
	_, err := tx.LockUser(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return er.New(er.Unauthenticated, "you must be logged in")
	}
	return err
}

// 不存在與不屬於呼叫者回傳同一個錯誤
func getOwnedAddress(ctx context.Context, tx db.Store, userID, addressID string) (*model.Address, error) {
	address, err := tx.GetAddressByID(ctx, addressID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, er.New(er.NotFound, "address not found")
	}
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		return nil, er.New(er.NotFound, "address not found")
	}
	return address, nil
}

func applyAddressUpdate(a *model.Address, req UpdateAddressRequest) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&a.FirstName, req.FirstName)
	set(&a.LastName, req.LastName)
	set(&a.Address, req.Address)
	set(&a.City, req.City)
	set(&a.ZipCode, req.ZipCode)
	set(&a.Country, req.Country)
	set(&a.Phone, req.Phone)
	if a.Country == "" {
		a.Country = constants.DefaultCountry
	}
}

func validateAddress(a *model.Address) error {
	required := []string{a.FirstName, a.LastName, a.Address, a.City, a.ZipCode, a.Phone}
	for _, f := range required {
		if f == "" {
			return er.New(er.Validation, "firstName, lastName, address, city, zipCode and phone are required")
		}
	}
	return nil
}
