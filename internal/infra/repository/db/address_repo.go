package db

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

type AddressRepo struct {
	db *DbDao
}

func NewAddressRepo(db *DbDao) *AddressRepo {
	return &AddressRepo{db: db}
}

// ListAddressesByUser 預設地址在前, 其餘依建立時間新到舊
func (r *AddressRepo) ListAddressesByUser(ctx context.Context, userID string) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&addresses).Error
	return addresses, err
}

func (r *AddressRepo) GetAddressByID(ctx context.Context, id string) (*model.Address, error) {
	var address model.Address
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&address).Error; err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (r *AddressRepo) CountAddressesByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Address{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *AddressRepo) CreateAddress(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *AddressRepo) UpdateAddress(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

func (r *AddressRepo) DeleteAddress(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Address{}).Error
}

// ClearDefaultAddresses 將使用者除了 exceptID 以外的地址設為非預設
func (r *AddressRepo) ClearDefaultAddresses(ctx context.Context, userID, exceptID string) error {
	query := r.db.WithContext(ctx).Model(&model.Address{}).Where("user_id = ? AND is_default = ?", userID, true)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	return query.Update("is_default", false).Error
}

// GetLatestAddress 使用者最新建立的地址
func (r *AddressRepo) GetLatestAddress(ctx context.Context, userID string) (*model.Address, error) {
	var address model.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&address).Error
	if err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (r *AddressRepo) SetDefaultAddress(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Address{}).Where("id = ?", id).Update("is_default", true).Error
}
