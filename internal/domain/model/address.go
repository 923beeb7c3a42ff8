package model

import "gorm.io/gorm"

// Address 每個使用者有地址時, 恰好一筆 IsDefault = true
type Address struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string `gorm:"type:varchar(36);not null;index" json:"userId"`
	FirstName string `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName  string `gorm:"type:varchar(100);not null" json:"lastName"`
	Address   string `gorm:"type:varchar(255);not null" json:"address"`
	City      string `gorm:"type:varchar(100);not null" json:"city"`
	ZipCode   string `gorm:"type:varchar(20);not null" json:"zipCode"`
	Country   string `gorm:"type:varchar(100);not null" json:"country"`
	Phone     string `gorm:"type:varchar(30);not null" json:"phone"`
	IsDefault bool   `gorm:"not null;default:false" json:"isDefault"`
	BaseModel
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
