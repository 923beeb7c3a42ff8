package model

import (
	"time"

	"github.com/google/uuid"
)

type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// 空 id 時產生 uuid, 給各 model 的 BeforeCreate hook 使用
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
