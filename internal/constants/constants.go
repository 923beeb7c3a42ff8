package constants

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// for api auth
type ContextKey string

const (
	AuthorizationHeaderKey  ContextKey = "authorization"
	AuthorizationTypeBearer ContextKey = "bearer"
	AuthorizationPayloadKey ContextKey = "authorization_payload"
)

type RequestID string

const (
	RequestIDKey    RequestID = "request_id"
	RequestIDHeader           = "X-Request-Id"
)

const DefaultAccessTokenDuration = 24 * time.Hour

type ENV string

const (
	Debug ENV = "debug"
	Dev   ENV = "development"
	Prod  ENV = "production"
)

// 運費政策
var (
	FreeShippingThreshold = decimal.NewFromInt(100)
	FlatShippingFee       = decimal.RequireFromString("4.90")
)

// orders.total 為 decimal(10,2)
var MaxOrderTotal = decimal.RequireFromString("99999999.99")

// 結帳僅接受法國電話 +33 後接 9 碼, 比對前先移除空白
var PhonePattern = regexp.MustCompile(`^\+33[1-9]\d{8}$`)

const DefaultCountry = "France"

// catalog 保留的 pseudo category
const (
	CategoryAll = "all"
	CategoryNew = "new"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// 沒有金流, 新訂單直接確認
const NewOrderStatus = OrderStatusConfirmed

const BcryptCost = 12

// bcrypt 只接受 72 bytes 以內的密碼
const MaxPasswordBytes = 72

const (
	OrderPlacedEventType = "order.placed"
	EventTypeHeader      = "event_type"
)
