// Package model содержит доменные сущности сервиса Ready-to-Eat.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role описывает тип клиентской сессии.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleGuest:
		return true
	}
	return false
}

// CatalogItem описывает позицию меню, полученную от удалённого API.
type CatalogItem struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	ImagePath      string          `json:"image_path,omitempty"`
	HasExtraOption bool            `json:"has_extra_option"`
	IsAvailable    bool            `json:"is_available"`
}

// NewMenuItem содержит данные новой позиции меню.
type NewMenuItem struct {
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	ImagePath      string          `json:"image_path"`
	HasExtraOption bool            `json:"has_extra_option"`
}

// Variant описывает вариант строки корзины.
type Variant int

const (
	VariantStandard Variant = iota
	VariantExtra
	VariantReward
)

func (v Variant) String() string {
	switch v {
	case VariantExtra:
		return "extra"
	case VariantReward:
		return "reward"
	default:
		return "standard"
	}
}

// LineKey описывает структурированный ключ строки корзины.
type LineKey struct {
	ItemID  int64
	Variant Variant
}

// CartLine описывает одну строку корзины: обычную позицию или вознаграждение.
type CartLine struct {
	ItemID          int64  `json:"item_id"`
	HasExtra        bool   `json:"has_extra,omitempty"`
	Quantity        int    `json:"quantity"`
	Name            string `json:"name,omitempty"`
	IsReward        bool   `json:"is_reward,omitempty"`
	RewardID        string `json:"reward_id,omitempty"`
	RewardTierID    string `json:"reward_tier_id,omitempty"`
	RewardPointCost int64  `json:"reward_point_cost,omitempty"`
}

// Key возвращает структурированный ключ строки.
func (l CartLine) Key() LineKey {
	switch {
	case l.IsReward:
		return LineKey{ItemID: l.ItemID, Variant: VariantReward}
	case l.HasExtra:
		return LineKey{ItemID: l.ItemID, Variant: VariantExtra}
	default:
		return LineKey{ItemID: l.ItemID, Variant: VariantStandard}
	}
}

// ComboPart описывает составную часть комбо-вознаграждения.
type ComboPart struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// RewardItem описывает позицию, доступную для обмена на баллы в рамках уровня.
type RewardItem struct {
	ID         int64       `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Quantity   int         `json:"quantity" yaml:"quantity"`
	RewardID   string      `json:"reward_id" yaml:"reward_id"`
	IsCombo    bool        `json:"is_combo,omitempty" yaml:"is_combo"`
	ComboItems []ComboPart `json:"combo_items,omitempty" yaml:"combo_items"`
}

// RewardTier описывает уровень программы лояльности с порогом в баллах.
type RewardTier struct {
	ID             string       `json:"id" yaml:"id"`
	Title          string       `json:"title" yaml:"title"`
	PointThreshold int64        `json:"point_threshold" yaml:"point_threshold"`
	Items          []RewardItem `json:"items" yaml:"items"`
}

// PricedLine содержит строку корзины с рассчитанной стоимостью.
type PricedLine struct {
	Key      string          `json:"key"`
	ItemID   int64           `json:"item_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	HasExtra bool            `json:"has_extra,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
	IsReward bool            `json:"is_reward,omitempty"`
	RewardID string          `json:"reward_id,omitempty"`
}

// PricingSnapshot содержит расчёт корзины на момент вызова.
type PricingSnapshot struct {
	Lines        []PricedLine    `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	PointsEarned int64           `json:"points_earned"`
}

// Eligibility содержит результат проверки возможности оформления заказа.
type Eligibility struct {
	EstimatedMinutes int    `json:"estimated_minutes"`
	CheckoutAllowed  bool   `json:"checkout_allowed"`
	Message          string `json:"message,omitempty"`
}

// PaymentMethod описывает способ оплаты.
type PaymentMethod string

const (
	PaymentPaytm PaymentMethod = "paytm"
	PaymentGPay  PaymentMethod = "gpay"
	PaymentCard  PaymentMethod = "card"
	PaymentCash  PaymentMethod = "cash"
)

// PaymentDetails содержит реквизиты выбранного способа оплаты.
type PaymentDetails struct {
	PaytmNumber string `json:"paytmNumber"`
	GPayUPI     string `json:"gpayUpi"`
	CardNumber  string `json:"cardNumber"`
	CardName    string `json:"cardName"`
	CardExpiry  string `json:"cardExpiry"`
	CardCVV     string `json:"cardCvv"`
}

// OrderItem описывает позицию в запросе на создание заказа.
type OrderItem struct {
	FoodID   int64 `json:"foodId"`
	Quantity int   `json:"quantity"`
	HasExtra bool  `json:"hasExtra"`
}

// OrderRequest описывает тело запроса POST /api/orders удалённого API.
type OrderRequest struct {
	Items          []OrderItem     `json:"items"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	PointsEarned   int64           `json:"points_earned"`
	EstimatedTime  int             `json:"estimated_time"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	PaymentDetails PaymentDetails  `json:"payment_details"`
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusCurrent   OrderStatus = "current"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusPast используется только для отображения.
	OrderStatusPast OrderStatus = "past"
)

// OrderLine описывает позицию сохранённого заказа.
type OrderLine struct {
	FoodID    int64           `json:"food_id"`
	FoodName  string          `json:"food_name"`
	FoodPrice decimal.Decimal `json:"food_price"`
	Quantity  int             `json:"quantity"`
	HasExtra  bool            `json:"has_extra"`
	ItemTotal decimal.Decimal `json:"item_total"`
}

// Order описывает заказ, полученный от удалённого API.
type Order struct {
	ID            int64           `json:"id"`
	OrderNumber   string          `json:"order_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PointsEarned  int64           `json:"points_earned"`
	EstimatedTime int             `json:"estimated_time"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	OrderTime     time.Time       `json:"order_time"`
	ReadyTime     *time.Time      `json:"ready_time,omitempty"`
	CompletedTime *time.Time      `json:"completed_time,omitempty"`
	Items         []OrderLine     `json:"order_items"`
}

// Session хранит состояние клиентской сессии: роль, корзину и кэш баллов.
type Session struct {
	ID              string
	Role            Role
	UpstreamSession string
	Points          int64
	Cart            []CartLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
