// Package cart holds the session scoped cart state and its pure mutations.
package cart

import (
	"github.com/shopspring/decimal"
)

type Item struct {
	ProductID string          `json:"productId"`
	Size      string          `json:"size"`
	Color     string          `json:"color,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Slug      string          `json:"slug"`
}

// Key 購物車內同商品同尺寸只會有一筆
type Key struct {
	ProductID string
	Size      string
}

func (i Item) Key() Key {
	return Key{ProductID: i.ProductID, Size: i.Size}
}

// Cart 是值型別, 所有操作回傳新的 Cart, 不修改原本的 Items
type Cart struct {
	Items []Item `json:"items"`
}

func New(items ...Item) Cart {
	c := Cart{}
	for _, it := range items {
		c = c.Add(it, it.Quantity)
	}
	return c
}

func (c Cart) index(k Key) int {
	for i, it := range c.Items {
		if it.Key() == k {
			return i
		}
	}
	return -1
}

func (c Cart) clone() []Item {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return items
}

// Add 加入商品, 已存在的 key 累加數量, 不會重複一筆. quantity < 1 視為 1
func (c Cart) Add(item Item, quantity int) Cart {
	if quantity < 1 {
		quantity = 1
	}
	items := c.clone()
	if i := c.index(item.Key()); i >= 0 {
		items[i].Quantity += quantity
		return Cart{Items: items}
	}
	item.Quantity = quantity
	return Cart{Items: append(items, item)}
}

func (c Cart) Remove(k Key) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if it.Key() != k {
			items = append(items, it)
		}
	}
	return Cart{Items: items}
}

// UpdateQuantity 數量 <= 0 等同移除, key 不存在時不變
func (c Cart) UpdateQuantity(k Key, quantity int) Cart {
	if quantity <= 0 {
		return c.Remove(k)
	}
	i := c.index(k)
	if i < 0 {
		return c
	}
	items := c.clone()
	items[i].Quantity = quantity
	return Cart{Items: items}
}

func (c Cart) Clear() Cart {
	return Cart{Items: []Item{}}
}

func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
