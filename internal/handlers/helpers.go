package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/services"
)

const defaultBodyLimit = 16 * 1024

var (
	errEmptyBody    = errors.New("request body is required")
	errBodyTooLarge = errors.New("request body exceeds allowed size")
)

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, errEmptyBody
	}
	if limit <= 0 {
		limit = defaultBodyLimit
	}
	reader := io.LimitReader(r.Body, limit+1)
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errEmptyBody
	}
	if int64(len(data)) > limit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func decodeJSONBody(r *http.Request, limit int64, target any) error {
	data, err := readLimitedBody(r, limit)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.New("invalid JSON payload")
	}
	return nil
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

type stockPayload struct {
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
}

type productPayload struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Price       string        `json:"price"`
	PriceCents  int64         `json:"price_cents"`
	Category    string        `json:"category"`
	Anime       string        `json:"anime"`
	Line        string        `json:"line"`
	Description string        `json:"description,omitempty"`
	Rarity      string        `json:"rarity,omitempty"`
	CollabType  string        `json:"collab_type,omitempty"`
	Stock       *stockPayload `json:"stock,omitempty"`
}

func buildProductPayload(product domain.Product) productPayload {
	payload := productPayload{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		PriceCents:  product.PriceCents,
		Category:    string(product.Category),
		Anime:       product.Anime,
		Line:        string(product.Line),
		Description: product.Description,
		Rarity:      product.Rarity,
		CollabType:  product.CollabType,
	}
	if product.Stock != nil {
		payload.Stock = &stockPayload{Remaining: product.Stock.Remaining, Total: product.Stock.Total}
	}
	return payload
}

func buildProductListPayload(products []domain.Product) []productPayload {
	out := make([]productPayload, 0, len(products))
	for _, product := range products {
		out = append(out, buildProductPayload(product))
	}
	return out
}

type cartItemPayload struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price_cents"`
	AddedAt     string `json:"added_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type cartTotalsPayload struct {
	ItemCount     int    `json:"item_count"`
	Subtotal      int64  `json:"subtotal_cents"`
	SubtotalLabel string `json:"subtotal"`
}

type cartPayload struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Currency  string            `json:"currency"`
	Items     []cartItemPayload `json:"items"`
	Totals    cartTotalsPayload `json:"totals"`
	UpdatedAt string            `json:"updated_at,omitempty"`
}

func buildCartPayload(view services.CartView) cartPayload {
	items := make([]cartItemPayload, 0, len(view.Cart.Items))
	for _, item := range view.Cart.Items {
		payload := cartItemPayload{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			AddedAt:     formatTime(item.AddedAt),
		}
		if item.UpdatedAt != nil {
			payload.UpdatedAt = formatTime(*item.UpdatedAt)
		}
		items = append(items, payload)
	}

	return cartPayload{
		ID:       view.Cart.ID,
		UserID:   view.Cart.UserID,
		Currency: view.Cart.Currency,
		Items:    items,
		Totals: cartTotalsPayload{
			ItemCount:     view.Totals.ItemCount,
			Subtotal:      view.Totals.Subtotal,
			SubtotalLabel: view.Totals.SubtotalLabel,
		},
		UpdatedAt: formatTime(view.Cart.UpdatedAt),
	}
}

type wishlistEntryPayload struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	AddedAt   string `json:"added_at,omitempty"`
}

func buildWishlistPayload(entries []domain.WishlistEntry) []wishlistEntryPayload {
	out := make([]wishlistEntryPayload, 0, len(entries))
	for _, entry := range entries {
		out = append(out, wishlistEntryPayload{
			ID:        entry.ID,
			ProductID: entry.ProductID,
			AddedAt:   formatTime(entry.AddedAt),
		})
	}
	return out
}

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func buildUserPayload(user domain.User) userPayload {
	return userPayload{ID: user.ID, Name: user.Name, Email: user.Email}
}

type orderLinePayload struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price_cents"`
	Total       int64  `json:"total_cents"`
}

type orderPayload struct {
	ID          string             `json:"id"`
	OrderNumber string             `json:"order_number"`
	Currency    string             `json:"currency"`
	Items       []orderLinePayload `json:"items"`
	Subtotal    int64              `json:"subtotal_cents"`
	Shipping    int64              `json:"shipping_cents"`
	Total       int64              `json:"total_cents"`
	TotalLabel  string             `json:"total"`
	Provider    string             `json:"payment_provider"`
	ChargeRef   string             `json:"payment_reference,omitempty"`
	Status      string             `json:"status"`
	PlacedAt    string             `json:"placed_at"`
}

func buildOrderPayload(order domain.Order) orderPayload {
	items := make([]orderLinePayload, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderLinePayload{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	return orderPayload{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Currency:    order.Currency,
		Items:       items,
		Subtotal:    order.Totals.Subtotal,
		Shipping:    order.Totals.Shipping,
		Total:       order.Totals.Total,
		TotalLabel:  domain.FormatPrice(order.Totals.Total),
		Provider:    order.Payment.Provider,
		ChargeRef:   order.Payment.ChargeRef,
		Status:      string(order.Status),
		PlacedAt:    formatTime(order.PlacedAt),
	}
}

func buildOrderListPayload(orders []domain.Order) []orderPayload {
	out := make([]orderPayload, 0, len(orders))
	for _, order := range orders {
		out = append(out, buildOrderPayload(order))
	}
	return out
}

type viewOverlaysPayload struct {
	Search bool `json:"search"`
	Auth   bool `json:"auth"`
	Cart   bool `json:"cart"`
}

type viewStatePayload struct {
	SessionID         string              `json:"session_id"`
	Page              string              `json:"page"`
	SelectedProductID string              `json:"selected_product_id,omitempty"`
	OrderID           string              `json:"order_id,omitempty"`
	Overlays          viewOverlaysPayload `json:"overlays"`
	UpdatedAt         string              `json:"updated_at,omitempty"`
}

func buildViewStatePayload(state domain.ViewState) viewStatePayload {
	return viewStatePayload{
		SessionID:         state.SessionID,
		Page:              string(state.Page),
		SelectedProductID: state.SelectedProductID,
		OrderID:           state.OrderID,
		Overlays: viewOverlaysPayload{
			Search: state.SearchOpen,
			Auth:   state.AuthOpen,
			Cart:   state.CartOpen,
		},
		UpdatedAt: formatTime(state.UpdatedAt),
	}
}
