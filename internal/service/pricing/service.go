package pricing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/reimondavendano/betapresko-sub001/internal/model"
	"github.com/reimondavendano/betapresko-sub001/internal/repository"
	"github.com/reimondavendano/betapresko-sub001/pkg/logger"
)

// Horsepower at or below this threshold gets the base price; above it the
// surcharge applies.
const surchargeThreshold = 1.5

// SettingsCategory is the custom_settings category holding pricing rates.
const SettingsCategory = "rates"

// Discount type labels as shown on the appointment card.
const (
	DiscountNone     = "None"
	DiscountStandard = "Standard"
	DiscountFamily   = "Family/Friends"
)

type DiscountResult struct {
	Value float64 `json:"value"` // percent
	Type  string  `json:"type"`
}

// Quote is a fully computed price for one appointment's device set.
type Quote struct {
	Subtotal float64        `json:"subtotal"`
	Discount DiscountResult `json:"discount"`
	Total    float64        `json:"total"`
}

type Service struct {
	rates   repository.RateSettingsRepository
	clients repository.ClientRepository
	devices repository.DeviceRepository
	logger  *logger.Logger
}

func NewService(rates repository.RateSettingsRepository, clients repository.ClientRepository, devices repository.DeviceRepository, logger *logger.Logger) *Service {
	return &Service{
		rates:   rates,
		clients: clients,
		devices: devices,
		logger:  logger,
	}
}

// CurrentRates fetches and parses the latest rate settings. Rates are never
// cached: price attribution always uses current values.
func (s *Service) CurrentRates(ctx context.Context) (*model.RateSettings, error) {
	raw, err := s.rates.GetAll(ctx, SettingsCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rate settings: %w", err)
	}
	return model.RateSettingsFromMap(raw)
}

// UnitPrice computes one device's service price. Repair jobs are flat-rate
// regardless of unit attributes. An unknown AC type prices at 0; callers
// must treat that as an unpriced line, not an error.
func (s *Service) UnitPrice(device *model.Device, rates *model.RateSettings, serviceName string) float64 {
	if strings.Contains(strings.ToLower(serviceName), "repair") {
		return rates.RepairPrice
	}

	var base float64
	switch device.ACType {
	case model.ACTypeSplit:
		base = rates.SplitTypePrice
	case model.ACTypeWindow:
		base = rates.WindowTypePrice
	default:
		s.logger.ZL.Warn().
			Str("device_id", device.ID.String()).
			Str("ac_type_name", device.ACTypeName).
			Msg("device matches no priced AC type, pricing at 0")
		return 0
	}

	if horsepower(device) > surchargeThreshold {
		return base + rates.Surcharge
	}
	return base
}

// Discount picks the client's applicable rate. Discount-eligible clients get
// the larger of the family and standard rates.
func (s *Service) Discount(client *model.Client, rates *model.RateSettings) DiscountResult {
	if client.Discounted {
		if rates.FamilyDiscount >= rates.Discount {
			return DiscountResult{Value: rates.FamilyDiscount, Type: DiscountFamily}
		}
		return DiscountResult{Value: rates.Discount, Type: DiscountStandard}
	}
	if rates.Discount > 0 {
		return DiscountResult{Value: rates.Discount, Type: DiscountStandard}
	}
	return DiscountResult{Value: 0, Type: DiscountNone}
}

// Total applies the discount to a subtotal. No intermediate rounding;
// currency truncation happens at display time only.
func Total(subtotal float64, discount DiscountResult) float64 {
	return subtotal * (1 - discount.Value/100)
}

// QuoteDevices prices an already-loaded device set against given rates.
func (s *Service) QuoteDevices(client *model.Client, devices []*model.Device, rates *model.RateSettings, serviceName string) *Quote {
	var subtotal float64
	for _, device := range devices {
		subtotal += s.UnitPrice(device, rates, serviceName)
	}
	discount := s.Discount(client, rates)
	return &Quote{
		Subtotal: subtotal,
		Discount: discount,
		Total:    Total(subtotal, discount),
	}
}

// Quote fetches current state and prices a prospective booking.
func (s *Service) Quote(ctx context.Context, clientID uuid.UUID, deviceIDs []uuid.UUID, serviceName string) (*Quote, error) {
	rates, err := s.CurrentRates(ctx)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.Get(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	devices, err := s.devices.ListByIDs(ctx, deviceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load devices: %w", err)
	}

	return s.QuoteDevices(client, devices, rates, serviceName), nil
}

func horsepower(device *model.Device) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(device.Horsepower), 64)
	if err != nil {
		return 0
	}
	return v
}
