package delivery

import (
	"context"
	"fmt"
	"math/rand"
)

// DemoClient serves synthetic data shaped identically to the live API.
// Used when no provider credentials are configured.
type DemoClient struct{}

func NewDemoClient() *DemoClient { return &DemoClient{} }

var demoCities = map[string]City{
	"Moscow":           {Code: 44, City: "Moscow", Region: "Moscow", Country: "Russia"},
	"Saint Petersburg": {Code: 137, City: "Saint Petersburg", Region: "Saint Petersburg", Country: "Russia"},
	"Novosibirsk":      {Code: 270, City: "Novosibirsk", Region: "Novosibirsk Oblast", Country: "Russia"},
	"Yekaterinburg":    {Code: 250, City: "Yekaterinburg", Region: "Sverdlovsk Oblast", Country: "Russia"},
	"Kazan":            {Code: 344, City: "Kazan", Region: "Republic of Tatarstan", Country: "Russia"},
}

func (c *DemoClient) Cities(_ context.Context, query string) ([]City, error) {
	if city, ok := demoCities[query]; ok {
		return []City{city}, nil
	}
	// Unknown queries resolve to the default origin city.
	return []City{demoCities["Moscow"]}, nil
}

func (c *DemoClient) Quote(_ context.Context, req QuoteRequest) Quote {
	variation := float64(rand.Intn(100))
	tariffs := []Tariff{
		{
			TariffCode:        TariffDoorToDoor,
			TariffName:        "Parcel door-door",
			TariffDescription: "Courier delivery to the recipient's door",
			DeliveryMode:      1,
			DeliveryCost:      450 + variation,
			DeliveryDays:      "2-4",
			Currency:          "RUB",
		},
		{
			TariffCode:        TariffWarehouseToWarehouse,
			TariffName:        "Parcel warehouse-warehouse",
			TariffDescription: "Pickup from a CDEK point",
			DeliveryMode:      2,
			DeliveryCost:      270 + variation,
			DeliveryDays:      "2-3",
			Currency:          "RUB",
		},
		{
			TariffCode:        TariffDoorToWarehouse,
			TariffName:        "Parcel door-warehouse",
			TariffDescription: "Courier pickup, recipient collects at a point",
			DeliveryMode:      3,
			DeliveryCost:      350 + variation,
			DeliveryDays:      "2-4",
			Currency:          "RUB",
		},
	}
	sel := pickTariff(tariffs, req.DeliveryType)
	return Quote{
		Success:           true,
		DeliveryCost:      sel.DeliveryCost,
		DeliveryDays:      sel.DeliveryDays,
		TariffCode:        sel.TariffCode,
		TariffName:        sel.TariffName + " (DEMO)",
		TariffDescription: sel.TariffDescription,
		Currency:          "RUB",
		CityCode:          999,
		AllTariffs:        tariffs,
		DemoMode:          true,
		Note:              "Demo data. Configure CDEK credentials for live quotes.",
	}
}

func (c *DemoClient) Points(_ context.Context, city string) ([]Point, error) {
	return []Point{
		{
			Code:     "MSK001",
			Name:     "CDEK on Tverskaya",
			Address:  fmt.Sprintf("%s, Tverskaya st. 1", city),
			City:     city,
			WorkTime: "Mon-Fri 9:00-20:00, Sat-Sun 10:00-18:00",
			Type:     "Pickup point",
		},
		{
			Code:     "MSK002",
			Name:     "CDEK parcel locker",
			Address:  fmt.Sprintf("%s, Lenina st. 10", city),
			City:     city,
			WorkTime: "24/7",
			Type:     "Parcel locker",
		},
		{
			Code:     "MSK003",
			Name:     "CDEK in Gorod mall",
			Address:  fmt.Sprintf("%s, Mira ave. 150", city),
			City:     city,
			WorkTime: "Mon-Sun 10:00-22:00",
			Type:     "Pickup point",
		},
	}, nil
}

func (c *DemoClient) CreateOrder(_ context.Context, req OrderRequest) (OrderResult, error) {
	number := fmt.Sprintf("DEMO-%d", req.OrderID)
	return OrderResult{
		UUID:           fmt.Sprintf("demo-%d", req.OrderID),
		TrackingNumber: number,
		TrackingURL:    trackingURL(number),
	}, nil
}

func (c *DemoClient) Track(_ context.Context, uuid string) (TrackingStatus, error) {
	return TrackingStatus{
		Status:         "IN_TRANSIT",
		Location:       "Moscow",
		TrackingNumber: "DEMO-" + uuid,
	}, nil
}
