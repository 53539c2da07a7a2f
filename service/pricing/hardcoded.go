package pricing

import (
	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/service/config"
)

// For now, we are using a hardcoded price table.
// In the future, this should be read from a market data feed.
var pricesPerKg = map[string]float64{
	"Tilapia":  2.10,
	"Catfish":  1.80,
	"Milkfish": 2.40,
	"Carp":     1.60,
	"Pomfret":  6.50,
	"Snapper":  7.20,
	"Mackerel": 3.10,
	"Tuna":     8.90,
	"Gourami":  2.70,
	"Shrimp":   9.40,
	"Crab":     11.20,
}

type hardcodedService struct {
	CfgSvc config.IService
}

func NewHardCoded(cfgsvc config.IService) IService {
	return &hardcodedService{
		CfgSvc: cfgsvc,
	}
}

func (svc *hardcodedService) RetrievePrice(species string) (model.SpeciesPrice, error) {
	price, ok := pricesPerKg[species]
	if !ok {
		return model.SpeciesPrice{Species: species, Currency: "USD"}, nil
	}

	return model.SpeciesPrice{
		Species:    species,
		PricePerKg: price,
		Currency:   "USD",
	}, nil
}
