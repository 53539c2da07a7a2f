package pricing

import "github.com/khaledhikmat/aqs-go/model"

type IService interface {
	RetrievePrice(species string) (model.SpeciesPrice, error)
}
