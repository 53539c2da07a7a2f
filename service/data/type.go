package data

import "github.com/khaledhikmat/aqs-go/model"

type IService interface {
	RetrieveAnalyses() ([]model.AnalysisResult, error)
	RetrieveAnalysisByID(id string) (model.AnalysisResult, error)
	NewAnalysis(result model.AnalysisResult) error

	NewError(err interface{}) error
	NewAnalyzerStats(stats model.AnalyzerStats) error
	NewLoaderStats(stats model.LoaderStats) error
}
