package data

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/khaledhikmat/aqs-go/model"
	"github.com/khaledhikmat/aqs-go/service/config"
)

type filesDBService struct {
	CfgSvc config.IService
}

func NewFilesDB(cfgsvc config.IService) IService {
	return &filesDBService{
		CfgSvc: cfgsvc,
	}
}

func (svc *filesDBService) RetrieveAnalyses() ([]model.AnalysisResult, error) {
	return retrieveEntities[model.AnalysisResult]("analyses", svc.CfgSvc)
}

func (svc *filesDBService) RetrieveAnalysisByID(id string) (model.AnalysisResult, error) {
	analyses, err := svc.RetrieveAnalyses()
	if err != nil {
		return model.AnalysisResult{}, err
	}

	for _, analysis := range analyses {
		if analysis.ID == id {
			return analysis, nil
		}
	}

	return model.AnalysisResult{}, nil
}

func (svc *filesDBService) NewAnalysis(result model.AnalysisResult) error {
	if result.Timestamp == 0 {
		result.Timestamp = time.Now().Unix()
	}
	return newEntity(result, "analyses", svc.CfgSvc)
}

func (svc *filesDBService) NewError(err interface{}) error {
	// Determine if the error is custom
	var customErr model.CustomError
	if custom, ok := err.(model.CustomError); ok {
		customErr = custom
	} else {
		customErr.Processor = "N/A"
		customErr.Inner = err.(error)
		customErr.Message = err.(error).Error()
		customErr.StackTrace = "N/A"
		customErr.Misc = nil
	}

	// Create an error object to persist
	errorData := struct {
		Timestamp  int64                  `json:"timestamp"`
		Processor  string                 `json:"processor"`
		Inner      string                 `json:"innerError"`
		Message    string                 `json:"message"`
		StackTrace string                 `json:"stackTrace"`
		Misc       map[string]interface{} `json:"misc"`
	}{
		Timestamp:  time.Now().Unix(),
		Processor:  customErr.Processor,
		Inner:      customErr.Inner.Error(),
		Message:    customErr.Message,
		StackTrace: customErr.StackTrace,
		Misc:       customErr.Misc,
	}
	return newEntity(errorData, "errors", svc.CfgSvc)
}

func (svc *filesDBService) NewAnalyzerStats(stats model.AnalyzerStats) error {
	stats.Timestamp = time.Now().Unix()
	return newEntity(stats, "analyzer-stats", svc.CfgSvc)
}

func (svc *filesDBService) NewLoaderStats(stats model.LoaderStats) error {
	stats.Timestamp = time.Now().Unix()
	return newEntity(stats, "loader-stats", svc.CfgSvc)
}

func newEntity[T any](entity T, filename string, cfgsvc config.IService) error {
	entities, err := retrieveEntities[T](filename, cfgsvc)
	if err != nil {
		return err
	}

	entities = append(entities, entity)

	data, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return err
	}

	// Write the JSON data to the file (with truncation)
	output := fmt.Sprintf("%s/%s.json", cfgsvc.GetInputFolder(), filename)
	return os.WriteFile(output, data, 0644)
}

func retrieveEntities[T any](filename string, cfgsvc config.IService) ([]T, error) {
	var entities []T

	data, err := os.ReadFile(fmt.Sprintf("%s/%s.json", cfgsvc.GetInputFolder(), filename))
	if err != nil {
		// WARNING: File not found, return empty slice
		return entities, nil
	}

	entities = []T{}
	err = json.Unmarshal(data, &entities)
	if err != nil {
		return nil, err
	}

	return entities, nil
}
