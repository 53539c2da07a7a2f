package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/khaledhikmat/aqs-go/service/config"
)

// filesService keeps stored files in a local folder. It stands in for a
// cloud bucket in single-node deployments.
type filesService struct {
	CfgSvc config.IService
}

func NewFiles(cfgsvc config.IService) IService {
	return &filesService{
		CfgSvc: cfgsvc,
	}
}

func (svc *filesService) StoreFile(fileName string) (string, error) {
	folder := svc.CfgSvc.GetStorageFolder()
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", err
	}

	src, err := os.Open(fileName)
	if err != nil {
		return "", err
	}
	defer src.Close()

	target := filepath.Join(folder, filepath.Base(fileName))
	dst, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("error copying %s to store: %w", fileName, err)
	}

	return target, nil
}
