package source

import (
	"os"

	"github.com/dbsmedya/goreport/internal/dataset"
)

func loadCSV(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return dataset.ReadCSV(f)
}
