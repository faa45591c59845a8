package catalog

import (
    "context"
    "fmt"
    "os"

    "github.com/iliyamo/cinema-seat-picker/internal/model"
)

// FileSource reads the screening from a JSON document on disk.
type FileSource struct {
    Path string
}

func (f FileSource) Load(_ context.Context) (*model.Screening, error) {
    data, err := os.ReadFile(f.Path)
    if err != nil {
        return nil, fmt.Errorf("read %s: %w", f.Path, err)
    }
    return model.ParseScreening(data)
}
