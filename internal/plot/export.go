package plot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MakeTransparent clears the paper and plot backgrounds of the layout and of
// the embedded template, so the chart blends into any host page.
func MakeTransparent(fig *Figure) {
	fig.Layout.PaperBgColor = Transparent
	fig.Layout.PlotBgColor = Transparent
	if fig.Layout.Template != nil && fig.Layout.Template.Layout != nil {
		fig.Layout.Template.Layout.PaperBgColor = Transparent
		fig.Layout.Template.Layout.PlotBgColor = Transparent
	}
}

// SaveJSON makes fig transparent and writes it to destination, creating the
// parent directory when needed.
func SaveJSON(fig *Figure, destination string) error {
	MakeTransparent(fig)

	data, err := json.MarshalIndent(fig, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal figure: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}
	if err := os.WriteFile(destination, data, 0o644); err != nil {
		return fmt.Errorf("write figure %s: %w", destination, err)
	}
	return nil
}

// LoadJSON reads a figure written by SaveJSON.
func LoadJSON(path string) (*Figure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fig := &Figure{}
	if err := json.Unmarshal(data, fig); err != nil {
		return nil, fmt.Errorf("unmarshal figure %s: %w", path, err)
	}
	return fig, nil
}
