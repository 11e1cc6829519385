package trainer

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

const uiStateFileName = "ui_state.json"

type uiModelPersistenceData struct {
	LastMode string `json:"last_mode"`
}

// uiModelPersistence remembers which page was open when the app closed
type uiModelPersistence struct {
	filePath string
	data     uiModelPersistenceData
	logger   *log.Logger
}

func newUIModelPersistence(dataDir string, logger *log.Logger) *uiModelPersistence {
	p := &uiModelPersistence{
		filePath: filepath.Join(dataDir, uiStateFileName),
		logger:   logger,
	}
	p.load()
	return p
}

func (p *uiModelPersistence) getLastMode() UIMode {
	for _, info := range AllUIModes {
		if info.DisplayName == p.data.LastMode {
			return info.Mode
		}
	}
	return UIModeWorkout
}

func (p *uiModelPersistence) setLastMode(mode UIMode) {
	info, ok := GetUIModeInfo(mode)
	if !ok {
		return
	}
	p.data.LastMode = info.DisplayName
	p.save()
}

func (p *uiModelPersistence) load() {
	p.data = uiModelPersistenceData{}
	raw, err := os.ReadFile(p.filePath)
	if err != nil {
		p.logger.Printf("UIModelPersistence: load %s (no existing file)", p.filePath)
		return
	}
	if err := json.Unmarshal(raw, &p.data); err != nil {
		p.logger.Printf("UIModelPersistence: load %s failed to parse: %v", p.filePath, err)
		return
	}
	p.logger.Printf("UIModelPersistence: load %s -> mode %q", p.filePath, p.data.LastMode)
}

func (p *uiModelPersistence) save() {
	if err := os.MkdirAll(filepath.Dir(p.filePath), 0755); err != nil {
		p.logger.Printf("UIModelPersistence: save mkdir failed: %v", err)
		return
	}
	raw, err := json.MarshalIndent(p.data, "", "  ")
	if err != nil {
		p.logger.Printf("UIModelPersistence: save marshal failed: %v", err)
		return
	}
	if err := os.WriteFile(p.filePath, raw, 0644); err != nil {
		p.logger.Printf("UIModelPersistence: save %s failed: %v", p.filePath, err)
		return
	}
	p.logger.Printf("UIModelPersistence: save %s -> mode %q", p.filePath, p.data.LastMode)
}
