// README: Tariff service; loads, persists and derives the four fare schedules.
package tariff

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"go.uber.org/zap"
)

var ErrPersistence = errors.New("could not persist tariff settings")

// settingsDoc mirrors the on-disk settings document. Sections other than
// "tariffs" are preserved across rewrites.
type settingsDoc map[string]json.RawMessage

type storedTariffs struct {
	Small Rate `json:"small"`
	Large Rate `json:"large"`
}

// Service owns the current standard rates. Discounted schedules are
// recomputed on every read and never written back.
type Service struct {
	path string
	log  *zap.Logger

	mu    sync.RWMutex
	small Rate
	large Rate
}

// NewService loads the settings document at path. A missing or unreadable
// file is not an error; rates fall back to zero until an operator saves.
func NewService(path string, log *zap.Logger) *Service {
	s := &Service{path: path, log: log}
	if err := s.load(); err != nil {
		log.Warn("tariff settings not loaded, starting with zero rates",
			zap.String("path", path), zap.Error(err))
	}
	return s
}

func (s *Service) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var doc settingsDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	var t storedTariffs
	if section, ok := doc["tariffs"]; ok {
		if err := json.Unmarshal(section, &t); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.small, s.large = t.Small, t.Large
	s.mu.Unlock()
	return nil
}

// Standard returns the current standard rates for both vehicle sizes.
func (s *Service) Standard() (small, large Rate) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.small, s.large
}

// Schedules returns all four schedules in presentation order, with the
// discount variants derived from the current standard rates.
func (s *Service) Schedules() []Schedule {
	small, large := s.Standard()
	return []Schedule{
		{Class: SmallStandard, Label: SmallStandard.Label(), Rate: small},
		{Class: LargeStandard, Label: LargeStandard.Label(), Rate: large},
		{Class: SmallDiscount, Label: SmallDiscount.Label(), Rate: DeriveSmallDiscount(small)},
		{Class: LargeDiscount, Label: LargeDiscount.Label(), Rate: DeriveLargeDiscount(large)},
	}
}

// Rate returns the schedule for one class.
func (s *Service) Rate(c Class) Rate {
	small, large := s.Standard()
	switch c {
	case SmallStandard:
		return small
	case LargeStandard:
		return large
	case SmallDiscount:
		return DeriveSmallDiscount(small)
	case LargeDiscount:
		return DeriveLargeDiscount(large)
	}
	return Rate{}
}

// Update replaces the standard rates and persists the settings document
// atomically (write to temp file, then rename). On persistence failure the
// in-memory rates are left unchanged so prior state stays authoritative.
func (s *Service) Update(small, large Rate) error {
	doc := s.readDoc()
	section, err := json.Marshal(storedTariffs{Small: small, Large: large})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	doc["tariffs"] = section

	if err := s.writeDoc(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	s.small, s.large = small, large
	s.mu.Unlock()
	return nil
}

// readDoc loads the existing document permissively so unrelated sections
// survive a tariff update.
func (s *Service) readDoc() settingsDoc {
	doc := settingsDoc{}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return doc
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Warn("settings document unreadable, rewriting from scratch",
			zap.String("path", s.path), zap.Error(err))
		return settingsDoc{}
	}
	return doc
}

func (s *Service) writeDoc(doc settingsDoc) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
