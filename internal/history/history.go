// Package history persists evaluated tests in the key/value space, one
// record per test under a fixed prefix, and implements backup export and
// destructive restore of the whole archive.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/omrsheet/internal/database"
	"github.com/example/omrsheet/pkg/models"
)

// KeyPrefix namespaces archived tests in the key/value space
const KeyPrefix = "omrsheet_test_history_"

// ErrNoValidRecords is returned by ReplaceAll when the restore blob holds
// nothing importable; the existing archive is left untouched.
var ErrNoValidRecords = errors.New("backup contains no valid test records")

// Archive stores and enumerates evaluated tests
type Archive struct {
	store database.Store
}

// NewArchive creates an archive over the given store
func NewArchive(store database.Store) *Archive {
	return &Archive{store: store}
}

// Append writes an evaluated test under its own key
func (a *Archive) Append(test *models.EvaluatedTest) error {
	if test.ID == "" {
		return fmt.Errorf("evaluated test has no id")
	}
	data, err := json.Marshal(test)
	if err != nil {
		return fmt.Errorf("failed to serialize test %s: %v", test.ID, err)
	}
	return a.store.Set(KeyPrefix+test.ID, string(data))
}

// GetByID returns the archived test with the given id, or nil if absent or
// unreadable
func (a *Archive) GetByID(id string) (*models.EvaluatedTest, error) {
	raw, ok, err := a.store.Get(KeyPrefix + id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var test models.EvaluatedTest
	if err := json.Unmarshal([]byte(raw), &test); err != nil {
		return nil, fmt.Errorf("failed to parse test %s: %v", id, err)
	}
	return &test, nil
}

// ListAll enumerates every readable archived test, in no particular order.
// Corrupt records are skipped and counted rather than failing the listing.
func (a *Archive) ListAll() ([]models.EvaluatedTest, int, error) {
	keys, err := a.store.Keys()
	if err != nil {
		return nil, 0, err
	}

	var tests []models.EvaluatedTest
	skipped := 0
	for _, key := range keys {
		if !strings.HasPrefix(key, KeyPrefix) {
			continue
		}
		raw, ok, err := a.store.Get(key)
		if err != nil || !ok {
			skipped++
			continue
		}
		var test models.EvaluatedTest
		if err := json.Unmarshal([]byte(raw), &test); err != nil {
			skipped++
			continue
		}
		tests = append(tests, test)
	}
	return tests, skipped, nil
}

// ListByEvaluatedAt returns all readable tests sorted by evaluation time,
// oldest first
func (a *Archive) ListByEvaluatedAt() ([]models.EvaluatedTest, error) {
	tests, _, err := a.ListAll()
	if err != nil {
		return nil, err
	}
	sort.Slice(tests, func(i, j int) bool {
		return tests[i].EvaluatedAtTime().Before(tests[j].EvaluatedAtTime())
	})
	return tests, nil
}

// validRecord checks the shape a record must have to survive backup or
// restore: a non-empty id, a config, a question sequence and score details.
func validRecord(raw json.RawMessage) (*models.EvaluatedTest, bool) {
	var probe struct {
		ID           string          `json:"id"`
		Config       json.RawMessage `json:"config"`
		Questions    json.RawMessage `json:"questions"`
		ScoreDetails json.RawMessage `json:"scoreDetails"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}
	if probe.ID == "" || len(probe.Config) == 0 || string(probe.Config) == "null" {
		return nil, false
	}
	if len(probe.Questions) == 0 || string(probe.Questions) == "null" {
		return nil, false
	}
	if len(probe.ScoreDetails) == 0 || string(probe.ScoreDetails) == "null" {
		return nil, false
	}
	var test models.EvaluatedTest
	if err := json.Unmarshal(raw, &test); err != nil {
		return nil, false
	}
	return &test, true
}

// ExportAll serializes every shape-valid archived test into a pretty-printed
// JSON array, reporting how many records were skipped as malformed.
func (a *Archive) ExportAll() ([]byte, int, error) {
	sorted, skipped, err := a.ListAll()
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EvaluatedAtTime().Before(sorted[j].EvaluatedAtTime())
	})

	valid := make([]models.EvaluatedTest, 0, len(sorted))
	for i := range sorted {
		raw, err := json.Marshal(&sorted[i])
		if err != nil {
			skipped++
			continue
		}
		if _, ok := validRecord(raw); !ok {
			skipped++
			continue
		}
		valid = append(valid, sorted[i])
	}

	data, err := json.MarshalIndent(valid, "", "  ")
	if err != nil {
		return nil, skipped, fmt.Errorf("failed to serialize backup: %v", err)
	}
	return data, skipped, nil
}

// BackupFilename returns the conventional name for a backup written now
func BackupFilename(now time.Time) string {
	return fmt.Sprintf("omrsheet_history_backup_%s.json", now.Format("2006-01-02"))
}

// ReplaceAll restores the archive from a backup blob. The blob must be a
// JSON array of test-shaped records; records failing shape validation are
// skipped and counted. With zero valid records the call fails without
// touching the existing archive. Otherwise the existing archive is erased
// and the valid records written — the operation is destructive and the
// caller must confirm it with the user beforehand.
func (a *Archive) ReplaceAll(blob []byte) (imported, skipped int, err error) {
	var rawRecords []json.RawMessage
	if err := json.Unmarshal(blob, &rawRecords); err != nil {
		return 0, 0, fmt.Errorf("backup is not a JSON array of tests: %v", err)
	}

	var valid []*models.EvaluatedTest
	for _, raw := range rawRecords {
		test, ok := validRecord(raw)
		if !ok {
			skipped++
			continue
		}
		valid = append(valid, test)
	}
	if len(valid) == 0 {
		return 0, skipped, ErrNoValidRecords
	}

	if err := a.Clear(); err != nil {
		return 0, skipped, err
	}
	for _, test := range valid {
		if err := a.Append(test); err != nil {
			return imported, skipped, err
		}
		imported++
	}
	return imported, skipped, nil
}

// Clear removes every archived test
func (a *Archive) Clear() error {
	keys, err := a.store.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, KeyPrefix) {
			continue
		}
		if err := a.store.Remove(key); err != nil {
			return err
		}
	}
	return nil
}
