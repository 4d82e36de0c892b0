package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/irkartik/driver-service/internal/domain"
	"github.com/irkartik/driver-service/internal/repository"
)

// DefaultImportPaths are the conventional locations probed when no CSV file
// is passed to the import command.
var DefaultImportPaths = []string{
	"rhfd_drivers.csv",
	"data/rhfd_drivers.csv",
	"testdata/rhfd_drivers.csv",
}

// importColumns are the header names the CSV file must carry.
var importColumns = []string{"driver_id", "name", "phone", "vehicle_type", "vehicle_plate", "is_active"}

// ImportResult summarizes a bulk import run.
type ImportResult struct {
	Created int
	Updated int
	Errors  int
}

// ImportService loads drivers from CSV files, upserting by driver_id. Rows
// that fail to parse or persist are counted and skipped; only file-level
// problems abort the run.
type ImportService struct {
	repo repository.DriverRepository
	log  *logrus.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(repo repository.DriverRepository) *ImportService {
	return &ImportService{repo: repo, log: logrus.StandardLogger()}
}

// ResolveFile picks the CSV file to load: the explicit path when given,
// otherwise the first existing default location.
func (s *ImportService) ResolveFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("csv file %q does not exist", path)
		}
		return path, nil
	}

	for _, candidate := range DefaultImportPaths {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.New("csv file not found: pass a path or place rhfd_drivers.csv in a default location")
}

// ImportFile runs an import from the file at path.
func (s *ImportService) ImportFile(ctx context.Context, path string, clear bool) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	return s.Import(ctx, f, clear)
}

// Import runs an import from r. With clear set, every existing driver is
// removed first.
func (s *ImportService) Import(ctx context.Context, r io.Reader, clear bool) (*ImportResult, error) {
	if clear {
		removed, err := s.repo.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("clear existing drivers: %w", err)
		}
		s.log.WithField("removed", removed).Warn("cleared all existing drivers")
	}

	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	rowNum := 1 // header was row 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			// Malformed row (wrong field count, bad quoting): skip it.
			result.Errors++
			s.log.WithField("row", rowNum).WithError(err).Warn("skipping malformed row")
			continue
		}

		driver, err := parseRow(record, cols)
		if err == nil {
			err = s.upsert(ctx, driver, result)
		}
		if err != nil {
			result.Errors++
			s.log.WithField("row", rowNum).WithError(err).Warn("skipping row")
		}
	}

	// Explicit-ID inserts leave the sequence behind MAX(driver_id).
	if err := s.repo.SyncIDSequence(ctx); err != nil {
		s.log.WithError(err).Warn("failed to resync driver_id sequence")
	}

	return result, nil
}

func (s *ImportService) upsert(ctx context.Context, driver *domain.Driver, result *ImportResult) error {
	created, err := s.repo.Upsert(ctx, driver)
	if err != nil {
		return err
	}
	if created {
		result.Created++
	} else {
		result.Updated++
	}
	return nil
}

// mapHeader indexes the required columns in the header row.
func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range importColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q", required)
		}
	}
	return cols, nil
}

// parseRow converts one CSV record into a driver.
func parseRow(record []string, cols map[string]int) (*domain.Driver, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(record[cols["driver_id"]]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad driver_id: %w", err)
	}

	rawType := strings.TrimSpace(record[cols["vehicle_type"]])
	vehicleType := domain.VehicleType(rawType)
	if vt, ok := domain.ParseVehicleType(rawType); ok {
		vehicleType = vt
	}

	return &domain.Driver{
		ID:           id,
		Name:         record[cols["name"]],
		Phone:        strings.TrimSpace(record[cols["phone"]]),
		VehicleType:  vehicleType,
		VehiclePlate: domain.NormalizePlate(record[cols["vehicle_plate"]]),
		IsActive:     parseActive(record[cols["is_active"]]),
	}, nil
}

// parseActive accepts true/1/yes in any case; everything else is false.
func parseActive(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
