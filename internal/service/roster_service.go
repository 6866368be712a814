package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/repository"
	"github.com/edutrain/training-backend/internal/validator"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const rosterSheet = "Students"

// rosterColumns is the export layout. Import matches headers by name: rows
// whose Student Code matches an existing student update that student, rows
// without a code create new students. Balance and Registration Date are
// export-only and reported back as ignored.
var rosterColumns = []string{
	"Student Code", "Name", "Gender", "Phone", "Email",
	"Date of Birth", "Address", "Balance", "Status", "Registration Date",
}

// importedColumns are the lower-cased headers Import reads.
var importedColumns = map[string]bool{
	"student code": true, "name": true, "gender": true, "phone": true,
	"email": true, "date of birth": true, "address": true, "status": true,
}

// RosterService converts the student roster to and from Excel workbooks.
type RosterService struct {
	students StudentStore
	hasher   PasswordHasher
	events   Publisher
	cfg      *config.Config
	log      zerolog.Logger
}

func NewRosterService(students StudentStore, hasher PasswordHasher, events Publisher, cfg *config.Config, log zerolog.Logger) *RosterService {
	return &RosterService{
		students: students,
		hasher:   hasher,
		events:   events,
		cfg:      cfg,
		log:      log.With().Str("component", "roster_service").Logger(),
	}
}

// Export writes every student to an xlsx workbook.
func (s *RosterService) Export(ctx context.Context, w io.Writer) error {
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), rosterSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(rosterColumns))
	for i, c := range rosterColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(rosterSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, st := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			st.StudentCode, st.Name, string(st.Gender), st.Phone, st.Email,
			model.FormatDate(st.DateOfBirth), st.Address, st.Balance.StringFixed(2),
			string(st.Status), st.RegistrationDate.Format(model.DateLayout),
		}
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_, err = f.WriteTo(w)
	return err
}

// Import reads students from the first sheet of an xlsx workbook. Rows that
// fail validation or insertion are reported and skipped; the rest are kept.
func (s *RosterService) Import(ctx context.Context, r io.Reader) (*model.StudentImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterInvalid, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: no sheets", ErrRosterInvalid)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterInvalid, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty sheet", ErrRosterInvalid)
	}

	index := headerIndex(rows[0])
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("%w: missing Name column", ErrRosterInvalid)
	}

	result := &model.StudentImportResult{
		Skipped:        []model.ImportReject{},
		IgnoredColumns: ignoredColumns(rows[0]),
	}
	var (
		batch   []*model.Student
		rowNums []int
	)
	for i, row := range rows[1:] {
		rowNum := i + 2
		code := cellAt(row, index, "student code")
		status := model.StudentStatus(strings.ToLower(cellAt(row, index, "status")))
		req := model.CreateStudentRequest{
			Name:        cellAt(row, index, "name"),
			Gender:      model.Gender(strings.ToLower(cellAt(row, index, "gender"))),
			Phone:       cellAt(row, index, "phone"),
			Email:       cellAt(row, index, "email"),
			DateOfBirth: cellAt(row, index, "date of birth"),
			Address:     cellAt(row, index, "address"),
		}
		if code == "" && status == "" && req == (model.CreateStudentRequest{}) {
			continue
		}
		if status != "" && !status.Valid() {
			result.Skipped = append(result.Skipped, model.ImportReject{Row: rowNum, Reason: fmt.Sprintf("unknown status %q", status)})
			continue
		}

		if code != "" {
			reason, err := s.updateRow(ctx, code, req, status)
			if err != nil {
				return nil, err
			}
			if reason != "" {
				result.Skipped = append(result.Skipped, model.ImportReject{Row: rowNum, Reason: reason})
				continue
			}
			result.Updated++
			continue
		}

		if fields := validator.ValidateStruct(&req); fields != nil {
			result.Skipped = append(result.Skipped, model.ImportReject{Row: rowNum, Reason: joinFields(fields)})
			continue
		}
		st, err := studentFromRequest(req)
		if err != nil {
			result.Skipped = append(result.Skipped, model.ImportReject{Row: rowNum, Reason: err.Error()})
			continue
		}
		st.Status = status
		batch = append(batch, st)
		rowNums = append(rowNums, rowNum)
	}

	if len(batch) == 0 {
		s.log.Info().Int("updated", result.Updated).Int("skipped", len(result.Skipped)).Msg("Roster imported")
		return result, nil
	}

	hash, err := s.hasher.HashPassword(s.cfg.DefaultAccountPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	for i, err := range s.students.CreateBatch(ctx, batch, hash) {
		if err != nil {
			result.Skipped = append(result.Skipped, model.ImportReject{Row: rowNums[i], Reason: err.Error()})
			continue
		}
		result.Imported++
		publish(ctx, s.events, model.EventCreated, entityStudent, batch[i].ID)
	}

	sort.Slice(result.Skipped, func(i, j int) bool { return result.Skipped[i].Row < result.Skipped[j].Row })
	s.log.Info().
		Int("imported", result.Imported).
		Int("updated", result.Updated).
		Int("skipped", len(result.Skipped)).
		Msg("Roster imported")
	return result, nil
}

// updateRow applies a spreadsheet row to the student with the given code. A
// non-empty reason means the row was rejected; err is a store failure.
func (s *RosterService) updateRow(ctx context.Context, code string, p model.CreateStudentRequest, status model.StudentStatus) (string, error) {
	st, err := s.students.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Sprintf("unknown student code %s", code), nil
	}
	if err != nil {
		return "", err
	}
	if status == "" {
		status = st.Status
	}

	req := model.UpdateStudentRequest{
		Name:        p.Name,
		Gender:      p.Gender,
		Phone:       p.Phone,
		Email:       p.Email,
		DateOfBirth: p.DateOfBirth,
		Address:     p.Address,
		Status:      status,
	}
	if fields := validator.ValidateStruct(&req); fields != nil {
		return joinFields(fields), nil
	}
	if err := applyStudentUpdate(st, req); err != nil {
		return err.Error(), nil
	}
	if err := s.students.Update(ctx, st); err != nil {
		return err.Error(), nil
	}
	publish(ctx, s.events, model.EventUpdated, entityStudent, st.ID)
	return "", nil
}

func ignoredColumns(header []string) []string {
	ignored := []string{}
	for _, h := range header {
		h = strings.TrimSpace(h)
		if h != "" && !importedColumns[strings.ToLower(h)] {
			ignored = append(ignored, h)
		}
	}
	return ignored
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func cellAt(row []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = fields[k]
	}
	return strings.Join(msgs, "; ")
}
