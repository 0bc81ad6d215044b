package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/tealeg/xlsx"

	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/clinic"
)

var csvHeader = []string{"patient_id", "name", "age", "gender", "phone", "medical_notes"}

// FileStore keeps the whole state in one JSON file, mirrors patient identity
// fields to a CSV file, and merges in patients from an optional XLSX drop
// file on load. Writes overwrite in place; there is no atomic rename or
// locking, so a crash mid-write can corrupt the file — Load treats that as
// an empty state.
type FileStore struct {
	path     string
	csvPath  string
	xlsxPath string
	log      zerolog.Logger
}

func NewFileStore(path, csvPath, xlsxPath string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, csvPath: csvPath, xlsxPath: xlsxPath, log: log}
}

func (fs *FileStore) Load(sess *clinic.Session) (ImportReport, error) {
	var report ImportReport

	snap, ok := fs.readSnapshot()
	if ok {
		fs.restore(sess, snap)
	}

	report.CSVImported = fs.mergePatients(sess, fs.readCSVPatients())
	report.XLSXImported = fs.mergePatients(sess, fs.readXLSXPatients())

	// The code index is derived state; rebuild it from the tree rather than
	// trusting anything on disk.
	sess.RebuildCodeIndex()
	return report, nil
}

func (fs *FileStore) readSnapshot() (Snapshot, bool) {
	var snap Snapshot
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fs.log.Warn().Err(err).Str("path", fs.path).Msg("state file unreadable, starting fresh")
		}
		return Snapshot{}, false
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		fs.log.Warn().Err(err).Str("path", fs.path).Msg("state file corrupt, starting fresh")
		return Snapshot{}, false
	}
	return snap, true
}

// restore replays a snapshot through the session's own insert operations.
// Records that fail validation are skipped, not fatal.
func (fs *FileStore) restore(sess *clinic.Session, snap Snapshot) {
	for _, rec := range snap.Patients {
		p, err := clinic.NewPatient(rec.PatientID, rec.Name, rec.Age, clinic.Gender(rec.Gender), rec.Phone, rec.MedicalNotes)
		if err != nil {
			fs.log.Warn().Err(err).Str("patient_id", rec.PatientID).Msg("skipping invalid patient record")
			continue
		}
		for _, visit := range rec.VisitHistory {
			p.AddVisit(visit)
		}
		sess.Registry().Put(p.PatientID, p)
	}

	for _, e := range snap.Triage {
		if err := sess.Triage().Enqueue(e.Severity, e.Payload); err != nil {
			fs.log.Warn().Err(err).Int("severity", e.Severity).Msg("skipping invalid triage entry")
		}
	}

	for _, rec := range snap.Appointments {
		at, err := clinic.ParseApptTime(rec.Datetime)
		if err != nil {
			fs.log.Warn().Err(err).Str("code", rec.Code).Msg("skipping appointment with bad datetime")
			continue
		}
		appt := &clinic.Appointment{PatientID: rec.PatientID, At: at, Code: rec.Code}
		if err := sess.Schedule().Insert(rec.Key, appt); err != nil {
			fs.log.Warn().Err(err).Int64("key", rec.Key).Msg("skipping appointment with duplicate key")
		}
	}

	sess.SetSequence(snap.ApptSeq)
}

// mergePatients adds patients absent from the registry. Existing entries are
// never overwritten.
func (fs *FileStore) mergePatients(sess *clinic.Session, patients []*clinic.Patient) int {
	added := 0
	for _, p := range patients {
		if sess.Registry().Contains(p.PatientID) {
			continue
		}
		sess.Registry().Put(p.PatientID, p)
		added++
	}
	return added
}

func (fs *FileStore) Save(sess *clinic.Session) error {
	snap := Snapshot{
		Patients:     make([]PatientRecord, 0, sess.Registry().Len()),
		Triage:       sess.Triage().Snapshot(),
		Appointments: make([]AppointmentRecord, 0, sess.Schedule().Len()),
		ApptSeq:      sess.Sequence(),
	}

	sess.Registry().Items(func(_ string, p *clinic.Patient) {
		snap.Patients = append(snap.Patients, PatientRecord{
			PatientID:    p.PatientID,
			Name:         p.Name,
			Age:          p.Age,
			Gender:       string(p.Gender),
			Phone:        p.Phone,
			MedicalNotes: p.MedicalNotes,
			VisitHistory: p.VisitHistory.Entries(),
		})
	})
	sort.Slice(snap.Patients, func(i, j int) bool {
		return snap.Patients[i].PatientID < snap.Patients[j].PatientID
	})

	for _, sa := range sess.Appointments() {
		snap.Appointments = append(snap.Appointments, AppointmentRecord{
			Key:       sa.Key,
			Code:      sa.Code,
			PatientID: sa.PatientID,
			Datetime:  sa.At.Format(clinic.TimeLayout),
		})
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0o644); err != nil {
		fs.log.Error().Err(err).Str("path", fs.path).Msg("state write failed, in-memory state still authoritative")
		return fmt.Errorf("write state file: %w", err)
	}

	if err := fs.writeCSVMirror(snap.Patients); err != nil {
		fs.log.Error().Err(err).Str("path", fs.csvPath).Msg("csv mirror write failed")
	}
	return nil
}

func (fs *FileStore) writeCSVMirror(patients []PatientRecord) error {
	f, err := os.Create(fs.csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range patients {
		row := []string{p.PatientID, p.Name, strconv.Itoa(p.Age), p.Gender, p.Phone, p.MedicalNotes}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (fs *FileStore) readCSVPatients() []*clinic.Patient {
	f, err := os.Open(fs.csvPath)
	if err != nil {
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil
	}
	col := columnIndex(header)

	var patients []*clinic.Patient
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fs.log.Warn().Err(err).Str("path", fs.csvPath).Msg("csv import stopped early")
			break
		}
		if p := fs.rowToPatient(row, col); p != nil {
			patients = append(patients, p)
		}
	}
	return patients
}

// readXLSXPatients reads the optional Excel drop file: first sheet, header
// row matching the CSV columns, one patient per row.
func (fs *FileStore) readXLSXPatients() []*clinic.Patient {
	if fs.xlsxPath == "" {
		return nil
	}
	if _, err := os.Stat(fs.xlsxPath); err != nil {
		return nil
	}
	file, err := xlsx.OpenFile(fs.xlsxPath)
	if err != nil {
		fs.log.Warn().Err(err).Str("path", fs.xlsxPath).Msg("xlsx import file unreadable")
		return nil
	}
	if len(file.Sheets) == 0 || len(file.Sheets[0].Rows) < 2 {
		return nil
	}

	rows := file.Sheets[0].Rows
	col := columnIndex(cellValues(rows[0]))

	var patients []*clinic.Patient
	for _, row := range rows[1:] {
		if p := fs.rowToPatient(cellValues(row), col); p != nil {
			patients = append(patients, p)
		}
	}
	return patients
}

func cellValues(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.Value
	}
	return out
}

// columnIndex maps known header names to their positions so column order in
// the import files does not matter.
func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	return col
}

func (fs *FileStore) rowToPatient(row []string, col map[string]int) *clinic.Patient {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	age, err := strconv.Atoi(field("age"))
	if err != nil {
		return nil
	}
	p, err := clinic.NewPatient(
		field("patient_id"),
		field("name"),
		age,
		clinic.Gender(field("gender")),
		field("phone"),
		field("medical_notes"),
	)
	if err != nil {
		return nil
	}
	return p
}
