// Package store is the persistence collaborator. It talks to the session
// only through export iteration and insert/put operations; the session never
// sees a file format.
package store

import (
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/clinic"
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/triage"
)

// Store persists the full session state between runs.
type Store interface {
	// Load populates a fresh session from disk. A missing or corrupt state
	// file yields an empty session, never an error; errors are reserved for
	// conditions the caller could act on.
	Load(sess *clinic.Session) (ImportReport, error)

	// Save writes the whole session state, best effort. The in-memory state
	// stays authoritative whatever the result.
	Save(sess *clinic.Session) error
}

// ImportReport counts patients merged in from the tabular side files.
type ImportReport struct {
	CSVImported  int
	XLSXImported int
}

// PatientRecord is the on-disk shape of one patient.
type PatientRecord struct {
	PatientID    string   `json:"patient_id"`
	Name         string   `json:"name"`
	Age          int      `json:"age"`
	Gender       string   `json:"gender"`
	Phone        string   `json:"phone"`
	MedicalNotes string   `json:"medical_notes"`
	VisitHistory []string `json:"visit_history"`
}

// AppointmentRecord is the on-disk shape of one schedule entry.
type AppointmentRecord struct {
	Key       int64  `json:"key"`
	Code      string `json:"code"`
	PatientID string `json:"patient_id"`
	Datetime  string `json:"datetime"`
}

// Snapshot is the JSON state file. Patients are sorted by patient_id and
// triage entries are in dequeue order, so output is deterministic and a
// reload reproduces queue semantics.
type Snapshot struct {
	Patients     []PatientRecord     `json:"patients"`
	Triage       []triage.Entry      `json:"triage"`
	Appointments []AppointmentRecord `json:"appointments"`
	ApptSeq      int64               `json:"appt_seq"`
}
