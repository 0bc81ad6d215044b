package clinic

import (
	"errors"
	"fmt"
	"time"

	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/history"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

var (
	ErrInvalidGender = errors.New("gender must be M, F or O")
	ErrNegativeAge   = errors.New("age must be non-negative")
	ErrEmptyField    = errors.New("required field is empty")
	ErrBadDateTime   = errors.New(`datetime must look like "2006-01-02 15:04"`)
)

// TimeLayout is the wire and display format for appointment times.
const TimeLayout = "2006-01-02 15:04"

func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale, GenderFemale, GenderOther:
		return Gender(s), nil
	}
	return "", ErrInvalidGender
}

// Patient is a registry entry. PatientID is immutable once registered and
// there is no delete operation; the only mutation is appending to the visit
// history.
type Patient struct {
	PatientID    string
	Name         string
	Age          int
	Gender       Gender
	Phone        string
	MedicalNotes string
	VisitHistory *history.List
}

func NewPatient(id, name string, age int, gender Gender, phone, notes string) (*Patient, error) {
	if id == "" || name == "" || phone == "" {
		return nil, ErrEmptyField
	}
	if age < 0 {
		return nil, ErrNegativeAge
	}
	if _, err := ParseGender(string(gender)); err != nil {
		return nil, err
	}
	return &Patient{
		PatientID:    id,
		Name:         name,
		Age:          age,
		Gender:       gender,
		Phone:        phone,
		MedicalNotes: notes,
		VisitHistory: history.New(),
	}, nil
}

func (p *Patient) AddVisit(text string) {
	p.VisitHistory.Append(text)
}

func (p *Patient) String() string {
	return fmt.Sprintf("%s (%s, %d%s, %s)", p.Name, p.PatientID, p.Age, p.Gender, p.Phone)
}

// Appointment references a patient by ID; the registry owns the patient.
type Appointment struct {
	PatientID string
	At        time.Time // truncated to the minute
	Code      string    // 5-char base-36 handle
}

func (a *Appointment) String() string {
	return fmt.Sprintf("%s @ %s", a.PatientID, a.At.Format(TimeLayout))
}

// ParseApptTime parses "YYYY-MM-DD HH:MM" in local time, truncated to the
// minute the layout already enforces.
func ParseApptTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDateTime, s)
	}
	return t, nil
}

// SortKey derives the schedule tree key: minutes since epoch scaled by 1000
// plus the session's appointment sequence. Two appointments in the same
// minute still get distinct, insertion-ordered keys.
func SortKey(at time.Time, seq int64) int64 {
	return (at.Unix()/60)*1000 + seq
}
