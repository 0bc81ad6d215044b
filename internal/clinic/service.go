package clinic

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/schedule"
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/table"
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/triage"
)

var (
	ErrPatientExists       = errors.New("patient_id already exists")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrQueueEmpty          = errors.New("no emergency patients in queue")
)

// Session owns all mutable state for one run: the patient registry, the
// triage queue, the appointment schedule, the derived code index and the
// appointment sequence counter. Nothing here is package-level; every
// structure is independently constructible and testable.
type Session struct {
	registry  *table.Table[*Patient]
	queue     *triage.Queue
	tree      *schedule.Tree[*Appointment]
	codeIndex *table.Table[int64]
	seq       int64
	log       zerolog.Logger
}

func NewSession(log zerolog.Logger) *Session {
	return &Session{
		registry:  table.New[*Patient](),
		queue:     triage.NewQueue(),
		tree:      schedule.NewTree[*Appointment](),
		codeIndex: table.New[int64](),
		log:       log,
	}
}

// Accessors used by the persistence collaborator for full-state export and
// import. The store knows these structures only through their §4-style
// operations, never through the file format.

func (s *Session) Registry() *table.Table[*Patient]       { return s.registry }
func (s *Session) Triage() *triage.Queue                  { return s.queue }
func (s *Session) Schedule() *schedule.Tree[*Appointment] { return s.tree }
func (s *Session) Sequence() int64                        { return s.seq }

// SetSequence restores the persisted code counter. Negative values reset to
// zero, matching a fresh state.
func (s *Session) SetSequence(seq int64) {
	if seq < 0 {
		seq = 0
	}
	s.seq = seq
}

// RegisterPatient validates and adds a new patient. Duplicate IDs are
// rejected, never overwritten.
func (s *Session) RegisterPatient(id, name string, age int, gender Gender, phone, notes string) (*Patient, error) {
	if s.registry.Contains(id) {
		return nil, ErrPatientExists
	}
	p, err := NewPatient(id, name, age, gender, phone, notes)
	if err != nil {
		return nil, err
	}
	s.registry.Put(p.PatientID, p)
	s.log.Info().Str("patient_id", p.PatientID).Msg("patient registered")
	return p, nil
}

func (s *Session) LookupPatient(id string) (*Patient, error) {
	p, ok := s.registry.Get(id)
	if !ok {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

func (s *Session) AddVisit(id, text string) error {
	p, err := s.LookupPatient(id)
	if err != nil {
		return err
	}
	if text == "" {
		return ErrEmptyField
	}
	p.AddVisit(text)
	return nil
}

// AdmitEmergency queues a registered patient for triage and returns the
// queued payload.
func (s *Session) AdmitEmergency(id string, severity int, complaint string) (string, error) {
	p, err := s.LookupPatient(id)
	if err != nil {
		return "", err
	}
	if complaint == "" {
		return "", ErrEmptyField
	}
	payload := fmt.Sprintf("EMERGENCY pid=%s name=%s sev=%d issue=%s", p.PatientID, p.Name, severity, complaint)
	if err := s.queue.Enqueue(severity, payload); err != nil {
		return "", err
	}
	s.log.Info().Str("patient_id", id).Int("severity", severity).Msg("emergency admitted")
	return payload, nil
}

// TreatNext removes and returns the highest-severity emergency.
func (s *Session) TreatNext() (triage.Entry, error) {
	e, ok := s.queue.Dequeue()
	if !ok {
		return triage.Entry{}, ErrQueueEmpty
	}
	return e, nil
}

// ScheduledAppointment pairs a tree key with its appointment for listings
// and export.
type ScheduledAppointment struct {
	Key int64
	*Appointment
}

// ScheduleAppointment books a registered patient at the given
// "YYYY-MM-DD HH:MM" time. The code and tree key both come from the session
// sequence counter, so same-minute bookings stay strictly ordered.
func (s *Session) ScheduleAppointment(id, when string) (ScheduledAppointment, error) {
	p, err := s.LookupPatient(id)
	if err != nil {
		return ScheduledAppointment{}, err
	}
	at, err := ParseApptTime(when)
	if err != nil {
		return ScheduledAppointment{}, err
	}

	appt := &Appointment{PatientID: id, At: at, Code: CodeFor(s.seq)}
	key := SortKey(at, s.seq)
	s.seq++

	if err := s.tree.Insert(key, appt); err != nil {
		return ScheduledAppointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	s.codeIndex.Put(appt.Code, key)
	p.AddVisit(fmt.Sprintf("APPT SCHEDULED [%s] -> %s", appt.Code, appt))

	s.log.Info().Str("code", appt.Code).Int64("key", key).Msg("appointment scheduled")
	return ScheduledAppointment{Key: key, Appointment: appt}, nil
}

// CancelAppointment removes the appointment behind a code and releases the
// code. The canceled appointment is returned for display.
func (s *Session) CancelAppointment(code string) (*Appointment, error) {
	key, appt, err := s.lookupByCode(code)
	if err != nil {
		return nil, err
	}
	if !s.tree.Delete(key) {
		return nil, ErrAppointmentNotFound
	}
	s.codeIndex.Remove(code)
	if p, ok := s.registry.Get(appt.PatientID); ok {
		p.AddVisit(fmt.Sprintf("APPT CANCELED [%s] -> %s", code, appt))
	}
	s.log.Info().Str("code", code).Msg("appointment canceled")
	return appt, nil
}

// RescheduleAppointment moves an appointment to a new time. The tree has no
// native move: the old key is deleted and a fresh key inserted under the
// same code.
func (s *Session) RescheduleAppointment(code, newWhen string) (ScheduledAppointment, error) {
	oldKey, old, err := s.lookupByCode(code)
	if err != nil {
		return ScheduledAppointment{}, err
	}
	at, err := ParseApptTime(newWhen)
	if err != nil {
		return ScheduledAppointment{}, err
	}

	s.tree.Delete(oldKey)
	moved := &Appointment{PatientID: old.PatientID, At: at, Code: code}
	newKey := SortKey(at, s.seq)
	s.seq++
	if err := s.tree.Insert(newKey, moved); err != nil {
		return ScheduledAppointment{}, fmt.Errorf("insert rescheduled appointment: %w", err)
	}
	s.codeIndex.Put(code, newKey)

	if p, ok := s.registry.Get(old.PatientID); ok {
		p.AddVisit(fmt.Sprintf("APPT RESCHEDULED [%s] -> old=%s new=%s", code, old, moved))
	}
	s.log.Info().Str("code", code).Int64("key", newKey).Msg("appointment rescheduled")
	return ScheduledAppointment{Key: newKey, Appointment: moved}, nil
}

// Appointments lists the schedule chronologically.
func (s *Session) Appointments() []ScheduledAppointment {
	out := make([]ScheduledAppointment, 0, s.tree.Len())
	s.tree.Ascend(func(key int64, a *Appointment) bool {
		out = append(out, ScheduledAppointment{Key: key, Appointment: a})
		return true
	})
	return out
}

func (s *Session) lookupByCode(code string) (int64, *Appointment, error) {
	key, ok := s.codeIndex.Get(code)
	if !ok {
		return 0, nil, ErrAppointmentNotFound
	}
	appt, ok := s.tree.Find(key)
	if !ok {
		// Index diverged from the tree; drop the stale entry.
		s.codeIndex.Remove(code)
		return 0, nil, ErrAppointmentNotFound
	}
	return key, appt, nil
}

// RebuildCodeIndex recomputes the code index from the schedule tree,
// assigning fresh codes to appointments that lack one. Called after a state
// load and whenever divergence between index and tree is suspected. Returns
// the number of codes newly assigned.
func (s *Session) RebuildCodeIndex() int {
	idx := table.New[int64]()
	assigned := 0
	s.tree.Ascend(func(key int64, a *Appointment) bool {
		if a.Code == "" {
			a.Code = CodeFor(s.seq)
			s.seq++
			assigned++
		}
		idx.Put(a.Code, key)
		return true
	})
	s.codeIndex = idx
	if assigned > 0 {
		s.log.Warn().Int("assigned", assigned).Msg("assigned codes to appointments missing one")
	}
	return assigned
}
