package clinic

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	return NewSession(zerolog.Nop())
}

func registerTestPatient(t *testing.T, s *Session, id string) *Patient {
	t.Helper()
	p, err := s.RegisterPatient(id, "Test Patient", 40, GenderOther, "555-0000", "")
	require.NoError(t, err)
	return p
}

func TestRegisterAndLookup(t *testing.T) {
	s := newTestSession()
	p, err := s.RegisterPatient("P1", "Aisha Khan", 34, GenderFemale, "555-1234", "allergic to penicillin")
	require.NoError(t, err)
	assert.Equal(t, "P1", p.PatientID)

	got, err := s.LookupPatient("P1")
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = s.LookupPatient("P2")
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	s := newTestSession()
	registerTestPatient(t, s, "P1")
	_, err := s.RegisterPatient("P1", "Someone Else", 50, GenderMale, "555-9999", "")
	assert.ErrorIs(t, err, ErrPatientExists)

	// original patient untouched
	p, err := s.LookupPatient("P1")
	require.NoError(t, err)
	assert.Equal(t, "Test Patient", p.Name)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestSession()
	_, err := s.RegisterPatient("", "Name", 30, GenderMale, "555", "")
	assert.ErrorIs(t, err, ErrEmptyField)
	_, err = s.RegisterPatient("P1", "Name", -1, GenderMale, "555", "")
	assert.ErrorIs(t, err, ErrNegativeAge)
	_, err = s.RegisterPatient("P1", "Name", 30, Gender("X"), "555", "")
	assert.ErrorIs(t, err, ErrInvalidGender)
}

// Scenario: register, add one visit, history shows exactly that entry.
func TestVisitHistoryScenario(t *testing.T) {
	s := newTestSession()
	_, err := s.RegisterPatient("P1", "Aisha Khan", 34, GenderFemale, "555-1234", "")
	require.NoError(t, err)

	require.NoError(t, s.AddVisit("P1", "checkup"))

	p, err := s.LookupPatient("P1")
	require.NoError(t, err)
	assert.Equal(t, []string{"checkup"}, p.VisitHistory.Entries())

	assert.ErrorIs(t, s.AddVisit("P1", ""), ErrEmptyField)
	assert.ErrorIs(t, s.AddVisit("nobody", "x"), ErrPatientNotFound)
}

// Scenario: severities 5, 9, 5, 3 dequeue as 9, the two 5s in enqueue
// order, then 3.
func TestTriageScenario(t *testing.T) {
	s := newTestSession()
	registerTestPatient(t, s, "A")
	registerTestPatient(t, s, "B")
	registerTestPatient(t, s, "C")
	registerTestPatient(t, s, "D")

	for _, adm := range []struct {
		id        string
		severity  int
		complaint string
	}{
		{"A", 5, "sprain"},
		{"B", 9, "chest pain"},
		{"C", 5, "laceration"},
		{"D", 3, "headache"},
	} {
		_, err := s.AdmitEmergency(adm.id, adm.severity, adm.complaint)
		require.NoError(t, err)
	}

	var order []string
	for i := 0; i < 4; i++ {
		e, err := s.TreatNext()
		require.NoError(t, err)
		order = append(order, e.Payload)
	}
	assert.Contains(t, order[0], "pid=B")
	assert.Contains(t, order[1], "pid=A")
	assert.Contains(t, order[2], "pid=C")
	assert.Contains(t, order[3], "pid=D")

	_, err := s.TreatNext()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestAdmitEmergencyValidation(t *testing.T) {
	s := newTestSession()
	registerTestPatient(t, s, "P1")

	_, err := s.AdmitEmergency("ghost", 5, "pain")
	assert.ErrorIs(t, err, ErrPatientNotFound)
	_, err = s.AdmitEmergency("P1", 11, "pain")
	assert.Error(t, err)
	_, err = s.AdmitEmergency("P1", 5, "")
	assert.ErrorIs(t, err, ErrEmptyField)
	assert.Zero(t, s.Triage().Len())
}

// Scenario: two appointments at the same minute get distinct keys, list in
// insertion order; canceling the first leaves the second intact.
func TestSameMinuteScheduling(t *testing.T) {
	s := newTestSession()
	registerTestPatient(t, s, "P1")
	registerTestPatient(t, s, "P2")

	first, err := s.ScheduleAppointment("P1", "2024-01-01 09:00")
	require.NoError(t, err)
	second, err := s.ScheduleAppointment("P2", "2024-01-01 09:00")
	require.NoError(t, err)

	require.NotEqual(t, first.Key, second.Key)
	require.Less(t, first.Key, second.Key)
	require.NotEqual(t, first.Code, second.Code)

	listed := s.Appointments()
	require.Len(t, listed, 2)
	assert.Equal(t, "P1", listed[0].PatientID)
	assert.Equal(t, "P2", listed[1].PatientID)

	canceled, err := s.CancelAppointment(first.Code)
	require.NoError(t, err)
	assert.Equal(t, "P1", canceled.PatientID)

	listed = s.Appointments()
	require.Len(t, listed, 1)
	assert.Equal(t, second.Code, listed[0].Code)

	_, err = s.CancelAppointment(first.Code)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestScheduleValidation(t *testing.T) {
	s := newTestSession()
	registerTestPatient(t, s, "P1")

	_, err := s.ScheduleAppointment("ghost", "2024-01-01 09:00")
	assert.ErrorIs(t, err, ErrPatientNotFound)
	_, err = s.ScheduleAppointment("P1", "january first")
	assert.ErrorIs(t, err, ErrBadDateTime)
	assert.Zero(t, s.Schedule().Len())
}

func TestRescheduleKeepsCodeAndMoves(t *testing.T) {
	s := newTestSession()
	registerTestPatient(t, s, "P1")

	orig, err := s.ScheduleAppointment("P1", "2024-03-05 10:00")
	require.NoError(t, err)

	moved, err := s.RescheduleAppointment(orig.Code, "2024-03-06 15:30")
	require.NoError(t, err)
	assert.Equal(t, orig.Code, moved.Code)
	assert.NotEqual(t, orig.Key, moved.Key)
	assert.Equal(t, "2024-03-06 15:30", moved.At.Format(TimeLayout))

	listed := s.Appointments()
	require.Len(t, listed, 1)
	assert.Equal(t, moved.Key, listed[0].Key)

	_, err = s.RescheduleAppointment("ZZZZZ", "2024-03-07 09:00")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestScheduleAppendsAuditHistory(t *testing.T) {
	s := newTestSession()
	p := registerTestPatient(t, s, "P1")

	sa, err := s.ScheduleAppointment("P1", "2024-03-05 10:00")
	require.NoError(t, err)
	_, err = s.RescheduleAppointment(sa.Code, "2024-03-06 10:00")
	require.NoError(t, err)
	_, err = s.CancelAppointment(sa.Code)
	require.NoError(t, err)

	entries := p.VisitHistory.Entries()
	require.Len(t, entries, 3)
	assert.Contains(t, entries[0], "APPT SCHEDULED ["+sa.Code+"]")
	assert.Contains(t, entries[1], "APPT RESCHEDULED ["+sa.Code+"]")
	assert.Contains(t, entries[2], "APPT CANCELED ["+sa.Code+"]")
}

func TestRebuildCodeIndexRecoversFromDivergence(t *testing.T) {
	s := newTestSession()
	registerTestPatient(t, s, "P1")

	sa, err := s.ScheduleAppointment("P1", "2024-03-05 10:00")
	require.NoError(t, err)

	// Restore path: an appointment lands in the tree without a code and the
	// index knows nothing about it.
	at, err := ParseApptTime("2024-03-05 11:00")
	require.NoError(t, err)
	bare := &Appointment{PatientID: "P1", At: at}
	require.NoError(t, s.Schedule().Insert(SortKey(at, 999), bare))

	assigned := s.RebuildCodeIndex()
	assert.Equal(t, 1, assigned)
	require.NotEmpty(t, bare.Code)

	// Both codes resolve after the rebuild.
	_, err = s.CancelAppointment(bare.Code)
	require.NoError(t, err)
	_, err = s.CancelAppointment(sa.Code)
	require.NoError(t, err)
	assert.Zero(t, s.Schedule().Len())
}

func TestSortKeyOrdering(t *testing.T) {
	early, err := ParseApptTime("2024-01-01 09:00")
	require.NoError(t, err)
	late, err := ParseApptTime("2024-01-01 09:01")
	require.NoError(t, err)

	// Same minute: sequence breaks the tie. Different minutes: time wins
	// even against a larger sequence.
	assert.Less(t, SortKey(early, 0), SortKey(early, 1))
	assert.Less(t, SortKey(early, 999), SortKey(late, 0))
}

func TestCodeFor(t *testing.T) {
	assert.Equal(t, "00000", CodeFor(0))
	assert.Equal(t, "00001", CodeFor(1))
	assert.Equal(t, "0000A", CodeFor(10))
	assert.Equal(t, "00010", CodeFor(36))
	assert.Equal(t, "ZZZZZ", CodeFor(CodeSpace-1))

	// Counter wraps modulo the code space; negative resets to zero.
	assert.Equal(t, "00000", CodeFor(CodeSpace))
	assert.Equal(t, "00001", CodeFor(CodeSpace+1))
	assert.Equal(t, "00000", CodeFor(-5))

	for _, c := range []int64{1, 35, 36, 12345, CodeSpace - 1} {
		assert.Len(t, CodeFor(c), CodeWidth)
	}
}
