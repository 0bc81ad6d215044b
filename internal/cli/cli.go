// Package cli is the interactive front end: a numbered menu loop that
// parses and validates input, calls session operations and persists the
// state after every change. It holds no domain state of its own.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/clinic"
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/store"
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/triage"
)

var errEmptyInput = errors.New("input cannot be empty")

// Runner drives one interactive session over arbitrary reader/writer pairs,
// so the whole loop is testable without a terminal.
type Runner struct {
	sess  *clinic.Session
	store store.Store
	in    *bufio.Scanner
	out   io.Writer
	log   zerolog.Logger
}

func NewRunner(sess *clinic.Session, st store.Store, in io.Reader, out io.Writer, log zerolog.Logger) *Runner {
	return &Runner{
		sess:  sess,
		store: st,
		in:    bufio.NewScanner(in),
		out:   out,
		log:   log,
	}
}

// Run loops until the user exits or input ends. Validation failures abort
// the current operation and leave all state unchanged.
func (r *Runner) Run() {
	for {
		r.printMenu()
		choice, err := r.readInt("Select: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.persist()
				return
			}
			r.printf("ERROR: %v\n", err)
			continue
		}

		if choice == 0 {
			r.persist()
			r.printf("Goodbye.\n")
			return
		}

		if err := r.dispatch(choice); err != nil {
			if errors.Is(err, io.EOF) {
				r.persist()
				return
			}
			r.printf("ERROR: %v\n", err)
		}
	}
}

func (r *Runner) dispatch(choice int) error {
	switch choice {
	case 1:
		return r.registerPatient()
	case 2:
		return r.lookupPatient()
	case 3:
		return r.addVisit()
	case 4:
		return r.showHistory()
	case 5:
		return r.admitEmergency()
	case 6:
		return r.treatNext()
	case 7:
		return r.scheduleAppointment()
	case 8:
		return r.cancelAppointment()
	case 9:
		return r.rescheduleAppointment()
	case 10:
		return r.listAppointments()
	default:
		r.printf("Invalid option.\n")
		return nil
	}
}

func (r *Runner) printMenu() {
	r.printf("\n=== Clinic Patient Management & Scheduling ===\n")
	r.printf("1) Register Patient\n")
	r.printf("2) Lookup Patient\n")
	r.printf("3) Add Visit Record\n")
	r.printf("4) Show Visit History\n")
	r.printf("5) Admit Emergency\n")
	r.printf("6) Treat Next Emergency\n")
	r.printf("7) Schedule Appointment\n")
	r.printf("8) Cancel Appointment\n")
	r.printf("9) Reschedule Appointment\n")
	r.printf("10) List All Appointments\n")
	r.printf("0) Exit\n")
}

func (r *Runner) registerPatient() error {
	p, err := r.registerPatientFlow("")
	if err != nil {
		return err
	}
	r.printf("OK: Registered: %s\n", p)
	r.persist()
	return nil
}

// registerPatientFlow prompts for the remaining fields. existingID is set
// when the caller already asked for the patient ID (the emergency path).
func (r *Runner) registerPatientFlow(existingID string) (*clinic.Patient, error) {
	id := existingID
	if id == "" {
		var err error
		id, err = r.readNonEmpty("Patient ID (unique): ")
		if err != nil {
			return nil, err
		}
	}
	if _, err := r.sess.LookupPatient(id); err == nil {
		return nil, clinic.ErrPatientExists
	}

	name, err := r.readNonEmpty("Name: ")
	if err != nil {
		return nil, err
	}
	age, err := r.readInt("Age: ")
	if err != nil {
		return nil, err
	}
	genderRaw, err := r.readNonEmpty("Gender (M/F/O): ")
	if err != nil {
		return nil, err
	}
	gender, err := clinic.ParseGender(strings.ToUpper(genderRaw))
	if err != nil {
		return nil, err
	}
	phone, err := r.readNonEmpty("Phone: ")
	if err != nil {
		return nil, err
	}
	notes, err := r.readLine("Medical notes (optional): ")
	if err != nil {
		return nil, err
	}

	return r.sess.RegisterPatient(id, name, age, gender, phone, notes)
}

func (r *Runner) lookupPatient() error {
	id, err := r.readNonEmpty("Patient ID: ")
	if err != nil {
		return err
	}
	p, err := r.sess.LookupPatient(id)
	if err != nil {
		r.printf("NOT FOUND.\n")
		return nil
	}
	r.printf("FOUND: %s\n", p)
	return nil
}

func (r *Runner) addVisit() error {
	id, err := r.readNonEmpty("Patient ID: ")
	if err != nil {
		return err
	}
	record, err := r.readNonEmpty("Visit record text: ")
	if err != nil {
		return err
	}
	if err := r.sess.AddVisit(id, record); err != nil {
		return err
	}
	r.printf("OK: Visit added.\n")
	r.persist()
	return nil
}

func (r *Runner) showHistory() error {
	id, err := r.readNonEmpty("Patient ID: ")
	if err != nil {
		return err
	}
	p, err := r.sess.LookupPatient(id)
	if err != nil {
		return err
	}
	r.printf("\n--- Visit History ---\n%s\n", p.VisitHistory)
	return nil
}

func (r *Runner) admitEmergency() error {
	id, err := r.readNonEmpty("Patient ID: ")
	if err != nil {
		return err
	}
	if _, lookupErr := r.sess.LookupPatient(id); lookupErr != nil {
		resp, err := r.readLine("Patient not found. Register now? (Y/N): ")
		if err != nil {
			return err
		}
		if strings.ToUpper(strings.TrimSpace(resp)) != "Y" {
			r.printf("Canceled.\n")
			return nil
		}
		p, err := r.registerPatientFlow(id)
		if err != nil {
			return err
		}
		r.printf("OK: Registered: %s\n", p)
		r.persist()
	}

	severity, err := r.readInt("Severity (1..10): ")
	if err != nil {
		return err
	}
	if severity < triage.MinSeverity || severity > triage.MaxSeverity {
		return triage.ErrSeverityRange
	}
	complaint, err := r.readNonEmpty("Emergency complaint: ")
	if err != nil {
		return err
	}
	if _, err := r.sess.AdmitEmergency(id, severity, complaint); err != nil {
		return err
	}
	r.printf("OK: added to triage.\n")
	r.persist()
	return nil
}

func (r *Runner) treatNext() error {
	e, err := r.sess.TreatNext()
	if err != nil {
		if errors.Is(err, clinic.ErrQueueEmpty) {
			r.printf("No emergency patients in queue.\n")
			return nil
		}
		return err
	}
	r.printf("TREAT NOW -> [sev %d] %s\n", e.Severity, e.Payload)
	r.persist()
	return nil
}

func (r *Runner) scheduleAppointment() error {
	id, err := r.readNonEmpty("Patient ID: ")
	if err != nil {
		return err
	}
	when, err := r.readNonEmpty("Appointment Date (YYYY-MM-DD HH:MM): ")
	if err != nil {
		return err
	}
	sa, err := r.sess.ScheduleAppointment(id, when)
	if err != nil {
		return err
	}
	r.printf("OK: scheduled: %s\n", sa.Appointment)
	r.printf("Appointment code: %s\n", sa.Code)
	r.persist()
	return nil
}

func (r *Runner) cancelAppointment() error {
	code, err := r.readCode()
	if err != nil {
		return err
	}
	appt, err := r.sess.CancelAppointment(code)
	if err != nil {
		if errors.Is(err, clinic.ErrAppointmentNotFound) {
			r.printf("NOT FOUND.\n")
			return nil
		}
		return err
	}
	r.printf("OK: canceled %s.\n", appt)
	r.persist()
	return nil
}

func (r *Runner) rescheduleAppointment() error {
	code, err := r.readCode()
	if err != nil {
		return err
	}
	when, err := r.readNonEmpty("New DateTime (YYYY-MM-DD HH:MM): ")
	if err != nil {
		return err
	}
	sa, err := r.sess.RescheduleAppointment(code, when)
	if err != nil {
		if errors.Is(err, clinic.ErrAppointmentNotFound) {
			r.printf("NOT FOUND.\n")
			return nil
		}
		return err
	}
	r.printf("OK: rescheduled.\nAppointment code: %s\n", sa.Code)
	r.persist()
	return nil
}

func (r *Runner) listAppointments() error {
	appts := r.sess.Appointments()
	if len(appts) == 0 {
		r.printf("(no appointments)\n")
		return nil
	}
	r.printf("\n--- Appointments (Chronological) ---\n")
	for _, sa := range appts {
		r.printf("CODE=%s  %s\n", sa.Code, sa.Appointment)
	}
	return nil
}

func (r *Runner) readCode() (string, error) {
	code, err := r.readNonEmpty(fmt.Sprintf("Appointment code (%d chars): ", clinic.CodeWidth))
	if err != nil {
		return "", err
	}
	return strings.ToUpper(code), nil
}

// persist writes the whole state, best effort. On failure the in-memory
// state stays authoritative for the rest of the session; the operator is
// told rather than the error being swallowed silently.
func (r *Runner) persist() {
	if err := r.store.Save(r.sess); err != nil {
		r.log.Error().Err(err).Msg("save failed, changes live in memory only")
		r.printf("WARNING: could not save state: %v\n", err)
	}
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *Runner) readLine(prompt string) (string, error) {
	r.printf("%s", prompt)
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(r.in.Text()), nil
}

func (r *Runner) readNonEmpty(prompt string) (string, error) {
	s, err := r.readLine(prompt)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", errEmptyInput
	}
	return s, nil
}

func (r *Runner) readInt(prompt string) (int, error) {
	s, err := r.readNonEmpty(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %q", s)
	}
	return n, nil
}
