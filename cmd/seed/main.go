// Seeds the state file with fake patients and appointments for demos and
// manual testing. Run it once, then start cmd/clinic on the same data file.
package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/clinic"
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/config"
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/observability"
	"github.com/Abduttayyeb07/Hospital-Patient-Management-Scheduling-System/internal/store"
)

const (
	patientCount     = 25
	appointmentCount = 40
)

func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	log.Info().Str("data_file", cfg.DataFile).Msg("seed starting")

	gofakeit.Seed(time.Now().UnixNano())

	sess := clinic.NewSession(log)
	genders := []clinic.Gender{clinic.GenderMale, clinic.GenderFemale, clinic.GenderOther}

	ids := make([]string, 0, patientCount)
	for i := 0; i < patientCount; i++ {
		id := "P-" + uuid.NewString()[:8]
		_, err := sess.RegisterPatient(
			id,
			gofakeit.Name(),
			gofakeit.Number(1, 95),
			genders[gofakeit.Number(0, len(genders)-1)],
			gofakeit.Phone(),
			gofakeit.Sentence(6),
		)
		if err != nil {
			log.Fatal().Err(err).Str("patient_id", id).Msg("seed patient")
		}
		ids = append(ids, id)
	}

	for i := 0; i < appointmentCount; i++ {
		id := ids[gofakeit.Number(0, len(ids)-1)]
		at := time.Now().
			AddDate(0, 0, gofakeit.Number(1, 30)).
			Truncate(time.Hour).
			Add(time.Duration(gofakeit.Number(9*60, 17*60)) * time.Minute)
		if _, err := sess.ScheduleAppointment(id, at.Format(clinic.TimeLayout)); err != nil {
			log.Fatal().Err(err).Str("patient_id", id).Msg("seed appointment")
		}
	}

	fileStore := store.NewFileStore(cfg.DataFile, cfg.CSVFile, "", log)
	if err := fileStore.Save(sess); err != nil {
		log.Fatal().Err(err).Msg("write seed state")
	}

	fmt.Printf("seeded %d patients and %d appointments into %s\n",
		patientCount, appointmentCount, cfg.DataFile)
	log.Info().Msg("seed complete")
}
