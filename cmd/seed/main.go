// Command seed creates the schema and fills it with demo questionnaires.
// It can be rerun against an existing database: demo users are reused and
// each run adds two more teachers with fresh responses.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/godilite/survey-stats/internal/config"
	"github.com/godilite/survey-stats/internal/repository"
	"github.com/godilite/survey-stats/internal/repository/models"
	"github.com/godilite/survey-stats/internal/transport/rest/middleware"
	dbbuilder "github.com/godilite/survey-stats/pkg/database"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var (
	demoQuestions = []string{
		"The teacher explains the material clearly",
		"The teacher is well prepared",
		"The workload is appropriate",
	}
	demoAnswers = []string{
		"Strongly Disagree", "Disagree", "Slightly Disagree",
		"Slightly Agree", "Agree", "Strongly Agree",
	}
)

func main() {
	responses := flag.Int("responses", 60, "responses to create per teacher")
	flag.Parse()

	_ = godotenv.Load(".env")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger, *responses); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, perTeacher int) error {
	db, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.CreateSchema(ctx, db); err != nil {
		return err
	}
	repo := repository.NewResponseRepository(db)

	subjectID, err := repo.CreateSubject(ctx, "Mathematics")
	if err != nil {
		return err
	}

	var userIDs []int64
	for i := 1; i <= 5; i++ {
		id, err := repo.EnsureUser(ctx, fmt.Sprintf("student%d", i))
		if err != nil {
			return err
		}
		userIDs = append(userIDs, id)
	}

	now := time.Now()
	for _, name := range [][2]string{{"Ada", "Lovelace"}, {"Alan", "Turing"}} {
		teacherID, err := repo.CreateTeacher(ctx, name[0], name[1])
		if err != nil {
			return err
		}

		for i := 0; i < perTeacher; i++ {
			rec := models.ResponseRecord{
				TeacherID: teacherID,
				SubjectID: subjectID,
				Choice:    models.ChoiceAnonymous,
				CreatedAt: now.Add(-time.Duration(rand.IntN(365*24)) * time.Hour),
			}
			if rand.IntN(3) > 0 {
				rec.Choice = models.ChoiceIdentified
				rec.UserID = userIDs[rand.IntN(len(userIDs))]
			}
			for _, q := range demoQuestions {
				rec.Questions = append(rec.Questions, models.QuestionAnswer{
					Question: q,
					Answer:   demoAnswers[rand.IntN(len(demoAnswers))],
				})
			}
			if _, err := repo.InsertResponse(ctx, rec); err != nil {
				return err
			}
		}
		logger.Info("seeded teacher",
			zap.Int64("teacher_id", teacherID),
			zap.String("name", name[0]+" "+name[1]),
			zap.Int("responses", perTeacher))
	}

	if auth := middleware.NewAuth(cfg.JWTSecret); auth.Enabled() {
		token, err := auth.SignStaffToken("seed-admin", 24*time.Hour)
		if err != nil {
			return err
		}
		logger.Info("staff token for the REST API", zap.String("token", token))
	}
	return nil
}
