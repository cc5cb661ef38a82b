package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akademix/examly-backend/internal/config"
	"github.com/akademix/examly-backend/internal/database"
	"github.com/akademix/examly-backend/internal/logger"
	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/repository"
	"github.com/akademix/examly-backend/internal/service"
	"github.com/fatih/color"
)

// Seeds a demo data set: 20 students, one admin, one proctor, and a published
// exam with a small question bank. Intended for local development only.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	studentRepo := repository.NewStudentRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	authService := service.NewAuthService(cfg, rdb)
	studentService := service.NewStudentService(studentRepo, authService)
	staffService := service.NewStaffService(staffRepo, authService)
	examService := service.NewExamService(examRepo, questionRepo, rdb, log)

	color.Cyan("=== Seeding Demo Data ===")

	names := []string{
		"Alma Reyes", "Ben Okafor", "Carla Jensen", "Daan Visser", "Elif Kaya",
		"Franco Moretti", "Greta Lindqvist", "Hugo Marchand", "Ines Costa", "Jonas Weber",
		"Katya Morozova", "Liam Doyle", "Mei Tanaka", "Noor Haddad", "Omar Farouk",
		"Priya Nair", "Quentin Laurent", "Rosa Alvarez", "Samir Chaudhry", "Tessa Brouwer",
	}

	created := 0
	for i, name := range names {
		code := fmt.Sprintf("STU%04d", i+1)
		if _, err := studentService.Create(ctx, code, name, "student123"); err != nil {
			log.Warn().Err(err).Str("code", code).Msg("Skipping student")
			continue
		}
		created++
	}
	color.Green("Created %d students (password: student123)", created)

	admin, err := staffService.Create(ctx, "Demo Admin", "admin@examly.local", "admin123", model.StaffRoleAdmin)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}
	if _, err := staffService.Create(ctx, "Demo Proctor", "proctor@examly.local", "proctor123", model.StaffRoleProctor); err != nil {
		log.Fatal().Err(err).Msg("Failed to create proctor")
	}
	color.Green("Created staff users admin@examly.local / proctor@examly.local")

	exam, err := examService.Create(ctx, admin.ID, &model.CreateExamRequest{
		Title:           "Demo Mathematics Exam",
		DurationMinutes: 45,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create exam")
	}

	options, _ := json.Marshal([]string{"A", "B", "C", "D"})
	questions := make([]model.AddQuestionRequest, 0, 10)
	for i := 0; i < 10; i++ {
		questions = append(questions, model.AddQuestionRequest{
			QuestionText: fmt.Sprintf("Demo question %d: pick the correct option.", i+1),
			QuestionType: string(model.QuestionTypeMultipleChoice),
			Options:      options,
			OrderNum:     i + 1,
		})
	}
	if _, err := examService.ReplaceQuestions(ctx, exam.ID, &model.ReplaceQuestionsRequest{Questions: questions}); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed questions")
	}

	if _, err := examService.Publish(ctx, exam.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to publish exam")
	}

	color.Green("Published exam %s with 10 questions", exam.ID)
	color.Cyan("Done.")
}
