package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/example/omrsheet/internal/database"
	"github.com/example/omrsheet/internal/history"
	"github.com/example/omrsheet/internal/scheduler"
	"github.com/example/omrsheet/internal/settings"
)

// logNotifier prints goal reminders to the application log. A real front
// end plugs its own scheduler.Notifier in instead.
type logNotifier struct{}

func (logNotifier) SendGoalReminder(completed, goal int) error {
	log.Printf("Weekly goal reminder: %d of %d tests completed this week", completed, goal)
	return nil
}

func main() {
	// Load optional .env configuration
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Skipping .env: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Connect to the local database
	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	store := database.NewSQLStore()

	settingsRepo := settings.NewRepository(store)
	current := settingsRepo.Load()
	log.Printf("Settings loaded (onboarding complete: %v)", current.IsOnboardingComplete)

	archive := history.NewArchive(store)
	tests, skipped, err := archive.ListAll()
	if err != nil {
		log.Fatalf("Failed to read test history: %v", err)
	}
	if skipped > 0 {
		log.Printf("History contains %d unreadable record(s); they will be ignored", skipped)
	}
	log.Printf("Loaded %d archived test(s)", len(tests))

	// Start the weekly-goal reminder scheduler
	sched := scheduler.New(archive, settingsRepo, logNotifier{})
	sched.Start()
	defer sched.Stop()

	log.Println("omrsheet engine started. Press Ctrl+C to stop.")
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)
}
