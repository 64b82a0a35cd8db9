package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/carnance/crm-sync-backend/internal/infra/integration/twentycrm"
)

// Smoke test against a real Twenty instance. Creates one person (upsert) and
// a follow-up task, printing whatever the CRM answers.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ no .env file found, using system environment")
	}

	baseURL := os.Getenv("CRM_BASE_URL")
	if baseURL == "" {
		log.Fatal("❌ CRM_BASE_URL must be set")
	}

	client := twentycrm.NewClient(twentycrm.Config{
		BaseURL:  baseURL,
		APIToken: os.Getenv("CRM_API_TOKEN"),
		Timeout:  15 * time.Second,
	})

	payload := twentycrm.PersonPayload{
		LeadID: "smoke-test-001",
		Name:   twentycrm.Name{FirstName: "Smoke", LastName: "Test"},
		Emails: twentycrm.Emails{PrimaryEmail: "smoke.test@example.com"},
		City:   "Waterloo",
	}

	fmt.Println("🔄 Upserting person in Twenty...")
	fmt.Printf("   leadId: %s\n", payload.LeadID)
	fmt.Printf("   name:   %s %s\n", payload.Name.FirstName, payload.Name.LastName)
	fmt.Printf("   email:  %s\n\n", payload.Emails.PrimaryEmail)

	ctx := context.Background()

	person, err := client.CreatePerson(ctx, payload, true)
	if err != nil {
		log.Fatalf("❌ person upsert failed: %v", err)
	}
	fmt.Printf("✅ person upserted, id: %s\n", person.PersonID())

	task, err := client.CreateTask(ctx, twentycrm.TaskPayload{
		Title:    "Smoke Test",
		Status:   "BACKLOG",
		PersonID: person.PersonID(),
	})
	if err != nil {
		log.Fatalf("❌ task creation failed: %v", err)
	}
	fmt.Printf("✅ follow-up task created, id: %s\n", task.ID)
}
