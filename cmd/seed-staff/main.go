// Command seed-staff creates a staff account. Run once per operator at event
// setup:
//
//	go run ./cmd/seed-staff -name alice -password 's3cret' -role admin
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ippeitanaka/orienteering-sub000/config"
	"github.com/ippeitanaka/orienteering-sub000/db"
	"github.com/ippeitanaka/orienteering-sub000/models"
	"github.com/ippeitanaka/orienteering-sub000/repositories"
	"github.com/ippeitanaka/orienteering-sub000/utils"
	_ "github.com/lib/pq"
)

func main() {
	name := flag.String("name", "", "staff member name (login)")
	password := flag.String("password", "", "staff member password")
	role := flag.String("role", "staff", "role: staff or admin")
	checkpointID := flag.Int("checkpoint", 0, "optional checkpoint the member is stationed at")
	flag.Parse()

	if *name == "" || *password == "" {
		log.Fatal("both -name and -password are required")
	}
	if *role != string(models.RoleStaff) && *role != string(models.RoleAdmin) {
		log.Fatalf("invalid role %q: must be staff or admin", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	staff := &models.Staff{
		Name:         *name,
		PasswordHash: hash,
		Role:         models.StaffRole(*role),
	}
	if *checkpointID > 0 {
		staff.CheckpointID = checkpointID
	}

	staffRepo := repositories.NewPostgresStaffRepository(dbConn)
	if err := staffRepo.Create(context.Background(), staff); err != nil {
		log.Fatalf("failed to create staff member: %v", err)
	}

	fmt.Printf("created staff member %q (id=%d, role=%s)\n", staff.Name, staff.ID, staff.Role)
}
