// Command seed fills the configured database with demo customers, plans,
// interactions and leads.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"crmdesk/internal/config"
	"crmdesk/internal/database"
	"crmdesk/internal/models"
	"crmdesk/internal/repositories"
	"crmdesk/internal/services"
)

func main() {
	customers := flag.Int("customers", 25, "number of customers to create")
	leads := flag.Int("leads", 10, "number of leads to create")
	seed := flag.Int64("seed", 0, "random seed, 0 for time based")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("load config: ", err)
	}
	ctx := context.Background()

	db, err := database.Open(ctx, cfg.Database.DSN, cfg.Database.Pool)
	if err != nil {
		log.Fatal("open database: ", err)
	}
	defer db.Close()
	if err := database.Bootstrap(ctx, db); err != nil {
		log.Fatal("bootstrap schema: ", err)
	}

	gofakeit.Seed(*seed)

	customerRepo := repositories.NewCustomerRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	plans := services.NewGoalPlanService(repositories.NewGoalPlanRepository(db), customerRepo, nil)
	customerSvc := services.NewCustomerService(
		customerRepo,
		employeeRepo,
		repositories.NewServiceCategoryRepository(db),
		repositories.NewInteractionRepository(db),
		plans,
		cfg.PhoneRegion,
	)
	leadSvc := services.NewLeadService(repositories.NewLeadRepository(db), nil, nil, cfg.PhoneRegion)

	employees, err := employeeRepo.List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	categories, err := customerSvc.ListCategories(ctx)
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < *customers; i++ {
		id, err := seedCustomer(ctx, customerSvc, categories)
		if err != nil {
			log.Fatalf("customer %d: %v", i, err)
		}
		if err := seedActivity(ctx, customerSvc, id, employees); err != nil {
			log.Fatalf("customer %d activity: %v", id, err)
		}
		if err := seedPlan(ctx, plans, id); err != nil {
			log.Fatalf("customer %d plan: %v", id, err)
		}
	}

	for i := 0; i < *leads; i++ {
		phone := gofakeit.Phone()
		source := gofakeit.RandomString([]string{"website", "referral", "event", "ads"})
		if _, err := leadSvc.Create(ctx, models.LeadInput{
			Name:   gofakeit.Name(),
			Email:  gofakeit.Email(),
			Phone:  &phone,
			Source: &source,
		}); err != nil {
			log.Fatalf("lead %d: %v", i, err)
		}
	}

	fmt.Printf("seeded %d customers and %d leads\n", *customers, *leads)
}

func seedCustomer(ctx context.Context, svc *services.CustomerService, categories []models.ServiceCategory) (int64, error) {
	contact := gofakeit.Name()
	email := gofakeit.Email()
	phone := gofakeit.Phone()
	street := gofakeit.Street()
	city := gofakeit.City()
	state := gofakeit.StateAbr()
	zip := gofakeit.Zip()
	country := "USA"
	website := gofakeit.URL()
	notes := gofakeit.Sentence(8)
	first := gofakeit.DateRange(time.Now().AddDate(-8, 0, 0), time.Now())

	in := models.CustomerInput{
		CompanyName:      gofakeit.Company(),
		ContactName:      &contact,
		Email:            &email,
		Phone:            &phone,
		Address:          &street,
		City:             &city,
		State:            &state,
		ZipCode:          &zip,
		Country:          &country,
		Website:          &website,
		Priority:         models.CustomerPriorities[gofakeit.Number(0, len(models.CustomerPriorities)-1)],
		FirstContactDate: &first,
		Notes:            &notes,
	}
	if len(categories) > 0 {
		id := categories[gofakeit.Number(0, len(categories)-1)].ID
		in.ServiceCategoryID = &id
	}
	return svc.Create(ctx, in)
}

func seedActivity(ctx context.Context, svc *services.CustomerService, customerID int64, employees []models.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	roles := []string{"Account Manager", "Consultant", "Support"}
	for n := gofakeit.Number(1, 3); n > 0; n-- {
		e := employees[gofakeit.Number(0, len(employees)-1)]
		role := gofakeit.RandomString(roles)
		if err := svc.AssignEmployee(ctx, customerID, models.AssignmentInput{EmployeeID: e.ID, Role: &role}); err != nil {
			return err
		}
	}
	for n := gofakeit.Number(0, 12); n > 0; n-- {
		e := employees[gofakeit.Number(0, len(employees)-1)]
		subject := gofakeit.BS()
		date := gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now())
		if _, err := svc.AddInteraction(ctx, customerID, models.InteractionInput{
			EmployeeID:      &e.ID,
			InteractionType: models.InteractionTypes[gofakeit.Number(0, len(models.InteractionTypes)-1)],
			Subject:         &subject,
			InteractionDate: &date,
		}); err != nil {
			return err
		}
	}
	return nil
}

// seedPlan leaves roughly a third of customers without a plan, some with a
// draft, and finalizes the rest with a random share of steps done.
func seedPlan(ctx context.Context, plans *services.GoalPlanService, customerID int64) error {
	switch gofakeit.Number(0, 5) {
	case 0, 1:
		return nil
	}
	if _, err := plans.CreatePlan(ctx, customerID); err != nil {
		return err
	}
	var steps []*models.GoalStep
	for n := gofakeit.Number(1, 6); n > 0; n-- {
		st, err := plans.AddStep(ctx, customerID, gofakeit.HipsterSentence(4), nil)
		if err != nil {
			return err
		}
		steps = append(steps, st)
	}
	if gofakeit.Number(0, 3) == 0 {
		return nil
	}
	if _, err := plans.FinalizePlan(ctx, customerID); err != nil {
		return err
	}
	done := true
	for _, st := range steps {
		if !gofakeit.Bool() {
			continue
		}
		if _, err := plans.UpdateStep(ctx, customerID, st.ID, models.StepUpdate{IsCompleted: &done}); err != nil {
			return err
		}
	}
	return nil
}
