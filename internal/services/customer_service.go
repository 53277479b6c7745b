package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"crmdesk/internal/models"
	"crmdesk/internal/repositories"
	"crmdesk/internal/utils"
)

const recentInteractionsLimit = 50

type CustomerService struct {
	Customers    *repositories.CustomerRepository
	Employees    *repositories.EmployeeRepository
	Categories   *repositories.ServiceCategoryRepository
	Interactions *repositories.InteractionRepository
	Plans        *GoalPlanService
	PhoneRegion  string

	now func() time.Time
}

func NewCustomerService(
	customers *repositories.CustomerRepository,
	employees *repositories.EmployeeRepository,
	categories *repositories.ServiceCategoryRepository,
	interactions *repositories.InteractionRepository,
	plans *GoalPlanService,
	phoneRegion string,
) *CustomerService {
	return &CustomerService{
		Customers:    customers,
		Employees:    employees,
		Categories:   categories,
		Interactions: interactions,
		Plans:        plans,
		PhoneRegion:  phoneRegion,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// YearsKnown counts whole 365-day years between the first contact and now.
func YearsKnown(first *time.Time, now time.Time) int {
	if first == nil || first.IsZero() {
		return 0
	}
	d := now.Sub(*first)
	if d < 0 {
		d = -d
	}
	return int(d / (365 * 24 * time.Hour))
}

// FilterCustomers narrows the roster. Status and priority match exactly;
// search is a case-insensitive substring of company, contact or email.
func FilterCustomers(list []models.CustomerSummary, f models.CustomerFilter) []models.CustomerSummary {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.CustomerSummary, 0, len(list))
	for _, c := range list {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Priority != "" && c.Priority != f.Priority {
			continue
		}
		if search != "" && !matchesSearch(c.Customer, search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesSearch(c models.Customer, needle string) bool {
	fields := []string{c.CompanyName, deref(c.ContactName), deref(c.Email)}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// List returns the finalized roster, annotated and filtered.
func (s *CustomerService) List(ctx context.Context, f models.CustomerFilter) ([]models.CustomerSummary, error) {
	list, err := s.Customers.ListFinalized(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	assigned, err := s.Customers.ListAssignments(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[int64][]string, len(list))
	for _, a := range assigned {
		names[a.CustomerID] = append(names[a.CustomerID], a.FullName())
	}

	now := s.now()
	for i := range list {
		c := &list[i]
		// ", "-joined; null when nobody is assigned
		if staff := names[c.ID]; len(staff) > 0 {
			joined := strings.Join(staff, ", ")
			c.EmployeeNames = &joined
			c.EmployeeCount = len(staff)
		}
		c.YearsKnown = YearsKnown(c.FirstContactDate, now)
		c.ProgressPercentage = ProgressPercentage(models.StepCounts{Total: c.TotalSteps, Completed: c.CompletedSteps})
	}
	return FilterCustomers(list, f), nil
}

func (s *CustomerService) Pending(ctx context.Context) ([]models.PendingCustomer, error) {
	return s.Customers.ListPending(ctx)
}

func (s *CustomerService) Detail(ctx context.Context, id int64) (*models.CustomerDetail, error) {
	d, err := s.Customers.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, NewNotFoundError("customer")
	}
	d.YearsKnown = YearsKnown(d.FirstContactDate, s.now())

	if d.Employees, err = s.Employees.ListForCustomer(ctx, id); err != nil {
		return nil, err
	}
	if d.Interactions, err = s.Interactions.ListRecent(ctx, id, recentInteractionsLimit); err != nil {
		return nil, err
	}
	if d.GoalPlan, err = s.Plans.PlanSummary(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *CustomerService) Create(ctx context.Context, in models.CustomerInput) (int64, error) {
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		return 0, NewValidationError("company_name is required")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return 0, NewValidationError("invalid priority %q", in.Priority)
	}
	if in.Status == "" {
		in.Status = models.CustomerPendingPlan
	}
	if !in.Status.Valid() {
		return 0, NewValidationError("invalid status %q", in.Status)
	}
	if err := s.checkCategory(ctx, in.ServiceCategoryID); err != nil {
		return 0, err
	}

	now := s.now()
	c := &models.Customer{
		CompanyName:       name,
		ContactName:       in.ContactName,
		Email:             in.Email,
		Phone:             s.normalizePhone(in.Phone),
		Address:           in.Address,
		City:              in.City,
		State:             in.State,
		ZipCode:           in.ZipCode,
		Country:           in.Country,
		Website:           in.Website,
		ServiceCategoryID: in.ServiceCategoryID,
		Priority:          in.Priority,
		Status:            in.Status,
		FirstContactDate:  utcPtr(in.FirstContactDate),
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	id, err := s.Customers.Create(ctx, c)
	if err != nil {
		return 0, err
	}
	log.Printf("[customers][create] id=%d company=%q", id, name)
	return id, nil
}

// Update applies the recognised keys of raw and ignores the rest.
func (s *CustomerService) Update(ctx context.Context, id int64, raw map[string]any) error {
	fields := make(map[string]any, len(raw))
	for _, key := range repositories.CustomerUpdatableFields {
		v, ok := raw[key]
		if !ok {
			continue
		}
		val, err := s.convertField(ctx, key, v)
		if err != nil {
			return err
		}
		fields[key] = val
	}
	if len(fields) == 0 {
		return NewValidationError("No valid fields to update")
	}

	ok, err := s.Customers.Update(ctx, id, fields, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("customer")
	}
	return nil
}

func (s *CustomerService) convertField(ctx context.Context, key string, v any) (any, error) {
	switch key {
	case "company_name":
		str, ok := v.(string)
		if !ok || strings.TrimSpace(str) == "" {
			return nil, NewValidationError("company_name must be a non-empty string")
		}
		return strings.TrimSpace(str), nil
	case "priority":
		str, _ := v.(string)
		if !models.CustomerPriority(str).Valid() {
			return nil, NewValidationError("invalid priority %q", str)
		}
		return str, nil
	case "status":
		str, _ := v.(string)
		if !models.CustomerStatus(str).Valid() {
			return nil, NewValidationError("invalid status %q", str)
		}
		return str, nil
	case "service_category_id":
		if v == nil {
			return nil, nil
		}
		n, ok := v.(float64)
		if !ok || n != float64(int64(n)) {
			return nil, NewValidationError("service_category_id must be an integer")
		}
		id := int64(n)
		if err := s.checkCategory(ctx, &id); err != nil {
			return nil, err
		}
		return id, nil
	case "first_contact_date", "last_contact_date":
		if v == nil {
			return nil, nil
		}
		str, ok := v.(string)
		if !ok {
			return nil, NewValidationError("%s must be a date", key)
		}
		t, err := parseDate(str)
		if err != nil {
			return nil, NewValidationError("%s must be a date", key)
		}
		return t, nil
	case "phone":
		if v == nil {
			return nil, nil
		}
		str, ok := v.(string)
		if !ok {
			return nil, NewValidationError("phone must be a string")
		}
		return s.normalizePhone(&str), nil
	default:
		if v == nil {
			return nil, nil
		}
		str, ok := v.(string)
		if !ok {
			return nil, NewValidationError("%s must be a string", key)
		}
		return str, nil
	}
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	ok, err := s.Customers.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("customer")
	}
	log.Printf("[customers][delete] id=%d", id)
	return nil
}

func (s *CustomerService) AssignEmployee(ctx context.Context, customerID int64, in models.AssignmentInput) error {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return err
	}
	e, err := s.Employees.GetByID(ctx, in.EmployeeID)
	if err != nil {
		return err
	}
	if e == nil {
		return NewNotFoundError("employee")
	}
	return s.Customers.AssignEmployee(ctx, customerID, in.EmployeeID, in.Role, s.now())
}

func (s *CustomerService) AddInteraction(ctx context.Context, customerID int64, in models.InteractionInput) (int64, error) {
	if !in.InteractionType.Valid() {
		return 0, NewValidationError("invalid interaction_type %q", in.InteractionType)
	}
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return 0, err
	}
	if in.EmployeeID != nil {
		e, err := s.Employees.GetByID(ctx, *in.EmployeeID)
		if err != nil {
			return 0, err
		}
		if e == nil {
			return 0, NewNotFoundError("employee")
		}
	}
	date := s.now()
	if in.InteractionDate != nil {
		date = in.InteractionDate.UTC()
	}
	return s.Interactions.Create(ctx, &models.Interaction{
		CustomerID:      customerID,
		EmployeeID:      in.EmployeeID,
		InteractionType: in.InteractionType,
		Subject:         in.Subject,
		Description:     in.Description,
		InteractionDate: date,
	})
}

// Statistics aggregates interactions for the detail charts. The monthly trend
// covers the last twelve months and lists only months that have data.
func (s *CustomerService) Statistics(ctx context.Context, customerID int64) (*models.CustomerStatistics, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	byType, err := s.Interactions.CountByType(ctx, customerID)
	if err != nil {
		return nil, err
	}
	dates, err := s.Interactions.DatesSince(ctx, customerID, s.now().AddDate(0, -12, 0))
	if err != nil {
		return nil, err
	}
	involvement, err := s.Interactions.EmployeeInvolvement(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &models.CustomerStatistics{
		InteractionTypes:    byType,
		MonthlyTrend:        MonthlyTrend(dates),
		EmployeeInvolvement: involvement,
	}, nil
}

// MonthlyTrend buckets timestamps by UTC "YYYY-MM" in ascending order.
func MonthlyTrend(dates []time.Time) []models.MonthCount {
	out := []models.MonthCount{}
	for _, d := range dates {
		month := d.UTC().Format("2006-01")
		if n := len(out); n > 0 && out[n-1].Month == month {
			out[n-1].Count++
			continue
		}
		out = append(out, models.MonthCount{Month: month, Count: 1})
	}
	return out
}

func (s *CustomerService) ListCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	return s.Categories.List(ctx)
}

func (s *CustomerService) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.Employees.List(ctx)
}

func (s *CustomerService) requireCustomer(ctx context.Context, id int64) error {
	c, err := s.Customers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return NewNotFoundError("customer")
	}
	return nil
}

func (s *CustomerService) checkCategory(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	ok, err := s.Categories.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return NewValidationError("unknown service_category_id %d", *id)
	}
	return nil
}

func (s *CustomerService) normalizePhone(p *string) *string {
	if p == nil {
		return nil
	}
	n := utils.NormalizePhone(*p, s.PhoneRegion)
	if n == "" {
		return nil
	}
	return &n
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
