package upstream

// The business API predates this console and speaks Portuguese on the wire:
// field names, endpoint paths and status labels. The JSON tags below are the
// API's contract; everything above this package uses the English names.

// Status values as the API stores them.
const (
	StatusActive   = "ativo"
	StatusInactive = "inativado"
)

// Subject is the embedded person reference on report records.
type Subject struct {
	ID   string `json:"_id"`
	Name string `json:"nome"`
}

// Employee is a salaried crew member.
type Employee struct {
	ID     string `json:"_id"`
	Name   string `json:"nome"`
	Email  string `json:"email"`
	Team   string `json:"equipe"`
	Status string `json:"status"`
}

// EmployeeInput creates an employee.
type EmployeeInput struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Team     string `json:"equipe"`
	Status   string `json:"status"`
}

// Freelancer is a per-day contractor.
type Freelancer struct {
	ID     string `json:"_id"`
	Name   string `json:"nome"`
	Status string `json:"status"`
}

// FreelancerInput creates a freelancer.
type FreelancerInput struct {
	Name   string `json:"nome"`
	Status string `json:"status"`
}

// Team is a named moving crew.
type Team struct {
	ID     string `json:"_id"`
	Name   string `json:"nome"`
	Status string `json:"status"`
}

// TeamInput creates a team.
type TeamInput struct {
	Name   string `json:"nome"`
	Status string `json:"status"`
}

// Vehicle is a truck or van.
type Vehicle struct {
	ID     string `json:"_id"`
	Name   string `json:"nome"`
	Status string `json:"status"`
}

// VehicleInput creates a vehicle.
type VehicleInput struct {
	Name   string `json:"nome"`
	Status string `json:"status"`
}

// Request is a scheduled moving job.
type Request struct {
	ID          string `json:"_id"`
	Title       string `json:"titulo"`
	DeliveryOn  string `json:"data_entrega"`
	PickupOn    string `json:"data_retirada"`
	Team        string `json:"equipe"`
	Vehicle     string `json:"veiculo"`
	Description string `json:"descricao,omitempty"`
	Status      string `json:"status"`
}

// RequestInput creates a moving request.
type RequestInput struct {
	Title       string `json:"titulo"`
	DeliveryOn  string `json:"data_entrega"`
	PickupOn    string `json:"data_retirada"`
	Team        string `json:"equipe"`
	Vehicle     string `json:"veiculo"`
	Description string `json:"descricao,omitempty"`
	Status      string `json:"status"`
}

// Request status values; requests use "em-andamento" rather than "ativo".
const (
	RequestStatusOngoing  = "em-andamento"
	RequestStatusInactive = "inativado"
)

// AwardRecord is one employee hour entry as the awards report reads it:
// an overnight stay and/or a stairs carry, each with its own date, plus a
// bonus value. Dates stay raw strings; the report engine normalizes them.
type AwardRecord struct {
	ID            string     `json:"_id"`
	Employee      Subject    `json:"funcionario"`
	Overnight     bool       `json:"pernoite"`
	OvernightDate string     `json:"data_pernoite"`
	Stairs        bool       `json:"escada"`
	StairsDate    string     `json:"data_escada"`
	Hours         FlexNumber `json:"horas"`
	Value         FlexNumber `json:"valor"`
}

// Dates returns the record's date-bearing fields for the report filter.
func (r AwardRecord) Dates() []string {
	return []string{r.OvernightDate, r.StairsDate}
}

// PaymentRecord is one freelancer payment row: a day rate and/or a stairs
// carry, and the amount owed.
type PaymentRecord struct {
	ID         string     `json:"_id"`
	Freelancer Subject    `json:"autonomo"`
	DayRate    bool       `json:"diaria"`
	DayDate    string     `json:"data_diaria"`
	Stairs     bool       `json:"escada"`
	StairsDate string     `json:"data_escada"`
	Owed       FlexNumber `json:"pagar"`
}

// Dates returns the record's date-bearing fields for the report filter.
func (r PaymentRecord) Dates() []string {
	return []string{r.DayDate, r.StairsDate}
}

// PaymentInput updates a payment row in place.
type PaymentInput struct {
	DayRate    bool       `json:"diaria"`
	DayDate    string     `json:"data_diaria"`
	Stairs     bool       `json:"escada"`
	StairsDate string     `json:"data_escada"`
	Owed       FlexNumber `json:"pagar"`
}

// EmployeeHoursInput records one worked day for an employee.
type EmployeeHoursInput struct {
	EmployeeID    string     `json:"funcionario"`
	Overnight     bool       `json:"pernoite"`
	OvernightDate string     `json:"data_pernoite,omitempty"`
	Stairs        bool       `json:"escada"`
	StairsDate    string     `json:"data_escada,omitempty"`
	Hours         FlexNumber `json:"horas"`
	Value         FlexNumber `json:"valor"`
}

// FreelancerHoursInput records one worked day for a freelancer.
type FreelancerHoursInput struct {
	FreelancerID string     `json:"autonomo"`
	Date         string     `json:"data"`
	Hours        FlexNumber `json:"horas"`
	Overnight    bool       `json:"pernoite"`
	Owed         FlexNumber `json:"pagar,omitempty"`
}

// HourRecord is one freelancer hour entry as the summary screen reads it.
type HourRecord struct {
	ID         string     `json:"_id"`
	Freelancer Subject    `json:"autonomo"`
	Date       string     `json:"data"`
	Hours      FlexNumber `json:"horas"`
	Overnight  bool       `json:"pernoite"`
}

// Dates returns the record's date-bearing fields for the report filter.
func (r HourRecord) Dates() []string {
	return []string{r.Date}
}
