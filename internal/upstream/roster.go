package upstream

import (
	"context"
	"fmt"
)

// statusInput is the body for the status-only update endpoints.
type statusInput struct {
	Status string `json:"status"`
}

// ListEmployees returns every employee, active or not.
func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	var out []Employee
	if err := c.get(ctx, "/api/funcionarios", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEmployee registers a new employee.
func (c *Client) CreateEmployee(ctx context.Context, in EmployeeInput) error {
	return c.post(ctx, "/api/funcionarios", in, nil)
}

// SetEmployeeStatus activates or deactivates an employee.
func (c *Client) SetEmployeeStatus(ctx context.Context, id, status string) error {
	return c.patch(ctx, fmt.Sprintf("/api/funcionarios/%s/status", id), statusInput{Status: status})
}

// ListFreelancers returns every freelancer.
func (c *Client) ListFreelancers(ctx context.Context) ([]Freelancer, error) {
	var out []Freelancer
	if err := c.get(ctx, "/api/autonomos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFreelancer registers a new freelancer.
func (c *Client) CreateFreelancer(ctx context.Context, in FreelancerInput) error {
	return c.post(ctx, "/api/autonomos", in, nil)
}

// SetFreelancerStatus activates or deactivates a freelancer.
func (c *Client) SetFreelancerStatus(ctx context.Context, id, status string) error {
	return c.patch(ctx, fmt.Sprintf("/api/autonomos/%s/status", id), statusInput{Status: status})
}

// ListTeams returns every moving crew.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	var out []Team
	if err := c.get(ctx, "/api/equipes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTeam registers a new crew.
func (c *Client) CreateTeam(ctx context.Context, in TeamInput) error {
	return c.post(ctx, "/api/equipes", in, nil)
}

// SetTeamStatus activates or deactivates a crew.
func (c *Client) SetTeamStatus(ctx context.Context, id, status string) error {
	return c.patch(ctx, fmt.Sprintf("/api/equipes/%s/status", id), statusInput{Status: status})
}

// ListVehicles returns every vehicle.
func (c *Client) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	var out []Vehicle
	if err := c.get(ctx, "/api/veiculos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateVehicle registers a new vehicle.
func (c *Client) CreateVehicle(ctx context.Context, in VehicleInput) error {
	return c.post(ctx, "/api/veiculos", in, nil)
}

// SetVehicleStatus activates or deactivates a vehicle.
func (c *Client) SetVehicleStatus(ctx context.Context, id, status string) error {
	return c.patch(ctx, fmt.Sprintf("/api/veiculos/%s/status", id), statusInput{Status: status})
}
