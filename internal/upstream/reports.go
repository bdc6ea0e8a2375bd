package upstream

import (
	"context"
	"fmt"
)

// ListRequests returns every moving request.
func (c *Client) ListRequests(ctx context.Context) ([]Request, error) {
	var out []Request
	if err := c.get(ctx, "/api/pedidos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRequest schedules a new moving job.
func (c *Client) CreateRequest(ctx context.Context, in RequestInput) error {
	return c.post(ctx, "/api/pedidos", in, nil)
}

// SetRequestStatus moves a request between ongoing and inactive.
func (c *Client) SetRequestStatus(ctx context.Context, id, status string) error {
	return c.patch(ctx, fmt.Sprintf("/api/pedidos/%s/status", id), statusInput{Status: status})
}

// ListAwards returns all employee hour entries carrying award data.
func (c *Client) ListAwards(ctx context.Context) ([]AwardRecord, error) {
	var out []AwardRecord
	if err := c.get(ctx, "/api/data", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPayments returns all freelancer payment rows.
func (c *Client) ListPayments(ctx context.Context) ([]PaymentRecord, error) {
	var out []PaymentRecord
	if err := c.get(ctx, "/api/dados-autonomo", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePayment overwrites a payment row.
func (c *Client) UpdatePayment(ctx context.Context, id string, in PaymentInput) error {
	return c.put(ctx, "/api/dados-autonomo/"+id, in)
}

// DeletePayment removes a payment row.
func (c *Client) DeletePayment(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/dados-autonomo/"+id)
}

// CreateEmployeeHours records a worked day for an employee. The entry feeds
// the awards report.
func (c *Client) CreateEmployeeHours(ctx context.Context, in EmployeeHoursInput) error {
	return c.post(ctx, "/api/data", in, nil)
}

// CreateFreelancerHours records a worked day for a freelancer. The entry
// feeds both the payment rows and the hours summary.
func (c *Client) CreateFreelancerHours(ctx context.Context, in FreelancerHoursInput) error {
	return c.post(ctx, "/api/horas-autonomo", in, nil)
}

// ListFreelancerHours returns freelancer hour entries for the summary screen.
func (c *Client) ListFreelancerHours(ctx context.Context) ([]HourRecord, error) {
	var out []HourRecord
	if err := c.get(ctx, "/api/horas-autonomo", &out); err != nil {
		return nil, err
	}
	return out, nil
}
